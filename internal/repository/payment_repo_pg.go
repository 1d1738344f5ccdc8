package repository

import (
	"context"
	"errors"

	"github.com/airbook-dev/airbook/internal/domain"
	"github.com/jackc/pgx/v5"
)

type PaymentRepository interface {
	Create(ctx context.Context, q Querier, p *domain.Payment) error
	GetByOrderID(ctx context.Context, q Querier, orderID string) (*domain.Payment, error)
	UpdateDetails(ctx context.Context, q Querier, orderID, paymentID, signature string, status domain.PaymentStatus) error
}

type PGPaymentRepository struct{}

func NewPaymentRepository() PaymentRepository {
	return &PGPaymentRepository{}
}

func (r *PGPaymentRepository) Create(ctx context.Context, q Querier, p *domain.Payment) error {
	err := q.QueryRow(ctx, `INSERT INTO payments (booking_id, razorpay_order_id, amount, currency, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING payment_id, created_at, updated_at`,
		p.BookingID, p.RazorpayOrderID, p.Amount, p.Currency, p.Status).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("payment order already exists")
		}
		return err
	}
	return nil
}

func (r *PGPaymentRepository) GetByOrderID(ctx context.Context, q Querier, orderID string) (*domain.Payment, error) {
	row := q.QueryRow(ctx, `SELECT payment_id, booking_id, razorpay_order_id,
			coalesce(razorpay_payment_id, ''), coalesce(razorpay_signature, ''),
			amount, currency, status, created_at, updated_at
		FROM payments WHERE razorpay_order_id = $1`, orderID)

	var p domain.Payment
	err := row.Scan(&p.ID, &p.BookingID, &p.RazorpayOrderID, &p.RazorpayPaymentID, &p.RazorpaySignature,
		&p.Amount, &p.Currency, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("payment order not found")
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGPaymentRepository) UpdateDetails(ctx context.Context, q Querier, orderID, paymentID, signature string, status domain.PaymentStatus) error {
	cmd, err := q.Exec(ctx, `UPDATE payments
		SET razorpay_payment_id = $2, razorpay_signature = $3, status = $4, updated_at = now()
		WHERE razorpay_order_id = $1`, orderID, paymentID, signature, status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("payment order not found")
	}
	return nil
}

var _ PaymentRepository = (*PGPaymentRepository)(nil)
