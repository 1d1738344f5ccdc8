package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/airbook-dev/airbook/internal/domain"
	"github.com/jackc/pgx/v5"
)

type BookingRepository interface {
	Create(ctx context.Context, q Querier, b *domain.Booking) error
	CreateSeats(ctx context.Context, q Querier, bookingID string, lines []domain.BookingSeat) error
	// GetByIDAndUser doubles as the ownership check: a booking that exists
	// but belongs to someone else is reported as not found.
	GetByIDAndUser(ctx context.Context, q Querier, bookingID string, userID int64) (*domain.Booking, error)
	ListSeats(ctx context.Context, q Querier, bookingID string) ([]domain.BookingSeat, error)
	ListByUser(ctx context.Context, q Querier, userID int64) ([]domain.Booking, error)
	// UpdateStatus transitions from one status to another; the conditional
	// WHERE makes a lost race observable as Conflict.
	UpdateStatus(ctx context.Context, q Querier, bookingID string, from, to domain.BookingStatus) error
	Delete(ctx context.Context, q Querier, bookingID string) error
	ListPendingBefore(ctx context.Context, q Querier, deadline time.Time) ([]domain.Booking, error)
}

type PGBookingRepository struct{}

func NewBookingRepository() BookingRepository {
	return &PGBookingRepository{}
}

const bookingColumns = `booking_id, user_id, flight_id, total_price, status, booking_date, updated_at`

func scanBooking(row pgx.Row, b *domain.Booking) error {
	return row.Scan(&b.ID, &b.UserID, &b.FlightID, &b.TotalPrice, &b.Status, &b.BookingDate, &b.UpdatedAt)
}

func (r *PGBookingRepository) Create(ctx context.Context, q Querier, b *domain.Booking) error {
	b.Status = domain.BookingStatusPending
	return q.QueryRow(ctx, `INSERT INTO bookings (booking_id, user_id, flight_id, total_price, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING booking_date, updated_at`,
		b.ID, b.UserID, b.FlightID, b.TotalPrice, b.Status).
		Scan(&b.BookingDate, &b.UpdatedAt)
}

func (r *PGBookingRepository) CreateSeats(ctx context.Context, q Querier, bookingID string, lines []domain.BookingSeat) error {
	for _, line := range lines {
		_, err := q.Exec(ctx, `INSERT INTO booking_seats (booking_id, seat_id, seat_number, seat_class_id, price)
			VALUES ($1, $2, $3, $4, $5)`,
			bookingID, line.SeatID, line.SeatNumber, line.SeatClassID, line.Price)
		if err != nil {
			return fmt.Errorf("insert seat line %s: %w", line.SeatNumber, err)
		}
	}
	return nil
}

func (r *PGBookingRepository) GetByIDAndUser(ctx context.Context, q Querier, bookingID string, userID int64) (*domain.Booking, error) {
	row := q.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE booking_id = $1 AND user_id = $2`, bookingID, userID)
	var b domain.Booking
	if err := scanBooking(row, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("booking not found")
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) ListSeats(ctx context.Context, q Querier, bookingID string) ([]domain.BookingSeat, error) {
	rows, err := q.Query(ctx, `SELECT bs.seat_id, bs.seat_number, bs.seat_class_id, sc.class_name, sc.price_multiplier, bs.price
		FROM booking_seats bs
		JOIN seat_classes sc ON sc.seat_class_id = bs.seat_class_id
		WHERE bs.booking_id = $1
		ORDER BY bs.id`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make([]domain.BookingSeat, 0)
	for rows.Next() {
		var l domain.BookingSeat
		if err := rows.Scan(&l.SeatID, &l.SeatNumber, &l.SeatClassID, &l.ClassName, &l.PriceMultiplier, &l.Price); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, q Querier, userID int64) ([]domain.Booking, error) {
	rows, err := q.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id = $1 ORDER BY booking_date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) UpdateStatus(ctx context.Context, q Querier, bookingID string, from, to domain.BookingStatus) error {
	cmd, err := q.Exec(ctx, `UPDATE bookings SET status = $3, updated_at = now()
		WHERE booking_id = $1 AND status = $2`, bookingID, from, to)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.Conflict(fmt.Sprintf("booking is not in %s status", from))
	}
	return nil
}

// Delete removes the booking row; seat lines and the payment record go with
// it via cascading foreign keys.
func (r *PGBookingRepository) Delete(ctx context.Context, q Querier, bookingID string) error {
	cmd, err := q.Exec(ctx, `DELETE FROM bookings WHERE booking_id = $1`, bookingID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("booking not found")
	}
	return nil
}

func (r *PGBookingRepository) ListPendingBefore(ctx context.Context, q Querier, deadline time.Time) ([]domain.Booking, error) {
	rows, err := q.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE status = $1 AND booking_date <= $2`,
		domain.BookingStatusPending, deadline)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
