package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/airbook-dev/airbook/internal/domain"
	"github.com/jackc/pgx/v5"
)

type SeatRepository interface {
	// FindByNumberForUpdate locks the seat row for the duration of the
	// caller's transaction. It returns booked seats too; availability is
	// the caller's decision.
	FindByNumberForUpdate(ctx context.Context, q Querier, flightID int64, seatNumber string) (*domain.Seat, error)
	SetBooked(ctx context.Context, q Querier, seatID int64, booked bool) error
	BulkCreate(ctx context.Context, q Querier, flightID int64, seats []domain.SeatSpec) (int, error)
	ListByFlight(ctx context.Context, q Querier, flightID int64) ([]domain.Seat, error)
}

type PGSeatRepository struct{}

func NewSeatRepository() SeatRepository {
	return &PGSeatRepository{}
}

func (r *PGSeatRepository) FindByNumberForUpdate(ctx context.Context, q Querier, flightID int64, seatNumber string) (*domain.Seat, error) {
	row := q.QueryRow(ctx, `SELECT s.seat_id, s.flight_id, s.seat_class_id, s.seat_number, s.is_booked,
			sc.class_name, sc.price_multiplier
		FROM seats s
		JOIN seat_classes sc ON sc.seat_class_id = s.seat_class_id
		WHERE s.flight_id = $1 AND s.seat_number = $2
		FOR UPDATE OF s`, flightID, seatNumber)

	var s domain.Seat
	err := row.Scan(&s.ID, &s.FlightID, &s.SeatClassID, &s.SeatNumber, &s.IsBooked, &s.ClassName, &s.PriceMultiplier)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound(fmt.Sprintf("seat %s does not exist on this flight", seatNumber))
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGSeatRepository) SetBooked(ctx context.Context, q Querier, seatID int64, booked bool) error {
	cmd, err := q.Exec(ctx, `UPDATE seats SET is_booked = $2 WHERE seat_id = $1`, seatID, booked)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("seat not found")
	}
	return nil
}

// BulkCreate inserts all seats in one statement, resolving each class name
// to its id on the fly.
func (r *PGSeatRepository) BulkCreate(ctx context.Context, q Querier, flightID int64, seats []domain.SeatSpec) (int, error) {
	if len(seats) == 0 {
		return 0, nil
	}

	values := make([]string, 0, len(seats))
	args := make([]any, 0, len(seats)*2+1)
	args = append(args, flightID)
	for _, s := range seats {
		args = append(args, s.SeatNumber, s.ClassName)
		values = append(values, fmt.Sprintf("($1, $%d, (SELECT seat_class_id FROM seat_classes WHERE class_name = $%d))",
			len(args)-1, len(args)))
	}

	sql := `INSERT INTO seats (flight_id, seat_number, seat_class_id) VALUES ` + strings.Join(values, ", ")
	cmd, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return int(cmd.RowsAffected()), nil
}

func (r *PGSeatRepository) ListByFlight(ctx context.Context, q Querier, flightID int64) ([]domain.Seat, error) {
	rows, err := q.Query(ctx, `SELECT s.seat_id, s.flight_id, s.seat_class_id, s.seat_number, s.is_booked,
			sc.class_name, sc.price_multiplier
		FROM seats s
		JOIN seat_classes sc ON sc.seat_class_id = s.seat_class_id
		WHERE s.flight_id = $1
		ORDER BY s.seat_id`, flightID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.Seat, 0)
	for rows.Next() {
		var s domain.Seat
		if err := rows.Scan(&s.ID, &s.FlightID, &s.SeatClassID, &s.SeatNumber, &s.IsBooked, &s.ClassName, &s.PriceMultiplier); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}

var _ SeatRepository = (*PGSeatRepository)(nil)
