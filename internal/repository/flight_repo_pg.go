package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/airbook-dev/airbook/internal/domain"
	"github.com/jackc/pgx/v5"
)

// FlightFilter narrows List. RouteID and Date are optional (zero means
// unfiltered); Page is 1-based.
type FlightFilter struct {
	RouteID  int64
	Date     *time.Time
	Page     int
	PageSize int
}

// IsPlain reports whether the filter selects the default first page with no
// conditions, the only shape worth caching.
func (f FlightFilter) IsPlain() bool {
	return f.RouteID == 0 && f.Date == nil && f.Page <= 1
}

type FlightRepository interface {
	List(ctx context.Context, q Querier, filter FlightFilter) ([]domain.Flight, int, error)
	GetByID(ctx context.Context, q Querier, id int64) (*domain.Flight, error)
	Create(ctx context.Context, q Querier, f *domain.Flight) error
	AdjustAvailableSeats(ctx context.Context, q Querier, flightID int64, delta int) error
}

type PGFlightRepository struct{}

func NewFlightRepository() FlightRepository {
	return &PGFlightRepository{}
}

const flightColumns = `f.flight_id, f.flight_number, f.route_id, r.departure_city, r.arrival_city,
	f.departure_time, f.arrival_time, f.total_seats, f.available_seats, r.base_price,
	f.created_at, f.updated_at`

func scanFlight(row pgx.Row, f *domain.Flight) error {
	return row.Scan(&f.ID, &f.FlightNumber, &f.RouteID, &f.DepartureCity, &f.ArrivalCity,
		&f.DepartureTime, &f.ArrivalTime, &f.TotalSeats, &f.AvailableSeats, &f.BasePrice,
		&f.CreatedAt, &f.UpdatedAt)
}

func (r *PGFlightRepository) List(ctx context.Context, q Querier, filter FlightFilter) ([]domain.Flight, int, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	args := []any{}
	conds := []string{}
	if filter.RouteID != 0 {
		args = append(args, filter.RouteID)
		conds = append(conds, fmt.Sprintf("f.route_id = $%d", len(args)))
	}
	if filter.Date != nil {
		args = append(args, filter.Date.Format("2006-01-02"))
		conds = append(conds, fmt.Sprintf("f.departure_time::date = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	countSQL := `SELECT count(*) FROM flights f JOIN routes r ON r.route_id = f.route_id` + where
	if err := q.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listSQL := `SELECT ` + flightColumns + ` FROM flights f JOIN routes r ON r.route_id = f.route_id` + where +
		fmt.Sprintf(` ORDER BY f.departure_time LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := q.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := scanFlight(rows, &f); err != nil {
			return nil, 0, err
		}
		flights = append(flights, f)
	}
	return flights, total, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, q Querier, id int64) (*domain.Flight, error) {
	row := q.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights f JOIN routes r ON r.route_id = f.route_id WHERE f.flight_id = $1`, id)
	var f domain.Flight
	if err := scanFlight(row, &f); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("flight not found")
		}
		return nil, err
	}
	return &f, nil
}

func (r *PGFlightRepository) Create(ctx context.Context, q Querier, f *domain.Flight) error {
	err := q.QueryRow(ctx, `INSERT INTO flights (flight_number, route_id, departure_time, arrival_time, total_seats, available_seats)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING flight_id, available_seats, created_at, updated_at`,
		f.FlightNumber, f.RouteID, f.DepartureTime, f.ArrivalTime, f.TotalSeats).
		Scan(&f.ID, &f.AvailableSeats, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("flight number already exists")
		}
		return err
	}
	return nil
}

// AdjustAvailableSeats applies delta to the denormalized counter, refusing
// any change that would leave it outside [0, total_seats].
func (r *PGFlightRepository) AdjustAvailableSeats(ctx context.Context, q Querier, flightID int64, delta int) error {
	cmd, err := q.Exec(ctx, `UPDATE flights SET available_seats = available_seats + $2, updated_at = now()
		WHERE flight_id = $1 AND available_seats + $2 BETWEEN 0 AND total_seats`, flightID, delta)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.Conflict("flight seat availability out of range")
	}
	return nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
