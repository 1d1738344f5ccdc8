package repository

import (
	"context"
	"errors"

	"github.com/airbook-dev/airbook/internal/domain"
	"github.com/jackc/pgx/v5"
)

type RouteRepository interface {
	List(ctx context.Context, q Querier) ([]domain.Route, error)
	GetByCities(ctx context.Context, q Querier, departureCity, arrivalCity string) (*domain.Route, error)
	Create(ctx context.Context, q Querier, route *domain.Route) error
}

type PGRouteRepository struct{}

func NewRouteRepository() RouteRepository {
	return &PGRouteRepository{}
}

func (r *PGRouteRepository) List(ctx context.Context, q Querier) ([]domain.Route, error) {
	rows, err := q.Query(ctx, `SELECT route_id, departure_city, arrival_city, distance_km, base_price
		FROM routes ORDER BY departure_city, arrival_city`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	routes := make([]domain.Route, 0)
	for rows.Next() {
		var rt domain.Route
		if err := rows.Scan(&rt.ID, &rt.DepartureCity, &rt.ArrivalCity, &rt.DistanceKm, &rt.BasePrice); err != nil {
			return nil, err
		}
		routes = append(routes, rt)
	}
	return routes, rows.Err()
}

func (r *PGRouteRepository) GetByCities(ctx context.Context, q Querier, departureCity, arrivalCity string) (*domain.Route, error) {
	row := q.QueryRow(ctx, `SELECT route_id, departure_city, arrival_city, distance_km, base_price
		FROM routes WHERE departure_city = $1 AND arrival_city = $2`, departureCity, arrivalCity)

	var rt domain.Route
	if err := row.Scan(&rt.ID, &rt.DepartureCity, &rt.ArrivalCity, &rt.DistanceKm, &rt.BasePrice); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("route not found")
		}
		return nil, err
	}
	return &rt, nil
}

func (r *PGRouteRepository) Create(ctx context.Context, q Querier, route *domain.Route) error {
	err := q.QueryRow(ctx, `INSERT INTO routes (departure_city, arrival_city, distance_km, base_price)
		VALUES ($1, $2, $3, $4)
		RETURNING route_id`,
		route.DepartureCity, route.ArrivalCity, route.DistanceKm, route.BasePrice).
		Scan(&route.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("route already exists")
		}
		return err
	}
	return nil
}

var _ RouteRepository = (*PGRouteRepository)(nil)
