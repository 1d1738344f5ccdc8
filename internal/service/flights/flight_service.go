package flights

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/airbook-dev/airbook/internal/domain"
	"github.com/airbook-dev/airbook/internal/repository"
)

type FlightUseCase interface {
	ListFlights(ctx context.Context, input ListFlightsInput) ([]domain.Flight, int, error)
	GetFlight(ctx context.Context, id int64) (*domain.Flight, error)
	GetSeats(ctx context.Context, flightID int64) ([]domain.Seat, error)
	AddFlight(ctx context.Context, input AddFlightInput) (*domain.Flight, int, error)
	ListRoutes(ctx context.Context) ([]domain.Route, error)
}

// Cache is the slice of the redis cache the flight service needs.
type Cache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
	InvalidateFlights(ctx context.Context) error
	GetSeatMap(ctx context.Context, flightID int64) ([]domain.Seat, error)
	SetSeatMap(ctx context.Context, flightID int64, seats []domain.Seat) error
}

type ListFlightsInput struct {
	DepartureCity string
	ArrivalCity   string
	Date          *time.Time
	Page          int
	PageSize      int
}

type AddFlightInput struct {
	FlightNumber  string    `json:"flight_number"`
	DepartureCity string    `json:"departure_city"`
	ArrivalCity   string    `json:"arrival_city"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	TotalSeats    int       `json:"total_seats"`
}

type FlightService struct {
	db      repository.Querier
	txm     repository.TxManager
	flights repository.FlightRepository
	routes  repository.RouteRepository
	seats   repository.SeatRepository
	cache   Cache
	layout  domain.SeatLayout
}

func NewFlightService(
	db repository.Querier,
	txm repository.TxManager,
	flights repository.FlightRepository,
	routes repository.RouteRepository,
	seats repository.SeatRepository,
	cache Cache,
	layout domain.SeatLayout,
) *FlightService {
	return &FlightService{
		db:      db,
		txm:     txm,
		flights: flights,
		routes:  routes,
		seats:   seats,
		cache:   cache,
		layout:  layout,
	}
}

// ListFlights resolves a city pair to its route before filtering. Only the
// unfiltered first page goes through the cache; filtered queries are cheap
// enough to hit the database directly.
func (s *FlightService) ListFlights(ctx context.Context, input ListFlightsInput) ([]domain.Flight, int, error) {
	if (input.DepartureCity == "") != (input.ArrivalCity == "") {
		return nil, 0, domain.BadRequest("departure and arrival cities must be provided together")
	}

	filter := repository.FlightFilter{Date: input.Date, Page: input.Page, PageSize: input.PageSize}
	if input.DepartureCity != "" {
		route, err := s.routes.GetByCities(ctx, s.db, input.DepartureCity, input.ArrivalCity)
		if err != nil {
			return nil, 0, err
		}
		filter.RouteID = route.ID
	}

	if filter.IsPlain() && s.cache != nil {
		cached, err := s.cache.GetFlights(ctx)
		if err != nil {
			log.Printf("WARN: flights cache read: %v", err)
		} else if cached != nil {
			return cached, len(cached), nil
		}
	}

	flights, total, err := s.flights.List(ctx, s.db, filter)
	if err != nil {
		return nil, 0, err
	}

	if filter.IsPlain() && s.cache != nil {
		if err := s.cache.SetFlights(ctx, flights); err != nil {
			log.Printf("WARN: flights cache write: %v", err)
		}
	}
	return flights, total, nil
}

func (s *FlightService) GetFlight(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.flights.GetByID(ctx, s.db, id)
}

// GetSeats returns the seat map, cache-aside. The map goes stale for at
// most the cache TTL; booking paths invalidate it eagerly.
func (s *FlightService) GetSeats(ctx context.Context, flightID int64) ([]domain.Seat, error) {
	if s.cache != nil {
		cached, err := s.cache.GetSeatMap(ctx, flightID)
		if err != nil {
			log.Printf("WARN: seat map cache read: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	if _, err := s.flights.GetByID(ctx, s.db, flightID); err != nil {
		return nil, err
	}
	seats, err := s.seats.ListByFlight(ctx, s.db, flightID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetSeatMap(ctx, flightID, seats); err != nil {
			log.Printf("WARN: seat map cache write: %v", err)
		}
	}
	return seats, nil
}

// AddFlight creates the flight and generates its full seat inventory in one
// transaction. It returns the flight and how many seats were laid out.
func (s *FlightService) AddFlight(ctx context.Context, input AddFlightInput) (*domain.Flight, int, error) {
	if strings.TrimSpace(input.FlightNumber) == "" {
		return nil, 0, domain.BadRequest("flight number is required")
	}
	if input.DepartureCity == "" || input.ArrivalCity == "" {
		return nil, 0, domain.BadRequest("departure and arrival cities are required")
	}
	if !input.ArrivalTime.After(input.DepartureTime) {
		return nil, 0, domain.BadRequest("arrival time must be after departure time")
	}

	specs, err := s.layout.Generate(input.TotalSeats)
	if err != nil {
		return nil, 0, err
	}

	var (
		flight     *domain.Flight
		seatsAdded int
	)
	err = s.txm.WithinTx(ctx, func(q repository.Querier) error {
		route, err := s.routes.GetByCities(ctx, q, input.DepartureCity, input.ArrivalCity)
		if err != nil {
			return err
		}

		f := &domain.Flight{
			FlightNumber:  strings.ToUpper(strings.TrimSpace(input.FlightNumber)),
			RouteID:       route.ID,
			DepartureCity: route.DepartureCity,
			ArrivalCity:   route.ArrivalCity,
			DepartureTime: input.DepartureTime,
			ArrivalTime:   input.ArrivalTime,
			TotalSeats:    input.TotalSeats,
			BasePrice:     route.BasePrice,
		}
		if err := s.flights.Create(ctx, q, f); err != nil {
			return err
		}

		seatsAdded, err = s.seats.BulkCreate(ctx, q, f.ID, specs)
		if err != nil {
			return err
		}
		flight = f
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateFlights(ctx); err != nil {
			log.Printf("WARN: invalidate flights cache: %v", err)
		}
	}
	return flight, seatsAdded, nil
}

func (s *FlightService) ListRoutes(ctx context.Context) ([]domain.Route, error) {
	return s.routes.List(ctx, s.db)
}

var _ FlightUseCase = (*FlightService)(nil)
