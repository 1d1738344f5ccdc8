package domain

import "time"

type Route struct {
	ID            int64   `json:"route_id"`
	DepartureCity string  `json:"departure_city"`
	ArrivalCity   string  `json:"arrival_city"`
	DistanceKm    int     `json:"distance_km"`
	BasePrice     float64 `json:"base_price"`
}

type Flight struct {
	ID             int64     `json:"flight_id"`
	FlightNumber   string    `json:"flight_number"`
	RouteID        int64     `json:"route_id"`
	DepartureCity  string    `json:"departure_city"`
	ArrivalCity    string    `json:"arrival_city"`
	DepartureTime  time.Time `json:"departure_time"`
	ArrivalTime    time.Time `json:"arrival_time"`
	TotalSeats     int       `json:"total_seats"`
	AvailableSeats int       `json:"available_seats"`
	BasePrice      float64   `json:"base_price"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type SeatClass struct {
	ID              int64   `json:"seat_class_id"`
	ClassName       string  `json:"class_name"`
	PriceMultiplier float64 `json:"price_multiplier"`
}

// Seat carries its class columns when loaded through the seat_classes join.
type Seat struct {
	ID              int64   `json:"seat_id"`
	FlightID        int64   `json:"flight_id"`
	SeatClassID     int64   `json:"seat_class_id"`
	SeatNumber      string  `json:"seat_number"`
	IsBooked        bool    `json:"is_booked"`
	ClassName       string  `json:"class_name"`
	PriceMultiplier float64 `json:"price_multiplier"`
}
