package domain

import (
	"crypto/rand"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCanceled  BookingStatus = "canceled"
)

// Booking is the group aggregate: one row covering 1..N seat lines paid as a
// single unit. A pending booking that fails or is abandoned is deleted
// outright, so there is no "deleted" status value.
type Booking struct {
	ID          string        `json:"booking_id"`
	UserID      int64         `json:"user_id"`
	FlightID    int64         `json:"flight_id"`
	TotalPrice  float64       `json:"total_price"`
	Status      BookingStatus `json:"status"`
	BookingDate time.Time     `json:"booking_date"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// BookingSeat is a seat line: the join record between a booking and a seat.
// Price is snapshotted at booking time; later fare changes never touch it.
type BookingSeat struct {
	SeatID          int64   `json:"seat_id"`
	SeatNumber      string  `json:"seat_number"`
	SeatClassID     int64   `json:"seat_class_id"`
	ClassName       string  `json:"class_name"`
	PriceMultiplier float64 `json:"price_multiplier"`
	Price           float64 `json:"price"`
}

// BookingDetail is the aggregate returned to clients: the booking row plus
// its seat lines and the flight it belongs to.
type BookingDetail struct {
	Booking Booking       `json:"booking"`
	Flight  Flight        `json:"flight"`
	Seats   []BookingSeat `json:"seats"`
}

const bookingIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewBookingID builds a human-readable booking id that embeds the flight
// number, e.g. "6E203-4F7K2M".
func NewBookingID(flightNumber string) string {
	b := make([]byte, 6)
	rand.Read(b)
	for i := range b {
		b[i] = bookingIDAlphabet[int(b[i])%len(bookingIDAlphabet)]
	}
	return flightNumber + "-" + string(b)
}
