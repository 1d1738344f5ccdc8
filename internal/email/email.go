package email

import (
	"context"
	"log"

	"github.com/airbook-dev/airbook/internal/kafka"
)

// Sender delivers booking notifications. The transport is a stub; the
// worker only needs something that consumes BookingEvents.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	log.Printf("notify %s: booking %s is %s (flight %d, %d seat(s))",
		event.Email, event.BookingID, event.Status, event.FlightID, len(event.Seats))
	return nil
}
