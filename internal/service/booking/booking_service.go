package booking

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/airbook-dev/airbook/internal/domain"
	"github.com/airbook-dev/airbook/internal/kafka"
	"github.com/airbook-dev/airbook/internal/payment"
	"github.com/airbook-dev/airbook/internal/repository"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, userID int64, input CreateBookingInput) (*domain.BookingDetail, error)
	CreateOrder(ctx context.Context, bookingID string, userID int64) (*payment.Order, error)
	VerifyPayment(ctx context.Context, bookingID string, userID int64, input VerifyPaymentInput) (*domain.BookingDetail, error)
	DeleteBooking(ctx context.Context, bookingID string, userID int64) (*domain.Booking, error)
	CancelBooking(ctx context.Context, bookingID string, userID int64) (*domain.BookingDetail, error)
	GetBooking(ctx context.Context, bookingID string, userID int64) (*domain.BookingDetail, error)
	ListUserBookings(ctx context.Context, userID int64) ([]domain.BookingDetail, error)
	ExpirePendingBookings(ctx context.Context) ([]domain.Booking, error)
}

type Cache interface {
	InvalidateFlights(ctx context.Context) error
	InvalidateSeatMap(ctx context.Context, flightID int64) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type SeatSelection struct {
	SeatNumber    string `json:"seat_number"`
	SeatClassName string `json:"seat_class_name"`
}

type CreateBookingInput struct {
	FlightID     int64           `json:"flight_id"`
	FlightNumber string          `json:"flight_number"`
	Seats        []SeatSelection `json:"seats"`
}

type VerifyPaymentInput struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

const defaultMaxSeats = 5

var seatNumberRe = regexp.MustCompile(`^[A-Z][1-9][0-9]?$`)

// BookingService drives the booking state machine. Every state change runs
// inside one transaction handed down through the repositories, so either a
// whole workflow commits or none of it does.
type BookingService struct {
	db                 repository.Querier
	txm                repository.TxManager
	bookings           repository.BookingRepository
	flights            repository.FlightRepository
	seats              repository.SeatRepository
	payments           repository.PaymentRepository
	users              repository.UserRepository
	gateway            payment.Gateway
	cache              Cache
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	currency           string
	maxSeats           int
	pendingTTL         time.Duration
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithMaxSeats(n int) BookingServiceOption {
	return func(s *BookingService) {
		if n > 0 {
			s.maxSeats = n
		}
	}
}

func NewBookingService(
	db repository.Querier,
	txm repository.TxManager,
	bookings repository.BookingRepository,
	flights repository.FlightRepository,
	seats repository.SeatRepository,
	payments repository.PaymentRepository,
	users repository.UserRepository,
	gateway payment.Gateway,
	cache Cache,
	producer Producer,
	bookingTopic string,
	currency string,
	pendingTTL time.Duration,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		db:           db,
		txm:          txm,
		bookings:     bookings,
		flights:      flights,
		seats:        seats,
		payments:     payments,
		users:        users,
		gateway:      gateway,
		cache:        cache,
		producer:     producer,
		bookingTopic: bookingTopic,
		currency:     currency,
		maxSeats:     defaultMaxSeats,
		pendingTTL:   pendingTTL,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateBooking reserves every requested seat, prices them against the
// flight's base fare, and persists the pending aggregate in one transaction.
// Any failure rolls the whole thing back: no ghost-held seats.
func (s *BookingService) CreateBooking(ctx context.Context, userID int64, input CreateBookingInput) (*domain.BookingDetail, error) {
	if err := validateSeatSelections(input.Seats, s.maxSeats); err != nil {
		return nil, err
	}

	var detail *domain.BookingDetail
	err := s.txm.WithinTx(ctx, func(q repository.Querier) error {
		user, err := s.users.GetByID(ctx, q, userID)
		if err != nil {
			return err
		}
		flight, err := s.flights.GetByID(ctx, q, input.FlightID)
		if err != nil {
			return err
		}
		if input.FlightNumber != "" && flight.FlightNumber != input.FlightNumber {
			return domain.BadRequest("flight number does not match the requested flight")
		}

		booking := &domain.Booking{
			ID:       domain.NewBookingID(flight.FlightNumber),
			UserID:   user.ID,
			FlightID: flight.ID,
		}

		lines := make([]domain.BookingSeat, 0, len(input.Seats))
		for _, sel := range input.Seats {
			seat, err := s.seats.FindByNumberForUpdate(ctx, q, flight.ID, sel.SeatNumber)
			if err != nil {
				return err
			}
			if seat.IsBooked {
				return domain.Conflict(fmt.Sprintf("seat %s is already booked", seat.SeatNumber))
			}
			if !strings.EqualFold(seat.ClassName, sel.SeatClassName) {
				return domain.Conflict(fmt.Sprintf("seat %s is %s class, not %s", seat.SeatNumber, seat.ClassName, sel.SeatClassName))
			}

			price := domain.Price(flight.BasePrice, seat.PriceMultiplier)
			booking.TotalPrice += price

			if err := s.seats.SetBooked(ctx, q, seat.ID, true); err != nil {
				return err
			}
			lines = append(lines, domain.BookingSeat{
				SeatID:          seat.ID,
				SeatNumber:      seat.SeatNumber,
				SeatClassID:     seat.SeatClassID,
				ClassName:       seat.ClassName,
				PriceMultiplier: seat.PriceMultiplier,
				Price:           price,
			})
		}

		if err := s.bookings.Create(ctx, q, booking); err != nil {
			return err
		}
		if err := s.bookings.CreateSeats(ctx, q, booking.ID, lines); err != nil {
			return err
		}

		detail = &domain.BookingDetail{Booking: *booking, Flight: *flight, Seats: lines}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateSeatMap(ctx, detail.Flight.ID)
	s.publishEvent(ctx, "booking_created", &detail.Booking, detail.Seats)
	return detail, nil
}

// CreateOrder asks the gateway for a payment order over the booking's total
// in minor units and records it. Gateway failures propagate untouched; a
// payment API is never retried blindly.
func (s *BookingService) CreateOrder(ctx context.Context, bookingID string, userID int64) (*payment.Order, error) {
	var order *payment.Order
	err := s.txm.WithinTx(ctx, func(q repository.Querier) error {
		b, err := s.bookings.GetByIDAndUser(ctx, q, bookingID, userID)
		if err != nil {
			return err
		}
		if b.Status != domain.BookingStatusPending {
			return domain.Conflict("booking is not in pending status")
		}

		order, err = s.gateway.CreateOrder(ctx, domain.MinorUnits(b.TotalPrice), s.currency, b.ID)
		if err != nil {
			return fmt.Errorf("create payment order: %w", err)
		}

		return s.payments.Create(ctx, q, &domain.Payment{
			BookingID:       b.ID,
			RazorpayOrderID: order.ID,
			Amount:          b.TotalPrice,
			Currency:        order.Currency,
			Status:          domain.PaymentStatusCreated,
		})
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// VerifyPayment settles a pending booking. A matching signature confirms the
// booking and decrements flight availability. A mismatch compensates: the
// payment is marked failed, the seats released and the booking deleted, and
// that compensation is committed before the BadRequest goes back to the
// caller, so no follow-up cleanup call is ever needed.
func (s *BookingService) VerifyPayment(ctx context.Context, bookingID string, userID int64, input VerifyPaymentInput) (*domain.BookingDetail, error) {
	if input.OrderID == "" || input.PaymentID == "" || input.Signature == "" {
		return nil, domain.BadRequest("order id, payment id and signature are required")
	}

	var (
		detail   *domain.BookingDetail
		rejected *domain.Booking
	)
	err := s.txm.WithinTx(ctx, func(q repository.Querier) error {
		b, err := s.bookings.GetByIDAndUser(ctx, q, bookingID, userID)
		if err != nil {
			return err
		}
		if b.Status != domain.BookingStatusPending {
			return domain.Conflict("booking is not in pending status")
		}

		p, err := s.payments.GetByOrderID(ctx, q, input.OrderID)
		if err != nil {
			return err
		}
		if p.BookingID != b.ID {
			return domain.BadRequest("payment order does not belong to this booking")
		}

		lines, err := s.bookings.ListSeats(ctx, q, b.ID)
		if err != nil {
			return err
		}

		if !s.gateway.VerifySignature(input.OrderID, input.PaymentID, input.Signature) {
			if err := s.payments.UpdateDetails(ctx, q, input.OrderID, input.PaymentID, input.Signature, domain.PaymentStatusFailed); err != nil {
				return err
			}
			if err := s.releaseSeats(ctx, q, lines); err != nil {
				return err
			}
			if err := s.bookings.Delete(ctx, q, b.ID); err != nil {
				return err
			}
			rejected = b
			return nil
		}

		if err := s.payments.UpdateDetails(ctx, q, input.OrderID, input.PaymentID, input.Signature, domain.PaymentStatusCaptured); err != nil {
			return err
		}
		if err := s.bookings.UpdateStatus(ctx, q, b.ID, domain.BookingStatusPending, domain.BookingStatusConfirmed); err != nil {
			return err
		}
		if err := s.flights.AdjustAvailableSeats(ctx, q, b.FlightID, -len(lines)); err != nil {
			return err
		}

		flight, err := s.flights.GetByID(ctx, q, b.FlightID)
		if err != nil {
			return err
		}
		b.Status = domain.BookingStatusConfirmed
		detail = &domain.BookingDetail{Booking: *b, Flight: *flight, Seats: lines}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if rejected != nil {
		s.invalidateSeatMap(ctx, rejected.FlightID)
		s.publishEvent(ctx, "booking_deleted", rejected, nil)
		return nil, domain.BadRequest("invalid payment signature")
	}

	s.invalidateSeatMap(ctx, detail.Flight.ID)
	s.invalidateFlights(ctx)
	s.publishEvent(ctx, "booking_confirmed", &detail.Booking, detail.Seats)
	return detail, nil
}

// DeleteBooking is the user-driven compensating delete for a pending
// booking that was abandoned or failed at the gateway. Repeating it
// reports NotFound, never a duplicate effect.
func (s *BookingService) DeleteBooking(ctx context.Context, bookingID string, userID int64) (*domain.Booking, error) {
	var booking *domain.Booking
	err := s.txm.WithinTx(ctx, func(q repository.Querier) error {
		b, err := s.bookings.GetByIDAndUser(ctx, q, bookingID, userID)
		if err != nil {
			return err
		}
		if b.Status != domain.BookingStatusPending {
			return domain.Conflict("only pending bookings can be deleted")
		}

		lines, err := s.bookings.ListSeats(ctx, q, b.ID)
		if err != nil {
			return err
		}
		if err := s.releaseSeats(ctx, q, lines); err != nil {
			return err
		}
		if err := s.bookings.Delete(ctx, q, b.ID); err != nil {
			return err
		}
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateSeatMap(ctx, booking.FlightID)
	s.publishEvent(ctx, "booking_deleted", booking, nil)
	return booking, nil
}

// CancelBooking reverses a confirmed booking: seats freed, availability
// incremented. The payment row is kept for refund bookkeeping.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID string, userID int64) (*domain.BookingDetail, error) {
	var detail *domain.BookingDetail
	err := s.txm.WithinTx(ctx, func(q repository.Querier) error {
		b, err := s.bookings.GetByIDAndUser(ctx, q, bookingID, userID)
		if err != nil {
			return err
		}
		if b.Status != domain.BookingStatusConfirmed {
			return domain.Conflict("booking is not eligible for cancellation")
		}

		if err := s.bookings.UpdateStatus(ctx, q, b.ID, domain.BookingStatusConfirmed, domain.BookingStatusCanceled); err != nil {
			return err
		}
		lines, err := s.bookings.ListSeats(ctx, q, b.ID)
		if err != nil {
			return err
		}
		if err := s.releaseSeats(ctx, q, lines); err != nil {
			return err
		}
		if err := s.flights.AdjustAvailableSeats(ctx, q, b.FlightID, len(lines)); err != nil {
			return err
		}

		flight, err := s.flights.GetByID(ctx, q, b.FlightID)
		if err != nil {
			return err
		}
		b.Status = domain.BookingStatusCanceled
		detail = &domain.BookingDetail{Booking: *b, Flight: *flight, Seats: lines}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateSeatMap(ctx, detail.Flight.ID)
	s.invalidateFlights(ctx)
	s.publishEvent(ctx, "booking_cancelled", &detail.Booking, detail.Seats)
	return detail, nil
}

func (s *BookingService) GetBooking(ctx context.Context, bookingID string, userID int64) (*domain.BookingDetail, error) {
	b, err := s.bookings.GetByIDAndUser(ctx, s.db, bookingID, userID)
	if err != nil {
		return nil, err
	}
	return s.assembleDetail(ctx, s.db, b)
}

func (s *BookingService) ListUserBookings(ctx context.Context, userID int64) ([]domain.BookingDetail, error) {
	bookings, err := s.bookings.ListByUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, domain.NotFound("no bookings found for this user")
	}

	details := make([]domain.BookingDetail, 0, len(bookings))
	for i := range bookings {
		d, err := s.assembleDetail(ctx, s.db, &bookings[i])
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
	}
	return details, nil
}

// ExpirePendingBookings garbage-collects pending bookings older than the
// pending TTL so abandoned checkouts cannot hold seats forever. Run from
// the worker on a sweep interval.
func (s *BookingService) ExpirePendingBookings(ctx context.Context) ([]domain.Booking, error) {
	deadline := time.Now().Add(-s.pendingTTL)

	var expired []domain.Booking
	err := s.txm.WithinTx(ctx, func(q repository.Querier) error {
		stale, err := s.bookings.ListPendingBefore(ctx, q, deadline)
		if err != nil {
			return err
		}
		for i := range stale {
			lines, err := s.bookings.ListSeats(ctx, q, stale[i].ID)
			if err != nil {
				return err
			}
			if err := s.releaseSeats(ctx, q, lines); err != nil {
				return err
			}
			if err := s.bookings.Delete(ctx, q, stale[i].ID); err != nil {
				return err
			}
		}
		expired = stale
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i := range expired {
		s.invalidateSeatMap(ctx, expired[i].FlightID)
		s.publishEvent(ctx, "booking_expired", &expired[i], nil)
	}
	return expired, nil
}

func (s *BookingService) assembleDetail(ctx context.Context, q repository.Querier, b *domain.Booking) (*domain.BookingDetail, error) {
	flight, err := s.flights.GetByID(ctx, q, b.FlightID)
	if err != nil {
		return nil, err
	}
	lines, err := s.bookings.ListSeats(ctx, q, b.ID)
	if err != nil {
		return nil, err
	}
	return &domain.BookingDetail{Booking: *b, Flight: *flight, Seats: lines}, nil
}

func (s *BookingService) releaseSeats(ctx context.Context, q repository.Querier, lines []domain.BookingSeat) error {
	for _, line := range lines {
		if err := s.seats.SetBooked(ctx, q, line.SeatID, false); err != nil {
			return err
		}
	}
	return nil
}

func (s *BookingService) invalidateSeatMap(ctx context.Context, flightID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateSeatMap(ctx, flightID); err != nil {
		log.Printf("WARN: invalidate seat map for flight %d: %v", flightID, err)
	}
}

func (s *BookingService) invalidateFlights(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		log.Printf("WARN: invalidate flights cache: %v", err)
	}
}

func (s *BookingService) publishEvent(ctx context.Context, eventType string, b *domain.Booking, lines []domain.BookingSeat) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}

	seats := make([]string, 0, len(lines))
	for _, line := range lines {
		seats = append(seats, line.SeatNumber)
	}
	email := ""
	if user, err := s.users.GetByID(ctx, s.db, b.UserID); err == nil {
		email = user.Email
	}

	event := kafka.BookingEvent{
		Type:       eventType,
		BookingID:  b.ID,
		UserID:     b.UserID,
		FlightID:   b.FlightID,
		Seats:      seats,
		TotalPrice: b.TotalPrice,
		Status:     string(b.Status),
		Email:      email,
		OccurredAt: time.Now(),
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, b.ID, event); err != nil {
		log.Printf("WARN: publish %s for booking %s: %v", eventType, b.ID, err)
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, b.ID, event); err != nil {
			log.Printf("WARN: publish notification for booking %s: %v", b.ID, err)
		}
	}
}

func validateSeatSelections(seats []SeatSelection, maxSeats int) error {
	if len(seats) == 0 {
		return domain.BadRequest("at least one seat is required")
	}
	if len(seats) > maxSeats {
		return domain.BadRequest(fmt.Sprintf("cannot book more than %d seats at once", maxSeats))
	}

	seen := make(map[string]struct{}, len(seats))
	for _, sel := range seats {
		if !seatNumberRe.MatchString(sel.SeatNumber) {
			return domain.BadRequest(fmt.Sprintf("invalid seat number %q", sel.SeatNumber))
		}
		if sel.SeatClassName == "" {
			return domain.BadRequest("seat class name is required")
		}
		if _, dup := seen[sel.SeatNumber]; dup {
			return domain.BadRequest(fmt.Sprintf("duplicate seat %s in request", sel.SeatNumber))
		}
		seen[sel.SeatNumber] = struct{}{}
	}
	return nil
}

var _ BookingUseCase = (*BookingService)(nil)
