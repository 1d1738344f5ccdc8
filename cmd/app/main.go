package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/airbook-dev/airbook/config"
	"github.com/airbook-dev/airbook/internal/bootstrap"
	"github.com/airbook-dev/airbook/internal/cache"
	"github.com/airbook-dev/airbook/internal/domain"
	"github.com/airbook-dev/airbook/internal/kafka"
	"github.com/airbook-dev/airbook/internal/payment"
	"github.com/airbook-dev/airbook/internal/repository"
	"github.com/airbook-dev/airbook/internal/service/auth"
	"github.com/airbook-dev/airbook/internal/service/booking"
	"github.com/airbook-dev/airbook/internal/service/flights"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis,
		time.Duration(cfg.Booking.FlightsCacheTTL)*time.Second,
		time.Duration(cfg.Booking.SeatMapCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	gateway := payment.NewRazorpayClient(cfg.Payment.KeyID, cfg.Payment.KeySecret, cfg.Payment.BaseURL)

	txm := repository.NewTxManager(pool)
	flightRepo := repository.NewFlightRepository()
	routeRepo := repository.NewRouteRepository()
	seatRepo := repository.NewSeatRepository()
	bookingRepo := repository.NewBookingRepository()
	paymentRepo := repository.NewPaymentRepository()
	userRepo := repository.NewUserRepository()

	layout := domain.DefaultSeatLayout()
	if cfg.Booking.LayoutSeatsPerRow > 0 {
		layout = domain.SeatLayout{
			SeatsPerRow:  cfg.Booking.LayoutSeatsPerRow,
			FirstRows:    cfg.Booking.LayoutFirstRows,
			BusinessRows: cfg.Booking.LayoutBusinessRows,
		}
	}

	authService := auth.NewAuthService(pool, userRepo, cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.AccessTTLMinutes)*time.Minute)
	flightService := flights.NewFlightService(pool, txm, flightRepo, routeRepo, seatRepo, redisCache, layout)
	bookingService := booking.NewBookingService(
		pool,
		txm,
		bookingRepo,
		flightRepo,
		seatRepo,
		paymentRepo,
		userRepo,
		gateway,
		redisCache,
		producer,
		cfg.Kafka.BookingEventsTopic,
		cfg.Payment.Currency,
		time.Duration(cfg.Booking.PendingTTLMinutes)*time.Minute,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithMaxSeats(cfg.Booking.MaxSeatsPerBooking),
	)

	if err := bootstrap.Run(ctx, cfg, authService, flightService, bookingService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
