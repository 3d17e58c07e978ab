package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/flightdesk/config"
	"github.com/Domenick1991/flightdesk/internal/bootstrap"
	"github.com/Domenick1991/flightdesk/internal/cache"
	"github.com/Domenick1991/flightdesk/internal/fixture"
	"github.com/Domenick1991/flightdesk/internal/kafka"
	"github.com/Domenick1991/flightdesk/internal/repository"
	"github.com/Domenick1991/flightdesk/internal/service/flights"
	"github.com/Domenick1991/flightdesk/internal/service/reservation"
	"go.uber.org/zap"
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

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	seeded, err := fixture.Flights(cfg.Catalog, time.Now())
	if err != nil {
		logger.Fatal("build fixtures", zap.Error(err))
	}
	catalog, err := repository.NewMemoryFlightCatalog(seeded)
	if err != nil {
		logger.Fatal("build catalog", zap.Error(err))
	}
	registry := repository.NewMemoryBookingRegistry()
	logger.Info("catalog seeded", zap.Int("flights", len(seeded)))

	flightOpts := []flights.FlightServiceOption{}
	reservationOpts := []reservation.ReservationServiceOption{}

	if cfg.Redis.Enabled {
		redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.FlightsCacheTTLSeconds)*time.Second)
		flightOpts = append(flightOpts, flights.WithCache(redisCache))
		reservationOpts = append(reservationOpts,
			reservation.WithCache(redisCache, time.Duration(cfg.Booking.SeatLockTTLSeconds)*time.Second))
	}
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()
		reservationOpts = append(reservationOpts,
			reservation.WithProducer(producer, cfg.Kafka.BookingTopic),
			reservation.WithNotificationsTopic(cfg.Kafka.NotificationsTopic))
	}

	flightService := flights.NewFlightService(catalog, flightOpts...)
	reservationService := reservation.NewReservationService(catalog, registry, reservationOpts...)

	if err := bootstrap.Run(ctx, cfg, logger, flightService, reservationService); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
