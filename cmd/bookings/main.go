package main

import (
	bookingshandler "innkeep/internal/bookings/handler"
	bookingsrepo "innkeep/internal/bookings/repository"
	bookingsservice "innkeep/internal/bookings/service"
	bookingsvalidator "innkeep/internal/bookings/validator"
	"innkeep/internal/health"
	hotelsrepo "innkeep/internal/hotels/repository"
	"innkeep/pkg/app"
	"innkeep/pkg/config"
	"innkeep/pkg/events"
	"innkeep/pkg/kafka"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Bookings service")

	serverApp := app.NewApplication()
	appHandler := initHandler(cfg, serverApp)
	healthHandler := health.NewHealthHandler(cfg.Client.Mongo, cfg.Log)
	serverApp.OnShutdown(cfg.GracefulShutdown)

	serverApp.SetApp(cfg, appHandler, healthHandler)
	serverApp.Run()
}

func initHandler(cfg *config.Config, serverApp *app.Application) *bookingshandler.BookingHandler {
	bookingRepo := bookingsrepo.NewMongoBookingRepository(cfg)
	lockRepo := bookingsrepo.NewReservationLockRepository(cfg)
	roomRepo := hotelsrepo.NewMongoRoomRepository(cfg)
	hotelRepo := hotelsrepo.NewMongoHotelRepository(cfg)
	imageRepo := hotelsrepo.NewMongoImageRepository(cfg)

	publisher := initPublisher(cfg, serverApp)

	availability := bookingsservice.NewAvailabilityService(bookingRepo, roomRepo, cfg)
	bookings := bookingsservice.NewBookingService(
		bookingRepo,
		lockRepo,
		roomRepo,
		availability,
		bookingsvalidator.NewBookingValidator(cfg.Log),
		publisher,
		cfg,
	)
	reports := bookingsservice.NewReportService(bookingRepo, roomRepo, hotelRepo, imageRepo, cfg)

	cfg.Log.Info("Booking services initialized", "database", cfg.MongoDatabaseName)
	return bookingshandler.NewBookingHandler(bookings, availability, reports, cfg.Log)
}

// initPublisher prefers the kafka publisher and falls back to a
// log-only publisher when the writer cannot be built, so a broken
// broker configuration does not keep bookings from running.
func initPublisher(cfg *config.Config, serverApp *app.Application) events.Publisher {
	producer, err := kafka.NewProducer(
		kafka.Config{Brokers: cfg.KafkaBrokers},
		cfg.BookingEventTopic,
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Warn("Kafka producer unavailable, booking events will be logged only", "error", err)
		return events.LogPublisher{Log: cfg.Log}
	}

	serverApp.OnShutdown(func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close kafka producer", "error", err)
		}
	})

	cfg.Log.Info("Kafka booking-event producer initialized",
		"brokers", cfg.KafkaBrokers,
		"topic", cfg.BookingEventTopic,
	)
	return events.NewKafkaPublisher(producer, ServiceName)
}
