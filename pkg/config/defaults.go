package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "innkeep"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultKafkaBrokers      = "localhost:9092"
	DefaultBookingEventTopic = "booking-events"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Reservation locks auto-expire so a crashed holder cannot wedge a room.
	DefaultReservationLockTTL = 10 * time.Second

	DefaultPageLimit = 10
	MaxPageLimit     = 100

	// Image URLs are served by the upload layer; only the prefixes are known here.
	RoomImageURLPrefix  = "/uploads/images/rooms/"
	HotelImageURLPrefix = "/uploads/images/hotels/"
)
