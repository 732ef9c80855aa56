// The notifier consumes booking events and dispatches notifications.
// Dispatch is currently a structured log line per event; the consumer
// loop, retry, and offset handling are the real machinery here.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	kafkago "github.com/segmentio/kafka-go"

	"innkeep/pkg/config"
	"innkeep/pkg/events"
	"innkeep/pkg/kafka"
)

const ServiceName = "notifier"

func main() {
	cfg := config.Load(ServiceName)

	consumer, err := kafka.NewConsumer(
		kafka.Config{
			Brokers: cfg.KafkaBrokers,
			GroupID: ServiceName,
		},
		cfg.BookingEventTopic,
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to build kafka consumer", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Starting notifier",
		"brokers", cfg.KafkaBrokers,
		"topic", cfg.BookingEventTopic,
	)

	if err := consumer.Run(ctx, handleBookingEvent(cfg)); err != nil {
		cfg.Log.Error("Consumer stopped with error", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}
	cfg.Log.Info("Notifier stopped")
}

func handleBookingEvent(cfg *config.Config) kafka.Handler {
	return func(ctx context.Context, msg kafkago.Message) error {
		var event events.BookingEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("decoding booking event: %w", err)
		}

		cfg.Log.Info("Booking notification",
			"event_id", kafka.HeaderValue(msg, kafka.HeaderEventID),
			"type", event.Type,
			"booking_id", event.BookingID,
			"user_id", event.UserID,
			"room_id", event.RoomID,
			"start_date", event.StartDate,
			"end_date", event.EndDate,
		)
		return nil
	}
}
