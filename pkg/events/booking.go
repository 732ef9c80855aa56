// Package events defines the messages published when bookings change
// state, and a publisher that writes them to kafka.
package events

import (
	"context"
	"time"

	"innkeep/pkg/kafka"
	"innkeep/pkg/logger"
	"innkeep/pkg/model"
)

const (
	TypeBookingCreated   = "booking.created"
	TypeBookingUpdated   = "booking.updated"
	TypeBookingCancelled = "booking.cancelled"
)

// BookingEvent is the payload for every booking lifecycle event.
// Dates use the same wire format as the REST responses.
type BookingEvent struct {
	Type      string `json:"type"`
	BookingID string `json:"booking_id"`
	UserID    string `json:"user_id"`
	RoomID    string `json:"room_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`
	OccurAt   string `json:"occurred_at"`
}

func NewBookingEvent(eventType string, b *model.Booking) BookingEvent {
	return BookingEvent{
		Type:      eventType,
		BookingID: b.ID,
		UserID:    b.UserID,
		RoomID:    b.RoomID,
		StartDate: b.StartDate.Format(model.DateLayout),
		EndDate:   b.EndDate.Format(model.DateLayout),
		Status:    string(b.Status),
		OccurAt:   time.Now().UTC().Format(time.RFC3339),
	}
}

// Publisher sends booking events. Implementations must be safe for
// concurrent use.
type Publisher interface {
	PublishBookingEvent(ctx context.Context, event BookingEvent) error
}

type kafkaPublisher struct {
	producer *kafka.Producer
	source   string
}

func NewKafkaPublisher(producer *kafka.Producer, source string) Publisher {
	return &kafkaPublisher{producer: producer, source: source}
}

// PublishBookingEvent keys the message by room id so all events for a
// room land on one partition, in order.
func (p *kafkaPublisher) PublishBookingEvent(ctx context.Context, event BookingEvent) error {
	msg, err := kafka.NewMessage().
		Key(event.RoomID).
		JSON(event).
		EventType(event.Type).
		Source(p.source).
		Build()
	if err != nil {
		return err
	}
	return p.producer.Publish(ctx, msg)
}

// NopPublisher drops every event. Used when kafka is not configured.
type NopPublisher struct{}

func (NopPublisher) PublishBookingEvent(context.Context, BookingEvent) error { return nil }

// LogPublisher records events through the logger only. Useful for
// local development without a broker.
type LogPublisher struct {
	Log *logger.Logger
}

func (p LogPublisher) PublishBookingEvent(_ context.Context, event BookingEvent) error {
	p.Log.Info("booking event",
		"type", event.Type,
		"booking_id", event.BookingID,
		"room_id", event.RoomID,
	)
	return nil
}
