package model

import (
	"time"
)

type BookingStatus string

const (
	BookingPending  BookingStatus = "pending"
	BookingReserved BookingStatus = "reserved"
)

type Booking struct {
	ID        string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID    string        `json:"user_id" bson:"user_id" validate:"required"`
	RoomID    string        `json:"room_id" bson:"room_id" validate:"required,mongodb"`
	StartDate time.Time     `json:"start_date" bson:"start_date" validate:"required"`
	EndDate   time.Time     `json:"end_date" bson:"end_date" validate:"required"`
	Status    BookingStatus `json:"status" bson:"status" validate:"required,oneof=pending reserved"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Range returns the booking's stay interval. Dates are stored at UTC
// midnight, so the range is always valid for a persisted booking.
func (b *Booking) Range() DateRange {
	return DateRange{Start: TruncateToDay(b.StartDate), End: TruncateToDay(b.EndDate)}
}
