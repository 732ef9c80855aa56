package model

import "time"

// ReservationLock is an advisory per-room lock held across the
// check-and-reserve transaction. Uniqueness of _id is what makes the
// lock exclusive; ExpiresAt backs a TTL index so crashed holders
// cannot wedge a room.
type ReservationLock struct {
	ID        string    `bson:"_id" json:"id"`
	RoomID    string    `bson:"room_id" json:"room_id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
