package model

// RoomStatus is the room's derived availability flag. It is recomputed
// alongside booking writes, never set independently by clients.
type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomPending     RoomStatus = "pending"
	RoomReserved    RoomStatus = "reserved"
	RoomMaintenance RoomStatus = "maintenance"
)

type Room struct {
	ID       string     `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	HotelID  string     `json:"hotel_id" bson:"hotel_id" validate:"required,mongodb"`
	Number   string     `json:"number" bson:"number" validate:"required,min=1,max=20"`
	Type     string     `json:"type" bson:"type" validate:"required,min=2,max=50"`
	Capacity int        `json:"capacity" bson:"capacity" validate:"required,min=1,max=20"`
	Price    float64    `json:"price" bson:"price" validate:"required,gt=0"`
	Status   RoomStatus `json:"status" bson:"status" validate:"required,oneof=available pending reserved maintenance"`
}

type RoomUpdate struct {
	Number   string      `json:"number,omitempty" validate:"omitempty,min=1,max=20"`
	Type     string      `json:"type,omitempty" validate:"omitempty,min=2,max=50"`
	Capacity *int        `json:"capacity,omitempty" validate:"omitempty,min=1,max=20"`
	Price    *float64    `json:"price,omitempty" validate:"omitempty,gt=0"`
	Status   *RoomStatus `json:"status,omitempty" validate:"omitempty,oneof=available pending reserved maintenance"`
}
