package errors

import "errors"

var (
	ErrHotelNotFound = errors.New("hotel not found")

	ErrRoomNotFound = errors.New("room not found")

	ErrInvalidID = errors.New("invalid ID format")
)
