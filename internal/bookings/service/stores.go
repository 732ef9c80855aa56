package service

import (
	"context"

	"innkeep/pkg/model"
)

// The booking engine reads and writes rooms, hotels, and image records
// owned by the hotels domain. These interfaces name exactly the slice
// of those repositories it depends on; the hotels repositories satisfy
// them directly.

type RoomStore interface {
	FindByID(ctx context.Context, id string) (*model.Room, error)
	SetStatus(ctx context.Context, id string, status model.RoomStatus) error
	FindExcluding(ctx context.Context, excludeIDs []string, limit int, offset int64) ([]*model.Room, error)
	CountExcluding(ctx context.Context, excludeIDs []string) (int64, error)
}

type HotelStore interface {
	FindByID(ctx context.Context, id string) (*model.Hotel, error)
}

type ImageStore interface {
	FindByOwner(ctx context.Context, owner model.ImageOwner, ownerID string) ([]*model.Image, error)
}
