package service

import (
	"context"
	"sync"

	"innkeep/internal/bookings/repository"
	"innkeep/pkg/config"
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/model"
)

// AvailabilityService answers conflict queries against the live
// bookings of a room and lists rooms free over a date range.
type AvailabilityService interface {
	// HasConflict reports whether any live booking for roomID overlaps
	// rng, other than excludeID when non-empty. Read-only.
	HasConflict(ctx context.Context, roomID string, rng model.DateRange, excludeID string) (bool, error)

	// ListAvailableRooms returns the rooms with no booking overlapping
	// rng, paginated, together with the total count of such rooms.
	ListAvailableRooms(ctx context.Context, rng model.DateRange, page, limit int) ([]*model.Room, int64, error)
}

type availabilityService struct {
	repo  repository.BookingRepository
	rooms RoomStore
	cfg   *config.Config
}

func NewAvailabilityService(repo repository.BookingRepository, rooms RoomStore, cfg *config.Config) AvailabilityService {
	return &availabilityService{
		repo:  repo,
		rooms: rooms,
		cfg:   cfg,
	}
}

func (s *availabilityService) HasConflict(ctx context.Context, roomID string, rng model.DateRange, excludeID string) (bool, error) {
	if roomID == "" {
		return false, apperrors.InvalidInput("Room ID cannot be empty")
	}

	overlapping, err := s.repo.FindOverlapping(ctx, roomID, rng, excludeID)
	if err != nil {
		return false, apperrors.Internal("Failed to check booking conflicts", err)
	}

	return len(overlapping) > 0, nil
}

func (s *availabilityService) ListAvailableRooms(ctx context.Context, rng model.DateRange, page, limit int) ([]*model.Room, int64, error) {
	bookedIDs, err := s.repo.BookedRoomIDs(ctx, rng)
	if err != nil {
		s.cfg.Log.Error("Failed to list booked room ids", "range", rng.String(), "error", err)
		return nil, 0, apperrors.Internal("Failed to determine room availability", err)
	}

	offset := int64(page-1) * int64(limit)

	var total int64
	var rooms []*model.Room
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		total, errCount = s.rooms.CountExcluding(ctx, bookedIDs)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count available rooms", "error", errCount)
			errCount = apperrors.Internal("Failed to count available rooms", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		rooms, errFind = s.rooms.FindExcluding(ctx, bookedIDs, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list available rooms", "error", errFind)
			errFind = apperrors.Internal("Failed to list available rooms", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	s.cfg.Log.Debug("Available-room listing completed",
		"range", rng.String(),
		"booked_rooms", len(bookedIDs),
		"count", len(rooms),
		"total", total,
	)
	return rooms, total, nil
}
