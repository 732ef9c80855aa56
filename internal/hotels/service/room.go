package service

import (
	"context"
	"errors"
	"sync"

	hotelserrors "innkeep/internal/hotels/errors"
	"innkeep/internal/hotels/repository"
	"innkeep/internal/hotels/validator"
	"innkeep/pkg/config"
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/model"
	"innkeep/pkg/sanitizer"
)

type RoomService interface {
	Create(ctx context.Context, room *model.Room) error
	GetByID(ctx context.Context, id string) (*model.Room, error)
	GetByHotel(ctx context.Context, hotelID string, page, limit int) ([]*model.Room, int64, error)
	Update(ctx context.Context, id string, updates *model.RoomUpdate) (*model.Room, error)
	Delete(ctx context.Context, id string) error
}

type roomService struct {
	repo      repository.RoomRepository
	hotels    repository.HotelRepository
	validator *validator.HotelValidator
	cfg       *config.Config
}

func NewRoomService(
	repo repository.RoomRepository,
	hotels repository.HotelRepository,
	v *validator.HotelValidator,
	cfg *config.Config,
) RoomService {
	return &roomService{
		repo:      repo,
		hotels:    hotels,
		validator: v,
		cfg:       cfg,
	}
}

func (s *roomService) Create(ctx context.Context, room *model.Room) error {
	// Rooms must hang off an existing hotel.
	if _, err := s.hotels.FindByID(ctx, room.HotelID); err != nil {
		if errors.Is(err, hotelserrors.ErrHotelNotFound) {
			return apperrors.NotFoundWithID("Hotel", room.HotelID)
		}
		if errors.Is(err, hotelserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid hotel ID format")
		}
		return apperrors.Internal("Failed to verify hotel", err)
	}

	if room.Status == "" {
		room.Status = model.RoomAvailable
	}
	s.sanitize(room)
	if err := s.validator.ValidateRoom(room); err != nil {
		s.cfg.Log.Warn("Room validation failed", "error", err)
		return apperrors.Validation("Room validation failed", validator.Details(err))
	}

	if err := s.repo.Create(ctx, room); err != nil {
		s.cfg.Log.Error("Failed to create room", "error", err)
		return apperrors.Internal("Failed to create room", err)
	}

	s.cfg.Log.Info("Room created successfully", "id", room.ID, "hotel_id", room.HotelID, "number", room.Number)
	return nil
}

func (s *roomService) GetByID(ctx context.Context, id string) (*model.Room, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}

	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, hotelserrors.ErrRoomNotFound) {
			return nil, apperrors.NotFoundWithID("Room", id)
		}
		if errors.Is(err, hotelserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid room ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve room", err)
	}

	return room, nil
}

func (s *roomService) GetByHotel(ctx context.Context, hotelID string, page, limit int) ([]*model.Room, int64, error) {
	if hotelID == "" {
		return nil, 0, apperrors.InvalidInput("Hotel ID cannot be empty")
	}

	offset := int64(page-1) * int64(limit)

	var total int64
	var rooms []*model.Room
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		total, errCount = s.repo.CountByHotel(ctx, hotelID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count rooms", "hotel_id", hotelID, "error", errCount)
			errCount = apperrors.Internal("Failed to count rooms", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		rooms, errFind = s.repo.FindByHotel(ctx, hotelID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list rooms", "hotel_id", hotelID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve rooms", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return rooms, total, nil
}

func (s *roomService) Update(ctx context.Context, id string, updates *model.RoomUpdate) (*model.Room, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateRoomUpdate(updates); err != nil {
		s.cfg.Log.Warn("Room update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", validator.Details(err))
	}

	merged := s.merge(existing, updates)
	s.sanitize(merged)
	if err := s.validator.ValidateRoom(merged); err != nil {
		return nil, apperrors.Validation("Room validation failed", validator.Details(err))
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, hotelserrors.ErrRoomNotFound) {
			return nil, apperrors.NotFoundWithID("Room", id)
		}
		s.cfg.Log.Error("Failed to update room", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update room", err)
	}

	s.cfg.Log.Info("Room updated successfully", "id", id)
	return merged, nil
}

func (s *roomService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Room ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, hotelserrors.ErrRoomNotFound) {
			return apperrors.NotFoundWithID("Room", id)
		}
		if errors.Is(err, hotelserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid room ID format")
		}
		s.cfg.Log.Error("Failed to delete room", "id", id, "error", err)
		return apperrors.Internal("Failed to delete room", err)
	}

	s.cfg.Log.Info("Room deleted successfully", "id", id)
	return nil
}

func (s *roomService) sanitize(r *model.Room) {
	r.Number = sanitizer.TrimAndNormalize(r.Number)
	r.Type = sanitizer.NormalizeLabel(r.Type)
}

func (s *roomService) merge(existing *model.Room, updates *model.RoomUpdate) *model.Room {
	merged := *existing

	if updates.Number != "" {
		merged.Number = updates.Number
	}
	if updates.Type != "" {
		merged.Type = updates.Type
	}
	if updates.Capacity != nil {
		merged.Capacity = *updates.Capacity
	}
	if updates.Price != nil {
		merged.Price = *updates.Price
	}
	if updates.Status != nil {
		merged.Status = *updates.Status
	}

	return &merged
}
