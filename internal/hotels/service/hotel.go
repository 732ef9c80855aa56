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

type HotelService interface {
	Create(ctx context.Context, hotel *model.Hotel) error
	GetByID(ctx context.Context, id string) (*model.Hotel, error)
	GetAll(ctx context.Context, page, limit int) ([]*model.Hotel, int64, error)
	Update(ctx context.Context, id string, updates *model.HotelUpdate) (*model.Hotel, error)
	Delete(ctx context.Context, id string) error
}

type hotelService struct {
	repo      repository.HotelRepository
	validator *validator.HotelValidator
	cfg       *config.Config
}

func NewHotelService(repo repository.HotelRepository, v *validator.HotelValidator, cfg *config.Config) HotelService {
	return &hotelService{
		repo:      repo,
		validator: v,
		cfg:       cfg,
	}
}

func (s *hotelService) Create(ctx context.Context, hotel *model.Hotel) error {
	s.sanitize(hotel)
	if err := s.validator.ValidateHotel(hotel); err != nil {
		s.cfg.Log.Warn("Hotel validation failed", "error", err)
		return apperrors.Validation("Hotel validation failed", validator.Details(err))
	}

	if err := s.repo.Create(ctx, hotel); err != nil {
		s.cfg.Log.Error("Failed to create hotel", "error", err)
		return apperrors.Internal("Failed to create hotel", err)
	}

	s.cfg.Log.Info("Hotel created successfully", "id", hotel.ID, "name", hotel.Name)
	return nil
}

func (s *hotelService) GetByID(ctx context.Context, id string) (*model.Hotel, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Hotel ID cannot be empty")
	}

	hotel, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, hotelserrors.ErrHotelNotFound) {
			return nil, apperrors.NotFoundWithID("Hotel", id)
		}
		if errors.Is(err, hotelserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid hotel ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve hotel", err)
	}

	return hotel, nil
}

func (s *hotelService) GetAll(ctx context.Context, page, limit int) ([]*model.Hotel, int64, error) {
	offset := int64(page-1) * int64(limit)

	var total int64
	var hotels []*model.Hotel
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		total, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count hotels", "error", errCount)
			errCount = apperrors.Internal("Failed to count hotels", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		hotels, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list hotels", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve hotels", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return hotels, total, nil
}

func (s *hotelService) Update(ctx context.Context, id string, updates *model.HotelUpdate) (*model.Hotel, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateHotelUpdate(updates); err != nil {
		s.cfg.Log.Warn("Hotel update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", validator.Details(err))
	}

	merged := s.merge(existing, updates)
	s.sanitize(merged)
	if err := s.validator.ValidateHotel(merged); err != nil {
		return nil, apperrors.Validation("Hotel validation failed", validator.Details(err))
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, hotelserrors.ErrHotelNotFound) {
			return nil, apperrors.NotFoundWithID("Hotel", id)
		}
		s.cfg.Log.Error("Failed to update hotel", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update hotel", err)
	}

	s.cfg.Log.Info("Hotel updated successfully", "id", id)
	return merged, nil
}

func (s *hotelService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Hotel ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, hotelserrors.ErrHotelNotFound) {
			return apperrors.NotFoundWithID("Hotel", id)
		}
		if errors.Is(err, hotelserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid hotel ID format")
		}
		s.cfg.Log.Error("Failed to delete hotel", "id", id, "error", err)
		return apperrors.Internal("Failed to delete hotel", err)
	}

	s.cfg.Log.Info("Hotel deleted successfully", "id", id)
	return nil
}

func (s *hotelService) sanitize(h *model.Hotel) {
	h.Name = sanitizer.NormalizeName(h.Name)
	h.City = sanitizer.NormalizeCity(h.City)
	h.Country = sanitizer.NormalizeCity(h.Country)
}

func (s *hotelService) merge(existing *model.Hotel, updates *model.HotelUpdate) *model.Hotel {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.City != "" {
		merged.City = updates.City
	}
	if updates.Country != "" {
		merged.Country = updates.Country
	}

	return &merged
}
