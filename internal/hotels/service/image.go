package service

import (
	"context"

	"innkeep/internal/hotels/repository"
	"innkeep/pkg/config"
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/model"
)

type ImageService interface {
	ImagesForRoom(ctx context.Context, roomID string) ([]*model.Image, error)
	ImagesForHotel(ctx context.Context, hotelID string) ([]*model.Image, error)
}

type imageService struct {
	repo   repository.ImageRepository
	rooms  RoomService
	hotels HotelService
	cfg    *config.Config
}

func NewImageService(repo repository.ImageRepository, rooms RoomService, hotels HotelService, cfg *config.Config) ImageService {
	return &imageService{
		repo:   repo,
		rooms:  rooms,
		hotels: hotels,
		cfg:    cfg,
	}
}

func (s *imageService) ImagesForRoom(ctx context.Context, roomID string) ([]*model.Image, error) {
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		return nil, err
	}

	images, err := s.repo.FindByOwner(ctx, model.ImageOwnerRoom, roomID)
	if err != nil {
		s.cfg.Log.Error("Failed to list room images", "room_id", roomID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve room images", err)
	}
	return images, nil
}

func (s *imageService) ImagesForHotel(ctx context.Context, hotelID string) ([]*model.Image, error) {
	if _, err := s.hotels.GetByID(ctx, hotelID); err != nil {
		return nil, err
	}

	images, err := s.repo.FindByOwner(ctx, model.ImageOwnerHotel, hotelID)
	if err != nil {
		s.cfg.Log.Error("Failed to list hotel images", "hotel_id", hotelID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve hotel images", err)
	}
	return images, nil
}
