package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "innkeep/internal/bookings/errors"
	"innkeep/internal/bookings/repository"
	"innkeep/internal/bookings/validator"
	hotelserrors "innkeep/internal/hotels/errors"
	"innkeep/pkg/auth"
	"innkeep/pkg/config"
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/events"
	"innkeep/pkg/model"
)

// BookingService owns the booking lifecycle. Every write runs the
// conflict check, the booking write, and the room status write as one
// transaction, under an advisory per-room lock, so two concurrent
// requests for the same room can never both pass the check.
type BookingService interface {
	Create(ctx context.Context, roomID, startDate, endDate string) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	Update(ctx context.Context, id, startDate, endDate string) (*model.Booking, error)
	Delete(ctx context.Context, id string) error
}

type bookingService struct {
	repo         repository.BookingRepository
	lockRepo     repository.ReservationLockRepository
	rooms        RoomStore
	availability AvailabilityService
	validator    *validator.BookingValidator
	publisher    events.Publisher
	cfg          *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.ReservationLockRepository,
	rooms RoomStore,
	availability AvailabilityService,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:         repo,
		lockRepo:     lockRepo,
		rooms:        rooms,
		availability: availability,
		validator:    validator,
		publisher:    publisher,
		cfg:          cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, roomID, startDate, endDate string) (*model.Booking, error) {
	actor, ok := auth.FromContext(ctx)
	if !ok {
		return nil, apperrors.Unauthorized("Authentication required to create a booking")
	}

	room, err := s.findRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	rng, err := model.ParseDateRange(startDate, endDate)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	booking := &model.Booking{
		UserID:    actor.ID,
		RoomID:    room.ID,
		StartDate: rng.Start,
		EndDate:   rng.End,
		Status:    model.BookingPending,
	}
	if err := s.validate(booking); err != nil {
		return nil, err
	}

	lockID, err := s.acquireRoomLock(ctx, room.ID)
	if err != nil {
		return nil, err
	}
	defer s.releaseRoomLock(ctx, lockID)

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoConflict(sessCtx, room.ID, rng, ""); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		if err := s.rooms.SetStatus(sessCtx, room.ID, model.RoomReserved); err != nil {
			return apperrors.Internal("Failed to update room status", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "room_id", room.ID, "error", err)
		return nil, err
	}

	s.publish(ctx, events.TypeBookingCreated, booking)

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"room_id", booking.RoomID,
		"user_id", booking.UserID,
		"range", rng.String(),
	)
	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	return s.findBooking(ctx, id)
}

func (s *bookingService) Update(ctx context.Context, id, startDate, endDate string) (*model.Booking, error) {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, booking); err != nil {
		return nil, err
	}

	rng, err := model.ParseDateRange(startDate, endDate)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	// New dates restart the lifecycle.
	booking.StartDate = rng.Start
	booking.EndDate = rng.End
	booking.Status = model.BookingPending
	if err := s.validate(booking); err != nil {
		return nil, err
	}

	lockID, err := s.acquireRoomLock(ctx, booking.RoomID)
	if err != nil {
		return nil, err
	}
	defer s.releaseRoomLock(ctx, lockID)

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoConflict(sessCtx, booking.RoomID, rng, booking.ID); err != nil {
			return err
		}
		if _, err := s.repo.Update(sessCtx, id, booking); err != nil {
			return apperrors.Internal("Failed to update booking", err)
		}
		if err := s.rooms.SetStatus(sessCtx, booking.RoomID, model.RoomReserved); err != nil {
			return apperrors.Internal("Failed to update room status", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update booking", "id", id, "error", err)
		return nil, err
	}

	s.publish(ctx, events.TypeBookingUpdated, booking)

	s.cfg.Log.Info("Booking updated successfully", "id", id, "range", rng.String())
	return booking, nil
}

func (s *bookingService) Delete(ctx context.Context, id string) error {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, booking); err != nil {
		return err
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.rooms.SetStatus(sessCtx, booking.RoomID, model.RoomAvailable); err != nil {
			return apperrors.Internal("Failed to reset room status", err)
		}
		if err := s.repo.Delete(sessCtx, id); err != nil {
			if errors.Is(err, bookingserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Booking", id)
			}
			return apperrors.Internal("Failed to delete booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to delete booking", "id", id, "error", err)
		return err
	}

	s.publish(ctx, events.TypeBookingCancelled, booking)

	s.cfg.Log.Info("Booking deleted successfully", "id", id, "room_id", booking.RoomID)
	return nil
}

// --- Helpers ---

func (s *bookingService) findBooking(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) findRoom(ctx context.Context, roomID string) (*model.Room, error) {
	if roomID == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}

	room, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, hotelserrors.ErrRoomNotFound) {
			return nil, apperrors.NotFoundWithID("Room", roomID)
		}
		if errors.Is(err, hotelserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid room ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve room", err)
	}

	return room, nil
}

// authorize lets the booking's owner and administrators through.
func (s *bookingService) authorize(ctx context.Context, booking *model.Booking) error {
	actor, ok := auth.FromContext(ctx)
	if !ok {
		return apperrors.Unauthorized("Authentication required")
	}
	if actor.ID != booking.UserID && !actor.IsAdmin() {
		return apperrors.Forbidden("You do not have access to this booking")
	}
	return nil
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", validator.Details(err))
	}
	return nil
}

func (s *bookingService) verifyNoConflict(ctx context.Context, roomID string, rng model.DateRange, excludeID string) error {
	conflict, err := s.availability.HasConflict(ctx, roomID, rng, excludeID)
	if err != nil {
		return err
	}
	if conflict {
		return apperrors.Conflict(fmt.Sprintf(
			"Room is already booked for dates overlapping %s", rng.String(),
		))
	}
	return nil
}

// acquireRoomLock creates an advisory lock keyed by room id. The unique
// _id constraint makes it exclusive; the TTL index on expires_at clears
// locks left behind by crashed holders.
func (s *bookingService) acquireRoomLock(ctx context.Context, roomID string) (string, error) {
	lockID := fmt.Sprintf("room_lock_%s", roomID)

	lock := &model.ReservationLock{
		ID:        lockID,
		RoomID:    roomID,
		ExpiresAt: time.Now().Add(s.cfg.ReservationLockTTL),
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This room is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire reservation lock", err)
	}

	return lockID, nil
}

func (s *bookingService) releaseRoomLock(ctx context.Context, lockID string) {
	if err := s.lockRepo.Delete(ctx, lockID); err != nil {
		s.cfg.Log.Warn("Failed to release reservation lock", "lock_id", lockID, "error", err)
	}
}

// publish emits a booking event after a committed write. A broker
// failure is logged and swallowed: the booking is already durable.
func (s *bookingService) publish(ctx context.Context, eventType string, booking *model.Booking) {
	event := events.NewBookingEvent(eventType, booking)
	if err := s.publisher.PublishBookingEvent(ctx, event); err != nil {
		s.cfg.Log.Error("Failed to publish booking event",
			"type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}
