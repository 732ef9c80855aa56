package service

import (
	"context"
	"sync"
	"time"

	"innkeep/internal/bookings/repository"
	"innkeep/pkg/config"
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/model"
)

// BookingView is one enriched report row: the booking's own fields plus
// denormalized room and hotel summaries and their image records.
type BookingView struct {
	Booking     *model.Booking
	Room        *model.Room
	Hotel       *model.Hotel
	RoomImages  []*model.Image
	HotelImages []*model.Image
}

// ReportService produces paginated booking reports partitioned into
// temporal buckets relative to an injected reference instant.
type ReportService interface {
	Report(ctx context.Context, bucket repository.Bucket, now time.Time, page, limit int) ([]*BookingView, int64, error)
}

type reportService struct {
	repo   repository.BookingRepository
	rooms  RoomStore
	hotels HotelStore
	images ImageStore
	cfg    *config.Config
}

func NewReportService(
	repo repository.BookingRepository,
	rooms RoomStore,
	hotels HotelStore,
	images ImageStore,
	cfg *config.Config,
) ReportService {
	return &reportService{
		repo:   repo,
		rooms:  rooms,
		hotels: hotels,
		images: images,
		cfg:    cfg,
	}
}

func (s *reportService) Report(ctx context.Context, bucket repository.Bucket, now time.Time, page, limit int) ([]*BookingView, int64, error) {
	// Stored dates sit at UTC midnight, so the reference instant is
	// compared at day granularity: a booking ending today is current,
	// not past.
	day := model.TruncateToDay(now)
	offset := int64(page-1) * int64(limit)

	var total int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		total, errCount = s.repo.CountByBucket(ctx, bucket, day)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings by bucket", "bucket", bucket, "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindByBucket(ctx, bucket, day, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings by bucket", "bucket", bucket, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	views := make([]*BookingView, 0, len(bookings))
	for _, booking := range bookings {
		views = append(views, s.enrich(ctx, booking))
	}

	s.cfg.Log.Debug("Booking report completed",
		"bucket", bucket,
		"reference_day", day.Format(model.DateLayout),
		"count", len(views),
		"total", total,
	)
	return views, total, nil
}

// enrich attaches room, hotel, and image records to a booking. Lookup
// failures degrade: a missing room or hotel leaves the field nil, a
// failed image lookup leaves the list empty. The report never aborts
// because of a denormalization miss.
func (s *reportService) enrich(ctx context.Context, booking *model.Booking) *BookingView {
	view := &BookingView{
		Booking:     booking,
		RoomImages:  []*model.Image{},
		HotelImages: []*model.Image{},
	}

	room, err := s.rooms.FindByID(ctx, booking.RoomID)
	if err != nil {
		s.cfg.Log.Warn("Report enrichment: room lookup failed",
			"booking_id", booking.ID,
			"room_id", booking.RoomID,
			"error", err,
		)
		return view
	}
	view.Room = room

	if images, err := s.images.FindByOwner(ctx, model.ImageOwnerRoom, room.ID); err != nil {
		s.cfg.Log.Warn("Report enrichment: room image lookup failed", "room_id", room.ID, "error", err)
	} else {
		view.RoomImages = images
	}

	hotel, err := s.hotels.FindByID(ctx, room.HotelID)
	if err != nil {
		s.cfg.Log.Warn("Report enrichment: hotel lookup failed",
			"booking_id", booking.ID,
			"hotel_id", room.HotelID,
			"error", err,
		)
		return view
	}
	view.Hotel = hotel

	if images, err := s.images.FindByOwner(ctx, model.ImageOwnerHotel, hotel.ID); err != nil {
		s.cfg.Log.Warn("Report enrichment: hotel image lookup failed", "hotel_id", hotel.ID, "error", err)
	} else {
		view.HotelImages = images
	}

	return view
}
