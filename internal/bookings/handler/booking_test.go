package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"innkeep/internal/bookings/repository"
	"innkeep/internal/bookings/service"
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/logger"
	"innkeep/pkg/model"
)

// Mock services for testing

type mockBookingService struct {
	createFunc func(ctx context.Context, roomID, startDate, endDate string) (*model.Booking, error)
	getFunc    func(ctx context.Context, id string) (*model.Booking, error)
}

func (m *mockBookingService) Create(ctx context.Context, roomID, startDate, endDate string) (*model.Booking, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, roomID, startDate, endDate)
	}
	return nil, nil
}

func (m *mockBookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockBookingService) Update(ctx context.Context, id, startDate, endDate string) (*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingService) Delete(ctx context.Context, id string) error {
	return nil
}

type mockAvailabilityService struct {
	listFunc func(ctx context.Context, rng model.DateRange, page, limit int) ([]*model.Room, int64, error)
}

func (m *mockAvailabilityService) HasConflict(ctx context.Context, roomID string, rng model.DateRange, excludeID string) (bool, error) {
	return false, nil
}

func (m *mockAvailabilityService) ListAvailableRooms(ctx context.Context, rng model.DateRange, page, limit int) ([]*model.Room, int64, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, rng, page, limit)
	}
	return []*model.Room{}, 0, nil
}

type mockReportService struct {
	reportFunc func(ctx context.Context, bucket repository.Bucket, now time.Time, page, limit int) ([]*service.BookingView, int64, error)
}

func (m *mockReportService) Report(ctx context.Context, bucket repository.Bucket, now time.Time, page, limit int) ([]*service.BookingView, int64, error) {
	if m.reportFunc != nil {
		return m.reportFunc(ctx, bucket, now, page, limit)
	}
	return []*service.BookingView{}, 0, nil
}

func testHandler(b *mockBookingService, a *mockAvailabilityService, r *mockReportService) *BookingHandler {
	log := logger.New(logger.Config{Level: logger.LevelError, Format: logger.FormatJSON, Service: "test"})
	if b == nil {
		b = &mockBookingService{}
	}
	if a == nil {
		a = &mockAvailabilityService{}
	}
	if r == nil {
		r = &mockReportService{}
	}
	return NewBookingHandler(b, a, r, log)
}

func serve(h *BookingHandler, method, path, body string) *httptest.ResponseRecorder {
	router := httprouter.New()
	h.RegisterRoutes(router)

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreate_FormatsWireDates(t *testing.T) {
	created := time.Date(2025, 5, 20, 14, 30, 0, 0, time.UTC)
	bookings := &mockBookingService{
		createFunc: func(ctx context.Context, roomID, startDate, endDate string) (*model.Booking, error) {
			return &model.Booking{
				ID:        "b-1",
				UserID:    "user-1",
				RoomID:    roomID,
				StartDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
				Status:    model.BookingPending,
				CreatedAt: created,
			}, nil
		},
	}

	rec := serve(testHandler(bookings, nil, nil), http.MethodPost, "/api/v1/bookings",
		`{"room_id":"r-1","start_date":"2025-06-01","end_date":"2025-06-10"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data bookingResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Data.StartDate != "2025-06-01" || resp.Data.EndDate != "2025-06-10" {
		t.Errorf("expected YYYY-MM-DD dates, got %s / %s", resp.Data.StartDate, resp.Data.EndDate)
	}
	if resp.Data.CreatedAt != "2025-05-20 14:30:00" {
		t.Errorf("expected YYYY-MM-DD HH:MM:SS created_at, got %s", resp.Data.CreatedAt)
	}
}

func TestCreate_InvalidBody(t *testing.T) {
	rec := serve(testHandler(nil, nil, nil), http.MethodPost, "/api/v1/bookings", "{not json")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreate_ServiceErrorPassthrough(t *testing.T) {
	bookings := &mockBookingService{
		createFunc: func(ctx context.Context, roomID, startDate, endDate string) (*model.Booking, error) {
			return nil, apperrors.Conflict("Room is already booked for dates overlapping [2025-06-01, 2025-06-10]")
		},
	}

	rec := serve(testHandler(bookings, nil, nil), http.MethodPost, "/api/v1/bookings",
		`{"room_id":"r-1","start_date":"2025-06-01","end_date":"2025-06-10"}`)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "2025-06-01") {
		t.Error("conflict response should name the contested dates")
	}
}

func TestGetByID_NotFound(t *testing.T) {
	bookings := &mockBookingService{
		getFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		},
	}

	rec := serve(testHandler(bookings, nil, nil), http.MethodGet, "/api/v1/bookings/id/missing", "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestReport_UnknownBucket(t *testing.T) {
	rec := serve(testHandler(nil, nil, nil), http.MethodGet, "/api/v1/bookings/reports/upcoming", "")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown bucket, got %d", rec.Code)
	}
}

func TestListAvailableRooms_PaginationEnvelope(t *testing.T) {
	availability := &mockAvailabilityService{
		listFunc: func(ctx context.Context, rng model.DateRange, page, limit int) ([]*model.Room, int64, error) {
			return []*model.Room{{ID: "r-1"}, {ID: "r-2"}}, 7, nil
		},
	}

	rec := serve(testHandler(nil, availability, nil), http.MethodGet,
		"/api/v1/rooms/available?start_date=2025-06-01&end_date=2025-06-10&page=2&limit=2", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Pagination struct {
			Page       int   `json:"page"`
			Limit      int   `json:"limit"`
			Count      int   `json:"count"`
			Total      int64 `json:"total"`
			TotalPages int64 `json:"totalPages"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Pagination.Page != 2 || resp.Pagination.Limit != 2 {
		t.Errorf("unexpected page/limit: %+v", resp.Pagination)
	}
	if resp.Pagination.Count != 2 || resp.Pagination.Total != 7 || resp.Pagination.TotalPages != 4 {
		t.Errorf("unexpected pagination arithmetic: %+v", resp.Pagination)
	}
}

func TestListAvailableRooms_InvertedRange(t *testing.T) {
	rec := serve(testHandler(nil, nil, nil), http.MethodGet,
		"/api/v1/rooms/available?start_date=2025-06-10&end_date=2025-06-01", "")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for inverted range, got %d", rec.Code)
	}
}
