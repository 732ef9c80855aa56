package service

import (
	"context"
	"net/http"
	"sync"
	"testing"

	hotelserrors "innkeep/internal/hotels/errors"
	"innkeep/internal/hotels/validator"
	"innkeep/pkg/config"
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/logger"
	"innkeep/pkg/model"
)

const (
	testHotelID = "64a1f0c2b3d4e5f601234500"
	testRoomID  = "64a1f0c2b3d4e5f601234501"
)

type mockHotelRepo struct {
	hotels map[string]*model.Hotel
}

func (m *mockHotelRepo) Create(ctx context.Context, hotel *model.Hotel) error {
	hotel.ID = testHotelID
	m.hotels[hotel.ID] = hotel
	return nil
}

func (m *mockHotelRepo) FindByID(ctx context.Context, id string) (*model.Hotel, error) {
	h, ok := m.hotels[id]
	if !ok {
		return nil, hotelserrors.ErrHotelNotFound
	}
	return h, nil
}

func (m *mockHotelRepo) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Hotel, error) {
	return nil, nil
}

func (m *mockHotelRepo) Count(ctx context.Context) (int64, error) { return 0, nil }

func (m *mockHotelRepo) Update(ctx context.Context, id string, hotel *model.Hotel) error {
	if _, ok := m.hotels[id]; !ok {
		return hotelserrors.ErrHotelNotFound
	}
	m.hotels[id] = hotel
	return nil
}

func (m *mockHotelRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.hotels[id]; !ok {
		return hotelserrors.ErrHotelNotFound
	}
	delete(m.hotels, id)
	return nil
}

type mockRoomRepo struct {
	mu    sync.Mutex
	rooms map[string]*model.Room
}

func (m *mockRoomRepo) Create(ctx context.Context, room *model.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	room.ID = testRoomID
	m.rooms[room.ID] = room
	return nil
}

func (m *mockRoomRepo) FindByID(ctx context.Context, id string) (*model.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	if !ok {
		return nil, hotelserrors.ErrRoomNotFound
	}
	copy := *r
	return &copy, nil
}

func (m *mockRoomRepo) FindByHotel(ctx context.Context, hotelID string, limit int, offset int64) ([]*model.Room, error) {
	return nil, nil
}

func (m *mockRoomRepo) CountByHotel(ctx context.Context, hotelID string) (int64, error) {
	return 0, nil
}

func (m *mockRoomRepo) FindExcluding(ctx context.Context, excludeIDs []string, limit int, offset int64) ([]*model.Room, error) {
	return nil, nil
}

func (m *mockRoomRepo) CountExcluding(ctx context.Context, excludeIDs []string) (int64, error) {
	return 0, nil
}

func (m *mockRoomRepo) Update(ctx context.Context, id string, room *model.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[id]; !ok {
		return hotelserrors.ErrRoomNotFound
	}
	copy := *room
	copy.ID = id
	m.rooms[id] = &copy
	return nil
}

func (m *mockRoomRepo) SetStatus(ctx context.Context, id string, status model.RoomStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	if !ok {
		return hotelserrors.ErrRoomNotFound
	}
	r.Status = status
	return nil
}

func (m *mockRoomRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[id]; !ok {
		return hotelserrors.ErrRoomNotFound
	}
	delete(m.rooms, id)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{Level: logger.LevelError, Format: logger.FormatJSON, Service: "test"}),
	}
}

func newRoomService() (RoomService, *mockRoomRepo) {
	cfg := testConfig()
	hotels := &mockHotelRepo{hotels: map[string]*model.Hotel{
		testHotelID: {ID: testHotelID, Name: "Harbor View", City: "Lisbon", Country: "Portugal"},
	}}
	rooms := &mockRoomRepo{rooms: map[string]*model.Room{}}
	return NewRoomService(rooms, hotels, validator.NewHotelValidator(cfg.Log), cfg), rooms
}

func TestRoomCreate_UnknownHotel(t *testing.T) {
	svc, _ := newRoomService()

	room := &model.Room{HotelID: "64a1f0c2b3d4e5f601234599", Number: "101", Type: "double", Capacity: 2, Price: 100}
	err := svc.Create(context.Background(), room)
	if apperrors.AsAppError(err).StatusCode() != http.StatusNotFound {
		t.Fatalf("expected not found for unknown hotel, got %v", err)
	}
}

func TestRoomCreate_DefaultsAndSanitizes(t *testing.T) {
	svc, _ := newRoomService()

	room := &model.Room{HotelID: testHotelID, Number: "  101 ", Type: "  DOUBLE  ", Capacity: 2, Price: 100}
	if err := svc.Create(context.Background(), room); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if room.Status != model.RoomAvailable {
		t.Errorf("expected default status available, got %s", room.Status)
	}
	if room.Number != "101" {
		t.Errorf("expected trimmed number, got %q", room.Number)
	}
	if room.Type != "double" {
		t.Errorf("expected normalized type, got %q", room.Type)
	}
}

func TestRoomCreate_ValidationFailure(t *testing.T) {
	svc, _ := newRoomService()

	room := &model.Room{HotelID: testHotelID, Number: "101", Type: "double", Capacity: 0, Price: 100}
	err := svc.Create(context.Background(), room)
	if apperrors.AsAppError(err).StatusCode() != http.StatusBadRequest {
		t.Fatalf("expected validation failure for zero capacity, got %v", err)
	}
}

func TestRoomUpdate_MergesPartialFields(t *testing.T) {
	svc, repo := newRoomService()

	room := &model.Room{HotelID: testHotelID, Number: "101", Type: "double", Capacity: 2, Price: 100}
	if err := svc.Create(context.Background(), room); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	price := 150.0
	updated, err := svc.Update(context.Background(), room.ID, &model.RoomUpdate{Price: &price})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Price != 150 {
		t.Errorf("expected updated price, got %v", updated.Price)
	}
	if updated.Number != "101" || updated.Capacity != 2 {
		t.Errorf("expected untouched fields to survive, got %+v", updated)
	}

	stored, _ := repo.FindByID(context.Background(), room.ID)
	if stored.Price != 150 {
		t.Errorf("expected persisted price 150, got %v", stored.Price)
	}
}

func TestRoomDelete_NotFound(t *testing.T) {
	svc, _ := newRoomService()

	err := svc.Delete(context.Background(), "64a1f0c2b3d4e5f601234599")
	if apperrors.AsAppError(err).StatusCode() != http.StatusNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
