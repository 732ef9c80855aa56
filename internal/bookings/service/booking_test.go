package service

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "innkeep/internal/bookings/errors"
	"innkeep/internal/bookings/repository"
	"innkeep/internal/bookings/validator"
	hotelserrors "innkeep/internal/hotels/errors"
	"innkeep/pkg/auth"
	"innkeep/pkg/config"
	mongotx "innkeep/pkg/db/mongo"
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/events"
	"innkeep/pkg/logger"
	"innkeep/pkg/model"
)

const (
	testRoomID    = "64a1f0c2b3d4e5f601234567"
	testBookingID = "64a1f0c2b3d4e5f601234568"
	testUserID    = "user-1"
)

// ────────────────────────────────────────────────
// Mocks
// ────────────────────────────────────────────────

type mockBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*model.Booking
	nextID   int

	findOverlappingFunc func(ctx context.Context, roomID string, rng model.DateRange, excludeID string) ([]*model.Booking, error)
}

func newMockBookingRepo() *mockBookingRepo {
	return &mockBookingRepo{bookings: map[string]*model.Booking{}, nextID: 1}
}

func (m *mockBookingRepo) Create(ctx context.Context, booking *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if booking.ID == "" {
		booking.ID = newHexID(m.nextID)
		m.nextID++
	}
	booking.CreatedAt = time.Now().UTC()
	copy := *booking
	m.bookings[booking.ID] = &copy
	return nil
}

func (m *mockBookingRepo) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	copy := *b
	return &copy, nil
}

func (m *mockBookingRepo) Update(ctx context.Context, id string, booking *model.Booking) (*mongo.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[id]; !ok {
		return nil, bookingserrors.ErrNotFound
	}
	copy := *booking
	copy.ID = id
	m.bookings[id] = &copy
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *mockBookingRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[id]; !ok {
		return bookingserrors.ErrNotFound
	}
	delete(m.bookings, id)
	return nil
}

func (m *mockBookingRepo) FindOverlapping(ctx context.Context, roomID string, rng model.DateRange, excludeID string) ([]*model.Booking, error) {
	if m.findOverlappingFunc != nil {
		return m.findOverlappingFunc(ctx, roomID, rng, excludeID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Booking
	for _, b := range m.bookings {
		if b.RoomID != roomID || b.ID == excludeID {
			continue
		}
		if b.Range().Overlaps(rng) {
			copy := *b
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (m *mockBookingRepo) BookedRoomIDs(ctx context.Context, rng model.DateRange) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[string]bool{}
	var ids []string
	for _, b := range m.bookings {
		if b.Range().Overlaps(rng) && !seen[b.RoomID] {
			seen[b.RoomID] = true
			ids = append(ids, b.RoomID)
		}
	}
	return ids, nil
}

func (m *mockBookingRepo) FindByBucket(ctx context.Context, bucket repository.Bucket, now time.Time, limit int, offset int64) ([]*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepo) CountByBucket(ctx context.Context, bucket repository.Bucket, now time.Time) (int64, error) {
	return 0, nil
}

func (m *mockBookingRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

func newHexID(n int) string {
	const hex = "0123456789abcdef"
	id := make([]byte, 24)
	for i := range id {
		id[i] = '0'
	}
	for i := 23; n > 0 && i >= 0; i-- {
		id[i] = hex[n%16]
		n /= 16
	}
	return string(id)
}

// mockLockRepo mimics the unique _id constraint of the lock collection.
type mockLockRepo struct {
	mu    sync.Mutex
	locks map[string]bool
}

func newMockLockRepo() *mockLockRepo {
	return &mockLockRepo{locks: map[string]bool{}}
}

func (m *mockLockRepo) Create(ctx context.Context, lock *model.ReservationLock) (*model.ReservationLock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[lock.ID] {
		return nil, mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
	}
	m.locks[lock.ID] = true
	return lock, nil
}

func (m *mockLockRepo) Delete(ctx context.Context, lockID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, lockID)
	return nil
}

type mockRoomStore struct {
	mu     sync.Mutex
	rooms  map[string]*model.Room
	status map[string]model.RoomStatus
}

func newMockRoomStore(rooms ...*model.Room) *mockRoomStore {
	m := &mockRoomStore{rooms: map[string]*model.Room{}, status: map[string]model.RoomStatus{}}
	for _, r := range rooms {
		m.rooms[r.ID] = r
	}
	return m
}

func (m *mockRoomStore) FindByID(ctx context.Context, id string) (*model.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	if !ok {
		return nil, hotelserrors.ErrRoomNotFound
	}
	copy := *r
	return &copy, nil
}

func (m *mockRoomStore) SetStatus(ctx context.Context, id string, status model.RoomStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status[id] = status
	return nil
}

func (m *mockRoomStore) FindExcluding(ctx context.Context, excludeIDs []string, limit int, offset int64) ([]*model.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	excluded := map[string]bool{}
	for _, id := range excludeIDs {
		excluded[id] = true
	}
	var out []*model.Room
	for _, r := range m.rooms {
		if !excluded[r.ID] {
			copy := *r
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (m *mockRoomStore) CountExcluding(ctx context.Context, excludeIDs []string) (int64, error) {
	rooms, _ := m.FindExcluding(ctx, excludeIDs, 0, 0)
	return int64(len(rooms)), nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.BookingEvent
}

func (p *recordingPublisher) PublishBookingEvent(_ context.Context, event events.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// ────────────────────────────────────────────────
// Fixtures
// ────────────────────────────────────────────────

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   logger.LevelError,
			Format:  logger.FormatJSON,
			Service: "test",
		}),
		ReservationLockTTL: time.Second,
	}
}

type fixture struct {
	repo      *mockBookingRepo
	locks     *mockLockRepo
	rooms     *mockRoomStore
	publisher *recordingPublisher
	service   BookingService
}

func newFixture(rooms ...*model.Room) *fixture {
	if len(rooms) == 0 {
		rooms = []*model.Room{{ID: testRoomID, HotelID: newHexID(900), Number: "101", Type: "double", Capacity: 2, Price: 120, Status: model.RoomAvailable}}
	}
	cfg := testConfig()
	f := &fixture{
		repo:      newMockBookingRepo(),
		locks:     newMockLockRepo(),
		rooms:     newMockRoomStore(rooms...),
		publisher: &recordingPublisher{},
	}
	availability := NewAvailabilityService(f.repo, f.rooms, cfg)
	f.service = NewBookingService(
		f.repo,
		f.locks,
		f.rooms,
		availability,
		validator.NewBookingValidator(cfg.Log),
		f.publisher,
		cfg,
	)
	return f
}

func actorCtx(id string, roles ...string) context.Context {
	return auth.WithActor(context.Background(), auth.Actor{ID: id, Roles: roles})
}

func wantStatus(t *testing.T, err error, status int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with status %d, got nil", status)
	}
	appErr := apperrors.AsAppError(err)
	if appErr.StatusCode() != status {
		t.Fatalf("expected status %d, got %d (%v)", status, appErr.StatusCode(), err)
	}
}

// ────────────────────────────────────────────────
// Create
// ────────────────────────────────────────────────

func TestCreate_Unauthenticated(t *testing.T) {
	f := newFixture()

	_, err := f.service.Create(context.Background(), testRoomID, "2025-06-01", "2025-06-10")
	wantStatus(t, err, http.StatusUnauthorized)
}

func TestCreate_RoomNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.service.Create(actorCtx(testUserID), newHexID(999), "2025-06-01", "2025-06-10")
	wantStatus(t, err, http.StatusNotFound)
}

func TestCreate_InvalidDates(t *testing.T) {
	f := newFixture()

	cases := []struct {
		name       string
		start, end string
	}{
		{"unparseable start", "not-a-date", "2025-06-10"},
		{"unparseable end", "2025-06-01", "June 10th"},
		{"start after end", "2025-06-10", "2025-06-01"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.Create(actorCtx(testUserID), testRoomID, tc.start, tc.end)
			wantStatus(t, err, http.StatusBadRequest)
		})
	}
}

func TestCreate_Success(t *testing.T) {
	f := newFixture()

	booking, err := f.service.Create(actorCtx(testUserID), testRoomID, "2025-06-01", "2025-06-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.ID == "" {
		t.Error("expected booking to get an id")
	}
	if booking.Status != model.BookingPending {
		t.Errorf("expected status pending, got %s", booking.Status)
	}
	if booking.UserID != testUserID {
		t.Errorf("expected user_id %s, got %s", testUserID, booking.UserID)
	}
	if got := f.rooms.status[testRoomID]; got != model.RoomReserved {
		t.Errorf("expected room status reserved, got %s", got)
	}
	if types := f.publisher.types(); len(types) != 1 || types[0] != events.TypeBookingCreated {
		t.Errorf("expected one booking.created event, got %v", types)
	}
	if len(f.locks.locks) != 0 {
		t.Error("expected advisory lock to be released")
	}
}

func TestCreate_BoundaryTouchConflicts(t *testing.T) {
	f := newFixture()
	ctx := actorCtx(testUserID)

	if _, err := f.service.Create(ctx, testRoomID, "2025-06-01", "2025-06-10"); err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}

	// A stay starting on the day the existing one ends is a conflict.
	_, err := f.service.Create(ctx, testRoomID, "2025-06-10", "2025-06-15")
	wantStatus(t, err, http.StatusConflict)

	// One day later is fine.
	if _, err := f.service.Create(ctx, testRoomID, "2025-06-11", "2025-06-15"); err != nil {
		t.Fatalf("adjacent booking should succeed: %v", err)
	}
}

func TestCreate_NoDoubleBookingAfterSequence(t *testing.T) {
	f := newFixture()
	ctx := actorCtx(testUserID)

	ranges := [][2]string{
		{"2025-06-01", "2025-06-05"},
		{"2025-06-05", "2025-06-08"},
		{"2025-06-06", "2025-06-12"},
		{"2025-06-13", "2025-06-20"},
		{"2025-06-20", "2025-06-25"},
	}
	for _, r := range ranges {
		f.service.Create(ctx, testRoomID, r[0], r[1])
	}

	var live []*model.Booking
	for _, b := range f.repo.bookings {
		live = append(live, b)
	}
	for i := 0; i < len(live); i++ {
		for j := i + 1; j < len(live); j++ {
			if live[i].Range().Overlaps(live[j].Range()) {
				t.Fatalf("bookings %s and %s overlap", live[i].Range(), live[j].Range())
			}
		}
	}
}

// ────────────────────────────────────────────────
// Update
// ────────────────────────────────────────────────

func TestUpdate_SameDatesNoSelfConflict(t *testing.T) {
	f := newFixture()
	ctx := actorCtx(testUserID)

	booking, err := f.service.Create(ctx, testRoomID, "2025-06-01", "2025-06-10")
	if err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}

	updated, err := f.service.Update(ctx, booking.ID, "2025-06-01", "2025-06-10")
	if err != nil {
		t.Fatalf("update to identical dates must not conflict: %v", err)
	}
	if updated.Status != model.BookingPending {
		t.Errorf("expected update to reset status to pending, got %s", updated.Status)
	}
}

func TestUpdate_ConflictAgainstOtherBooking(t *testing.T) {
	f := newFixture()
	ctx := actorCtx(testUserID)

	first, _ := f.service.Create(ctx, testRoomID, "2025-06-01", "2025-06-05")
	if _, err := f.service.Create(ctx, testRoomID, "2025-06-10", "2025-06-15"); err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}

	_, err := f.service.Update(ctx, first.ID, "2025-06-04", "2025-06-10")
	wantStatus(t, err, http.StatusConflict)
}

func TestUpdate_Authorization(t *testing.T) {
	f := newFixture()

	booking, err := f.service.Create(actorCtx(testUserID), testRoomID, "2025-06-01", "2025-06-10")
	if err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}

	_, err = f.service.Update(actorCtx("someone-else"), booking.ID, "2025-06-02", "2025-06-09")
	wantStatus(t, err, http.StatusForbidden)

	if _, err := f.service.Update(actorCtx("admin-user", auth.RoleAdmin), booking.ID, "2025-06-02", "2025-06-09"); err != nil {
		t.Fatalf("admin update should succeed: %v", err)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.service.Update(actorCtx(testUserID), newHexID(777), "2025-06-01", "2025-06-10")
	wantStatus(t, err, http.StatusNotFound)
}

// ────────────────────────────────────────────────
// Delete
// ────────────────────────────────────────────────

func TestDelete_ResetsRoomAndFreesDates(t *testing.T) {
	f := newFixture()
	ctx := actorCtx(testUserID)

	booking, err := f.service.Create(ctx, testRoomID, "2025-06-01", "2025-06-10")
	if err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}

	if err := f.service.Delete(ctx, booking.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if got := f.rooms.status[testRoomID]; got != model.RoomAvailable {
		t.Errorf("expected room status available after delete, got %s", got)
	}

	// The freed dates can be booked again.
	if _, err := f.service.Create(ctx, testRoomID, "2025-06-01", "2025-06-10"); err != nil {
		t.Fatalf("rebooking freed dates should succeed: %v", err)
	}

	if types := f.publisher.types(); len(types) != 3 || types[1] != events.TypeBookingCancelled {
		t.Errorf("expected created/cancelled/created events, got %v", types)
	}
}

func TestDelete_ForbiddenForStranger(t *testing.T) {
	f := newFixture()

	booking, _ := f.service.Create(actorCtx(testUserID), testRoomID, "2025-06-01", "2025-06-10")

	err := f.service.Delete(actorCtx("someone-else"), booking.ID)
	wantStatus(t, err, http.StatusForbidden)
}

// ────────────────────────────────────────────────
// Concurrency
// ────────────────────────────────────────────────

func TestCreate_ConcurrentSameRoomSameDates(t *testing.T) {
	for round := 0; round < 20; round++ {
		f := newFixture()
		ctx := actorCtx(testUserID)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		wg.Add(2)
		for i := 0; i < 2; i++ {
			go func(i int) {
				defer wg.Done()
				_, errs[i] = f.service.Create(ctx, testRoomID, "2025-06-01", "2025-06-10")
			}(i)
		}
		wg.Wait()

		var ok, conflict int
		for _, err := range errs {
			switch {
			case err == nil:
				ok++
			case apperrors.AsAppError(err).StatusCode() == http.StatusConflict:
				conflict++
			default:
				t.Fatalf("round %d: unexpected error: %v", round, err)
			}
		}
		if ok != 1 || conflict != 1 {
			t.Fatalf("round %d: expected exactly one success and one conflict, got %d/%d", round, ok, conflict)
		}
		if len(f.repo.bookings) != 1 {
			t.Fatalf("round %d: expected one persisted booking, got %d", round, len(f.repo.bookings))
		}
	}
}
