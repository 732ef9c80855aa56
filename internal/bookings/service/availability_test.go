package service

import (
	"context"
	"net/http"
	"testing"

	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/model"
)

func mustRange(t *testing.T, start, end string) model.DateRange {
	t.Helper()
	rng, err := model.ParseDateRange(start, end)
	if err != nil {
		t.Fatalf("bad test range: %v", err)
	}
	return rng
}

func TestHasConflict_EmptyRoomID(t *testing.T) {
	f := newFixture()
	availability := NewAvailabilityService(f.repo, f.rooms, testConfig())

	_, err := availability.HasConflict(context.Background(), "", mustRange(t, "2025-06-01", "2025-06-10"), "")
	if apperrors.AsAppError(err).StatusCode() != http.StatusBadRequest {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestHasConflict_ExcludesGivenBooking(t *testing.T) {
	f := newFixture()
	availability := NewAvailabilityService(f.repo, f.rooms, testConfig())
	ctx := actorCtx(testUserID)

	booking, err := f.service.Create(ctx, testRoomID, "2025-06-01", "2025-06-10")
	if err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}

	conflict, err := availability.HasConflict(context.Background(), testRoomID, booking.Range(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !conflict {
		t.Error("expected conflict without exclusion")
	}

	conflict, err = availability.HasConflict(context.Background(), testRoomID, booking.Range(), booking.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conflict {
		t.Error("booking must not conflict with itself when excluded")
	}
}

func TestListAvailableRooms_RoomReappearsAfterDelete(t *testing.T) {
	roomA := &model.Room{ID: newHexID(1), HotelID: newHexID(900), Number: "101", Type: "double", Capacity: 2, Price: 100, Status: model.RoomAvailable}
	roomB := &model.Room{ID: newHexID(2), HotelID: newHexID(900), Number: "102", Type: "double", Capacity: 2, Price: 100, Status: model.RoomAvailable}
	f := newFixture(roomA, roomB)
	availability := NewAvailabilityService(f.repo, f.rooms, testConfig())
	ctx := actorCtx(testUserID)
	rng := mustRange(t, "2025-06-01", "2025-06-10")

	booking, err := f.service.Create(ctx, roomA.ID, "2025-06-01", "2025-06-10")
	if err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}

	rooms, total, err := availability.ListAvailableRooms(context.Background(), rng, 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(rooms) != 1 || rooms[0].ID != roomB.ID {
		t.Fatalf("expected only room B available, got total=%d rooms=%v", total, rooms)
	}

	if err := f.service.Delete(ctx, booking.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	_, total, err = availability.ListAvailableRooms(context.Background(), rng, 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected both rooms available after delete, got %d", total)
	}
}
