package http

import (
	"net/http/httptest"
	"testing"

	"innkeep/pkg/config"
)

func TestExtractPageLimit(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantPage  int
		wantLimit int
		wantErr   bool
	}{
		{"defaults", "/bookings", 1, config.DefaultPageLimit, false},
		{"explicit", "/bookings?page=3&limit=25", 3, 25, false},
		{"page below one clamps", "/bookings?page=0", 1, config.DefaultPageLimit, false},
		{"negative page clamps", "/bookings?page=-4", 1, config.DefaultPageLimit, false},
		{"limit below one clamps", "/bookings?limit=0", 1, 1, false},
		{"limit capped", "/bookings?limit=100000", 1, config.MaxPageLimit, false},
		{"bad page", "/bookings?page=abc", 0, 0, true},
		{"bad limit", "/bookings?limit=ten", 0, 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tc.url, nil)
			page, limit, err := ExtractPageLimit(r)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if page != tc.wantPage || limit != tc.wantLimit {
				t.Errorf("got (%d, %d), want (%d, %d)", page, limit, tc.wantPage, tc.wantLimit)
			}
		})
	}
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		total     int64
		limit     int
		wantPages int64
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{95, 10, 10},
	}
	for _, tc := range tests {
		p := NewPagination(1, tc.limit, 0, tc.total)
		if p.TotalPages != tc.wantPages {
			t.Errorf("total %d limit %d: totalPages = %d, want %d", tc.total, tc.limit, p.TotalPages, tc.wantPages)
		}
	}
}
