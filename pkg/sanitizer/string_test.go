package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"Grand Hotel", "Grand Hotel"},
		{"  Grand   Hotel  ", "Grand Hotel"},
		{"Grand\t\nHotel", "Grand Hotel"},
	}
	for _, tc := range tests {
		if got := TrimAndNormalize(tc.in); got != tc.want {
			t.Errorf("TrimAndNormalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTrimAndNormalizeIdempotent(t *testing.T) {
	in := "  Hôtel   de  la   Gare "
	once := TrimAndNormalize(in)
	if twice := TrimAndNormalize(once); twice != once {
		t.Errorf("not idempotent: %q vs %q", once, twice)
	}
}

func TestNormalizeLabel(t *testing.T) {
	if got := NormalizeLabel("  Double  Deluxe "); got != "double deluxe" {
		t.Errorf("NormalizeLabel = %q", got)
	}
}

func TestClampInt(t *testing.T) {
	tests := []struct {
		v, min, max, want int
	}{
		{0, 1, 100, 1},
		{-5, 1, 100, 1},
		{50, 1, 100, 50},
		{500, 1, 100, 100},
	}
	for _, tc := range tests {
		if got := ClampInt(tc.v, tc.min, tc.max); got != tc.want {
			t.Errorf("ClampInt(%d, %d, %d) = %d, want %d", tc.v, tc.min, tc.max, got, tc.want)
		}
	}
}
