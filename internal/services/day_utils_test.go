package services

import (
	"testing"
	"time"
)

func TestDayRangeNormalizesToLocationMidnight(t *testing.T) {
	location, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	raw := time.Date(2026, 2, 1, 19, 35, 10, 0, time.UTC)
	start, end := DayRange(raw, location)

	if start.Hour() != 0 || start.Minute() != 0 || start.Second() != 0 {
		t.Fatalf("expected midnight start, got %s", start.Format(time.RFC3339))
	}
	if !end.Equal(start.AddDate(0, 0, 1)) {
		t.Fatalf("expected next day end, got %s", end.Format(time.RFC3339))
	}
}

func TestDateAtLocationDefaultsToUTC(t *testing.T) {
	raw := time.Date(2026, 2, 1, 19, 35, 10, 0, time.UTC)
	got := DateAtLocation(raw, nil)
	want := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("DateAtLocation() = %s, want %s", got, want)
	}
}

func TestDaysBetween(t *testing.T) {
	base := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{name: "same day", from: base, to: base, want: 0},
		{name: "one day apart", from: base.AddDate(0, 0, -1), to: base, want: 1},
		{name: "a week apart", from: base.AddDate(0, 0, -7), to: base, want: 7},
		{name: "reversed is negative", from: base, to: base.AddDate(0, 0, -2), want: -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.from, tt.to); got != tt.want {
				t.Fatalf("DaysBetween() = %d, want %d", got, tt.want)
			}
		})
	}
}
