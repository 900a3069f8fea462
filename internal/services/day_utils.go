package services

import (
	"math"
	"time"
)

// DateAtLocation normalizes a timestamp to midnight of its calendar day in
// the given location. All day-window logic (today's entry, streaks, trial
// accounting) goes through this so the same local calendar is used for both
// stored timestamps and the "today" reference point.
func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

func DayRange(value time.Time, location *time.Location) (time.Time, time.Time) {
	start := DateAtLocation(value, location)
	return start, start.AddDate(0, 0, 1)
}

// DaysBetween counts whole calendar days from one local midnight to another.
// Both arguments must already be day-normalized. Rounding absorbs the 23- and
// 25-hour days a DST transition produces.
func DaysBetween(from time.Time, to time.Time) int {
	return int(math.Round(to.Sub(from).Hours() / 24))
}
