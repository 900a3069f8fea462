package services

import (
	"sort"
	"time"
)

type StreakState struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// CalculateStreaks derives consecutive-day counts from entry timestamps.
// Multiple entries on one calendar day count once. Current is the length of
// the run ending today and is zero when today has no entry; Longest is the
// maximum run over the whole history, so Longest >= Current always holds.
func CalculateStreaks(createdAts []time.Time, now time.Time, location *time.Location) StreakState {
	days := distinctDaysAscending(createdAts, location)
	if len(days) == 0 {
		return StreakState{}
	}

	longest := 0
	run := 0
	var previous time.Time
	for index, day := range days {
		if index > 0 && day.Equal(previous.AddDate(0, 0, 1)) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
		previous = day
	}

	current := 0
	today := DateAtLocation(now, location)
	if days[len(days)-1].Equal(today) {
		current = run
	}

	return StreakState{Current: current, Longest: longest}
}

func distinctDaysAscending(createdAts []time.Time, location *time.Location) []time.Time {
	seen := make(map[time.Time]struct{}, len(createdAts))
	days := make([]time.Time, 0, len(createdAts))
	for _, createdAt := range createdAts {
		day := DateAtLocation(createdAt, location)
		if _, exists := seen[day]; exists {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}

	sort.Slice(days, func(i, j int) bool {
		return days[i].Before(days[j])
	})
	return days
}
