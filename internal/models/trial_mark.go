package models

import "time"

// TrialMark anchors the free-trial window for one device install. The row is
// written exactly once, on the first gate evaluation that finds no mark, and
// is immutable afterwards.
type TrialMark struct {
	DeviceID  string    `gorm:"primaryKey" json:"device_id"`
	StartedAt time.Time `gorm:"not null" json:"started_at"`
}
