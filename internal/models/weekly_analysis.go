package models

import "time"

const (
	HighlightLow    = "low"
	HighlightSteady = "steady"
	HighlightBright = "bright"
)

// WeeklyAnalysis is an AI-generated reflection over the trailing seven days
// of entries. Analysis text is local-only; the cloud mirror only sees the
// creation timestamp for cross-device rate limiting.
type WeeklyAnalysis struct {
	ID             uint      `gorm:"primaryKey" json:"-"`
	LocalID        string    `gorm:"uniqueIndex;not null" json:"local_id"`
	UserID         uint      `gorm:"index:idx_weekly_analyses_user_created;not null" json:"-"`
	CreatedAt      time.Time `gorm:"index:idx_weekly_analyses_user_created;not null" json:"created_at"`
	Analysis       string    `gorm:"not null;default:''" json:"analysis"`
	Highlight      string    `gorm:"not null;default:''" json:"highlight"`
	HighlightColor string    `gorm:"not null;default:''" json:"highlight_color"`
	EntriesCount   int       `gorm:"not null;default:0" json:"entries_count"`
	AvgFeelScore   float64   `gorm:"not null;default:0" json:"avg_feel_score"`
}
