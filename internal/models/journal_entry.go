package models

import "time"

const (
	FeelScoreMin = 1
	FeelScoreMax = 99
)

// JournalEntry is one daily mood record. The free-text fields (Text,
// Gratitude, Analysis) are local-only and must never leave the device store;
// only derived metadata is mirrored to the cloud (see internal/cloud).
type JournalEntry struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	LocalID   string    `gorm:"uniqueIndex;not null" json:"local_id"`
	UserID    uint      `gorm:"index:idx_journal_entries_user_created;not null" json:"-"`
	CreatedAt time.Time `gorm:"index:idx_journal_entries_user_created;not null" json:"created_at"`
	Emotion   string    `gorm:"not null;default:''" json:"emotion"`
	FeelScore int       `gorm:"not null;default:50" json:"feel_score"`
	Theme     string    `gorm:"not null;default:''" json:"theme"`
	Text      string    `gorm:"not null;default:''" json:"text"`
	Gratitude string    `gorm:"not null;default:''" json:"gratitude"`
	Analysis  string    `gorm:"not null;default:''" json:"analysis"`
	UpdatedAt time.Time `json:"-"`
}
