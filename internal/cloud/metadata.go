package cloud

import (
	"time"

	"github.com/lunaselene/solace/internal/models"
)

// EntryMetadata is the only entry shape that may cross to the hosted store.
// It is deliberately disjoint from models.JournalEntry: free-text fields
// (text, gratitude, analysis) have no place here, so a call site cannot leak
// them without first writing an explicit conversion that drops them.
type EntryMetadata struct {
	UserID       uint      `json:"user_id"`
	Emotion      string    `json:"emotion"`
	FeelScore    int       `json:"feel_score"`
	CreatedAt    time.Time `json:"created_at"`
	HasTheme     bool      `json:"has_theme"`
	HasText      bool      `json:"has_text"`
	HasGratitude bool      `json:"has_gratitude"`
	HasAnalysis  bool      `json:"has_analysis"`
}

// WeeklyMarker records that a weekly analysis was created, and nothing else.
// The hosted store uses it only for the cross-device cooldown.
type WeeklyMarker struct {
	UserID    uint      `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func EntryMetadataFrom(entry models.JournalEntry) EntryMetadata {
	return EntryMetadata{
		UserID:       entry.UserID,
		Emotion:      entry.Emotion,
		FeelScore:    entry.FeelScore,
		CreatedAt:    entry.CreatedAt,
		HasTheme:     entry.Theme != "",
		HasText:      entry.Text != "",
		HasGratitude: entry.Gratitude != "",
		HasAnalysis:  entry.Analysis != "",
	}
}
