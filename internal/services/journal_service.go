package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lunaselene/solace/internal/models"
	"go.uber.org/zap"
)

var (
	ErrEntryLoadFailed   = errors.New("load journal entry failed")
	ErrEntrySaveFailed   = errors.New("save journal entry failed")
	ErrEntryUpdateFailed = errors.New("update journal entry failed")
	ErrEntryNotFound     = errors.New("journal entry not found")
	ErrInvalidFeelScore  = errors.New("feel score out of range")
	ErrClearDataFailed   = errors.New("clear journal data failed")
)

type EntryInput struct {
	Emotion   string
	FeelScore int
	Theme     string
	Text      string
	Gratitude string
}

// EntryPatch carries field-level overwrites; nil fields are left untouched.
type EntryPatch struct {
	Emotion   *string
	FeelScore *int
	Theme     *string
	Text      *string
	Gratitude *string
	Analysis  *string
}

type EntryRepository interface {
	ListByUser(userID uint) ([]models.JournalEntry, error)
	FindByUserAndDayRange(userID uint, dayStart time.Time, dayEnd time.Time) (models.JournalEntry, bool, error)
	FindByUserAndLocalID(userID uint, localID string) (models.JournalEntry, bool, error)
	Create(entry *models.JournalEntry) error
	Save(entry *models.JournalEntry) error
	DeleteByUser(userID uint) error
}

type WeeklyRepository interface {
	ListByUser(userID uint) ([]models.WeeklyAnalysis, error)
	FindLatestByUser(userID uint) (models.WeeklyAnalysis, bool, error)
	Create(analysis *models.WeeklyAnalysis) error
	DeleteByUser(userID uint) error
}

// EntryMirror publishes derived metadata to the hosted store. Implementations
// must never see free-text fields; see internal/cloud for the enforced shape.
type EntryMirror interface {
	PublishEntry(ctx context.Context, entry models.JournalEntry) error
	PublishWeeklyMarker(ctx context.Context, userID uint, createdAt time.Time) error
	LatestWeeklyAt(ctx context.Context, userID uint) (time.Time, bool, error)
}

// JournalService owns the per-user record store. Writes are row-granular
// SQLite transactions; two racing updates to the same entry are still
// last-write-wins at field granularity, accepted for the single-device
// foreground usage pattern.
type JournalService struct {
	entries  EntryRepository
	weeklies WeeklyRepository
	mirror   EntryMirror
	location *time.Location
	logger   *zap.Logger
}

func NewJournalService(entries EntryRepository, weeklies WeeklyRepository, mirror EntryMirror, location *time.Location, logger *zap.Logger) *JournalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JournalService{
		entries:  entries,
		weeklies: weeklies,
		mirror:   mirror,
		location: location,
		logger:   logger,
	}
}

// CreateEntry persists a new entry for the user's current local day. When an
// entry already exists for today it is returned with created=false; that is
// an ordinary state for the client to render, not an error.
func (service *JournalService) CreateEntry(ctx context.Context, userID uint, input EntryInput, now time.Time) (models.JournalEntry, bool, error) {
	if input.FeelScore < models.FeelScoreMin || input.FeelScore > models.FeelScoreMax {
		return models.JournalEntry{}, false, ErrInvalidFeelScore
	}

	existing, found, err := service.TodaysEntry(userID, now)
	if err != nil {
		return models.JournalEntry{}, false, err
	}
	if found {
		return existing, false, nil
	}

	entry := models.JournalEntry{
		LocalID:   uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		Emotion:   input.Emotion,
		FeelScore: input.FeelScore,
		Theme:     input.Theme,
		Text:      input.Text,
		Gratitude: input.Gratitude,
	}
	if err := service.entries.Create(&entry); err != nil {
		return models.JournalEntry{}, false, ErrEntrySaveFailed
	}

	service.mirrorEntry(ctx, entry)
	return entry, true, nil
}

func (service *JournalService) Entries(userID uint) ([]models.JournalEntry, error) {
	entries, err := service.entries.ListByUser(userID)
	if err != nil {
		return nil, ErrEntryLoadFailed
	}
	return entries, nil
}

// TodaysEntry returns the entry created during the device-local current day,
// if any. An empty store is the expected first-run state, not an error.
func (service *JournalService) TodaysEntry(userID uint, now time.Time) (models.JournalEntry, bool, error) {
	dayStart, dayEnd := DayRange(now, service.location)
	entry, found, err := service.entries.FindByUserAndDayRange(userID, dayStart, dayEnd)
	if err != nil {
		return models.JournalEntry{}, false, ErrEntryLoadFailed
	}
	return entry, found, nil
}

func (service *JournalService) Entry(userID uint, localID string) (models.JournalEntry, error) {
	entry, found, err := service.entries.FindByUserAndLocalID(userID, localID)
	if err != nil {
		return models.JournalEntry{}, ErrEntryLoadFailed
	}
	if !found {
		return models.JournalEntry{}, ErrEntryNotFound
	}
	return entry, nil
}

func (service *JournalService) UpdateEntry(ctx context.Context, userID uint, localID string, patch EntryPatch) (models.JournalEntry, error) {
	entry, found, err := service.entries.FindByUserAndLocalID(userID, localID)
	if err != nil {
		return models.JournalEntry{}, ErrEntryLoadFailed
	}
	if !found {
		return models.JournalEntry{}, ErrEntryNotFound
	}

	if patch.FeelScore != nil {
		if *patch.FeelScore < models.FeelScoreMin || *patch.FeelScore > models.FeelScoreMax {
			return models.JournalEntry{}, ErrInvalidFeelScore
		}
		entry.FeelScore = *patch.FeelScore
	}
	if patch.Emotion != nil {
		entry.Emotion = *patch.Emotion
	}
	if patch.Theme != nil {
		entry.Theme = *patch.Theme
	}
	if patch.Text != nil {
		entry.Text = *patch.Text
	}
	if patch.Gratitude != nil {
		entry.Gratitude = *patch.Gratitude
	}
	if patch.Analysis != nil {
		entry.Analysis = *patch.Analysis
	}

	if err := service.entries.Save(&entry); err != nil {
		return models.JournalEntry{}, ErrEntryUpdateFailed
	}

	service.mirrorEntry(ctx, entry)
	return entry, nil
}

// StreakForUser derives current/longest consecutive-day counts from the
// user's entry timestamps.
func (service *JournalService) StreakForUser(userID uint, now time.Time) (StreakState, error) {
	entries, err := service.Entries(userID)
	if err != nil {
		return StreakState{}, err
	}

	createdAts := make([]time.Time, 0, len(entries))
	for _, entry := range entries {
		createdAts = append(createdAts, entry.CreatedAt)
	}
	return CalculateStreaks(createdAts, now, service.location), nil
}

// DeleteAll clears both per-user lists. Deleting an empty store is a no-op.
func (service *JournalService) DeleteAll(userID uint) error {
	if err := service.entries.DeleteByUser(userID); err != nil {
		return ErrClearDataFailed
	}
	if err := service.weeklies.DeleteByUser(userID); err != nil {
		return ErrClearDataFailed
	}
	return nil
}

func (service *JournalService) mirrorEntry(ctx context.Context, entry models.JournalEntry) {
	if service.mirror == nil {
		return
	}
	if err := service.mirror.PublishEntry(ctx, entry); err != nil {
		service.logger.Warn("cloud metadata mirror failed",
			zap.String("local_id", entry.LocalID),
			zap.Error(err))
	}
}
