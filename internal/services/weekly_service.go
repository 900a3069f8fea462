package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lunaselene/solace/internal/models"
	"go.uber.org/zap"
)

const WeeklyCooldownDays = 7

var (
	ErrWeeklyLoadFailed   = errors.New("load weekly analyses failed")
	ErrWeeklySaveFailed   = errors.New("save weekly analysis failed")
	ErrWeeklyNoEntries    = errors.New("no entries in the trailing week")
	ErrWeeklyLLMFailed    = errors.New("weekly analysis generation failed")
	ErrWeeklyNotAvailable = errors.New("weekly analysis cooldown active")
	ErrCompleterMissing   = errors.New("no completion client configured")
)

// WeeklyAvailability is the informational cooldown state: not an error, the
// client renders "available again in N days".
type WeeklyAvailability struct {
	Available       bool `json:"available"`
	AvailableInDays int  `json:"available_in_days"`
}

type WeekSummary struct {
	EntriesCount    int
	AvgFeelScore    float64
	DominantEmotion string
}

type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type WeeklyService struct {
	entries   EntryRepository
	weeklies  WeeklyRepository
	mirror    EntryMirror
	completer Completer
	location  *time.Location
	logger    *zap.Logger
}

func NewWeeklyService(entries EntryRepository, weeklies WeeklyRepository, mirror EntryMirror, completer Completer, location *time.Location, logger *zap.Logger) *WeeklyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WeeklyService{
		entries:   entries,
		weeklies:  weeklies,
		mirror:    mirror,
		completer: completer,
		location:  location,
		logger:    logger,
	}
}

func (service *WeeklyService) WeeklyAnalyses(userID uint) ([]models.WeeklyAnalysis, error) {
	analyses, err := service.weeklies.ListByUser(userID)
	if err != nil {
		return nil, ErrWeeklyLoadFailed
	}
	return analyses, nil
}

// Availability reports whether a new weekly analysis may be created. The
// trailing seven-day cooldown consults both the local store and, when the
// mirror is configured, the cloud marker so a second device cannot bypass it.
func (service *WeeklyService) Availability(ctx context.Context, userID uint, now time.Time) (WeeklyAvailability, error) {
	latest, found, err := service.weeklies.FindLatestByUser(userID)
	if err != nil {
		return WeeklyAvailability{}, ErrWeeklyLoadFailed
	}

	newest := time.Time{}
	if found {
		newest = latest.CreatedAt
	}

	if service.mirror != nil {
		cloudAt, cloudFound, err := service.mirror.LatestWeeklyAt(ctx, userID)
		if err != nil {
			service.logger.Warn("cloud weekly marker lookup failed, using local cooldown only",
				zap.Uint("user_id", userID),
				zap.Error(err))
		} else if cloudFound && cloudAt.After(newest) {
			newest = cloudAt
		}
	}

	if newest.IsZero() {
		return WeeklyAvailability{Available: true}, nil
	}

	today := DateAtLocation(now, service.location)
	latestDay := DateAtLocation(newest, service.location)
	elapsed := DaysBetween(latestDay, today)
	if elapsed >= WeeklyCooldownDays {
		return WeeklyAvailability{Available: true}, nil
	}
	return WeeklyAvailability{Available: false, AvailableInDays: WeeklyCooldownDays - elapsed}, nil
}

// Generate runs the weekly reflection flow: cooldown gate, trailing-week
// aggregation, LLM completion, persist. Nothing is stored when the
// completion fails, so a retry later is always safe.
func (service *WeeklyService) Generate(ctx context.Context, userID uint, now time.Time) (models.WeeklyAnalysis, WeeklyAvailability, error) {
	if service.completer == nil {
		return models.WeeklyAnalysis{}, WeeklyAvailability{}, ErrCompleterMissing
	}

	availability, err := service.Availability(ctx, userID, now)
	if err != nil {
		return models.WeeklyAnalysis{}, WeeklyAvailability{}, err
	}
	if !availability.Available {
		return models.WeeklyAnalysis{}, availability, ErrWeeklyNotAvailable
	}

	entries, err := service.entries.ListByUser(userID)
	if err != nil {
		return models.WeeklyAnalysis{}, availability, ErrWeeklyLoadFailed
	}

	weekEntries := entriesInTrailingWeek(entries, now, service.location)
	if len(weekEntries) == 0 {
		return models.WeeklyAnalysis{}, availability, ErrWeeklyNoEntries
	}

	summary := SummarizeWeek(weekEntries)
	highlight, highlightColor := ClassifyHighlight(summary.AvgFeelScore)

	text, err := service.completer.Complete(ctx, buildWeeklyPrompt(weekEntries, summary))
	if err != nil {
		service.logger.Warn("weekly completion failed", zap.Uint("user_id", userID), zap.Error(err))
		return models.WeeklyAnalysis{}, availability, ErrWeeklyLLMFailed
	}

	analysis := models.WeeklyAnalysis{
		LocalID:        uuid.NewString(),
		UserID:         userID,
		CreatedAt:      now,
		Analysis:       strings.TrimSpace(text),
		Highlight:      highlight,
		HighlightColor: highlightColor,
		EntriesCount:   summary.EntriesCount,
		AvgFeelScore:   summary.AvgFeelScore,
	}
	if err := service.weeklies.Create(&analysis); err != nil {
		return models.WeeklyAnalysis{}, availability, ErrWeeklySaveFailed
	}

	if service.mirror != nil {
		if err := service.mirror.PublishWeeklyMarker(ctx, userID, analysis.CreatedAt); err != nil {
			service.logger.Warn("weekly marker mirror failed", zap.Uint("user_id", userID), zap.Error(err))
		}
	}

	return analysis, WeeklyAvailability{Available: true}, nil
}

// SummarizeWeek aggregates the non-sensitive numeric fields of a week's
// entries. The dominant emotion is the most frequent label, ties broken
// alphabetically for deterministic output.
func SummarizeWeek(entries []models.JournalEntry) WeekSummary {
	if len(entries) == 0 {
		return WeekSummary{}
	}

	total := 0
	emotionCounts := make(map[string]int)
	for _, entry := range entries {
		total += entry.FeelScore
		emotion := strings.TrimSpace(entry.Emotion)
		if emotion != "" {
			emotionCounts[emotion]++
		}
	}

	emotions := make([]string, 0, len(emotionCounts))
	for emotion := range emotionCounts {
		emotions = append(emotions, emotion)
	}
	sort.Strings(emotions)

	dominant := ""
	best := 0
	for _, emotion := range emotions {
		if emotionCounts[emotion] > best {
			best = emotionCounts[emotion]
			dominant = emotion
		}
	}

	return WeekSummary{
		EntriesCount:    len(entries),
		AvgFeelScore:    float64(total) / float64(len(entries)),
		DominantEmotion: dominant,
	}
}

// ClassifyHighlight maps the average feel score (1-99) onto the display
// classification the client shows on the weekly card.
func ClassifyHighlight(avgFeelScore float64) (string, string) {
	switch {
	case avgFeelScore < 34:
		return models.HighlightLow, "#6B7A99"
	case avgFeelScore < 67:
		return models.HighlightSteady, "#E8B84B"
	default:
		return models.HighlightBright, "#F2A25C"
	}
}

func entriesInTrailingWeek(entries []models.JournalEntry, now time.Time, location *time.Location) []models.JournalEntry {
	today := DateAtLocation(now, location)
	windowStart := today.AddDate(0, 0, -(WeeklyCooldownDays - 1))

	matched := make([]models.JournalEntry, 0, len(entries))
	for _, entry := range entries {
		day := DateAtLocation(entry.CreatedAt, location)
		if day.Before(windowStart) || day.After(today) {
			continue
		}
		matched = append(matched, entry)
	}
	return matched
}

func buildWeeklyPrompt(entries []models.JournalEntry, summary WeekSummary) string {
	var builder strings.Builder
	builder.WriteString("You are a warm, grounded journaling coach. ")
	builder.WriteString("Write a short reflection (three paragraphs at most) over the user's last week of mood journal entries. ")
	builder.WriteString("Be specific, kind, and avoid clinical language.\n\n")
	fmt.Fprintf(&builder, "Entries this week: %d. Average mood score (1-99): %.0f.", summary.EntriesCount, summary.AvgFeelScore)
	if summary.DominantEmotion != "" {
		fmt.Fprintf(&builder, " Most frequent emotion: %s.", summary.DominantEmotion)
	}
	builder.WriteString("\n\n")
	for _, entry := range entries {
		fmt.Fprintf(&builder, "- %s | emotion: %s | score: %d", entry.CreatedAt.Format("2006-01-02"), entry.Emotion, entry.FeelScore)
		if strings.TrimSpace(entry.Theme) != "" {
			fmt.Fprintf(&builder, " | theme: %s", entry.Theme)
		}
		if strings.TrimSpace(entry.Text) != "" {
			fmt.Fprintf(&builder, "\n  journal: %s", entry.Text)
		}
		if strings.TrimSpace(entry.Gratitude) != "" {
			fmt.Fprintf(&builder, "\n  gratitude: %s", entry.Gratitude)
		}
		builder.WriteString("\n")
	}
	return builder.String()
}
