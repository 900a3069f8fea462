package services

import (
	"sort"
	"strconv"
	"time"

	"github.com/lunaselene/solace/internal/models"
)

const exportDateLayout = "2006-01-02"

// Full local export for data portability and therapist handoff. Unlike the
// cloud mirror this runs entirely on-device and includes the sensitive
// free-text fields; it never leaves through the mirroring path.
var ExportCSVHeaders = []string{
	"Date",
	"Emotion",
	"Feel score",
	"Theme",
	"Journal",
	"Gratitude",
	"Analysis",
}

type ExportEntryReader interface {
	ListByUser(userID uint) ([]models.JournalEntry, error)
}

type ExportWeeklyReader interface {
	ListByUser(userID uint) ([]models.WeeklyAnalysis, error)
}

type ExportService struct {
	entries  ExportEntryReader
	weeklies ExportWeeklyReader
	location *time.Location
}

type ExportSnapshot struct {
	Entries        []models.JournalEntry   `json:"entries"`
	WeeklyAnalyses []models.WeeklyAnalysis `json:"weekly_analyses"`
}

type ExportSummary struct {
	TotalEntries        int    `json:"total_entries"`
	TotalWeeklyAnalyses int    `json:"total_weekly_analyses"`
	HasData             bool   `json:"has_data"`
	DateFrom            string `json:"date_from,omitempty"`
	DateTo              string `json:"date_to,omitempty"`
}

type ExportCSVRow struct {
	Date      string
	Emotion   string
	FeelScore int
	Theme     string
	Text      string
	Gratitude string
	Analysis  string
}

func NewExportService(entries ExportEntryReader, weeklies ExportWeeklyReader, location *time.Location) *ExportService {
	return &ExportService{
		entries:  entries,
		weeklies: weeklies,
		location: location,
	}
}

// BuildSnapshot returns a read-only copy of both per-user lists, sorted
// chronologically. Storage order is not guaranteed, so the sort happens here.
func (service *ExportService) BuildSnapshot(userID uint) (ExportSnapshot, error) {
	entries, err := service.entries.ListByUser(userID)
	if err != nil {
		return ExportSnapshot{}, ErrEntryLoadFailed
	}
	weeklies, err := service.weeklies.ListByUser(userID)
	if err != nil {
		return ExportSnapshot{}, ErrWeeklyLoadFailed
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	sort.Slice(weeklies, func(i, j int) bool {
		return weeklies[i].CreatedAt.Before(weeklies[j].CreatedAt)
	})

	return ExportSnapshot{Entries: entries, WeeklyAnalyses: weeklies}, nil
}

func (service *ExportService) BuildSummary(userID uint) (ExportSummary, error) {
	snapshot, err := service.BuildSnapshot(userID)
	if err != nil {
		return ExportSummary{}, err
	}

	summary := ExportSummary{
		TotalEntries:        len(snapshot.Entries),
		TotalWeeklyAnalyses: len(snapshot.WeeklyAnalyses),
	}
	if len(snapshot.Entries) == 0 {
		return summary, nil
	}

	summary.HasData = true
	summary.DateFrom = DateAtLocation(snapshot.Entries[0].CreatedAt, service.location).Format(exportDateLayout)
	summary.DateTo = DateAtLocation(snapshot.Entries[len(snapshot.Entries)-1].CreatedAt, service.location).Format(exportDateLayout)
	return summary, nil
}

func (service *ExportService) BuildCSVRows(userID uint) ([]ExportCSVRow, error) {
	snapshot, err := service.BuildSnapshot(userID)
	if err != nil {
		return nil, err
	}

	rows := make([]ExportCSVRow, 0, len(snapshot.Entries))
	for _, entry := range snapshot.Entries {
		rows = append(rows, ExportCSVRow{
			Date:      DateAtLocation(entry.CreatedAt, service.location).Format(exportDateLayout),
			Emotion:   entry.Emotion,
			FeelScore: entry.FeelScore,
			Theme:     entry.Theme,
			Text:      entry.Text,
			Gratitude: entry.Gratitude,
			Analysis:  entry.Analysis,
		})
	}
	return rows, nil
}

func (row ExportCSVRow) Columns() []string {
	return []string{
		row.Date,
		row.Emotion,
		strconv.Itoa(row.FeelScore),
		row.Theme,
		row.Text,
		row.Gratitude,
		row.Analysis,
	}
}
