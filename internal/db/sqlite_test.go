package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/lunaselene/solace/internal/models"
	"gorm.io/gorm"
)

func openTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := OpenSQLite(filepath.Join(t.TempDir(), "solace.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error: %v", err)
	}
	return database
}

func TestOpenSQLiteBootstrapsSchema(t *testing.T) {
	database := openTestDatabase(t)

	for _, table := range []string{"users", "journal_entries", "weekly_analyses", "trial_marks", "schema_migrations"} {
		var count int64
		err := database.Raw(
			`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&count).Error
		if err != nil {
			t.Fatalf("inspect table %s: %v", table, err)
		}
		if count != 1 {
			t.Fatalf("expected table %s to exist after bootstrap", table)
		}
	}

	var applied int64
	if err := database.Raw(`SELECT COUNT(*) FROM schema_migrations`).Scan(&applied).Error; err != nil {
		t.Fatalf("count applied migrations: %v", err)
	}
	if applied == 0 {
		t.Fatal("expected at least one recorded migration")
	}
}

func TestOpenSQLiteIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "solace.db")

	if _, err := OpenSQLite(dbPath); err != nil {
		t.Fatalf("first open: %v", err)
	}
	if _, err := OpenSQLite(dbPath); err != nil {
		t.Fatalf("reopen over an already-migrated store: %v", err)
	}
}

func TestJournalEntryRepositoryDayRangeTieBreak(t *testing.T) {
	database := openTestDatabase(t)
	repo := NewJournalEntryRepository(database)

	dayStart := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	early := models.JournalEntry{LocalID: "early", UserID: 1, CreatedAt: dayStart.Add(8 * time.Hour), FeelScore: 40}
	late := models.JournalEntry{LocalID: "late", UserID: 1, CreatedAt: dayStart.Add(21 * time.Hour), FeelScore: 70}
	for _, entry := range []*models.JournalEntry{&early, &late} {
		if err := repo.Create(entry); err != nil {
			t.Fatalf("create entry: %v", err)
		}
	}

	got, found, err := repo.FindByUserAndDayRange(1, dayStart, dayEnd)
	if err != nil {
		t.Fatalf("FindByUserAndDayRange() error: %v", err)
	}
	if !found {
		t.Fatal("expected a match inside the day window")
	}
	if got.LocalID != "late" {
		t.Fatalf("expected newest entry to win, got %s", got.LocalID)
	}

	// An entry at exactly dayEnd belongs to the next day.
	nextDay := models.JournalEntry{LocalID: "next", UserID: 2, CreatedAt: dayEnd, FeelScore: 50}
	if err := repo.Create(&nextDay); err != nil {
		t.Fatalf("create entry: %v", err)
	}
	_, found, err = repo.FindByUserAndDayRange(2, dayStart, dayEnd)
	if err != nil {
		t.Fatalf("FindByUserAndDayRange() error: %v", err)
	}
	if found {
		t.Fatal("entry at the exclusive upper bound must not match")
	}
}

func TestJournalEntryRepositoryScopesByUser(t *testing.T) {
	database := openTestDatabase(t)
	repo := NewJournalEntryRepository(database)
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

	mine := models.JournalEntry{LocalID: "mine", UserID: 1, CreatedAt: now, FeelScore: 50}
	theirs := models.JournalEntry{LocalID: "theirs", UserID: 2, CreatedAt: now, FeelScore: 50}
	for _, entry := range []*models.JournalEntry{&mine, &theirs} {
		if err := repo.Create(entry); err != nil {
			t.Fatalf("create entry: %v", err)
		}
	}

	if _, found, err := repo.FindByUserAndLocalID(1, "theirs"); err != nil || found {
		t.Fatalf("cross-user lookup must miss, got found=%v err=%v", found, err)
	}

	if err := repo.DeleteByUser(1); err != nil {
		t.Fatalf("DeleteByUser() error: %v", err)
	}
	remaining, err := repo.ListByUser(2)
	if err != nil {
		t.Fatalf("ListByUser() error: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("deleting user 1 must not touch user 2, got %d entries", len(remaining))
	}
}

func TestTrialMarkRepositoryFirstWriterWins(t *testing.T) {
	database := openTestDatabase(t)
	repo := NewTrialMarkRepository(database)

	first := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	stored, err := repo.CreateIfAbsent(models.TrialMark{DeviceID: "device-a", StartedAt: first})
	if err != nil {
		t.Fatalf("CreateIfAbsent() error: %v", err)
	}
	if !stored.StartedAt.Equal(first) {
		t.Fatalf("stored anchor = %s, want %s", stored.StartedAt, first)
	}

	later := first.AddDate(0, 0, 10)
	stored, err = repo.CreateIfAbsent(models.TrialMark{DeviceID: "device-a", StartedAt: later})
	if err != nil {
		t.Fatalf("second CreateIfAbsent() error: %v", err)
	}
	if !stored.StartedAt.Equal(first) {
		t.Fatalf("anchor moved to %s, want original %s", stored.StartedAt, first)
	}
}

func TestWeeklyAnalysisRepositoryFindLatest(t *testing.T) {
	database := openTestDatabase(t)
	repo := NewWeeklyAnalysisRepository(database)

	_, found, err := repo.FindLatestByUser(1)
	if err != nil {
		t.Fatalf("FindLatestByUser() on empty store: %v", err)
	}
	if found {
		t.Fatal("expected no analysis in an empty store")
	}

	older := models.WeeklyAnalysis{LocalID: "older", UserID: 1, CreatedAt: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)}
	newer := models.WeeklyAnalysis{LocalID: "newer", UserID: 1, CreatedAt: time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)}
	for _, analysis := range []*models.WeeklyAnalysis{&older, &newer} {
		if err := repo.Create(analysis); err != nil {
			t.Fatalf("create analysis: %v", err)
		}
	}

	latest, found, err := repo.FindLatestByUser(1)
	if err != nil {
		t.Fatalf("FindLatestByUser() error: %v", err)
	}
	if !found || latest.LocalID != "newer" {
		t.Fatalf("expected newest analysis, got found=%v local_id=%s", found, latest.LocalID)
	}
}
