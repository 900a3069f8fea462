package db

import (
	"time"

	"github.com/lunaselene/solace/internal/models"
	"gorm.io/gorm"
)

type JournalEntryRepository struct {
	database *gorm.DB
}

func NewJournalEntryRepository(database *gorm.DB) *JournalEntryRepository {
	return &JournalEntryRepository{database: database}
}

func (repo *JournalEntryRepository) ListByUser(userID uint) ([]models.JournalEntry, error) {
	entries := make([]models.JournalEntry, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByUserAndDayRange returns the most recent entry whose created_at falls
// inside [dayStart, dayEnd). Creation normally keeps the window to one entry
// per day; if a clock change left duplicates, the newest wins the tie-break.
func (repo *JournalEntryRepository) FindByUserAndDayRange(userID uint, dayStart time.Time, dayEnd time.Time) (models.JournalEntry, bool, error) {
	entry := models.JournalEntry{}
	result := repo.database.
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, dayStart, dayEnd).
		Order("created_at DESC, id DESC").
		Limit(1).
		Find(&entry)
	if result.Error != nil {
		return models.JournalEntry{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.JournalEntry{}, false, nil
	}
	return entry, true, nil
}

func (repo *JournalEntryRepository) FindByUserAndLocalID(userID uint, localID string) (models.JournalEntry, bool, error) {
	entry := models.JournalEntry{}
	result := repo.database.
		Where("user_id = ? AND local_id = ?", userID, localID).
		Limit(1).
		Find(&entry)
	if result.Error != nil {
		return models.JournalEntry{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.JournalEntry{}, false, nil
	}
	return entry, true, nil
}

func (repo *JournalEntryRepository) Create(entry *models.JournalEntry) error {
	return repo.database.Create(entry).Error
}

func (repo *JournalEntryRepository) Save(entry *models.JournalEntry) error {
	return repo.database.Save(entry).Error
}

func (repo *JournalEntryRepository) DeleteByUser(userID uint) error {
	return repo.database.Where("user_id = ?", userID).Delete(&models.JournalEntry{}).Error
}
