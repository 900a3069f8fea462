package db

import (
	"github.com/lunaselene/solace/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TrialMarkRepository struct {
	database *gorm.DB
}

func NewTrialMarkRepository(database *gorm.DB) *TrialMarkRepository {
	return &TrialMarkRepository{database: database}
}

func (repo *TrialMarkRepository) FindByDeviceID(deviceID string) (models.TrialMark, bool, error) {
	mark := models.TrialMark{}
	result := repo.database.
		Where("device_id = ?", deviceID).
		Limit(1).
		Find(&mark)
	if result.Error != nil {
		return models.TrialMark{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.TrialMark{}, false, nil
	}
	return mark, true, nil
}

// CreateIfAbsent inserts the mark unless one already exists for the device.
// First writer wins; the stored row is returned either way so the trial
// anchor never moves after it is set.
func (repo *TrialMarkRepository) CreateIfAbsent(mark models.TrialMark) (models.TrialMark, error) {
	if err := repo.database.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&mark).Error; err != nil {
		return models.TrialMark{}, err
	}

	stored, found, err := repo.FindByDeviceID(mark.DeviceID)
	if err != nil {
		return models.TrialMark{}, err
	}
	if !found {
		return mark, nil
	}
	return stored, nil
}
