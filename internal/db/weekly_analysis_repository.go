package db

import (
	"github.com/lunaselene/solace/internal/models"
	"gorm.io/gorm"
)

type WeeklyAnalysisRepository struct {
	database *gorm.DB
}

func NewWeeklyAnalysisRepository(database *gorm.DB) *WeeklyAnalysisRepository {
	return &WeeklyAnalysisRepository{database: database}
}

func (repo *WeeklyAnalysisRepository) ListByUser(userID uint) ([]models.WeeklyAnalysis, error) {
	analyses := make([]models.WeeklyAnalysis, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&analyses).Error; err != nil {
		return nil, err
	}
	return analyses, nil
}

func (repo *WeeklyAnalysisRepository) FindLatestByUser(userID uint) (models.WeeklyAnalysis, bool, error) {
	analysis := models.WeeklyAnalysis{}
	result := repo.database.
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(1).
		Find(&analysis)
	if result.Error != nil {
		return models.WeeklyAnalysis{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.WeeklyAnalysis{}, false, nil
	}
	return analysis, true, nil
}

func (repo *WeeklyAnalysisRepository) Create(analysis *models.WeeklyAnalysis) error {
	return repo.database.Create(analysis).Error
}

func (repo *WeeklyAnalysisRepository) DeleteByUser(userID uint) error {
	return repo.database.Where("user_id = ?", userID).Delete(&models.WeeklyAnalysis{}).Error
}
