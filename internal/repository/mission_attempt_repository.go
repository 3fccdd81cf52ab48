package repository

import (
	"studypact_backend/internal/model"

	"gorm.io/gorm"
)

type MissionAttemptRepository struct {
	DB *gorm.DB
}

func NewMissionAttemptRepository(db *gorm.DB) *MissionAttemptRepository {
	return &MissionAttemptRepository{DB: db}
}

func (r *MissionAttemptRepository) Create(attempt *model.MissionAttempt) error {
	return r.DB.Create(attempt).Error
}

// CountByUserAndStep 该步骤已有的尝试次数，AttemptNumber 在其上加一
func (r *MissionAttemptRepository) CountByUserAndStep(userID, stepID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.MissionAttempt{}).
		Where("user_id = ? AND step_id = ?", userID, stepID).
		Count(&count).Error
	return count, err
}

func (r *MissionAttemptRepository) FindByUserAndStep(userID, stepID uint) ([]model.MissionAttempt, error) {
	var attempts []model.MissionAttempt
	err := r.DB.Where("user_id = ? AND step_id = ?", userID, stepID).
		Order("attempt_number ASC").
		Find(&attempts).Error
	return attempts, err
}
