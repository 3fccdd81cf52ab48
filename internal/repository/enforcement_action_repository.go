package repository

import (
	"studypact_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type EnforcementActionRepository struct {
	DB *gorm.DB
}

func NewEnforcementActionRepository(db *gorm.DB) *EnforcementActionRepository {
	return &EnforcementActionRepository{DB: db}
}

func (r *EnforcementActionRepository) Create(action *model.EnforcementAction) error {
	return r.DB.Create(action).Error
}

func (r *EnforcementActionRepository) CreateTx(tx *gorm.DB, action *model.EnforcementAction) error {
	return tx.Create(action).Error
}

func (r *EnforcementActionRepository) FindByID(id uint) (*model.EnforcementAction, error) {
	var action model.EnforcementAction
	err := r.DB.First(&action, id).Error
	if err != nil {
		return nil, err
	}
	return &action, nil
}

// FindPending 未确认的监督动作，前端的待办提醒用
func (r *EnforcementActionRepository) FindPending(userID uint) ([]model.EnforcementAction, error) {
	var actions []model.EnforcementAction
	err := r.DB.Where("user_id = ? AND acknowledged = ?", userID, false).
		Order("created_at DESC").
		Find(&actions).Error
	return actions, err
}

func (r *EnforcementActionRepository) Acknowledge(action *model.EnforcementAction) error {
	now := time.Now()
	action.Acknowledged = true
	action.AcknowledgedAt = &now
	return r.DB.Save(action).Error
}

func (r *EnforcementActionRepository) Resolve(action *model.EnforcementAction) error {
	now := time.Now()
	action.Resolved = true
	action.ResolvedAt = &now
	return r.DB.Save(action).Error
}
