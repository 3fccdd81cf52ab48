package repository

import (
	"errors"
	"studypact_backend/internal/model"

	"gorm.io/gorm"
)

type LearnerIdentityRepository struct {
	DB *gorm.DB
}

func NewLearnerIdentityRepository(db *gorm.DB) *LearnerIdentityRepository {
	return &LearnerIdentityRepository{DB: db}
}

// GetOrCreate 首次访问时惰性创建聚合记录
func (r *LearnerIdentityRepository) GetOrCreate(userID uint) (*model.LearnerIdentity, error) {
	var identity model.LearnerIdentity
	err := r.DB.Where("user_id = ?", userID).First(&identity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		identity = model.LearnerIdentity{UserID: userID}
		if err := r.DB.Create(&identity).Error; err != nil {
			return nil, err
		}
		return &identity, nil
	}
	if err != nil {
		return nil, err
	}
	return &identity, nil
}

func (r *LearnerIdentityRepository) Update(identity *model.LearnerIdentity) error {
	return r.DB.Save(identity).Error
}

// IncrementSkipped 跳过计数自增，放在记录跳过的事务里执行
func (r *LearnerIdentityRepository) IncrementSkipped(tx *gorm.DB, userID uint) error {
	return tx.Model(&model.LearnerIdentity{}).Where("user_id = ?", userID).
		Update("total_missions_skipped", gorm.Expr("total_missions_skipped + ?", 1)).Error
}

func (r *LearnerIdentityRepository) IncrementFailed(userID uint) error {
	return r.DB.Model(&model.LearnerIdentity{}).Where("user_id = ?", userID).
		Update("total_missions_failed", gorm.Expr("total_missions_failed + ?", 1)).Error
}
