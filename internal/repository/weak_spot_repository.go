package repository

import (
	"errors"
	"studypact_backend/internal/model"

	"gorm.io/gorm"
)

type WeakSpotRepository struct {
	DB *gorm.DB
}

func NewWeakSpotRepository(db *gorm.DB) *WeakSpotRepository {
	return &WeakSpotRepository{DB: db}
}

// FindByKey 按 (user, subject, topic) 复合自然键查找
// 唯一性由 weak_spots 表的复合唯一索引保证
func (r *WeakSpotRepository) FindByKey(userID uint, subject, topic string) (*model.WeakSpot, error) {
	var spot model.WeakSpot
	err := r.DB.Where("user_id = ? AND subject = ? AND topic = ?", userID, subject, topic).
		First(&spot).Error
	if err != nil {
		return nil, err
	}
	return &spot, nil
}

// Upsert 不存在则创建，存在则回调修改后保存，整体在一个事务里
func (r *WeakSpotRepository) Upsert(userID uint, subject, topic string,
	create func() *model.WeakSpot, mutate func(*model.WeakSpot)) (*model.WeakSpot, error) {

	var result *model.WeakSpot
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var spot model.WeakSpot
		err := tx.Where("user_id = ? AND subject = ? AND topic = ?", userID, subject, topic).
			First(&spot).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			result = create()
			return tx.Create(result).Error
		}
		if err != nil {
			return err
		}
		mutate(&spot)
		result = &spot
		return tx.Save(&spot).Error
	})
	return result, err
}

func (r *WeakSpotRepository) FindByID(id uint) (*model.WeakSpot, error) {
	var spot model.WeakSpot
	err := r.DB.First(&spot, id).Error
	if err != nil {
		return nil, err
	}
	return &spot, nil
}

// FindActiveBySeverity 活跃且严重度达标的薄弱点，按严重度降序
func (r *WeakSpotRepository) FindActiveBySeverity(userID uint, minSeverity, limit int) ([]model.WeakSpot, error) {
	var spots []model.WeakSpot
	err := r.DB.Where("user_id = ? AND status = ? AND severity >= ?",
		userID, model.WeakSpotActive, minSeverity).
		Order("severity DESC").
		Limit(limit).
		Find(&spots).Error
	return spots, err
}

func (r *WeakSpotRepository) Update(spot *model.WeakSpot) error {
	return r.DB.Save(spot).Error
}
