package repository

import (
	"studypact_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type SkipRecordRepository struct {
	DB *gorm.DB
}

func NewSkipRecordRepository(db *gorm.DB) *SkipRecordRepository {
	return &SkipRecordRepository{DB: db}
}

func (r *SkipRecordRepository) Create(tx *gorm.DB, record *model.SkipRecord) error {
	return tx.Create(record).Error
}

func (r *SkipRecordRepository) FindByID(id uint) (*model.SkipRecord, error) {
	var record model.SkipRecord
	err := r.DB.First(&record, id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// CountByUserAndRoadmap 某条路线上已记录的跳过次数，升级阶梯以它为键
func (r *SkipRecordRepository) CountByUserAndRoadmap(userID, roadmapID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.SkipRecord{}).
		Where("user_id = ? AND roadmap_id = ?", userID, roadmapID).
		Count(&count).Error
	return count, err
}

// FindPendingRemediation 需要补救且尚未完成的跳过记录
func (r *SkipRecordRepository) FindPendingRemediation(userID uint, limit int) ([]model.SkipRecord, error) {
	var records []model.SkipRecord
	err := r.DB.Where("user_id = ? AND requires_remediation = ? AND remediation_completed = ?",
		userID, true, false).
		Order("created_at ASC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

// MarkRemediated 补救通过后结案
func (r *SkipRecordRepository) MarkRemediated(record *model.SkipRecord) error {
	now := time.Now()
	record.RemediationCompleted = true
	record.ResolvedAt = &now
	return r.DB.Save(record).Error
}
