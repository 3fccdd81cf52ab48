package repository

import (
	"studypact_backend/internal/model"

	"gorm.io/gorm"
)

type RoadmapRepository struct {
	DB *gorm.DB
}

func NewRoadmapRepository(db *gorm.DB) *RoadmapRepository {
	return &RoadmapRepository{DB: db}
}

func (r *RoadmapRepository) FindByID(id uint) (*model.Roadmap, error) {
	var roadmap model.Roadmap
	err := r.DB.First(&roadmap, id).Error
	if err != nil {
		return nil, err
	}
	return &roadmap, nil
}

func (r *RoadmapRepository) FindStepByID(id uint) (*model.RoadmapStep, error) {
	var step model.RoadmapStep
	err := r.DB.First(&step, id).Error
	if err != nil {
		return nil, err
	}
	return &step, nil
}

// FindStepsByIDs 批量取步骤，补救任务构建用它避免逐条查询
func (r *RoadmapRepository) FindStepsByIDs(ids []uint) (map[uint]*model.RoadmapStep, error) {
	steps := make(map[uint]*model.RoadmapStep, len(ids))
	if len(ids) == 0 {
		return steps, nil
	}

	var rows []model.RoadmapStep
	if err := r.DB.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		steps[rows[i].ID] = &rows[i]
	}
	return steps, nil
}

func (r *RoadmapRepository) MarkStepSkipped(tx *gorm.DB, stepID uint) error {
	return tx.Model(&model.RoadmapStep{}).Where("id = ?", stepID).
		Update("status", model.StepSkipped).Error
}

func (r *RoadmapRepository) MarkStepCompleted(stepID uint) error {
	return r.DB.Model(&model.RoadmapStep{}).Where("id = ?", stepID).
		Update("status", model.StepCompleted).Error
}
