package repository

import (
	"studypact_backend/internal/model"

	"gorm.io/gorm"
)

type StudyDebtRepository struct {
	DB *gorm.DB
}

func NewStudyDebtRepository(db *gorm.DB) *StudyDebtRepository {
	return &StudyDebtRepository{DB: db}
}

func (r *StudyDebtRepository) Create(debt *model.StudyDebt) error {
	return r.DB.Create(debt).Error
}

func (r *StudyDebtRepository) CreateTx(tx *gorm.DB, debt *model.StudyDebt) error {
	return tx.Create(debt).Error
}

// FindOpen 未还清的债务，偿还顺序：优先级升序，同级内先进先出
func (r *StudyDebtRepository) FindOpen(userID uint) ([]model.StudyDebt, error) {
	var debts []model.StudyDebt
	err := r.DB.Where("user_id = ? AND status IN ?",
		userID, []model.DebtStatus{model.DebtQueued, model.DebtInProgress}).
		Order("priority ASC, created_at ASC").
		Find(&debts).Error
	return debts, err
}

// SaveAll 偿还分配结果整批落库；任一条失败则整体回滚，
// 外部不可能观察到部分扣减的状态
func (r *StudyDebtRepository) SaveAll(debts []*model.StudyDebt) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for _, debt := range debts {
			if err := tx.Save(debt).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
