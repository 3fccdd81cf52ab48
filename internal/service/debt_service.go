package service

import (
	"time"

	"studypact_backend/internal/config"
	"studypact_backend/internal/model"
	"studypact_backend/internal/repository"
	"studypact_backend/pkg/logger"
	"studypact_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// 学习债有效期：创建后7天
const debtTTL = 7 * 24 * time.Hour

// DebtService 学习债台账：追加式创建 + 贪心偿还分配
type DebtService struct {
	DebtRepo *repository.StudyDebtRepository
	Cfg      config.EnforcementConfig
}

func NewDebtService(debtRepo *repository.StudyDebtRepository, cfg config.EnforcementConfig) *DebtService {
	return &DebtService{DebtRepo: debtRepo, Cfg: cfg}
}

// DebtInput 创建学习债的入参
type DebtInput struct {
	Source      model.DebtSource `json:"source" binding:"required"`
	Title       string           `json:"title" binding:"required"`
	Description string           `json:"description"`
	DebtMinutes int              `json:"debtMinutes"`
	Subject     string           `json:"subject"`
}

// NewDebt 构造一条未落库的债务记录，供其他服务放进自己的事务里插入
// 断签债优先级最高，其余普通；未指定分钟数时按来源取默认值
func (s *DebtService) NewDebt(userID uint, input DebtInput) *model.StudyDebt {
	priority := model.DebtPriorityNormal
	if input.Source == model.DebtBrokenStreak {
		priority = model.DebtPriorityUrgent
	}

	minutes := input.DebtMinutes
	if minutes <= 0 && input.Source == model.DebtIncompleteGoal {
		minutes = s.Cfg.DebtMinutesPerAbandon
	}

	return &model.StudyDebt{
		UserID:      userID,
		Source:      input.Source,
		Status:      model.DebtQueued,
		Title:       input.Title,
		Description: input.Description,
		Subject:     input.Subject,
		DebtMinutes: minutes,
		Priority:    priority,
		ExpiresAt:   time.Now().Add(debtTTL),
	}
}

// Add 直接创建一条学习债
func (s *DebtService) Add(userID uint, input DebtInput) (*model.StudyDebt, error) {
	debt := s.NewDebt(userID, input)
	if err := s.DebtRepo.Create(debt); err != nil {
		return nil, err
	}
	logger.Log.Info("study debt added",
		zap.Uint("userID", userID),
		zap.String("source", string(debt.Source)),
		zap.Int("minutes", debt.DebtMinutes))
	return debt, nil
}

// PaymentResult 一次偿还的分配结果
type PaymentResult struct {
	MinutesApplied int               `json:"minutesApplied"`
	DebtsFullyPaid int               `json:"debtsFullyPaid"`
	RemainingOwed  int               `json:"remainingOwed"`
	Touched        []model.StudyDebt `json:"touched"`
	Message        AuthorityMessage  `json:"authority"`
}

// Pay 贪心偿还：按(优先级升序, 创建时间升序)遍历未清债务，依次填满
// 每条的未偿余额直到分钟数耗尽。所有修改一次事务落库
func (s *DebtService) Pay(userID uint, minutesStudied int) (*PaymentResult, error) {
	result := &PaymentResult{}
	if minutesStudied <= 0 {
		outstanding, err := s.outstandingTotal(userID)
		if err != nil {
			return nil, err
		}
		result.RemainingOwed = outstanding
		result.Message = GetAuthorityMessage(AuthorityDebt, AuthorityData{Minutes: outstanding})
		return result, nil
	}

	debts, err := s.DebtRepo.FindOpen(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	remaining := minutesStudied
	var touched []*model.StudyDebt

	for i := range debts {
		if remaining <= 0 {
			break
		}
		debt := &debts[i]

		allocation := debt.Outstanding()
		if allocation > remaining {
			allocation = remaining
		}
		if allocation <= 0 {
			continue
		}

		debt.PaidMinutes += allocation
		debt.ProgressPercent = debt.PaidMinutes * 100 / debt.DebtMinutes
		remaining -= allocation

		if debt.PaidMinutes >= debt.DebtMinutes {
			debt.Status = model.DebtCompleted
			debt.CompletedAt = &now
			result.DebtsFullyPaid++
		} else {
			debt.Status = model.DebtInProgress
			if debt.StartedAt == nil {
				debt.StartedAt = &now
			}
		}
		touched = append(touched, debt)
	}

	if len(touched) > 0 {
		if err := s.DebtRepo.SaveAll(touched); err != nil {
			return nil, err
		}
	}

	result.MinutesApplied = minutesStudied - remaining
	monitoring.DebtMinutesPaid.Add(float64(result.MinutesApplied))

	for _, debt := range touched {
		result.Touched = append(result.Touched, *debt)
	}

	outstanding, err := s.outstandingTotal(userID)
	if err != nil {
		return nil, err
	}
	result.RemainingOwed = outstanding
	result.Message = GetAuthorityMessage(AuthorityDebt, AuthorityData{Minutes: outstanding})
	return result, nil
}

// OutstandingDebt 当前未清债务汇总
type OutstandingDebt struct {
	Total int               `json:"total"`
	Items []model.StudyDebt `json:"items"`
}

func (s *DebtService) Outstanding(userID uint) (*OutstandingDebt, error) {
	debts, err := s.DebtRepo.FindOpen(userID)
	if err != nil {
		return nil, err
	}

	summary := &OutstandingDebt{Items: debts}
	for i := range debts {
		summary.Total += debts[i].Outstanding()
	}
	return summary, nil
}

func (s *DebtService) outstandingTotal(userID uint) (int, error) {
	summary, err := s.Outstanding(userID)
	if err != nil {
		return 0, err
	}
	return summary.Total, nil
}
