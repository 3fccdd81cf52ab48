package service

import (
	"context"
	"errors"

	"studypact_backend/internal/config"
	"studypact_backend/internal/model"
	"studypact_backend/internal/repository"
	"studypact_backend/pkg/logger"
	"studypact_backend/pkg/monitoring"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// SkipService 跳过裁决。evaluate 与 record 刻意分开：
// 调用方先拿裁决给用户看确认弹窗，确认后再提交 record
type SkipService struct {
	DB           *gorm.DB
	SkipRepo     *repository.SkipRecordRepository
	AttemptRepo  *repository.MissionAttemptRepository
	RoadmapRepo  *repository.RoadmapRepository
	IdentityRepo *repository.LearnerIdentityRepository
	ActionRepo   *repository.EnforcementActionRepository
	DebtSvc      *DebtService
	Cfg          config.EnforcementConfig
}

func NewSkipService(
	db *gorm.DB,
	skipRepo *repository.SkipRecordRepository,
	attemptRepo *repository.MissionAttemptRepository,
	roadmapRepo *repository.RoadmapRepository,
	identityRepo *repository.LearnerIdentityRepository,
	actionRepo *repository.EnforcementActionRepository,
	debtSvc *DebtService,
	cfg config.EnforcementConfig,
) *SkipService {
	return &SkipService{
		DB:           db,
		SkipRepo:     skipRepo,
		AttemptRepo:  attemptRepo,
		RoadmapRepo:  roadmapRepo,
		IdentityRepo: identityRepo,
		ActionRepo:   actionRepo,
		DebtSvc:      debtSvc,
		Cfg:          cfg,
	}
}

// SkipDecision 跳过裁决结果
type SkipDecision struct {
	Allowed             bool                  `json:"allowed"`
	Consequence         model.ConsequenceType `json:"consequence,omitempty"`
	Message             string                `json:"message"`
	Tone                AuthorityTone         `json:"tone"`
	DebtMinutes         int                   `json:"debtMinutes,omitempty"`
	RequiresRemediation bool                  `json:"requiresRemediation,omitempty"`
}

// Evaluate 裁决一次跳过请求。三项前置读取互相独立，并发取回
func (s *SkipService) Evaluate(ctx context.Context, userID, roadmapID, stepID uint, reason model.SkipReason, explanation string) (*SkipDecision, error) {
	var (
		step      *model.RoadmapStep
		stepErr   error
		skipCount int64
		attempts  int64
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		step, stepErr = s.RoadmapRepo.FindStepByID(stepID)
		if errors.Is(stepErr, gorm.ErrRecordNotFound) {
			stepErr = nil // 步骤不存在是预期结果，交给裁决逻辑
		}
		return stepErr
	})
	g.Go(func() (err error) {
		skipCount, err = s.SkipRepo.CountByUserAndRoadmap(userID, roadmapID)
		return err
	})
	g.Go(func() (err error) {
		attempts, err = s.AttemptRepo.CountByUserAndStep(userID, stepID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if step == nil {
		return &SkipDecision{
			Allowed: false,
			Message: "That step doesn't exist on your roadmap, so there is nothing to skip.",
			Tone:    ToneNeutral,
		}, nil
	}

	// 零尝试直接跳过的口子是堵死的：没试过就不能说太难或没兴趣
	if attempts == 0 && reason != model.SkipAlreadyKnow {
		return &SkipDecision{
			Allowed: false,
			Message: "You haven't attempted this step even once. Try it first — skipping without trying isn't an option.",
			Tone:    ToneWarning,
		}, nil
	}

	// 声称已掌握：放行但要求后续强制测评验证
	if reason == model.SkipAlreadyKnow {
		return &SkipDecision{
			Allowed:     true,
			Consequence: model.ConsequenceProofRequired,
			Message:     "Fine — prove it. You can skip this step, but an assessment on the topic comes first.",
			Tone:        ToneWarning,
		}, nil
	}

	// 三档升级阶梯，只看本路线的历史跳过次数
	msg := GetAuthorityMessage(AuthoritySkip, AuthorityData{Count: int(skipCount)})
	decision := &SkipDecision{
		Allowed: true,
		Message: msg.Message,
		Tone:    msg.Tone,
	}

	switch {
	case int(skipCount) >= s.Cfg.SkipRemediationThreshold:
		decision.Consequence = model.ConsequenceRemediation
		decision.DebtMinutes = s.Cfg.DebtMinutesPerSkip * 2
		decision.RequiresRemediation = true
	case int(skipCount) >= s.Cfg.SkipDebtThreshold:
		decision.Consequence = model.ConsequenceDebtAdded
		decision.DebtMinutes = s.Cfg.DebtMinutesPerSkip
	}

	return decision, nil
}

// Record 落实一次已确认的跳过：跳过记录、学习债、步骤状态、监督日志、
// 聚合计数，全部在同一事务内完成
func (s *SkipService) Record(ctx context.Context, userID, roadmapID, stepID uint, reason model.SkipReason, explanation string) (*model.SkipRecord, *SkipDecision, error) {
	decision, err := s.Evaluate(ctx, userID, roadmapID, stepID, reason, explanation)
	if err != nil {
		return nil, nil, err
	}
	if !decision.Allowed {
		return nil, decision, nil
	}

	// 聚合记录先保证存在，事务里的自增才有行可更新
	if _, err := s.IdentityRepo.GetOrCreate(userID); err != nil {
		return nil, nil, err
	}

	record := &model.SkipRecord{
		UserID:              userID,
		RoadmapID:           roadmapID,
		StepID:              stepID,
		Reason:              reason,
		UserExplanation:     explanation,
		ConsequenceType:     decision.Consequence,
		ConsequenceApplied:  decision.Consequence != "",
		RequiresRemediation: decision.RequiresRemediation,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.SkipRepo.Create(tx, record); err != nil {
			return err
		}

		if decision.DebtMinutes > 0 {
			debt := s.DebtSvc.NewDebt(userID, DebtInput{
				Source:      model.DebtMissedSession,
				Title:       "Skipped step make-up work",
				Description: "Debt accrued from skipping a roadmap step.",
				DebtMinutes: decision.DebtMinutes,
			})
			if err := tx.Create(debt).Error; err != nil {
				return err
			}
		}

		if err := s.RoadmapRepo.MarkStepSkipped(tx, stepID); err != nil {
			return err
		}

		if decision.Consequence != "" {
			action := &model.EnforcementAction{
				UserID:           userID,
				TriggerType:      "skip",
				TriggerID:        record.ID,
				ActionType:       decision.Consequence,
				AuthorityMessage: decision.Message,
			}
			if err := s.ActionRepo.CreateTx(tx, action); err != nil {
				return err
			}
		}

		return s.IdentityRepo.IncrementSkipped(tx, userID)
	})
	if err != nil {
		return nil, nil, err
	}

	if decision.Consequence != "" {
		monitoring.EnforcementActions.WithLabelValues("skip", string(decision.Consequence)).Inc()
	}
	logger.Log.Info("skip recorded",
		zap.Uint("userID", userID),
		zap.Uint("stepID", stepID),
		zap.String("reason", string(reason)),
		zap.String("consequence", string(decision.Consequence)))

	return record, decision, nil
}
