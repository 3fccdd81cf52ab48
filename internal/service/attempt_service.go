package service

import (
	"errors"
	"time"

	"studypact_backend/internal/config"
	"studypact_backend/internal/model"
	"studypact_backend/internal/repository"
	"studypact_backend/internal/util"
	"studypact_backend/pkg/logger"
	"studypact_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AttemptService 记录任务尝试并处理失败升级：薄弱点建档、
// 到达阈值时追加学习债和降速指令
type AttemptService struct {
	AttemptRepo  *repository.MissionAttemptRepository
	WeakSpotRepo *repository.WeakSpotRepository
	RoadmapRepo  *repository.RoadmapRepository
	IdentityRepo *repository.LearnerIdentityRepository
	ActionRepo   *repository.EnforcementActionRepository
	DebtSvc      *DebtService
	IdentitySvc  *IdentityService
	Completion   *CompletionService
	Cfg          config.EnforcementConfig
}

func NewAttemptService(
	attemptRepo *repository.MissionAttemptRepository,
	weakSpotRepo *repository.WeakSpotRepository,
	roadmapRepo *repository.RoadmapRepository,
	identityRepo *repository.LearnerIdentityRepository,
	actionRepo *repository.EnforcementActionRepository,
	debtSvc *DebtService,
	identitySvc *IdentityService,
	completion *CompletionService,
	cfg config.EnforcementConfig,
) *AttemptService {
	return &AttemptService{
		AttemptRepo:  attemptRepo,
		WeakSpotRepo: weakSpotRepo,
		RoadmapRepo:  roadmapRepo,
		IdentityRepo: identityRepo,
		ActionRepo:   actionRepo,
		DebtSvc:      debtSvc,
		IdentitySvc:  identitySvc,
		Completion:   completion,
		Cfg:          cfg,
	}
}

// AttemptInput 一次任务尝试的申报内容
type AttemptInput struct {
	Result           model.AttemptResult `json:"result" binding:"required"`
	MinutesSpent     int                 `json:"minutesSpent"`
	ProofType        model.ProofType     `json:"proofType"`
	ProofData        string              `json:"proofData"`
	ProofScore       int                 `json:"proofScore"`
	DifficultyRating int                 `json:"difficultyRating"`
	ConfidenceLevel  int                 `json:"confidenceLevel"`
	FailureReason    string              `json:"failureReason"`
}

// AttemptOutcome 记录结果和随附的督导话术
type AttemptOutcome struct {
	Attempt *model.MissionAttempt `json:"attempt"`
	Message AuthorityMessage      `json:"authority"`
}

// Record 记录一次尝试。AttemptNumber 按 (user, step) 单调递增
func (s *AttemptService) Record(userID, stepID uint, input AttemptInput) (*AttemptOutcome, error) {
	step, err := s.RoadmapRepo.FindStepByID(stepID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrStepNotFound
	}
	if err != nil {
		return nil, err
	}

	priorCount, err := s.AttemptRepo.CountByUserAndStep(userID, stepID)
	if err != nil {
		return nil, err
	}
	attemptNumber := int(priorCount) + 1

	attempt := &model.MissionAttempt{
		UserID:           userID,
		StepID:           stepID,
		AttemptNumber:    attemptNumber,
		Result:           input.Result,
		MinutesSpent:     input.MinutesSpent,
		MinimumTimeMet:   input.MinutesSpent >= s.Cfg.MinStepMinutes,
		ProofType:        input.ProofType,
		ProofData:        input.ProofData,
		DifficultyRating: input.DifficultyRating,
		ConfidenceLevel:  input.ConfidenceLevel,
		FailureReason:    input.FailureReason,
	}

	if input.ProofType != "" {
		validated, _ := s.Completion.validateProof(&CompletionProof{
			Type:    input.ProofType,
			Content: input.ProofData,
			Score:   input.ProofScore,
		})
		attempt.ProofValidated = validated
	}

	if input.Result == model.AttemptFailed {
		attempt.NeedsRemediation = attemptNumber >= s.Cfg.FailuresBeforeRemediation
	} else {
		now := time.Now()
		attempt.CompletedAt = &now
	}

	if err := s.AttemptRepo.Create(attempt); err != nil {
		return nil, err
	}

	if input.Result == model.AttemptFailed {
		msg, err := s.handleFailure(userID, step, attempt)
		if err != nil {
			return nil, err
		}
		return &AttemptOutcome{Attempt: attempt, Message: msg}, nil
	}

	if err := s.RoadmapRepo.MarkStepCompleted(stepID); err != nil {
		return nil, err
	}
	_, msg, err := s.IdentitySvc.RecordSuccess(userID)
	if err != nil {
		return nil, err
	}
	return &AttemptOutcome{Attempt: attempt, Message: msg}, nil
}

// handleFailure 失败路径：薄弱点建档/加重，越过阈值时追加债务与监督动作
func (s *AttemptService) handleFailure(userID uint, step *model.RoadmapStep, attempt *model.MissionAttempt) (AuthorityMessage, error) {
	now := time.Now()
	severity := attempt.AttemptNumber
	if severity > 5 {
		severity = 5
	}

	_, err := s.WeakSpotRepo.Upsert(userID, step.Subject, step.Topic,
		func() *model.WeakSpot {
			return &model.WeakSpot{
				UserID:          userID,
				Subject:         step.Subject,
				Topic:           step.Topic,
				FailedAttempts:  1,
				Severity:        severity,
				Status:          model.WeakSpotActive,
				SourceStepID:    step.ID,
				SourceRoadmapID: step.RoadmapID,
				LastFailedAt:    &now,
			}
		},
		func(spot *model.WeakSpot) {
			spot.FailedAttempts++
			if severity > spot.Severity {
				spot.Severity = severity
			}
			// 已补救过的薄弱点再次失败会被重新激活
			spot.Status = model.WeakSpotActive
			spot.LastFailedAt = &now
		})
	if err != nil {
		return AuthorityMessage{}, err
	}

	if _, err := s.IdentityRepo.GetOrCreate(userID); err != nil {
		return AuthorityMessage{}, err
	}
	if err := s.IdentityRepo.IncrementFailed(userID); err != nil {
		return AuthorityMessage{}, err
	}

	msg := GetAuthorityMessage(AuthorityFailure, AuthorityData{Count: attempt.AttemptNumber})

	if attempt.AttemptNumber >= s.Cfg.FailuresBeforeRemediation {
		debt := s.DebtSvc.NewDebt(userID, DebtInput{
			Source:      model.DebtMissedSession,
			Title:       "Repeated failure review: " + step.Title,
			Description: "Focused review owed after repeated failed attempts.",
			DebtMinutes: s.Cfg.DebtMinutesPerFailure,
			Subject:     step.Subject,
		})
		if err := s.DebtSvc.DebtRepo.Create(debt); err != nil {
			return AuthorityMessage{}, err
		}

		action := &model.EnforcementAction{
			UserID:           userID,
			TriggerType:      "repeated_failure",
			TriggerID:        attempt.ID,
			ActionType:       model.ConsequenceRemediation,
			AuthorityMessage: msg.Message,
		}
		if err := s.ActionRepo.Create(action); err != nil {
			return AuthorityMessage{}, err
		}
		monitoring.EnforcementActions.WithLabelValues("repeated_failure", string(model.ConsequenceRemediation)).Inc()
	}

	if attempt.AttemptNumber >= s.Cfg.FailuresBeforeSlowdown {
		slowdown := GetAuthorityMessage(AuthorityFailure, AuthorityData{Count: attempt.AttemptNumber})
		action := &model.EnforcementAction{
			UserID:           userID,
			TriggerType:      "failure",
			TriggerID:        attempt.ID,
			ActionType:       model.ConsequenceSlowdown,
			AuthorityMessage: slowdown.Message,
		}
		if err := s.ActionRepo.Create(action); err != nil {
			return AuthorityMessage{}, err
		}
		monitoring.EnforcementActions.WithLabelValues("failure", string(model.ConsequenceSlowdown)).Inc()
		msg = slowdown
	}

	logger.Log.Info("failed attempt recorded",
		zap.Uint("userID", userID),
		zap.Uint("stepID", step.ID),
		zap.Int("attemptNumber", attempt.AttemptNumber))

	return msg, nil
}
