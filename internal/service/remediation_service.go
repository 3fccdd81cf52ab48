package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"studypact_backend/internal/config"
	"studypact_backend/internal/model"
	"studypact_backend/internal/repository"
	"studypact_backend/pkg/logger"
	"studypact_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 补救任务构建参数
const (
	remediationBatchLimit    = 3  // 单次最多下发的薄弱点/跳过任务数
	quizProofSeverity        = 4  // 严重度达到该值要求测验证明
	practiceProofSeverity    = 2  // 严重度达到该值要求实操证明
	quizMissionThreshold     = 90 // 测验型任务的目标分
	practiceMissionThreshold = 80
	mandatorySeverity        = 3

	minExplanationWords       = 20
	minExplanationUniqueWords = 10
	minPracticeChars          = 50
	minPracticeSteps          = 2
)

// RemediationTargetKind 补救对象类型。API 边界用显式判别字段，
// 不在字符串ID前缀里编码类型
type RemediationTargetKind string

const (
	TargetWeakSpot RemediationTargetKind = "weak_spot"
	TargetSkip     RemediationTargetKind = "skip"
)

// RemediationTarget 补救任务指向的底层记录
type RemediationTarget struct {
	Kind RemediationTargetKind `json:"kind" binding:"required"`
	ID   uint                  `json:"id" binding:"required"`
}

// RemediationMission 一条待完成的补救任务
type RemediationMission struct {
	Target           RemediationTarget `json:"target"`
	Title            string            `json:"title"`
	Directive        string            `json:"directive"`
	Subject          string            `json:"subject,omitempty"`
	Topic            string            `json:"topic,omitempty"`
	ProofRequired    model.ProofType   `json:"proofRequired"`
	Threshold        *int              `json:"threshold,omitempty"`
	EstimatedMinutes int               `json:"estimatedMinutes"`
	Mandatory        bool              `json:"mandatory"`
}

// RemediationCheck 是否需要补救以及具体任务清单
type RemediationCheck struct {
	Required bool                 `json:"required"`
	Missions []RemediationMission `json:"missions"`
	Message  string               `json:"message"`
}

// RemediationProof 补救任务提交的证明
type RemediationProof struct {
	Type          model.ProofType `json:"type" binding:"required"`
	Content       string          `json:"content"`
	Score         int             `json:"score"`
	StepsTaken    []string        `json:"stepsTaken"`
	AttachmentURL string          `json:"attachmentUrl"`
}

// RemediationOutcome 一次补救提交的判定结果
type RemediationOutcome struct {
	Target           RemediationTarget `json:"target"`
	Passed           bool              `json:"passed"`
	Feedback         string            `json:"feedback"`
	WeakSpotResolved bool              `json:"weakSpotResolved"`
}

// RemediationService 补救引擎：从活跃薄弱点和待补救跳过构建强制任务，
// 并按证明类型判定提交
type RemediationService struct {
	WeakSpotRepo *repository.WeakSpotRepository
	SkipRepo     *repository.SkipRecordRepository
	RoadmapRepo  *repository.RoadmapRepository
	Cfg          config.EnforcementConfig
}

func NewRemediationService(
	weakSpotRepo *repository.WeakSpotRepository,
	skipRepo *repository.SkipRecordRepository,
	roadmapRepo *repository.RoadmapRepository,
	cfg config.EnforcementConfig,
) *RemediationService {
	return &RemediationService{
		WeakSpotRepo: weakSpotRepo,
		SkipRepo:     skipRepo,
		RoadmapRepo:  roadmapRepo,
		Cfg:          cfg,
	}
}

// CheckRequired 汇总当前必须完成的补救任务
func (s *RemediationService) CheckRequired(userID uint) (*RemediationCheck, error) {
	spots, err := s.WeakSpotRepo.FindActiveBySeverity(userID, practiceProofSeverity, remediationBatchLimit)
	if err != nil {
		return nil, err
	}
	skips, err := s.SkipRepo.FindPendingRemediation(userID, remediationBatchLimit)
	if err != nil {
		return nil, err
	}

	if len(spots) == 0 && len(skips) == 0 {
		return &RemediationCheck{
			Required: false,
			Message:  "No remediation owed. Keep moving.",
		}, nil
	}

	// 引用到的步骤一次批量取回
	stepIDs := make([]uint, 0, len(spots)+len(skips))
	for _, spot := range spots {
		if spot.SourceStepID != 0 {
			stepIDs = append(stepIDs, spot.SourceStepID)
		}
	}
	for _, skip := range skips {
		stepIDs = append(stepIDs, skip.StepID)
	}
	steps, err := s.RoadmapRepo.FindStepsByIDs(stepIDs)
	if err != nil {
		return nil, err
	}

	check := &RemediationCheck{Required: true}
	for i := range spots {
		check.Missions = append(check.Missions, s.missionFromWeakSpot(&spots[i], steps[spots[i].SourceStepID]))
	}
	for i := range skips {
		check.Missions = append(check.Missions, s.missionFromSkip(&skips[i], steps[skips[i].StepID]))
	}

	check.Message = fmt.Sprintf("%d remediation mission(s) stand between you and new material.", len(check.Missions))
	return check, nil
}

// missionFromWeakSpot 严重度决定证明类型与达标线，指令随失败次数升级
func (s *RemediationService) missionFromWeakSpot(spot *model.WeakSpot, step *model.RoadmapStep) RemediationMission {
	mission := RemediationMission{
		Target:           RemediationTarget{Kind: TargetWeakSpot, ID: spot.ID},
		Subject:          spot.Subject,
		Topic:            spot.Topic,
		EstimatedMinutes: 15 + spot.Severity*5,
		Mandatory:        spot.Severity >= mandatorySeverity,
	}

	switch {
	case spot.Severity >= quizProofSeverity:
		mission.ProofRequired = model.ProofQuiz
		threshold := quizMissionThreshold
		mission.Threshold = &threshold
	case spot.Severity >= practiceProofSeverity:
		mission.ProofRequired = model.ProofPractice
		threshold := practiceMissionThreshold
		mission.Threshold = &threshold
	default:
		mission.ProofRequired = model.ProofExplanation
	}

	switch {
	case spot.FailedAttempts >= 4:
		mission.Directive = "Focused review required: this topic has failed you four times or more."
	case spot.FailedAttempts >= 2:
		mission.Directive = "Alternative approach recommended: the current one isn't landing."
	default:
		mission.Directive = "Reinforcement required before this gap widens."
	}

	mission.Title = fmt.Sprintf("Close the gap: %s / %s", spot.Subject, spot.Topic)
	if step != nil {
		mission.Title = "Close the gap: " + step.Title
	}
	return mission
}

// missionFromSkip 跳过补救统一为讲解证明，且一律强制
func (s *RemediationService) missionFromSkip(skip *model.SkipRecord, step *model.RoadmapStep) RemediationMission {
	mission := RemediationMission{
		Target:           RemediationTarget{Kind: TargetSkip, ID: skip.ID},
		ProofRequired:    model.ProofExplanation,
		Mandatory:        true,
		EstimatedMinutes: 15,
		Directive:        "You skipped this. Explain it well enough that skipping stops mattering.",
		Title:            "Make up the skipped step",
	}
	if step != nil {
		mission.Title = "Make up the skipped step: " + step.Title
		mission.Subject = step.Subject
		mission.Topic = step.Topic
		if step.EstimatedMinutes > 0 {
			mission.EstimatedMinutes = step.EstimatedMinutes
		}
	}
	return mission
}

// Submit 判定一次补救提交。归属校验先于一切评估和写入执行
func (s *RemediationService) Submit(userID uint, target RemediationTarget, proof RemediationProof) (*RemediationOutcome, error) {
	outcome := &RemediationOutcome{Target: target}

	switch target.Kind {
	case TargetWeakSpot:
		spot, err := s.WeakSpotRepo.FindByID(target.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			outcome.Feedback = "That remediation mission no longer exists."
			return outcome, nil
		}
		if err != nil {
			return nil, err
		}
		if spot.UserID != userID {
			outcome.Feedback = "This remediation does not belong to you."
			monitoring.RemediationSubmissions.WithLabelValues("rejected").Inc()
			return outcome, nil
		}
		return s.submitWeakSpot(spot, proof)

	case TargetSkip:
		record, err := s.SkipRepo.FindByID(target.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			outcome.Feedback = "That remediation mission no longer exists."
			return outcome, nil
		}
		if err != nil {
			return nil, err
		}
		if record.UserID != userID {
			outcome.Feedback = "This remediation does not belong to you."
			monitoring.RemediationSubmissions.WithLabelValues("rejected").Inc()
			return outcome, nil
		}
		return s.submitSkip(record, proof)
	}

	outcome.Feedback = "Unknown remediation target."
	return outcome, nil
}

func (s *RemediationService) submitWeakSpot(spot *model.WeakSpot, proof RemediationProof) (*RemediationOutcome, error) {
	outcome := &RemediationOutcome{
		Target: RemediationTarget{Kind: TargetWeakSpot, ID: spot.ID},
	}

	passed, feedback := s.evaluateProof(proof)
	outcome.Passed = passed
	outcome.Feedback = feedback

	now := time.Now()
	if passed {
		spot.Status = model.WeakSpotRemediated
		spot.LastRemediatedAt = &now
		spot.RemediationCount++
		outcome.WeakSpotResolved = true
	} else {
		// 补救失败说明缺口比记录的更深，严重度随之上调
		spot.RemediationCount++
		if spot.Severity < 5 {
			spot.Severity++
		}
	}

	if err := s.WeakSpotRepo.Update(spot); err != nil {
		return nil, err
	}

	result := "failed"
	if passed {
		result = "passed"
	}
	monitoring.RemediationSubmissions.WithLabelValues(result).Inc()
	logger.Log.Info("weak spot remediation submitted",
		zap.Uint("weakSpotID", spot.ID),
		zap.Bool("passed", passed),
		zap.Int("severity", spot.Severity))

	return outcome, nil
}

func (s *RemediationService) submitSkip(record *model.SkipRecord, proof RemediationProof) (*RemediationOutcome, error) {
	outcome := &RemediationOutcome{
		Target: RemediationTarget{Kind: TargetSkip, ID: record.ID},
	}

	passed, feedback := s.evaluateProof(proof)
	outcome.Passed = passed
	outcome.Feedback = feedback

	if passed {
		if err := s.SkipRepo.MarkRemediated(record); err != nil {
			return nil, err
		}
	}

	result := "failed"
	if passed {
		result = "passed"
	}
	monitoring.RemediationSubmissions.WithLabelValues(result).Inc()
	return outcome, nil
}

// evaluateProof 按证明类型判定是否达标
func (s *RemediationService) evaluateProof(proof RemediationProof) (bool, string) {
	switch proof.Type {
	case model.ProofQuiz:
		if proof.Score >= s.Cfg.MinQuizScore {
			return true, fmt.Sprintf("Quiz passed at %d. Gap closed — for now.", proof.Score)
		}
		return false, fmt.Sprintf("Quiz score %d falls short of %d. Review and retake.", proof.Score, s.Cfg.MinQuizScore)

	case model.ProofPractice:
		return s.evaluatePractice(proof)

	case model.ProofExplanation:
		return s.evaluateExplanation(proof.Content)
	}
	return false, "Unrecognized proof type."
}

// evaluatePractice 结构性检查：要么写清楚做了什么和步骤，要么附上成果
func (s *RemediationService) evaluatePractice(proof RemediationProof) (bool, string) {
	if proof.AttachmentURL != "" {
		return true, "Practice artifact received. Accepted."
	}
	if len(strings.TrimSpace(proof.Content)) >= minPracticeChars && len(proof.StepsTaken) >= minPracticeSteps {
		return true, "Practice work documented. Accepted."
	}
	return false, "Practice proof needs either an attached artifact or a real write-up with the steps you took."
}

// evaluateExplanation 语义最低线：长度、词数、去重词数三道门槛
func (s *RemediationService) evaluateExplanation(content string) (bool, string) {
	trimmed := strings.TrimSpace(content)
	if len(trimmed) < s.Cfg.MinExplanationChars {
		return false, fmt.Sprintf("Too short. A real explanation runs at least %d characters.", s.Cfg.MinExplanationChars)
	}

	words := strings.Fields(trimmed)
	if len(words) < minExplanationWords {
		return false, fmt.Sprintf("Use at least %d words — show the reasoning, not just the conclusion.", minExplanationWords)
	}

	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[strings.ToLower(strings.Trim(w, ".,;:!?"))] = struct{}{}
	}
	if len(unique) < minExplanationUniqueWords {
		return false, "That reads like filler. Explain it in your own varied words."
	}

	return true, "Explanation accepted. You clearly engaged with the material."
}

// ReactivateIfNeeded 已补救的薄弱点在同主题再次失败时重新激活并加重
func (s *RemediationService) ReactivateIfNeeded(userID uint, subject, topic string) (bool, error) {
	spot, err := s.WeakSpotRepo.FindByKey(userID, subject, topic)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if spot.Status != model.WeakSpotRemediated {
		return false, nil
	}

	now := time.Now()
	spot.Status = model.WeakSpotActive
	spot.FailedAttempts++
	if spot.Severity < 5 {
		spot.Severity++
	}
	spot.LastFailedAt = &now

	if err := s.WeakSpotRepo.Update(spot); err != nil {
		return false, err
	}
	logger.Log.Info("weak spot reactivated",
		zap.Uint("weakSpotID", spot.ID),
		zap.Int("severity", spot.Severity))
	return true, nil
}
