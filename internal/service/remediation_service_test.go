package service

import (
	"strings"
	"testing"

	"studypact_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedWeakSpot(t *testing.T, env *testEnv, userID uint, topic string, severity, failedAttempts int, status model.WeakSpotStatus) *model.WeakSpot {
	t.Helper()
	spot := &model.WeakSpot{
		UserID:         userID,
		Subject:        "Go",
		Topic:          topic,
		FailedAttempts: failedAttempts,
		Severity:       severity,
		Status:         status,
	}
	require.NoError(t, env.db.Create(spot).Error)
	return spot
}

// 满足长度、词数、去重词数三道门槛的讲解
const passingExplanation = "Goroutines are multiplexed onto operating system threads by the runtime scheduler, " +
	"which parks blocked ones and hands their thread to whichever runnable goroutine is waiting next in the queue."

func TestRemediationCheckRequired_NothingOwed(t *testing.T) {
	env := newTestEnv(t)

	check, err := env.remediation.CheckRequired(1)
	require.NoError(t, err)
	assert.False(t, check.Required)
	assert.Empty(t, check.Missions)
}

func TestRemediationCheckRequired_SeverityDrivesProofType(t *testing.T) {
	env := newTestEnv(t)
	mild := seedWeakSpot(t, env, 1, "slices", 2, 1, model.WeakSpotActive)
	severe := seedWeakSpot(t, env, 1, "channels", 4, 4, model.WeakSpotActive)
	seedWeakSpot(t, env, 1, "fmt", 1, 1, model.WeakSpotActive)      // 低严重度不进清单
	seedWeakSpot(t, env, 2, "channels", 5, 5, model.WeakSpotActive) // 他人的不进清单
	seedWeakSpot(t, env, 1, "maps", 4, 2, model.WeakSpotRemediated) // 已补救的不进清单

	check, err := env.remediation.CheckRequired(1)
	require.NoError(t, err)
	assert.True(t, check.Required)
	require.Len(t, check.Missions, 2)

	// 严重度降序：channels 在前
	quiz := check.Missions[0]
	assert.Equal(t, TargetWeakSpot, quiz.Target.Kind)
	assert.Equal(t, severe.ID, quiz.Target.ID)
	assert.Equal(t, model.ProofQuiz, quiz.ProofRequired)
	require.NotNil(t, quiz.Threshold)
	assert.Equal(t, 90, *quiz.Threshold)
	assert.True(t, quiz.Mandatory)
	assert.Equal(t, 35, quiz.EstimatedMinutes)
	assert.Contains(t, quiz.Directive, "four times")

	practice := check.Missions[1]
	assert.Equal(t, mild.ID, practice.Target.ID)
	assert.Equal(t, model.ProofPractice, practice.ProofRequired)
	assert.False(t, practice.Mandatory)
	assert.Contains(t, practice.Directive, "Reinforcement")
}

func TestRemediationCheckRequired_SkipMissions(t *testing.T) {
	env := newTestEnv(t)
	step := env.seedStep(t, 1, "Go", "generics")
	record := &model.SkipRecord{
		UserID:              1,
		RoadmapID:           step.RoadmapID,
		StepID:              step.ID,
		Reason:              model.SkipTooHard,
		RequiresRemediation: true,
	}
	require.NoError(t, env.db.Create(record).Error)

	check, err := env.remediation.CheckRequired(1)
	require.NoError(t, err)
	require.Len(t, check.Missions, 1)

	mission := check.Missions[0]
	assert.Equal(t, TargetSkip, mission.Target.Kind)
	assert.Equal(t, record.ID, mission.Target.ID)
	assert.Equal(t, model.ProofExplanation, mission.ProofRequired)
	assert.True(t, mission.Mandatory)
	assert.Equal(t, step.EstimatedMinutes, mission.EstimatedMinutes)
	assert.Contains(t, mission.Title, step.Title)
}

func TestRemediationSubmit_OwnershipCheckedBeforeEvaluation(t *testing.T) {
	env := newTestEnv(t)
	spot := seedWeakSpot(t, env, 2, "channels", 3, 2, model.WeakSpotActive)

	outcome, err := env.remediation.Submit(1, RemediationTarget{Kind: TargetWeakSpot, ID: spot.ID},
		RemediationProof{Type: model.ProofQuiz, Score: 100})
	require.NoError(t, err)
	assert.False(t, outcome.Passed)
	assert.Contains(t, outcome.Feedback, "does not belong to you")

	// 归属不符时不得有任何写入
	var stored model.WeakSpot
	require.NoError(t, env.db.First(&stored, spot.ID).Error)
	assert.Equal(t, 3, stored.Severity)
	assert.Equal(t, 0, stored.RemediationCount)
	assert.Equal(t, model.WeakSpotActive, stored.Status)
}

func TestRemediationSubmit_MissingTarget(t *testing.T) {
	env := newTestEnv(t)

	outcome, err := env.remediation.Submit(1, RemediationTarget{Kind: TargetWeakSpot, ID: 9999},
		RemediationProof{Type: model.ProofQuiz, Score: 100})
	require.NoError(t, err)
	assert.False(t, outcome.Passed)

	outcome, err = env.remediation.Submit(1, RemediationTarget{Kind: "quiz", ID: 1},
		RemediationProof{Type: model.ProofQuiz, Score: 100})
	require.NoError(t, err)
	assert.False(t, outcome.Passed)
	assert.Contains(t, outcome.Feedback, "Unknown remediation target")
}

func TestRemediationSubmit_WeakSpotPass(t *testing.T) {
	env := newTestEnv(t)
	spot := seedWeakSpot(t, env, 1, "channels", 4, 3, model.WeakSpotActive)

	outcome, err := env.remediation.Submit(1, RemediationTarget{Kind: TargetWeakSpot, ID: spot.ID},
		RemediationProof{Type: model.ProofQuiz, Score: 85})
	require.NoError(t, err)
	assert.True(t, outcome.Passed)
	assert.True(t, outcome.WeakSpotResolved)

	var stored model.WeakSpot
	require.NoError(t, env.db.First(&stored, spot.ID).Error)
	assert.Equal(t, model.WeakSpotRemediated, stored.Status)
	assert.Equal(t, 1, stored.RemediationCount)
	assert.NotNil(t, stored.LastRemediatedAt)
}

func TestRemediationSubmit_WeakSpotFailRaisesSeverity(t *testing.T) {
	env := newTestEnv(t)
	spot := seedWeakSpot(t, env, 1, "channels", 5, 3, model.WeakSpotActive)

	outcome, err := env.remediation.Submit(1, RemediationTarget{Kind: TargetWeakSpot, ID: spot.ID},
		RemediationProof{Type: model.ProofQuiz, Score: 40})
	require.NoError(t, err)
	assert.False(t, outcome.Passed)
	assert.False(t, outcome.WeakSpotResolved)

	var stored model.WeakSpot
	require.NoError(t, env.db.First(&stored, spot.ID).Error)
	assert.Equal(t, model.WeakSpotActive, stored.Status)
	assert.Equal(t, 5, stored.Severity) // 已到上限不再上调
	assert.Equal(t, 1, stored.RemediationCount)
}

func TestRemediationSubmit_SkipPass(t *testing.T) {
	env := newTestEnv(t)
	record := &model.SkipRecord{UserID: 1, RoadmapID: 1, StepID: 1, Reason: model.SkipTooHard, RequiresRemediation: true}
	require.NoError(t, env.db.Create(record).Error)

	outcome, err := env.remediation.Submit(1, RemediationTarget{Kind: TargetSkip, ID: record.ID},
		RemediationProof{Type: model.ProofExplanation, Content: passingExplanation})
	require.NoError(t, err)
	assert.True(t, outcome.Passed)

	var stored model.SkipRecord
	require.NoError(t, env.db.First(&stored, record.ID).Error)
	assert.True(t, stored.RemediationCompleted)
	assert.NotNil(t, stored.ResolvedAt)

	// 结案后不再出现在待补救清单里
	pending, err := env.skipRepo.FindPendingRemediation(1, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestRemediationEvaluateExplanation_RejectsFiller(t *testing.T) {
	env := newTestEnv(t)

	// 字符数够但全是同一个词
	passed, feedback := env.remediation.evaluateExplanation(strings.Repeat("discipline ", 25))
	assert.False(t, passed)
	assert.Contains(t, feedback, "filler")

	// 字符数不够
	passed, _ = env.remediation.evaluateExplanation("Channels block until both sides are ready.")
	assert.False(t, passed)

	passed, _ = env.remediation.evaluateExplanation(passingExplanation)
	assert.True(t, passed)
}

func TestRemediationEvaluatePractice(t *testing.T) {
	env := newTestEnv(t)

	passed, _ := env.remediation.evaluatePractice(RemediationProof{Type: model.ProofPractice, AttachmentURL: "https://example.com/proof.pdf"})
	assert.True(t, passed)

	passed, _ = env.remediation.evaluatePractice(RemediationProof{
		Type:       model.ProofPractice,
		Content:    "Rewrote the pipeline stage to use a buffered channel and verified throughput.",
		StepsTaken: []string{"reproduced the stall", "added the buffer"},
	})
	assert.True(t, passed)

	passed, _ = env.remediation.evaluatePractice(RemediationProof{Type: model.ProofPractice, Content: "did it"})
	assert.False(t, passed)
}

func TestReactivateIfNeeded(t *testing.T) {
	env := newTestEnv(t)
	spot := seedWeakSpot(t, env, 1, "channels", 3, 2, model.WeakSpotRemediated)

	reactivated, err := env.remediation.ReactivateIfNeeded(1, "Go", "channels")
	require.NoError(t, err)
	assert.True(t, reactivated)

	var stored model.WeakSpot
	require.NoError(t, env.db.First(&stored, spot.ID).Error)
	assert.Equal(t, model.WeakSpotActive, stored.Status)
	assert.Equal(t, 4, stored.Severity)
	assert.Equal(t, 3, stored.FailedAttempts)

	// 已激活的与不存在的都不动
	reactivated, err = env.remediation.ReactivateIfNeeded(1, "Go", "channels")
	require.NoError(t, err)
	assert.False(t, reactivated)

	reactivated, err = env.remediation.ReactivateIfNeeded(1, "Go", "nonexistent")
	require.NoError(t, err)
	assert.False(t, reactivated)
}
