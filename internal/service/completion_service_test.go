package service

import (
	"strings"
	"testing"

	"studypact_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestCompletionValidate_TimeAloneSuffices(t *testing.T) {
	env := newTestEnv(t)

	result := env.completion.Validate(1, 1, env.cfg.MinStepMinutes, nil)
	assert.True(t, result.Valid)
	assert.True(t, result.MinimumTimeMet)
	assert.Empty(t, result.Warnings)
}

func TestCompletionValidate_ProofAloneSuffices(t *testing.T) {
	env := newTestEnv(t)

	// 时长不够但测验达标：软门禁放行，时长问题降级为警告
	result := env.completion.Validate(1, 1, 5, &CompletionProof{Type: model.ProofQuiz, Score: env.cfg.MinQuizScore})
	assert.True(t, result.Valid)
	assert.False(t, result.MinimumTimeMet)
	assert.True(t, result.ProofValidated)
	assert.Len(t, result.Warnings, 1)
}

func TestCompletionValidate_NeitherGateMet(t *testing.T) {
	env := newTestEnv(t)

	result := env.completion.Validate(1, 1, 5, &CompletionProof{Type: model.ProofQuiz, Score: env.cfg.MinQuizScore - 1})
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Reason)
	assert.Len(t, result.Warnings, 2)
}

func TestCompletionValidate_ExplanationBoundary(t *testing.T) {
	env := newTestEnv(t)

	short := strings.Repeat("a", env.cfg.MinExplanationChars-1)
	result := env.completion.Validate(1, 1, 0, &CompletionProof{Type: model.ProofExplanation, Content: short})
	assert.False(t, result.ProofValidated)

	exact := strings.Repeat("a", env.cfg.MinExplanationChars)
	result = env.completion.Validate(1, 1, 0, &CompletionProof{Type: model.ProofExplanation, Content: exact})
	assert.True(t, result.ProofValidated)
	assert.True(t, result.Valid)
}

func TestCompletionValidate_PracticeNeedsContent(t *testing.T) {
	env := newTestEnv(t)

	result := env.completion.Validate(1, 1, 0, &CompletionProof{Type: model.ProofPractice, Content: "   "})
	assert.False(t, result.Valid)

	result = env.completion.Validate(1, 1, 0, &CompletionProof{Type: model.ProofPractice, Content: "Built a worker pool demo."})
	assert.True(t, result.Valid)
}

func TestCompletionValidate_UnknownProofType(t *testing.T) {
	env := newTestEnv(t)

	result := env.completion.Validate(1, 1, 0, &CompletionProof{Type: "screenshot"})
	assert.False(t, result.Valid)
	assert.False(t, result.ProofValidated)
}
