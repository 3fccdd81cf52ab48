package service

import (
	"fmt"
	"strings"

	"studypact_backend/internal/config"
	"studypact_backend/internal/model"
)

// CompletionService 步骤完成校验。软门禁：时长达标或证明有效，
// 二者满足其一即放行，只有都不满足才拦下
type CompletionService struct {
	Cfg config.EnforcementConfig
}

func NewCompletionService(cfg config.EnforcementConfig) *CompletionService {
	return &CompletionService{Cfg: cfg}
}

// CompletionProof 完成时附带的学习证明
type CompletionProof struct {
	Type    model.ProofType `json:"type"`
	Content string          `json:"content"`
	Score   int             `json:"score"`
}

// CompletionResult 校验结果。校验失败是预期内的用户态结果，不以 error 表达
type CompletionResult struct {
	Valid          bool     `json:"valid"`
	Reason         string   `json:"reason,omitempty"`
	MinimumTimeMet bool     `json:"minimumTimeMet"`
	ProofValidated bool     `json:"proofValidated"`
	Warnings       []string `json:"warnings,omitempty"`
}

// Validate 校验一次步骤完成申报
func (s *CompletionService) Validate(userID, stepID uint, minutesSpent int, proof *CompletionProof) CompletionResult {
	result := CompletionResult{
		MinimumTimeMet: minutesSpent >= s.Cfg.MinStepMinutes,
	}

	if !result.MinimumTimeMet {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Only %d minutes logged — the minimum for a step is %d.", minutesSpent, s.Cfg.MinStepMinutes))
	}

	if proof != nil {
		validated, warning := s.validateProof(proof)
		result.ProofValidated = validated
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
	}

	result.Valid = result.MinimumTimeMet || result.ProofValidated
	if !result.Valid {
		result.Reason = "Neither the minimum study time nor a valid proof was provided."
	}
	return result
}

// validateProof 按证明类型做最低门槛检查。不合格只降级为警告，从不报错
func (s *CompletionService) validateProof(proof *CompletionProof) (bool, string) {
	switch proof.Type {
	case model.ProofExplanation:
		if len(strings.TrimSpace(proof.Content)) < s.Cfg.MinExplanationChars {
			return false, fmt.Sprintf("Your explanation is too short — write at least %d characters to show understanding.", s.Cfg.MinExplanationChars)
		}
		return true, ""
	case model.ProofQuiz:
		if proof.Score < s.Cfg.MinQuizScore {
			return false, fmt.Sprintf("Quiz score %d is below the %d required.", proof.Score, s.Cfg.MinQuizScore)
		}
		return true, ""
	case model.ProofPractice:
		if strings.TrimSpace(proof.Content) == "" {
			return false, "Practice proof needs a description of what you built or solved."
		}
		return true, ""
	}
	return false, "Unrecognized proof type."
}
