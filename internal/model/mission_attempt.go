package model

import (
	"time"
)

// AttemptResult 任务尝试结果
type AttemptResult string

const (
	AttemptSuccess AttemptResult = "SUCCESS"
	AttemptFailed  AttemptResult = "FAILED"
)

// ProofType 学习证明类型
type ProofType string

const (
	ProofExplanation ProofType = "explanation"
	ProofQuiz        ProofType = "quiz"
	ProofPractice    ProofType = "practice"
)

// MissionAttempt 一次任务尝试，只追加不修改；同一步骤的后续尝试以更大的
// AttemptNumber 隐式取代之前的记录
// swagger:model MissionAttempt
type MissionAttempt struct {
	BaseModel
	UserID           uint          `gorm:"index:idx_attempt_user_step;not null" json:"userId"`
	StepID           uint          `gorm:"index:idx_attempt_user_step;not null" json:"stepId"`
	AttemptNumber    int           `gorm:"not null" json:"attemptNumber"`
	Result           AttemptResult `gorm:"size:10;not null" json:"result"`
	MinutesSpent     int           `gorm:"default:0" json:"minutesSpent"`
	MinimumTimeMet   bool          `gorm:"default:false" json:"minimumTimeMet"`
	ProofType        ProofType     `gorm:"size:20" json:"proofType,omitempty"`
	ProofData        string        `gorm:"type:text" json:"proofData,omitempty"`
	ProofValidated   bool          `gorm:"default:false" json:"proofValidated"`
	DifficultyRating int           `gorm:"default:0" json:"difficultyRating"`
	ConfidenceLevel  int           `gorm:"default:0" json:"confidenceLevel"`
	FailureReason    string        `gorm:"size:255" json:"failureReason,omitempty"`
	NeedsRemediation bool          `gorm:"default:false" json:"needsRemediation"`
	CompletedAt      *time.Time    `json:"completedAt,omitempty"`
}

func (MissionAttempt) TableName() string {
	return "mission_attempts"
}
