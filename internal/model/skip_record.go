package model

import (
	"time"
)

// SkipReason 跳过原因
type SkipReason string

const (
	SkipAlreadyKnow   SkipReason = "already_know"
	SkipTooHard       SkipReason = "too_hard"
	SkipNotInterested SkipReason = "not_interested"
	SkipOther         SkipReason = "other"
)

// ConsequenceType 监督后果类型
type ConsequenceType string

const (
	ConsequenceProofRequired ConsequenceType = "PROOF_REQUIRED"
	ConsequenceDebtAdded     ConsequenceType = "DEBT_ADDED"
	ConsequenceRemediation   ConsequenceType = "REMEDIATION"
	ConsequenceSlowdown      ConsequenceType = "SLOWDOWN"
	ConsequenceStreakReset   ConsequenceType = "STREAK_RESET"
)

// SkipRecord 一次跳过动作的记录。创建后除补救完成外不再修改
// swagger:model SkipRecord
type SkipRecord struct {
	BaseModel
	UserID               uint            `gorm:"index;not null" json:"userId"`
	RoadmapID            uint            `gorm:"index;not null" json:"roadmapId"`
	StepID               uint            `gorm:"index;not null" json:"stepId"`
	Reason               SkipReason      `gorm:"size:30;not null" json:"reason"`
	UserExplanation      string          `gorm:"type:text" json:"userExplanation,omitempty"`
	ConsequenceType      ConsequenceType `gorm:"size:30" json:"consequenceType,omitempty"`
	ConsequenceApplied   bool            `gorm:"default:false" json:"consequenceApplied"`
	RequiresRemediation  bool            `gorm:"default:false" json:"requiresRemediation"`
	RemediationCompleted bool            `gorm:"default:false" json:"remediationCompleted"`
	ResolvedAt           *time.Time      `json:"resolvedAt,omitempty"`
}

func (SkipRecord) TableName() string {
	return "skip_records"
}
