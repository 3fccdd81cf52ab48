package model

import (
	"time"
)

// EnforcementAction 监督动作审计日志，只追加；仅 acknowledged/resolved
// 两个标志位允许翻转
// swagger:model EnforcementAction
type EnforcementAction struct {
	BaseModel
	UserID           uint            `gorm:"index;not null" json:"userId"`
	TriggerType      string          `gorm:"size:30;not null" json:"triggerType"` // skip / failure / repeated_failure / inactivity
	TriggerID        uint            `json:"triggerId,omitempty"`
	ActionType       ConsequenceType `gorm:"size:30;not null" json:"actionType"`
	AuthorityMessage string          `gorm:"size:500" json:"authorityMessage"`
	Acknowledged     bool            `gorm:"default:false" json:"acknowledged"`
	AcknowledgedAt   *time.Time      `json:"acknowledgedAt,omitempty"`
	Resolved         bool            `gorm:"default:false" json:"resolved"`
	ResolvedAt       *time.Time      `json:"resolvedAt,omitempty"`
}

func (EnforcementAction) TableName() string {
	return "enforcement_actions"
}
