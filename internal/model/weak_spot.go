package model

import (
	"time"
)

// WeakSpotStatus 薄弱点状态机：ACTIVE -> REMEDIATED（补救通过），
// REMEDIATED -> ACTIVE（同主题再次失败），任意状态 -> RESOLVED（外部确认掌握）
type WeakSpotStatus string

const (
	WeakSpotActive     WeakSpotStatus = "ACTIVE"
	WeakSpotRemediated WeakSpotStatus = "REMEDIATED"
	WeakSpotResolved   WeakSpotStatus = "RESOLVED"
)

// WeakSpot 按 (user, subject, topic) 唯一的薄弱知识点
// Severity 取值 [1,5]，除 RESOLVED 外单调不降
// swagger:model WeakSpot
type WeakSpot struct {
	BaseModel
	UserID           uint           `gorm:"uniqueIndex:idx_weak_spot_key;not null" json:"userId"`
	Subject          string         `gorm:"uniqueIndex:idx_weak_spot_key;size:100;not null" json:"subject"`
	Topic            string         `gorm:"uniqueIndex:idx_weak_spot_key;size:100;not null" json:"topic"`
	FailedAttempts   int            `gorm:"default:1" json:"failedAttempts"`
	Severity         int            `gorm:"default:1" json:"severity"`
	Status           WeakSpotStatus `gorm:"size:20;default:'ACTIVE'" json:"status"`
	SourceStepID     uint           `json:"sourceStepId"`
	SourceRoadmapID  uint           `json:"sourceRoadmapId"`
	LastFailedAt     *time.Time     `json:"lastFailedAt,omitempty"`
	LastRemediatedAt *time.Time     `json:"lastRemediatedAt,omitempty"`
	RemediationCount int            `gorm:"default:0" json:"remediationCount"`
	ResolvedAt       *time.Time     `json:"resolvedAt,omitempty"`
}

func (WeakSpot) TableName() string {
	return "weak_spots"
}
