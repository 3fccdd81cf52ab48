package model

import (
	"time"
)

// DebtSource 学习债来源
type DebtSource string

const (
	DebtMissedSession  DebtSource = "missed_session"
	DebtBrokenStreak   DebtSource = "broken_streak"
	DebtIncompleteGoal DebtSource = "incomplete_goal"
	DebtSelfAdded      DebtSource = "self_added"
)

// DebtStatus 学习债状态。COMPLETED 为终态，保留作审计
type DebtStatus string

const (
	DebtQueued     DebtStatus = "QUEUED"
	DebtInProgress DebtStatus = "IN_PROGRESS"
	DebtCompleted  DebtStatus = "COMPLETED"
)

// 优先级：0 最高（断签债优先偿还），1 普通
const (
	DebtPriorityUrgent = 0
	DebtPriorityNormal = 1
)

// StudyDebt 学习债台账条目。只由偿还分配算法或创建路径修改，从不删除
// swagger:model StudyDebt
type StudyDebt struct {
	BaseModel
	UserID          uint       `gorm:"index;not null" json:"userId"`
	Source          DebtSource `gorm:"size:30;not null" json:"source"`
	Status          DebtStatus `gorm:"size:20;default:'QUEUED'" json:"status"`
	Title           string     `gorm:"size:200;not null" json:"title"`
	Description     string     `gorm:"size:500" json:"description,omitempty"`
	Subject         string     `gorm:"size:100" json:"subject,omitempty"`
	DebtMinutes     int        `gorm:"not null" json:"debtMinutes"`
	PaidMinutes     int        `gorm:"default:0" json:"paidMinutes"`
	ProgressPercent int        `gorm:"default:0" json:"progressPercent"`
	// 带 default 标签的列在零值时会被 gorm 忽略写入，而 0 是紧急档的
	// 合法取值，这里不允许任何列默认值顶掉它
	Priority    int        `gorm:"index;not null" json:"priority"`
	ExpiresAt   time.Time  `json:"expiresAt"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (StudyDebt) TableName() string {
	return "study_debts"
}

// Outstanding 未偿还分钟数
func (d *StudyDebt) Outstanding() int {
	return d.DebtMinutes - d.PaidMinutes
}
