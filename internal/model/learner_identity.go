package model

import (
	"time"
)

// Archetype 学习者画像标签，达到10次完成后一次性解锁，之后不再变化
type Archetype string

const (
	ArchetypeMethodicalMaster Archetype = "The Methodical Master"
	ArchetypeSteadyClimber    Archetype = "The Steady Climber"
	ArchetypeResilientLearner Archetype = "The Resilient Learner"
	ArchetypeCuriousExplorer  Archetype = "The Curious Explorer"
)

// LearnerIdentity 每用户唯一的学习行为聚合，首次访问时惰性创建
// 不变式：LongestStreak >= CurrentStreak 恒成立
// swagger:model LearnerIdentity
type LearnerIdentity struct {
	BaseModel
	UserID                 uint       `gorm:"uniqueIndex;not null" json:"userId"`
	TotalMissionsCompleted int        `gorm:"default:0" json:"totalMissionsCompleted"`
	TotalMissionsFailed    int        `gorm:"default:0" json:"totalMissionsFailed"`
	TotalMissionsSkipped   int        `gorm:"default:0" json:"totalMissionsSkipped"`
	CurrentStreak          int        `gorm:"default:0" json:"currentStreak"`
	LongestStreak          int        `gorm:"default:0" json:"longestStreak"`
	LastMissionAt          *time.Time `json:"lastMissionAt"`
	DaysSinceLastMission   int        `gorm:"default:0" json:"daysSinceLastMission"`
	Archetype              Archetype  `gorm:"size:50" json:"archetype,omitempty"`
	ArchetypeUnlockedAt    *time.Time `json:"archetypeUnlockedAt,omitempty"`
}

func (LearnerIdentity) TableName() string {
	return "learner_identities"
}
