package model

// RoadmapStatus 学习路线状态
type RoadmapStatus string

const (
	RoadmapActive    RoadmapStatus = "ACTIVE"
	RoadmapCompleted RoadmapStatus = "COMPLETED"
	RoadmapArchived  RoadmapStatus = "ARCHIVED"
)

// StepStatus 路线步骤状态
type StepStatus string

const (
	StepPending   StepStatus = "PENDING"
	StepActive    StepStatus = "ACTIVE"
	StepCompleted StepStatus = "COMPLETED"
	StepSkipped   StepStatus = "SKIPPED"
)

// Roadmap 用户的学习路线。监督引擎只读它的结构，不负责生成
// swagger:model Roadmap
type Roadmap struct {
	BaseModel
	UserID  uint          `gorm:"index;not null" json:"userId"`
	Title   string        `gorm:"size:200;not null" json:"title"`
	Subject string        `gorm:"size:100" json:"subject"`
	Status  RoadmapStatus `gorm:"size:20;default:'ACTIVE'" json:"status"`
}

func (Roadmap) TableName() string {
	return "roadmaps"
}

// RoadmapStep 路线中的单个学习步骤
// swagger:model RoadmapStep
type RoadmapStep struct {
	BaseModel
	RoadmapID        uint       `gorm:"index;not null" json:"roadmapId"`
	Title            string     `gorm:"size:200;not null" json:"title"`
	Subject          string     `gorm:"size:100" json:"subject"`
	Topic            string     `gorm:"size:100" json:"topic"`
	OrderIndex       int        `gorm:"default:0" json:"orderIndex"`
	EstimatedMinutes int        `gorm:"default:0" json:"estimatedMinutes"`
	Status           StepStatus `gorm:"size:20;default:'PENDING'" json:"status"`
}

func (RoadmapStep) TableName() string {
	return "roadmap_steps"
}
