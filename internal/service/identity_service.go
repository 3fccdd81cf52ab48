package service

import (
	"time"

	"studypact_backend/internal/model"
	"studypact_backend/internal/repository"
	"studypact_backend/pkg/logger"

	"go.uber.org/zap"
)

// 画像解锁门槛：完成任务数达到该值后一次性确定画像
const archetypeUnlockThreshold = 10

// IdentityService 维护每用户的学习行为聚合（连续天数、总量、画像）
type IdentityService struct {
	IdentityRepo *repository.LearnerIdentityRepository
}

func NewIdentityService(identityRepo *repository.LearnerIdentityRepository) *IdentityService {
	return &IdentityService{IdentityRepo: identityRepo}
}

func (s *IdentityService) Get(userID uint) (*model.LearnerIdentity, error) {
	return s.IdentityRepo.GetOrCreate(userID)
}

// RecordSuccess 任务成功后的聚合更新：完成数、连续天数、最长纪录、
// 活跃时间，并在达到门槛时解锁画像
func (s *IdentityService) RecordSuccess(userID uint) (*model.LearnerIdentity, AuthorityMessage, error) {
	identity, err := s.IdentityRepo.GetOrCreate(userID)
	if err != nil {
		return nil, AuthorityMessage{}, err
	}

	now := time.Now()
	identity.TotalMissionsCompleted++
	identity.CurrentStreak++
	if identity.CurrentStreak > identity.LongestStreak {
		identity.LongestStreak = identity.CurrentStreak
	}
	identity.LastMissionAt = &now
	identity.DaysSinceLastMission = 0

	// 画像只解锁一次，之后不再重算
	if identity.Archetype == "" && identity.TotalMissionsCompleted >= archetypeUnlockThreshold {
		identity.Archetype = DeriveArchetype(
			identity.TotalMissionsCompleted,
			identity.TotalMissionsFailed,
			identity.TotalMissionsSkipped,
			identity.LongestStreak,
		)
		identity.ArchetypeUnlockedAt = &now
		logger.Log.Info("archetype unlocked",
			zap.Uint("userID", userID),
			zap.String("archetype", string(identity.Archetype)))
	}

	if err := s.IdentityRepo.Update(identity); err != nil {
		return nil, AuthorityMessage{}, err
	}

	msg := GetAuthorityMessage(AuthoritySuccess, AuthorityData{Streak: identity.CurrentStreak})
	return identity, msg, nil
}

// DeriveArchetype 由累计计数推导画像。按顺序求值，首个命中生效
func DeriveArchetype(completed, failed, skipped, longestStreak int) model.Archetype {
	total := completed + failed + skipped
	if total == 0 {
		total = 1
	}
	completionRate := float64(completed) / float64(total)

	switch {
	case completionRate >= 0.9 && longestStreak >= 7:
		return model.ArchetypeMethodicalMaster
	case completionRate >= 0.8:
		return model.ArchetypeSteadyClimber
	case failed > skipped:
		return model.ArchetypeResilientLearner
	default:
		return model.ArchetypeCuriousExplorer
	}
}
