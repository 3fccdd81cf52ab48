package service

import (
	"context"
	"fmt"
	"time"

	"studypact_backend/internal/config"
	"studypact_backend/internal/model"
	"studypact_backend/internal/repository"
	"studypact_backend/internal/util"
	"studypact_backend/pkg/logger"
	"studypact_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// InactivityService 登录时触发的静默检测：离开三天起警告，
// 离开一周断签并计债
type InactivityService struct {
	IdentityRepo *repository.LearnerIdentityRepository
	ActionRepo   *repository.EnforcementActionRepository
	DebtSvc      *DebtService
	Redis        *redis.Client
	Cfg          config.EnforcementConfig
}

func NewInactivityService(
	identityRepo *repository.LearnerIdentityRepository,
	actionRepo *repository.EnforcementActionRepository,
	debtSvc *DebtService,
	rdb *redis.Client,
	cfg config.EnforcementConfig,
) *InactivityService {
	return &InactivityService{
		IdentityRepo: identityRepo,
		ActionRepo:   actionRepo,
		DebtSvc:      debtSvc,
		Redis:        rdb,
		Cfg:          cfg,
	}
}

// 断签债：每丢一天连续记5分钟，封顶60分钟
const (
	streakDebtMinutesPerDay = 5
	streakDebtCapMinutes    = 60
)

// Check 计算距上次完成任务的天数并执行对应后果。
// 无需出话术时返回 nil。同一自然日内重复登录只执行一次
func (s *InactivityService) Check(ctx context.Context, userID uint) (*AuthorityMessage, error) {
	identity, err := s.IdentityRepo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	// 从未完成过任务的用户没有"离开"可言
	if identity.LastMissionAt == nil {
		return nil, nil
	}

	daysSince := int(time.Since(*identity.LastMissionAt).Hours() / 24)
	identity.DaysSinceLastMission = daysSince
	if err := s.IdentityRepo.Update(identity); err != nil {
		return nil, err
	}

	if daysSince < s.Cfg.InactivityWarningDays {
		return nil, nil
	}

	if !s.claimDailySweep(ctx, userID) {
		return nil, nil
	}

	if daysSince < s.Cfg.InactivityConsequenceDays {
		msg := GetAuthorityMessage(AuthorityReturn, AuthorityData{Days: daysSince})
		return &msg, nil
	}

	// 一周以上：有连续记录的断签计债，否则只温和召回
	if identity.CurrentStreak == 0 {
		msg := GetAuthorityMessage(AuthorityReturn, AuthorityData{Days: daysSince})
		return &msg, nil
	}

	lostStreak := identity.CurrentStreak
	identity.CurrentStreak = 0
	if err := s.IdentityRepo.Update(identity); err != nil {
		return nil, err
	}

	debtMinutes := lostStreak * streakDebtMinutesPerDay
	if debtMinutes > streakDebtCapMinutes {
		debtMinutes = streakDebtCapMinutes
	}
	if _, err := s.DebtSvc.Add(userID, DebtInput{
		Source:      model.DebtBrokenStreak,
		Title:       fmt.Sprintf("Broken %d-day streak", lostStreak),
		Description: "Make-up time owed for letting the streak lapse.",
		DebtMinutes: debtMinutes,
	}); err != nil {
		return nil, err
	}

	msg := GetAuthorityMessage(AuthorityReturn, AuthorityData{Days: daysSince, Streak: lostStreak})
	action := &model.EnforcementAction{
		UserID:           userID,
		TriggerType:      "inactivity",
		ActionType:       model.ConsequenceStreakReset,
		AuthorityMessage: msg.Message,
	}
	if err := s.ActionRepo.Create(action); err != nil {
		return nil, err
	}
	monitoring.EnforcementActions.WithLabelValues("inactivity", string(model.ConsequenceStreakReset)).Inc()

	logger.Log.Info("streak reset for inactivity",
		zap.Uint("userID", userID),
		zap.Int("daysSince", daysSince),
		zap.Int("lostStreak", lostStreak),
		zap.Int("debtMinutes", debtMinutes))

	return &msg, nil
}

// claimDailySweep 用 redis 标记保证每用户每天只跑一次检测。
// redis 不可用时放行（检测本身幂等，重复执行最多重复出话术）
func (s *InactivityService) claimDailySweep(ctx context.Context, userID uint) bool {
	if s.Redis == nil {
		return true
	}
	key := fmt.Sprintf("inactivity:%d:%s", userID, time.Now().Format(util.DateFormat))
	ok, err := s.Redis.SetNX(ctx, key, 1, 48*time.Hour).Result()
	if err != nil {
		logger.Log.Warn("inactivity sweep marker unavailable", zap.Error(err))
		return true
	}
	return ok
}
