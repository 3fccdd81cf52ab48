package service

import (
	"context"
	"testing"

	"studypact_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInactivityCheck_NeverActiveUser(t *testing.T) {
	env := newTestEnv(t)

	msg, err := env.inactivity.Check(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, msg)
}

func TestInactivityCheck_RecentActivityIsSilent(t *testing.T) {
	env := newTestEnv(t)
	env.setLastMission(t, 1, 1, 3)

	msg, err := env.inactivity.Check(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, msg)

	identity, err := env.identityRepo.GetOrCreate(1)
	require.NoError(t, err)
	assert.Equal(t, 1, identity.DaysSinceLastMission)
	assert.Equal(t, 3, identity.CurrentStreak)
}

func TestInactivityCheck_WarningBandKeepsStreak(t *testing.T) {
	env := newTestEnv(t)
	env.setLastMission(t, 1, 5, 5)

	msg, err := env.inactivity.Check(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, ToneWarning, msg.Tone)
	assert.Contains(t, msg.Message, "5 days")

	identity, err := env.identityRepo.GetOrCreate(1)
	require.NoError(t, err)
	assert.Equal(t, 5, identity.CurrentStreak)

	var debtCount int64
	require.NoError(t, env.db.Model(&model.StudyDebt{}).Count(&debtCount).Error)
	assert.Zero(t, debtCount)
}

func TestInactivityCheck_WeekAwayResetsStreakAndAddsDebt(t *testing.T) {
	env := newTestEnv(t)
	env.setLastMission(t, 1, 10, 5)

	msg, err := env.inactivity.Check(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, ToneConsequence, msg.Tone)
	assert.Contains(t, msg.Message, "5-day streak")

	identity, err := env.identityRepo.GetOrCreate(1)
	require.NoError(t, err)
	assert.Zero(t, identity.CurrentStreak)
	assert.Equal(t, 5, identity.LongestStreak)
	assert.Equal(t, 10, identity.DaysSinceLastMission)

	var debt model.StudyDebt
	require.NoError(t, env.db.Where("user_id = ?", 1).First(&debt).Error)
	assert.Equal(t, model.DebtBrokenStreak, debt.Source)
	assert.Equal(t, 25, debt.DebtMinutes)
	assert.Equal(t, model.DebtPriorityUrgent, debt.Priority)

	var action model.EnforcementAction
	require.NoError(t, env.db.Where("trigger_type = ?", "inactivity").First(&action).Error)
	assert.Equal(t, model.ConsequenceStreakReset, action.ActionType)
}

func TestInactivityCheck_StreakDebtIsCapped(t *testing.T) {
	env := newTestEnv(t)
	env.setLastMission(t, 1, 14, 20)

	msg, err := env.inactivity.Check(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, msg)

	var debt model.StudyDebt
	require.NoError(t, env.db.Where("user_id = ?", 1).First(&debt).Error)
	assert.Equal(t, streakDebtCapMinutes, debt.DebtMinutes)
}

func TestInactivityCheck_NoStreakToLose(t *testing.T) {
	env := newTestEnv(t)
	env.setLastMission(t, 1, 10, 0)

	msg, err := env.inactivity.Check(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, ToneNeutral, msg.Tone)

	var debtCount int64
	require.NoError(t, env.db.Model(&model.StudyDebt{}).Count(&debtCount).Error)
	assert.Zero(t, debtCount)

	var actionCount int64
	require.NoError(t, env.db.Model(&model.EnforcementAction{}).Count(&actionCount).Error)
	assert.Zero(t, actionCount)
}
