package service

import (
	"testing"
	"time"

	"studypact_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDebt_Defaults(t *testing.T) {
	env := newTestEnv(t)

	streak := env.debt.NewDebt(1, DebtInput{Source: model.DebtBrokenStreak, Title: "Broken streak", DebtMinutes: 25})
	assert.Equal(t, model.DebtPriorityUrgent, streak.Priority)
	assert.Equal(t, model.DebtQueued, streak.Status)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), streak.ExpiresAt, time.Minute)

	// 放弃目标未给分钟数时取默认值
	abandoned := env.debt.NewDebt(1, DebtInput{Source: model.DebtIncompleteGoal, Title: "Abandoned goal"})
	assert.Equal(t, env.cfg.DebtMinutesPerAbandon, abandoned.DebtMinutes)
	assert.Equal(t, model.DebtPriorityNormal, abandoned.Priority)
}

func TestDebtAdd_UrgentPrioritySurvivesInsert(t *testing.T) {
	env := newTestEnv(t)

	// 紧急档取值为0，不得被任何列默认值顶掉
	debt, err := env.debt.Add(1, DebtInput{Source: model.DebtBrokenStreak, Title: "Broken streak", DebtMinutes: 25})
	require.NoError(t, err)

	var stored model.StudyDebt
	require.NoError(t, env.db.First(&stored, debt.ID).Error)
	assert.Equal(t, model.DebtPriorityUrgent, stored.Priority)
}

func TestDebtPay_FullPayoff(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.debt.Add(1, DebtInput{Source: model.DebtMissedSession, Title: "Skip debt", DebtMinutes: 30})
	require.NoError(t, err)
	_, err = env.debt.Add(1, DebtInput{Source: model.DebtSelfAdded, Title: "Own promise", DebtMinutes: 20})
	require.NoError(t, err)

	result, err := env.debt.Pay(1, 50)
	require.NoError(t, err)
	assert.Equal(t, 50, result.MinutesApplied)
	assert.Equal(t, 2, result.DebtsFullyPaid)
	assert.Zero(t, result.RemainingOwed)
	assert.Equal(t, ToneNeutral, result.Message.Tone)

	var completed int64
	require.NoError(t, env.db.Model(&model.StudyDebt{}).
		Where("user_id = ? AND status = ?", 1, model.DebtCompleted).Count(&completed).Error)
	assert.EqualValues(t, 2, completed)
}

func TestDebtPay_ZeroMinutesIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.debt.Add(1, DebtInput{Source: model.DebtMissedSession, Title: "Skip debt", DebtMinutes: 30})
	require.NoError(t, err)

	result, err := env.debt.Pay(1, 0)
	require.NoError(t, err)
	assert.Zero(t, result.MinutesApplied)
	assert.Zero(t, result.DebtsFullyPaid)
	assert.Equal(t, 30, result.RemainingOwed)
	assert.Empty(t, result.Touched)

	var debt model.StudyDebt
	require.NoError(t, env.db.Where("user_id = ?", 1).First(&debt).Error)
	assert.Equal(t, model.DebtQueued, debt.Status)
	assert.Zero(t, debt.PaidMinutes)
}

func TestDebtPay_UrgentBeforeOlderNormal(t *testing.T) {
	env := newTestEnv(t)

	// 普通债先建，紧急债后建：偿还仍应先打紧急债
	normal := env.debt.NewDebt(1, DebtInput{Source: model.DebtMissedSession, Title: "Old skip debt", DebtMinutes: 30})
	normal.CreatedAt = time.Now().Add(-48 * time.Hour)
	require.NoError(t, env.db.Create(normal).Error)

	urgent := env.debt.NewDebt(1, DebtInput{Source: model.DebtBrokenStreak, Title: "Broken streak", DebtMinutes: 25})
	require.NoError(t, env.db.Create(urgent).Error)

	result, err := env.debt.Pay(1, 25)
	require.NoError(t, err)
	assert.Equal(t, 1, result.DebtsFullyPaid)
	assert.Equal(t, 30, result.RemainingOwed)
	require.Len(t, result.Touched, 1)
	assert.Equal(t, urgent.ID, result.Touched[0].ID)
	assert.Equal(t, model.DebtCompleted, result.Touched[0].Status)

	var untouched model.StudyDebt
	require.NoError(t, env.db.First(&untouched, normal.ID).Error)
	assert.Equal(t, model.DebtQueued, untouched.Status)
	assert.Zero(t, untouched.PaidMinutes)
}

func TestDebtPay_PartialFIFOWithinPriority(t *testing.T) {
	env := newTestEnv(t)

	older := env.debt.NewDebt(1, DebtInput{Source: model.DebtMissedSession, Title: "First", DebtMinutes: 30})
	older.CreatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, env.db.Create(older).Error)

	newer := env.debt.NewDebt(1, DebtInput{Source: model.DebtMissedSession, Title: "Second", DebtMinutes: 20})
	require.NoError(t, env.db.Create(newer).Error)

	result, err := env.debt.Pay(1, 40)
	require.NoError(t, err)
	assert.Equal(t, 40, result.MinutesApplied)
	assert.Equal(t, 1, result.DebtsFullyPaid)
	assert.Equal(t, 10, result.RemainingOwed)

	var first, second model.StudyDebt
	require.NoError(t, env.db.First(&first, older.ID).Error)
	require.NoError(t, env.db.First(&second, newer.ID).Error)
	assert.Equal(t, model.DebtCompleted, first.Status)
	assert.Equal(t, 30, first.PaidMinutes)
	assert.Equal(t, model.DebtInProgress, second.Status)
	assert.Equal(t, 10, second.PaidMinutes)
	assert.Equal(t, 50, second.ProgressPercent)
	assert.NotNil(t, second.StartedAt)
}

func TestDebtPay_OverpayLeavesLedgerClear(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.debt.Add(1, DebtInput{Source: model.DebtMissedSession, Title: "Skip debt", DebtMinutes: 15})
	require.NoError(t, err)

	result, err := env.debt.Pay(1, 100)
	require.NoError(t, err)
	assert.Equal(t, 15, result.MinutesApplied)
	assert.Zero(t, result.RemainingOwed)

	summary, err := env.debt.Outstanding(1)
	require.NoError(t, err)
	assert.Zero(t, summary.Total)
	assert.Empty(t, summary.Items)
}

func TestDebtOutstanding_SumsOpenBalances(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.debt.Add(1, DebtInput{Source: model.DebtMissedSession, Title: "A", DebtMinutes: 30})
	require.NoError(t, err)
	_, err = env.debt.Add(1, DebtInput{Source: model.DebtSelfAdded, Title: "B", DebtMinutes: 20})
	require.NoError(t, err)
	_, err = env.debt.Add(2, DebtInput{Source: model.DebtSelfAdded, Title: "other user", DebtMinutes: 99})
	require.NoError(t, err)

	_, err = env.debt.Pay(1, 10)
	require.NoError(t, err)

	summary, err := env.debt.Outstanding(1)
	require.NoError(t, err)
	assert.Equal(t, 40, summary.Total)
	assert.Len(t, summary.Items, 2)
}
