package service

import (
	"testing"

	"studypact_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveArchetype(t *testing.T) {
	tests := []struct {
		name                               string
		completed, failed, skipped, streak int
		want                               model.Archetype
	}{
		{"high rate and long streak", 18, 1, 1, 9, model.ArchetypeMethodicalMaster},
		{"high rate but short streak", 18, 1, 1, 5, model.ArchetypeSteadyClimber},
		{"rate exactly 0.8", 8, 1, 1, 3, model.ArchetypeSteadyClimber},
		{"fails more than skips", 5, 4, 1, 2, model.ArchetypeResilientLearner},
		{"skips dominate", 5, 1, 4, 2, model.ArchetypeCuriousExplorer},
		{"no history", 0, 0, 0, 0, model.ArchetypeCuriousExplorer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveArchetype(tt.completed, tt.failed, tt.skipped, tt.streak))
		})
	}
}

func TestRecordSuccess_StreakAndLongest(t *testing.T) {
	env := newTestEnv(t)

	identity, msg, err := env.identity.RecordSuccess(1)
	require.NoError(t, err)
	assert.Equal(t, 1, identity.TotalMissionsCompleted)
	assert.Equal(t, 1, identity.CurrentStreak)
	assert.Equal(t, 1, identity.LongestStreak)
	assert.NotNil(t, identity.LastMissionAt)
	assert.Zero(t, identity.DaysSinceLastMission)
	assert.Equal(t, ToneNeutral, msg.Tone)

	// 最长纪录只涨不跌
	identity, _, err = env.identity.RecordSuccess(1)
	require.NoError(t, err)
	identity.CurrentStreak = 0
	require.NoError(t, env.identityRepo.Update(identity))

	identity, _, err = env.identity.RecordSuccess(1)
	require.NoError(t, err)
	assert.Equal(t, 1, identity.CurrentStreak)
	assert.Equal(t, 2, identity.LongestStreak)
	assert.GreaterOrEqual(t, identity.LongestStreak, identity.CurrentStreak)
}

func TestRecordSuccess_ArchetypeUnlocksOnceAtThreshold(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 9; i++ {
		identity, _, err := env.identity.RecordSuccess(1)
		require.NoError(t, err)
		assert.Empty(t, identity.Archetype, "archetype must stay locked through completion %d", i+1)
	}

	identity, _, err := env.identity.RecordSuccess(1)
	require.NoError(t, err)
	assert.Equal(t, model.ArchetypeMethodicalMaster, identity.Archetype)
	require.NotNil(t, identity.ArchetypeUnlockedAt)
	unlockedAt := *identity.ArchetypeUnlockedAt

	// 解锁后即便统计变化，画像与解锁时间也不再改动
	identity.TotalMissionsFailed = 50
	require.NoError(t, env.identityRepo.Update(identity))
	identity, _, err = env.identity.RecordSuccess(1)
	require.NoError(t, err)
	assert.Equal(t, model.ArchetypeMethodicalMaster, identity.Archetype)
	assert.Equal(t, unlockedAt.Unix(), identity.ArchetypeUnlockedAt.Unix())
}

func TestRecordSuccess_StreakMessageTiers(t *testing.T) {
	env := newTestEnv(t)

	var msg AuthorityMessage
	var err error
	for i := 0; i < 3; i++ {
		_, msg, err = env.identity.RecordSuccess(1)
		require.NoError(t, err)
	}
	assert.Equal(t, TonePraise, msg.Tone)

	for i := 0; i < 4; i++ {
		_, msg, err = env.identity.RecordSuccess(1)
		require.NoError(t, err)
	}
	assert.Equal(t, TonePraise, msg.Tone)
	assert.Contains(t, msg.Message, "7 days")
}
