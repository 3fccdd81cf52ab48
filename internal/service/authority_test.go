package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorityMessage_SkipTiers(t *testing.T) {
	tests := []struct {
		priorSkips     int
		tone           AuthorityTone
		actionRequired bool
	}{
		{0, ToneWarning, false},
		{1, ToneConsequence, false},
		{2, ToneConsequence, true},
		{5, ToneConsequence, true},
	}
	for _, tt := range tests {
		msg := GetAuthorityMessage(AuthoritySkip, AuthorityData{Count: tt.priorSkips})
		assert.Equal(t, tt.tone, msg.Tone, "priorSkips=%d", tt.priorSkips)
		assert.Equal(t, tt.actionRequired, msg.ActionRequired, "priorSkips=%d", tt.priorSkips)
		assert.NotEmpty(t, msg.Message)
	}
}

func TestAuthorityMessage_FailureTiers(t *testing.T) {
	assert.Equal(t, ToneNeutral, GetAuthorityMessage(AuthorityFailure, AuthorityData{Count: 1}).Tone)
	assert.Equal(t, ToneWarning, GetAuthorityMessage(AuthorityFailure, AuthorityData{Count: 2}).Tone)
	assert.Equal(t, ToneWarning, GetAuthorityMessage(AuthorityFailure, AuthorityData{Count: 3}).Tone)

	severe := GetAuthorityMessage(AuthorityFailure, AuthorityData{Count: 4})
	assert.Equal(t, ToneConsequence, severe.Tone)
	assert.True(t, severe.ActionRequired)
}

func TestAuthorityMessage_SuccessTiers(t *testing.T) {
	assert.Equal(t, ToneNeutral, GetAuthorityMessage(AuthoritySuccess, AuthorityData{Streak: 1}).Tone)
	assert.Equal(t, TonePraise, GetAuthorityMessage(AuthoritySuccess, AuthorityData{Streak: 3}).Tone)
	assert.Equal(t, TonePraise, GetAuthorityMessage(AuthoritySuccess, AuthorityData{Streak: 7}).Tone)
}

func TestAuthorityMessage_ReturnMentionsLostStreak(t *testing.T) {
	msg := GetAuthorityMessage(AuthorityReturn, AuthorityData{Days: 8, Streak: 5})
	assert.Equal(t, ToneConsequence, msg.Tone)
	assert.Contains(t, msg.Message, "5-day streak")

	// 无连续可丢时，久别只温和召回
	msg = GetAuthorityMessage(AuthorityReturn, AuthorityData{Days: 8})
	assert.Equal(t, ToneNeutral, msg.Tone)

	msg = GetAuthorityMessage(AuthorityReturn, AuthorityData{Days: 4})
	assert.Equal(t, ToneWarning, msg.Tone)
}

func TestAuthorityMessage_DebtTiers(t *testing.T) {
	assert.Equal(t, ToneNeutral, GetAuthorityMessage(AuthorityDebt, AuthorityData{Minutes: 0}).Tone)
	assert.Equal(t, ToneWarning, GetAuthorityMessage(AuthorityDebt, AuthorityData{Minutes: 59}).Tone)

	heavy := GetAuthorityMessage(AuthorityDebt, AuthorityData{Minutes: 60})
	assert.Equal(t, ToneConsequence, heavy.Tone)
	assert.True(t, heavy.ActionRequired)
}

func TestAuthorityMessage_StreakTiers(t *testing.T) {
	assert.Equal(t, ToneNeutral, GetAuthorityMessage(AuthorityStreak, AuthorityData{Streak: 2}).Tone)
	assert.Equal(t, TonePraise, GetAuthorityMessage(AuthorityStreak, AuthorityData{Streak: 7}).Tone)
	assert.Equal(t, TonePraise, GetAuthorityMessage(AuthorityStreak, AuthorityData{Streak: 30}).Tone)
}

func TestAuthorityMessage_UnknownContext(t *testing.T) {
	msg := GetAuthorityMessage("unknown", AuthorityData{})
	assert.Equal(t, ToneNeutral, msg.Tone)
	assert.NotEmpty(t, msg.Message)
}
