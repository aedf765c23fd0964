package domain

import (
	"encoding/json"
	"testing"

	"github.com/reshetovitsme/posbon/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy(-100)

	assert.Equal(t, int64(-100), p.GroupID)
	assert.Equal(t, LanguageUz, p.Language)
	assert.True(t, p.DeleteLinks)
	assert.True(t, p.DeleteForwards)
	assert.False(t, p.DeleteMentions)
	assert.Empty(t, p.ForbiddenWords)
	assert.True(t, p.AntiSpamEnabled)
	assert.Equal(t, 5, p.FloodThreshold)
	assert.Equal(t, 5, p.FloodWindowSeconds)
	assert.Equal(t, 3, p.WarnLimit)
	assert.Equal(t, ActionMute, p.EscalationAction)
	assert.Equal(t, 60, p.MuteDurationMinutes)
	assert.False(t, p.CaptchaEnabled)
	assert.Equal(t, ActionKick, p.CaptchaFailAction)
	assert.NoError(t, p.Validate())
}

func TestApplySetsOnlyGivenFields(t *testing.T) {
	base := DefaultPolicy(1)

	next, err := base.Apply(PolicyUpdate{
		WarnLimit:      lo.ToPtr(5),
		ActionOnLimit:  lo.ToPtr("BAN"),
		DeleteMentions: lo.ToPtr(true),
		BotLanguage:    lo.ToPtr("ru"),
	})
	require.NoError(t, err)

	assert.Equal(t, 5, next.WarnLimit)
	assert.Equal(t, ActionBan, next.EscalationAction)
	assert.True(t, next.DeleteMentions)
	assert.Equal(t, LanguageRu, next.Language)
	assert.Equal(t, base.FloodThreshold, next.FloodThreshold)
	assert.Equal(t, base.DeleteLinks, next.DeleteLinks)

	// the receiver is a snapshot and stays untouched
	assert.Equal(t, 3, base.WarnLimit)
	assert.Equal(t, LanguageUz, base.Language)
}

func TestApplyNormalizesForbiddenWords(t *testing.T) {
	base := DefaultPolicy(1)

	next, err := base.Apply(PolicyUpdate{
		ForbiddenWords: lo.ToPtr([]string{" Spam ", "spam", "", "CASINO"}),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"spam", "casino"}, next.ForbiddenWords)

	next.ForbiddenWords[0] = "changed"
	assert.Empty(t, base.ForbiddenWords)
}

func TestApplyRejectsInvalidUpdateAtomically(t *testing.T) {
	base := DefaultPolicy(1)

	tests := []struct {
		name   string
		update PolicyUpdate
	}{
		{"unknown action", PolicyUpdate{WarnLimit: lo.ToPtr(7), ActionOnLimit: lo.ToPtr("shout")}},
		{"mute is not a captcha fail action", PolicyUpdate{CaptchaFailAction: lo.ToPtr("mute")}},
		{"unknown language", PolicyUpdate{BotLanguage: lo.ToPtr("de")}},
		{"zero warn limit", PolicyUpdate{WarnLimit: lo.ToPtr(0)}},
		{"negative flood window", PolicyUpdate{FloodIntervalSeconds: lo.ToPtr(-1)}},
		{"zero mute duration", PolicyUpdate{MuteDurationMinutes: lo.ToPtr(0), SilentMode: lo.ToPtr(true)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := base.Apply(tt.update)
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrInvalidPolicy)
			assert.Equal(t, base, next)
		})
	}
}

func TestPolicyUpdateDecodesCamelCase(t *testing.T) {
	var u PolicyUpdate
	err := json.Unmarshal([]byte(`{"deleteLinks":false,"floodMessagesLimit":10,"captchaEnabled":true}`), &u)
	require.NoError(t, err)

	next, err := DefaultPolicy(1).Apply(u)
	require.NoError(t, err)
	assert.False(t, next.DeleteLinks)
	assert.Equal(t, 10, next.FloodThreshold)
	assert.True(t, next.CaptchaEnabled)
	assert.Nil(t, u.WarnLimit)
}
