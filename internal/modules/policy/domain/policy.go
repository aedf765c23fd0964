package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/reshetovitsme/posbon/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

const (
	DefaultFloodThreshold        = 5
	DefaultFloodWindowSeconds    = 5
	DefaultWarnLimit             = 3
	DefaultMuteDurationMinutes   = 60
	DefaultCaptchaTimeoutSeconds = 60
)

// GroupPolicy is the moderation configuration of one group.
// The moderation core treats a policy as a read-only snapshot; changes go
// through Apply, which returns a new value.
type GroupPolicy struct {
	GroupID  int64    `json:"groupId" gorm:"primaryKey;autoIncrement:false"`
	Language Language `json:"botLanguage" gorm:"size:8"`

	DeleteLinks    bool     `json:"deleteLinks"`
	DeleteMentions bool     `json:"deleteMentions"`
	DeleteForwards bool     `json:"deleteForwarded"`
	ForbiddenWords []string `json:"forbiddenWords" gorm:"serializer:json"`

	AllowPhotos   bool `json:"allowPhotos"`
	AllowVideos   bool `json:"allowVideos"`
	AllowStickers bool `json:"allowStickers"`
	AllowGifs     bool `json:"allowGifs"`

	AntiSpamEnabled    bool `json:"floodControlEnabled"`
	FloodThreshold     int  `json:"floodMessagesLimit"`
	FloodWindowSeconds int  `json:"floodIntervalSeconds"`

	WarnLimit           int    `json:"warnLimit"`
	EscalationAction    Action `json:"actionOnLimit" gorm:"size:8"`
	MuteDurationMinutes int    `json:"muteDurationMinutes"`

	CaptchaEnabled        bool   `json:"captchaEnabled"`
	CaptchaTimeoutSeconds int    `json:"captchaTimeoutSeconds"`
	CaptchaFailAction     Action `json:"captchaFailAction" gorm:"size:8"`

	SilentMode bool      `json:"silentMode"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (GroupPolicy) TableName() string {
	return "group_policies"
}

// DefaultPolicy returns the policy used for groups that never configured one
func DefaultPolicy(groupID int64) GroupPolicy {
	return GroupPolicy{
		GroupID:               groupID,
		Language:              LanguageUz,
		DeleteLinks:           true,
		DeleteForwards:        true,
		ForbiddenWords:        []string{},
		AllowPhotos:           true,
		AllowVideos:           true,
		AllowStickers:         true,
		AllowGifs:             true,
		AntiSpamEnabled:       true,
		FloodThreshold:        DefaultFloodThreshold,
		FloodWindowSeconds:    DefaultFloodWindowSeconds,
		WarnLimit:             DefaultWarnLimit,
		EscalationAction:      ActionMute,
		MuteDurationMinutes:   DefaultMuteDurationMinutes,
		CaptchaTimeoutSeconds: DefaultCaptchaTimeoutSeconds,
		CaptchaFailAction:     ActionKick,
	}
}

// Clone returns a copy that shares no slices with p
func (p GroupPolicy) Clone() GroupPolicy {
	p.ForbiddenWords = slices.Clone(p.ForbiddenWords)
	return p
}

// FloodWindow is the flood counter lifetime
func (p GroupPolicy) FloodWindow() time.Duration {
	return time.Duration(p.FloodWindowSeconds) * time.Second
}

func (p GroupPolicy) CaptchaTimeout() time.Duration {
	return time.Duration(p.CaptchaTimeoutSeconds) * time.Second
}

// Validate reports the first field that is out of range
func (p GroupPolicy) Validate() error {
	switch {
	case !p.Language.IsValid():
		return oops.With("field", "botLanguage", "value", p.Language).Wrap(errors.ErrInvalidPolicy)
	case !p.EscalationAction.IsValid():
		return oops.With("field", "actionOnLimit", "value", p.EscalationAction).Wrap(errors.ErrInvalidPolicy)
	case p.CaptchaFailAction != ActionKick && p.CaptchaFailAction != ActionBan:
		return oops.With("field", "captchaFailAction", "value", p.CaptchaFailAction).Wrap(errors.ErrInvalidPolicy)
	case p.FloodThreshold < 1:
		return oops.With("field", "floodMessagesLimit", "value", p.FloodThreshold).Wrap(errors.ErrInvalidPolicy)
	case p.FloodWindowSeconds < 1:
		return oops.With("field", "floodIntervalSeconds", "value", p.FloodWindowSeconds).Wrap(errors.ErrInvalidPolicy)
	case p.WarnLimit < 1:
		return oops.With("field", "warnLimit", "value", p.WarnLimit).Wrap(errors.ErrInvalidPolicy)
	case p.MuteDurationMinutes < 1:
		return oops.With("field", "muteDurationMinutes", "value", p.MuteDurationMinutes).Wrap(errors.ErrInvalidPolicy)
	case p.CaptchaTimeoutSeconds < 1:
		return oops.With("field", "captchaTimeoutSeconds", "value", p.CaptchaTimeoutSeconds).Wrap(errors.ErrInvalidPolicy)
	}
	return nil
}

// PolicyUpdate lists every mutable policy field. A nil field is left as is.
type PolicyUpdate struct {
	BotLanguage *string `json:"botLanguage,omitempty"`

	DeleteLinks     *bool     `json:"deleteLinks,omitempty"`
	DeleteMentions  *bool     `json:"deleteMentions,omitempty"`
	DeleteForwarded *bool     `json:"deleteForwarded,omitempty"`
	ForbiddenWords  *[]string `json:"forbiddenWords,omitempty"`

	AllowPhotos   *bool `json:"allowPhotos,omitempty"`
	AllowVideos   *bool `json:"allowVideos,omitempty"`
	AllowStickers *bool `json:"allowStickers,omitempty"`
	AllowGifs     *bool `json:"allowGifs,omitempty"`

	FloodControlEnabled  *bool `json:"floodControlEnabled,omitempty"`
	FloodMessagesLimit   *int  `json:"floodMessagesLimit,omitempty"`
	FloodIntervalSeconds *int  `json:"floodIntervalSeconds,omitempty"`

	WarnLimit           *int    `json:"warnLimit,omitempty"`
	ActionOnLimit       *string `json:"actionOnLimit,omitempty"`
	MuteDurationMinutes *int    `json:"muteDurationMinutes,omitempty"`

	CaptchaEnabled        *bool   `json:"captchaEnabled,omitempty"`
	CaptchaTimeoutSeconds *int    `json:"captchaTimeoutSeconds,omitempty"`
	CaptchaFailAction     *string `json:"captchaFailAction,omitempty"`

	SilentMode *bool `json:"silentMode,omitempty"`
}

// Apply returns p with every non-nil field of u set. p itself is not
// modified, and on error nothing of u is applied.
func (p GroupPolicy) Apply(u PolicyUpdate) (GroupPolicy, error) {
	next := p.Clone()

	if u.BotLanguage != nil {
		lang, err := ParseLanguage(strings.TrimSpace(*u.BotLanguage))
		if err != nil {
			return p, oops.With("field", "botLanguage").Wrap(errors.ErrInvalidPolicy)
		}
		next.Language = lang
	}
	if u.ActionOnLimit != nil {
		action, err := ParseAction(strings.TrimSpace(*u.ActionOnLimit))
		if err != nil {
			return p, oops.With("field", "actionOnLimit").Wrap(errors.ErrInvalidPolicy)
		}
		next.EscalationAction = action
	}
	if u.CaptchaFailAction != nil {
		action, err := ParseAction(strings.TrimSpace(*u.CaptchaFailAction))
		if err != nil {
			return p, oops.With("field", "captchaFailAction").Wrap(errors.ErrInvalidPolicy)
		}
		next.CaptchaFailAction = action
	}
	if u.ForbiddenWords != nil {
		next.ForbiddenWords = NormalizeWords(*u.ForbiddenWords)
	}

	setIf(&next.DeleteLinks, u.DeleteLinks)
	setIf(&next.DeleteMentions, u.DeleteMentions)
	setIf(&next.DeleteForwards, u.DeleteForwarded)
	setIf(&next.AllowPhotos, u.AllowPhotos)
	setIf(&next.AllowVideos, u.AllowVideos)
	setIf(&next.AllowStickers, u.AllowStickers)
	setIf(&next.AllowGifs, u.AllowGifs)
	setIf(&next.AntiSpamEnabled, u.FloodControlEnabled)
	setIf(&next.FloodThreshold, u.FloodMessagesLimit)
	setIf(&next.FloodWindowSeconds, u.FloodIntervalSeconds)
	setIf(&next.WarnLimit, u.WarnLimit)
	setIf(&next.MuteDurationMinutes, u.MuteDurationMinutes)
	setIf(&next.CaptchaEnabled, u.CaptchaEnabled)
	setIf(&next.CaptchaTimeoutSeconds, u.CaptchaTimeoutSeconds)
	setIf(&next.SilentMode, u.SilentMode)

	if err := next.Validate(); err != nil {
		return p, err
	}
	return next, nil
}

// NormalizeWords lower-cases, trims and deduplicates a forbidden word list
func NormalizeWords(words []string) []string {
	normalized := lo.FilterMap(words, func(w string, _ int) (string, bool) {
		w = strings.ToLower(strings.TrimSpace(w))
		return w, w != ""
	})
	return lo.Uniq(normalized)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
