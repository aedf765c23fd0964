// Package rules decides whether a message breaks a group's content policy.
// Evaluation is pure and safe for concurrent use.
package rules

import (
	"regexp"
	"strings"

	"github.com/reshetovitsme/posbon/internal/modules/policy/domain"
	"github.com/samber/lo"
)

var (
	linkPattern = regexp.MustCompile(
		`(?:https?|ftp|tg)://` +
			`|www\.` +
			`|\b(?:t\.me|telegram\.me|telegram\.dog|bit\.ly|goo\.gl|tinyurl\.com|cutt\.ly|is\.gd)\b` +
			`|\b[a-z0-9](?:[a-z0-9-]*[a-z0-9])?\.[a-z]{2,24}\b`,
	)
	mentionPattern = regexp.MustCompile(`(?:^|[^\w])@\w{2,}`)
)

// Entity is a structured markup span the platform attached to the text
type Entity struct {
	Kind EntityKind
}

// Input is the content of one message. Text is nil when the message has
// neither text nor caption.
type Input struct {
	Text      *string
	Entities  []Entity
	IsForward bool
}

// Verdict is the evaluation result; Reason is empty when nothing matched
type Verdict struct {
	ShouldDelete bool
	Reason       Reason
}

var clean = Verdict{}

func violation(r Reason) Verdict {
	return Verdict{ShouldDelete: true, Reason: r}
}

// Evaluate runs the content checks in priority order and returns the first
// match: forwards, links, mentions, forbidden words.
func Evaluate(in Input, policy domain.GroupPolicy) Verdict {
	if in.Text == nil && !in.IsForward {
		return clean
	}

	if policy.DeleteForwards && in.IsForward {
		return violation(ReasonForward)
	}

	text := strings.ToLower(lo.FromPtr(in.Text))

	if policy.DeleteLinks {
		if hasLinkEntity(in.Entities, policy.DeleteMentions) || linkPattern.MatchString(text) {
			return violation(ReasonLink)
		}
	}

	// mentions share the link reason
	if policy.DeleteMentions && mentionPattern.MatchString(text) {
		return violation(ReasonLink)
	}

	if len(policy.ForbiddenWords) > 0 {
		_, found := lo.Find(policy.ForbiddenWords, func(word string) bool {
			word = strings.ToLower(word)
			return word != "" && strings.Contains(text, word)
		})
		if found {
			return violation(ReasonBadWord)
		}
	}

	return clean
}

func hasLinkEntity(entities []Entity, includeMentions bool) bool {
	return lo.SomeBy(entities, func(e Entity) bool {
		switch e.Kind {
		case EntityKindUrl, EntityKindTextLink:
			return true
		case EntityKindMention, EntityKindTextMention:
			return includeMentions
		default:
			return false
		}
	})
}

// CheckMedia reports a violation when the group disallows the attachment kind
func CheckMedia(kind MediaKind, policy domain.GroupPolicy) Verdict {
	allowed := true
	switch kind {
	case MediaKindPhoto:
		allowed = policy.AllowPhotos
	case MediaKindVideo:
		allowed = policy.AllowVideos
	case MediaKindSticker:
		allowed = policy.AllowStickers
	case MediaKindGif:
		allowed = policy.AllowGifs
	}
	if allowed {
		return clean
	}
	return violation(ReasonMedia)
}
