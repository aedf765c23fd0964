package platform

import (
	"context"
	"fmt"
	"html"
	"time"
)

// Permissions are the send capabilities of a group member
type Permissions struct {
	CanSendMessages       bool
	CanSendMedia          bool
	CanSendPolls          bool
	CanSendOther          bool
	CanAddWebPagePreviews bool
	CanInviteUsers        bool
}

// MutedPermissions revokes every send capability
var MutedPermissions = Permissions{}

// DefaultPermissions is what a regular member may do
var DefaultPermissions = Permissions{
	CanSendMessages:       true,
	CanSendMedia:          true,
	CanSendPolls:          true,
	CanSendOther:          true,
	CanAddWebPagePreviews: true,
	CanInviteUsers:        true,
}

// Member describes a user's membership in a group
type Member struct {
	UserID          int64
	Status          MemberStatus
	CanSendMessages bool
}

// IsPrivileged reports whether moderation should skip the member
func (m Member) IsPrivileged() bool {
	return m.Status == MemberStatusCreator || m.Status == MemberStatusAdministrator
}

// IsRestricted reports whether the member is still unable to post.
// Users who already left or were removed are not restricted members.
func (m Member) IsRestricted() bool {
	return m.Status == MemberStatusRestricted && !m.CanSendMessages
}

type User struct {
	ID        int64
	IsBot     bool
	FirstName string
	Username  string
}

// Mention renders an HTML link to the user's profile
func (u User) Mention() string {
	name := u.FirstName
	if name == "" && u.Username != "" {
		name = "@" + u.Username
	}
	if name == "" {
		name = fmt.Sprintf("%d", u.ID)
	}
	return fmt.Sprintf(`<a href="tg://user?id=%d">%s</a>`, u.ID, html.EscapeString(name))
}

// Button is an inline control attached to a sent message
type Button struct {
	Text string
	Data string
}

// Client is the chat platform as seen by the moderation core.
// Every call may fail transiently; callers treat an error as "not confirmed".
type Client interface {
	DeleteMessage(ctx context.Context, groupID int64, messageID int) error
	RestrictMember(ctx context.Context, groupID, userID int64, perms Permissions, until time.Time) error
	BanMember(ctx context.Context, groupID, userID int64) error
	UnbanMember(ctx context.Context, groupID, userID int64) error
	// SendMessage returns the id of the posted message
	SendMessage(ctx context.Context, groupID int64, text string, button *Button) (int, error)
	GetMember(ctx context.Context, groupID, userID int64) (Member, error)
	AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error
}
