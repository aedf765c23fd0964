package domain

import (
	"github.com/reshetovitsme/posbon/internal/modules/rules"
	"github.com/reshetovitsme/posbon/internal/platform"
)

// Event is one inbound group update. The set of implementations is closed:
// MessageEvent, CommandEvent, JoinEvent and CallbackEvent.
type Event interface {
	isEvent()
}

// MessageEvent is a regular message posted in a group
type MessageEvent struct {
	GroupID   int64
	MessageID int
	Sender    platform.User
	// Text is the message text or media caption, nil when there is neither
	Text      *string
	Entities  []rules.Entity
	IsForward bool
	Media     rules.MediaKind
}

// CommandEvent is a bot command posted in a group. Target is the author of
// the message the command replied to.
type CommandEvent struct {
	MessageEvent
	Command string
	Args    string
	Target  *platform.User
}

// JoinEvent announces users who joined a group. AddedBy is set when
// someone other than the members themselves added them.
type JoinEvent struct {
	GroupID   int64
	MessageID int
	Title     string
	Members   []platform.User
	AddedBy   *platform.User
}

// CallbackEvent is a press of an inline button under a group message
type CallbackEvent struct {
	GroupID    int64
	MessageID  int
	From       platform.User
	CallbackID string
	Data       string
}

func (MessageEvent) isEvent()  {}
func (CommandEvent) isEvent()  {}
func (JoinEvent) isEvent()     {}
func (CallbackEvent) isEvent() {}
