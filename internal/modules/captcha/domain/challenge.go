package domain

import (
	"sync"
	"time"

	policyDomain "github.com/reshetovitsme/posbon/internal/modules/policy/domain"
)

// Key identifies a challenge
type Key struct {
	GroupID int64
	UserID  int64
}

// Timer is a cancellable scheduled task
type Timer interface {
	// Stop reports whether the call prevented the task from running
	Stop() bool
}

// Challenge gates a new member until they press the button or the deadline
// passes. Status leaves pending exactly once; the caller whose transition
// wins owns every follow-up side effect.
type Challenge struct {
	Key        Key
	Deadline   time.Time
	FailAction policyDomain.Action

	mu              sync.Mutex
	status          Status
	promptMessageID int
	timer           Timer
}

func NewChallenge(key Key, deadline time.Time, failAction policyDomain.Action) *Challenge {
	return &Challenge{
		Key:        key,
		Deadline:   deadline,
		FailAction: failAction,
		status:     StatusPending,
	}
}

func (c *Challenge) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Challenge) PromptMessageID() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.promptMessageID
}

func (c *Challenge) SetPrompt(messageID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.promptMessageID = messageID
}

// Arm attaches the deadline timer. A challenge that already left pending
// stops the timer right away.
func (c *Challenge) Arm(t Timer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != StatusPending {
		t.Stop()
		return
	}
	c.timer = t
}

// TryTransition moves a pending challenge to the given terminal status and
// cancels its timer. It returns false when the challenge was no longer pending.
func (c *Challenge) TryTransition(to Status) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != StatusPending || to == StatusPending {
		return false
	}
	c.status = to
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	return true
}
