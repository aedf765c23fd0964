// Package platformtest provides an in-memory platform.Client for tests.
package platformtest

import (
	"context"
	"sync"
	"time"

	"github.com/reshetovitsme/posbon/internal/platform"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// Call is one recorded platform request
type Call struct {
	Method    string
	GroupID   int64
	UserID    int64
	MessageID int
	Perms     platform.Permissions
	Until     time.Time
	Text      string
	Button    *platform.Button
	Alert     bool
}

// Client records every call and answers from configurable state
type Client struct {
	mu      sync.Mutex
	calls   []Call
	members map[[2]int64]platform.Member
	fail    map[string]error
	nextID  int
}

func New() *Client {
	return &Client{
		members: make(map[[2]int64]platform.Member),
		fail:    make(map[string]error),
		nextID:  1000,
	}
}

// SetMember fixes what GetMember reports for the user
func (c *Client) SetMember(groupID int64, m platform.Member) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.members[[2]int64{groupID, m.UserID}] = m
}

// FailOn makes every call of method return err; a nil err clears it
func (c *Client) FailOn(method string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		delete(c.fail, method)
		return
	}
	c.fail[method] = err
}

// Calls returns the recorded calls, optionally filtered by method
func (c *Client) Calls(methods ...string) []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(methods) == 0 {
		return append([]Call(nil), c.calls...)
	}
	return lo.Filter(c.calls, func(call Call, _ int) bool {
		return lo.Contains(methods, call.Method)
	})
}

func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = nil
}

func (c *Client) record(call Call) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, call)
	if err, ok := c.fail[call.Method]; ok {
		return err
	}
	return nil
}

func (c *Client) DeleteMessage(_ context.Context, groupID int64, messageID int) error {
	return c.record(Call{Method: "DeleteMessage", GroupID: groupID, MessageID: messageID})
}

func (c *Client) RestrictMember(_ context.Context, groupID, userID int64, perms platform.Permissions, until time.Time) error {
	if err := c.record(Call{Method: "RestrictMember", GroupID: groupID, UserID: userID, Perms: perms, Until: until}); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	status := platform.MemberStatusRestricted
	if perms == platform.DefaultPermissions {
		status = platform.MemberStatusMember
	}
	c.members[[2]int64{groupID, userID}] = platform.Member{UserID: userID, Status: status, CanSendMessages: perms.CanSendMessages}
	return nil
}

func (c *Client) BanMember(_ context.Context, groupID, userID int64) error {
	if err := c.record(Call{Method: "BanMember", GroupID: groupID, UserID: userID}); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.members[[2]int64{groupID, userID}] = platform.Member{UserID: userID, Status: platform.MemberStatusKicked}
	return nil
}

func (c *Client) UnbanMember(_ context.Context, groupID, userID int64) error {
	if err := c.record(Call{Method: "UnbanMember", GroupID: groupID, UserID: userID}); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.members[[2]int64{groupID, userID}] = platform.Member{UserID: userID, Status: platform.MemberStatusLeft}
	return nil
}

func (c *Client) SendMessage(_ context.Context, groupID int64, text string, button *platform.Button) (int, error) {
	if err := c.record(Call{Method: "SendMessage", GroupID: groupID, Text: text, Button: button}); err != nil {
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	return c.nextID, nil
}

func (c *Client) GetMember(_ context.Context, groupID, userID int64) (platform.Member, error) {
	if err := c.record(Call{Method: "GetMember", GroupID: groupID, UserID: userID}); err != nil {
		return platform.Member{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.members[[2]int64{groupID, userID}]; ok {
		return m, nil
	}
	return platform.Member{UserID: userID, Status: platform.MemberStatusMember, CanSendMessages: true}, nil
}

func (c *Client) AnswerCallback(_ context.Context, callbackID, text string, alert bool) error {
	return c.record(Call{Method: "AnswerCallback", Text: text, Alert: alert})
}

// ErrUnavailable is a ready-made transient failure
var ErrUnavailable = oops.Errorf("platform unavailable")
