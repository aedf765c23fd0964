package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	auditDomain "github.com/reshetovitsme/posbon/internal/modules/audit/domain"
	captchaService "github.com/reshetovitsme/posbon/internal/modules/captcha/service"
	groupDomain "github.com/reshetovitsme/posbon/internal/modules/group/domain"
	"github.com/reshetovitsme/posbon/internal/modules/moderation/domain"
	policyDomain "github.com/reshetovitsme/posbon/internal/modules/policy/domain"
	"github.com/reshetovitsme/posbon/internal/modules/rules"
	warnDomain "github.com/reshetovitsme/posbon/internal/modules/warn/domain"
	"github.com/reshetovitsme/posbon/internal/platform"
	"github.com/reshetovitsme/posbon/internal/shared/metrics"
)

type PolicyResolver interface {
	Resolve(ctx context.Context, groupID int64) policyDomain.GroupPolicy
}

type FloodDetector interface {
	IsFlooding(ctx context.Context, userID, groupID int64, policy policyDomain.GroupPolicy) (bool, error)
}

type WarnLedger interface {
	AddWarn(ctx context.Context, userID, groupID int64, reason string) (int, error)
	ResetWarns(ctx context.Context, userID, groupID int64) error
	Get(ctx context.Context, userID, groupID int64) (warnDomain.WarnRecord, error)
}

type Punisher interface {
	Punish(ctx context.Context, groupID, userID int64, action policyDomain.Action, durationMinutes int) bool
	Pardon(ctx context.Context, groupID, userID int64) bool
	Unmute(ctx context.Context, groupID, userID int64) bool
}

type CaptchaWorkflow interface {
	Start(ctx context.Context, groupID int64, user platform.User, policy policyDomain.GroupPolicy) error
	Solve(ctx context.Context, req captchaService.SolveRequest) captchaService.Outcome
}

type GroupRegistry interface {
	Register(ctx context.Context, groupID int64, title string, ownerID int64) (groupDomain.Group, bool, error)
}

type Recorder interface {
	Record(groupID, userID int64, action auditDomain.Action, reason string)
}

type Localizer interface {
	Render(lang, key string, params map[string]any) string
}

// Deps groups the collaborators of the Orchestrator
type Deps struct {
	Client    platform.Client
	Policies  PolicyResolver
	Flood     FloodDetector
	Warns     WarnLedger
	Punisher  Punisher
	Captcha   CaptchaWorkflow
	Groups    GroupRegistry
	Recorder  Recorder
	Localizer Localizer
	// FloodMuteMinutes is how long a flooding user is muted
	FloodMuteMinutes int
}

// Orchestrator decides and carries out the moderation action for each event.
// Events are independent; it holds no lock across them.
type Orchestrator struct {
	client           platform.Client
	policies         PolicyResolver
	flood            FloodDetector
	warns            WarnLedger
	punisher         Punisher
	captcha          CaptchaWorkflow
	groups           GroupRegistry
	recorder         Recorder
	localizer        Localizer
	floodMuteMinutes int
}

func New(deps Deps) *Orchestrator {
	return &Orchestrator{
		client:           deps.Client,
		policies:         deps.Policies,
		flood:            deps.Flood,
		warns:            deps.Warns,
		punisher:         deps.Punisher,
		captcha:          deps.Captcha,
		groups:           deps.Groups,
		recorder:         deps.Recorder,
		localizer:        deps.Localizer,
		floodMuteMinutes: deps.FloodMuteMinutes,
	}
}

// Handle processes one event. Failures are logged and end in "no action".
func (o *Orchestrator) Handle(ctx context.Context, ev domain.Event) {
	start := time.Now()
	var kind string

	switch ev := ev.(type) {
	case domain.MessageEvent:
		kind = "message"
		o.handleMessage(ctx, ev)
	case domain.CommandEvent:
		kind = "command"
		o.handleCommand(ctx, ev)
	case domain.JoinEvent:
		kind = "join"
		o.handleJoin(ctx, ev)
	case domain.CallbackEvent:
		kind = "callback"
		o.handleCallback(ctx, ev)
	default:
		slog.Warn("Unhandled event", "type", fmt.Sprintf("%T", ev))
		return
	}

	metrics.EventsProcessed.WithLabelValues(kind).Inc()
	metrics.EventDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

func (o *Orchestrator) handleMessage(ctx context.Context, ev domain.MessageEvent) auditDomain.Action {
	privileged, ok := o.isPrivileged(ctx, ev.GroupID, ev.Sender.ID)
	if !ok || privileged {
		return auditDomain.ActionNone
	}
	return o.moderate(ctx, ev, o.policies.Resolve(ctx, ev.GroupID))
}

// moderate runs flood, content and media checks on a message from a
// regular member and returns the action that was recorded
func (o *Orchestrator) moderate(ctx context.Context, ev domain.MessageEvent, policy policyDomain.GroupPolicy) auditDomain.Action {
	logger := slog.With("group_id", ev.GroupID, "user_id", ev.Sender.ID)

	flooding, err := o.flood.IsFlooding(ctx, ev.Sender.ID, ev.GroupID, policy)
	if err != nil {
		logger.Warn("Flood check failed, letting message through", "error", err)
	}
	if flooding {
		return o.punishFlood(ctx, ev, policy)
	}

	verdict := rules.Evaluate(rules.Input{
		Text:      ev.Text,
		Entities:  ev.Entities,
		IsForward: ev.IsForward,
	}, policy)
	if !verdict.ShouldDelete {
		verdict = rules.CheckMedia(ev.Media, policy)
	}
	if !verdict.ShouldDelete {
		return auditDomain.ActionNone
	}

	reason := verdict.Reason.String()
	logger.Info("Message violates policy", "reason", reason)
	if o.deleteMessage(ctx, ev.GroupID, ev.MessageID) {
		o.recorder.Record(ev.GroupID, ev.Sender.ID, auditDomain.ActionDelete, reason)
	}

	return o.IssueWarn(ctx, ev.Sender, reason, policy)
}

// punishFlood deletes the message and mutes the sender without touching
// their warn count
func (o *Orchestrator) punishFlood(ctx context.Context, ev domain.MessageEvent, policy policyDomain.GroupPolicy) auditDomain.Action {
	o.deleteMessage(ctx, ev.GroupID, ev.MessageID)

	if !o.punisher.Punish(ctx, ev.GroupID, ev.Sender.ID, policyDomain.ActionMute, o.floodMuteMinutes) {
		o.recorder.Record(ev.GroupID, ev.Sender.ID, auditDomain.ActionNone, "flood_mute_failed")
		return auditDomain.ActionNone
	}

	o.recorder.Record(ev.GroupID, ev.Sender.ID, auditDomain.ActionMute, "flood")
	o.notify(ctx, policy, "flood_mute", map[string]any{
		"user":     ev.Sender.Mention(),
		"duration": o.floodMuteMinutes,
	})
	return auditDomain.ActionMute
}

// IssueWarn adds a warn for reason and escalates once the group's warn limit
// is reached. A failed escalation keeps the count so the next infraction
// retries it.
func (o *Orchestrator) IssueWarn(ctx context.Context, user platform.User, reason string, policy policyDomain.GroupPolicy) auditDomain.Action {
	groupID := policy.GroupID
	logger := slog.With("group_id", groupID, "user_id", user.ID)

	count, err := o.warns.AddWarn(ctx, user.ID, groupID, reason)
	if err != nil {
		logger.Error("Failed to add warn, skipping escalation", "error", err)
		return auditDomain.ActionNone
	}

	if count < policy.WarnLimit {
		o.recorder.Record(groupID, user.ID, auditDomain.ActionWarn, reason)
		o.notify(ctx, policy, "warn_user", map[string]any{
			"user":   user.Mention(),
			"reason": o.reasonText(policy, reason),
			"count":  count,
			"limit":  policy.WarnLimit,
		})
		return auditDomain.ActionWarn
	}

	action := policy.EscalationAction
	if !o.punisher.Punish(ctx, groupID, user.ID, action, policy.MuteDurationMinutes) {
		logger.Error("Escalation failed, keeping warn count", "action", action, "count", count)
		o.recorder.Record(groupID, user.ID, auditDomain.ActionNone, "escalation_failed")
		return auditDomain.ActionNone
	}

	if err := o.warns.ResetWarns(ctx, user.ID, groupID); err != nil {
		logger.Error("Failed to reset warns after escalation", "error", err)
	}

	recorded := toAuditAction(action)
	o.recorder.Record(groupID, user.ID, recorded, reason)
	o.notify(ctx, policy, noticeKey(action), map[string]any{
		"user":     user.Mention(),
		"duration": policy.MuteDurationMinutes,
	})
	logger.Info("Warn limit reached", "action", action, "count", count)
	return recorded
}

func (o *Orchestrator) handleJoin(ctx context.Context, ev domain.JoinEvent) {
	o.registerGroup(ctx, ev)

	policy := o.policies.Resolve(ctx, ev.GroupID)
	if !policy.CaptchaEnabled {
		return
	}
	for _, user := range ev.Members {
		if user.IsBot {
			continue
		}
		if err := o.captcha.Start(ctx, ev.GroupID, user, policy); err != nil {
			slog.Error("Failed to start captcha", "group_id", ev.GroupID, "user_id", user.ID, "error", err)
		}
	}
}

// registerGroup records the group on its first join. The first join the
// bot sees is its own, so whoever added members then becomes the owner.
func (o *Orchestrator) registerGroup(ctx context.Context, ev domain.JoinEvent) {
	var ownerID int64
	if ev.AddedBy != nil {
		ownerID = ev.AddedBy.ID
	}
	if _, _, err := o.groups.Register(ctx, ev.GroupID, ev.Title, ownerID); err != nil {
		slog.Warn("Failed to register group", "group_id", ev.GroupID, "error", err)
	}
}

func (o *Orchestrator) handleCallback(ctx context.Context, ev domain.CallbackEvent) {
	targetID, ok := captchaService.ParseCallbackData(ev.Data)
	if !ok {
		if err := o.client.AnswerCallback(ctx, ev.CallbackID, "", false); err != nil {
			slog.Debug("Failed to answer callback", "callback_id", ev.CallbackID, "error", err)
		}
		return
	}

	policy := o.policies.Resolve(ctx, ev.GroupID)
	outcome := o.captcha.Solve(ctx, captchaService.SolveRequest{
		GroupID:    ev.GroupID,
		PresserID:  ev.From.ID,
		TargetID:   targetID,
		CallbackID: ev.CallbackID,
		MessageID:  ev.MessageID,
		Language:   policy.Language.String(),
	})
	slog.Debug("Captcha button pressed", "group_id", ev.GroupID, "user_id", ev.From.ID, "outcome", outcome)
}

// isPrivileged reports whether the user is a group admin or owner. ok is
// false when the membership could not be read.
func (o *Orchestrator) isPrivileged(ctx context.Context, groupID, userID int64) (privileged, ok bool) {
	member, err := o.client.GetMember(ctx, groupID, userID)
	if err != nil {
		slog.Warn("Failed to read membership, skipping event", "group_id", groupID, "user_id", userID, "error", err)
		return false, false
	}
	return member.IsPrivileged(), true
}

func (o *Orchestrator) deleteMessage(ctx context.Context, groupID int64, messageID int) bool {
	if err := o.client.DeleteMessage(ctx, groupID, messageID); err != nil {
		slog.Error("Failed to delete message", "group_id", groupID, "message_id", messageID, "error", err)
		metrics.PunishmentFailures.WithLabelValues("delete").Inc()
		return false
	}
	return true
}

// notify posts a localized notice unless the group runs in silent mode
func (o *Orchestrator) notify(ctx context.Context, policy policyDomain.GroupPolicy, key string, params map[string]any) {
	if policy.SilentMode {
		return
	}
	o.send(ctx, policy, key, params)
}

func (o *Orchestrator) send(ctx context.Context, policy policyDomain.GroupPolicy, key string, params map[string]any) {
	text := o.localizer.Render(policy.Language.String(), key, params)
	if _, err := o.client.SendMessage(ctx, policy.GroupID, text, nil); err != nil {
		slog.Warn("Failed to send notice", "group_id", policy.GroupID, "key", key, "error", err)
	}
}

func (o *Orchestrator) reasonText(policy policyDomain.GroupPolicy, reason string) string {
	key := reason
	if r, err := rules.ParseReason(reason); err == nil {
		key = reasonKeys[r]
	}
	return o.localizer.Render(policy.Language.String(), key, nil)
}

var reasonKeys = map[rules.Reason]string{
	rules.ReasonForward: "forward_detected",
	rules.ReasonLink:    "link_detected",
	rules.ReasonBadWord: "bad_word",
	rules.ReasonMedia:   "media_detected",
}

func noticeKey(action policyDomain.Action) string {
	switch action {
	case policyDomain.ActionKick:
		return "kick_user"
	case policyDomain.ActionBan:
		return "ban_user"
	default:
		return "mute_user"
	}
}

func toAuditAction(action policyDomain.Action) auditDomain.Action {
	switch action {
	case policyDomain.ActionKick:
		return auditDomain.ActionKick
	case policyDomain.ActionBan:
		return auditDomain.ActionBan
	default:
		return auditDomain.ActionMute
	}
}
