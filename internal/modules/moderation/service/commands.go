package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	auditDomain "github.com/reshetovitsme/posbon/internal/modules/audit/domain"
	"github.com/reshetovitsme/posbon/internal/modules/moderation/domain"
	policyDomain "github.com/reshetovitsme/posbon/internal/modules/policy/domain"
)

const adminReason = "admin"

// handleCommand runs a group admin command. Commands from regular members
// are moderated like any other message and answered with a refusal.
func (o *Orchestrator) handleCommand(ctx context.Context, ev domain.CommandEvent) {
	privileged, ok := o.isPrivileged(ctx, ev.GroupID, ev.Sender.ID)
	if !ok {
		return
	}
	policy := o.policies.Resolve(ctx, ev.GroupID)

	if !privileged {
		if o.moderate(ctx, ev.MessageEvent, policy) == auditDomain.ActionNone {
			o.send(ctx, policy, "error_no_permission", nil)
		}
		return
	}

	logger := slog.With("group_id", ev.GroupID, "admin_id", ev.Sender.ID, "command", ev.Command)

	if ev.Command == "settings" {
		o.send(ctx, policy, "settings", map[string]any{"policy": policy})
		return
	}
	if !isTargetCommand(ev.Command) {
		return
	}
	if ev.Target == nil {
		o.send(ctx, policy, "reply_required", nil)
		return
	}

	target := *ev.Target
	params := map[string]any{"user": target.Mention()}

	switch ev.Command {
	case "ban":
		if !o.punisher.Punish(ctx, ev.GroupID, target.ID, policyDomain.ActionBan, 0) {
			o.send(ctx, policy, "action_failed", nil)
			return
		}
		o.recorder.Record(ev.GroupID, target.ID, auditDomain.ActionBan, adminReason)
		o.send(ctx, policy, "ban_user", params)

	case "unban":
		if !o.punisher.Pardon(ctx, ev.GroupID, target.ID) {
			o.send(ctx, policy, "action_failed", nil)
			return
		}
		o.recorder.Record(ev.GroupID, target.ID, auditDomain.ActionUnban, adminReason)
		o.send(ctx, policy, "unban_user", params)

	case "mute":
		minutes := parseMinutes(ev.Args, policy.MuteDurationMinutes)
		if !o.punisher.Punish(ctx, ev.GroupID, target.ID, policyDomain.ActionMute, minutes) {
			o.send(ctx, policy, "action_failed", nil)
			return
		}
		o.recorder.Record(ev.GroupID, target.ID, auditDomain.ActionMute, adminReason)
		params["duration"] = minutes
		o.send(ctx, policy, "mute_user", params)

	case "unmute":
		if !o.punisher.Unmute(ctx, ev.GroupID, target.ID) {
			o.send(ctx, policy, "action_failed", nil)
			return
		}
		o.recorder.Record(ev.GroupID, target.ID, auditDomain.ActionUnmute, adminReason)
		o.send(ctx, policy, "unmute_user", params)

	case "warn":
		reason := strings.TrimSpace(ev.Args)
		if reason == "" {
			reason = "manual_warn"
		}
		o.IssueWarn(ctx, target, reason, policy)

	case "warns":
		record, err := o.warns.Get(ctx, target.ID, ev.GroupID)
		if err != nil {
			logger.Error("Failed to read warns", "user_id", target.ID, "error", err)
			o.send(ctx, policy, "action_failed", nil)
			return
		}
		params["count"] = record.Count
		params["limit"] = policy.WarnLimit
		o.send(ctx, policy, "warns_status", params)

	case "resetwarns":
		if err := o.warns.ResetWarns(ctx, target.ID, ev.GroupID); err != nil {
			logger.Error("Failed to reset warns", "user_id", target.ID, "error", err)
			o.send(ctx, policy, "action_failed", nil)
			return
		}
		o.send(ctx, policy, "warns_reset", params)
	}

	logger.Info("Admin command executed", "user_id", target.ID)
}

func isTargetCommand(cmd string) bool {
	switch cmd {
	case "ban", "unban", "mute", "unmute", "warn", "warns", "resetwarns":
		return true
	}
	return false
}

// parseMinutes reads a positive minute count from the first argument
func parseMinutes(args string, fallback int) int {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return fallback
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
