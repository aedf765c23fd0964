package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/reshetovitsme/posbon/internal/modules/policy/domain"
	"github.com/reshetovitsme/posbon/internal/platform"
	"github.com/reshetovitsme/posbon/internal/shared/metrics"
)

// Executor turns an abstract punishment into platform calls. It does not
// retry; a false result means the punishment was not confirmed.
type Executor struct {
	client platform.Client
	now    func() time.Time
}

func NewExecutor(client platform.Client) *Executor {
	return &Executor{client: client, now: time.Now}
}

// Punish applies action to the user. durationMinutes is only used by mute.
// Kick is a ban followed by an unban so the user can join again later.
func (e *Executor) Punish(ctx context.Context, groupID, userID int64, action domain.Action, durationMinutes int) bool {
	logger := slog.With("group_id", groupID, "user_id", userID, "action", action)

	var err error
	switch action {
	case domain.ActionMute:
		until := e.now().Add(time.Duration(durationMinutes) * time.Minute)
		err = e.client.RestrictMember(ctx, groupID, userID, platform.MutedPermissions, until)
	case domain.ActionKick:
		if err = e.client.BanMember(ctx, groupID, userID); err == nil {
			err = e.client.UnbanMember(ctx, groupID, userID)
		}
	case domain.ActionBan:
		err = e.client.BanMember(ctx, groupID, userID)
	default:
		logger.Error("Unknown punishment")
		return false
	}

	if err != nil {
		logger.Error("Punishment failed", "error", err)
		metrics.PunishmentFailures.WithLabelValues(action.String()).Inc()
		return false
	}
	return true
}

// Pardon lifts a ban
func (e *Executor) Pardon(ctx context.Context, groupID, userID int64) bool {
	if err := e.client.UnbanMember(ctx, groupID, userID); err != nil {
		slog.Error("Unban failed", "group_id", groupID, "user_id", userID, "error", err)
		metrics.PunishmentFailures.WithLabelValues("unban").Inc()
		return false
	}
	return true
}

// Unmute restores the default member permissions
func (e *Executor) Unmute(ctx context.Context, groupID, userID int64) bool {
	if err := e.client.RestrictMember(ctx, groupID, userID, platform.DefaultPermissions, time.Time{}); err != nil {
		slog.Error("Unmute failed", "group_id", groupID, "user_id", userID, "error", err)
		metrics.PunishmentFailures.WithLabelValues("unmute").Inc()
		return false
	}
	return true
}
