package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	auditDomain "github.com/reshetovitsme/posbon/internal/modules/audit/domain"
	"github.com/reshetovitsme/posbon/internal/modules/captcha/domain"
	policyDomain "github.com/reshetovitsme/posbon/internal/modules/policy/domain"
	"github.com/reshetovitsme/posbon/internal/platform"
	"github.com/reshetovitsme/posbon/internal/shared/metrics"
	"github.com/samber/oops"
)

// CallbackPrefix starts the button data of every captcha prompt
const CallbackPrefix = "captcha:"

const expiryCallTimeout = 30 * time.Second

// restrictionGrace keeps the captcha restriction alive a little past the
// deadline so the platform lifts it on its own if the expiry never runs
const restrictionGrace = 10 * time.Minute

// CallbackData is the button payload addressed to userID
func CallbackData(userID int64) string {
	return CallbackPrefix + strconv.FormatInt(userID, 10)
}

// ParseCallbackData extracts the addressed user id from button data
func ParseCallbackData(data string) (int64, bool) {
	rest, ok := strings.CutPrefix(data, CallbackPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Scheduler runs f once after d unless the returned timer is stopped first
type Scheduler func(d time.Duration, f func()) domain.Timer

func afterFunc(d time.Duration, f func()) domain.Timer {
	return time.AfterFunc(d, f)
}

type Punisher interface {
	Punish(ctx context.Context, groupID, userID int64, action policyDomain.Action, durationMinutes int) bool
}

type Localizer interface {
	Render(lang, key string, params map[string]any) string
}

type Recorder interface {
	Record(groupID, userID int64, action auditDomain.Action, reason string)
}

// Outcome is the result of a button press
type Outcome string

const (
	OutcomeSolved   Outcome = "solved"
	OutcomeNotOwner Outcome = "not_owner"
	OutcomeUnknown  Outcome = "unknown"
	OutcomeRaceLost Outcome = "race_lost"
	// OutcomeRecovered is a press on a prompt whose challenge was lost, for
	// example across a restart, by a user who is still restricted
	OutcomeRecovered Outcome = "recovered"
)

// SolveRequest describes a press of a captcha button
type SolveRequest struct {
	GroupID    int64
	PresserID  int64
	TargetID   int64
	CallbackID string
	MessageID  int
	Language   string
}

// Workflow runs one challenge per (group, user) until it is solved or its
// deadline passes
type Workflow struct {
	client     platform.Client
	punisher   Punisher
	localizer  Localizer
	recorder   Recorder
	challenges *xsync.MapOf[domain.Key, *domain.Challenge]
	schedule   Scheduler
	now        func() time.Time
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewWorkflow(client platform.Client, punisher Punisher, localizer Localizer, recorder Recorder) *Workflow {
	return NewWorkflowWithScheduler(client, punisher, localizer, recorder, afterFunc)
}

// NewWorkflowWithScheduler lets tests fire deadlines by hand
func NewWorkflowWithScheduler(client platform.Client, punisher Punisher, localizer Localizer, recorder Recorder, schedule Scheduler) *Workflow {
	ctx, cancel := context.WithCancel(context.Background())
	return &Workflow{
		client:     client,
		punisher:   punisher,
		localizer:  localizer,
		recorder:   recorder,
		challenges: xsync.NewMapOf[domain.Key, *domain.Challenge](),
		schedule:   schedule,
		now:        time.Now,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Stop cancels every pending deadline and the calls of expiries in flight
func (w *Workflow) Stop() {
	w.cancel()
	w.challenges.Range(func(_ domain.Key, ch *domain.Challenge) bool {
		if ch.TryTransition(domain.StatusExpired) {
			w.remove(ch)
		}
		return true
	})
}

// Pending returns the live challenge of the user, if any
func (w *Workflow) Pending(groupID, userID int64) (*domain.Challenge, bool) {
	return w.challenges.Load(domain.Key{GroupID: groupID, UserID: userID})
}

// Start restricts a newly joined user and posts the challenge prompt.
// Bots and groups without captcha are ignored. A user who joins again while
// a challenge is pending gets a fresh challenge; the old one ends without
// punishment.
func (w *Workflow) Start(ctx context.Context, groupID int64, user platform.User, policy policyDomain.GroupPolicy) error {
	if user.IsBot || !policy.CaptchaEnabled {
		return nil
	}
	key := domain.Key{GroupID: groupID, UserID: user.ID}
	logger := slog.With("group_id", groupID, "user_id", user.ID)

	timeout := policy.CaptchaTimeout()
	deadline := w.now().Add(timeout)

	if err := w.client.RestrictMember(ctx, groupID, user.ID, platform.MutedPermissions, deadline.Add(restrictionGrace)); err != nil {
		return oops.With("group_id", groupID, "user_id", user.ID, "context", "failed to restrict new member").Wrap(err)
	}

	ch := domain.NewChallenge(key, deadline, policy.CaptchaFailAction)

	if old, loaded := w.challenges.LoadAndStore(key, ch); loaded && old.TryTransition(domain.StatusExpired) {
		logger.Info("Captcha superseded by rejoin")
		metrics.CaptchaOutcomes.WithLabelValues("superseded").Inc()
		w.deletePrompt(ctx, groupID, old.PromptMessageID())
	}

	lang := policy.Language.String()
	text := w.localizer.Render(lang, "captcha_prompt", map[string]any{
		"user":    user.Mention(),
		"seconds": policy.CaptchaTimeoutSeconds,
	})
	button := &platform.Button{
		Text: w.localizer.Render(lang, "captcha_btn", nil),
		Data: CallbackData(user.ID),
	}

	messageID, err := w.client.SendMessage(ctx, groupID, text, button)
	if err != nil {
		// without a prompt the user could never pass, so let them in
		if ch.TryTransition(domain.StatusExpired) {
			w.remove(ch)
			if rerr := w.client.RestrictMember(ctx, groupID, user.ID, platform.DefaultPermissions, time.Time{}); rerr != nil {
				logger.Error("Failed to lift captcha restriction", "error", rerr)
			}
		}
		return oops.With("group_id", groupID, "user_id", user.ID, "context", "failed to send captcha prompt").Wrap(err)
	}
	ch.SetPrompt(messageID)
	ch.Arm(w.schedule(timeout, func() { w.expire(ch) }))

	metrics.CaptchaOutcomes.WithLabelValues("started").Inc()
	logger.Info("Captcha started", "timeout", timeout)
	return nil
}

// Solve handles a press of a captcha button. Only the addressed user can
// solve; anyone else gets an alert and the challenge stays pending.
func (w *Workflow) Solve(ctx context.Context, req SolveRequest) Outcome {
	if req.PresserID != req.TargetID {
		w.answer(ctx, req.CallbackID, w.localizer.Render(req.Language, "captcha_not_yours", nil), true)
		return OutcomeNotOwner
	}

	ch, ok := w.challenges.Load(domain.Key{GroupID: req.GroupID, UserID: req.TargetID})
	if !ok {
		return w.solveOrphaned(ctx, req)
	}
	if !ch.TryTransition(domain.StatusSolved) {
		w.answer(ctx, req.CallbackID, "", false)
		return OutcomeRaceLost
	}
	w.remove(ch)

	if err := w.client.RestrictMember(ctx, req.GroupID, req.TargetID, platform.DefaultPermissions, time.Time{}); err != nil {
		slog.Error("Failed to restore permissions after captcha", "group_id", req.GroupID, "user_id", req.TargetID, "error", err)
	}

	promptID := ch.PromptMessageID()
	if promptID == 0 {
		promptID = req.MessageID
	}
	w.deletePrompt(ctx, req.GroupID, promptID)
	w.answer(ctx, req.CallbackID, w.localizer.Render(req.Language, "captcha_welcome", nil), false)

	metrics.CaptchaOutcomes.WithLabelValues("solved").Inc()
	slog.Info("Captcha solved", "group_id", req.GroupID, "user_id", req.TargetID)
	return OutcomeSolved
}

// solveOrphaned handles a press by the addressed user when no challenge is
// registered. A user who is still restricted lost the challenge with a
// previous process and is let in.
func (w *Workflow) solveOrphaned(ctx context.Context, req SolveRequest) Outcome {
	member, err := w.client.GetMember(ctx, req.GroupID, req.TargetID)
	if err != nil || !member.IsRestricted() {
		if err != nil {
			slog.Warn("Failed to read member for orphaned captcha", "group_id", req.GroupID, "user_id", req.TargetID, "error", err)
		}
		w.answer(ctx, req.CallbackID, "", false)
		return OutcomeUnknown
	}

	if err := w.client.RestrictMember(ctx, req.GroupID, req.TargetID, platform.DefaultPermissions, time.Time{}); err != nil {
		slog.Error("Failed to restore permissions for orphaned captcha", "group_id", req.GroupID, "user_id", req.TargetID, "error", err)
		w.answer(ctx, req.CallbackID, "", false)
		return OutcomeUnknown
	}
	w.deletePrompt(ctx, req.GroupID, req.MessageID)
	w.answer(ctx, req.CallbackID, w.localizer.Render(req.Language, "captcha_welcome", nil), false)

	metrics.CaptchaOutcomes.WithLabelValues("recovered").Inc()
	slog.Info("Orphaned captcha solved", "group_id", req.GroupID, "user_id", req.TargetID)
	return OutcomeRecovered
}

func (w *Workflow) expire(ch *domain.Challenge) {
	if !ch.TryTransition(domain.StatusExpired) {
		return
	}
	w.remove(ch)

	ctx, cancel := context.WithTimeout(w.ctx, expiryCallTimeout)
	defer cancel()

	groupID, userID := ch.Key.GroupID, ch.Key.UserID
	logger := slog.With("group_id", groupID, "user_id", userID)
	metrics.CaptchaOutcomes.WithLabelValues("expired").Inc()

	member, err := w.client.GetMember(ctx, groupID, userID)
	switch {
	case err != nil:
		logger.Error("Captcha expired but member status is unknown, not removing", "error", err)
	case !member.IsRestricted():
		logger.Info("Captcha expired for a member who is no longer restricted")
	default:
		if w.punisher.Punish(ctx, groupID, userID, ch.FailAction, 0) {
			w.recorder.Record(groupID, userID, auditAction(ch.FailAction), "captcha_timeout")
			logger.Info("Captcha expired, member removed", "action", ch.FailAction)
		}
	}

	w.deletePrompt(ctx, groupID, ch.PromptMessageID())
}

// remove drops ch from the registry unless a newer challenge replaced it
func (w *Workflow) remove(ch *domain.Challenge) {
	w.challenges.Compute(ch.Key, func(old *domain.Challenge, loaded bool) (*domain.Challenge, bool) {
		return old, !loaded || old == ch
	})
}

func (w *Workflow) deletePrompt(ctx context.Context, groupID int64, messageID int) {
	if messageID == 0 {
		return
	}
	if err := w.client.DeleteMessage(ctx, groupID, messageID); err != nil {
		slog.Warn("Failed to delete captcha prompt", "group_id", groupID, "message_id", messageID, "error", err)
	}
}

func (w *Workflow) answer(ctx context.Context, callbackID, text string, alert bool) {
	if err := w.client.AnswerCallback(ctx, callbackID, text, alert); err != nil {
		slog.Debug("Failed to answer callback", "callback_id", callbackID, "error", err)
	}
}

func auditAction(a policyDomain.Action) auditDomain.Action {
	action, err := auditDomain.ParseAction(a.String())
	if err != nil {
		return auditDomain.ActionNone
	}
	return action
}
