package service

import (
	"context"
	"sync"
	"testing"
	"time"

	auditDomain "github.com/reshetovitsme/posbon/internal/modules/audit/domain"
	captchaService "github.com/reshetovitsme/posbon/internal/modules/captcha/service"
	"github.com/reshetovitsme/posbon/internal/modules/flood/countstore"
	floodService "github.com/reshetovitsme/posbon/internal/modules/flood/service"
	groupDomain "github.com/reshetovitsme/posbon/internal/modules/group/domain"
	"github.com/reshetovitsme/posbon/internal/modules/moderation/domain"
	policyDomain "github.com/reshetovitsme/posbon/internal/modules/policy/domain"
	punishService "github.com/reshetovitsme/posbon/internal/modules/punish/service"
	"github.com/reshetovitsme/posbon/internal/modules/rules"
	warnDomain "github.com/reshetovitsme/posbon/internal/modules/warn/domain"
	warnRepo "github.com/reshetovitsme/posbon/internal/modules/warn/repository"
	warnService "github.com/reshetovitsme/posbon/internal/modules/warn/service"
	"github.com/reshetovitsme/posbon/internal/platform"
	"github.com/reshetovitsme/posbon/internal/platform/platformtest"
	"github.com/reshetovitsme/posbon/internal/shared/database"
	"github.com/samber/lo"
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const groupID = int64(-100500)

var (
	spammer = platform.User{ID: 11, FirstName: "Spam"}
	admin   = platform.User{ID: 1, FirstName: "Boss"}
)

type staticPolicies struct {
	policy policyDomain.GroupPolicy
}

func (s staticPolicies) Resolve(_ context.Context, groupID int64) policyDomain.GroupPolicy {
	p := s.policy.Clone()
	p.GroupID = groupID
	return p
}

type echoLocalizer struct{}

func (echoLocalizer) Render(_, key string, _ map[string]any) string {
	return key
}

type memRecorder struct {
	mu     sync.Mutex
	events []auditDomain.ModerationEvent
}

func (r *memRecorder) Record(groupID, userID int64, action auditDomain.Action, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, auditDomain.ModerationEvent{GroupID: groupID, UserID: userID, Action: action, Reason: reason})
}

func (r *memRecorder) Actions() []auditDomain.Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	return lo.Map(r.events, func(e auditDomain.ModerationEvent, _ int) auditDomain.Action { return e.Action })
}

type fakeCaptcha struct {
	mu      sync.Mutex
	started []platform.User
	solves  []captchaService.SolveRequest
}

func (c *fakeCaptcha) Start(_ context.Context, _ int64, user platform.User, _ policyDomain.GroupPolicy) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.started = append(c.started, user)
	return nil
}

func (c *fakeCaptcha) Solve(_ context.Context, req captchaService.SolveRequest) captchaService.Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.solves = append(c.solves, req)
	return captchaService.OutcomeSolved
}

type registration struct {
	groupID int64
	title   string
	ownerID int64
}

type fakeGroups struct {
	mu    sync.Mutex
	calls []registration
	err   error
}

func (g *fakeGroups) Register(_ context.Context, groupID int64, title string, ownerID int64) (groupDomain.Group, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, registration{groupID: groupID, title: title, ownerID: ownerID})
	if g.err != nil {
		return groupDomain.Group{}, false, g.err
	}
	return groupDomain.Group{ID: groupID, Title: title, OwnerID: ownerID}, true, nil
}

type brokenLedger struct{}

func (brokenLedger) AddWarn(context.Context, int64, int64, string) (int, error) {
	return 0, oops.Errorf("database is locked")
}

func (brokenLedger) ResetWarns(context.Context, int64, int64) error {
	return oops.Errorf("database is locked")
}

func (brokenLedger) Get(context.Context, int64, int64) (warnDomain.WarnRecord, error) {
	return warnDomain.WarnRecord{}, oops.Errorf("database is locked")
}

type harness struct {
	client   *platformtest.Client
	ledger   *warnService.Ledger
	recorder *memRecorder
	captcha  *fakeCaptcha
	groups   *fakeGroups
	orch     *Orchestrator
}

func newHarness(t *testing.T, policy policyDomain.GroupPolicy) *harness {
	t.Helper()
	db, err := database.Open("sqlite://:memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	repo, err := warnRepo.NewGormStorage(db)
	require.NoError(t, err)

	h := &harness{
		client:   platformtest.New(),
		ledger:   warnService.New(repo),
		recorder: &memRecorder{},
		captcha:  &fakeCaptcha{},
		groups:   &fakeGroups{},
	}
	h.client.SetMember(groupID, platform.Member{UserID: admin.ID, Status: platform.MemberStatusAdministrator, CanSendMessages: true})
	h.orch = h.build(policy, h.ledger)
	return h
}

func (h *harness) build(policy policyDomain.GroupPolicy, ledger WarnLedger) *Orchestrator {
	return New(Deps{
		Client:           h.client,
		Policies:         staticPolicies{policy: policy},
		Flood:            floodService.NewDetector(countstore.NewMemCountStore()),
		Warns:            ledger,
		Punisher:         punishService.NewExecutor(h.client),
		Captcha:          h.captcha,
		Groups:           h.groups,
		Recorder:         h.recorder,
		Localizer:        echoLocalizer{},
		FloodMuteMinutes: 5,
	})
}

func (h *harness) warnCount(t *testing.T, userID int64) int {
	t.Helper()
	record, err := h.ledger.Get(context.Background(), userID, groupID)
	require.NoError(t, err)
	return record.Count
}

func (h *harness) sentTexts() []string {
	return lo.Map(h.client.Calls("SendMessage"), func(c platformtest.Call, _ int) string { return c.Text })
}

func linkMessage(id int) domain.MessageEvent {
	return domain.MessageEvent{
		GroupID:   groupID,
		MessageID: id,
		Sender:    spammer,
		Text:      lo.ToPtr("visit https://spam.example"),
	}
}

func escalationPolicy() policyDomain.GroupPolicy {
	p := policyDomain.DefaultPolicy(groupID)
	p.DeleteLinks = true
	p.WarnLimit = 3
	p.EscalationAction = policyDomain.ActionMute
	p.MuteDurationMinutes = 10
	p.AntiSpamEnabled = false
	return p
}

func TestLinkWarnsEscalateAndReset(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, escalationPolicy())

	for i := 1; i <= 2; i++ {
		h.orch.Handle(ctx, linkMessage(i))
		assert.Equal(t, i, h.warnCount(t, spammer.ID))
	}
	assert.Empty(t, h.client.Calls("RestrictMember"))

	before := time.Now()
	h.orch.Handle(ctx, linkMessage(3))

	restricts := h.client.Calls("RestrictMember")
	require.Len(t, restricts, 1)
	assert.Equal(t, platform.MutedPermissions, restricts[0].Perms)
	assert.WithinDuration(t, before.Add(10*time.Minute), restricts[0].Until, 5*time.Second)
	assert.Equal(t, 0, h.warnCount(t, spammer.ID))

	h.orch.Handle(ctx, linkMessage(4))
	assert.Equal(t, 1, h.warnCount(t, spammer.ID))

	assert.Len(t, h.client.Calls("DeleteMessage"), 4)
	assert.Equal(t, []auditDomain.Action{
		auditDomain.ActionDelete, auditDomain.ActionWarn,
		auditDomain.ActionDelete, auditDomain.ActionWarn,
		auditDomain.ActionDelete, auditDomain.ActionMute,
		auditDomain.ActionDelete, auditDomain.ActionWarn,
	}, h.recorder.Actions())
	assert.Equal(t, []string{"warn_user", "warn_user", "mute_user", "warn_user"}, h.sentTexts())
}

func TestAdminsAreNotModerated(t *testing.T) {
	h := newHarness(t, escalationPolicy())

	ev := linkMessage(1)
	ev.Sender = admin
	h.orch.Handle(context.Background(), ev)

	assert.Len(t, h.client.Calls(), 1, "only the membership lookup")
	assert.Empty(t, h.recorder.Actions())
}

func TestMembershipLookupFailureSkipsEvent(t *testing.T) {
	h := newHarness(t, escalationPolicy())
	h.client.FailOn("GetMember", platformtest.ErrUnavailable)

	h.orch.Handle(context.Background(), linkMessage(1))

	assert.Empty(t, h.client.Calls("DeleteMessage"))
	assert.Equal(t, 0, h.warnCount(t, spammer.ID))
}

func TestFloodMutesWithoutWarns(t *testing.T) {
	ctx := context.Background()
	policy := escalationPolicy()
	policy.AntiSpamEnabled = true
	policy.FloodThreshold = 2
	policy.FloodWindowSeconds = 60
	h := newHarness(t, policy)

	for i := 1; i <= 3; i++ {
		h.orch.Handle(ctx, domain.MessageEvent{
			GroupID:   groupID,
			MessageID: i,
			Sender:    spammer,
			Text:      lo.ToPtr("hello"),
		})
	}

	deletes := h.client.Calls("DeleteMessage")
	require.Len(t, deletes, 1)
	assert.Equal(t, 3, deletes[0].MessageID)
	restricts := h.client.Calls("RestrictMember")
	require.Len(t, restricts, 1)
	assert.Equal(t, platform.MutedPermissions, restricts[0].Perms)
	assert.Equal(t, 0, h.warnCount(t, spammer.ID))
	assert.Equal(t, []auditDomain.Action{auditDomain.ActionMute}, h.recorder.Actions())
	assert.Equal(t, []string{"flood_mute"}, h.sentTexts())
}

func TestFailedEscalationKeepsCount(t *testing.T) {
	ctx := context.Background()
	policy := escalationPolicy()
	policy.WarnLimit = 1
	h := newHarness(t, policy)
	h.client.FailOn("RestrictMember", platformtest.ErrUnavailable)

	h.orch.Handle(ctx, linkMessage(1))
	assert.Equal(t, 1, h.warnCount(t, spammer.ID))
	assert.Equal(t, []auditDomain.Action{auditDomain.ActionDelete, auditDomain.ActionNone}, h.recorder.Actions())
	assert.Empty(t, h.sentTexts())

	// the next infraction retries the escalation
	h.client.FailOn("RestrictMember", nil)
	h.orch.Handle(ctx, linkMessage(2))
	assert.Len(t, h.client.Calls("RestrictMember"), 2)
	assert.Equal(t, 0, h.warnCount(t, spammer.ID))
}

func TestWarnStoreFailureSkipsEscalation(t *testing.T) {
	policy := escalationPolicy()
	policy.WarnLimit = 1
	h := newHarness(t, policy)
	orch := h.build(policy, brokenLedger{})

	orch.Handle(context.Background(), linkMessage(1))

	assert.Len(t, h.client.Calls("DeleteMessage"), 1)
	assert.Empty(t, h.client.Calls("RestrictMember", "BanMember"))
	assert.Equal(t, []auditDomain.Action{auditDomain.ActionDelete}, h.recorder.Actions())
}

func TestBanEscalation(t *testing.T) {
	policy := escalationPolicy()
	policy.WarnLimit = 1
	policy.EscalationAction = policyDomain.ActionBan
	h := newHarness(t, policy)

	h.orch.Handle(context.Background(), linkMessage(1))

	assert.Len(t, h.client.Calls("BanMember"), 1)
	assert.Empty(t, h.client.Calls("UnbanMember"))
	assert.Equal(t, []string{"ban_user"}, h.sentTexts())
}

func TestSilentModeSuppressesNotices(t *testing.T) {
	policy := escalationPolicy()
	policy.SilentMode = true
	h := newHarness(t, policy)

	h.orch.Handle(context.Background(), linkMessage(1))

	assert.Len(t, h.client.Calls("DeleteMessage"), 1)
	assert.Empty(t, h.client.Calls("SendMessage"))
	assert.Equal(t, 1, h.warnCount(t, spammer.ID))
}

func TestCleanMessageIsLeftAlone(t *testing.T) {
	h := newHarness(t, escalationPolicy())

	h.orch.Handle(context.Background(), domain.MessageEvent{
		GroupID: groupID, MessageID: 1, Sender: spammer, Text: lo.ToPtr("good morning"),
	})

	assert.Len(t, h.client.Calls(), 1)
	assert.Empty(t, h.recorder.Actions())
}

func TestDisallowedMediaIsDeleted(t *testing.T) {
	policy := escalationPolicy()
	policy.AllowStickers = false
	h := newHarness(t, policy)

	h.orch.Handle(context.Background(), domain.MessageEvent{
		GroupID: groupID, MessageID: 9, Sender: spammer, Media: rules.MediaKindSticker,
	})

	assert.Len(t, h.client.Calls("DeleteMessage"), 1)
	record, err := h.ledger.Get(context.Background(), spammer.ID, groupID)
	require.NoError(t, err)
	assert.Equal(t, "media", record.Reason)
}

func TestJoinStartsCaptchaForHumans(t *testing.T) {
	policy := escalationPolicy()
	policy.CaptchaEnabled = true
	h := newHarness(t, policy)

	h.orch.Handle(context.Background(), domain.JoinEvent{
		GroupID: groupID,
		Members: []platform.User{{ID: 50}, {ID: 51, IsBot: true}, {ID: 52}},
	})

	ids := lo.Map(h.captcha.started, func(u platform.User, _ int) int64 { return u.ID })
	assert.Equal(t, []int64{50, 52}, ids)
}

func TestJoinRegistersGroupWithAdder(t *testing.T) {
	policy := escalationPolicy()
	policy.CaptchaEnabled = true
	h := newHarness(t, policy)
	owner := platform.User{ID: 3, FirstName: "Owner"}

	h.orch.Handle(context.Background(), domain.JoinEvent{
		GroupID: groupID,
		Title:   "Chess club",
		Members: []platform.User{{ID: 900, IsBot: true}},
		AddedBy: &owner,
	})

	require.Len(t, h.groups.calls, 1)
	assert.Equal(t, registration{groupID: groupID, title: "Chess club", ownerID: 3}, h.groups.calls[0])
	assert.Empty(t, h.captcha.started)
}

func TestJoinProceedsWhenRegistryFails(t *testing.T) {
	policy := escalationPolicy()
	policy.CaptchaEnabled = true
	h := newHarness(t, policy)
	h.groups.err = oops.Errorf("database is locked")

	h.orch.Handle(context.Background(), domain.JoinEvent{GroupID: groupID, Members: []platform.User{{ID: 50}}})

	require.Len(t, h.groups.calls, 1)
	assert.Zero(t, h.groups.calls[0].ownerID)
	assert.Len(t, h.captcha.started, 1)
}

func TestJoinWithoutCaptcha(t *testing.T) {
	h := newHarness(t, escalationPolicy())

	h.orch.Handle(context.Background(), domain.JoinEvent{GroupID: groupID, Members: []platform.User{{ID: 50}}})
	assert.Empty(t, h.captcha.started)
}

func TestCallbackRouting(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, escalationPolicy())

	h.orch.Handle(ctx, domain.CallbackEvent{
		GroupID: groupID, From: platform.User{ID: 50}, CallbackID: "cb1", Data: "captcha:50", MessageID: 3,
	})
	require.Len(t, h.captcha.solves, 1)
	assert.Equal(t, int64(50), h.captcha.solves[0].TargetID)
	assert.Equal(t, int64(50), h.captcha.solves[0].PresserID)
	assert.Equal(t, "uz", h.captcha.solves[0].Language)

	h.orch.Handle(ctx, domain.CallbackEvent{GroupID: groupID, From: platform.User{ID: 50}, CallbackID: "cb2", Data: "other"})
	assert.Len(t, h.captcha.solves, 1)
	assert.Len(t, h.client.Calls("AnswerCallback"), 1)
}

func command(sender platform.User, cmd, args string, target *platform.User) domain.CommandEvent {
	text := "/" + cmd
	if args != "" {
		text += " " + args
	}
	return domain.CommandEvent{
		MessageEvent: domain.MessageEvent{GroupID: groupID, MessageID: 77, Sender: sender, Text: lo.ToPtr(text)},
		Command:      cmd,
		Args:         args,
		Target:       target,
	}
}

func TestCommandFromMemberIsRefused(t *testing.T) {
	h := newHarness(t, escalationPolicy())

	h.orch.Handle(context.Background(), command(spammer, "ban", "", &platform.User{ID: 99}))

	assert.Empty(t, h.client.Calls("BanMember"))
	assert.Equal(t, []string{"error_no_permission"}, h.sentTexts())
}

func TestAdminCommands(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, escalationPolicy())
	target := &platform.User{ID: 99, FirstName: "Target"}

	h.orch.Handle(ctx, command(admin, "ban", "", target))
	assert.Len(t, h.client.Calls("BanMember"), 1)

	h.orch.Handle(ctx, command(admin, "unban", "", target))
	assert.Len(t, h.client.Calls("UnbanMember"), 1)

	before := time.Now()
	h.orch.Handle(ctx, command(admin, "mute", "15", target))
	restricts := h.client.Calls("RestrictMember")
	require.Len(t, restricts, 1)
	assert.WithinDuration(t, before.Add(15*time.Minute), restricts[0].Until, 5*time.Second)

	h.orch.Handle(ctx, command(admin, "unmute", "", target))
	restricts = h.client.Calls("RestrictMember")
	require.Len(t, restricts, 2)
	assert.Equal(t, platform.DefaultPermissions, restricts[1].Perms)

	h.orch.Handle(ctx, command(admin, "warn", "spamming", target))
	record, err := h.ledger.Get(ctx, target.ID, groupID)
	require.NoError(t, err)
	assert.Equal(t, 1, record.Count)
	assert.Equal(t, "spamming", record.Reason)

	h.orch.Handle(ctx, command(admin, "resetwarns", "", target))
	assert.Equal(t, 0, h.warnCount(t, target.ID))

	h.orch.Handle(ctx, command(admin, "settings", "", nil))
	h.orch.Handle(ctx, command(admin, "ban", "", nil))

	assert.Equal(t, []string{
		"ban_user", "unban_user", "mute_user", "unmute_user", "warn_user", "warns_reset", "settings", "reply_required",
	}, h.sentTexts())
	assert.Equal(t, []auditDomain.Action{
		auditDomain.ActionBan, auditDomain.ActionUnban, auditDomain.ActionMute, auditDomain.ActionUnmute, auditDomain.ActionWarn,
	}, h.recorder.Actions())
}

func TestMuteCommandDefaultsToPolicyDuration(t *testing.T) {
	assert.Equal(t, 60, parseMinutes("", 60))
	assert.Equal(t, 60, parseMinutes("soon", 60))
	assert.Equal(t, 60, parseMinutes("-5", 60))
	assert.Equal(t, 30, parseMinutes("30 because", 60))
}

func TestConcurrentEventsCountEveryWarn(t *testing.T) {
	policy := escalationPolicy()
	policy.WarnLimit = 100
	h := newHarness(t, policy)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h.orch.Handle(context.Background(), linkMessage(i))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 8, h.warnCount(t, spammer.ID))
}
