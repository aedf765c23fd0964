package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	auditDomain "github.com/reshetovitsme/posbon/internal/modules/audit/domain"
	auditRepo "github.com/reshetovitsme/posbon/internal/modules/audit/repository"
	auditService "github.com/reshetovitsme/posbon/internal/modules/audit/service"
	groupRepo "github.com/reshetovitsme/posbon/internal/modules/group/repository"
	groupService "github.com/reshetovitsme/posbon/internal/modules/group/service"
	policyDomain "github.com/reshetovitsme/posbon/internal/modules/policy/domain"
	policyRepo "github.com/reshetovitsme/posbon/internal/modules/policy/repository"
	policyService "github.com/reshetovitsme/posbon/internal/modules/policy/service"
	"github.com/reshetovitsme/posbon/internal/shared/config"
	"github.com/reshetovitsme/posbon/internal/shared/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "s3cret"

type testServer struct {
	handler http.Handler
	audit   *auditRepo.GormStorage
	token   string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithToken(t, testToken)
}

func newTestServerWithToken(t *testing.T, token string) *testServer {
	t.Helper()
	db, err := database.Open("sqlite://:memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	policies, err := policyRepo.NewGormStorage(db)
	require.NoError(t, err)
	audit, err := auditRepo.NewGormStorage(db)
	require.NoError(t, err)
	groups, err := groupRepo.NewGormStorage(db)
	require.NoError(t, err)

	srv := New(&config.Config{HTTPPort: "0", AdminToken: token},
		policyService.New(policyRepo.NewCachedRepository(policies, 16, time.Minute)),
		groupService.New(groups),
		auditService.NewFeedService(audit))
	return &testServer{handler: srv.Handler(), audit: audit, token: token}
}

// do sends an authorized request
func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+s.token)
	return s.serve(req)
}

func (s *testServer) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := newTestServer(t).do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGetSettingsReturnsDefaults(t *testing.T) {
	rec := newTestServer(t).do(http.MethodGet, "/api/groups/-100123/settings", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var policy policyDomain.GroupPolicy
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &policy))
	assert.Equal(t, policyDomain.DefaultPolicy(-100123).WarnLimit, policy.WarnLimit)
	assert.Equal(t, int64(-100123), policy.GroupID)
}

func TestUpdateSettingsPatchesOnlyGivenFields(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodPost, "/api/groups/-100123/settings", `{"warnLimit": 5, "forbiddenWords": ["Spam", "spam", " scam "]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/groups/-100123/settings", "")
	var policy policyDomain.GroupPolicy
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &policy))
	assert.Equal(t, 5, policy.WarnLimit)
	assert.Equal(t, []string{"spam", "scam"}, policy.ForbiddenWords)
	assert.Equal(t, policyDomain.DefaultPolicy(-100123).DeleteLinks, policy.DeleteLinks)
}

func TestUpdateSettingsRejectsInvalidValues(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodPost, "/api/groups/-100123/settings", `{"warnLimit": 0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/groups/-100123/settings", `{"actionOnLimit": "explode"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/groups/-100123/settings", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBadGroupID(t *testing.T) {
	rec := newTestServer(t).do(http.MethodGet, "/api/groups/abc/settings", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRSSFeed(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.audit.SaveEvent(context.Background(), &auditDomain.ModerationEvent{
		GroupID:   -100123,
		UserID:    7,
		Action:    auditDomain.ActionBan,
		Reason:    "warn_limit",
		Timestamp: time.Now(),
	}))

	rec := s.do(http.MethodGet, "/rss/-100123", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/rss+xml")
	assert.Contains(t, rec.Body.String(), "<rss")
	assert.Contains(t, rec.Body.String(), "warn_limit")
}

func TestMetricsEndpoint(t *testing.T) {
	rec := newTestServer(t).do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/groups/-100123/settings", "/api/groups?userId=1", "/rss/-100123"} {
		t.Run(path, func(t *testing.T) {
			rec := s.serve(httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			req := httptest.NewRequest(http.MethodGet, path, nil)
			req.Header.Set("Authorization", "Bearer wrong")
			assert.Equal(t, http.StatusUnauthorized, s.serve(req).Code)
		})
	}

	rec := s.serve(httptest.NewRequest(http.MethodPost, "/api/groups/-100123/settings", strings.NewReader(`{"warnLimit": 9}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/api/groups/-100123/settings", "")
	var policy policyDomain.GroupPolicy
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &policy))
	assert.NotEqual(t, 9, policy.WarnLimit)
}

func TestFeedAcceptsTokenQuery(t *testing.T) {
	s := newTestServer(t)
	rec := s.serve(httptest.NewRequest(http.MethodGet, "/rss/-100123?token="+testToken, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminRoutesDisabledWithoutToken(t *testing.T) {
	s := newTestServerWithToken(t, "")

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/groups/-100123/settings", "").Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/rss/-100123", "").Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/health", "").Code)
}

func TestCreateAndListGroups(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/groups", `{"groupId": -100500, "title": "Chess club", "ownerId": 42}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		Status string    `json:"status"`
		Group  groupView `json:"group"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "created", created.Status)
	assert.Equal(t, "-100500", created.Group.ID)
	assert.Equal(t, int64(-100500), created.Group.TelegramID)
	assert.NotNil(t, created.Group.CreatedAt)

	rec = s.do(http.MethodPost, "/api/groups", `{"groupId": -100500, "title": "Renamed", "ownerId": 7}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "exists", created.Status)
	assert.Equal(t, int64(42), created.Group.OwnerID)
	assert.Equal(t, "Chess club", created.Group.Title)

	rec = s.do(http.MethodGet, "/api/groups?userId=42", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []groupView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "Chess club", listed[0].Title)

	rec = s.do(http.MethodGet, "/api/groups?userId=7", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCreateGroupRejectsBadInput(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/groups", `{"groupId": 42, "ownerId": 42}`).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/groups", `nope`).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/groups", "").Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/groups?userId=abc", "").Code)
}
