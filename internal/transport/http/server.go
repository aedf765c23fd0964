package http

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	groupDomain "github.com/reshetovitsme/posbon/internal/modules/group/domain"
	policyDomain "github.com/reshetovitsme/posbon/internal/modules/policy/domain"
	"github.com/reshetovitsme/posbon/internal/shared/config"
	"github.com/reshetovitsme/posbon/internal/shared/errors"
	"github.com/samber/lo"
	sloghttp "github.com/samber/slog-http"
)

type PolicyService interface {
	Resolve(ctx context.Context, groupID int64) policyDomain.GroupPolicy
	Update(ctx context.Context, groupID int64, u policyDomain.PolicyUpdate) (policyDomain.GroupPolicy, error)
}

type GroupService interface {
	Register(ctx context.Context, groupID int64, title string, ownerID int64) (groupDomain.Group, bool, error)
	GroupsByOwner(ctx context.Context, ownerID int64) ([]groupDomain.Group, error)
}

type FeedService interface {
	GenerateFeed(ctx context.Context, groupID int64, baseURL string) (*feeds.Feed, error)
}

// Server serves the admin API, the audit feeds, health and metrics
type Server struct {
	cfg      *config.Config
	policies PolicyService
	groups   GroupService
	feeds    FeedService
	logger   *slog.Logger
	server   *http.Server
}

// New creates a new HTTP server
func New(cfg *config.Config, policies PolicyService, groups GroupService, feeds FeedService) *Server {
	return &Server{
		cfg:      cfg,
		policies: policies,
		groups:   groups,
		feeds:    feeds,
		logger:   slog.Default(),
	}
}

// SetLogger sets the logger
func (s *Server) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Handler builds the routed handler with access logging and recovery
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /api/groups", s.requireToken(s.handleListGroups))
	mux.Handle("POST /api/groups", s.requireToken(s.handleCreateGroup))
	mux.Handle("GET /api/groups/{groupID}/settings", s.requireToken(s.handleGetSettings))
	mux.Handle("POST /api/groups/{groupID}/settings", s.requireToken(s.handleUpdateSettings))
	mux.Handle("GET /rss/{groupID}", s.requireToken(s.handleRSSFeed))
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	handler := sloghttp.Recovery(mux)
	return sloghttp.New(s.logger)(handler)
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%s", s.cfg.HTTPPort)
	s.logger.Info("HTTP server starting", "addr", addr)
	if s.cfg.AdminToken == "" {
		s.logger.Warn("admin_token is not set, the admin API and feeds are disabled")
	}

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if err := s.server.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// requireToken lets a request through when it carries the configured admin
// token, as a bearer token or, for feed readers, a token query parameter.
// Without a configured token every request is refused.
func (s *Server) requireToken(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		want := s.cfg.AdminToken
		if want == "" {
			writeError(w, http.StatusForbidden, "admin API is disabled")
			return
		}
		got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			got = r.URL.Query().Get("token")
		}
		if subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
			writeError(w, http.StatusUnauthorized, "invalid admin token")
			return
		}
		next(w, r)
	})
}

type groupView struct {
	ID         string  `json:"id"`
	TelegramID int64   `json:"telegramId"`
	Title      string  `json:"title"`
	OwnerID    int64   `json:"ownerId"`
	IsPremium  bool    `json:"isPremium"`
	CreatedAt  *string `json:"createdAt"`
}

func toGroupView(g groupDomain.Group, _ int) groupView {
	view := groupView{
		ID:         strconv.FormatInt(g.ID, 10),
		TelegramID: g.ID,
		Title:      g.Title,
		OwnerID:    g.OwnerID,
		IsPremium:  g.IsPremium,
	}
	if !g.CreatedAt.IsZero() {
		view.CreatedAt = lo.ToPtr(g.CreatedAt.UTC().Format(time.RFC3339))
	}
	return view
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	ownerID, err := strconv.ParseInt(r.URL.Query().Get("userId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "userId must be an integer")
		return
	}

	groups, err := s.groups.GroupsByOwner(r.Context(), ownerID)
	if err != nil {
		s.logger.Error("Error listing groups", "owner_id", ownerID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list groups")
		return
	}
	writeJSON(w, http.StatusOK, lo.Map(groups, toGroupView))
}

type createGroupRequest struct {
	GroupID int64  `json:"groupId"`
	Title   string `json:"title"`
	OwnerID int64  `json:"ownerId"`
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	group, created, err := s.groups.Register(r.Context(), req.GroupID, req.Title, req.OwnerID)
	switch {
	case stderrors.Is(err, errors.ErrNotGroupChat):
		writeError(w, http.StatusBadRequest, "groupId must be a group chat id")
	case err != nil:
		s.logger.Error("Error creating group", "group_id", req.GroupID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create group")
	case !created:
		writeJSON(w, http.StatusOK, map[string]any{"status": "exists", "group": toGroupView(group, 0)})
	default:
		writeJSON(w, http.StatusCreated, map[string]any{"status": "created", "group": toGroupView(group, 0)})
	}
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	groupID, ok := groupIDFromPath(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.policies.Resolve(r.Context(), groupID))
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	groupID, ok := groupIDFromPath(w, r)
	if !ok {
		return
	}

	var update policyDomain.PolicyUpdate
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	policy, err := s.policies.Update(r.Context(), groupID, update)
	switch {
	case err == nil:
		s.logger.Info("Group settings updated", "group_id", groupID)
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "settings": policy})
	case stderrors.Is(err, errors.ErrInvalidPolicy):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("Error updating settings", "group_id", groupID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save settings")
	}
}

func (s *Server) handleRSSFeed(w http.ResponseWriter, r *http.Request) {
	groupID, ok := groupIDFromPath(w, r)
	if !ok {
		return
	}

	baseURL := fmt.Sprintf("%s://%s", getScheme(r), r.Host)

	feed, err := s.feeds.GenerateFeed(r.Context(), groupID, baseURL)
	if err != nil {
		s.logger.Error("Error generating feed", "group_id", groupID, "error", err)
		http.Error(w, "Failed to generate feed", http.StatusInternalServerError)
		return
	}

	rss, err := feed.ToRss()
	if err != nil {
		s.logger.Error("Error converting feed to RSS", "error", err)
		http.Error(w, "Failed to generate RSS", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=60")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(rss))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func groupIDFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	groupID, err := strconv.ParseInt(r.PathValue("groupID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "group ID must be an integer")
		return 0, false
	}
	return groupID, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("Failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
