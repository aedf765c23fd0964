package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/reshetovitsme/posbon/internal/modules/group/domain"
	groupRepo "github.com/reshetovitsme/posbon/internal/modules/group/repository"
	"github.com/reshetovitsme/posbon/internal/shared/errors"
	"github.com/samber/oops"
)

const unknownTitle = "Unknown Group"

// Service keeps the registry of moderated groups and of bot users
type Service struct {
	repo groupRepo.Repository
}

// New creates a new group service
func New(repo groupRepo.Repository) *Service {
	return &Service{repo: repo}
}

// Register records the group the first time it is seen. The owner and
// title of an already registered group are left as they are.
func (s *Service) Register(ctx context.Context, groupID int64, title string, ownerID int64) (domain.Group, bool, error) {
	if groupID >= 0 {
		return domain.Group{}, false, oops.With("group_id", groupID).Wrap(errors.ErrNotGroupChat)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = unknownTitle
	}

	group, created, err := s.repo.CreateGroup(ctx, domain.Group{ID: groupID, Title: title, OwnerID: ownerID})
	if err != nil {
		return domain.Group{}, false, err
	}
	if created {
		slog.Info("Group registered", "group_id", groupID, "owner_id", ownerID)
	}
	return group, created, nil
}

func (s *Service) GroupsByOwner(ctx context.Context, ownerID int64) ([]domain.Group, error) {
	return s.repo.GroupsByOwner(ctx, ownerID)
}

// RememberUser stores a user who started the bot in private
func (s *Service) RememberUser(ctx context.Context, u domain.User) error {
	if u.Language == "" {
		u.Language = "uz"
	}
	return s.repo.UpsertUser(ctx, u)
}

func (s *Service) GetUser(ctx context.Context, userID int64) (domain.User, error) {
	return s.repo.GetUser(ctx, userID)
}
