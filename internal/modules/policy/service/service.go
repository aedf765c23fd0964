package service

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/reshetovitsme/posbon/internal/modules/policy/domain"
	policyRepo "github.com/reshetovitsme/posbon/internal/modules/policy/repository"
	"github.com/reshetovitsme/posbon/internal/shared/errors"
	"github.com/samber/oops"
)

// Service handles group policy lookups and updates
type Service struct {
	repo policyRepo.Repository
	now  func() time.Time
}

// New creates a new policy service
func New(repo policyRepo.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Resolve returns the group's policy snapshot. A missing, unreadable or
// invalid stored policy resolves to the default policy so that events are
// never blocked on policy data.
func (s *Service) Resolve(ctx context.Context, groupID int64) domain.GroupPolicy {
	policy, err := s.repo.Get(ctx, groupID)
	if err != nil {
		if !stderrors.Is(err, errors.ErrPolicyNotFound) {
			slog.Warn("Falling back to default policy", "group_id", groupID, "error", err)
		}
		return domain.DefaultPolicy(groupID)
	}
	if err := policy.Validate(); err != nil {
		slog.Warn("Stored policy is invalid, using default", "group_id", groupID, "error", err)
		return domain.DefaultPolicy(groupID)
	}
	return policy
}

// Update applies u to the stored policy of the group and saves the result.
// Only a group without a stored policy starts from the default; an
// unreadable or invalid stored policy fails the update so it is never
// overwritten with defaults.
func (s *Service) Update(ctx context.Context, groupID int64, u domain.PolicyUpdate) (domain.GroupPolicy, error) {
	current, err := s.repo.Get(ctx, groupID)
	switch {
	case stderrors.Is(err, errors.ErrPolicyNotFound):
		current = domain.DefaultPolicy(groupID)
	case err != nil:
		return domain.GroupPolicy{}, oops.With("group_id", groupID, "context", "failed to read policy for update").Wrap(err)
	default:
		if verr := current.Validate(); verr != nil {
			return domain.GroupPolicy{}, oops.With("group_id", groupID, "context", "stored policy is invalid").Wrap(verr)
		}
	}

	next, err := current.Apply(u)
	if err != nil {
		return current, err
	}
	next.GroupID = groupID
	next.UpdatedAt = s.now()

	if err := s.repo.Save(ctx, next); err != nil {
		return current, oops.With("group_id", groupID, "context", "failed to update policy").Wrap(err)
	}

	slog.Info("Group policy updated", "group_id", groupID)
	return next, nil
}
