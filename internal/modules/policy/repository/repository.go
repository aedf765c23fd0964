package repository

import (
	"context"

	"github.com/reshetovitsme/posbon/internal/modules/policy/domain"
)

// Repository defines the interface for group policy persistence
type Repository interface {
	// Get returns errors.ErrPolicyNotFound when the group has no stored policy
	Get(ctx context.Context, groupID int64) (domain.GroupPolicy, error)
	Save(ctx context.Context, policy domain.GroupPolicy) error
}
