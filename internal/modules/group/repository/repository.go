package repository

import (
	"context"

	"github.com/reshetovitsme/posbon/internal/modules/group/domain"
)

// Repository defines the interface for group and user persistence
type Repository interface {
	// CreateGroup stores g unless a group with the same id exists. It
	// returns the stored group and whether it was created by this call.
	CreateGroup(ctx context.Context, g domain.Group) (domain.Group, bool, error)
	GroupsByOwner(ctx context.Context, ownerID int64) ([]domain.Group, error)
	// UpsertUser creates the user or refreshes its names, keeping the
	// stored language
	UpsertUser(ctx context.Context, u domain.User) error
	GetUser(ctx context.Context, userID int64) (domain.User, error)
}
