package repository

import (
	"context"

	"github.com/reshetovitsme/posbon/internal/modules/warn/domain"
)

// Repository defines the interface for warn record persistence
type Repository interface {
	// Increment creates the record with count 1 or adds one to it, stores
	// reason as the latest one and returns the new count
	Increment(ctx context.Context, groupID, userID int64, reason string) (int, error)
	// Get returns a zero-count record when none is stored
	Get(ctx context.Context, groupID, userID int64) (domain.WarnRecord, error)
	Delete(ctx context.Context, groupID, userID int64) error
}
