package repository

import (
	"context"

	"github.com/reshetovitsme/posbon/internal/modules/audit/domain"
)

// Repository defines the interface for audit log persistence
type Repository interface {
	SaveEvent(ctx context.Context, event *domain.ModerationEvent) error
	// RecentEvents returns the newest events of a group first
	RecentEvents(ctx context.Context, groupID int64, limit int) ([]*domain.ModerationEvent, error)
	Stats(ctx context.Context) (domain.Stats, error)
}
