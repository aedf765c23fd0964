package repository

import (
	"context"

	"github.com/reshetovitsme/posbon/internal/modules/audit/domain"
	"github.com/samber/oops"
	"gorm.io/gorm"
)

// GormStorage implements Repository on top of a gorm database
type GormStorage struct {
	db *gorm.DB
}

// NewGormStorage creates the moderation log table if needed and returns the repository
func NewGormStorage(db *gorm.DB) (*GormStorage, error) {
	if err := db.AutoMigrate(&domain.ModerationEvent{}); err != nil {
		return nil, oops.With("context", "failed to migrate moderation logs").Wrap(err)
	}
	return &GormStorage{db: db}, nil
}

func (s *GormStorage) SaveEvent(ctx context.Context, event *domain.ModerationEvent) error {
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return oops.With("group_id", event.GroupID, "user_id", event.UserID, "action", event.Action).Wrap(err)
	}
	return nil
}

func (s *GormStorage) RecentEvents(ctx context.Context, groupID int64, limit int) ([]*domain.ModerationEvent, error) {
	var events []*domain.ModerationEvent
	err := s.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("occurred_at DESC").Order("id DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, oops.With("group_id", groupID, "context", "failed to read moderation logs").Wrap(err)
	}
	return events, nil
}

func (s *GormStorage) Stats(ctx context.Context) (domain.Stats, error) {
	var stats domain.Stats
	db := s.db.WithContext(ctx).Model(&domain.ModerationEvent{})
	if err := db.Count(&stats.Events).Error; err != nil {
		return stats, oops.With("context", "failed to count moderation logs").Wrap(err)
	}
	if err := s.db.WithContext(ctx).Model(&domain.ModerationEvent{}).Distinct("group_id").Count(&stats.Groups).Error; err != nil {
		return stats, oops.With("context", "failed to count groups").Wrap(err)
	}
	return stats, nil
}
