package repository

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/reshetovitsme/posbon/internal/modules/warn/domain"
	"github.com/samber/oops"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStorage implements Repository on top of a gorm database
type GormStorage struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormStorage creates the warns table if needed and returns the repository
func NewGormStorage(db *gorm.DB) (*GormStorage, error) {
	if err := db.AutoMigrate(&domain.WarnRecord{}); err != nil {
		return nil, oops.With("context", "failed to migrate warns").Wrap(err)
	}
	return &GormStorage{db: db, now: time.Now}, nil
}

func (s *GormStorage) Increment(ctx context.Context, groupID, userID int64, reason string) (int, error) {
	var count int
	now := s.now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record := domain.WarnRecord{
			GroupID:   groupID,
			UserID:    userID,
			Count:     1,
			Reason:    reason,
			UpdatedAt: now,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "group_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"count":      gorm.Expr("warns.count + 1"),
				"reason":     reason,
				"updated_at": now,
			}),
		}).Create(&record).Error
		if err != nil {
			return err
		}

		var stored domain.WarnRecord
		if err := tx.Where("group_id = ? AND user_id = ?", groupID, userID).Take(&stored).Error; err != nil {
			return err
		}
		count = stored.Count
		return nil
	})
	if err != nil {
		return 0, oops.With("group_id", groupID, "user_id", userID, "context", "failed to add warn").Wrap(err)
	}
	return count, nil
}

func (s *GormStorage) Get(ctx context.Context, groupID, userID int64) (domain.WarnRecord, error) {
	var record domain.WarnRecord
	err := s.db.WithContext(ctx).Where("group_id = ? AND user_id = ?", groupID, userID).Take(&record).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return domain.WarnRecord{GroupID: groupID, UserID: userID}, nil
		}
		return domain.WarnRecord{}, oops.With("group_id", groupID, "user_id", userID, "context", "failed to read warns").Wrap(err)
	}
	return record, nil
}

func (s *GormStorage) Delete(ctx context.Context, groupID, userID int64) error {
	err := s.db.WithContext(ctx).Where("group_id = ? AND user_id = ?", groupID, userID).Delete(&domain.WarnRecord{}).Error
	if err != nil {
		return oops.With("group_id", groupID, "user_id", userID, "context", "failed to reset warns").Wrap(err)
	}
	return nil
}
