package repository

import (
	"context"
	stderrors "errors"

	"github.com/reshetovitsme/posbon/internal/modules/policy/domain"
	"github.com/reshetovitsme/posbon/internal/shared/errors"
	"github.com/samber/oops"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStorage implements Repository on top of a gorm database
type GormStorage struct {
	db *gorm.DB
}

// NewGormStorage creates the policy table if needed and returns the repository
func NewGormStorage(db *gorm.DB) (*GormStorage, error) {
	if err := db.AutoMigrate(&domain.GroupPolicy{}); err != nil {
		return nil, oops.With("context", "failed to migrate group policies").Wrap(err)
	}
	return &GormStorage{db: db}, nil
}

func (s *GormStorage) Get(ctx context.Context, groupID int64) (domain.GroupPolicy, error) {
	var policy domain.GroupPolicy
	err := s.db.WithContext(ctx).Where("group_id = ?", groupID).Take(&policy).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return domain.GroupPolicy{}, errors.ErrPolicyNotFound
		}
		return domain.GroupPolicy{}, oops.With("group_id", groupID, "context", "failed to read policy").Wrap(err)
	}
	if policy.ForbiddenWords == nil {
		policy.ForbiddenWords = []string{}
	}
	return policy, nil
}

func (s *GormStorage) Save(ctx context.Context, policy domain.GroupPolicy) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "group_id"}},
		UpdateAll: true,
	}).Create(&policy).Error
	if err != nil {
		return oops.With("group_id", policy.GroupID, "context", "failed to save policy").Wrap(err)
	}
	return nil
}
