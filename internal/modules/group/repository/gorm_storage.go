package repository

import (
	"context"
	stderrors "errors"

	"github.com/reshetovitsme/posbon/internal/modules/group/domain"
	"github.com/reshetovitsme/posbon/internal/shared/errors"
	"github.com/samber/oops"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStorage implements Repository on top of a gorm database
type GormStorage struct {
	db *gorm.DB
}

// NewGormStorage creates the groups and users tables if needed
func NewGormStorage(db *gorm.DB) (*GormStorage, error) {
	if err := db.AutoMigrate(&domain.Group{}, &domain.User{}); err != nil {
		return nil, oops.With("context", "failed to migrate groups").Wrap(err)
	}
	return &GormStorage{db: db}, nil
}

func (s *GormStorage) CreateGroup(ctx context.Context, g domain.Group) (domain.Group, bool, error) {
	var (
		stored  domain.Group
		created bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&g)
		if res.Error != nil {
			return res.Error
		}
		created = res.RowsAffected == 1
		return tx.Where("id = ?", g.ID).Take(&stored).Error
	})
	if err != nil {
		return domain.Group{}, false, oops.With("group_id", g.ID, "context", "failed to create group").Wrap(err)
	}
	return stored, created, nil
}

func (s *GormStorage) GroupsByOwner(ctx context.Context, ownerID int64) ([]domain.Group, error) {
	var groups []domain.Group
	err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at").Find(&groups).Error
	if err != nil {
		return nil, oops.With("owner_id", ownerID, "context", "failed to list groups").Wrap(err)
	}
	return groups, nil
}

func (s *GormStorage) UpsertUser(ctx context.Context, u domain.User) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "full_name", "updated_at"}),
	}).Create(&u).Error
	if err != nil {
		return oops.With("user_id", u.ID, "context", "failed to save user").Wrap(err)
	}
	return nil
}

func (s *GormStorage) GetUser(ctx context.Context, userID int64) (domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).Take(&user).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, oops.With("user_id", userID).Wrap(errors.ErrUserNotFound)
		}
		return domain.User{}, oops.With("user_id", userID, "context", "failed to read user").Wrap(err)
	}
	return user, nil
}
