package service

import (
	"context"

	"github.com/reshetovitsme/posbon/internal/modules/warn/domain"
	warnRepo "github.com/reshetovitsme/posbon/internal/modules/warn/repository"
	"github.com/reshetovitsme/posbon/internal/shared/metrics"
)

// Ledger tracks warn counts per (group, user). It never clamps the count;
// comparing against the warn limit is the caller's job.
type Ledger struct {
	repo warnRepo.Repository
}

// New creates a new warn ledger
func New(repo warnRepo.Repository) *Ledger {
	return &Ledger{repo: repo}
}

// AddWarn records one infraction and returns the post-increment count
func (l *Ledger) AddWarn(ctx context.Context, userID, groupID int64, reason string) (int, error) {
	count, err := l.repo.Increment(ctx, groupID, userID, reason)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("warns").Inc()
		return 0, err
	}
	return count, nil
}

// ResetWarns brings the count back to zero
func (l *Ledger) ResetWarns(ctx context.Context, userID, groupID int64) error {
	if err := l.repo.Delete(ctx, groupID, userID); err != nil {
		metrics.StoreErrors.WithLabelValues("warns").Inc()
		return err
	}
	return nil
}

func (l *Ledger) Get(ctx context.Context, userID, groupID int64) (domain.WarnRecord, error) {
	return l.repo.Get(ctx, groupID, userID)
}
