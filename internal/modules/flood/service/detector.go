package service

import (
	"context"

	"github.com/reshetovitsme/posbon/internal/modules/flood/countstore"
	"github.com/reshetovitsme/posbon/internal/modules/policy/domain"
	"github.com/reshetovitsme/posbon/internal/shared/metrics"
	"github.com/samber/oops"
)

// Detector counts a user's messages per flood window
type Detector struct {
	store countstore.CountStore
}

func NewDetector(store countstore.CountStore) *Detector {
	return &Detector{store: store}
}

// IsFlooding records one message and reports whether the user went past
// the group's threshold inside the current window. A store failure fails
// open: the result is false and the error is returned for logging.
func (d *Detector) IsFlooding(ctx context.Context, userID, groupID int64, policy domain.GroupPolicy) (bool, error) {
	if !policy.AntiSpamEnabled {
		return false, nil
	}

	count, err := d.store.IncrementWithExpiry(ctx, countstore.FloodKey(groupID, userID), policy.FloodWindow())
	if err != nil {
		metrics.StoreErrors.WithLabelValues("counter").Inc()
		return false, oops.With("group_id", groupID, "user_id", userID, "context", "flood counter unavailable").Wrap(err)
	}

	return count > int64(policy.FloodThreshold), nil
}
