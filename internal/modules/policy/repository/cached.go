package repository

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/reshetovitsme/posbon/internal/modules/policy/domain"
	"github.com/reshetovitsme/posbon/internal/shared/errors"
)

// cacheEntry is either a stored policy or the fact that the group has none
type cacheEntry struct {
	policy  domain.GroupPolicy
	missing bool
}

// CachedRepository keeps recently read policies in memory for ttl, including
// groups without a stored policy. Save writes through and drops the cached entry.
type CachedRepository struct {
	inner Repository
	cache *expirable.LRU[int64, cacheEntry]
}

func NewCachedRepository(inner Repository, capacity int, ttl time.Duration) *CachedRepository {
	return &CachedRepository{
		inner: inner,
		cache: expirable.NewLRU[int64, cacheEntry](capacity, nil, ttl),
	}
}

func (r *CachedRepository) Get(ctx context.Context, groupID int64) (domain.GroupPolicy, error) {
	if entry, ok := r.cache.Get(groupID); ok {
		if entry.missing {
			return domain.GroupPolicy{}, errors.ErrPolicyNotFound
		}
		return entry.policy.Clone(), nil
	}

	policy, err := r.inner.Get(ctx, groupID)
	switch {
	case stderrors.Is(err, errors.ErrPolicyNotFound):
		r.cache.Add(groupID, cacheEntry{missing: true})
		return domain.GroupPolicy{}, err
	case err != nil:
		return domain.GroupPolicy{}, err
	}
	r.cache.Add(groupID, cacheEntry{policy: policy.Clone()})
	return policy, nil
}

func (r *CachedRepository) Save(ctx context.Context, policy domain.GroupPolicy) error {
	r.cache.Remove(policy.GroupID)
	if err := r.inner.Save(ctx, policy); err != nil {
		return err
	}
	r.cache.Remove(policy.GroupID)
	return nil
}
