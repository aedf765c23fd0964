package countstore

import (
	"context"
	"sync"
	"time"
)

type memCounter struct {
	value    int64
	expireAt time.Time
}

// MemCountStore is a process-local CountStore. A counter whose expiry has
// passed is treated as absent.
type MemCountStore struct {
	mu       sync.Mutex
	counts   map[string]memCounter
	now      func() time.Time
	lastScan time.Time
}

func NewMemCountStore() *MemCountStore {
	return NewMemCountStoreWithClock(time.Now)
}

// NewMemCountStoreWithClock lets tests drive expiry with a fake clock
func NewMemCountStoreWithClock(now func() time.Time) *MemCountStore {
	return &MemCountStore{
		counts: make(map[string]memCounter),
		now:    now,
	}
}

func (s *MemCountStore) IncrementWithExpiry(_ context.Context, key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)

	c, ok := s.counts[key]
	if !ok || !now.Before(c.expireAt) {
		c = memCounter{expireAt: now.Add(ttl)}
	}
	c.value++
	s.counts[key] = c
	return c.value, nil
}

// sweep drops expired counters at most once a minute
func (s *MemCountStore) sweep(now time.Time) {
	if now.Sub(s.lastScan) < time.Minute {
		return
	}
	s.lastScan = now
	for k, c := range s.counts {
		if !now.Before(c.expireAt) {
			delete(s.counts, k)
		}
	}
}

// Len returns the number of stored counters, expired or not
func (s *MemCountStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.counts)
}
