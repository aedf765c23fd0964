package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/reshetovitsme/posbon/internal/modules/audit/domain"
	auditRepo "github.com/reshetovitsme/posbon/internal/modules/audit/repository"
	"github.com/reshetovitsme/posbon/internal/shared/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *auditRepo.GormStorage {
	t.Helper()
	db, err := database.Open("sqlite://:memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	repo, err := auditRepo.NewGormStorage(db)
	require.NoError(t, err)
	return repo
}

func TestSinkWritesOnStop(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	sink := NewSink(repo, 16)
	sink.Start()

	sink.Record(-1, 10, domain.ActionDelete, "link")
	sink.Record(-1, 10, domain.ActionWarn, "link")
	sink.Record(-2, 11, domain.ActionBan, "")
	sink.Stop()

	events, err := repo.RecentEvents(ctx, -1, 10)
	require.NoError(t, err)
	assert.Len(t, events, 2)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Events)
	assert.Equal(t, int64(2), stats.Groups)
}

func TestSinkDropsEventsAfterStop(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	sink := NewSink(repo, 16)
	sink.Start()
	sink.Stop()

	sink.Record(-1, 10, domain.ActionMute, "flood")
	assert.Empty(t, sink.queue, "nothing is queued once the writer is gone")

	events, err := repo.RecentEvents(ctx, -1, 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}

type blockingRepo struct {
	auditRepo.Repository
	release chan struct{}
	mu      sync.Mutex
	saved   int
}

func (r *blockingRepo) SaveEvent(ctx context.Context, event *domain.ModerationEvent) error {
	<-r.release
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved++
	return nil
}

func TestSinkNeverBlocks(t *testing.T) {
	repo := &blockingRepo{release: make(chan struct{})}
	sink := NewSink(repo, 1)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			sink.Record(-1, int64(i), domain.ActionDelete, "link")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Record blocked on a full queue")
	}

	close(repo.release)
	sink.Start()
	sink.Stop()

	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.Equal(t, 1, repo.saved)
}

func TestGenerateFeed(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, action := range []domain.Action{domain.ActionDelete, domain.ActionWarn, domain.ActionMute} {
		require.NoError(t, repo.SaveEvent(ctx, &domain.ModerationEvent{
			GroupID:   -5,
			UserID:    99,
			Action:    action,
			Reason:    "link",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	feed, err := NewFeedService(repo).GenerateFeed(ctx, -5, "http://localhost:8080")
	require.NoError(t, err)
	require.Len(t, feed.Items, 3)
	assert.Equal(t, "mute user 99 (link)", feed.Items[0].Title)
	assert.Equal(t, "http://localhost:8080/rss/-5", feed.Link.Href)

	rss, err := feed.ToRss()
	require.NoError(t, err)
	assert.Contains(t, rss, "Moderation log of group -5")

	empty, err := NewFeedService(repo).GenerateFeed(ctx, -6, "http://localhost:8080")
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
}
