package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/reshetovitsme/posbon/internal/modules/audit/domain"
	auditRepo "github.com/reshetovitsme/posbon/internal/modules/audit/repository"
	"github.com/reshetovitsme/posbon/internal/shared/metrics"
)

// Sink writes moderation events in the background. Record never blocks:
// when the queue is full the event is dropped with a warning.
type Sink struct {
	repo   auditRepo.Repository
	queue  chan *domain.ModerationEvent
	now    func() time.Time
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSink creates a sink with room for buffer pending events
func NewSink(repo auditRepo.Repository, buffer int) *Sink {
	if buffer < 1 {
		buffer = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Sink{
		repo:   repo,
		queue:  make(chan *domain.ModerationEvent, buffer),
		now:    time.Now,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins writing queued events
func (s *Sink) Start() {
	s.wg.Add(1)
	go s.writeLoop()
}

// Stop flushes what is queued and waits for the writer to exit
func (s *Sink) Stop() {
	s.cancel()
	s.wg.Wait()
}

// Record queues an audit event stamped with the current time
func (s *Sink) Record(groupID, userID int64, action domain.Action, reason string) {
	s.Append(&domain.ModerationEvent{
		GroupID:   groupID,
		UserID:    userID,
		Action:    action,
		Reason:    reason,
		Timestamp: s.now(),
	})
}

// Append queues event for writing. Events arriving after Stop are dropped.
func (s *Sink) Append(event *domain.ModerationEvent) {
	metrics.ActionsTaken.WithLabelValues(event.Action.String(), event.Reason).Inc()
	if s.ctx.Err() != nil {
		metrics.AuditDropped.Inc()
		slog.Warn("Audit sink stopped, dropping event", "group_id", event.GroupID, "user_id", event.UserID, "action", event.Action)
		return
	}
	select {
	case s.queue <- event:
	default:
		metrics.AuditDropped.Inc()
		slog.Warn("Audit queue full, dropping event", "group_id", event.GroupID, "user_id", event.UserID, "action", event.Action)
	}
}

func (s *Sink) writeLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			s.drain()
			return
		case event := <-s.queue:
			s.write(context.Background(), event)
		}
	}
}

func (s *Sink) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case event := <-s.queue:
			s.write(ctx, event)
		default:
			return
		}
	}
}

func (s *Sink) write(ctx context.Context, event *domain.ModerationEvent) {
	if err := s.repo.SaveEvent(ctx, event); err != nil {
		metrics.StoreErrors.WithLabelValues("audit").Inc()
		slog.Error("Failed to save moderation event", "group_id", event.GroupID, "user_id", event.UserID, "action", event.Action, "error", err)
	}
}
