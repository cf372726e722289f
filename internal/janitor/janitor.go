package janitor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/MikeSquared-Agency/Readiness/internal/hermes"
	"github.com/MikeSquared-Agency/Readiness/internal/store"
)

// Janitor periodically resets empty sessions that outlived their TTL and
// publishes a stats snapshot. Requests reset stale sessions lazily as well;
// the sweep covers sessions nobody revisits.
type Janitor struct {
	store    store.Store
	hermes   hermes.Client
	ttl      time.Duration
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// New creates a Janitor. h may be nil.
func New(s store.Store, h hermes.Client, ttl, interval time.Duration, logger *slog.Logger) *Janitor {
	return &Janitor{
		store:    s,
		hermes:   h,
		ttl:      ttl,
		interval: interval,
		logger:   logger,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

// Start launches the sweep loop. A non-positive interval leaves it idle.
func (j *Janitor) Start(ctx context.Context) {
	if j.interval <= 0 {
		return
	}
	j.wg.Add(1)
	go j.loop(ctx)
}

func (j *Janitor) Stop() {
	j.stopOnce.Do(func() { close(j.stopCh) })
	j.wg.Wait()
}

func (j *Janitor) loop(ctx context.Context) {
	defer j.wg.Done()
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-j.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.Sweep(ctx)
		}
	}
}

// Sweep runs one pass and returns how many sessions were reset.
func (j *Janitor) Sweep(ctx context.Context) int {
	sessions, err := j.store.ListSessions(ctx)
	if err != nil {
		j.logger.Error("failed to list sessions for sweep", "error", err)
		return 0
	}

	now := j.now()
	reset := 0
	tasks := 0
	for _, meta := range sessions {
		tasks += meta.TaskCount
		if meta.TaskCount > 0 || j.ttl <= 0 || now.Sub(meta.CreatedAt) < j.ttl {
			continue
		}

		fresh, err := j.store.ResetIfStale(ctx, meta.ID, now.Add(-j.ttl))
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				j.logger.Error("failed to reset stale session", "session_id", meta.ID, "error", err)
			}
			continue
		}
		if fresh == nil {
			continue
		}
		reset++
		j.logger.Info("stale session reset", "session_id", meta.ID, "age", now.Sub(meta.CreatedAt).String())
		j.publish(hermes.SubjectSessionCleared(meta.ID.String()), hermes.SessionEvent{
			SessionID: meta.ID.String(),
			Name:      meta.Name,
			Timestamp: now,
		})
	}

	j.publish(hermes.SubjectStats, hermes.StatsEvent{
		Sessions:  len(sessions),
		Tasks:     tasks,
		Timestamp: now,
	})
	return reset
}

func (j *Janitor) publish(subject string, data interface{}) {
	if j.hermes == nil {
		return
	}
	if err := j.hermes.Publish(subject, data); err != nil {
		j.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}
