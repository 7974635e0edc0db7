package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/emberfall/crucible/api/internal/service"
)

// matchRunner is the slice of the matchmaker the sweeper drives
type matchRunner interface {
	RunPass(ctx context.Context, contentType string) (int, error)
}

// QueueSweeper periodically purges expired queue entries and runs a
// matchmaking pass for every content type with pending entries. The pass
// catches groups that became formable purely through expiry, which no join
// would ever trigger.
type QueueSweeper struct {
	store    service.QueueStore
	matcher  matchRunner
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
	running  bool
	mu       sync.Mutex
}

// NewQueueSweeper creates a new queue sweeper job
func NewQueueSweeper(store service.QueueStore, matcher matchRunner, interval time.Duration) *QueueSweeper {
	if interval == 0 {
		interval = 1 * time.Minute
	}
	return &QueueSweeper{
		store:    store,
		matcher:  matcher,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the queue sweeper job
func (s *QueueSweeper) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run()
	slog.Info("queue sweeper started", slog.Duration("interval", s.interval))
}

// Stop gracefully stops the queue sweeper job
func (s *QueueSweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()
	slog.Info("queue sweeper stopped")
}

// run is the main loop
func (s *QueueSweeper) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

// sweep performs one cleanup-and-match cycle
func (s *QueueSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	s.RunOnce(ctx)
}

// RunOnce purges expired entries and runs one matchmaking pass per content
// type. Exposed for tests and manual triggering.
func (s *QueueSweeper) RunOnce(ctx context.Context) {
	purged, err := s.store.PurgeExpired(ctx, time.Now().UTC())
	if err != nil {
		slog.Error("failed to purge expired queue entries", slog.String("error", err.Error()))
	} else if purged > 0 {
		slog.Info("purged expired queue entries", slog.Int("count", purged))
	}

	contentTypes, err := s.store.ListContentTypes(ctx)
	if err != nil {
		slog.Error("failed to list queued content types", slog.String("error", err.Error()))
		return
	}

	for _, contentType := range contentTypes {
		formed, err := s.matcher.RunPass(ctx, contentType)
		if err != nil {
			slog.Error("sweeper matchmaking pass failed",
				slog.String("content_type", contentType),
				slog.String("error", err.Error()))
			continue
		}
		if formed > 0 {
			slog.Info("sweeper formed groups",
				slog.String("content_type", contentType),
				slog.Int("groups", formed))
		}
	}
}
