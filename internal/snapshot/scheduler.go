package snapshot

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Refresher is what the scheduler drives.
type Refresher interface {
	RefreshAll(ctx context.Context) (*RefreshSummary, error)
}

// Scheduler runs RefreshAll immediately and then on a fixed interval until
// stopped. Start and Stop are owned by the composition root.
type Scheduler struct {
	refresher Refresher
	interval  time.Duration
	logger    *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

func NewScheduler(r Refresher, interval time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{refresher: r, interval: interval, logger: logger}
}

// Start launches the refresh loop. Calling Start on a running scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true
	go s.loop(ctx, s.done)
}

// Stop cancels the in-flight cycle and waits for the loop to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	cancel, done := s.cancel, s.done
	s.running = false
	s.mu.Unlock()

	cancel()
	<-done
}

func (s *Scheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	s.runOnce(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if _, err := s.refresher.RefreshAll(ctx); err != nil && ctx.Err() == nil {
		s.logger.ErrorContext(ctx, "scheduled refresh failed", "error", err)
	}
}
