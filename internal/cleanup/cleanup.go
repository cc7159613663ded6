package cleanup

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mediscan/mediscan/internal/middleware"
	"github.com/mediscan/mediscan/internal/store"
)

// Sweeper periodically removes expired sessions and stale rate-limit state.
// Expired sessions are never deleted on the request path; resolving one simply
// treats it as absent, and the sweeper reclaims the rows later.
type Sweeper struct {
	mu       sync.RWMutex
	sessions *store.SessionStore
	limiter  *middleware.RateLimiter
	logger   *slog.Logger
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewSweeper(sessions *store.SessionStore, limiter *middleware.RateLimiter, interval time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		sessions: sessions,
		limiter:  limiter,
		logger:   logger,
		interval: interval,
	}
}

// Start begins the sweep loop.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}

// Stop gracefully stops the sweep loop.
func (s *Sweeper) Stop() {
	s.mu.RLock()
	cancel := s.cancel
	done := s.done
	s.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Sweep runs one pass immediately.
func (s *Sweeper) Sweep() {
	n, err := s.sessions.DeleteExpired()
	if err != nil {
		s.logger.Error("sweep expired sessions", "error", err)
	} else if n > 0 {
		s.logger.Info("swept expired sessions", "count", n)
	}

	if s.limiter != nil {
		s.limiter.Cleanup()
	}
}
