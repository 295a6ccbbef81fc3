package memory

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/yndnr/reviewgate/internal/telemetry/logger"
)

// Sweeper periodically evicts expired sessions from a Store.
//
// Lookups already evict lazily; the sweeper only reclaims memory held by
// sessions nobody presents again.
type Sweeper struct {
	store    *Store
	interval time.Duration
	logger   logger.Logger
	onEvict  func(n int)

	started  atomic.Bool
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// SweeperOption configures a Sweeper.
type SweeperOption func(*Sweeper)

// WithSweepLogger sets the sweeper logger.
func WithSweepLogger(l logger.Logger) SweeperOption {
	return func(s *Sweeper) {
		s.logger = l
	}
}

// WithEvictionHook registers fn to receive the count of each non-empty sweep.
func WithEvictionHook(fn func(n int)) SweeperOption {
	return func(s *Sweeper) {
		s.onEvict = fn
	}
}

// NewSweeper creates a sweeper running every interval. It does nothing until Start.
func NewSweeper(store *Store, interval time.Duration, opts ...SweeperOption) *Sweeper {
	s := &Sweeper{
		store:    store,
		interval: interval,
		logger:   logger.NewNop(),
		onEvict:  func(int) {},
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the background loop. A non-positive interval disables it.
func (s *Sweeper) Start() {
	if s.interval <= 0 || !s.started.CompareAndSwap(false, true) {
		return
	}
	s.logger.Info("session sweeper started", "interval", s.interval.String())
	go s.loop()
}

// Stop signals the loop to exit and waits for it. It is a no-op if the
// loop never started.
func (s *Sweeper) Stop() {
	if !s.started.Load() {
		return
	}
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	<-s.doneCh
}

// SweepOnce runs a single cleanup pass and returns the eviction count.
func (s *Sweeper) SweepOnce() int {
	n := s.store.CleanupExpired()
	if n > 0 {
		s.onEvict(n)
		s.logger.Debug("expired sessions swept", "count", n, "remaining", s.store.Count())
	}
	return n
}

func (s *Sweeper) loop() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.SweepOnce()
		case <-s.stopCh:
			s.logger.Info("session sweeper stopped")
			return
		}
	}
}
