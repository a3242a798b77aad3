package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/nest/internal/dashboard"
	"github.com/MrSnakeDoc/nest/internal/logger"
)

const (
	// DefaultIdleTTL is how long an unused dashboard is kept in memory
	DefaultIdleTTL = 12 * time.Hour
	// DefaultRefreshWindow renews sessions expiring within this window
	DefaultRefreshWindow = 5 * time.Minute
)

// Sweeper evicts idle dashboards and renews sessions ahead of expiry
type Sweeper struct {
	registry      *dashboard.Registry
	logger        logger.Logger
	interval      time.Duration
	idle          time.Duration
	window        time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewSweeper creates a new sweeper. A nil manualTrigger disables manual sweeps.
func NewSweeper(
	registry *dashboard.Registry,
	log logger.Logger,
	interval time.Duration,
	idle time.Duration,
	window time.Duration,
	manualTrigger chan struct{},
) *Sweeper {
	if idle == 0 {
		idle = DefaultIdleTTL
	}
	if window == 0 {
		window = DefaultRefreshWindow
	}

	return &Sweeper{
		registry:      registry,
		logger:        log,
		interval:      interval,
		idle:          idle,
		window:        window,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start begins the periodic sweep
func (s *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep(ctx)
			case <-s.manualTrigger:
				s.logger.Info("manual sweep triggered")
				s.Sweep(ctx)
			case <-s.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the sweeper
func (s *Sweeper) Stop() {
	close(s.stopCh)
}

// Sweep runs one pass: idle dashboards are closed first so their sessions
// are not refreshed for nothing.
func (s *Sweeper) Sweep(ctx context.Context) {
	start := time.Now()

	evicted := s.registry.Evict(s.idle)

	live := 0
	s.registry.Each(func(c *dashboard.Controller) {
		if ctx.Err() != nil {
			return
		}
		c.RefreshSession(ctx, s.window)
		live++
	})

	if evicted > 0 {
		s.logger.Info("evicted idle dashboards",
			logger.Int("evicted", evicted),
			logger.Int("live", live))
	} else {
		s.logger.Debug("sweep completed",
			logger.Int("live", live),
			logger.Duration("took", time.Since(start)))
	}
}
