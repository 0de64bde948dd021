package service

import (
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

// Sweeper periodically expires due reservations and purges expired guest
// sessions. The clock is injected so tests can drive the ticker.
type Sweeper struct {
	inventory InventoryInterface
	sessions  SessionInterface
	clock     clock.Clock
	logger    *zap.Logger
	interval  time.Duration

	done chan struct{}
	stop chan struct{}
}

func NewSweeper(inventory InventoryInterface, sessions SessionInterface, clk clock.Clock, logger *zap.Logger, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		inventory: inventory,
		sessions:  sessions,
		clock:     clk,
		logger:    logger,
		interval:  interval,
		done:      make(chan struct{}),
		stop:      make(chan struct{}),
	}
}

// Start launches the sweep loop.
func (s *Sweeper) Start() {
	go s.run()
}

// Stop halts the loop and waits for the in-flight sweep to finish.
func (s *Sweeper) Stop() {
	close(s.stop)
	<-s.done
}

func (s *Sweeper) run() {
	defer close(s.done)
	ticker := s.clock.Ticker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stop:
			return
		}
	}
}

func (s *Sweeper) sweep() {
	if n, err := s.inventory.ExpireDue(); err != nil {
		s.logger.Error("reservation expiry sweep failed", zap.Error(err))
	} else if n > 0 {
		s.logger.Info("reservation sweep", zap.Int("expired", n))
	}
	if _, err := s.sessions.PurgeExpired(); err != nil {
		s.logger.Error("session purge failed", zap.Error(err))
	}
}
