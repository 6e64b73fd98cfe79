package game

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Ticker is what a Loop drives.
type Ticker interface {
	Tick(dt time.Duration)
}

// Loop drives a Ticker from wall-clock time at a fixed rate.
type Loop struct {
	target   Ticker
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewLoop creates a loop ticking target every interval.
func NewLoop(target Ticker, interval time.Duration) *Loop {
	return &Loop{
		target:   target,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Run ticks until ctx is canceled or Stop is called (blocks).
// Each tick passes the wall time elapsed since the previous one.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	slog.Debug("game loop started", "interval", l.interval)

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			slog.Debug("game loop stopping")
			return ctx.Err()

		case <-l.stopCh:
			slog.Debug("game loop stopped")
			return nil

		case now := <-ticker.C:
			l.target.Tick(now.Sub(last))
			last = now
		}
	}
}

// Stop ends Run. Safe to call more than once.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}
