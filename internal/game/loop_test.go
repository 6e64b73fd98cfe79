package game

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingTicker struct {
	mu    sync.Mutex
	ticks int
	total time.Duration
}

func (c *countingTicker) Tick(dt time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticks++
	c.total += dt
}

func (c *countingTicker) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticks
}

func TestLoop_RunUntilCanceled(t *testing.T) {
	target := &countingTicker{}
	loop := NewLoop(target, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	require.Eventually(t, func() bool { return target.count() >= 5 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}

	target.mu.Lock()
	defer target.mu.Unlock()
	assert.Greater(t, target.total, time.Duration(0))
}

func TestLoop_Stop(t *testing.T) {
	loop := NewLoop(&countingTicker{}, time.Millisecond)

	done := make(chan error, 1)
	go func() { done <- loop.Run(context.Background()) }()

	loop.Stop()
	loop.Stop()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}
}
