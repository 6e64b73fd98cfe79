package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/lanerunner/internal/event"
	"github.com/udisondev/lanerunner/internal/model"
)

type memoryStore struct {
	mu      sync.Mutex
	matches []model.Match
	err     error
}

func (s *memoryStore) Save(_ context.Context, m model.Match) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	s.matches = append(s.matches, m)
	return int64(len(s.matches)), nil
}

func (s *memoryStore) saved() []model.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Match(nil), s.matches...)
}

func TestRecorder_SavesGameOver(t *testing.T) {
	store := &memoryStore{}
	bus := event.NewBus()
	sub := bus.Subscribe(16)

	done := make(chan error, 1)
	go func() { done <- NewRecorder(store, "ann").Run(context.Background(), sub) }()

	bus.Publish(event.ScoreChanged{Score: 100})
	bus.Publish(event.GameOver{At: 9 * time.Second, Duration: 7 * time.Second, Score: 100, Commits: 12, Obstacles: 3, Collectibles: 2})
	bus.Close()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("recorder did not stop")
	}

	saved := store.saved()
	require.Len(t, saved, 1)
	assert.Equal(t, "ann", saved[0].Player)
	assert.Equal(t, 100, saved[0].Score)
	assert.Equal(t, 7*time.Second, saved[0].Duration)
	assert.Equal(t, 12, saved[0].Commits)
	assert.Equal(t, 3, saved[0].Obstacles)
	assert.False(t, saved[0].EndedAt.IsZero())
}

func TestRecorder_StoreErrorKeepsRunning(t *testing.T) {
	store := &memoryStore{err: errors.New("db down")}
	bus := event.NewBus()
	sub := bus.Subscribe(16)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewRecorder(store, "bob").Run(ctx, sub) }()

	bus.Publish(event.GameOver{Score: 1})
	bus.Publish(event.GameOver{Score: 2})
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("recorder did not stop")
	}
	assert.Empty(t, store.saved())
}
