package game

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/udisondev/lanerunner/internal/event"
	"github.com/udisondev/lanerunner/internal/model"
)

// MatchStore persists finished matches.
type MatchStore interface {
	Save(ctx context.Context, m model.Match) (int64, error)
}

// Recorder saves every GameOver it sees on a subscription.
type Recorder struct {
	store   MatchStore
	player  string
	timeout time.Duration
}

// NewRecorder creates a recorder saving matches for player.
func NewRecorder(store MatchStore, player string) *Recorder {
	return &Recorder{
		store:   store,
		player:  player,
		timeout: 5 * time.Second,
	}
}

// Run consumes sub until it closes or ctx is canceled (blocks).
func (r *Recorder) Run(ctx context.Context, sub *event.Subscription) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-sub.C():
			if !ok {
				return nil
			}
			over, isOver := ev.(event.GameOver)
			if !isOver {
				continue
			}
			if err := r.save(ctx, over); err != nil {
				slog.Error("recording match", "player", r.player, "error", err)
			}
		}
	}
}

func (r *Recorder) save(ctx context.Context, over event.GameOver) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	m := model.Match{
		Player:       r.player,
		Score:        over.Score,
		Duration:     over.Duration,
		Commits:      over.Commits,
		Obstacles:    over.Obstacles,
		Collectibles: over.Collectibles,
		Hearts:       over.Hearts,
		EndedAt:      time.Now().UTC(),
	}

	id, err := r.store.Save(ctx, m)
	if err != nil {
		return fmt.Errorf("saving match: %w", err)
	}

	slog.Info("match recorded", "id", id, "player", r.player, "score", m.Score)
	return nil
}
