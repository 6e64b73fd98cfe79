package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/lanerunner/internal/model"
)

// MatchRepository stores finished matches.
type MatchRepository struct {
	pool *pgxpool.Pool
}

// NewMatchRepository creates a new match repository
func NewMatchRepository(pool *pgxpool.Pool) *MatchRepository {
	return &MatchRepository{pool: pool}
}

// Save inserts a finished match and returns its ID.
func (r *MatchRepository) Save(ctx context.Context, m model.Match) (int64, error) {
	query := `
		INSERT INTO matches (player, score, duration_ms, spawns, obstacles, collectibles, hearts, ended_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING match_id
	`

	endedAt := m.EndedAt
	if endedAt.IsZero() {
		endedAt = time.Now().UTC()
	}

	var id int64
	err := r.pool.QueryRow(ctx, query,
		m.Player,
		m.Score,
		m.Duration.Milliseconds(),
		m.Commits,
		m.Obstacles,
		m.Collectibles,
		m.Hearts,
		endedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("saving match for %q: %w", m.Player, err)
	}

	return id, nil
}

// Top returns the best matches by score; ties go to the earlier match.
func (r *MatchRepository) Top(ctx context.Context, limit int) ([]model.Match, error) {
	if limit <= 0 {
		return nil, nil
	}

	query := `
		SELECT match_id, player, score, duration_ms, spawns, obstacles, collectibles, hearts, ended_at
		FROM matches
		ORDER BY score DESC, ended_at ASC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("loading top matches: %w", err)
	}
	defer rows.Close()

	matches := make([]model.Match, 0, limit)
	for rows.Next() {
		var (
			m          model.Match
			durationMs int64
		)
		if err := rows.Scan(&m.ID, &m.Player, &m.Score, &durationMs, &m.Commits,
			&m.Obstacles, &m.Collectibles, &m.Hearts, &m.EndedAt); err != nil {
			return nil, fmt.Errorf("scanning match row: %w", err)
		}
		m.Duration = time.Duration(durationMs) * time.Millisecond
		matches = append(matches, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating match rows: %w", err)
	}

	return matches, nil
}

// Count returns the number of stored matches.
func (r *MatchRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM matches`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting matches: %w", err)
	}
	return n, nil
}
