package model

import "time"

// Match is a finished run stored in match history.
type Match struct {
	ID           int64         `json:"id"`
	Player       string        `json:"player"`
	Score        int           `json:"score"`
	Duration     time.Duration `json:"duration"`
	Commits      int           `json:"spawns"`
	Obstacles    int           `json:"obstacles"`
	Collectibles int           `json:"collectibles"`
	Hearts       int           `json:"hearts"`
	EndedAt      time.Time     `json:"ended_at"`
}
