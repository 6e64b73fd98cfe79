package event

import "time"

// Type names an event on the wire and in logs.
type Type string

const (
	TypeGameStarted   Type = "game_started"
	TypeGameOver      Type = "game_over"
	TypePaused        Type = "paused"
	TypeResumed       Type = "resumed"
	TypeSpawned       Type = "spawned"
	TypeDespawned     Type = "despawned"
	TypeHealthChanged Type = "health_changed"
	TypeScoreChanged  Type = "score_changed"
	TypeSpeedChanged  Type = "speed_changed"
	TypePlayerDied    Type = "player_died"
	TypeLaneChanged   Type = "lane_changed"
)

// Event is anything published on a Bus.
type Event interface {
	Type() Type
}

// GameStarted is published when a match begins or restarts.
type GameStarted struct {
	At    time.Duration `json:"at"`
	Lanes []float64     `json:"lanes"`
	Lane  int           `json:"lane"`
}

// GameOver is published once per match when the player dies.
type GameOver struct {
	At           time.Duration `json:"at"`
	Duration     time.Duration `json:"duration"`
	Score        int           `json:"score"`
	Commits      int           `json:"commits"`
	Obstacles    int           `json:"obstacles"`
	Collectibles int           `json:"collectibles"`
	Hearts       int           `json:"hearts"`
}

// Paused is published when the game clock freezes.
type Paused struct {
	At time.Duration `json:"at"`
}

// Resumed is published when the game clock runs again.
type Resumed struct {
	At time.Duration `json:"at"`
}

// Spawned is published for every entity created from a committed spawn.
type Spawned struct {
	ID       uint64        `json:"id"`
	Category string        `json:"category"`
	Kind     string        `json:"kind"`
	Lane     int           `json:"lane"`
	X        float64       `json:"x"`
	Y        float64       `json:"y"`
	At       time.Duration `json:"at"`
}

// Despawned is published when an entity leaves the field.
type Despawned struct {
	ID     uint64 `json:"id"`
	Reason string `json:"reason"` // "offscreen" or "collision"
}

// HealthChanged carries the new health.
type HealthChanged struct {
	Health int `json:"health"`
	Max    int `json:"max"`
}

// ScoreChanged carries the new score.
type ScoreChanged struct {
	Score int `json:"score"`
}

// SpeedChanged carries the new scroll speed.
type SpeedChanged struct {
	Speed float64 `json:"speed"`
}

// PlayerDied is published when health reaches zero.
type PlayerDied struct {
	At time.Duration `json:"at"`
}

// LaneChanged is published when the player switches lanes.
type LaneChanged struct {
	Lane int     `json:"lane"`
	Y    float64 `json:"y"`
}

func (GameStarted) Type() Type   { return TypeGameStarted }
func (GameOver) Type() Type      { return TypeGameOver }
func (Paused) Type() Type        { return TypePaused }
func (Resumed) Type() Type       { return TypeResumed }
func (Spawned) Type() Type       { return TypeSpawned }
func (Despawned) Type() Type     { return TypeDespawned }
func (HealthChanged) Type() Type { return TypeHealthChanged }
func (ScoreChanged) Type() Type  { return TypeScoreChanged }
func (SpeedChanged) Type() Type  { return TypeSpeedChanged }
func (PlayerDied) Type() Type    { return TypePlayerDied }
func (LaneChanged) Type() Type   { return TypeLaneChanged }
