package game

import "time"

// Snapshot is a copy of the visible match state.
type Snapshot struct {
	At        time.Duration `json:"at"`
	Started   bool          `json:"started"`
	Paused    bool          `json:"paused"`
	Over      bool          `json:"over"`
	Speed     float64       `json:"speed"`
	Score     int           `json:"score"`
	Health    int           `json:"health"`
	MaxHealth int           `json:"max_health"`
	Lane      int           `json:"lane"`
	Lanes     []float64     `json:"lanes"`
	Entities  []Entity      `json:"entities"`
}

// Snapshot returns the current state. The result shares no memory with the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	entities := make([]Entity, 0, s.field.len())
	for _, e := range s.field.entities {
		entities = append(entities, *e)
	}

	var lanes []float64
	if s.lanes != nil {
		lanes = s.lanes.Positions()
	}

	return Snapshot{
		At:        s.clock.Now(),
		Started:   s.started,
		Paused:    s.paused,
		Over:      s.over,
		Speed:     s.progress.speed,
		Score:     s.progress.score,
		Health:    s.health.Current(),
		MaxHealth: s.health.Max(),
		Lane:      s.lane,
		Lanes:     lanes,
		Entities:  entities,
	}
}
