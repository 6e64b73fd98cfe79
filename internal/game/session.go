package game

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/udisondev/lanerunner/internal/event"
	"github.com/udisondev/lanerunner/internal/lane"
	"github.com/udisondev/lanerunner/internal/spawn"
)

var (
	// ErrNotStarted is returned for commands issued before the first Start.
	ErrNotStarted = errors.New("match not started")

	// ErrMatchInProgress is returned by Restart while the player is alive.
	ErrMatchInProgress = errors.New("match in progress")
)

// Session owns one match: the lane registry, the spawn coordinator, the
// player and every entity on the field. All methods are safe for concurrent
// use; the coordinator is only ever driven under the session lock.
type Session struct {
	cfg   Config
	lanes *lane.Registry
	bus   *event.Bus
	clock *spawn.ManualClock
	spawn *spawn.Coordinator

	mu        sync.Mutex
	startedAt time.Duration
	started   bool
	paused    bool
	over      bool
	lane      int
	health    Health
	progress  progression
	field     field
	tally     tally
}

// tally counts what the player ran into during a match.
type tally struct {
	obstacles    int
	collectibles int
	hearts       int
}

// NewSession wires a session. rng drives lane and interval selection.
func NewSession(cfg Config, lanes *lane.Registry, rng spawn.Rand, bus *event.Bus) *Session {
	s := &Session{
		cfg:      cfg,
		lanes:    lanes,
		bus:      bus,
		clock:    spawn.NewManualClock(0),
		health:   newHealth(cfg.MaxHealth),
		progress: newProgression(cfg),
	}
	s.spawn = spawn.New(cfg.Spawn, lanes, s.clock, rng, spawn.SinkFunc(s.spawnEntity))
	return s
}

// Start begins a fresh match, discarding any match in progress.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.start()
}

// Restart begins a new match after game over.
func (s *Session) Restart() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}
	if !s.over {
		return ErrMatchInProgress
	}
	return s.start()
}

func (s *Session) start() error {
	// Stop first so Start re-arms the coordinator with fresh cooldowns.
	s.spawn.Stop()
	if err := s.spawn.Start(); err != nil {
		return fmt.Errorf("starting match: %w", err)
	}

	s.started = true
	s.over = false
	s.paused = false
	s.lane = s.lanes.Middle()
	s.health.reset()
	s.progress.reset()
	s.field.clear()
	s.tally = tally{}

	now := s.clock.Now()
	s.startedAt = now
	s.publish(event.GameStarted{At: now, Lanes: s.lanes.Positions(), Lane: s.lane})
	s.publish(event.HealthChanged{Health: s.health.Current(), Max: s.health.Max()})
	s.publish(event.ScoreChanged{Score: s.progress.score})
	s.publish(event.SpeedChanged{Speed: s.progress.speed})

	slog.Info("match started", "at", now, "lanes", s.lanes.Count())
	return nil
}

// Tick advances the match by dt of game time.
func (s *Session) Tick(dt time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running() || dt <= 0 {
		return
	}
	dt = min(dt, s.cfg.MaxStep)

	s.clock.Advance(dt)
	s.spawn.Tick()
	s.moveEntities(dt.Seconds())
}

func (s *Session) running() bool {
	return s.started && !s.paused && !s.over
}

// spawnEntity is the coordinator's creation sink.
func (s *Session) spawnEntity(ev spawn.Event) {
	e := s.field.add(ev)
	s.publish(event.Spawned{
		ID:       e.ID,
		Category: ev.Category.String(),
		Kind:     string(ev.Kind),
		Lane:     e.Lane,
		X:        e.X,
		Y:        e.Y,
		At:       ev.At,
	})
}

// moveEntities scrolls entities left, resolving collisions and off-screen removal.
func (s *Session) moveEntities(seconds float64) {
	step := s.progress.speed * seconds
	kept := s.field.entities[:0]

	for i, e := range s.field.entities {
		if s.over {
			// Game over mid-sweep: the rest of the field freezes in place.
			kept = append(kept, s.field.entities[i:]...)
			break
		}

		prevX := e.X
		e.X -= step

		if e.Lane == s.lane && sweepOverlaps(prevX, e.X, s.cfg.PlayerX, s.cfg.HitRadius) {
			s.publish(event.Despawned{ID: e.ID, Reason: "collision"})
			s.collide(e)
			continue
		}
		if e.X < s.cfg.OffScreenX {
			s.publish(event.Despawned{ID: e.ID, Reason: "offscreen"})
			continue
		}
		kept = append(kept, e)
	}

	clear(s.field.entities[len(kept):])
	s.field.entities = kept
}

func (s *Session) collide(e *Entity) {
	switch e.Category {
	case spawn.CategoryObstacle:
		s.tally.obstacles++
		s.damage(s.cfg.ObstacleDamage)
	case spawn.CategoryHeart:
		s.tally.hearts++
		if s.health.heal(s.cfg.HeartHeal) {
			s.publish(event.HealthChanged{Health: s.health.Current(), Max: s.health.Max()})
		}
	case spawn.CategoryCollectible:
		s.tally.collectibles++
		s.addScore(s.cfg.CollectibleScore)
	}
}

func (s *Session) damage(amount int) {
	changed, died := s.health.takeDamage(amount)
	if changed {
		s.publish(event.HealthChanged{Health: s.health.Current(), Max: s.health.Max()})
	}
	if died {
		s.gameOver()
	}
}

func (s *Session) addScore(points int) {
	speedChanged := s.progress.add(points)
	s.publish(event.ScoreChanged{Score: s.progress.score})
	if speedChanged {
		s.publish(event.SpeedChanged{Speed: s.progress.speed})
		slog.Debug("game speed increased", "speed", s.progress.speed, "score", s.progress.score)
	}
}

func (s *Session) gameOver() {
	s.over = true
	stats := s.spawn.Stats()
	s.spawn.Stop()

	now := s.clock.Now()
	s.publish(event.PlayerDied{At: now})
	s.publish(event.GameOver{
		At:           now,
		Duration:     now - s.startedAt,
		Score:        s.progress.score,
		Commits:      stats.TotalCommits(),
		Obstacles:    s.tally.obstacles,
		Collectibles: s.tally.collectibles,
		Hearts:       s.tally.hearts,
	})

	slog.Info("match over",
		"score", s.progress.score,
		"duration", now-s.startedAt,
		"spawns", stats.TotalCommits())
}

// MoveUp switches the player one lane up.
func (s *Session) MoveUp() { s.moveLane(-1) }

// MoveDown switches the player one lane down.
func (s *Session) MoveDown() { s.moveLane(1) }

func (s *Session) moveLane(dir int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started || s.over {
		return
	}

	next := min(max(s.lane+dir, 0), s.lanes.Count()-1)
	if next == s.lane {
		return
	}
	s.lane = next

	y, err := s.lanes.Position(next)
	if err != nil {
		slog.Error("moving player", "lane", next, "error", err)
		return
	}
	s.publish(event.LaneChanged{Lane: next, Y: y})
}

// TogglePause pauses a running match or resumes a paused one.
func (s *Session) TogglePause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.paused {
		s.resume()
	} else {
		s.pause()
	}
}

// Pause freezes game time. Ignored once the match is over.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pause()
}

// Resume unfreezes game time.
func (s *Session) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resume()
}

func (s *Session) pause() {
	if !s.started || s.over || s.paused {
		return
	}
	s.paused = true
	s.publish(event.Paused{At: s.clock.Now()})
}

func (s *Session) resume() {
	if !s.paused {
		return
	}
	s.paused = false
	s.publish(event.Resumed{At: s.clock.Now()})
}

// Over reports whether the current match has ended.
func (s *Session) Over() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.over
}

// Paused reports whether game time is frozen.
func (s *Session) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// SpawnStats returns the coordinator's counters for the current match.
func (s *Session) SpawnStats() spawn.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spawn.Stats()
}

func (s *Session) publish(ev event.Event) {
	if s.bus != nil {
		s.bus.Publish(ev)
	}
}
