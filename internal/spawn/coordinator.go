package spawn

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/udisondev/lanerunner/internal/lane"
)

// ErrConfiguration is returned by Start when the lane registry cannot host spawns.
var ErrConfiguration = errors.New("spawn configuration error")

// Vec2 is a world position.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Event describes one committed spawn.
type Event struct {
	Category Category
	Kind     Kind
	Lane     int
	Position Vec2
	At       time.Duration
}

// Sink receives committed spawns and creates the matching entities.
type Sink interface {
	Spawn(ev Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ev Event)

// Spawn calls f(ev).
func (f SinkFunc) Spawn(ev Event) { f(ev) }

// randomLane asks attempt to pick the lane itself.
const randomLane = -1

// Outcome is the result of a single spawn attempt.
type Outcome int

const (
	OutcomeCommitted Outcome = iota
	OutcomeInactive
	OutcomeKindUnset
	OutcomeGlobalCooldown
	OutcomeLaneCooldown
	OutcomeInvalidLane

	outcomeCount
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCommitted:
		return "committed"
	case OutcomeInactive:
		return "inactive"
	case OutcomeKindUnset:
		return "kind_unset"
	case OutcomeGlobalCooldown:
		return "global_cooldown"
	case OutcomeLaneCooldown:
		return "lane_cooldown"
	case OutcomeInvalidLane:
		return "invalid_lane"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Stats counts attempt outcomes per category for the current session.
type Stats struct {
	Outcomes [categoryCount][outcomeCount]int
}

// Commits returns the number of committed spawns of category c.
func (s Stats) Commits(c Category) int {
	return s.Outcomes[c][OutcomeCommitted]
}

// TotalCommits returns the number of committed spawns across categories.
func (s Stats) TotalCommits() int {
	total := 0
	for _, c := range Categories {
		total += s.Commits(c)
	}
	return total
}

// Attempts returns the number of attempts made for category c.
func (s Stats) Attempts(c Category) int {
	total := 0
	for _, n := range s.Outcomes[c] {
		total += n
	}
	return total
}

// Coordinator decides when and in which lane entities spawn.
//
// Three cadences (heart, collectible, obstacle) propose attempts independently;
// every attempt passes a global gap and a per-lane cooldown before it commits.
// A Coordinator is not safe for concurrent use: one goroutine drives it
// through Start, Stop, Tick and Attempt.
type Coordinator struct {
	cfg   Config
	lanes *lane.Registry
	clock Clock
	rng   Rand
	sink  Sink

	active            bool
	lastGlobalSpawn   time.Duration
	laneCooldownUntil []time.Duration
	cadences          [categoryCount]*cadence
	warnedUnset       [categoryCount]bool
	stats             Stats
}

// New creates an inactive coordinator.
func New(cfg Config, lanes *lane.Registry, clock Clock, rng Rand, sink Sink) *Coordinator {
	return &Coordinator{
		cfg:      cfg,
		lanes:    lanes,
		clock:    clock,
		rng:      rng,
		sink:     sink,
		cadences: newCadences(cfg),
	}
}

// Start resets cooldown state and arms all cadences.
// Calling Start on an active coordinator is a no-op.
func (c *Coordinator) Start() error {
	if c.active {
		return nil
	}

	if c.lanes == nil || c.lanes.Count() == 0 {
		return fmt.Errorf("starting spawner: %w: lane registry missing or empty", ErrConfiguration)
	}

	n := c.lanes.Count()
	if len(c.laneCooldownUntil) != n {
		if c.laneCooldownUntil != nil {
			slog.Warn("lane cooldowns resized", "from", len(c.laneCooldownUntil), "to", n)
		}
		c.laneCooldownUntil = make([]time.Duration, n)
	}

	now := c.clock.Now()
	c.lastGlobalSpawn = now - c.cfg.MinGlobalGap
	for i := range c.laneCooldownUntil {
		c.laneCooldownUntil[i] = now - c.cfg.LaneCooldown
	}
	c.warnedUnset = [categoryCount]bool{}
	c.stats = Stats{}

	c.active = true
	for _, cd := range c.cadences {
		cd.schedule(now, c.rng)
	}

	slog.Info("spawner started",
		"lanes", n,
		"min_global_gap", c.cfg.MinGlobalGap,
		"lane_cooldown", c.cfg.LaneCooldown)
	return nil
}

// Stop halts all cadences. Pending waits are abandoned. Safe to call repeatedly.
func (c *Coordinator) Stop() {
	if !c.active {
		return
	}
	c.active = false
	for _, cd := range c.cadences {
		cd.cancel()
	}
	slog.Info("spawner stopped", "commits", c.stats.TotalCommits())
}

// Active reports whether spawning is running.
func (c *Coordinator) Active() bool {
	return c.active
}

// Stats returns outcome counters since the last Start.
func (c *Coordinator) Stats() Stats {
	return c.stats
}

// Tick fires every cadence whose wait has elapsed, in category order.
// Each fired cadence makes one attempt and waits a new interval from now.
func (c *Coordinator) Tick() {
	if !c.active {
		return
	}

	now := c.clock.Now()
	for _, cd := range c.cadences {
		if !c.active {
			return
		}
		if !cd.due(now) {
			continue
		}

		if _, err := c.attempt(cd.category, now, randomLane); err != nil {
			slog.Error("spawn attempt failed",
				"category", cd.category,
				"error", err)
		}
		cd.schedule(now, c.rng)
	}
}

// Attempt runs one gated spawn attempt for category cat in a random lane.
func (c *Coordinator) Attempt(cat Category) (Outcome, error) {
	return c.attempt(cat, c.clock.Now(), randomLane)
}

// AttemptLane runs one gated spawn attempt for category cat in lane laneIndex.
func (c *Coordinator) AttemptLane(cat Category, laneIndex int) (Outcome, error) {
	if laneIndex < 0 {
		return OutcomeInvalidLane, fmt.Errorf("spawning %s: %w: %d", cat, lane.ErrInvalidIndex, laneIndex)
	}
	return c.attempt(cat, c.clock.Now(), laneIndex)
}

// attempt applies the gating rules at now.
func (c *Coordinator) attempt(cat Category, now time.Duration, laneIndex int) (Outcome, error) {
	if cat < 0 || cat >= categoryCount {
		return OutcomeKindUnset, fmt.Errorf("unknown spawn category %d", int(cat))
	}
	if !c.active {
		return OutcomeInactive, nil
	}

	outcome, err := c.gate(cat, now, laneIndex)
	c.stats.Outcomes[cat][outcome]++
	return outcome, err
}

func (c *Coordinator) gate(cat Category, now time.Duration, laneIndex int) (Outcome, error) {
	kind := c.cfg.Kinds[cat]
	if kind == "" {
		if !c.warnedUnset[cat] {
			c.warnedUnset[cat] = true
			slog.Warn("spawn kind not configured, skipping category", "category", cat)
		}
		return OutcomeKindUnset, nil
	}

	if now < c.lastGlobalSpawn+c.cfg.MinGlobalGap {
		slog.Debug("spawn blocked by global gap",
			"category", cat,
			"now", now,
			"last", c.lastGlobalSpawn)
		return OutcomeGlobalCooldown, nil
	}

	if laneIndex == randomLane {
		laneIndex = c.rng.IntN(c.lanes.Count())
	}
	if laneIndex >= len(c.laneCooldownUntil) {
		return OutcomeInvalidLane, fmt.Errorf("spawning %s: %w: %d (cooldowns: %d)",
			cat, lane.ErrInvalidIndex, laneIndex, len(c.laneCooldownUntil))
	}

	if now < c.laneCooldownUntil[laneIndex] {
		slog.Debug("spawn blocked by lane cooldown",
			"category", cat,
			"lane", laneIndex,
			"until", c.laneCooldownUntil[laneIndex])
		return OutcomeLaneCooldown, nil
	}

	y, err := c.lanes.Position(laneIndex)
	if err != nil {
		return OutcomeInvalidLane, fmt.Errorf("spawning %s: %w", cat, err)
	}

	c.lastGlobalSpawn = now
	c.laneCooldownUntil[laneIndex] = now + c.cfg.LaneCooldown

	ev := Event{
		Category: cat,
		Kind:     kind,
		Lane:     laneIndex,
		Position: Vec2{X: c.cfg.SpawnX, Y: y},
		At:       now,
	}
	if c.sink != nil {
		c.sink.Spawn(ev)
	}

	slog.Debug("spawn committed",
		"category", cat,
		"kind", kind,
		"lane", laneIndex,
		"at", now)
	return OutcomeCommitted, nil
}
