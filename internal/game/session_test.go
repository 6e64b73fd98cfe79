package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/lanerunner/internal/event"
	"github.com/udisondev/lanerunner/internal/lane"
	"github.com/udisondev/lanerunner/internal/spawn"
)

const frame = 16 * time.Millisecond

// fixedRand sends every spawn to one lane and always waits the shortest interval.
type fixedRand struct {
	lane int
}

func (r fixedRand) IntN(n int) int   { return r.lane % n }
func (fixedRand) Int64N(int64) int64 { return 0 }

// testConfig disables every cadence; tests enable the ones they need.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Spawn.HeartInterval = time.Hour
	cfg.Spawn.CollectibleInterval = spawn.Range{Min: time.Hour, Max: time.Hour}
	cfg.Spawn.ObstacleInterval = spawn.Range{Min: time.Hour, Max: time.Hour}
	return cfg
}

func newTestSession(t *testing.T, cfg Config, spawnLane int) (*Session, *event.Subscription) {
	t.Helper()
	require.NoError(t, cfg.Validate())

	lanes, err := lane.New(lane.DefaultPositions)
	require.NoError(t, err)

	bus := event.NewBus()
	sub := bus.Subscribe(100_000)
	t.Cleanup(bus.Close)

	return NewSession(cfg, lanes, fixedRand{lane: spawnLane}, bus), sub
}

func drain(sub *event.Subscription) []event.Event {
	var out []event.Event
	for {
		select {
		case ev := <-sub.C():
			out = append(out, ev)
		default:
			return out
		}
	}
}

func ofType[T event.Event](events []event.Event) []T {
	var out []T
	for _, ev := range events {
		if v, ok := ev.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func run(s *Session, d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += frame {
		s.Tick(frame)
	}
}

func TestSession_Start(t *testing.T) {
	s, sub := newTestSession(t, testConfig(), 1)
	require.NoError(t, s.Start())

	snap := s.Snapshot()
	assert.True(t, snap.Started)
	assert.False(t, snap.Over)
	assert.Equal(t, 1, snap.Lane)
	assert.Equal(t, 3, snap.Health)
	assert.Equal(t, 3, snap.MaxHealth)
	assert.Equal(t, 5.0, snap.Speed)
	assert.Equal(t, []float64{2, 0, -2}, snap.Lanes)
	assert.Empty(t, snap.Entities)

	events := drain(sub)
	require.NotEmpty(t, events)
	started, ok := events[0].(event.GameStarted)
	require.True(t, ok)
	assert.Equal(t, 1, started.Lane)
}

func TestSession_StartWithoutLanes(t *testing.T) {
	s := NewSession(testConfig(), nil, fixedRand{}, nil)

	err := s.Start()
	require.ErrorIs(t, err, spawn.ErrConfiguration)
	assert.False(t, s.spawn.Active())

	s.Tick(time.Second)
	assert.False(t, s.Over())

	s.MoveUp()
	s.MoveDown()
	s.TogglePause()
	snap := s.Snapshot()
	assert.False(t, snap.Started)
	assert.Nil(t, snap.Lanes)
	assert.Equal(t, 0, snap.Lane)
}

func TestSession_ObstaclesEndMatch(t *testing.T) {
	cfg := testConfig()
	cfg.Spawn.ObstacleInterval = spawn.Range{Min: time.Second, Max: time.Second}
	s, sub := newTestSession(t, cfg, 1)
	require.NoError(t, s.Start())

	run(s, 20*time.Second)
	require.True(t, s.Over())

	events := drain(sub)
	health := ofType[event.HealthChanged](events)
	require.GreaterOrEqual(t, len(health), 4)
	assert.Equal(t, 0, health[len(health)-1].Health)

	require.Len(t, ofType[event.PlayerDied](events), 1)
	overs := ofType[event.GameOver](events)
	require.Len(t, overs, 1)
	assert.Equal(t, 3, overs[0].Obstacles)
	assert.GreaterOrEqual(t, overs[0].Commits, 3)
	assert.Greater(t, overs[0].Duration, 4*time.Second)

	assert.False(t, s.spawn.Active(), "spawner stops at game over")

	// The field freezes once the match is over.
	before := s.Snapshot()
	run(s, 5*time.Second)
	after := s.Snapshot()
	assert.Equal(t, before.At, after.At)
	assert.Equal(t, before.Entities, after.Entities)
	assert.Empty(t, ofType[event.Spawned](drain(sub)))
}

func TestSession_DodgeObstacles(t *testing.T) {
	cfg := testConfig()
	cfg.Spawn.ObstacleInterval = spawn.Range{Min: time.Second, Max: time.Second}
	s, sub := newTestSession(t, cfg, 1)
	require.NoError(t, s.Start())

	s.MoveUp()
	run(s, 10*time.Second)

	snap := s.Snapshot()
	assert.False(t, snap.Over)
	assert.Equal(t, 3, snap.Health)
	for _, e := range snap.Entities {
		assert.GreaterOrEqual(t, e.X, cfg.OffScreenX)
		assert.Equal(t, 1, e.Lane)
		assert.Equal(t, 0.0, e.Y)
	}

	events := drain(sub)
	spawned := ofType[event.Spawned](events)
	despawned := ofType[event.Despawned](events)
	require.NotEmpty(t, despawned)
	for _, d := range despawned {
		assert.Equal(t, "offscreen", d.Reason)
	}
	assert.Equal(t, len(spawned), len(despawned)+len(snap.Entities))

	lanes := ofType[event.LaneChanged](events)
	require.Len(t, lanes, 1)
	assert.Equal(t, event.LaneChanged{Lane: 0, Y: 2}, lanes[0])
}

func TestSession_CollectiblesRaiseSpeed(t *testing.T) {
	cfg := testConfig()
	cfg.Spawn.CollectibleInterval = spawn.Range{Min: time.Second, Max: time.Second}
	cfg.CollectibleScore = 250
	s, sub := newTestSession(t, cfg, 1)
	require.NoError(t, s.Start())

	deadline := 30 * time.Second
	for elapsed := time.Duration(0); s.Snapshot().Score < 500 && elapsed < deadline; elapsed += frame {
		s.Tick(frame)
	}

	snap := s.Snapshot()
	require.Equal(t, 500, snap.Score)
	assert.Equal(t, 5.5, snap.Speed)

	events := drain(sub)
	scores := ofType[event.ScoreChanged](events)
	assert.Equal(t, []event.ScoreChanged{{Score: 0}, {Score: 250}, {Score: 500}}, scores)
	speeds := ofType[event.SpeedChanged](events)
	require.Len(t, speeds, 2)
	assert.Equal(t, 5.5, speeds[1].Speed)
}

func TestSession_HeartsCappedAtMax(t *testing.T) {
	cfg := testConfig()
	cfg.Spawn.HeartInterval = time.Second
	s, sub := newTestSession(t, cfg, 1)
	require.NoError(t, s.Start())
	drain(sub)

	run(s, 8*time.Second)

	assert.Equal(t, 3, s.Snapshot().Health)
	assert.Empty(t, ofType[event.HealthChanged](drain(sub)))
	assert.Equal(t, 0, s.Snapshot().Score)
}

func TestSession_PauseFreezesTime(t *testing.T) {
	cfg := testConfig()
	cfg.Spawn.ObstacleInterval = spawn.Range{Min: time.Second, Max: time.Second}
	s, sub := newTestSession(t, cfg, 0)
	require.NoError(t, s.Start())

	s.Pause()
	assert.True(t, s.Paused())
	run(s, 5*time.Second)

	assert.Equal(t, time.Duration(0), s.Snapshot().At)
	events := drain(sub)
	assert.Empty(t, ofType[event.Spawned](events))
	assert.Len(t, ofType[event.Paused](events), 1)

	s.TogglePause()
	assert.False(t, s.Paused())
	run(s, 1100*time.Millisecond)

	events = drain(sub)
	assert.Len(t, ofType[event.Resumed](events), 1)
	assert.Len(t, ofType[event.Spawned](events), 1)
}

func TestSession_Restart(t *testing.T) {
	cfg := testConfig()
	cfg.Spawn.ObstacleInterval = spawn.Range{Min: time.Second, Max: time.Second}
	s, sub := newTestSession(t, cfg, 1)

	require.ErrorIs(t, s.Restart(), ErrNotStarted)
	require.NoError(t, s.Start())
	require.ErrorIs(t, s.Restart(), ErrMatchInProgress)

	run(s, 20*time.Second)
	require.True(t, s.Over())

	// Moving and pausing are ignored after game over.
	s.MoveUp()
	s.Pause()
	assert.Equal(t, 1, s.Snapshot().Lane)
	assert.False(t, s.Paused())

	require.NoError(t, s.Restart())
	drain(sub)

	snap := s.Snapshot()
	assert.False(t, snap.Over)
	assert.Equal(t, 3, snap.Health)
	assert.Equal(t, 0, snap.Score)
	assert.Empty(t, snap.Entities)
	assert.True(t, s.spawn.Active())
	assert.Equal(t, 0, s.SpawnStats().TotalCommits())

	run(s, 1100*time.Millisecond)
	assert.Len(t, ofType[event.Spawned](drain(sub)), 1)
}

func TestSession_LaneClamp(t *testing.T) {
	s, sub := newTestSession(t, testConfig(), 0)

	s.MoveUp()
	assert.Equal(t, 0, s.Snapshot().Lane, "ignored before start")

	require.NoError(t, s.Start())
	drain(sub)

	s.MoveUp()
	s.MoveUp()
	s.MoveUp()
	assert.Equal(t, 0, s.Snapshot().Lane)

	for range 5 {
		s.MoveDown()
	}
	assert.Equal(t, 2, s.Snapshot().Lane)

	lanes := ofType[event.LaneChanged](drain(sub))
	assert.Equal(t, []event.LaneChanged{{Lane: 0, Y: 2}, {Lane: 1, Y: 0}, {Lane: 2, Y: -2}}, lanes)
}

func TestSession_TickCappedByMaxStep(t *testing.T) {
	cfg := testConfig()
	cfg.MaxStep = 100 * time.Millisecond
	s, _ := newTestSession(t, cfg, 0)
	require.NoError(t, s.Start())

	s.Tick(10 * time.Second)
	assert.Equal(t, 100*time.Millisecond, s.Snapshot().At)

	s.Tick(-time.Second)
	assert.Equal(t, 100*time.Millisecond, s.Snapshot().At)
}

func TestSweepOverlaps(t *testing.T) {
	tests := []struct {
		name        string
		prevX, x    float64
		wantOverlap bool
	}{
		{name: "approaching", prevX: 0, x: -1, wantOverlap: false},
		{name: "entering", prevX: -5.4, x: -5.6, wantOverlap: true},
		{name: "inside", prevX: -5.9, x: -6.1, wantOverlap: true},
		{name: "tunneling through", prevX: -4, x: -8, wantOverlap: true},
		{name: "passed", prevX: -6.6, x: -6.8, wantOverlap: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantOverlap, sweepOverlaps(tt.prevX, tt.x, -6, 0.5))
		})
	}
}
