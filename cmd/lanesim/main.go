// lanesim runs the spawn coordinator headless on a manual clock and prints
// what it committed. Use it to tune cadences and cooldowns.
//
// Usage:
//
//	go run ./cmd/lanesim -duration 10m -seed 7
//	LANERUNNER_CONFIG=config/lanerunner.yaml go run ./cmd/lanesim
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"text/tabwriter"
	"time"

	"github.com/udisondev/lanerunner/internal/config"
	"github.com/udisondev/lanerunner/internal/lane"
	"github.com/udisondev/lanerunner/internal/spawn"
)

func main() {
	cfgPath := flag.String("config", envOr("LANERUNNER_CONFIG", "config/lanerunner.yaml"), "config file")
	duration := flag.Duration("duration", 10*time.Minute, "simulated game time")
	step := flag.Duration("step", 16*time.Millisecond, "tick length")
	seed := flag.Uint64("seed", 1, "random seed")
	verbose := flag.Bool("v", false, "log every gating decision")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	res, err := simulate(cfg, *duration, *step, *seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	res.write(os.Stdout, *duration, *seed)
}

type result struct {
	stats       spawn.Stats
	perLane     []int
	minGap      time.Duration
	minLaneGap  time.Duration
	lastSpawnAt time.Duration
}

func simulate(cfg config.Config, duration, step time.Duration, seed uint64) (result, error) {
	if step <= 0 {
		return result{}, fmt.Errorf("step must be positive, got %s", step)
	}

	spawnCfg := cfg.Spawn.Coordinator()
	if err := spawnCfg.Validate(); err != nil {
		return result{}, err
	}

	lanes := lane.NewOrDefault(cfg.Lanes.Positions)
	clock := spawn.NewManualClock(0)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	res := result{
		perLane:    make([]int, lanes.Count()),
		minGap:     -1,
		minLaneGap: -1,
	}
	lastInLane := make([]time.Duration, lanes.Count())
	seen := make([]bool, lanes.Count())
	var last time.Duration
	var spawned bool

	sink := spawn.SinkFunc(func(ev spawn.Event) {
		res.perLane[ev.Lane]++
		if spawned {
			res.minGap = minPositive(res.minGap, ev.At-last)
		}
		if seen[ev.Lane] {
			res.minLaneGap = minPositive(res.minLaneGap, ev.At-lastInLane[ev.Lane])
		}
		last, spawned = ev.At, true
		lastInLane[ev.Lane], seen[ev.Lane] = ev.At, true
		res.lastSpawnAt = ev.At
	})

	coord := spawn.New(spawnCfg, lanes, clock, rng, sink)
	if err := coord.Start(); err != nil {
		return result{}, err
	}
	for clock.Now() < duration {
		clock.Advance(step)
		coord.Tick()
	}
	res.stats = coord.Stats()
	coord.Stop()

	return res, nil
}

func (r result) write(w io.Writer, duration time.Duration, seed uint64) {
	fmt.Fprintf(w, "simulated %s, seed %d\n\n", duration, seed)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "category\tattempts\tcommitted\tglobal gap\tlane cooldown\tkind unset\tinvalid lane")
	for _, c := range spawn.Categories {
		o := r.stats.Outcomes[c]
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\n", c,
			r.stats.Attempts(c),
			o[spawn.OutcomeCommitted],
			o[spawn.OutcomeGlobalCooldown],
			o[spawn.OutcomeLaneCooldown],
			o[spawn.OutcomeKindUnset],
			o[spawn.OutcomeInvalidLane])
	}
	tw.Flush()

	fmt.Fprintf(w, "\ntotal commits:     %d\n", r.stats.TotalCommits())
	for i, n := range r.perLane {
		fmt.Fprintf(w, "lane %d commits:    %d\n", i, n)
	}
	fmt.Fprintf(w, "min global gap:    %s\n", fmtGap(r.minGap))
	fmt.Fprintf(w, "min same-lane gap: %s\n", fmtGap(r.minLaneGap))
	fmt.Fprintf(w, "last spawn at:     %s\n", r.lastSpawnAt)
}

func minPositive(cur, d time.Duration) time.Duration {
	if cur < 0 {
		return d
	}
	return min(cur, d)
}

func fmtGap(d time.Duration) string {
	if d < 0 {
		return "n/a"
	}
	return d.String()
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
