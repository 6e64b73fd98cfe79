package spawn

import (
	"errors"
	"fmt"
	"time"
)

// Category identifies one of the independently clocked spawn streams.
// Declaration order is the processing order within a single tick.
type Category int

const (
	CategoryHeart       Category = iota // periodic
	CategoryCollectible                 // randomized interval
	CategoryObstacle                    // randomized interval

	categoryCount
)

// Categories lists all categories in processing order.
var Categories = [categoryCount]Category{CategoryHeart, CategoryCollectible, CategoryObstacle}

func (c Category) String() string {
	switch c {
	case CategoryHeart:
		return "heart"
	case CategoryCollectible:
		return "collectible"
	case CategoryObstacle:
		return "obstacle"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Kind is an opaque entity kind payload handed to the sink. The empty Kind is unset.
type Kind string

// Range is a [Min, Max) duration range. Max <= Min always yields Min.
type Range struct {
	Min time.Duration
	Max time.Duration
}

// Config holds per-session spawn tuning.
type Config struct {
	HeartInterval       time.Duration
	CollectibleInterval Range
	ObstacleInterval    Range
	SpawnX              float64
	MinGlobalGap        time.Duration
	LaneCooldown        time.Duration
	Kinds               map[Category]Kind
}

// DefaultConfig returns the tuning the game ships with.
func DefaultConfig() Config {
	return Config{
		HeartInterval:       45 * time.Second,
		CollectibleInterval: Range{Min: 3 * time.Second, Max: 8 * time.Second},
		ObstacleInterval:    Range{Min: 1 * time.Second, Max: 4 * time.Second},
		SpawnX:              12,
		MinGlobalGap:        200 * time.Millisecond,
		LaneCooldown:        500 * time.Millisecond,
		Kinds: map[Category]Kind{
			CategoryHeart:       "heart",
			CategoryCollectible: "burger",
			CategoryObstacle:    "obstacle",
		},
	}
}

// Validate checks that every interval can be scheduled.
func (c Config) Validate() error {
	var errs []error
	if c.HeartInterval <= 0 {
		errs = append(errs, fmt.Errorf("heart interval must be positive, got %s", c.HeartInterval))
	}
	if err := c.CollectibleInterval.validate(); err != nil {
		errs = append(errs, fmt.Errorf("collectible interval: %w", err))
	}
	if err := c.ObstacleInterval.validate(); err != nil {
		errs = append(errs, fmt.Errorf("obstacle interval: %w", err))
	}
	if c.MinGlobalGap < 0 {
		errs = append(errs, fmt.Errorf("min global gap must not be negative, got %s", c.MinGlobalGap))
	}
	if c.LaneCooldown < 0 {
		errs = append(errs, fmt.Errorf("lane cooldown must not be negative, got %s", c.LaneCooldown))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrConfiguration, errors.Join(errs...))
	}
	return nil
}

func (r Range) validate() error {
	if r.Min <= 0 {
		return fmt.Errorf("min must be positive, got %s", r.Min)
	}
	if r.Max < r.Min {
		return fmt.Errorf("max %s is below min %s", r.Max, r.Min)
	}
	return nil
}

// sample returns a uniformly distributed duration in [Min, Max).
func (r Range) sample(rng Rand) time.Duration {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + time.Duration(rng.Int64N(int64(r.Max-r.Min)))
}
