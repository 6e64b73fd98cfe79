package config

import (
	"time"

	"github.com/udisondev/lanerunner/internal/game"
	"github.com/udisondev/lanerunner/internal/spawn"
)

// LanesConfig lists lane vertical positions, top to bottom.
type LanesConfig struct {
	Positions []float64 `yaml:"positions"`
}

// DefaultLanes returns the three standard lanes.
func DefaultLanes() LanesConfig {
	return LanesConfig{Positions: []float64{2, 0, -2}}
}

// IntervalConfig is a [min, max) wait range.
type IntervalConfig struct {
	Min time.Duration `yaml:"min"`
	Max time.Duration `yaml:"max"`
}

// SpawnConfig holds spawn cadences and spacing rules.
type SpawnConfig struct {
	HeartInterval       time.Duration  `yaml:"heart_interval"`
	CollectibleInterval IntervalConfig `yaml:"collectible_interval"`
	ObstacleInterval    IntervalConfig `yaml:"obstacle_interval"`
	SpawnX              float64        `yaml:"spawn_x"`
	MinGlobalGap        time.Duration  `yaml:"min_global_gap"`
	LaneCooldown        time.Duration  `yaml:"lane_cooldown"`

	// Entity kinds per category; an empty kind disables the category.
	HeartKind       string `yaml:"heart_kind"`
	CollectibleKind string `yaml:"collectible_kind"`
	ObstacleKind    string `yaml:"obstacle_kind"`
}

// DefaultSpawn mirrors spawn.DefaultConfig.
func DefaultSpawn() SpawnConfig {
	d := spawn.DefaultConfig()
	return SpawnConfig{
		HeartInterval:       d.HeartInterval,
		CollectibleInterval: IntervalConfig(d.CollectibleInterval),
		ObstacleInterval:    IntervalConfig(d.ObstacleInterval),
		SpawnX:              d.SpawnX,
		MinGlobalGap:        d.MinGlobalGap,
		LaneCooldown:        d.LaneCooldown,
		HeartKind:           string(d.Kinds[spawn.CategoryHeart]),
		CollectibleKind:     string(d.Kinds[spawn.CategoryCollectible]),
		ObstacleKind:        string(d.Kinds[spawn.CategoryObstacle]),
	}
}

// Coordinator converts the YAML section to coordinator settings.
func (s SpawnConfig) Coordinator() spawn.Config {
	return spawn.Config{
		HeartInterval:       s.HeartInterval,
		CollectibleInterval: spawn.Range(s.CollectibleInterval),
		ObstacleInterval:    spawn.Range(s.ObstacleInterval),
		SpawnX:              s.SpawnX,
		MinGlobalGap:        s.MinGlobalGap,
		LaneCooldown:        s.LaneCooldown,
		Kinds: map[spawn.Category]spawn.Kind{
			spawn.CategoryHeart:       spawn.Kind(s.HeartKind),
			spawn.CategoryCollectible: spawn.Kind(s.CollectibleKind),
			spawn.CategoryObstacle:    spawn.Kind(s.ObstacleKind),
		},
	}
}

// GameConfig holds match rules.
type GameConfig struct {
	InitialSpeed         float64       `yaml:"initial_speed"`
	SpeedIncrement       float64       `yaml:"speed_increment"`
	ScoreToIncreaseSpeed int           `yaml:"score_to_increase_speed"`
	MaxSpeed             float64       `yaml:"max_speed"`
	MaxHealth            int           `yaml:"max_health"`
	PlayerX              float64       `yaml:"player_x"`
	HitRadius            float64       `yaml:"hit_radius"`
	OffScreenX           float64       `yaml:"off_screen_x"`
	HeartHeal            int           `yaml:"heart_heal"`
	CollectibleScore     int           `yaml:"collectible_score"`
	ObstacleDamage       int           `yaml:"obstacle_damage"`
	MaxStep              time.Duration `yaml:"max_step"`
}

// DefaultGame mirrors game.DefaultConfig.
func DefaultGame() GameConfig {
	d := game.DefaultConfig()
	return GameConfig{
		InitialSpeed:         d.InitialSpeed,
		SpeedIncrement:       d.SpeedIncrement,
		ScoreToIncreaseSpeed: d.ScoreToIncreaseSpeed,
		MaxSpeed:             d.MaxSpeed,
		MaxHealth:            d.MaxHealth,
		PlayerX:              d.PlayerX,
		HitRadius:            d.HitRadius,
		OffScreenX:           d.OffScreenX,
		HeartHeal:            d.HeartHeal,
		CollectibleScore:     d.CollectibleScore,
		ObstacleDamage:       d.ObstacleDamage,
		MaxStep:              d.MaxStep,
	}
}

// GameConfig assembles the full match configuration.
func (c Config) GameConfig() game.Config {
	g := c.Game
	return game.Config{
		Spawn:                c.Spawn.Coordinator(),
		InitialSpeed:         g.InitialSpeed,
		SpeedIncrement:       g.SpeedIncrement,
		ScoreToIncreaseSpeed: g.ScoreToIncreaseSpeed,
		MaxSpeed:             g.MaxSpeed,
		MaxHealth:            g.MaxHealth,
		PlayerX:              g.PlayerX,
		HitRadius:            g.HitRadius,
		OffScreenX:           g.OffScreenX,
		HeartHeal:            g.HeartHeal,
		CollectibleScore:     g.CollectibleScore,
		ObstacleDamage:       g.ObstacleDamage,
		MaxStep:              g.MaxStep,
	}
}
