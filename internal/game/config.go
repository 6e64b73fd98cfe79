package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/udisondev/lanerunner/internal/spawn"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid game config")

// Config holds the tuning of one match.
type Config struct {
	Spawn spawn.Config

	InitialSpeed         float64
	SpeedIncrement       float64
	ScoreToIncreaseSpeed int
	MaxSpeed             float64

	MaxHealth int

	PlayerX    float64
	HitRadius  float64
	OffScreenX float64

	HeartHeal        int
	CollectibleScore int
	ObstacleDamage   int

	// MaxStep caps the game time a single tick may advance.
	MaxStep time.Duration
}

// DefaultConfig returns the tuning the game ships with.
func DefaultConfig() Config {
	return Config{
		Spawn:                spawn.DefaultConfig(),
		InitialSpeed:         5,
		SpeedIncrement:       0.5,
		ScoreToIncreaseSpeed: 500,
		MaxSpeed:             20,
		MaxHealth:            3,
		PlayerX:              -6,
		HitRadius:            0.5,
		OffScreenX:           -12,
		HeartHeal:            1,
		CollectibleScore:     50,
		ObstacleDamage:       1,
		MaxStep:              250 * time.Millisecond,
	}
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if err := c.Spawn.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.InitialSpeed <= 0 {
		errs = append(errs, fmt.Errorf("initial speed must be positive, got %v", c.InitialSpeed))
	}
	if c.MaxSpeed < c.InitialSpeed {
		errs = append(errs, fmt.Errorf("max speed %v is below initial speed %v", c.MaxSpeed, c.InitialSpeed))
	}
	if c.ScoreToIncreaseSpeed <= 0 {
		errs = append(errs, fmt.Errorf("score to increase speed must be positive, got %d", c.ScoreToIncreaseSpeed))
	}
	if c.MaxHealth <= 0 {
		errs = append(errs, fmt.Errorf("max health must be positive, got %d", c.MaxHealth))
	}
	if c.HitRadius <= 0 {
		errs = append(errs, fmt.Errorf("hit radius must be positive, got %v", c.HitRadius))
	}
	if c.OffScreenX >= c.Spawn.SpawnX {
		errs = append(errs, fmt.Errorf("off-screen x %v must be left of spawn x %v", c.OffScreenX, c.Spawn.SpawnX))
	}
	if c.MaxStep <= 0 {
		errs = append(errs, fmt.Errorf("max step must be positive, got %s", c.MaxStep))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
