package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealth(t *testing.T) {
	h := newHealth(3)

	assert.False(t, h.heal(1), "already at max")

	changed, died := h.takeDamage(1)
	assert.True(t, changed)
	assert.False(t, died)
	assert.Equal(t, 2, h.Current())

	assert.True(t, h.heal(5))
	assert.Equal(t, 3, h.Current(), "heal is capped")

	changed, died = h.takeDamage(10)
	assert.True(t, changed)
	assert.True(t, died)
	assert.Equal(t, 0, h.Current(), "damage is floored at zero")

	changed, died = h.takeDamage(1)
	assert.False(t, changed)
	assert.False(t, died, "death is reported once")
	assert.False(t, h.heal(1), "dead players cannot heal")

	h.reset()
	assert.Equal(t, 3, h.Current())
	assert.False(t, h.Dead())
}

func TestProgression(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitialSpeed = 5
	cfg.SpeedIncrement = 0.5
	cfg.ScoreToIncreaseSpeed = 500
	cfg.MaxSpeed = 6

	tests := []struct {
		name        string
		points      []int
		wantScore   int
		wantSpeed   float64
		wantChanged bool // from the last add
	}{
		{name: "below threshold", points: []int{50, 400}, wantScore: 450, wantSpeed: 5},
		{name: "exact threshold", points: []int{250, 250}, wantScore: 500, wantSpeed: 5.5, wantChanged: true},
		{name: "two thresholds at once", points: []int{1000}, wantScore: 1000, wantSpeed: 6, wantChanged: true},
		{name: "capped", points: []int{1000, 2000}, wantScore: 3000, wantSpeed: 6},
		{name: "non-positive ignored", points: []int{0, -50}, wantScore: 0, wantSpeed: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProgression(cfg)
			var changed bool
			for _, pts := range tt.points {
				changed = p.add(pts)
			}
			assert.Equal(t, tt.wantScore, p.score)
			assert.Equal(t, tt.wantSpeed, p.speed)
			assert.Equal(t, tt.wantChanged, changed)

			p.reset()
			assert.Equal(t, 0, p.score)
			assert.Equal(t, 5.0, p.speed)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.MaxHealth = 0
	cfg.OffScreenX = 20
	cfg.Spawn.HeartInterval = 0
	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorContains(t, err, "max health")
	assert.ErrorContains(t, err, "off-screen")
	assert.ErrorContains(t, err, "heart interval")
}
