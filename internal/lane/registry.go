package lane

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
)

var (
	// ErrInvalidIndex is returned for a lane index outside [0, Count()).
	ErrInvalidIndex = errors.New("invalid lane index")

	// ErrInvalidConfiguration is returned when a registry is built without lanes.
	ErrInvalidConfiguration = errors.New("invalid lane configuration")
)

// DefaultPositions are the vertical coordinates of the top, middle and bottom lanes.
var DefaultPositions = []float64{2, 0, -2}

// Registry holds the ordered vertical positions of all lanes.
// It is immutable after construction and safe for concurrent readers.
type Registry struct {
	positions []float64
}

// New creates a registry from lane positions (top to bottom).
func New(positions []float64) (*Registry, error) {
	if len(positions) == 0 {
		return nil, fmt.Errorf("creating lane registry: %w: no lane positions", ErrInvalidConfiguration)
	}
	return &Registry{positions: slices.Clone(positions)}, nil
}

// NewOrDefault creates a registry, falling back to DefaultPositions when
// positions is empty so a misconfigured session stays playable.
func NewOrDefault(positions []float64) *Registry {
	r, err := New(positions)
	if err != nil {
		slog.Warn("lane positions not configured, using defaults",
			"defaults", DefaultPositions,
			"error", err)
		return &Registry{positions: slices.Clone(DefaultPositions)}
	}
	return r
}

// Position returns the vertical coordinate of lane i.
func (r *Registry) Position(i int) (float64, error) {
	if i < 0 || i >= len(r.positions) {
		return 0, fmt.Errorf("%w: %d (lanes: %d)", ErrInvalidIndex, i, len(r.positions))
	}
	return r.positions[i], nil
}

// Count returns the number of lanes.
func (r *Registry) Count() int {
	return len(r.positions)
}

// Middle returns the index of the middle lane.
func (r *Registry) Middle() int {
	return len(r.positions) / 2
}

// Positions returns a copy of all lane positions.
func (r *Registry) Positions() []float64 {
	return slices.Clone(r.positions)
}
