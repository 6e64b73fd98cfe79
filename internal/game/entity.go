package game

import (
	"github.com/udisondev/lanerunner/internal/spawn"
)

// Entity is a spawned object scrolling toward the player.
type Entity struct {
	ID       uint64         `json:"id"`
	Category spawn.Category `json:"-"`
	Kind     spawn.Kind     `json:"kind"`
	Lane     int            `json:"lane"`
	X        float64        `json:"x"`
	Y        float64        `json:"y"`
}

// field holds live entities in spawn order.
type field struct {
	entities []*Entity
	nextID   uint64
}

func (f *field) add(ev spawn.Event) *Entity {
	f.nextID++
	e := &Entity{
		ID:       f.nextID,
		Category: ev.Category,
		Kind:     ev.Kind,
		Lane:     ev.Lane,
		X:        ev.Position.X,
		Y:        ev.Position.Y,
	}
	f.entities = append(f.entities, e)
	return e
}

func (f *field) clear() {
	clear(f.entities)
	f.entities = f.entities[:0]
}

func (f *field) len() int {
	return len(f.entities)
}

// sweepOverlaps reports whether an entity that moved from prevX to x
// passed through the player's hit box.
func sweepOverlaps(prevX, x, playerX, radius float64) bool {
	return x <= playerX+radius && prevX >= playerX-radius
}
