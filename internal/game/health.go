package game

// Health tracks the player's hit points.
type Health struct {
	current int
	max     int
}

func newHealth(limit int) Health {
	return Health{current: limit, max: limit}
}

// Current returns the remaining hit points.
func (h *Health) Current() int { return h.current }

// Max returns the hit point cap.
func (h *Health) Max() int { return h.max }

// Dead reports whether the player has no hit points left.
func (h *Health) Dead() bool { return h.current <= 0 }

func (h *Health) reset() { h.current = h.max }

// takeDamage lowers health, never below zero. It reports whether health
// changed and whether this hit was fatal.
func (h *Health) takeDamage(amount int) (changed, died bool) {
	if h.Dead() || amount <= 0 {
		return false, false
	}
	h.current = max(0, h.current-amount)
	return true, h.current == 0
}

// heal raises health up to the cap. A dead player cannot be healed.
func (h *Health) heal(amount int) bool {
	if h.Dead() || amount <= 0 {
		return false
	}
	before := h.current
	h.current = min(h.max, h.current+amount)
	return h.current != before
}
