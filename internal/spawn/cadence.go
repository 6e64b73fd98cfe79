package spawn

import "time"

// cadence is one spawn stream: it fires when the clock reaches next,
// then waits a fresh interval measured from the fire time.
type cadence struct {
	category  Category
	fixed     time.Duration
	interval  Range
	randomize bool

	next      time.Duration
	scheduled bool
}

func newCadences(cfg Config) [categoryCount]*cadence {
	return [categoryCount]*cadence{
		CategoryHeart:       {category: CategoryHeart, fixed: cfg.HeartInterval},
		CategoryCollectible: {category: CategoryCollectible, interval: cfg.CollectibleInterval, randomize: true},
		CategoryObstacle:    {category: CategoryObstacle, interval: cfg.ObstacleInterval, randomize: true},
	}
}

func (c *cadence) wait(rng Rand) time.Duration {
	if c.randomize {
		return c.interval.sample(rng)
	}
	return c.fixed
}

// schedule arms the cadence to fire one interval after now.
func (c *cadence) schedule(now time.Duration, rng Rand) {
	c.next = now + c.wait(rng)
	c.scheduled = true
}

// cancel abandons the pending wait.
func (c *cadence) cancel() {
	c.scheduled = false
	c.next = 0
}

// due reports whether the pending wait has elapsed at now.
func (c *cadence) due(now time.Duration) bool {
	return c.scheduled && now >= c.next
}
