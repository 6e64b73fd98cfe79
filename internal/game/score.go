package game

// progression couples the score with the scroll speed: every
// scoreStep points crossed raises the speed by increment, up to maxSpeed.
type progression struct {
	score int
	speed float64

	initial        float64
	increment      float64
	maxSpeed       float64
	scoreStep      int
	lastSpeedScore int
}

func newProgression(cfg Config) progression {
	return progression{
		speed:     cfg.InitialSpeed,
		initial:   cfg.InitialSpeed,
		increment: cfg.SpeedIncrement,
		maxSpeed:  cfg.MaxSpeed,
		scoreStep: cfg.ScoreToIncreaseSpeed,
	}
}

func (p *progression) reset() {
	p.score = 0
	p.speed = p.initial
	p.lastSpeedScore = 0
}

// add adds points and reports whether the speed changed.
func (p *progression) add(points int) (speedChanged bool) {
	if points <= 0 {
		return false
	}
	p.score += points

	before := p.speed
	for p.score >= p.lastSpeedScore+p.scoreStep {
		p.lastSpeedScore += p.scoreStep
		p.speed = min(p.speed+p.increment, p.maxSpeed)
	}
	return p.speed != before
}
