package live

import "github.com/charmbracelet/harmonica"

// Pulse is a spring that swings between 0 and 1, driving the brightness of
// the "detection in progress" indicator.
type Pulse struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
	target float64
}

// NewPulse creates a pulse advanced fps times per second.
func NewPulse(fps int) Pulse {
	return Pulse{
		spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 0.5),
		target: 1,
	}
}

// Step advances the spring one frame and flips the target once it is
// close enough.
func (p *Pulse) Step() {
	p.pos, p.vel = p.spring.Update(p.pos, p.vel, p.target)
	if d := p.target - p.pos; d < 0.05 && d > -0.05 {
		p.target = 1 - p.target
	}
}

// Level is the current brightness clamped to [0, 1].
func (p Pulse) Level() float64 {
	return min(max(p.pos, 0), 1)
}
