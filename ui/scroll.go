package ui

import "github.com/chewxy/math32"

// Scroll physics. Wheel events impart an impulse and friction bleeds
// the velocity off over the following frames, so panes glide instead
// of stepping.
const (
	scrollMass     = 0.5
	scrollGravity  = 9.8
	scrollFriction = 0.3

	// scrollScale converts the friction constants to pixel units.
	scrollScale = 120.0

	// scrollNotch is the impulse of one wheel notch.
	scrollNotch = 100.0

	scrollRest = 0.5
)

// Scroller integrates fling velocity for one pane.
type Scroller struct {
	vx, vy float32
}

// Impulse applies a wheel event. dx and dy are in notches.
func (s *Scroller) Impulse(dx, dy float32) {
	s.vx += dx * scrollNotch / scrollMass
	s.vy += dy * scrollNotch / scrollMass
}

// Step advances the physics by dt seconds and returns the
// displacement in pixels.
func (s *Scroller) Step(dt float32) (dx, dy float32) {
	dx = s.vx * dt
	dy = s.vy * dt
	decel := scrollFriction * scrollGravity * scrollScale * dt
	s.vx = bleed(s.vx, decel)
	s.vy = bleed(s.vy, decel)
	return dx, dy
}

// Moving reports whether any velocity remains.
func (s *Scroller) Moving() bool {
	return s.vx != 0 || s.vy != 0
}

// Halt zeroes the velocity.
func (s *Scroller) Halt() {
	s.vx = 0
	s.vy = 0
}

func bleed(v, decel float32) float32 {
	mag := math32.Abs(v) - decel
	if mag < scrollRest {
		return 0
	}
	return math32.Copysign(mag, v)
}
