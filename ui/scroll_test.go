package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScrollerImpulseScalesByMass(t *testing.T) {
	var s Scroller
	s.Impulse(0, 1)
	assert.InDelta(t, float32(200), s.vy, 0.001)
	assert.Zero(t, s.vx)
}

func TestScrollerDecaysToRest(t *testing.T) {
	var s Scroller
	s.Impulse(0, 1)

	var total float32
	var prev float32 = 1e9
	steps := 0
	for s.Moving() {
		_, dy := s.Step(0.1)
		assert.Less(t, dy, prev, "displacement must shrink every step")
		assert.Greater(t, dy, float32(0))
		prev = dy
		total += dy
		steps++
		if steps > 1000 {
			t.Fatal("scroller never came to rest")
		}
	}
	assert.Equal(t, 6, steps)
	assert.InDelta(t, float32(67.08), total, 0.01)
}

func TestScrollerKeepsDirection(t *testing.T) {
	var s Scroller
	s.Impulse(-2, 0)
	for s.Moving() {
		dx, dy := s.Step(0.05)
		assert.LessOrEqual(t, dx, float32(0))
		assert.Zero(t, dy)
	}
}

func TestScrollerHalt(t *testing.T) {
	var s Scroller
	s.Impulse(1, 1)
	assert.True(t, s.Moving())
	s.Halt()
	assert.False(t, s.Moving())
	dx, dy := s.Step(0.1)
	assert.Zero(t, dx)
	assert.Zero(t, dy)
}

func TestScrollerImpulsesAccumulate(t *testing.T) {
	var s Scroller
	s.Impulse(0, 1)
	s.Impulse(0, 1)
	assert.InDelta(t, float32(400), s.vy, 0.001)
}
