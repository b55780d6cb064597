package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrthoMapsCorners(t *testing.T) {
	m := Ortho(800, 600)

	// Column major multiply of (x, y, 0, 1).
	apply := func(x, y float32) (float32, float32) {
		cx := m[0]*x + m[4]*y + m[12]
		cy := m[1]*x + m[5]*y + m[13]
		return cx, cy
	}

	x, y := apply(0, 0)
	assert.InDelta(t, -1, x, 1e-6)
	assert.InDelta(t, 1, y, 1e-6)

	x, y = apply(800, 600)
	assert.InDelta(t, 1, x, 1e-6)
	assert.InDelta(t, -1, y, 1e-6)

	x, y = apply(400, 300)
	assert.InDelta(t, 0, x, 1e-6)
	assert.InDelta(t, 0, y, 1e-6)
}

func TestQuadIndicesPattern(t *testing.T) {
	idx := quadIndices(nil, 0)
	assert.Equal(t, []uint32{0, 2, 1, 1, 2, 3}, idx)

	idx = quadIndices(idx, 1)
	assert.Equal(t, []uint32{0, 2, 1, 1, 2, 3, 4, 6, 5, 5, 6, 7}, idx)
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 30, H: 40}
	assert.True(t, r.Contains(10, 20))
	assert.True(t, r.Contains(39, 59))
	assert.False(t, r.Contains(40, 20))
	assert.False(t, r.Contains(9, 30))
	assert.False(t, r.Contains(15, 60))
}

func TestRectInset(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 100, H: 50}.Inset(5)
	assert.Equal(t, Rect{X: 5, Y: 5, W: 90, H: 40}, r)
}
