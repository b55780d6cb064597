package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackerFillsShelvesLeftToRight(t *testing.T) {
	p := newPacker(100)

	x, y, ok := p.pack(30, 10)
	assert.True(t, ok)
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)

	x, y, ok = p.pack(30, 10)
	assert.True(t, ok)
	assert.Equal(t, 30, x)
	assert.Equal(t, 0, y)

	// Too wide for the remaining shelf space, opens a new shelf.
	x, y, ok = p.pack(50, 10)
	assert.True(t, ok)
	assert.Equal(t, 0, x)
	assert.Equal(t, 10, y)
}

func TestPackerShelfHeightMatching(t *testing.T) {
	p := newPacker(100)

	_, _, ok := p.pack(10, 20)
	assert.True(t, ok)

	// Much shorter rects don't waste a tall shelf.
	_, y, ok := p.pack(10, 5)
	assert.True(t, ok)
	assert.Equal(t, 20, y)

	// Near height rects share the shelf.
	x, y, ok := p.pack(10, 19)
	assert.True(t, ok)
	assert.Equal(t, 10, x)
	assert.Equal(t, 0, y)
}

func TestPackerRejectsOversized(t *testing.T) {
	p := newPacker(64)
	_, _, ok := p.pack(65, 10)
	assert.False(t, ok)
	_, _, ok = p.pack(10, 65)
	assert.False(t, ok)
}

func TestPackerReportsFull(t *testing.T) {
	p := newPacker(32)
	_, _, ok := p.pack(32, 20)
	assert.True(t, ok)
	_, _, ok = p.pack(32, 20)
	assert.False(t, ok)
}
