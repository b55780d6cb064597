package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLeftRightClamp(t *testing.T) {
	b := newTestBuffer(t, "ab")
	c := &Cursor{}
	b.AttachCursor(c)

	c.Left(b)
	assert.Equal(t, 0, c.Cluster)

	c.Right(b, false)
	assert.Equal(t, 1, c.Cluster)
	c.Right(b, false)
	// Normal mode stops on the last cluster.
	assert.Equal(t, 1, c.Cluster)

	c.Right(b, true)
	// Insert mode may sit one past it.
	assert.Equal(t, 2, c.Cluster)
	c.Right(b, true)
	assert.Equal(t, 2, c.Cluster)
}

func TestVerticalMotionKeepsStickyColumn(t *testing.T) {
	b := newTestBuffer(t, "a long first line\nhi\nanother long line")
	c := &Cursor{Line: 0, Cluster: 10}
	b.AttachCursor(c)
	c.remember(b)

	c.Down(b)
	assert.Equal(t, 1, c.Line)
	assert.Equal(t, 2, c.Cluster)

	c.Down(b)
	assert.Equal(t, 2, c.Line)
	assert.Equal(t, 10, c.Cluster)

	c.Up(b)
	c.Up(b)
	assert.Equal(t, 0, c.Line)
	assert.Equal(t, 10, c.Cluster)
}

func TestVerticalMotionAtEdges(t *testing.T) {
	b := newTestBuffer(t, "one\ntwo")
	c := &Cursor{}
	b.AttachCursor(c)

	c.Up(b)
	assert.Equal(t, 0, c.Line)

	c.Down(b)
	c.Down(b)
	assert.Equal(t, 1, c.Line)
}

func TestLineStartEnd(t *testing.T) {
	b := newTestBuffer(t, "hello")
	c := &Cursor{Line: 0, Cluster: 2}
	b.AttachCursor(c)

	c.LineEnd(b)
	assert.Equal(t, 4, c.Cluster)

	c.LineStart(b)
	assert.Equal(t, 0, c.Cluster)
}

func TestWordForward(t *testing.T) {
	b := newTestBuffer(t, "foo bar_baz(qux)")
	c := &Cursor{}
	b.AttachCursor(c)

	c.WordForward(b)
	assert.Equal(t, 4, c.Cluster) // bar_baz

	c.WordForward(b)
	assert.Equal(t, 11, c.Cluster) // (

	c.WordForward(b)
	assert.Equal(t, 12, c.Cluster) // qux
}

func TestWordForwardCrossesLines(t *testing.T) {
	b := newTestBuffer(t, "end\n  next")
	c := &Cursor{Line: 0, Cluster: 0}
	b.AttachCursor(c)

	c.WordForward(b)
	assert.Equal(t, 1, c.Line)
	assert.Equal(t, 2, c.Cluster)
}

func TestWordForwardAtBufferEndStaysOnLastCluster(t *testing.T) {
	b := newTestBuffer(t, "word")
	c := &Cursor{Line: 0, Cluster: 1}
	b.AttachCursor(c)

	c.WordForward(b)
	assert.Equal(t, 0, c.Line)
	assert.Equal(t, 3, c.Cluster)
}

func TestWordBackward(t *testing.T) {
	b := newTestBuffer(t, "foo bar_baz(qux)")
	c := &Cursor{Line: 0, Cluster: 15}
	b.AttachCursor(c)

	c.WordBackward(b)
	assert.Equal(t, 12, c.Cluster) // qux

	c.WordBackward(b)
	assert.Equal(t, 11, c.Cluster) // (

	c.WordBackward(b)
	assert.Equal(t, 4, c.Cluster) // bar_baz

	c.WordBackward(b)
	assert.Equal(t, 0, c.Cluster) // foo
}

func TestWordBackwardCrossesLines(t *testing.T) {
	b := newTestBuffer(t, "prev\nnext")
	c := &Cursor{Line: 1, Cluster: 0}
	b.AttachCursor(c)

	c.WordBackward(b)
	assert.Equal(t, 0, c.Line)
	assert.Equal(t, 0, c.Cluster)
}

func TestPositionLess(t *testing.T) {
	assert.True(t, Position{0, 5}.Less(Position{1, 0}))
	assert.True(t, Position{1, 2}.Less(Position{1, 3}))
	assert.False(t, Position{1, 3}.Less(Position{1, 3}))
	assert.False(t, Position{2, 0}.Less(Position{1, 9}))
}
