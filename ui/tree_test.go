package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/richinsley/vellum/render"
	"github.com/richinsley/vellum/syntax"
	"github.com/richinsley/vellum/text"
)

func testView(t *testing.T) *TextView {
	t.Helper()
	buf := text.NewBuffer(8, zap.NewNop())
	return NewTextView(buf, syntax.New("", zap.NewNop()))
}

func TestSplitSpanDistribution(t *testing.T) {
	assert.Equal(t, []int{4, 3, 3}, splitSpan(10, 3))
	assert.Equal(t, []int{3, 3, 3}, splitSpan(9, 3))
	assert.Equal(t, []int{4, 4, 3}, splitSpan(11, 3))
	assert.Equal(t, []int{800}, splitSpan(800, 1))
}

func TestTreeSinglePaneFillsWindow(t *testing.T) {
	tr := NewTree(testView(t))
	tr.Layout(render.Rect{W: 800, H: 600})
	assert.Equal(t, render.Rect{X: 0, Y: 0, W: 800, H: 600}, tr.ActiveRect())
}

func TestTreeSplitRightHalves(t *testing.T) {
	tr := NewTree(testView(t))
	second := testView(t)
	tr.Split(second, false)
	tr.Layout(render.Rect{W: 801, H: 600})

	nodes := tr.leafRects()
	require.Len(t, nodes, 2)
	assert.Equal(t, render.Rect{X: 0, Y: 0, W: 401, H: 600}, nodes[0].rect)
	assert.Equal(t, render.Rect{X: 401, Y: 0, W: 400, H: 600}, nodes[1].rect)
	assert.Same(t, second, tr.Active())
}

func TestTreeSplitSameOrientationAddsSibling(t *testing.T) {
	tr := NewTree(testView(t))
	tr.Split(testView(t), false)
	tr.Split(testView(t), false)
	tr.Layout(render.Rect{W: 800, H: 600})

	nodes := tr.leafRects()
	require.Len(t, nodes, 3)
	assert.Equal(t, float32(267), nodes[0].rect.W)
	assert.Equal(t, float32(267), nodes[1].rect.W)
	assert.Equal(t, float32(266), nodes[2].rect.W)
}

func TestTreeSplitOtherOrientationNests(t *testing.T) {
	tr := NewTree(testView(t))
	tr.Split(testView(t), false)
	tr.Split(testView(t), true)
	tr.Layout(render.Rect{W: 800, H: 600})

	nodes := tr.leafRects()
	require.Len(t, nodes, 3)
	assert.Equal(t, render.Rect{X: 0, Y: 0, W: 400, H: 600}, nodes[0].rect)
	assert.Equal(t, render.Rect{X: 400, Y: 0, W: 400, H: 300}, nodes[1].rect)
	assert.Equal(t, render.Rect{X: 400, Y: 300, W: 400, H: 300}, nodes[2].rect)
}

func TestTreeCloseActiveCollapses(t *testing.T) {
	first := testView(t)
	tr := NewTree(first)
	second := testView(t)
	tr.Split(second, false)

	closed := tr.CloseActive()
	assert.Same(t, second, closed)
	assert.Same(t, first, tr.Active())

	tr.Layout(render.Rect{W: 800, H: 600})
	assert.Equal(t, render.Rect{X: 0, Y: 0, W: 800, H: 600}, tr.ActiveRect())

	assert.Nil(t, tr.CloseActive(), "last pane must not close")
}

func TestTreeFocusCycles(t *testing.T) {
	v1 := testView(t)
	tr := NewTree(v1)
	v2 := testView(t)
	v3 := testView(t)
	tr.Split(v2, false)
	tr.Split(v3, false)
	require.Same(t, v3, tr.Active())

	tr.FocusNext()
	assert.Same(t, v1, tr.Active())
	tr.FocusPrev()
	assert.Same(t, v3, tr.Active())
	tr.FocusPrev()
	assert.Same(t, v2, tr.Active())
}

func TestTreeViewAt(t *testing.T) {
	v1 := testView(t)
	tr := NewTree(v1)
	v2 := testView(t)
	tr.Split(v2, false)
	tr.Layout(render.Rect{W: 800, H: 600})

	assert.Same(t, v1, tr.ViewAt(10, 10))
	assert.Same(t, v2, tr.ViewAt(500, 10))
	assert.Nil(t, tr.ViewAt(900, 10))
}
