package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/richinsley/vellum/syntax"
	"github.com/richinsley/vellum/text"
)

func TestExpandTabsToStops(t *testing.T) {
	expanded, offs := expandTabs("a\tb", 8)
	assert.Equal(t, "a       b", expanded)
	require.Len(t, offs, 4)
	assert.Equal(t, 0, offs[0])
	assert.Equal(t, 1, offs[1])
	assert.Equal(t, 8, offs[2])
	assert.Equal(t, 9, offs[3])

	expanded, _ = expandTabs("\t", 4)
	assert.Equal(t, "    ", expanded)

	expanded, _ = expandTabs("abcd\tx", 4)
	assert.Equal(t, "abcd    x", expanded,
		"a tab on a stop advances a full stop")
}

func TestExpandTabsIdentityWithoutTabs(t *testing.T) {
	expanded, offs := expandTabs("héllo", 8)
	assert.Equal(t, "héllo", expanded)
	for i, o := range offs {
		assert.Equal(t, i, o)
	}
}

func TestExpandedClusterAcrossTab(t *testing.T) {
	raw := "a\tb"
	assert.Equal(t, 0, expandedCluster(raw, 8, 0))
	assert.Equal(t, 1, expandedCluster(raw, 8, 1))
	assert.Equal(t, 8, expandedCluster(raw, 8, 2))
	assert.Equal(t, 9, expandedCluster(raw, 8, 3))
}

func TestRawClusterAtInvertsExpansion(t *testing.T) {
	raw := "a\tb"
	assert.Equal(t, 0, rawClusterAt(raw, 8, 0))
	for e := 1; e < 8; e++ {
		assert.Equal(t, 1, rawClusterAt(raw, 8, e), "inside the tab run")
	}
	assert.Equal(t, 2, rawClusterAt(raw, 8, 8))
	assert.Equal(t, 3, rawClusterAt(raw, 8, 9), "past the end")
}

func TestGutterLabels(t *testing.T) {
	buf := text.NewBuffer(8, zap.NewNop())
	v := NewTextView(buf, syntax.New("", zap.NewNop()))
	buf.InsertText(v.Cursor(), "one\ntwo\nthree\nfour\nfive")

	v.Cursor().MoveTo(buf, 2, 0)
	assert.Equal(t, "3", v.gutterLabel(2))
	assert.Equal(t, "1", v.gutterLabel(0))

	v.ToggleRelative()
	assert.Equal(t, "3", v.gutterLabel(2), "cursor line stays absolute")
	assert.Equal(t, "2", v.gutterLabel(0))
	assert.Equal(t, "2", v.gutterLabel(4))
	assert.Equal(t, "1", v.gutterLabel(3))
}

func TestSetBufferMovesCursorAndCaches(t *testing.T) {
	a := text.NewBuffer(8, zap.NewNop())
	b := text.NewBuffer(8, zap.NewNop())
	hl := syntax.New("", zap.NewNop())

	v := NewTextView(a, hl)
	a.InsertText(v.Cursor(), "hello")
	require.Equal(t, 5, v.Cursor().Cluster)

	v.SetBuffer(b, hl)
	assert.Same(t, b, v.Buffer())
	assert.Zero(t, v.Cursor().Line)
	assert.Zero(t, v.Cursor().Cluster)

	// the old buffer no longer adjusts the detached cursor
	editor := &text.Cursor{}
	a.AttachCursor(editor)
	a.InsertText(editor, "x")
	assert.Zero(t, v.Cursor().Cluster)
}
