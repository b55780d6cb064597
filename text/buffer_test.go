package text

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestBuffer(t *testing.T, content string) *Buffer {
	t.Helper()
	b := NewBuffer(8, zap.NewNop())
	if content != "" {
		b.setContent(content)
	}
	return b
}

func TestNewBufferHasOneEmptyLine(t *testing.T) {
	b := NewBuffer(8, zap.NewNop())
	assert.Equal(t, 1, b.LineCount())
	assert.Equal(t, "", b.Line(0))
	assert.False(t, b.Dirty())
}

func TestNewBufferFromMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.txt")
	b, err := NewBufferFromFile(path, 8, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, b.LineCount())
	assert.Equal(t, path, b.Path())
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	b := newTestBuffer(t, "alpha\nbeta")
	require.NoError(t, b.WriteTo(path))
	assert.False(t, b.Dirty())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "alpha\nbeta", string(data))
}

func TestInsertTextAdvancesCursor(t *testing.T) {
	b := newTestBuffer(t, "hello world")
	c := &Cursor{Line: 0, Cluster: 5}
	b.AttachCursor(c)

	b.InsertText(c, ",")
	assert.Equal(t, "hello, world", b.Line(0))
	assert.Equal(t, 6, c.Cluster)
	assert.True(t, b.Dirty())
}

func TestInsertTextWithNewlines(t *testing.T) {
	b := newTestBuffer(t, "headtail")
	c := &Cursor{Line: 0, Cluster: 4}
	b.AttachCursor(c)

	b.InsertText(c, "1\n22\n333")
	require.Equal(t, 3, b.LineCount())
	assert.Equal(t, "head1", b.Line(0))
	assert.Equal(t, "22", b.Line(1))
	assert.Equal(t, "333tail", b.Line(2))
	assert.Equal(t, 2, c.Line)
	assert.Equal(t, 3, c.Cluster)
}

func TestInsertShiftsOtherCursorsOnSameLine(t *testing.T) {
	b := newTestBuffer(t, "abcdef")
	editing := &Cursor{Line: 0, Cluster: 2}
	behind := &Cursor{Line: 0, Cluster: 1}
	ahead := &Cursor{Line: 0, Cluster: 4}
	b.AttachCursor(editing)
	b.AttachCursor(behind)
	b.AttachCursor(ahead)

	b.InsertText(editing, "XY")
	assert.Equal(t, "abXYcdef", b.Line(0))
	assert.Equal(t, 1, behind.Cluster)
	assert.Equal(t, 6, ahead.Cluster)
}

func TestInsertNewlineShiftsLaterCursors(t *testing.T) {
	b := newTestBuffer(t, "one\ntwo\nthree")
	editing := &Cursor{Line: 0, Cluster: 3}
	below := &Cursor{Line: 2, Cluster: 1}
	b.AttachCursor(editing)
	b.AttachCursor(below)

	b.InsertNewline(editing)
	assert.Equal(t, 4, b.LineCount())
	assert.Equal(t, 1, editing.Line)
	assert.Equal(t, 0, editing.Cluster)
	assert.Equal(t, 3, below.Line)
	assert.Equal(t, 1, below.Cluster)
}

func TestDeleteLeftJoinsLines(t *testing.T) {
	b := newTestBuffer(t, "one\ntwo")
	c := &Cursor{Line: 1, Cluster: 0}
	b.AttachCursor(c)

	b.DeleteLeft(c)
	assert.Equal(t, 1, b.LineCount())
	assert.Equal(t, "onetwo", b.Line(0))
	assert.Equal(t, 0, c.Line)
	assert.Equal(t, 3, c.Cluster)
}

func TestDeleteLeftMidLine(t *testing.T) {
	b := newTestBuffer(t, "abc")
	c := &Cursor{Line: 0, Cluster: 2}
	b.AttachCursor(c)

	b.DeleteLeft(c)
	assert.Equal(t, "ac", b.Line(0))
	assert.Equal(t, 1, c.Cluster)
}

func TestDeleteRightAtLineEndJoins(t *testing.T) {
	b := newTestBuffer(t, "ab\ncd")
	c := &Cursor{Line: 0, Cluster: 2}
	b.AttachCursor(c)

	b.DeleteRight(c)
	assert.Equal(t, "abcd", b.Line(0))
	assert.Equal(t, 2, c.Cluster)
}

func TestDeleteRangeAcrossLines(t *testing.T) {
	b := newTestBuffer(t, "alpha\nbeta\ngamma")
	inside := &Cursor{Line: 1, Cluster: 2}
	after := &Cursor{Line: 2, Cluster: 3}
	b.AttachCursor(inside)
	b.AttachCursor(after)

	b.DeleteRange(Position{Line: 0, Cluster: 3}, Position{Line: 2, Cluster: 1})
	require.Equal(t, 1, b.LineCount())
	assert.Equal(t, "alpamma", b.Line(0))
	// The cursor inside the range collapses to its start.
	assert.Equal(t, 0, inside.Line)
	assert.Equal(t, 3, inside.Cluster)
	// The cursor after the range keeps its content position.
	assert.Equal(t, 0, after.Line)
	assert.Equal(t, 5, after.Cluster)
}

func TestDeleteRangeSwapsReversedEnds(t *testing.T) {
	b := newTestBuffer(t, "abcdef")
	b.DeleteRange(Position{Line: 0, Cluster: 4}, Position{Line: 0, Cluster: 1})
	assert.Equal(t, "aef", b.Line(0))
}

func TestDeleteLineKeepsLastLine(t *testing.T) {
	b := newTestBuffer(t, "only")
	c := &Cursor{Line: 0, Cluster: 3}
	b.AttachCursor(c)

	b.DeleteLine(0)
	assert.Equal(t, 1, b.LineCount())
	assert.Equal(t, "", b.Line(0))
	assert.Equal(t, 0, c.Cluster)
}

func TestDeleteLineShiftsCursors(t *testing.T) {
	b := newTestBuffer(t, "one\ntwo\nthree")
	below := &Cursor{Line: 2, Cluster: 2}
	b.AttachCursor(below)

	b.DeleteLine(1)
	assert.Equal(t, 2, b.LineCount())
	assert.Equal(t, "three", b.Line(1))
	assert.Equal(t, 1, below.Line)
	assert.Equal(t, 2, below.Cluster)
}

func TestTrimmedLineStripsForeignBreaks(t *testing.T) {
	b := newTestBuffer(t, "crlf\r\nplain")
	assert.Equal(t, "crlf", b.TrimmedLine(0))
	b2 := newTestBuffer(t, "ls ")
	assert.Equal(t, "ls", b2.TrimmedLine(0))
}

func TestExpandedLine(t *testing.T) {
	b := newTestBuffer(t, "text\n\nmore")
	assert.Equal(t, "text", b.ExpandedLine(0))
	assert.Equal(t, " ", b.ExpandedLine(1))
}

func TestVisualColTabStops(t *testing.T) {
	b := newTestBuffer(t, "a\tb\tc")
	assert.Equal(t, 0, b.VisualCol(0, 0))
	assert.Equal(t, 1, b.VisualCol(0, 1))
	assert.Equal(t, 8, b.VisualCol(0, 2))
	assert.Equal(t, 9, b.VisualCol(0, 3))
	assert.Equal(t, 16, b.VisualCol(0, 4))
}

func TestClusterAtColInvertsVisualCol(t *testing.T) {
	b := newTestBuffer(t, "a\tbc")
	assert.Equal(t, 0, b.ClusterAtCol(0, 0))
	// Columns 1 through 7 sit inside the tab cell.
	assert.Equal(t, 1, b.ClusterAtCol(0, 3))
	assert.Equal(t, 2, b.ClusterAtCol(0, 8))
	assert.Equal(t, 3, b.ClusterAtCol(0, 9))
	// Past the end clamps to the cluster count.
	assert.Equal(t, 4, b.ClusterAtCol(0, 99))
}

func TestGraphemeClustersStayWhole(t *testing.T) {
	// é as e plus a combining accent is one cluster.
	b := newTestBuffer(t, "éx")
	assert.Equal(t, 2, b.ClusterCount(0))

	c := &Cursor{Line: 0, Cluster: 1}
	b.AttachCursor(c)
	b.DeleteLeft(c)
	assert.Equal(t, "x", b.Line(0))
	assert.Equal(t, 0, c.Cluster)
}

func TestVersionBumpsOnEveryEdit(t *testing.T) {
	b := newTestBuffer(t, "abc")
	c := &Cursor{}
	b.AttachCursor(c)

	v := b.Version()
	b.InsertText(c, "x")
	assert.Greater(t, b.Version(), v)

	v = b.Version()
	b.DeleteLeft(c)
	assert.Greater(t, b.Version(), v)
}

func TestReloadClampsCursors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\nthree"), 0o644))

	b, err := NewBufferFromFile(path, 8, zap.NewNop())
	require.NoError(t, err)
	c := &Cursor{Line: 2, Cluster: 4}
	b.AttachCursor(c)

	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	require.NoError(t, b.Reload())
	assert.Equal(t, 0, c.Line)
	assert.LessOrEqual(t, c.Cluster, 1)
	assert.False(t, b.Dirty())
}
