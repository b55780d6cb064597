// Package text implements the line buffer the editor mutates. All
// positions are grapheme cluster indices, never bytes or runes, so
// cursors can't land inside a combining sequence.
package text

import (
	"fmt"
	"os"
	"strings"

	"github.com/rivo/uniseg"
	"go.uber.org/zap"
)

// Characters stripped from line ends before display and measurement.
const trailingBreaks = "\n\v\f\r  "

// Buffer holds one open file as a slice of lines without their
// terminating newlines. A buffer always has at least one line.
type Buffer struct {
	lines   []string
	path    string
	dirty   bool
	version uint64
	tabSize int

	cursors []*Cursor

	logger *zap.Logger
}

// NewBuffer returns an empty scratch buffer.
func NewBuffer(tabSize int, logger *zap.Logger) *Buffer {
	return &Buffer{
		lines:   []string{""},
		tabSize: tabSize,
		logger:  logger,
	}
}

// NewBufferFromFile loads path. A missing file yields an empty buffer
// bound to that path, so `:w` creates it.
func NewBufferFromFile(path string, tabSize int, logger *zap.Logger) (*Buffer, error) {
	b := NewBuffer(tabSize, logger)
	b.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("opening new file", zap.String("path", path))
			return b, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	b.setContent(string(data))
	logger.Info("opened file", zap.String("path", path), zap.Int("lines", len(b.lines)))
	return b, nil
}

func (b *Buffer) setContent(s string) {
	b.lines = strings.Split(s, "\n")
	if len(b.lines) == 0 {
		b.lines = []string{""}
	}
	b.version++
}

// Reload replaces the content from disk, eg after an external change.
// Cursors clamp back into range.
func (b *Buffer) Reload() error {
	if b.path == "" {
		return fmt.Errorf("buffer has no backing file")
	}
	data, err := os.ReadFile(b.path)
	if err != nil {
		return fmt.Errorf("failed to reload %s: %w", b.path, err)
	}
	b.setContent(string(data))
	b.dirty = false
	for _, c := range b.cursors {
		b.clamp(c)
	}
	b.logger.Info("reloaded file", zap.String("path", b.path))
	return nil
}

// Write saves the buffer to its path and clears the dirty flag.
func (b *Buffer) Write() error {
	if b.path == "" {
		return fmt.Errorf("buffer has no backing file")
	}
	return b.WriteTo(b.path)
}

// WriteTo saves to path and rebinds the buffer to it.
func (b *Buffer) WriteTo(path string) error {
	data := strings.Join(b.lines, "\n")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	b.path = path
	b.dirty = false
	b.logger.Info("wrote file", zap.String("path", path), zap.Int("bytes", len(data)))
	return nil
}

// Path returns the backing file path, empty for scratch buffers.
func (b *Buffer) Path() string { return b.path }

// Dirty reports unsaved modifications.
func (b *Buffer) Dirty() bool { return b.dirty }

// Version increments on every mutation. Views key their shaping
// caches on it.
func (b *Buffer) Version() uint64 { return b.version }

// TabSize returns the buffer's tab stop width.
func (b *Buffer) TabSize() int { return b.tabSize }

// LineCount returns the number of lines, always at least one.
func (b *Buffer) LineCount() int { return len(b.lines) }

// Line returns line i as stored.
func (b *Buffer) Line(i int) string { return b.lines[i] }

// TrimmedLine returns line i without trailing break characters left
// over from foreign line endings.
func (b *Buffer) TrimmedLine(i int) string {
	return strings.TrimRight(b.lines[i], trailingBreaks)
}

// ExpandedLine is TrimmedLine, except an empty line becomes a single
// space so a cursor on it still has a cell to sit in.
func (b *Buffer) ExpandedLine(i int) string {
	s := b.TrimmedLine(i)
	if s == "" {
		return " "
	}
	return s
}

// AttachCursor registers c for adjustment on every edit.
func (b *Buffer) AttachCursor(c *Cursor) {
	b.cursors = append(b.cursors, c)
	b.clamp(c)
}

// DetachCursor removes c from the adjustment list.
func (b *Buffer) DetachCursor(c *Cursor) {
	for i, cur := range b.cursors {
		if cur == c {
			b.cursors = append(b.cursors[:i], b.cursors[i+1:]...)
			return
		}
	}
}

// ClusterCount returns the number of grapheme clusters in line i.
func (b *Buffer) ClusterCount(i int) int {
	return uniseg.GraphemeClusterCount(b.TrimmedLine(i))
}

// clusterToByte maps a cluster index to a byte offset in line.
func clusterToByte(line string, cluster int) int {
	if cluster <= 0 {
		return 0
	}
	gr := uniseg.NewGraphemes(line)
	n := 0
	for gr.Next() {
		n++
		if n == cluster {
			_, to := gr.Positions()
			return to
		}
	}
	return len(line)
}

// byteToCluster maps a byte offset to the index of the cluster that
// contains it.
func byteToCluster(line string, off int) int {
	gr := uniseg.NewGraphemes(line)
	n := 0
	for gr.Next() {
		from, _ := gr.Positions()
		if from >= off {
			return n
		}
		n++
	}
	return n
}

// VisualCol returns the display column of a cluster, expanding tabs to
// the next stop and counting wide clusters by their cell width.
func (b *Buffer) VisualCol(line, cluster int) int {
	s := b.TrimmedLine(line)
	gr := uniseg.NewGraphemes(s)
	col, n := 0, 0
	for gr.Next() && n < cluster {
		if gr.Str() == "\t" {
			col = (col/b.tabSize + 1) * b.tabSize
		} else {
			col += uniseg.StringWidth(gr.Str())
		}
		n++
	}
	return col
}

// ClusterAtCol returns the cluster whose cell covers the given visual
// column, clamped to the line's cluster count.
func (b *Buffer) ClusterAtCol(line, col int) int {
	s := b.TrimmedLine(line)
	gr := uniseg.NewGraphemes(s)
	c, n := 0, 0
	for gr.Next() {
		var w int
		if gr.Str() == "\t" {
			w = (c/b.tabSize+1)*b.tabSize - c
		} else {
			w = uniseg.StringWidth(gr.Str())
		}
		if c+w > col {
			return n
		}
		c += w
		n++
	}
	return n
}

func (b *Buffer) clamp(c *Cursor) {
	if c.Line >= len(b.lines) {
		c.Line = len(b.lines) - 1
	}
	if c.Line < 0 {
		c.Line = 0
	}
	if max := b.ClusterCount(c.Line); c.Cluster > max {
		c.Cluster = max
	}
	if c.Cluster < 0 {
		c.Cluster = 0
	}
}

// InsertText inserts s at the cursor and advances it past the
// insertion. Embedded newlines split the line. Every other attached
// cursor shifts to keep pointing at the same content.
func (b *Buffer) InsertText(c *Cursor, s string) {
	if s == "" {
		return
	}
	line := b.lines[c.Line]
	off := clusterToByte(line, c.Cluster)
	head, tail := line[:off], line[off:]

	parts := strings.Split(s, "\n")
	addedLines := len(parts) - 1

	var endLine, endCluster int
	if addedLines == 0 {
		b.lines[c.Line] = head + parts[0] + tail
		endLine = c.Line
		endCluster = byteToCluster(b.lines[c.Line], off+len(parts[0]))
	} else {
		newLines := make([]string, 0, addedLines+1)
		newLines = append(newLines, head+parts[0])
		newLines = append(newLines, parts[1:addedLines]...)
		newLines = append(newLines, parts[addedLines]+tail)

		rest := make([]string, len(b.lines[c.Line+1:]))
		copy(rest, b.lines[c.Line+1:])
		b.lines = append(b.lines[:c.Line], append(newLines, rest...)...)

		endLine = c.Line + addedLines
		endCluster = uniseg.GraphemeClusterCount(parts[addedLines])
	}

	insLine, insCluster := c.Line, c.Cluster
	for _, other := range b.cursors {
		if other == c {
			continue
		}
		switch {
		case other.Line == insLine && other.Cluster >= insCluster:
			if addedLines == 0 {
				other.Cluster += endCluster - insCluster
			} else {
				other.Line = endLine
				other.Cluster = endCluster + (other.Cluster - insCluster)
			}
		case other.Line > insLine:
			other.Line += addedLines
		}
	}

	c.Line = endLine
	c.Cluster = endCluster
	b.touch()
}

// InsertNewline splits the current line at the cursor.
func (b *Buffer) InsertNewline(c *Cursor) {
	b.InsertText(c, "\n")
}

// DeleteLeft removes the cluster before the cursor. At a line start it
// joins the line onto the previous one.
func (b *Buffer) DeleteLeft(c *Cursor) {
	if c.Cluster > 0 {
		line := b.lines[c.Line]
		from := clusterToByte(line, c.Cluster-1)
		to := clusterToByte(line, c.Cluster)
		b.deleteSpan(c.Line, from, to)
		return
	}
	if c.Line == 0 {
		return
	}
	b.joinLines(c.Line - 1)
}

// DeleteRight removes the cluster under the cursor. At a line end it
// joins the next line up.
func (b *Buffer) DeleteRight(c *Cursor) {
	line := b.lines[c.Line]
	if c.Cluster < b.ClusterCount(c.Line) {
		from := clusterToByte(line, c.Cluster)
		to := clusterToByte(line, c.Cluster+1)
		b.deleteSpan(c.Line, from, to)
		return
	}
	if c.Line == len(b.lines)-1 {
		return
	}
	b.joinLines(c.Line)
}

// deleteSpan removes [from, to) bytes within one line and shifts
// cursors on it.
func (b *Buffer) deleteSpan(lineIdx, from, to int) {
	line := b.lines[lineIdx]
	removed := byteToCluster(line, to) - byteToCluster(line, from)
	startCluster := byteToCluster(line, from)
	b.lines[lineIdx] = line[:from] + line[to:]

	for _, cur := range b.cursors {
		if cur.Line != lineIdx {
			continue
		}
		switch {
		case cur.Cluster >= startCluster+removed:
			cur.Cluster -= removed
		case cur.Cluster > startCluster:
			cur.Cluster = startCluster
		}
	}
	b.touch()
}

// joinLines appends line i+1 onto line i and fixes cursors.
func (b *Buffer) joinLines(i int) {
	joinCluster := b.ClusterCount(i)
	b.lines[i] = b.TrimmedLine(i) + b.lines[i+1]
	b.lines = append(b.lines[:i+1], b.lines[i+2:]...)

	for _, cur := range b.cursors {
		switch {
		case cur.Line == i+1:
			cur.Line = i
			cur.Cluster += joinCluster
		case cur.Line > i+1:
			cur.Line--
		}
	}
	b.touch()
}

// DeleteRange removes everything between from and to, exclusive of the
// cluster at to. Cursors inside the range collapse to its start.
func (b *Buffer) DeleteRange(from, to Position) {
	if to.Less(from) {
		from, to = to, from
	}
	if from == to {
		return
	}

	startOff := clusterToByte(b.lines[from.Line], from.Cluster)
	endOff := clusterToByte(b.lines[to.Line], to.Cluster)

	if from.Line == to.Line {
		b.deleteSpan(from.Line, startOff, endOff)
		return
	}

	removedLines := to.Line - from.Line
	b.lines[from.Line] = b.lines[from.Line][:startOff] + b.lines[to.Line][endOff:]
	b.lines = append(b.lines[:from.Line+1], b.lines[to.Line+1:]...)

	for _, cur := range b.cursors {
		pos := Position{Line: cur.Line, Cluster: cur.Cluster}
		switch {
		case pos.Less(from) || pos == from:
			// untouched
		case pos.Less(to) || pos == to:
			cur.Line = from.Line
			cur.Cluster = from.Cluster
		case cur.Line == to.Line:
			cur.Line = from.Line
			cur.Cluster = from.Cluster + (cur.Cluster - to.Cluster)
		default:
			cur.Line -= removedLines
		}
	}
	b.touch()
}

// DeleteLine removes line i entirely, keeping one empty line when the
// buffer would otherwise vanish.
func (b *Buffer) DeleteLine(i int) {
	if len(b.lines) == 1 {
		b.lines[0] = ""
	} else {
		b.lines = append(b.lines[:i], b.lines[i+1:]...)
	}

	for _, cur := range b.cursors {
		switch {
		case cur.Line == i:
			if cur.Line >= len(b.lines) {
				cur.Line = len(b.lines) - 1
			}
			b.clamp(cur)
			cur.Cluster = 0
		case cur.Line > i:
			cur.Line--
		}
	}
	b.touch()
}

func (b *Buffer) touch() {
	b.version++
	b.dirty = true
}
