package text

import (
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Position is a location in a buffer.
type Position struct {
	Line    int
	Cluster int
}

// Less orders positions by line, then cluster.
func (p Position) Less(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Cluster < q.Cluster
}

// Cursor is an insertion point. StickyCol remembers the visual column
// across vertical motion so the cursor slides back out on long lines.
type Cursor struct {
	Line      int
	Cluster   int
	StickyCol int
}

// Pos returns the cursor's position.
func (c *Cursor) Pos() Position {
	return Position{Line: c.Line, Cluster: c.Cluster}
}

func (c *Cursor) remember(b *Buffer) {
	c.StickyCol = b.VisualCol(c.Line, c.Cluster)
}

// Left moves one cluster left, stopping at the line start.
func (c *Cursor) Left(b *Buffer) {
	if c.Cluster > 0 {
		c.Cluster--
	}
	c.remember(b)
}

// Right moves one cluster right. In insert mode the cursor may sit
// one past the last cluster; pastEnd allows that.
func (c *Cursor) Right(b *Buffer, pastEnd bool) {
	max := b.ClusterCount(c.Line)
	if !pastEnd && max > 0 {
		max--
	}
	if c.Cluster < max {
		c.Cluster++
	}
	c.remember(b)
}

// Up moves a line up, targeting the remembered column.
func (c *Cursor) Up(b *Buffer) {
	if c.Line == 0 {
		return
	}
	c.Line--
	c.Cluster = b.ClusterAtCol(c.Line, c.StickyCol)
}

// Down moves a line down, targeting the remembered column.
func (c *Cursor) Down(b *Buffer) {
	if c.Line >= b.LineCount()-1 {
		return
	}
	c.Line++
	c.Cluster = b.ClusterAtCol(c.Line, c.StickyCol)
}

// LineStart moves to column zero.
func (c *Cursor) LineStart(b *Buffer) {
	c.Cluster = 0
	c.remember(b)
}

// LineEnd moves onto the last cluster of the line.
func (c *Cursor) LineEnd(b *Buffer) {
	n := b.ClusterCount(c.Line)
	if n > 0 {
		c.Cluster = n - 1
	} else {
		c.Cluster = 0
	}
	c.remember(b)
}

// MoveTo places the cursor at an arbitrary line and cluster, clamping
// to the buffer. Mouse clicks land here.
func (c *Cursor) MoveTo(b *Buffer, line, cluster int) {
	c.Line = line
	c.Cluster = cluster
	b.clamp(c)
	c.remember(b)
}

// BufferStart moves to the first line.
func (c *Cursor) BufferStart(b *Buffer) {
	c.Line = 0
	c.Cluster = b.ClusterAtCol(0, c.StickyCol)
}

// BufferEnd moves to the last line.
func (c *Cursor) BufferEnd(b *Buffer) {
	c.Line = b.LineCount() - 1
	c.Cluster = b.ClusterAtCol(c.Line, c.StickyCol)
}

type charClass int

const (
	classSpace charClass = iota
	classWord
	classPunct
)

func classify(cluster string) charClass {
	r, _ := utf8.DecodeRuneInString(cluster)
	switch {
	case unicode.IsSpace(r):
		return classSpace
	case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
		return classWord
	default:
		return classPunct
	}
}

func clusters(s string) []string {
	var out []string
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		out = append(out, gr.Str())
	}
	return out
}

// WordForward moves to the start of the next word, crossing line
// boundaries like vim's `w`.
func (c *Cursor) WordForward(b *Buffer) {
	line := clusters(b.TrimmedLine(c.Line))
	i := c.Cluster

	if i < len(line) {
		start := classify(line[i])
		for i < len(line) && classify(line[i]) == start {
			i++
		}
	}
	for {
		for i < len(line) && classify(line[i]) == classSpace {
			i++
		}
		if i < len(line) {
			c.Cluster = i
			c.remember(b)
			return
		}
		if c.Line >= b.LineCount()-1 {
			c.Cluster = len(line)
			if c.Cluster > 0 {
				c.Cluster--
			}
			c.remember(b)
			return
		}
		c.Line++
		line = clusters(b.TrimmedLine(c.Line))
		i = 0
	}
}

// WordBackward moves to the start of the previous word, like vim's `b`.
func (c *Cursor) WordBackward(b *Buffer) {
	line := clusters(b.TrimmedLine(c.Line))
	i := c.Cluster

	for {
		for i > 0 && classify(line[i-1]) == classSpace {
			i--
		}
		if i > 0 {
			class := classify(line[i-1])
			for i > 0 && classify(line[i-1]) == class {
				i--
			}
			c.Cluster = i
			c.remember(b)
			return
		}
		if c.Line == 0 {
			c.Cluster = 0
			c.remember(b)
			return
		}
		c.Line--
		line = clusters(b.TrimmedLine(c.Line))
		i = len(line)
	}
}
