package ui

import (
	"strconv"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/richinsley/vellum/config"
	"github.com/richinsley/vellum/font"
	"github.com/richinsley/vellum/render"
	"github.com/richinsley/vellum/syntax"
	"github.com/richinsley/vellum/text"
)

// CursorStyle selects how the focused pane marks its cursor.
type CursorStyle int

const (
	CursorBlock CursorStyle = iota
	CursorBeam
	CursorUnderline
)

const beamWidth = 2

// drawState carries the per frame parameters shared by every widget:
// the render context, resolved font stacks and their metrics at the
// current DPI.
type drawState struct {
	rctx  *render.Ctx
	store *font.Store
	cfg   *config.Config

	fixed    []string
	variable []string

	textPx   float32
	gutterPx float32

	metrics        font.Metrics // fixed stack at textPx
	gutterMetrics  font.Metrics
	overlayMetrics font.Metrics // variable stack at textPx
}

// shapedLine caches everything derived from one buffer line: the tab
// expanded text, raw to expanded byte offsets, cluster boundaries and
// the colored segments ready to draw.
type shapedLine struct {
	expanded string
	offs     []int
	xs       []float32
	segs     []colorSeg
}

type colorSeg struct {
	sh   font.Shaped
	kind syntax.Kind
}

// TextView is one pane's view of a buffer: a cursor, a scroll offset
// and a shaped line cache tied to the buffer version.
type TextView struct {
	buf    *text.Buffer
	cursor *text.Cursor
	hl     *syntax.Highlighter

	scroll     Scroller
	offX, offY float32

	number   bool
	relative bool

	cache        map[int]*shapedLine
	cacheVersion uint64
	cachePx      float32
}

// NewTextView attaches a fresh cursor to buf.
func NewTextView(buf *text.Buffer, hl *syntax.Highlighter) *TextView {
	v := &TextView{
		buf:    buf,
		cursor: &text.Cursor{},
		hl:     hl,
		number: true,
		cache:  make(map[int]*shapedLine),
	}
	buf.AttachCursor(v.cursor)
	return v
}

// Buffer returns the buffer this view shows.
func (v *TextView) Buffer() *text.Buffer { return v.buf }

// Cursor returns the view's own cursor.
func (v *TextView) Cursor() *text.Cursor { return v.cursor }

// SetBuffer switches the view to another buffer, moving the cursor to
// the top and dropping the caches.
func (v *TextView) SetBuffer(buf *text.Buffer, hl *syntax.Highlighter) {
	v.buf.DetachCursor(v.cursor)
	v.buf = buf
	v.hl = hl
	v.cursor = &text.Cursor{}
	buf.AttachCursor(v.cursor)
	v.offX, v.offY = 0, 0
	v.scroll.Halt()
	v.cache = make(map[int]*shapedLine)
	v.cacheVersion = buf.Version()
}

// Detach releases the view's cursor. Call when the pane closes.
func (v *TextView) Detach() {
	v.buf.DetachCursor(v.cursor)
}

// ToggleNumber flips the line number column.
func (v *TextView) ToggleNumber() { v.number = !v.number }

// ToggleRelative flips relative numbering.
func (v *TextView) ToggleRelative() { v.relative = !v.relative }

// StepScroll advances the fling physics and reports whether the view
// moved.
func (v *TextView) StepScroll(dt float32) bool {
	if !v.scroll.Moving() {
		return false
	}
	dx, dy := v.scroll.Step(dt)
	v.offX += dx
	v.offY += dy
	return true
}

// Draw renders the pane into rect. The cursor cell is drawn only on
// the focused pane, in the style the input mode asks for.
func (v *TextView) Draw(ds *drawState, rect render.Rect, focused bool, style CursorStyle) {
	lineH := ds.metrics.LineHeight()
	if lineH <= 0 || rect.W <= 0 || rect.H <= 0 {
		return
	}
	v.clampScroll(rect, lineH)

	gutterW := v.gutterWidth(ds)
	textArea := render.Rect{X: rect.X + gutterW, Y: rect.Y, W: rect.W - gutterW, H: rect.H}

	first := int(v.offY / lineH)
	if first < 0 {
		first = 0
	}
	last := int((v.offY+rect.H)/lineH) + 1
	if last > v.buf.LineCount() {
		last = v.buf.LineCount()
	}

	ds.rctx.PushScissor(rect)

	if focused {
		v.drawCursor(ds, textArea, lineH, style)
	}

	if v.number {
		pad := float32(ds.cfg.Theme.Gutter.Padding)
		gcol := colorOf(ds.cfg.Theme.Gutter.Foreground)
		for i := first; i < last; i++ {
			sh := ds.store.Shape(v.gutterLabel(i), ds.fixed, ds.gutterPx)
			x := rect.X + gutterW - pad - sh.Advance()
			y := rect.Y + float32(i)*lineH - v.offY + ds.metrics.Ascent
			ds.rctx.DrawShaped(x, y, sh, ds.gutterPx, gcol)
		}
	}

	ds.rctx.PushScissor(textArea)
	fg := colorOf(ds.cfg.Theme.Textview.Foreground)
	for i := first; i < last; i++ {
		sl := v.line(ds, i)
		x := textArea.X - v.offX
		y := rect.Y + float32(i)*lineH - v.offY + ds.metrics.Ascent
		for _, seg := range sl.segs {
			col := fg
			if seg.kind != syntax.KindText {
				col = syntaxColor(ds.cfg, seg.kind)
			}
			ds.rctx.DrawShaped(x, y, seg.sh, ds.textPx, col)
			x += seg.sh.Advance()
		}
	}
	ds.rctx.PopScissor()

	ds.rctx.PopScissor()
}

func (v *TextView) drawCursor(ds *drawState, textArea render.Rect, lineH float32, style CursorStyle) {
	line := v.cursor.Line
	sl := v.line(ds, line)
	e := expandedCluster(v.buf.ExpandedLine(line), v.buf.TabSize(), v.cursor.Cluster)
	if e >= len(sl.xs) {
		e = len(sl.xs) - 1
	}
	x0 := sl.xs[e]
	x1 := x0 + ds.metrics.CellAdvance
	if e+1 < len(sl.xs) {
		x1 = sl.xs[e+1]
	}

	cx := textArea.X + x0 - v.offX
	cy := textArea.Y + float32(line)*lineH - v.offY
	col := colorOf(ds.cfg.Theme.Textview.Cursor)

	switch style {
	case CursorBeam:
		ds.rctx.PushRect(render.Rect{X: cx, Y: cy, W: beamWidth, H: lineH}, col)
	case CursorUnderline:
		y := cy + ds.metrics.Ascent + ds.metrics.UnderlinePos
		ds.rctx.PushRect(render.Rect{X: cx, Y: y, W: x1 - x0, H: ds.metrics.UnderlineThickness}, col)
	default:
		ds.rctx.PushRect(render.Rect{X: cx, Y: cy, W: x1 - x0, H: lineH}, col)
	}
}

// EnsureCursorVisible scrolls just enough to bring the cursor cell
// into the pane, killing any fling in progress.
func (v *TextView) EnsureCursorVisible(ds *drawState, rect render.Rect) {
	lineH := ds.metrics.LineHeight()
	if lineH <= 0 || rect.W <= 0 || rect.H <= 0 {
		return
	}
	v.scroll.Halt()

	cy := float32(v.cursor.Line) * lineH
	if cy < v.offY {
		v.offY = cy
	}
	if cy+lineH > v.offY+rect.H {
		v.offY = cy + lineH - rect.H
	}

	sl := v.line(ds, v.cursor.Line)
	e := expandedCluster(v.buf.ExpandedLine(v.cursor.Line), v.buf.TabSize(), v.cursor.Cluster)
	if e >= len(sl.xs) {
		e = len(sl.xs) - 1
	}
	x0 := sl.xs[e]
	x1 := x0 + ds.metrics.CellAdvance
	if e+1 < len(sl.xs) {
		x1 = sl.xs[e+1]
	}
	textW := rect.W - v.gutterWidth(ds)
	if x0 < v.offX {
		v.offX = x0
	}
	if x1 > v.offX+textW {
		v.offX = x1 - textW
	}
	v.clampScroll(rect, lineH)
}

// ClusterAt maps a window point inside rect to a line and cluster.
func (v *TextView) ClusterAt(ds *drawState, rect render.Rect, px, py float32) (int, int) {
	lineH := ds.metrics.LineHeight()
	line := int((py - rect.Y + v.offY) / lineH)
	if line < 0 {
		line = 0
	}
	if line >= v.buf.LineCount() {
		line = v.buf.LineCount() - 1
	}
	sl := v.line(ds, line)
	x := px - (rect.X + v.gutterWidth(ds)) + v.offX
	e := font.ClusterAtX(sl.xs, x)
	return line, rawClusterAt(v.buf.ExpandedLine(line), v.buf.TabSize(), e)
}

func (v *TextView) clampScroll(rect render.Rect, lineH float32) {
	maxY := float32(v.buf.LineCount())*lineH - rect.H
	if maxY < 0 {
		maxY = 0
	}
	if v.offY > maxY {
		v.offY = maxY
	}
	if v.offY < 0 {
		v.offY = 0
	}
	if v.offX < 0 {
		v.offX = 0
	}
}

// gutterWidth is the advance of the widest line number plus padding
// on both sides, or zero when numbers are off.
func (v *TextView) gutterWidth(ds *drawState) float32 {
	if !v.number {
		return 0
	}
	sh := ds.store.Shape(strconv.Itoa(v.buf.LineCount()), ds.fixed, ds.gutterPx)
	return sh.Advance() + 2*float32(ds.cfg.Theme.Gutter.Padding)
}

// gutterLabel is the number shown for line i: the distance from the
// cursor line under relative numbering, except the cursor line itself
// stays absolute.
func (v *TextView) gutterLabel(i int) string {
	n := i + 1
	if v.relative && i != v.cursor.Line {
		n = i - v.cursor.Line
		if n < 0 {
			n = -n
		}
	}
	return strconv.Itoa(n)
}

// line returns the shaped line cache entry for i, rebuilding when the
// buffer version or the font size moved.
func (v *TextView) line(ds *drawState, i int) *shapedLine {
	if v.cacheVersion != v.buf.Version() || v.cachePx != ds.textPx {
		v.cache = make(map[int]*shapedLine)
		v.cacheVersion = v.buf.Version()
		v.cachePx = ds.textPx
	}
	if sl, ok := v.cache[i]; ok {
		return sl
	}
	sl := v.buildLine(ds, i)
	v.cache[i] = sl
	return sl
}

func (v *TextView) buildLine(ds *drawState, i int) *shapedLine {
	raw := v.buf.ExpandedLine(i)
	expanded, offs := expandTabs(raw, v.buf.TabSize())
	full := ds.store.Shape(expanded, ds.fixed, ds.textPx)

	sl := &shapedLine{
		expanded: expanded,
		offs:     offs,
		xs:       font.ClusterXs(full, expanded),
	}

	spans := v.hl.LineSpans(v.buf, i)
	prev := 0
	push := func(from, to int, kind syntax.Kind) {
		if from >= to || from >= len(expanded) {
			return
		}
		if to > len(expanded) {
			to = len(expanded)
		}
		sl.segs = append(sl.segs, colorSeg{
			sh:   ds.store.Shape(expanded[from:to], ds.fixed, ds.textPx),
			kind: kind,
		})
	}
	for _, sp := range spans {
		start, end := sp.Start, sp.End
		if start > len(raw) {
			start = len(raw)
		}
		if end > len(raw) {
			end = len(raw)
		}
		push(prev, offs[start], syntax.KindText)
		push(offs[start], offs[end], sp.Kind)
		prev = offs[end]
	}
	push(prev, len(expanded), syntax.KindText)
	return sl
}

// expandTabs rewrites tabs as spaces up to the next tab stop and maps
// every raw byte offset to its expanded offset. The returned slice
// has len(raw)+1 entries so a span may end at len(raw).
func expandTabs(raw string, tabSize int) (string, []int) {
	offs := make([]int, len(raw)+1)
	var sb strings.Builder
	col := 0
	gr := uniseg.NewGraphemes(raw)
	for gr.Next() {
		from, to := gr.Positions()
		for b := from; b < to; b++ {
			offs[b] = sb.Len()
		}
		if gr.Str() == "\t" {
			pad := (col/tabSize+1)*tabSize - col
			for k := 0; k < pad; k++ {
				sb.WriteByte(' ')
			}
			col += pad
		} else {
			sb.WriteString(gr.Str())
			col += uniseg.StringWidth(gr.Str())
		}
	}
	offs[len(raw)] = sb.Len()
	return sb.String(), offs
}

// expandedCluster maps a raw cluster index onto the expanded text,
// where each tab occupies one cluster per padding space.
func expandedCluster(raw string, tabSize, cluster int) int {
	e, col, n := 0, 0, 0
	gr := uniseg.NewGraphemes(raw)
	for gr.Next() && n < cluster {
		if gr.Str() == "\t" {
			pad := (col/tabSize+1)*tabSize - col
			col += pad
			e += pad
		} else {
			col += uniseg.StringWidth(gr.Str())
			e++
		}
		n++
	}
	return e
}

// rawClusterAt inverts expandedCluster: the raw cluster whose
// expansion covers the expanded cluster index.
func rawClusterAt(raw string, tabSize, target int) int {
	e, col, n := 0, 0, 0
	gr := uniseg.NewGraphemes(raw)
	for gr.Next() {
		var w int
		if gr.Str() == "\t" {
			w = (col/tabSize+1)*tabSize - col
		} else {
			w = 1
		}
		if e+w > target {
			return n
		}
		e += w
		if gr.Str() == "\t" {
			col += w
		} else {
			col += uniseg.StringWidth(gr.Str())
		}
		n++
	}
	return n
}

func colorOf(c config.Color) render.Color {
	r, g, b, a := c.Floats()
	return render.RGBA(r, g, b, a)
}

func syntaxColor(cfg *config.Config, k syntax.Kind) render.Color {
	s := cfg.Theme.Syntax
	switch k {
	case syntax.KindKeyword:
		return colorOf(s.Keyword)
	case syntax.KindDataType:
		return colorOf(s.DataType)
	case syntax.KindFunction:
		return colorOf(s.Function)
	case syntax.KindString:
		return colorOf(s.String)
	case syntax.KindChar:
		return colorOf(s.Char)
	case syntax.KindEscape:
		return colorOf(s.Escape)
	case syntax.KindNumber:
		return colorOf(s.Number)
	case syntax.KindComment:
		return colorOf(s.Comment)
	case syntax.KindOperator:
		return colorOf(s.Operator)
	case syntax.KindSeparator:
		return colorOf(s.Separator)
	case syntax.KindEntityName:
		return colorOf(s.EntityName)
	case syntax.KindEntityTag:
		return colorOf(s.EntityTag)
	default:
		return colorOf(cfg.Theme.Textview.Foreground)
	}
}
