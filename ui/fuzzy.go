package ui

import (
	"sort"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/richinsley/vellum/font"
	"github.com/richinsley/vellum/render"
)

// fuzzyShadowOffset displaces the palette's drop shadow.
const fuzzyShadowOffset = 5

// suggestThreshold is the minimum similarity for a did-you-mean hint.
const suggestThreshold = 0.5

// Fuzzy is the command palette: type to narrow the candidates by
// subsequence match, best matches nearest the input line.
type Fuzzy struct {
	entries  []string
	input    string
	matches  []fuzzyMatch
	selected int
	first    int
}

type fuzzyMatch struct {
	entry string
	score int
}

// Open resets the palette over a fresh candidate list.
func (f *Fuzzy) Open(entries []string) {
	f.entries = entries
	f.input = ""
	f.refilter()
}

// Insert appends r to the query.
func (f *Fuzzy) Insert(r rune) {
	f.input += string(r)
	f.refilter()
}

// DeleteLeft removes the last cluster of the query.
func (f *Fuzzy) DeleteLeft() {
	f.input = f.input[:clusterStartBefore(f.input, len(f.input))]
	f.refilter()
}

// Empty reports whether the query is empty.
func (f *Fuzzy) Empty() bool { return f.input == "" }

// Next moves the selection away from the input line, wrapping.
func (f *Fuzzy) Next() {
	if len(f.matches) > 0 {
		f.selected = (f.selected + 1) % len(f.matches)
	}
}

// Prev moves the selection toward the input line, wrapping.
func (f *Fuzzy) Prev() {
	if len(f.matches) > 0 {
		f.selected = (f.selected + len(f.matches) - 1) % len(f.matches)
	}
}

// Selected returns the highlighted entry.
func (f *Fuzzy) Selected() (string, bool) {
	if len(f.matches) == 0 {
		return "", false
	}
	return f.matches[f.selected].entry, true
}

// refilter rebuilds the match list. Matches order by score, then
// alphabetically, and the selection returns to the best match.
func (f *Fuzzy) refilter() {
	f.matches = f.matches[:0]
	for _, e := range f.entries {
		if score, ok := fuzzyScore(f.input, e); ok {
			f.matches = append(f.matches, fuzzyMatch{entry: e, score: score})
		}
	}
	sort.Slice(f.matches, func(i, j int) bool {
		if f.matches[i].score != f.matches[j].score {
			return f.matches[i].score < f.matches[j].score
		}
		return f.matches[i].entry < f.matches[j].entry
	})
	f.selected = 0
	f.first = 0
}

// fuzzyScore matches query as a case folded subsequence of entry. The
// score is the sum of the matched rune indices, so earlier matches
// rank higher.
func fuzzyScore(query, entry string) (int, bool) {
	q := []rune(strings.ToLower(query))
	if len(q) == 0 {
		return 0, true
	}
	score, qi := 0, 0
	for i, r := range []rune(strings.ToLower(entry)) {
		if qi < len(q) && r == q[qi] {
			score += i
			qi++
		}
	}
	return score, qi == len(q)
}

// Suggest returns the candidate most similar to input, or empty when
// nothing comes close.
func Suggest(input string, candidates []string) string {
	lev := metrics.NewLevenshtein()
	best := ""
	bestScore := suggestThreshold
	for _, c := range candidates {
		if s := strutil.Similarity(input, c, lev); s >= bestScore {
			best, bestScore = c, s
		}
	}
	return best
}

// Draw paints the palette box above the bottom edge: query line at
// the bottom, matches stacked upward, selection in the accent color.
func (f *Fuzzy) Draw(ds *drawState) {
	w, h := ds.rctx.Size()
	ov := ds.cfg.Theme.Overlay
	edge := float32(ov.EdgePadding)
	spacing := float32(ov.LineSpacing)
	lineH := ds.overlayMetrics.LineHeight()

	width := float32(w) * float32(ov.WidthPercent) / 100
	maxH := float32(h) * float32(ov.MaxHeightPercent) / 100
	rows := int((maxH - 2*edge - lineH) / (lineH + spacing))
	if rows > len(f.matches) {
		rows = len(f.matches)
	}
	if rows < 0 {
		rows = 0
	}
	if f.selected < f.first {
		f.first = f.selected
	}
	if rows > 0 && f.selected >= f.first+rows {
		f.first = f.selected - rows + 1
	}

	height := 2*edge + lineH + float32(rows)*(lineH+spacing)
	x := (float32(w) - width) / 2
	y := float32(h) - float32(ov.BottomOffset) - height
	rect := render.Rect{X: x, Y: y, W: width, H: height}

	ds.rctx.DrawShadow(render.Rect{
		X: rect.X + fuzzyShadowOffset,
		Y: rect.Y + fuzzyShadowOffset,
		W: rect.W,
		H: rect.H,
	})
	ds.rctx.PushRect(rect, colorOf(ov.Background))

	fg := colorOf(ov.Foreground)
	sel := colorOf(ov.Selection)
	inputTop := y + height - edge - lineH
	for k := 0; k < rows; k++ {
		m := f.first + rows - 1 - k
		top := y + edge + float32(k)*(lineH+spacing)
		col := fg
		if m == f.selected {
			col = sel
		}
		sh := ds.store.Shape(f.matches[m].entry, ds.variable, ds.textPx)
		ds.rctx.DrawShaped(x+edge, top+ds.overlayMetrics.Ascent, sh, ds.textPx, col)
	}

	baseline := inputTop + ds.overlayMetrics.Ascent
	label := ds.store.Shape(">", ds.variable, ds.textPx)
	ds.rctx.DrawShaped(x+edge, baseline, label, ds.textPx, colorOf(ov.Label))

	tx := x + edge + label.Advance()
	sh := ds.store.Shape(f.input, ds.variable, ds.textPx)
	ds.rctx.DrawShaped(tx, baseline, sh, ds.textPx, colorOf(ov.Label))

	xs := font.ClusterXs(sh, f.input)
	ds.rctx.PushRect(render.Rect{
		X: tx + xs[len(xs)-1],
		Y: inputTop,
		W: beamWidth,
		H: lineH,
	}, colorOf(ds.cfg.Theme.Textview.Cursor))
}
