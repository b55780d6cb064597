package ui

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/richinsley/vellum/font"
	"github.com/richinsley/vellum/render"
)

// promptShadowOffset displaces the prompt's drop shadow.
const promptShadowOffset = 3

// Prompt is the single line command input shown over the bottom of
// the window. The cursor is a byte offset kept on cluster boundaries.
type Prompt struct {
	text   string
	cursor int
}

// Reset clears the prompt, prefilling it with s.
func (p *Prompt) Reset(s string) {
	p.text = s
	p.cursor = len(s)
}

// Contents returns the typed command line.
func (p *Prompt) Contents() string { return p.text }

// Empty reports whether nothing is typed.
func (p *Prompt) Empty() bool { return p.text == "" }

// Insert places r at the cursor.
func (p *Prompt) Insert(r rune) {
	var sb strings.Builder
	sb.WriteString(p.text[:p.cursor])
	sb.WriteRune(r)
	sb.WriteString(p.text[p.cursor:])
	p.cursor += len(string(r))
	p.text = sb.String()
}

// DeleteLeft removes the cluster before the cursor.
func (p *Prompt) DeleteLeft() {
	start := clusterStartBefore(p.text, p.cursor)
	p.text = p.text[:start] + p.text[p.cursor:]
	p.cursor = start
}

// Left moves the cursor one cluster left.
func (p *Prompt) Left() {
	p.cursor = clusterStartBefore(p.text, p.cursor)
}

// Right moves the cursor one cluster right.
func (p *Prompt) Right() {
	gr := uniseg.NewGraphemes(p.text)
	for gr.Next() {
		from, to := gr.Positions()
		if from >= p.cursor {
			p.cursor = to
			return
		}
	}
	p.cursor = len(p.text)
}

// clusterStartBefore returns the start of the cluster ending at off,
// or zero at the front.
func clusterStartBefore(s string, off int) int {
	prev := 0
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		from, to := gr.Positions()
		if to >= off {
			return from
		}
		prev = to
	}
	return prev
}

// Draw paints the prompt box, its drop shadow, the colon label and a
// beam cursor.
func (p *Prompt) Draw(ds *drawState) {
	w, h := ds.rctx.Size()
	ov := ds.cfg.Theme.Overlay
	edge := float32(ov.EdgePadding)
	lineH := ds.overlayMetrics.LineHeight()

	width := float32(w) * float32(ov.WidthPercent) / 100
	height := lineH + 2*edge
	x := (float32(w) - width) / 2
	y := float32(h) - float32(ov.BottomOffset) - height
	rect := render.Rect{X: x, Y: y, W: width, H: height}

	ds.rctx.DrawShadow(render.Rect{
		X: rect.X + promptShadowOffset,
		Y: rect.Y + promptShadowOffset,
		W: rect.W,
		H: rect.H,
	})
	ds.rctx.PushRect(rect, colorOf(ov.Background))

	baseline := y + edge + ds.overlayMetrics.Ascent
	label := ds.store.Shape(":", ds.variable, ds.textPx)
	ds.rctx.DrawShaped(x+edge, baseline, label, ds.textPx, colorOf(ov.Label))

	tx := x + edge + label.Advance()
	sh := ds.store.Shape(p.text, ds.variable, ds.textPx)
	ds.rctx.DrawShaped(tx, baseline, sh, ds.textPx, colorOf(ov.Label))

	xs := font.ClusterXs(sh, p.text)
	ord := clusterOrdinal(p.text, p.cursor)
	if ord >= len(xs) {
		ord = len(xs) - 1
	}
	ds.rctx.PushRect(render.Rect{
		X: tx + xs[ord],
		Y: y + edge,
		W: beamWidth,
		H: lineH,
	}, colorOf(ds.cfg.Theme.Textview.Cursor))
}

// clusterOrdinal counts the clusters before byte offset off.
func clusterOrdinal(s string, off int) int {
	n := 0
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		from, _ := gr.Positions()
		if from >= off {
			return n
		}
		n++
	}
	return n
}
