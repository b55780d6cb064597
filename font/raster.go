package font

import (
	"image"
	"image/draw"
	"sync"

	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/font/opentype"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/vector"
)

// maskBorder is the padding rasterized around the ink extents so
// linear filtering never bleeds neighboring atlas entries.
const maskBorder = 1

// Mask is a rasterized glyph. Bearing is the offset from the pen
// position on the baseline to the mask's top left corner, in a y down
// coordinate system.
type Mask struct {
	Alpha   *image.Alpha
	Bearing image.Point
}

type maskKey struct {
	face *font.Face
	gid  font.GID
	size int32 // quarter pixels
}

type maskCache struct {
	mu    sync.Mutex
	masks map[maskKey]*Mask
}

func newMaskCache() *maskCache {
	return &maskCache{masks: make(map[maskKey]*Mask)}
}

// Rasterize renders the glyph's outline at sizePx. It returns nil for
// glyphs with no ink, such as spaces, and for non outline glyph data.
func (s *Store) Rasterize(face *font.Face, g shaping.Glyph, sizePx float32) *Mask {
	key := maskKey{face: face, gid: g.GlyphID, size: int32(sizePx * 4)}

	s.masks.mu.Lock()
	if m, ok := s.masks.masks[key]; ok {
		s.masks.mu.Unlock()
		return m
	}
	s.masks.mu.Unlock()

	m := renderMask(face, g, sizePx)

	s.masks.mu.Lock()
	s.masks.masks[key] = m
	s.masks.mu.Unlock()
	return m
}

func renderMask(face *font.Face, g shaping.Glyph, sizePx float32) *Mask {
	w := g.Width.Ceil()
	h := -g.Height.Ceil()
	if w <= 0 || h <= 0 {
		return nil
	}

	outline, ok := face.GlyphData(g.GlyphID).(font.GlyphOutline)
	if !ok {
		return nil
	}

	scale := sizePx / float32(face.Upem())
	width := w + 2*maskBorder
	height := h + 2*maskBorder

	// Shift outline coordinates so the ink's top left lands at the
	// border offset. Outline y grows upward; the mask's grows down.
	dx := -float32(g.XBearing.Round()) + maskBorder
	dy := float32(g.YBearing.Round()) + maskBorder

	ras := vector.NewRasterizer(width, height)
	ras.DrawOp = draw.Src
	started := false
	for _, seg := range outline.Segments {
		x0 := seg.Args[0].X*scale + dx
		y0 := -seg.Args[0].Y*scale + dy
		switch seg.Op {
		case opentype.SegmentOpMoveTo:
			if started {
				ras.ClosePath()
			}
			ras.MoveTo(x0, y0)
			started = true
		case opentype.SegmentOpLineTo:
			ras.LineTo(x0, y0)
		case opentype.SegmentOpQuadTo:
			x1 := seg.Args[1].X*scale + dx
			y1 := -seg.Args[1].Y*scale + dy
			ras.QuadTo(x0, y0, x1, y1)
		case opentype.SegmentOpCubeTo:
			x1 := seg.Args[1].X*scale + dx
			y1 := -seg.Args[1].Y*scale + dy
			x2 := seg.Args[2].X*scale + dx
			y2 := -seg.Args[2].Y*scale + dy
			ras.CubeTo(x0, y0, x1, y1, x2, y2)
		}
	}
	if !started {
		return nil
	}
	ras.ClosePath()

	alpha := image.NewAlpha(image.Rect(0, 0, width, height))
	ras.Draw(alpha, alpha.Bounds(), image.Opaque, image.Point{})

	return &Mask{
		Alpha: alpha,
		Bearing: image.Point{
			X: g.XBearing.Round() - maskBorder,
			Y: -g.YBearing.Round() - maskBorder,
		},
	}
}
