package render

import (
	"go.uber.org/zap"

	"github.com/richinsley/vellum/font"
	"github.com/richinsley/vellum/opengl"
)

// atlasSize is the square glyph atlas dimension in texels.
const atlasSize = 4096

// Region is a packed rectangle's texture coordinates.
type Region struct {
	U0, V0, U1, V1 float32
	W, H           int
}

// shelf is one packer row. Entries on a shelf share its height.
type shelf struct {
	y      int
	height int
	x      int
}

// packer allocates rectangles left to right on height matched shelves.
type packer struct {
	size    int
	shelves []shelf
	nextY   int
}

func newPacker(size int) *packer {
	return &packer{size: size}
}

// pack reserves a w x h rectangle and returns its top left corner.
func (p *packer) pack(w, h int) (int, int, bool) {
	if w > p.size || h > p.size {
		return 0, 0, false
	}
	// Reuse a shelf whose height wastes at most a quarter.
	for i := range p.shelves {
		s := &p.shelves[i]
		if h <= s.height && h*4 >= s.height*3 && s.x+w <= p.size {
			x := s.x
			s.x += w
			return x, s.y, true
		}
	}
	if p.nextY+h > p.size {
		return 0, 0, false
	}
	s := shelf{y: p.nextY, height: h, x: w}
	p.shelves = append(p.shelves, s)
	p.nextY += h
	return 0, s.y, true
}

// Atlas packs glyph masks into one single channel texture.
type Atlas struct {
	tex     *opengl.Texture
	packer  *packer
	regions map[*font.Mask]Region
	full    bool
	logger  *zap.Logger
}

// NewAtlas allocates the atlas texture. Needs a current GL context.
func NewAtlas(logger *zap.Logger) *Atlas {
	return &Atlas{
		tex:     opengl.NewTexture(atlasSize, atlasSize, opengl.FormatRed),
		packer:  newPacker(atlasSize),
		regions: make(map[*font.Mask]Region),
		logger:  logger,
	}
}

// Ensure returns the mask's atlas region, uploading it on first use.
func (a *Atlas) Ensure(m *font.Mask) (Region, bool) {
	if r, ok := a.regions[m]; ok {
		return r, true
	}

	b := m.Alpha.Bounds()
	w, h := b.Dx(), b.Dy()
	x, y, ok := a.packer.pack(w, h)
	if !ok {
		if !a.full {
			a.full = true
			a.logger.Warn("glyph atlas full, further glyphs drop", zap.Int("size", atlasSize))
		}
		return Region{}, false
	}

	a.tex.SubImage(x, y, w, h, m.Alpha.Pix)

	r := Region{
		U0: float32(x) / atlasSize,
		V0: float32(y) / atlasSize,
		U1: float32(x+w) / atlasSize,
		V1: float32(y+h) / atlasSize,
		W:  w,
		H:  h,
	}
	a.regions[m] = r
	return r, true
}

// Bind makes the atlas texture current on the unit.
func (a *Atlas) Bind(unit uint32) {
	a.tex.Bind(unit)
}

// Destroy releases the texture.
func (a *Atlas) Destroy() {
	a.tex.Destroy()
}
