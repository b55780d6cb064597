package render

import (
	gl "github.com/go-gl/gl/v3.3-core/gl"
	"go.uber.org/zap"

	"github.com/richinsley/vellum/font"
	"github.com/richinsley/vellum/opengl"
	"github.com/richinsley/vellum/shader"
)

// flushAt is the quad count that forces a batch flush.
const flushAt = 4096

type batchKind int

const (
	batchNone batchKind = iota
	batchColor
	batchGlyph
)

// Ctx owns the shader programs, vertex streams and caches for a
// window. Draw calls are batched until the batch kind changes, so
// painter's order is preserved.
type Ctx struct {
	store *font.Store

	colorProg  *opengl.Program
	shadowProg *opengl.Program
	glyphProg  *opengl.Program

	colorVA  *opengl.VertexArray
	shadowVA *opengl.VertexArray
	glyphVA  *opengl.VertexArray

	atlas   *Atlas
	shadows *shadowCache

	width  int
	height int

	active  batchKind
	verts   []float32
	indices []uint32
	quads   int

	scissors []Rect

	logger *zap.Logger
}

// NewCtx compiles the programs and allocates the caches. Requires a
// current GL context on the calling thread.
func NewCtx(store *font.Store, logger *zap.Logger) (*Ctx, error) {
	c := &Ctx{
		store:   store,
		shadows: newShadowCache(),
		logger:  logger,
	}

	var err error
	if c.colorProg, err = opengl.NewProgram(shader.ColorQuad()); err != nil {
		return nil, err
	}
	if c.shadowProg, err = opengl.NewProgram(shader.Shadow()); err != nil {
		return nil, err
	}
	if c.glyphProg, err = opengl.NewProgram(shader.Glyph()); err != nil {
		return nil, err
	}

	c.colorVA = opengl.NewVertexArray(2, 4)
	c.shadowVA = opengl.NewVertexArray(2, 2)
	c.glyphVA = opengl.NewVertexArray(2, 2, 4)
	c.atlas = NewAtlas(logger)

	logger.Debug("render context ready")
	return c, nil
}

// Begin starts a frame at the given framebuffer size.
func (c *Ctx) Begin(width, height int) {
	c.width, c.height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	proj := Ortho(float32(width), float32(height))
	for _, p := range []*opengl.Program{c.colorProg, c.shadowProg, c.glyphProg} {
		p.Use()
		p.SetMat4("projection", &proj)
	}
	c.active = batchNone
	c.verts = c.verts[:0]
	c.indices = c.indices[:0]
	c.quads = 0
}

// Clear fills the framebuffer with col.
func (c *Ctx) Clear(col Color) {
	gl.ClearColor(col[0], col[1], col[2], col[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// End flushes whatever is still batched.
func (c *Ctx) End() {
	c.Flush()
}

// Size returns the current frame dimensions.
func (c *Ctx) Size() (int, int) {
	return c.width, c.height
}

func (c *Ctx) switchBatch(k batchKind) {
	if c.active != k {
		c.Flush()
		c.active = k
	}
}

// PushRect batches a flat colored rectangle.
func (c *Ctx) PushRect(r Rect, col Color) {
	c.switchBatch(batchColor)
	c.indices = quadIndices(c.indices, uint32(c.quads))
	c.verts = append(c.verts,
		r.X, r.Y, col[0], col[1], col[2], col[3],
		r.X+r.W, r.Y, col[0], col[1], col[2], col[3],
		r.X, r.Y+r.H, col[0], col[1], col[2], col[3],
		r.X+r.W, r.Y+r.H, col[0], col[1], col[2], col[3],
	)
	c.quads++
	if c.quads >= flushAt {
		c.Flush()
	}
}

// pushGlyph batches one atlas quad.
func (c *Ctx) pushGlyph(r Rect, reg Region, col Color) {
	c.switchBatch(batchGlyph)
	c.indices = quadIndices(c.indices, uint32(c.quads))
	c.verts = append(c.verts,
		r.X, r.Y, reg.U0, reg.V0, col[0], col[1], col[2], col[3],
		r.X+r.W, r.Y, reg.U1, reg.V0, col[0], col[1], col[2], col[3],
		r.X, r.Y+r.H, reg.U0, reg.V1, col[0], col[1], col[2], col[3],
		r.X+r.W, r.Y+r.H, reg.U1, reg.V1, col[0], col[1], col[2], col[3],
	)
	c.quads++
	if c.quads >= flushAt {
		c.Flush()
	}
}

// DrawShaped draws shaped text with its baseline origin at (x, y).
// Glyph masks land in the atlas on first use.
func (c *Ctx) DrawShaped(x, y float32, sh font.Shaped, sizePx float32, col Color) {
	pen := x
	for _, out := range sh.Outputs {
		for _, g := range out.Glyphs {
			mask := c.store.Rasterize(out.Face, g, sizePx)
			if mask != nil {
				if reg, ok := c.atlas.Ensure(mask); ok {
					b := mask.Alpha.Bounds()
					c.pushGlyph(Rect{
						X: pen + float32(mask.Bearing.X),
						Y: y + float32(mask.Bearing.Y),
						W: float32(b.Dx()),
						H: float32(b.Dy()),
					}, reg, col)
				}
			}
			pen += font.FromFixed(g.XAdvance)
		}
	}
}

// DrawShadow draws the drop shadow for a widget rect. The blurred
// mask extends shadowPad past the rect on every side and is painted
// before the widget so the widget body covers the sharp center.
func (c *Ctx) DrawShadow(r Rect) {
	c.Flush()

	tex := c.shadows.texture(int(r.W), int(r.H))
	c.shadowProg.Use()
	tex.Bind(0)
	c.shadowProg.SetInt("tex", 0)

	x0 := r.X - shadowPad
	y0 := r.Y - shadowPad
	x1 := r.X + r.W + shadowPad
	y1 := r.Y + r.H + shadowPad
	verts := []float32{
		x0, y0, 0, 0,
		x1, y0, 1, 0,
		x0, y1, 0, 1,
		x1, y1, 1, 1,
	}
	indices := quadIndices(nil, 0)
	c.shadowVA.SetData(verts, indices)
	c.shadowVA.Draw(6)
	tex.Unbind(0)
}

// Flush draws the active batch and resets it.
func (c *Ctx) Flush() {
	if c.quads == 0 {
		c.active = batchNone
		return
	}

	switch c.active {
	case batchColor:
		c.colorProg.Use()
		c.colorVA.SetData(c.verts, c.indices)
		c.colorVA.Draw(int32(c.quads * 6))
	case batchGlyph:
		c.glyphProg.Use()
		c.atlas.Bind(0)
		c.glyphProg.SetInt("tex", 0)
		c.glyphVA.SetData(c.verts, c.indices)
		c.glyphVA.Draw(int32(c.quads * 6))
	}

	c.verts = c.verts[:0]
	c.indices = c.indices[:0]
	c.quads = 0
	c.active = batchNone
}

// PushScissor clips subsequent draws to r until the matching pop.
func (c *Ctx) PushScissor(r Rect) {
	c.Flush()
	c.scissors = append(c.scissors, r)
	c.applyScissor(r)
}

// PopScissor restores the previous clip rect.
func (c *Ctx) PopScissor() {
	c.Flush()
	if len(c.scissors) == 0 {
		return
	}
	c.scissors = c.scissors[:len(c.scissors)-1]
	if len(c.scissors) == 0 {
		gl.Disable(gl.SCISSOR_TEST)
		return
	}
	c.applyScissor(c.scissors[len(c.scissors)-1])
}

func (c *Ctx) applyScissor(r Rect) {
	gl.Enable(gl.SCISSOR_TEST)
	// GL scissor rects are bottom left origin.
	gl.Scissor(int32(r.X), int32(c.height)-int32(r.Y+r.H), int32(r.W), int32(r.H))
}

// Destroy releases every GL object the context owns.
func (c *Ctx) Destroy() {
	c.colorProg.Destroy()
	c.shadowProg.Destroy()
	c.glyphProg.Destroy()
	c.colorVA.Destroy()
	c.shadowVA.Destroy()
	c.glyphVA.Destroy()
	c.atlas.Destroy()
	c.shadows.destroy()
}
