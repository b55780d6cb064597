package opengl

import (
	gl "github.com/go-gl/gl/v3.3-core/gl"
)

// Format selects the texel layout of a Texture.
type Format int

const (
	// FormatRed is a single channel texture. Glyph atlases and shadow
	// masks live in the red channel.
	FormatRed Format = iota
	// FormatRGBA is a plain 8 bit per channel color texture.
	FormatRGBA
)

func (f Format) internal() int32 {
	if f == FormatRed {
		return gl.R8
	}
	return gl.RGBA8
}

func (f Format) external() uint32 {
	if f == FormatRed {
		return gl.RED
	}
	return gl.RGBA
}

// Texture is a 2D texture with clamp to edge wrapping and linear
// filtering.
type Texture struct {
	id     uint32
	width  int
	height int
	format Format
}

// NewTexture allocates an empty width x height texture.
func NewTexture(width, height int, format Format) *Texture {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	// Single channel uploads are tightly packed.
	if format == FormatRed {
		gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, format.internal(), int32(width), int32(height), 0, format.external(), gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return &Texture{id: id, width: width, height: height, format: format}
}

// SubImage uploads pix into the given region. len(pix) must match the
// region size times the channel count.
func (t *Texture) SubImage(x, y, width, height int, pix []byte) {
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	if t.format == FormatRed {
		gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	}
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, int32(x), int32(y), int32(width), int32(height), t.format.external(), gl.UNSIGNED_BYTE, gl.Ptr(pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// Bind makes the texture current on the given texture unit.
func (t *Texture) Bind(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
}

// Unbind clears the binding on the given unit.
func (t *Texture) Unbind(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// Size returns the texture dimensions in texels.
func (t *Texture) Size() (int, int) {
	return t.width, t.height
}

// Destroy deletes the texture object.
func (t *Texture) Destroy() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}
