package opengl

import (
	gl "github.com/go-gl/gl/v3.3-core/gl"
	"github.com/pkg/errors"
)

// Framebuffer is an offscreen RGBA render target. The recorder draws
// frames into one so the pixels it reads back are never clobbered by
// the swap chain.
type Framebuffer struct {
	fbo    uint32
	tex    *Texture
	width  int
	height int
}

// NewFramebuffer allocates an FBO with an RGBA8 color attachment.
func NewFramebuffer(width, height int) (*Framebuffer, error) {
	tex := NewTexture(width, height, FormatRGBA)

	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, tex.id, 0)

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.DeleteFramebuffers(1, &fbo)
		tex.Destroy()
		return nil, errors.Errorf("framebuffer is not complete: 0x%x", status)
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	return &Framebuffer{fbo: fbo, tex: tex, width: width, height: height}, nil
}

// Bind directs draws into the framebuffer.
func (f *Framebuffer) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, f.fbo)
	gl.Viewport(0, 0, int32(f.width), int32(f.height))
}

// Unbind restores the default framebuffer.
func (f *Framebuffer) Unbind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// BlitToScreen copies the color attachment to the default framebuffer.
func (f *Framebuffer) BlitToScreen(width, height int) {
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, f.fbo)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	gl.BlitFramebuffer(0, 0, int32(f.width), int32(f.height), 0, 0, int32(width), int32(height), gl.COLOR_BUFFER_BIT, gl.NEAREST)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// Size returns the render target dimensions in pixels.
func (f *Framebuffer) Size() (int, int) {
	return f.width, f.height
}

// Destroy releases the FBO and its attachment.
func (f *Framebuffer) Destroy() {
	if f.fbo != 0 {
		gl.DeleteFramebuffers(1, &f.fbo)
		f.fbo = 0
	}
	f.tex.Destroy()
}
