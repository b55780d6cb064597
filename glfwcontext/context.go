// Package glfwcontext owns the GLFW window, the GL context and the
// input callback plumbing. Everything here must run on the main
// thread.
package glfwcontext

import (
	"runtime"

	gl "github.com/go-gl/gl/v3.3-core/gl"
	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// defaultDPI applies when the monitor reports no physical size.
const defaultDPI = 96

// Handler receives window events. The window installs it for all
// GLFW callbacks at once.
type Handler interface {
	OnChar(r rune)
	OnKey(key glfw.Key, action glfw.Action, mods glfw.ModifierKey)
	OnScroll(xoff, yoff float64)
	OnMouseButton(button glfw.MouseButton, action glfw.Action, x, y float64)
	OnResize(width, height int)
}

// Context wraps one GLFW window with a current GL context.
type Context struct {
	window  *glfw.Window
	handler Handler
	logger  *zap.Logger
}

// InitGraphics initializes GLFW. Must be called from the main thread
// before any other call in this package.
func InitGraphics(logger *zap.Logger) error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return errors.Wrapf(err, "glfw.Init failed")
	}
	logger.Debug("glfw initialized")
	return nil
}

// TerminateGraphics shuts GLFW down.
func TerminateGraphics(logger *zap.Logger) {
	glfw.Terminate()
	logger.Debug("glfw terminated")
}

// New creates the window, makes its context current and loads the GL
// function pointers.
func New(width, height int, title string, logger *zap.Logger) (*Context, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "glfw.CreateWindow failed")
	}

	win.MakeContextCurrent()
	glfw.SwapInterval(1)

	if err := gl.Init(); err != nil {
		win.Destroy()
		return nil, errors.Wrapf(err, "gl.Init failed")
	}

	c := &Context{window: win, logger: logger}
	logger.Info("window created",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Float64("dpi", c.DPI()),
		zap.String("gl", gl.GoStr(gl.GetString(gl.VERSION))))
	return c, nil
}

// SetHandler installs h for every input callback.
func (c *Context) SetHandler(h Handler) {
	c.handler = h

	c.window.SetCharCallback(func(_ *glfw.Window, r rune) {
		c.handler.OnChar(r)
	})
	c.window.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		c.handler.OnKey(key, action, mods)
	})
	c.window.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		c.handler.OnScroll(xoff, yoff)
	})
	c.window.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		x, y := c.window.GetCursorPos()
		c.handler.OnMouseButton(button, action, x, y)
	})
	c.window.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		c.handler.OnResize(w, h)
	})
}

// DPI estimates the dots per inch of the primary monitor from its
// physical size, defaulting when the monitor lies.
func (c *Context) DPI() float64 {
	monitor := glfw.GetPrimaryMonitor()
	if monitor == nil {
		return defaultDPI
	}
	mode := monitor.GetVideoMode()
	if mode == nil {
		return defaultDPI
	}
	pw, _ := monitor.GetPhysicalSize()
	if pw <= 0 {
		return defaultDPI
	}
	return float64(mode.Width) / (float64(pw) / 25.4)
}

// ShouldClose reports the window close flag.
func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

// SetShouldClose marks the window for closing.
func (c *Context) SetShouldClose(v bool) {
	c.window.SetShouldClose(v)
}

// SwapBuffers presents the frame.
func (c *Context) SwapBuffers() {
	c.window.SwapBuffers()
}

// PollEvents pumps the event queue without blocking.
func (c *Context) PollEvents() {
	glfw.PollEvents()
}

// WaitEventsTimeout blocks for events up to timeout seconds.
func (c *Context) WaitEventsTimeout(timeout float64) {
	glfw.WaitEventsTimeout(timeout)
}

// GetFramebufferSize returns the drawable size in pixels.
func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

// CursorPos returns the pointer position in window coordinates.
func (c *Context) CursorPos() (float64, float64) {
	return c.window.GetCursorPos()
}

// Time returns seconds since GLFW initialization.
func (c *Context) Time() float64 {
	return glfw.GetTime()
}

// SetTitle updates the window title.
func (c *Context) SetTitle(title string) {
	c.window.SetTitle(title)
}

// Shutdown destroys the window.
func (c *Context) Shutdown() {
	c.window.Destroy()
}
