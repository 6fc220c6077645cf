// Package glfwcontext implements the graphics windowing contracts with GLFW.
package glfwcontext

import (
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"

	connect4 "github.com/richinsley/connect4"
	"github.com/richinsley/connect4/gldevice"
	"github.com/richinsley/connect4/graphics"
)

// Context is a GLFW window together with its OpenGL context.
type Context struct {
	window   *glfw.Window
	onResize func(width, height int)
}

// New creates a GLFW window with the requested context. GLFW must be initialized.
func New(cfg graphics.WindowConfig) (*Context, error) {
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ContextVersionMajor, cfg.GLMajor)
	glfw.WindowHint(glfw.ContextVersionMinor, cfg.GLMinor)
	if cfg.CoreProfile {
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
		glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	}

	if cfg.Resizable {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Resizable, glfw.False)
	}
	if !cfg.Visible {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return nil, err
	}

	c := &Context{window: win}
	win.SetFramebufferSizeCallback(c.glfwFramebufferSizeCallback)

	win.MakeContextCurrent()
	glfw.SwapInterval(cfg.SwapInterval)
	return c, nil
}

// glfwFramebufferSizeCallback forwards GLFW resize events to the registered handler.
func (c *Context) glfwFramebufferSizeCallback(w *glfw.Window, width, height int) {
	if c.onResize != nil {
		c.onResize(width, height)
	}
}

func (c *Context) SetFramebufferSizeCallback(f func(width, height int)) {
	c.onResize = f
}

// MakeCurrent makes the context current for the calling goroutine.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
}

// Shutdown destroys the window.
func (c *Context) Shutdown() {
	if c.window == nil {
		return
	}
	c.window.Destroy()
	c.window = nil
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

func (c *Context) PollEvents() {
	glfw.PollEvents()
}

func (c *Context) SwapBuffers() {
	c.window.SwapBuffers()
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

// InitGraphics initializes GLFW. Must be called from the main thread.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	connect4.Logger().Debug("GLFW initialized")
	return nil
}

// TerminateGraphics shuts GLFW down. Must be called from the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	connect4.Logger().Debug("GLFW terminated")
}

// Platform is the GLFW windowing subsystem.
type Platform struct{}

func NewPlatform() *Platform { return &Platform{} }

func (Platform) Init() error { return InitGraphics() }

func (Platform) Terminate() { TerminateGraphics() }

func (Platform) CreateWindow(cfg graphics.WindowConfig) (graphics.Window, error) {
	c, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// LoadDevice loads OpenGL entry points for w's context and makes it current.
func (Platform) LoadDevice(w graphics.Window) (graphics.Device, error) {
	w.MakeCurrent()
	d, err := gldevice.New()
	if err != nil {
		return nil, err
	}
	connect4.Logger().Info("OpenGL loaded", "version", d.Version())
	return d, nil
}

var (
	_ graphics.Platform = Platform{}
	_ graphics.Window   = (*Context)(nil)
)
