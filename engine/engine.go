// Package engine owns the window, the graphics context and the shape renderer, and
// drives the per-frame begin/end cycle.
package engine

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	connect4 "github.com/richinsley/connect4"
	"github.com/richinsley/connect4/graphics"
	"github.com/richinsley/connect4/renderer"
	"github.com/richinsley/connect4/shader"
)

var (
	ErrPlatformInit = errors.New("failed to initialize windowing subsystem")
	ErrWindowCreate = errors.New("failed to create window")
	ErrGLLoad       = errors.New("failed to load OpenGL")
	ErrRenderer     = errors.New("failed to initialize renderer")
	ErrFramebuffer  = errors.New("failed to create offscreen framebuffer")
)

// DefaultClearColor is used by BeginFrame.
var DefaultClearColor = mgl32.Vec3{0.1, 0.1, 0.1}

// Requested context version.
const (
	glMajor = 3
	glMinor = 3
)

type Engine struct {
	platform     graphics.Platform
	translator   shader.Translator
	swapInterval int
	offscreen    bool

	platformUp  bool
	window      graphics.Window
	device      graphics.Device
	framebuffer uint32
	renderer    *renderer.Renderer
	width       int
	height      int
	initialized bool
}

type Option func(*Engine)

// WithTranslator makes the renderer load its program through t.
func WithTranslator(t shader.Translator) Option {
	return func(e *Engine) { e.translator = t }
}

// WithSwapInterval sets the number of screen updates to wait for before swapping.
func WithSwapInterval(n int) Option {
	return func(e *Engine) { e.swapInterval = n }
}

// WithOffscreen hides the window and renders every frame into a framebuffer
// object of the requested size, which ReadFrame reads back. Window resizes
// are ignored.
func WithOffscreen() Option {
	return func(e *Engine) { e.offscreen = true }
}

func New(platform graphics.Platform, opts ...Option) *Engine {
	e := &Engine{platform: platform, swapInterval: 1}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Initialize creates the window and context and initializes the renderer. It
// returns nil without doing anything when already initialized. On failure the
// partially built state is kept for Shutdown to release.
func (e *Engine) Initialize(width, height int, title string) error {
	if e.initialized {
		return nil
	}
	log := connect4.Logger()

	// Release what a previous failed attempt left behind.
	if e.window != nil {
		e.Shutdown()
	}

	if !e.platformUp {
		if err := e.platform.Init(); err != nil {
			return fmt.Errorf("%w: %w", ErrPlatformInit, err)
		}
		e.platformUp = true
	}

	window, err := e.platform.CreateWindow(graphics.WindowConfig{
		Width:        width,
		Height:       height,
		Title:        title,
		GLMajor:      glMajor,
		GLMinor:      glMinor,
		CoreProfile:  true,
		Resizable:    !e.offscreen,
		Visible:      !e.offscreen,
		SwapInterval: e.swapInterval,
	})
	if err != nil {
		e.platform.Terminate()
		e.platformUp = false
		return fmt.Errorf("%w: %w", ErrWindowCreate, err)
	}
	e.window = window
	window.MakeCurrent()
	window.SetFramebufferSizeCallback(e.onFramebufferResize)

	device, err := e.platform.LoadDevice(window)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrGLLoad, err)
	}
	e.device = device

	// The framebuffer can differ from the requested window size on high-DPI displays.
	fbWidth, fbHeight := window.GetFramebufferSize()
	if fbWidth <= 0 || fbHeight <= 0 || e.offscreen {
		fbWidth, fbHeight = width, height
	}
	e.width, e.height = fbWidth, fbHeight

	if e.offscreen {
		fbo, err := device.NewFramebuffer(fbWidth, fbHeight)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrFramebuffer, err)
		}
		e.framebuffer = fbo
		device.BindFramebuffer(fbo)
	}

	device.Viewport(0, 0, int32(fbWidth), int32(fbHeight))
	device.DisableDepthTest()
	device.EnableAlphaBlending()

	var opts []renderer.Option
	if e.translator != nil {
		opts = append(opts, renderer.WithTranslator(e.translator))
	}
	e.renderer = renderer.New(device, opts...)
	if err := e.renderer.Initialize(fbWidth, fbHeight); err != nil {
		return fmt.Errorf("%w: %w", ErrRenderer, err)
	}

	e.initialized = true
	log.Info("graphics engine initialized", "width", fbWidth, "height", fbHeight, "title", title)
	return nil
}

// onFramebufferResize runs from inside PollEvents.
func (e *Engine) onFramebufferResize(width, height int) {
	if e.offscreen {
		return
	}
	e.width, e.height = width, height
	if e.device != nil {
		e.device.Viewport(0, 0, int32(width), int32(height))
	}
	if e.renderer != nil {
		e.renderer.UpdateProjection(width, height)
	}
	connect4.Logger().Debug("framebuffer resized", "width", width, "height", height)
}

// IsRunning reports whether the engine is initialized and no close was requested.
func (e *Engine) IsRunning() bool {
	return e.initialized && !e.window.ShouldClose()
}

// BeginFrame processes pending events and clears to DefaultClearColor.
func (e *Engine) BeginFrame() {
	e.BeginFrameWithColor(DefaultClearColor)
}

// BeginFrameWithColor processes pending events and clears to clearColor.
func (e *Engine) BeginFrameWithColor(clearColor mgl32.Vec3) {
	if !e.initialized {
		return
	}
	e.window.PollEvents()
	if e.framebuffer != 0 {
		e.device.BindFramebuffer(e.framebuffer)
	}
	e.device.ClearColor(clearColor.X(), clearColor.Y(), clearColor.Z(), 1)
	e.device.ClearColorBuffer()
}

// EndFrame presents the back buffer.
func (e *Engine) EndFrame() {
	if !e.initialized {
		return
	}
	e.window.SwapBuffers()
}

// ReadFrame returns the RGBA contents of the render target, bottom row first.
func (e *Engine) ReadFrame() []byte {
	if !e.initialized {
		return nil
	}
	if e.framebuffer != 0 {
		e.device.BindFramebuffer(e.framebuffer)
	}
	return e.device.ReadPixels(e.width, e.height)
}

// Shutdown releases the renderer, the offscreen framebuffer, the window and the
// windowing subsystem, each only
// if it was acquired. Safe after a failed Initialize and on repeated calls.
func (e *Engine) Shutdown() {
	if e.renderer != nil {
		e.renderer.Shutdown()
		e.renderer = nil
	}
	if e.framebuffer != 0 {
		e.device.BindFramebuffer(0)
		e.device.DeleteFramebuffer(e.framebuffer)
		e.framebuffer = 0
	}
	e.device = nil
	if e.window != nil {
		e.window.Shutdown()
		e.window = nil
	}
	if e.platformUp {
		e.platform.Terminate()
		e.platformUp = false
	}
	if e.initialized {
		connect4.Logger().Info("graphics engine shut down")
	}
	e.initialized = false
}

func (e *Engine) Renderer() *renderer.Renderer { return e.renderer }

func (e *Engine) Window() graphics.Window { return e.window }

func (e *Engine) Width() int { return e.width }

func (e *Engine) Height() int { return e.height }
