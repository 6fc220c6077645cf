package graphicstest

import (
	"errors"

	"github.com/richinsley/connect4/graphics"
)

var (
	ErrInit   = errors.New("graphicstest: platform init failed")
	ErrWindow = errors.New("graphicstest: window creation failed")
	ErrLoad   = errors.New("graphicstest: device load failed")
)

// Platform is a fake windowing subsystem handing out Windows and one shared Device.
type Platform struct {
	FailInit   bool
	FailWindow bool
	FailLoad   bool

	Device  *Device
	Windows []*Window
	Configs []graphics.WindowConfig

	InitCalls      int
	TerminateCalls int
	initialized    bool
}

// NewPlatform returns a Platform whose LoadDevice hands out a fresh Device.
func NewPlatform() *Platform {
	return &Platform{Device: NewDevice()}
}

func (p *Platform) Init() error {
	p.InitCalls++
	if p.FailInit {
		return ErrInit
	}
	p.initialized = true
	return nil
}

func (p *Platform) CreateWindow(cfg graphics.WindowConfig) (graphics.Window, error) {
	p.Configs = append(p.Configs, cfg)
	if p.FailWindow {
		return nil, ErrWindow
	}
	w := &Window{width: cfg.Width, height: cfg.Height}
	p.Windows = append(p.Windows, w)
	return w, nil
}

func (p *Platform) LoadDevice(w graphics.Window) (graphics.Device, error) {
	if p.FailLoad {
		return nil, ErrLoad
	}
	return p.Device, nil
}

func (p *Platform) Terminate() {
	p.TerminateCalls++
	p.initialized = false
}

// Initialized reports whether Init succeeded and Terminate has not run since.
func (p *Platform) Initialized() bool { return p.initialized }

// Window is a fake window. Resize queues a framebuffer-size event that is
// delivered on the next PollEvents, like a real event loop.
type Window struct {
	width, height int
	shouldClose   bool
	onResize      func(width, height int)
	pending       [][2]int

	Current   bool
	Polls     int
	Swaps     int
	Destroyed int
}

// Resize queues a framebuffer resize to width x height.
func (w *Window) Resize(width, height int) {
	w.pending = append(w.pending, [2]int{width, height})
}

// RequestClose simulates the user closing the window.
func (w *Window) RequestClose() { w.shouldClose = true }

func (w *Window) MakeCurrent()      { w.Current = true }
func (w *Window) ShouldClose() bool { return w.shouldClose }
func (w *Window) SwapBuffers()      { w.Swaps++ }
func (w *Window) Shutdown()         { w.Destroyed++ }

func (w *Window) GetFramebufferSize() (int, int) { return w.width, w.height }

func (w *Window) SetFramebufferSizeCallback(f func(width, height int)) {
	w.onResize = f
}

func (w *Window) PollEvents() {
	w.Polls++
	pending := w.pending
	w.pending = nil
	for _, size := range pending {
		w.width, w.height = size[0], size[1]
		if w.onResize != nil {
			w.onResize(size[0], size[1])
		}
	}
}

var (
	_ graphics.Platform = (*Platform)(nil)
	_ graphics.Window   = (*Window)(nil)
)
