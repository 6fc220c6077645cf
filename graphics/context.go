// Package graphics defines the contracts between the Connect-4 renderer and the host
// windowing system and graphics API. Every GPU state change the renderer makes goes
// through a Device handle passed in explicitly, so the shape code can be exercised
// against a fake.
package graphics

import "github.com/go-gl/mathgl/mgl32"

// WindowConfig describes the window and context requested from a Platform.
type WindowConfig struct {
	Width        int
	Height       int
	Title        string
	GLMajor      int
	GLMinor      int
	CoreProfile  bool
	Resizable    bool
	Visible      bool
	SwapInterval int
}

// Platform is the windowing subsystem: it owns global initialization, window
// creation and loading the graphics API for a current context.
type Platform interface {
	Init() error
	CreateWindow(cfg WindowConfig) (Window, error)
	// LoadDevice resolves graphics API entry points for the window's context,
	// which must be current on the calling thread.
	LoadDevice(w Window) (Device, error)
	Terminate()
}

// Window defines the interface for a window with an OpenGL context.
type Window interface {
	MakeCurrent()
	ShouldClose() bool
	// PollEvents processes pending events without blocking. Callbacks
	// registered on the window run synchronously from inside it.
	PollEvents()
	SwapBuffers()
	GetFramebufferSize() (int, int)
	SetFramebufferSizeCallback(func(width, height int))
	// Shutdown destroys the window and its context.
	Shutdown()
}

type ShaderStage uint32

const (
	VertexShader ShaderStage = iota + 1
	FragmentShader
)

func (s ShaderStage) String() string {
	switch s {
	case VertexShader:
		return "VERTEX"
	case FragmentShader:
		return "FRAGMENT"
	default:
		return "UNKNOWN"
	}
}

type Primitive uint32

const (
	Triangles Primitive = iota + 1
	TriangleFan
)

type BufferUsage uint32

const (
	StaticDraw BufferUsage = iota + 1
	DynamicDraw
)

// Device is the subset of the graphics API the renderer consumes. Calls mutate
// pipeline state of the current context and must come from the thread that owns it.
type Device interface {
	CreateShader(stage ShaderStage) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	// ShaderStatus reports the compile status and the compiler info log.
	ShaderStatus(shader uint32) (ok bool, infoLog string)
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	LinkProgram(program uint32)
	// ProgramStatus reports the link status and the linker info log.
	ProgramStatus(program uint32) (ok bool, infoLog string)
	DeleteProgram(program uint32)
	UseProgram(program uint32)

	// UniformLocation returns -1 when name is not an active uniform.
	UniformLocation(program uint32, name string) int32
	Uniform1i(location int32, v int32)
	Uniform1f(location int32, v float32)
	Uniform3f(location int32, v mgl32.Vec3)
	UniformMatrix4f(location int32, m mgl32.Mat4)

	NewVertexArray() uint32
	NewBuffer() uint32
	BindVertexArray(vao uint32)
	BindArrayBuffer(vbo uint32)
	// BufferData (re)allocates the bound array buffer with data.
	BufferData(data []float32, usage BufferUsage)
	// BufferSubData overwrites the start of the bound array buffer.
	BufferSubData(data []float32)
	// VertexAttribPointer describes tightly packed float components at offset 0.
	VertexAttribPointer(index uint32, components int32)
	EnableVertexAttribArray(index uint32)
	DeleteVertexArray(vao uint32)
	DeleteBuffer(vbo uint32)

	DrawArrays(mode Primitive, first, count int32)

	Viewport(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	ClearColorBuffer()
	EnableAlphaBlending()
	DisableDepthTest()

	// NewFramebuffer creates a framebuffer object with a width x height RGBA8 colour
	// attachment. The window's framebuffer stays bound.
	NewFramebuffer(width, height int) (uint32, error)
	// BindFramebuffer directs draws and reads to fbo; 0 selects the window.
	BindFramebuffer(fbo uint32)
	// DeleteFramebuffer releases fbo together with its colour attachment.
	DeleteFramebuffer(fbo uint32)
	// ReadPixels returns the lower-left origin RGBA8 contents of the bound framebuffer.
	ReadPixels(width, height int) []byte
}
