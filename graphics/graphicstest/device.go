// Package graphicstest provides recording fakes of the graphics contracts for tests
// that have no live OpenGL context.
package graphicstest

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/richinsley/connect4/graphics"
)

// Uniform is the last value uploaded to a uniform location. Only the field
// matching Kind is meaningful.
type Uniform struct {
	Kind  string
	Int   int32
	Float float32
	Vec3  mgl32.Vec3
	Mat4  mgl32.Mat4
}

// DrawCall captures the pipeline state at the time of a DrawArrays call.
type DrawCall struct {
	Mode     graphics.Primitive
	First    int32
	Count    int32
	Program  uint32
	VAO      uint32
	Vertices []float32
	Uniforms map[string]Uniform
	// Framebuffer is the bound framebuffer; 0 is the window.
	Framebuffer uint32
}

// ReadCall captures a ReadPixels call.
type ReadCall struct {
	Framebuffer   uint32
	Width, Height int
}

// Device is an in-memory graphics.Device. Object handles are allocated from a
// single counter starting at 1, so 0 always means "none".
type Device struct {
	// CompileErrors makes compilation of the given stage fail with that log.
	CompileErrors map[graphics.ShaderStage]string
	// LinkError, when set, makes every link fail with that log.
	LinkError string
	// ActiveUniforms lists the uniform names that resolve to a location.
	// A nil slice makes every name active.
	ActiveUniforms []string
	// FailFramebuffer makes NewFramebuffer report an incomplete framebuffer.
	FailFramebuffer bool

	Calls     []string
	Draws     []DrawCall
	Viewports [][4]int32
	Clears    []mgl32.Vec4
	// ClearTargets holds the framebuffer bound for each entry of Clears.
	ClearTargets []uint32
	Reads        []ReadCall
	Blending     bool
	DepthTest    bool
	DoubleFrees  []string

	next        uint32
	stages      map[uint32]graphics.ShaderStage
	sources     map[uint32]string
	compiled    map[uint32]bool
	attached    map[uint32][]uint32
	linked      map[uint32]bool
	live        map[uint32]string
	buffers     map[uint32][]float32
	usage       map[uint32]graphics.BufferUsage
	vaoBuffer   map[uint32]uint32
	locations   map[string]int32
	names       map[int32]string
	values      map[uint32]map[string]Uniform
	program     uint32
	vao         uint32
	arrayBuffer uint32
	clearColor  mgl32.Vec4
	framebuffer uint32
	fbSizes     map[uint32][2]int
}

// NewDevice returns a Device with depth testing enabled, as a fresh context has.
func NewDevice() *Device {
	return &Device{
		DepthTest: true,
		stages:    make(map[uint32]graphics.ShaderStage),
		sources:   make(map[uint32]string),
		compiled:  make(map[uint32]bool),
		attached:  make(map[uint32][]uint32),
		linked:    make(map[uint32]bool),
		live:      make(map[uint32]string),
		buffers:   make(map[uint32][]float32),
		usage:     make(map[uint32]graphics.BufferUsage),
		vaoBuffer: make(map[uint32]uint32),
		locations: make(map[string]int32),
		names:     make(map[int32]string),
		values:    make(map[uint32]map[string]Uniform),
		fbSizes:   make(map[uint32][2]int),
	}
}

func (d *Device) record(format string, args ...any) {
	d.Calls = append(d.Calls, fmt.Sprintf(format, args...))
}

func (d *Device) alloc(kind string) uint32 {
	d.next++
	d.live[d.next] = kind
	return d.next
}

func (d *Device) free(kind string, id uint32) {
	if id == 0 {
		return
	}
	if d.live[id] != kind {
		d.DoubleFrees = append(d.DoubleFrees, fmt.Sprintf("%s %d", kind, id))
		return
	}
	delete(d.live, id)
}

// Live returns the number of undeleted objects of the given kind:
// "shader", "program", "vao", "buffer" or "framebuffer".
func (d *Device) Live(kind string) int {
	n := 0
	for _, k := range d.live {
		if k == kind {
			n++
		}
	}
	return n
}

// Framebuffer returns the framebuffer last bound with BindFramebuffer.
func (d *Device) Framebuffer() uint32 { return d.framebuffer }

// FramebufferSize returns the size fbo was created with.
func (d *Device) FramebufferSize(fbo uint32) (int, int) {
	size := d.fbSizes[fbo]
	return size[0], size[1]
}

// CurrentProgram returns the program last bound with UseProgram.
func (d *Device) CurrentProgram() uint32 { return d.program }

// BufferContents returns a copy of the data stored in vbo.
func (d *Device) BufferContents(vbo uint32) []float32 {
	return append([]float32(nil), d.buffers[vbo]...)
}

// BufferUsage returns the usage hint vbo was allocated with.
func (d *Device) BufferUsage(vbo uint32) graphics.BufferUsage { return d.usage[vbo] }

// Source returns the source last attached to shader.
func (d *Device) Source(shader uint32) string { return d.sources[shader] }

// UniformValue returns the value last uploaded for name in program.
func (d *Device) UniformValue(program uint32, name string) (Uniform, bool) {
	u, ok := d.values[program][name]
	return u, ok
}

// LastDraw returns the most recent draw call. It panics when nothing was drawn.
func (d *Device) LastDraw() DrawCall {
	return d.Draws[len(d.Draws)-1]
}

func (d *Device) CreateShader(stage graphics.ShaderStage) uint32 {
	id := d.alloc("shader")
	d.stages[id] = stage
	d.record("CreateShader(%s) = %d", stage, id)
	return id
}

func (d *Device) ShaderSource(shader uint32, source string) {
	d.sources[shader] = source
	d.record("ShaderSource(%d)", shader)
}

func (d *Device) CompileShader(shader uint32) {
	_, failed := d.CompileErrors[d.stages[shader]]
	d.compiled[shader] = !failed
	d.record("CompileShader(%d)", shader)
}

func (d *Device) ShaderStatus(shader uint32) (bool, string) {
	if d.compiled[shader] {
		return true, ""
	}
	return false, d.CompileErrors[d.stages[shader]]
}

func (d *Device) DeleteShader(shader uint32) {
	d.free("shader", shader)
	d.record("DeleteShader(%d)", shader)
}

func (d *Device) CreateProgram() uint32 {
	id := d.alloc("program")
	d.values[id] = make(map[string]Uniform)
	d.record("CreateProgram() = %d", id)
	return id
}

func (d *Device) AttachShader(program, shader uint32) {
	d.attached[program] = append(d.attached[program], shader)
	d.record("AttachShader(%d, %d)", program, shader)
}

func (d *Device) LinkProgram(program uint32) {
	ok := d.LinkError == "" && len(d.attached[program]) == 2
	for _, s := range d.attached[program] {
		ok = ok && d.compiled[s]
	}
	d.linked[program] = ok
	d.record("LinkProgram(%d)", program)
}

func (d *Device) ProgramStatus(program uint32) (bool, string) {
	if d.linked[program] {
		return true, ""
	}
	if d.LinkError != "" {
		return false, d.LinkError
	}
	return false, "link failed"
}

func (d *Device) DeleteProgram(program uint32) {
	d.free("program", program)
	if d.program == program {
		d.program = 0
	}
	d.record("DeleteProgram(%d)", program)
}

func (d *Device) UseProgram(program uint32) {
	d.program = program
	d.record("UseProgram(%d)", program)
}

func (d *Device) active(name string) bool {
	if d.ActiveUniforms == nil {
		return true
	}
	for _, n := range d.ActiveUniforms {
		if n == name {
			return true
		}
	}
	return false
}

func (d *Device) UniformLocation(program uint32, name string) int32 {
	if !d.linked[program] || !d.active(name) {
		return -1
	}
	loc, ok := d.locations[name]
	if !ok {
		loc = int32(len(d.locations))
		d.locations[name] = loc
		d.names[loc] = name
	}
	return loc
}

func (d *Device) set(location int32, u Uniform) {
	if location < 0 {
		return
	}
	if d.program == 0 {
		d.record("uniform upload with no program bound")
		return
	}
	d.values[d.program][d.names[location]] = u
}

func (d *Device) Uniform1i(location int32, v int32) {
	d.set(location, Uniform{Kind: "int", Int: v})
}

func (d *Device) Uniform1f(location int32, v float32) {
	d.set(location, Uniform{Kind: "float", Float: v})
}

func (d *Device) Uniform3f(location int32, v mgl32.Vec3) {
	d.set(location, Uniform{Kind: "vec3", Vec3: v})
}

func (d *Device) UniformMatrix4f(location int32, m mgl32.Mat4) {
	d.set(location, Uniform{Kind: "mat4", Mat4: m})
}

func (d *Device) NewVertexArray() uint32 {
	id := d.alloc("vao")
	d.record("NewVertexArray() = %d", id)
	return id
}

func (d *Device) NewBuffer() uint32 {
	id := d.alloc("buffer")
	d.record("NewBuffer() = %d", id)
	return id
}

func (d *Device) BindVertexArray(vao uint32) {
	d.vao = vao
	d.record("BindVertexArray(%d)", vao)
}

func (d *Device) BindArrayBuffer(vbo uint32) {
	d.arrayBuffer = vbo
	d.record("BindArrayBuffer(%d)", vbo)
}

func (d *Device) BufferData(data []float32, usage graphics.BufferUsage) {
	d.buffers[d.arrayBuffer] = append([]float32(nil), data...)
	d.usage[d.arrayBuffer] = usage
	d.record("BufferData(%d, %d floats)", d.arrayBuffer, len(data))
}

func (d *Device) BufferSubData(data []float32) {
	buf := d.buffers[d.arrayBuffer]
	if len(data) > len(buf) {
		d.record("BufferSubData overflow on %d", d.arrayBuffer)
		return
	}
	copy(buf, data)
	d.record("BufferSubData(%d, %d floats)", d.arrayBuffer, len(data))
}

func (d *Device) VertexAttribPointer(index uint32, components int32) {
	if d.vao != 0 {
		d.vaoBuffer[d.vao] = d.arrayBuffer
	}
	d.record("VertexAttribPointer(%d, %d)", index, components)
}

func (d *Device) EnableVertexAttribArray(index uint32) {
	d.record("EnableVertexAttribArray(%d)", index)
}

func (d *Device) DeleteVertexArray(vao uint32) {
	d.free("vao", vao)
	d.record("DeleteVertexArray(%d)", vao)
}

func (d *Device) DeleteBuffer(vbo uint32) {
	d.free("buffer", vbo)
	d.record("DeleteBuffer(%d)", vbo)
}

func (d *Device) DrawArrays(mode graphics.Primitive, first, count int32) {
	uniforms := make(map[string]Uniform, len(d.values[d.program]))
	for k, v := range d.values[d.program] {
		uniforms[k] = v
	}
	d.Draws = append(d.Draws, DrawCall{
		Mode:     mode,
		First:    first,
		Count:    count,
		Program:  d.program,
		VAO:      d.vao,
		Vertices: d.BufferContents(d.vaoBuffer[d.vao]),
		Uniforms: uniforms,

		Framebuffer: d.framebuffer,
	})
	d.record("DrawArrays(%d, %d, %d)", mode, first, count)
}

func (d *Device) Viewport(x, y, width, height int32) {
	d.Viewports = append(d.Viewports, [4]int32{x, y, width, height})
	d.record("Viewport(%d, %d, %d, %d)", x, y, width, height)
}

func (d *Device) ClearColor(r, g, b, a float32) {
	d.clearColor = mgl32.Vec4{r, g, b, a}
}

func (d *Device) ClearColorBuffer() {
	d.Clears = append(d.Clears, d.clearColor)
	d.ClearTargets = append(d.ClearTargets, d.framebuffer)
	d.record("Clear")
}

func (d *Device) EnableAlphaBlending() {
	d.Blending = true
	d.record("EnableAlphaBlending")
}

func (d *Device) DisableDepthTest() {
	d.DepthTest = false
	d.record("DisableDepthTest")
}

func (d *Device) NewFramebuffer(width, height int) (uint32, error) {
	if d.FailFramebuffer {
		return 0, errors.New("graphicstest: framebuffer incomplete")
	}
	fbo := d.alloc("framebuffer")
	d.fbSizes[fbo] = [2]int{width, height}
	d.record("NewFramebuffer(%d, %d) = %d", width, height, fbo)
	return fbo, nil
}

func (d *Device) BindFramebuffer(fbo uint32) {
	d.framebuffer = fbo
	d.record("BindFramebuffer(%d)", fbo)
}

func (d *Device) DeleteFramebuffer(fbo uint32) {
	d.free("framebuffer", fbo)
	if d.framebuffer == fbo {
		d.framebuffer = 0
	}
	d.record("DeleteFramebuffer(%d)", fbo)
}

func (d *Device) ReadPixels(width, height int) []byte {
	d.Reads = append(d.Reads, ReadCall{Framebuffer: d.framebuffer, Width: width, Height: height})
	d.record("ReadPixels(%d, %d)", width, height)
	return make([]byte, width*height*4)
}

var _ graphics.Device = (*Device)(nil)
