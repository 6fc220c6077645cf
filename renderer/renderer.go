// Package renderer draws flat coloured 2D shapes in window pixel coordinates with a
// single shared program.
package renderer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	connect4 "github.com/richinsley/connect4"
	"github.com/richinsley/connect4/graphics"
	"github.com/richinsley/connect4/shader"
)

// Renderer owns the flat colour program, one geometry buffer per shape kind and the
// view/projection pair read by every draw.
type Renderer struct {
	device     graphics.Device
	translator shader.Translator
	program    *shader.Program

	quad     *FixedShape
	circle   *FixedShape
	triangle *DynamicShape
	line     *DynamicShape

	view        mgl32.Mat4
	projection  mgl32.Mat4
	initialized bool
}

type Option func(*Renderer)

// WithTranslator loads the program from its GLSL ES sources through t instead of
// compiling the desktop sources directly.
func WithTranslator(t shader.Translator) Option {
	return func(r *Renderer) {
		r.translator = t
	}
}

func New(device graphics.Device, opts ...Option) *Renderer {
	r := &Renderer{
		device:     device,
		program:    shader.NewProgram(device),
		view:       mgl32.Ident4(),
		projection: mgl32.Ident4(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// TopLeftOrtho maps pixel coordinates with the origin in the top-left corner, x
// growing right and y growing down, to clip space.
func TopLeftOrtho(width, height int) mgl32.Mat4 {
	return mgl32.Ortho(0, float32(width), float32(height), 0, -1, 1)
}

// Initialize loads the program, builds the shape buffers and sizes the projection to
// the window. No buffers are created when the program fails to load.
func (r *Renderer) Initialize(width, height int) error {
	if r.initialized {
		return nil
	}

	var err error
	if r.translator != nil {
		err = r.program.LoadTranslated(r.translator, shader.VertexSource(shader.ES), shader.FragmentSource(shader.ES))
	} else {
		err = r.program.Load(shader.VertexSource(shader.DesktopGL), shader.FragmentSource(shader.DesktopGL))
	}
	if err != nil {
		return fmt.Errorf("failed to load shape program: %w", err)
	}

	r.quad = newFixedShape(r.device, QuadVertices(), graphics.Triangles)
	r.circle = newFixedShape(r.device, CircleVertices(circleSegments), graphics.TriangleFan)
	r.triangle = newDynamicShape(r.device, 3, graphics.Triangles)
	r.line = newDynamicShape(r.device, 6, graphics.Triangles)

	r.UpdateProjection(width, height)
	r.initialized = true
	connect4.Logger().Debug("renderer initialized", "width", width, "height", height)
	return nil
}

// Shutdown releases the shape buffers, then the program. Safe to call more than once.
func (r *Renderer) Shutdown() {
	if r.quad != nil {
		r.quad.release(r.device)
		r.quad = nil
	}
	if r.circle != nil {
		r.circle.release(r.device)
		r.circle = nil
	}
	if r.triangle != nil {
		r.triangle.release(r.device)
		r.triangle = nil
	}
	if r.line != nil {
		r.line.release(r.device)
		r.line = nil
	}
	r.program.Destroy()
	r.initialized = false
}

func (r *Renderer) Initialized() bool { return r.initialized }

func (r *Renderer) SetViewMatrix(view mgl32.Mat4) { r.view = view }

func (r *Renderer) SetProjectionMatrix(projection mgl32.Mat4) { r.projection = projection }

func (r *Renderer) ViewMatrix() mgl32.Mat4 { return r.view }

func (r *Renderer) ProjectionMatrix() mgl32.Mat4 { return r.projection }

// UpdateProjection resizes the top-left orthographic projection. An empty
// framebuffer, as when the window is minimised, keeps the last projection.
func (r *Renderer) UpdateProjection(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.projection = TopLeftOrtho(width, height)
}

// Quad and Circle expose the static unit geometry.
func (r *Renderer) Quad() *FixedShape { return r.quad }

func (r *Renderer) Circle() *FixedShape { return r.circle }

func (r *Renderer) bind(model mgl32.Mat4, color mgl32.Vec3) {
	r.program.Use()
	r.program.SetMat4(shader.UniformModel, model)
	r.program.SetMat4(shader.UniformView, r.view)
	r.program.SetMat4(shader.UniformProjection, r.projection)
	r.program.SetVec3(shader.UniformColor, color)
}

// DrawQuad fills a size.X by size.Y rectangle centred on position.
func (r *Renderer) DrawQuad(position mgl32.Vec3, size mgl32.Vec2, color mgl32.Vec3) {
	if !r.initialized {
		return
	}
	model := mgl32.Translate3D(position.X(), position.Y(), position.Z()).
		Mul4(mgl32.Scale3D(size.X(), size.Y(), 1))
	r.bind(model, color)
	r.quad.draw(r.device)
}

// DrawCircle fills a circle of radius centred on position.
func (r *Renderer) DrawCircle(position mgl32.Vec3, radius float32, color mgl32.Vec3) {
	if !r.initialized {
		return
	}
	model := mgl32.Translate3D(position.X(), position.Y(), position.Z()).
		Mul4(mgl32.Scale3D(radius, radius, 1))
	r.bind(model, color)
	r.circle.draw(r.device)
}

// DrawTriangle fills the triangle p1, p2, p3 given in world space.
func (r *Renderer) DrawTriangle(p1, p2, p3 mgl32.Vec3, color mgl32.Vec3) {
	if !r.initialized {
		return
	}
	r.triangle.update(r.device, TriangleVertices(p1, p2, p3))
	r.bind(mgl32.Ident4(), color)
	r.triangle.draw(r.device)
}

// DrawLine fills a thickness wide band from start to end. A zero-length line draws
// nothing.
func (r *Renderer) DrawLine(start, end mgl32.Vec3, thickness float32, color mgl32.Vec3) {
	if !r.initialized {
		return
	}
	vertices, ok := LineVertices(start, end, thickness)
	if !ok {
		return
	}
	r.line.update(r.device, vertices)
	r.bind(mgl32.Ident4(), color)
	r.line.draw(r.device)
}
