package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/richinsley/connect4/graphics"
	"github.com/richinsley/connect4/shader"
)

const (
	floatsPerVertex = 3
	circleSegments  = 30
)

// QuadVertices returns the unit square centred on the origin as two
// counter-clockwise triangles.
func QuadVertices() []float32 {
	return []float32{
		-0.5, -0.5, 0.0,
		0.5, -0.5, 0.0,
		0.5, 0.5, 0.0,
		-0.5, -0.5, 0.0,
		0.5, 0.5, 0.0,
		-0.5, 0.5, 0.0,
	}
}

// CircleVertices returns a triangle fan for the unit circle: the centre followed by
// segments+1 perimeter points, the last one repeating the first to close the loop.
func CircleVertices(segments int) []float32 {
	vertices := make([]float32, 0, (segments+2)*floatsPerVertex)
	vertices = append(vertices, 0, 0, 0)
	for i := 0; i <= segments; i++ {
		angle := 2 * math.Pi * float64(i) / float64(segments)
		vertices = append(vertices, float32(math.Cos(angle)), float32(math.Sin(angle)), 0)
	}
	return vertices
}

// TriangleVertices flattens three points into buffer order.
func TriangleVertices(p1, p2, p3 mgl32.Vec3) []float32 {
	return []float32{
		p1.X(), p1.Y(), p1.Z(),
		p2.X(), p2.Y(), p2.Z(),
		p3.X(), p3.Y(), p3.Z(),
	}
}

// LineVertices returns the two triangles of a rectangle of the given thickness
// centred on the segment start-end. ok is false for a zero-length segment, which
// has no direction.
func LineVertices(start, end mgl32.Vec3, thickness float32) (vertices []float32, ok bool) {
	delta := end.Sub(start)
	length := delta.Len()
	if length == 0 {
		return nil, false
	}
	dir := mgl32.Vec3{delta.X() / length, delta.Y() / length, delta.Z() / length}
	offset := mgl32.Vec3{-dir.Y(), dir.X(), 0}.Mul(thickness / 2)

	p1 := start.Add(offset)
	p2 := start.Sub(offset)
	p3 := end.Sub(offset)
	p4 := end.Add(offset)

	vertices = make([]float32, 0, 6*floatsPerVertex)
	for _, p := range []mgl32.Vec3{p1, p2, p3, p1, p3, p4} {
		vertices = append(vertices, p.X(), p.Y(), p.Z())
	}
	return vertices, true
}

// geometry is a vertex array with a single position attribute.
type geometry struct {
	vao   uint32
	vbo   uint32
	mode  graphics.Primitive
	count int32
}

func newGeometry(device graphics.Device, vertices []float32, mode graphics.Primitive, usage graphics.BufferUsage) geometry {
	g := geometry{
		vao:   device.NewVertexArray(),
		vbo:   device.NewBuffer(),
		mode:  mode,
		count: int32(len(vertices) / floatsPerVertex),
	}
	device.BindVertexArray(g.vao)
	device.BindArrayBuffer(g.vbo)
	device.BufferData(vertices, usage)
	device.VertexAttribPointer(shader.PositionAttribute, floatsPerVertex)
	device.EnableVertexAttribArray(shader.PositionAttribute)
	device.BindArrayBuffer(0)
	device.BindVertexArray(0)
	return g
}

func (g *geometry) draw(device graphics.Device) {
	device.BindVertexArray(g.vao)
	device.DrawArrays(g.mode, 0, g.count)
}

func (g *geometry) release(device graphics.Device) {
	if g.vao != 0 {
		device.DeleteVertexArray(g.vao)
		g.vao = 0
	}
	if g.vbo != 0 {
		device.DeleteBuffer(g.vbo)
		g.vbo = 0
	}
}

// FixedShape is unit geometry uploaded once and placed with a model matrix.
type FixedShape struct {
	geometry
}

func newFixedShape(device graphics.Device, vertices []float32, mode graphics.Primitive) *FixedShape {
	return &FixedShape{geometry: newGeometry(device, vertices, mode, graphics.StaticDraw)}
}

// VertexCount is the number of vertices drawn per call.
func (s *FixedShape) VertexCount() int { return int(s.count) }

// DynamicShape holds a fixed number of vertices whose positions are rewritten in
// world space before every draw.
type DynamicShape struct {
	geometry
}

func newDynamicShape(device graphics.Device, vertexCount int, mode graphics.Primitive) *DynamicShape {
	return &DynamicShape{geometry: newGeometry(device, make([]float32, vertexCount*floatsPerVertex), mode, graphics.DynamicDraw)}
}

func (s *DynamicShape) VertexCount() int { return int(s.count) }

func (s *DynamicShape) update(device graphics.Device, vertices []float32) {
	device.BindArrayBuffer(s.vbo)
	device.BufferSubData(vertices)
	device.BindArrayBuffer(0)
}
