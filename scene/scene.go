// Package scene holds the static scenes the entry point draws as a rendering smoke test.
package scene

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// Drawer is the shape API a scene draws with. *renderer.Renderer implements it.
type Drawer interface {
	DrawQuad(position mgl32.Vec3, size mgl32.Vec2, color mgl32.Vec3)
	DrawCircle(position mgl32.Vec3, radius float32, color mgl32.Vec3)
	DrawTriangle(p1, p2, p3 mgl32.Vec3, color mgl32.Vec3)
	DrawLine(start, end mgl32.Vec3, thickness float32, color mgl32.Vec3)
}

// Scene draws one frame into a width x height pixel window.
type Scene interface {
	Draw(d Drawer, width, height int)
}

var registry = map[string]func() Scene{
	"shapes": func() Scene { return Shapes{} },
	"grid":   func() Scene { return NewGrid() },
	"blank":  func() Scene { return Blank{} },
}

// Lookup returns the scene registered under name.
func Lookup(name string) (Scene, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q (available: %v)", name, Names())
	}
	return f(), nil
}

// Names lists the registered scenes in order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Blank draws nothing; the frame only shows the clear colour.
type Blank struct{}

func (Blank) Draw(Drawer, int, int) {}

// Shapes draws one of every primitive at fixed pixel positions.
type Shapes struct{}

func (Shapes) Draw(d Drawer, width, height int) {
	red := mgl32.Vec3{1, 0, 0}
	d.DrawQuad(mgl32.Vec3{100, 100, 0}, mgl32.Vec2{100, 100}, red)
	d.DrawQuad(mgl32.Vec3{0, 0, 0}, mgl32.Vec2{100, 100}, red)

	d.DrawCircle(mgl32.Vec3{300, 150, 0}, 50, mgl32.Vec3{0, 1, 0})

	d.DrawTriangle(
		mgl32.Vec3{500, 100, 0},
		mgl32.Vec3{450, 200, 0},
		mgl32.Vec3{550, 200, 0},
		mgl32.Vec3{0, 0, 1},
	)

	d.DrawLine(mgl32.Vec3{100, 300, 0}, mgl32.Vec3{300, 350, 0}, 5, mgl32.Vec3{1, 1, 0})
	d.DrawLine(mgl32.Vec3{400, 300, 0}, mgl32.Vec3{600, 400, 0}, 3, mgl32.Vec3{1, 0.5, 0})
}
