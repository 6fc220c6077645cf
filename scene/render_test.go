package scene

import (
	"testing"

	"github.com/richinsley/connect4/graphics"
	"github.com/richinsley/connect4/graphics/graphicstest"
	"github.com/richinsley/connect4/renderer"
)

func TestScenesThroughRenderer(t *testing.T) {
	tests := []struct {
		name  string
		draws int
	}{
		{"shapes", 6},
		{"grid", 1 + BoardColumns*BoardRows + BoardColumns + 1 + BoardRows + 1},
		{"blank", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device := graphicstest.NewDevice()
			r := renderer.New(device)
			if err := r.Initialize(800, 600); err != nil {
				t.Fatalf("Initialize returned error: %v", err)
			}
			defer r.Shutdown()

			s, err := Lookup(tt.name)
			if err != nil {
				t.Fatalf("Lookup returned error: %v", err)
			}
			s.Draw(r, 800, 600)

			if len(device.Draws) != tt.draws {
				t.Errorf("draw calls = %d, want %d", len(device.Draws), tt.draws)
			}
			for i, d := range device.Draws {
				if d.Mode != graphics.Triangles && d.Mode != graphics.TriangleFan {
					t.Errorf("draw %d: unexpected mode %v", i, d.Mode)
				}
			}
		})
	}
}
