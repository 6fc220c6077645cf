package scene

import "github.com/go-gl/mathgl/mgl32"

const (
	BoardColumns = 7
	BoardRows    = 6
)

// Grid draws an empty Connect-4 board fitted and centred in the window.
type Grid struct {
	Columns   int
	Rows      int
	Margin    float32
	LineWidth float32

	BoardColor mgl32.Vec3
	SlotColor  mgl32.Vec3
	LineColor  mgl32.Vec3
}

func NewGrid() Grid {
	return Grid{
		Columns:    BoardColumns,
		Rows:       BoardRows,
		Margin:     40,
		LineWidth:  2,
		BoardColor: mgl32.Vec3{0.1, 0.3, 0.8},
		SlotColor:  mgl32.Vec3{0.1, 0.1, 0.1},
		LineColor:  mgl32.Vec3{0.05, 0.15, 0.5},
	}
}

// Layout returns the side of one cell and the top-left corner of the board.
// cell is zero or negative when the window is too small to hold the board.
func (g Grid) Layout(width, height int) (cell float32, origin mgl32.Vec2) {
	cellW := (float32(width) - 2*g.Margin) / float32(g.Columns)
	cellH := (float32(height) - 2*g.Margin) / float32(g.Rows)
	cell = min(cellW, cellH)

	boardW := cell * float32(g.Columns)
	boardH := cell * float32(g.Rows)
	origin = mgl32.Vec2{(float32(width) - boardW) / 2, (float32(height) - boardH) / 2}
	return cell, origin
}

// SlotCenter returns the pixel centre of the slot at column, row (row 0 on top).
func (g Grid) SlotCenter(cell float32, origin mgl32.Vec2, column, row int) mgl32.Vec3 {
	return mgl32.Vec3{
		origin.X() + (float32(column)+0.5)*cell,
		origin.Y() + (float32(row)+0.5)*cell,
		0,
	}
}

func (g Grid) Draw(d Drawer, width, height int) {
	if g.Columns <= 0 || g.Rows <= 0 {
		return
	}
	cell, origin := g.Layout(width, height)
	if cell <= 0 {
		return
	}
	boardW := cell * float32(g.Columns)
	boardH := cell * float32(g.Rows)

	center := mgl32.Vec3{origin.X() + boardW/2, origin.Y() + boardH/2, 0}
	d.DrawQuad(center, mgl32.Vec2{boardW, boardH}, g.BoardColor)

	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Columns; col++ {
			d.DrawCircle(g.SlotCenter(cell, origin, col, row), cell*0.4, g.SlotColor)
		}
	}

	top, bottom := origin.Y(), origin.Y()+boardH
	for col := 0; col <= g.Columns; col++ {
		x := origin.X() + float32(col)*cell
		d.DrawLine(mgl32.Vec3{x, top, 0}, mgl32.Vec3{x, bottom, 0}, g.LineWidth, g.LineColor)
	}
	left, right := origin.X(), origin.X()+boardW
	for row := 0; row <= g.Rows; row++ {
		y := origin.Y() + float32(row)*cell
		d.DrawLine(mgl32.Vec3{left, y, 0}, mgl32.Vec3{right, y, 0}, g.LineWidth, g.LineColor)
	}
}
