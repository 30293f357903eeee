package gridsig

import "github.com/chewxy/math32"

// cellFill is the fraction of a cell covered by its signal.
const cellFill = 0.98

// Project mirrors the grid vertex shader on the CPU: it returns the
// position, before the camera transform, of a sample with amplitude value
// and index triple (col, row, time).
func Project(p RenderParameters, index [3]float32, value float32) Point {
	rows := float32(p.Grid.Rows)
	cols := float32(p.Grid.Cols)
	sx, sy := float32(p.Scale[0]), float32(p.Scale[1])
	space := float32(p.Space)

	den := math32.Max(float32(p.N-1), 1)
	x := -1 + 2*index[2]/den
	px := x - (1 - 1/sx)
	py := value

	ax, ay := cellFill/cols, cellFill/rows
	bx := -1 + space*(index[0]+.5)/cols
	by := -1 + space*(index[1]+.5)/rows
	return Point{
		X: float64(ax*sx*px + bx),
		Y: float64(ay*sy*py + by),
	}
}

// CellAt returns the grid cell under pt, a point in the camera's output
// space. Rows are counted from the top, the convention of
// Permutation.Locate. ok is false outside the grid.
func CellAt(p RenderParameters, transform Matrix, pt Point) (row, col int, ok bool) {
	if p.Grid.Rows < 1 || p.Grid.Cols < 1 || p.Space <= 0 {
		return 0, 0, false
	}
	local := transform.Invert().TransformPoint(pt)
	space := float32(p.Space)
	c := math32.Floor((float32(local.X) + 1) * float32(p.Grid.Cols) / space)
	r := math32.Floor((float32(local.Y) + 1) * float32(p.Grid.Rows) / space)
	if c < 0 || r < 0 || int(c) >= p.Grid.Cols || int(r) >= p.Grid.Rows {
		return 0, 0, false
	}
	return p.Grid.Rows - 1 - int(r), int(c), true
}
