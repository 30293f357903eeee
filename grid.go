package gridsig

import (
	"fmt"
	"math"
)

// GridShape is the number of subplot rows and columns used to tile the
// channels. Rows*Cols may exceed the channel count; the extra cells are
// padding.
type GridShape struct {
	Rows, Cols int
}

// Cells returns Rows*Cols.
func (g GridShape) Cells() int {
	return g.Rows * g.Cols
}

// String implements fmt.Stringer.
func (g GridShape) String() string {
	return fmt.Sprintf("%dx%d", g.Rows, g.Cols)
}

// PlanGrid picks a near-square grid for count channels.
//
// Cols is the smallest integer whose square covers count and Rows is the
// fewest rows of that width that hold every channel. The result satisfies
// Rows*Cols >= count with |Rows-Cols| <= 1, and no grid with a smaller
// imbalance uses fewer or equal cells. Counts below 2 give a 1x1 grid.
func PlanGrid(count int) GridShape {
	if count <= 1 {
		return GridShape{Rows: 1, Cols: 1}
	}
	cols := int(math.Ceil(math.Sqrt(float64(count))))
	// Guard against sqrt rounding for perfect squares of large counts.
	for (cols-1)*(cols-1) >= count {
		cols--
	}
	for cols*cols < count {
		cols++
	}
	rows := (count + cols - 1) / cols
	return GridShape{Rows: rows, Cols: cols}
}
