package gridsig

import (
	"fmt"
	"slices"
)

// MultiIndex is a position in the channel shape of the input, i.e. the
// input's index with the time dimension removed.
type MultiIndex []int

// Permutation maps grid cells to input channels.
//
// The table is vertically flipped relative to the volume: table row 0
// holds the last volume row, matching bottom-up plotting where volume row 0
// is drawn lowest. Padding cells map to -1.
type Permutation struct {
	grid     GridShape
	count    int
	channels []int
	table    []int
}

func newPermutation(grid GridShape, count int, channels []int) *Permutation {
	table := make([]int, grid.Cells())
	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Cols; col++ {
			k := (grid.Rows-1-row)*grid.Cols + col
			if k >= count {
				k = -1
			}
			table[row*grid.Cols+col] = k
		}
	}
	return &Permutation{
		grid:     grid,
		count:    count,
		channels: slices.Clone(channels),
		table:    table,
	}
}

// Grid returns the grid the permutation was built for.
func (p *Permutation) Grid() GridShape { return p.grid }

// Count returns the number of input channels.
func (p *Permutation) Count() int { return p.count }

// ChannelShape returns the pre-padding channel dimensions.
func (p *Permutation) ChannelShape() []int { return slices.Clone(p.channels) }

// Flat returns the flattened channel index at the flipped grid cell
// (row, col), or -1 for padding.
func (p *Permutation) Flat(row, col int) (int, error) {
	if p == nil || len(p.table) != p.grid.Cells() {
		return -1, fmt.Errorf("%w: no permutation", ErrLookupMiss)
	}
	if row < 0 || row >= p.grid.Rows || col < 0 || col >= p.grid.Cols {
		return -1, fmt.Errorf("%w: cell (%d, %d) outside %s grid", ErrLookupMiss, row, col, p.grid)
	}
	return p.table[row*p.grid.Cols+col], nil
}

// Locate returns the input channel index displayed at grid cell (row, col),
// rows counted from the top. It returns ErrLookupMiss instead of failing
// for padding cells, coordinates outside the grid or a permutation whose
// table no longer matches its channel shape.
func (p *Permutation) Locate(row, col int) (MultiIndex, error) {
	k, err := p.Flat(row, col)
	if err != nil {
		return nil, err
	}
	if k < 0 {
		return nil, fmt.Errorf("%w: cell (%d, %d) is padding", ErrLookupMiss, row, col)
	}
	total := 1
	for _, d := range p.channels {
		total *= d
	}
	if k >= total {
		return nil, fmt.Errorf("%w: channel %d outside shape %v", ErrLookupMiss, k, p.channels)
	}
	idx := make(MultiIndex, len(p.channels))
	unravel(k, p.channels, idx)
	return idx, nil
}

// CellOf is the inverse of Locate: it returns the flipped grid cell that
// displays channel idx.
func (p *Permutation) CellOf(idx MultiIndex) (row, col int, err error) {
	if p == nil || len(idx) != len(p.channels) {
		return 0, 0, fmt.Errorf("%w: index %v does not match channel shape", ErrLookupMiss, idx)
	}
	k := 0
	for i, v := range idx {
		if v < 0 || v >= p.channels[i] {
			return 0, 0, fmt.Errorf("%w: index %v outside shape %v", ErrLookupMiss, idx, p.channels)
		}
		k = k*p.channels[i] + v
	}
	return p.grid.Rows - 1 - k/p.grid.Cols, k % p.grid.Cols, nil
}
