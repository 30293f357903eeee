package gridsig

import "fmt"

// Volume is a zero-padded (Rows × Cols × N) block of samples. Channel k of
// the input occupies cell (k/Cols, k%Cols); cells at or beyond Count are
// padding and hold zeros.
type Volume struct {
	Grid  GridShape
	N     int // samples per channel
	Count int // real channels, Count <= Grid.Cells()

	// Data is row-major: cell (r, c) starts at (r*Grid.Cols+c)*N.
	Data []float64
}

// At returns the sample at grid cell (r, c) and time index t.
func (v *Volume) At(r, c, t int) float64 {
	return v.Data[(r*v.Grid.Cols+c)*v.N+t]
}

// Channel returns the samples of cell (r, c). The slice aliases Data.
func (v *Volume) Channel(r, c int) []float64 {
	off := (r*v.Grid.Cols + c) * v.N
	return v.Data[off : off+v.N]
}

// IsPadding reports whether cell (r, c) holds no input channel.
func (v *Volume) IsPadding(r, c int) bool {
	return r*v.Grid.Cols+c >= v.Count
}

// Reshape converts sig into the canonical grid volume and records the
// permutation used to map grid cells back to channels.
//
// timeAxis selects the time dimension; negative values count from the end,
// so -1 is the last axis. A 2-D input with time on axis 0 is transposed and
// a 3-D input has its time axis swapped with the last one. The remaining
// dimensions form the channel shape: [1] for 1-D, [channels] for 2-D and
// [d0, d1] for 3-D.
//
// Reshape fails with ErrShape, and allocates nothing, when the shape is
// inconsistent or timeAxis is out of range.
func Reshape(sig Signal, timeAxis int) (*Volume, *Permutation, error) {
	if sig == nil {
		return nil, nil, fmt.Errorf("%w: nil signal", ErrShape)
	}
	shape := sig.Shape()
	data := sig.Values()
	rank := len(shape)
	if rank == 0 || rank > 3 {
		return nil, nil, fmt.Errorf("%w: rank %d, want 1 to 3", ErrShape, rank)
	}
	if err := checkLen(shape, len(data)); err != nil {
		return nil, nil, err
	}

	axis := timeAxis
	if axis < 0 {
		axis += rank
	}
	if axis < 0 || axis >= rank {
		return nil, nil, fmt.Errorf("%w: time axis %d out of range for rank %d", ErrShape, timeAxis, rank)
	}

	// order lists, for each canonical axis, the source axis it reads from.
	// The last canonical axis is time.
	order := make([]int, rank)
	for i := range order {
		order[i] = i
	}
	order[axis], order[rank-1] = order[rank-1], order[axis]

	strides := make([]int, rank)
	stride := 1
	for i := rank - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= shape[i]
	}

	n := shape[order[rank-1]]
	chanShape := []int{1}
	if rank > 1 {
		chanShape = make([]int, rank-1)
		for i := range chanShape {
			chanShape[i] = shape[order[i]]
		}
	}
	count := 1
	for _, d := range chanShape {
		count *= d
	}

	grid := PlanGrid(count)
	vol := &Volume{
		Grid:  grid,
		N:     n,
		Count: count,
		Data:  make([]float64, grid.Cells()*n),
	}

	tStride := strides[order[rank-1]]
	idx := make([]int, len(chanShape))
	for k := 0; k < count; k++ {
		unravel(k, chanShape, idx)
		base := 0
		if rank > 1 {
			for i, v := range idx {
				base += v * strides[order[i]]
			}
		}
		dst := vol.Data[k*n : (k+1)*n]
		for t := range dst {
			dst[t] = data[base+t*tStride]
		}
	}

	perm := newPermutation(grid, count, chanShape)
	Logger().Debug("gridsig: reshaped signal",
		"shape", shape, "time_axis", axis, "channels", count, "grid", grid.String(), "samples", n)
	return vol, perm, nil
}

// unravel writes the row-major multi-index of flat into dst.
func unravel(flat int, shape []int, dst []int) {
	for i := len(shape) - 1; i >= 0; i-- {
		dst[i] = flat % shape[i]
		flat /= shape[i]
	}
}
