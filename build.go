package gridsig

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Preprocessor filters one channel in place before normalization.
// Filtering itself (band-pass, notch, detrend) lives outside this package.
type Preprocessor interface {
	Prepare(sampleRate float64, channel []float64) error
}

// PreprocessorFunc adapts a function to the Preprocessor interface.
type PreprocessorFunc func(sampleRate float64, channel []float64) error

// Prepare implements Preprocessor.
func (f PreprocessorFunc) Prepare(sampleRate float64, channel []float64) error {
	return f(sampleRate, channel)
}

// BuildOptions controls Build.
type BuildOptions struct {
	// Color selects the per-channel colors. The zero value draws random
	// colors in the default range.
	Color ColorSpec

	// SampleRate is handed to Preprocessor and otherwise unused.
	SampleRate float64

	// Preprocessor, when set, runs on every real channel.
	Preprocessor Preprocessor
}

// Buffers holds the parallel vertex streams for one dataset.
//
// Samples are ordered column-major over grid cells (row varies fastest),
// then by time. Positions[i], Indices[i] and the i-th color of
// Broadcast(Colors, Order, N) describe the same vertex.
type Buffers struct {
	Grid  GridShape
	N     int
	Count int

	// Positions holds one normalized amplitude per sample.
	Positions []float32

	// Indices holds (col, row, time) per sample.
	Indices [][3]float32

	// Order lists cell ids (row*Cols+col) in emission order.
	Order []int

	// Colors holds one RGB per cell, indexed by cell id.
	Colors [][3]float32
}

// Len returns the number of vertices.
func (b *Buffers) Len() int { return len(b.Positions) }

// VertexColors broadcasts Colors to one RGB per vertex.
func (b *Buffers) VertexColors() []float32 {
	return Broadcast(b.Colors, b.Order, b.N)
}

// Build normalizes the volume and produces the vertex streams.
//
// Each real channel is demeaned and divided by its own maximum absolute
// value, so every channel peaks at exactly 1. Channels that are flat after
// demeaning, and padding cells, stay at zero. The volume is not modified.
func Build(vol *Volume, opts BuildOptions) (*Buffers, error) {
	if vol == nil || vol.N < 1 || len(vol.Data) != vol.Grid.Cells()*vol.N {
		return nil, fmt.Errorf("%w: malformed volume", ErrShape)
	}
	rows, cols, n := vol.Grid.Rows, vol.Grid.Cols, vol.N
	norm := make([]float64, len(vol.Data))
	copy(norm, vol.Data)

	for k := 0; k < vol.Count; k++ {
		ch := norm[k*n : (k+1)*n]
		if opts.Preprocessor != nil {
			if err := opts.Preprocessor.Prepare(opts.SampleRate, ch); err != nil {
				return nil, fmt.Errorf("preprocess channel %d: %w", k, err)
			}
		}
		normalize(ch)
	}

	total := rows * cols * n
	b := &Buffers{
		Grid:      vol.Grid,
		N:         n,
		Count:     vol.Count,
		Positions: make([]float32, 0, total),
		Indices:   make([][3]float32, 0, total),
		Order:     make([]int, 0, rows*cols),
		Colors:    BuildColors(opts.Color, rows*cols),
	}
	for c := 0; c < cols; c++ {
		for r := 0; r < rows; r++ {
			cell := r*cols + c
			b.Order = append(b.Order, cell)
			for t, v := range norm[cell*n : (cell+1)*n] {
				b.Positions = append(b.Positions, float32(v))
				b.Indices = append(b.Indices, [3]float32{float32(c), float32(r), float32(t)})
			}
		}
	}
	return b, nil
}

// normalize demeans ch and scales it to unit peak amplitude.
func normalize(ch []float64) {
	floats.AddConst(-stat.Mean(ch, nil), ch)
	peak := floats.Norm(ch, math.Inf(1))
	if peak == 0 || math.IsNaN(peak) || math.IsInf(peak, 0) {
		for i := range ch {
			ch[i] = 0
		}
		return
	}
	floats.Scale(1/peak, ch)
}
