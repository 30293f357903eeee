package gridsig

import (
	"fmt"
	"math"
)

// Default render parameters.
const (
	DefaultSpace = 2.0
	DefaultScale = 1.0
)

// RenderParameters are the per-frame values read by the grid shader.
//
// The value is immutable: the With methods return an updated copy with
// Dirty set, leaving the receiver untouched on error. The renderer clears
// Dirty after it draws.
type RenderParameters struct {
	Scale [2]float64
	Space float64

	// Geometry of the current dataset.
	N     int
	Grid  GridShape
	Count int

	Dirty bool
}

// DefaultParameters returns unit scale and the default cell spacing.
func DefaultParameters() RenderParameters {
	return RenderParameters{
		Scale: [2]float64{DefaultScale, DefaultScale},
		Space: DefaultSpace,
		Grid:  GridShape{Rows: 1, Cols: 1},
		N:     1,
	}
}

// WithScale returns p with a new (sx, sy) scale. Exactly two finite,
// positive values are accepted; anything else fails with ErrTypeConstraint.
func (p RenderParameters) WithScale(v ...float64) (RenderParameters, error) {
	if len(v) != 2 {
		return p, fmt.Errorf("%w: scale needs 2 values, got %d", ErrTypeConstraint, len(v))
	}
	for _, s := range v {
		if !positiveFinite(s) {
			return p, fmt.Errorf("%w: scale %v", ErrTypeConstraint, v)
		}
	}
	p.Scale = [2]float64{v[0], v[1]}
	p.Dirty = true
	return p, nil
}

// WithSpace returns p with a new inter-cell spacing factor, which must be
// finite and positive.
func (p RenderParameters) WithSpace(gap float64) (RenderParameters, error) {
	if !positiveFinite(gap) {
		return p, fmt.Errorf("%w: space %v", ErrTypeConstraint, gap)
	}
	p.Space = gap
	p.Dirty = true
	return p, nil
}

// WithGeometry returns p bound to the layout of b.
func (p RenderParameters) WithGeometry(b *Buffers) RenderParameters {
	p.N = b.N
	p.Grid = b.Grid
	p.Count = b.Count
	p.Dirty = true
	return p
}

// Clean returns p with Dirty cleared.
func (p RenderParameters) Clean() RenderParameters {
	p.Dirty = false
	return p
}

// Rect returns the (x, y, width, height) rectangle a camera should frame
// to show the whole grid, including a small margin.
func (p RenderParameters) Rect() (x, y, w, h float64) {
	return -1.05, -1.1, p.Space + .1, p.Space + .2
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
