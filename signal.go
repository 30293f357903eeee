package gridsig

import "fmt"

// Signal is the input to Reshape: a 1-D, 2-D or 3-D array of samples.
// The set of variants is closed; use OneD, TwoD, ThreeD or FromShape.
type Signal interface {
	// Shape returns the array dimensions, outermost first.
	Shape() []int
	// Values returns the samples in row-major order.
	Values() []float64

	signal()
}

// OneD is a single channel.
type OneD []float64

// Shape implements Signal.
func (s OneD) Shape() []int { return []int{len(s)} }

// Values implements Signal.
func (s OneD) Values() []float64 { return s }

func (OneD) signal() {}

// TwoD is a row-major matrix, either channels × time or time × channels
// depending on the time axis given to Reshape.
type TwoD struct {
	Dims [2]int
	Data []float64
}

// Shape implements Signal.
func (s TwoD) Shape() []int { return []int{s.Dims[0], s.Dims[1]} }

// Values implements Signal.
func (s TwoD) Values() []float64 { return s.Data }

func (TwoD) signal() {}

// ThreeD is a row-major array with two channel dimensions and one time
// dimension, in any order.
type ThreeD struct {
	Dims [3]int
	Data []float64
}

// Shape implements Signal.
func (s ThreeD) Shape() []int { return []int{s.Dims[0], s.Dims[1], s.Dims[2]} }

// Values implements Signal.
func (s ThreeD) Values() []float64 { return s.Data }

func (ThreeD) signal() {}

// FromShape wraps a row-major buffer with the given dimensions in the
// matching Signal variant. It fails with ErrShape for rank 0, rank above 3,
// or when len(data) differs from the product of shape.
func FromShape(shape []int, data []float64) (Signal, error) {
	if len(shape) == 0 || len(shape) > 3 {
		return nil, fmt.Errorf("%w: rank %d, want 1 to 3", ErrShape, len(shape))
	}
	if err := checkLen(shape, len(data)); err != nil {
		return nil, err
	}
	switch len(shape) {
	case 1:
		return OneD(data), nil
	case 2:
		return TwoD{Dims: [2]int{shape[0], shape[1]}, Data: data}, nil
	default:
		return ThreeD{Dims: [3]int{shape[0], shape[1], shape[2]}, Data: data}, nil
	}
}

func checkLen(shape []int, n int) error {
	total := 1
	for _, d := range shape {
		if d < 1 {
			return fmt.Errorf("%w: dimension %d in %v", ErrShape, d, shape)
		}
		total *= d
	}
	if total != n {
		return fmt.Errorf("%w: shape %v needs %d samples, got %d", ErrShape, shape, total, n)
	}
	return nil
}
