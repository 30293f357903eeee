package gridsig

import (
	"errors"
	"math"
	"slices"
	"testing"
)

const tolerance = 1e-5

// sinusoids returns channels x n samples of offset, scaled sine waves.
func sinusoids(channels, n int) []float64 {
	data := make([]float64, channels*n)
	for k := 0; k < channels; k++ {
		amp := float64(k + 1)
		offset := 10 * float64(k)
		for t := 0; t < n; t++ {
			data[k*n+t] = offset + amp*math.Sin(2*math.Pi*float64((k+1)*t)/float64(n))
		}
	}
	return data
}

func TestBuildNormalizesPerChannel(t *testing.T) {
	vol, _, err := Reshape(TwoD{Dims: [2]int{5, 200}, Data: sinusoids(5, 200)}, -1)
	if err != nil {
		t.Fatalf("Reshape: %v", err)
	}
	bufs, err := Build(vol, BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for i, cell := range bufs.Order {
		samples := bufs.Positions[i*bufs.N : (i+1)*bufs.N]
		var sum, peak float64
		for _, v := range samples {
			sum += float64(v)
			peak = math.Max(peak, math.Abs(float64(v)))
		}
		mean := sum / float64(bufs.N)
		if cell >= bufs.Count {
			if peak != 0 {
				t.Errorf("padding cell %d has peak %v, want 0", cell, peak)
			}
			continue
		}
		if math.Abs(mean) > tolerance {
			t.Errorf("cell %d mean = %v, want 0", cell, mean)
		}
		if math.Abs(peak-1) > tolerance {
			t.Errorf("cell %d peak = %v, want 1", cell, peak)
		}
	}
}

func TestBuildIndexOrder(t *testing.T) {
	vol, _, err := Reshape(TwoD{Dims: [2]int{5, 1000}, Data: sinusoids(5, 1000)}, 1)
	if err != nil {
		t.Fatalf("Reshape: %v", err)
	}
	bufs, err := Build(vol, BuildOptions{Color: UniformColor(RGB(1, 0, 0))})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	total := bufs.Grid.Cells() * 1000
	if len(bufs.Indices) != total || len(bufs.Positions) != total {
		t.Fatalf("got %d indices, %d positions, want %d", len(bufs.Indices), len(bufs.Positions), total)
	}

	// Column-major over cells, row fastest, then time.
	if want := []int{0, 3, 1, 4, 2, 5}; !slices.Equal(bufs.Order, want) {
		t.Errorf("Order = %v, want %v", bufs.Order, want)
	}
	checks := []struct {
		i    int
		want [3]float32
	}{
		{0, [3]float32{0, 0, 0}},
		{999, [3]float32{0, 0, 999}},
		{1000, [3]float32{0, 1, 0}},
		{2000, [3]float32{1, 0, 0}},
		{total - 1, [3]float32{2, 1, 999}},
	}
	for _, c := range checks {
		if got := bufs.Indices[c.i]; got != c.want {
			t.Errorf("Indices[%d] = %v, want %v", c.i, got, c.want)
		}
	}
	for i, idx := range bufs.Indices {
		if idx[2] < 0 || idx[2] >= 1000 || idx[2] != float32(math.Trunc(float64(idx[2]))) {
			t.Fatalf("Indices[%d] time %v outside [0, 1000)", i, idx[2])
		}
	}
}

func TestBuildFlatChannelStaysZero(t *testing.T) {
	data := append([]float64{3, 3, 3, 3}, 1, 2, 3, 4)
	vol, _, err := Reshape(TwoD{Dims: [2]int{2, 4}, Data: data}, -1)
	if err != nil {
		t.Fatalf("Reshape: %v", err)
	}
	bufs, err := Build(vol, BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for i, v := range bufs.Positions[:4] {
		if v != 0 || math.IsNaN(float64(v)) {
			t.Errorf("flat channel sample %d = %v, want 0", i, v)
		}
	}
}

func TestBuildLeavesVolumeUntouched(t *testing.T) {
	vol, _, err := Reshape(OneD{1, 2, 3, 4}, -1)
	if err != nil {
		t.Fatalf("Reshape: %v", err)
	}
	before := slices.Clone(vol.Data)
	if _, err := Build(vol, BuildOptions{}); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !slices.Equal(vol.Data, before) {
		t.Errorf("Build modified the volume: %v", vol.Data)
	}
}

func TestBuildPreprocessor(t *testing.T) {
	vol, _, err := Reshape(TwoD{Dims: [2]int{3, 4}, Data: ramp(12)}, -1)
	if err != nil {
		t.Fatalf("Reshape: %v", err)
	}

	var calls int
	var rate float64
	pre := PreprocessorFunc(func(sr float64, ch []float64) error {
		calls++
		rate = sr
		return nil
	})
	if _, err := Build(vol, BuildOptions{SampleRate: 256, Preprocessor: pre}); err != nil {
		t.Fatalf("Build: %v", err)
	}
	// Only real channels are preprocessed, not the padding cell.
	if calls != 3 || rate != 256 {
		t.Errorf("preprocessor called %d times at %v Hz, want 3 at 256", calls, rate)
	}

	errBoom := errors.New("boom")
	fail := PreprocessorFunc(func(float64, []float64) error { return errBoom })
	if _, err := Build(vol, BuildOptions{Preprocessor: fail}); !errors.Is(err, errBoom) {
		t.Errorf("Build err = %v, want wrapped preprocessor error", err)
	}
}

func TestBuildRejectsMalformedVolume(t *testing.T) {
	tests := []*Volume{
		nil,
		{Grid: GridShape{1, 1}, N: 0},
		{Grid: GridShape{1, 2}, N: 3, Count: 2, Data: make([]float64, 5)},
	}
	for i, vol := range tests {
		if _, err := Build(vol, BuildOptions{}); !errors.Is(err, ErrShape) {
			t.Errorf("case %d: err = %v, want ErrShape", i, err)
		}
	}
}

func TestVertexColorsBroadcast(t *testing.T) {
	vol, _, err := Reshape(TwoD{Dims: [2]int{3, 2}, Data: ramp(6)}, -1)
	if err != nil {
		t.Fatalf("Reshape: %v", err)
	}
	bufs, err := Build(vol, BuildOptions{Color: RandomColors(7)})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	colors := bufs.VertexColors()
	if len(colors) != 3*bufs.Len() {
		t.Fatalf("len(colors) = %d, want %d", len(colors), 3*bufs.Len())
	}
	for i, cell := range bufs.Order {
		want := bufs.Colors[cell]
		for s := 0; s < bufs.N; s++ {
			v := (i*bufs.N + s) * 3
			if got := [3]float32{colors[v], colors[v+1], colors[v+2]}; got != want {
				t.Fatalf("vertex %d color = %v, want %v", i*bufs.N+s, got, want)
			}
		}
	}
}
