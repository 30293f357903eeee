package gridsig

import (
	"errors"
	"image/color"
	"math"
	"slices"
	"testing"
)

// Verify at compile time that RGBA.Color returns a color.Color.
var _ color.Color = RGBA{}.Color()

func TestHex(t *testing.T) {
	tests := []struct {
		in   string
		want RGBA
		ok   bool
	}{
		{"#ff0000", RGBA{1, 0, 0, 1}, true},
		{"00ff00", RGBA{0, 1, 0, 1}, true},
		{"#00f", RGBA{0, 0, 1, 1}, true},
		{"#0000ff80", RGBA{0, 0, 1, 128.0 / 255}, true},
		{"#fff8", RGBA{1, 1, 1, 136.0 / 255}, true},
		{"#12345", RGBA{}, false},
		{"#gg0000", RGBA{}, false},
	}
	for _, tt := range tests {
		got, ok := Hex(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Hex(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		mode ColorMode
		want RGBA
	}{
		{"random", ColorRandom, RGBA{}},
		{"  Random ", ColorRandom, RGBA{}},
		{"red", ColorUniform, RGBA{1, 0, 0, 1}},
		{"Light Gray", ColorUniform, RGBA{211.0 / 255, 211.0 / 255, 211.0 / 255, 1}},
		{"#336699", ColorUniform, RGBA{0.2, 0.4, 0.6, 1}},
	}
	for _, tt := range tests {
		spec, err := ParseColor(tt.in)
		if err != nil {
			t.Fatalf("ParseColor(%q): %v", tt.in, err)
		}
		if spec.Mode != tt.mode {
			t.Errorf("ParseColor(%q).Mode = %v, want %v", tt.in, spec.Mode, tt.mode)
		}
		if tt.mode == ColorUniform && !closeRGBA(spec.Color, tt.want) {
			t.Errorf("ParseColor(%q).Color = %v, want %v", tt.in, spec.Color, tt.want)
		}
	}

	for _, bad := range []string{"notacolor", "#zzz", ""} {
		if _, err := ParseColor(bad); !errors.Is(err, ErrUnknownColor) {
			t.Errorf("ParseColor(%q) err = %v, want ErrUnknownColor", bad, err)
		}
	}
}

func closeRGBA(a, b RGBA) bool {
	const eps = 1e-9
	return math.Abs(a.R-b.R) < eps && math.Abs(a.G-b.G) < eps &&
		math.Abs(a.B-b.B) < eps && math.Abs(a.A-b.A) < eps
}

func TestBuildColorsRandomRange(t *testing.T) {
	colors := BuildColors(RandomColors(42), 100)
	if len(colors) != 100 {
		t.Fatalf("len = %d, want 100", len(colors))
	}
	for i, c := range colors {
		for _, v := range c {
			if v < DefaultRandomLow || v >= DefaultRandomHigh {
				t.Fatalf("color %d component %v outside [%v, %v)", i, v, DefaultRandomLow, DefaultRandomHigh)
			}
		}
	}
}

func TestBuildColorsSeeded(t *testing.T) {
	a := BuildColors(RandomColors(1), 16)
	b := BuildColors(RandomColors(1), 16)
	c := BuildColors(RandomColors(2), 16)
	if !slices.Equal(a, b) {
		t.Error("same seed produced different colors")
	}
	if slices.Equal(a, c) {
		t.Error("different seeds produced identical colors")
	}
}

func TestBuildColorsCustomRange(t *testing.T) {
	spec := ColorSpec{Mode: ColorRandom, Low: 0.5, High: 0.6, Seed: 3}
	for _, c := range BuildColors(spec, 32) {
		for _, v := range c {
			if v < 0.5 || v >= 0.6 {
				t.Fatalf("component %v outside [0.5, 0.6)", v)
			}
		}
	}
}

func TestBuildColorsUniform(t *testing.T) {
	colors := BuildColors(UniformColor(RGBA{0.25, 0.5, 0.75, 0.1}), 4)
	want := [3]float32{0.25, 0.5, 0.75}
	for i, c := range colors {
		if c != want {
			t.Errorf("color %d = %v, want %v", i, c, want)
		}
	}
}

func TestBroadcast(t *testing.T) {
	colors := [][3]float32{{1, 0, 0}, {0, 1, 0}}
	got := Broadcast(colors, []int{1, 0}, 2)
	want := []float32{0, 1, 0, 0, 1, 0, 1, 0, 0, 1, 0, 0}
	if !slices.Equal(got, want) {
		t.Errorf("Broadcast = %v, want %v", got, want)
	}
}

func TestFromColorUnpremultiplies(t *testing.T) {
	got := FromColor(color.RGBA{R: 128, G: 0, B: 0, A: 128})
	if math.Abs(got.R-1) > 1e-9 || math.Abs(got.A-128.0/255) > 1e-9 {
		t.Errorf("FromColor = %v, want opaque-red RGB at half alpha", got)
	}
	if FromColor(color.RGBA{}) != (RGBA{}) {
		t.Error("FromColor(transparent) should be zero")
	}
}
