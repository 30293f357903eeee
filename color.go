package gridsig

import (
	"fmt"
	"image/color"
	"math/rand/v2"
	"strings"

	"golang.org/x/image/colornames"
	"golang.org/x/text/cases"
)

// RGBA represents a color with red, green, blue, and alpha components.
// Each component is in the range [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// Color converts RGBA to the standard color.Color interface.
func (c RGBA) Color() color.Color {
	return color.NRGBA{
		R: uint8(clamp255(c.R * 255)),
		G: uint8(clamp255(c.G * 255)),
		B: uint8(clamp255(c.B * 255)),
		A: uint8(clamp255(c.A * 255)),
	}
}

// FromColor converts a standard color.Color to RGBA.
func FromColor(c color.Color) RGBA {
	r, g, b, a := c.RGBA()
	if a == 0 {
		return RGBA{}
	}
	// color.Color is premultiplied; undo it so RGB survives translucency.
	return RGBA{
		R: float64(r) / float64(a),
		G: float64(g) / float64(a),
		B: float64(b) / float64(a),
		A: float64(a) / 65535,
	}
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1.0}
}

// Hex creates a color from a hex string.
// Supports formats: "RGB", "RGBA", "RRGGBB", "RRGGBBAA", with or without '#'.
// The boolean is false for any other length or a non-hex digit.
func Hex(hex string) (RGBA, bool) {
	hex = strings.TrimPrefix(hex, "#")

	var r, g, b uint32
	a := uint32(255)
	ok := true

	switch len(hex) {
	case 3: // RGB
		ok = parseHex(hex[0:1], &r) && parseHex(hex[1:2], &g) && parseHex(hex[2:3], &b)
		r, g, b = r*17, g*17, b*17
	case 4: // RGBA
		ok = parseHex(hex[0:1], &r) && parseHex(hex[1:2], &g) &&
			parseHex(hex[2:3], &b) && parseHex(hex[3:4], &a)
		r, g, b, a = r*17, g*17, b*17, a*17
	case 6: // RRGGBB
		ok = parseHex(hex[0:2], &r) && parseHex(hex[2:4], &g) && parseHex(hex[4:6], &b)
	case 8: // RRGGBBAA
		ok = parseHex(hex[0:2], &r) && parseHex(hex[2:4], &g) &&
			parseHex(hex[4:6], &b) && parseHex(hex[6:8], &a)
	default:
		return RGBA{}, false
	}
	if !ok {
		return RGBA{}, false
	}

	return RGBA{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: float64(a) / 255,
	}, true
}

// parseHex is a helper for hex parsing
func parseHex(s string, val *uint32) bool {
	*val = 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		*val *= 16
		switch {
		case '0' <= c && c <= '9':
			*val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			*val += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			*val += uint32(c - 'A' + 10)
		default:
			return false
		}
	}
	return true
}

// clamp255 restricts a value to [0, 255] range.
func clamp255(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return x
}

// ColorMode selects how per-channel colors are produced.
type ColorMode uint8

const (
	// ColorRandom draws one uniform random color per channel.
	ColorRandom ColorMode = iota
	// ColorUniform paints every channel with the same color.
	ColorUniform
)

// Default random color range. Components stay away from black and white.
const (
	DefaultRandomLow  = 0.2
	DefaultRandomHigh = 0.8
)

// ColorSpec describes the channel colors of a dataset.
type ColorSpec struct {
	Mode ColorMode

	// Color is used by ColorUniform. Alpha is ignored.
	Color RGBA

	// Low and High bound each random component. Both zero selects the
	// default range.
	Low, High float64

	// Seed seeds the random source. Zero draws a fresh seed.
	Seed uint64
}

// RandomColors returns a spec for random per-channel colors in the default
// range.
func RandomColors(seed uint64) ColorSpec {
	return ColorSpec{Mode: ColorRandom, Low: DefaultRandomLow, High: DefaultRandomHigh, Seed: seed}
}

// UniformColor returns a spec painting every channel with c.
func UniformColor(c RGBA) ColorSpec {
	return ColorSpec{Mode: ColorUniform, Color: c}
}

// ParseColor resolves a color specification string: the literal "random",
// a hex code, or a CSS/SVG color name ("steelblue", "Light Gray").
func ParseColor(s string) (ColorSpec, error) {
	name := cases.Fold().String(strings.TrimSpace(s))
	if name == "random" {
		return RandomColors(0), nil
	}
	if strings.HasPrefix(name, "#") {
		if c, ok := Hex(name); ok {
			return UniformColor(c), nil
		}
		return ColorSpec{}, fmt.Errorf("%w: %q", ErrUnknownColor, s)
	}
	name = strings.ReplaceAll(name, " ", "")
	if c, ok := colornames.Map[name]; ok {
		return UniformColor(FromColor(c)), nil
	}
	if c, ok := Hex(name); ok {
		return UniformColor(c), nil
	}
	return ColorSpec{}, fmt.Errorf("%w: %q", ErrUnknownColor, s)
}

// BuildColors returns one opaque RGB triple per cell.
func BuildColors(spec ColorSpec, cells int) [][3]float32 {
	out := make([][3]float32, cells)
	switch spec.Mode {
	case ColorUniform:
		c := [3]float32{float32(spec.Color.R), float32(spec.Color.G), float32(spec.Color.B)}
		for i := range out {
			out[i] = c
		}
	default:
		lo, hi := spec.Low, spec.High
		if lo == 0 && hi == 0 {
			lo, hi = DefaultRandomLow, DefaultRandomHigh
		}
		seed := spec.Seed
		if seed == 0 {
			seed = rand.Uint64()
		}
		rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		for i := range out {
			for j := range out[i] {
				out[i][j] = float32(lo + rng.Float64()*(hi-lo))
			}
		}
	}
	return out
}

// Broadcast repeats each cell color n times, once per sample, in the same
// cell order as the geometry built by Build. The result is a flat RGB
// stream of length 3*len(colors)*n.
func Broadcast(colors [][3]float32, order []int, n int) []float32 {
	out := make([]float32, 0, 3*len(order)*n)
	for _, cell := range order {
		c := colors[cell]
		for range n {
			out = append(out, c[0], c[1], c[2])
		}
	}
	return out
}

// Common colors
var (
	Black = RGB(0, 0, 0)
	White = RGB(1, 1, 1)
)
