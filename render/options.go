// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/gridsig"
)

// Option configures a GridRenderer during creation.
//
// Example:
//
//	r, err := render.New(device, queue,
//	    render.WithSpace(2.2),
//	    render.WithScale(1, 0.8),
//	    render.WithColor(gridsig.UniformColor(gridsig.RGB(0.1, 0.4, 0.8))))
type Option func(*options)

// options holds optional configuration for GridRenderer creation.
type options struct {
	space        float64
	scale        []float64
	color        gridsig.ColorSpec
	axis         int
	sampleRate   float64
	preprocessor gridsig.Preprocessor
	format       gputypes.TextureFormat
	clear        gputypes.Color
}

// defaultOptions returns the default renderer options: space 2, unit
// scale, random colors, time on the last axis, 1 Hz, BGRA8 targets.
func defaultOptions() options {
	return options{
		space:      gridsig.DefaultSpace,
		scale:      []float64{gridsig.DefaultScale, gridsig.DefaultScale},
		color:      gridsig.RandomColors(0),
		axis:       -1,
		sampleRate: 1,
		format:     gputypes.TextureFormatBGRA8Unorm,
		clear:      gputypes.Color{R: 1, G: 1, B: 1, A: 1},
	}
}

// WithSpace sets the inter-cell spacing factor.
func WithSpace(gap float64) Option {
	return func(o *options) {
		o.space = gap
	}
}

// WithScale sets the (x, y) scale. New fails with ErrTypeConstraint unless
// exactly two values are given.
func WithScale(v ...float64) Option {
	return func(o *options) {
		o.scale = v
	}
}

// WithColor sets the color specification used by SetData.
func WithColor(spec gridsig.ColorSpec) Option {
	return func(o *options) {
		o.color = spec
	}
}

// WithAxis sets the default time axis for SetData. Negative values count
// from the last axis.
func WithAxis(axis int) Option {
	return func(o *options) {
		o.axis = axis
	}
}

// WithSampleRate records the sampling rate handed to the preprocessor.
func WithSampleRate(hz float64) Option {
	return func(o *options) {
		o.sampleRate = hz
	}
}

// WithPreprocessor installs a per-channel filter that runs before
// normalization.
func WithPreprocessor(p gridsig.Preprocessor) Option {
	return func(o *options) {
		o.preprocessor = p
	}
}

// WithTargetFormat sets the color format of the views passed to Draw.
// Defaults to the provider's surface format in NewFromProvider.
func WithTargetFormat(format gputypes.TextureFormat) Option {
	return func(o *options) {
		o.format = format
	}
}

// WithClearColor sets the background Draw clears to.
func WithClearColor(c gridsig.RGBA) Option {
	return func(o *options) {
		o.clear = gputypes.Color{R: c.R, G: c.G, B: c.B, A: c.A}
	}
}

// DataOption modifies a single SetData call.
type DataOption func(*dataOptions)

type dataOptions struct {
	axis  int
	color *gridsig.ColorSpec
}

// Axis overrides the time axis for one SetData call and becomes the new
// default.
func Axis(axis int) DataOption {
	return func(o *dataOptions) {
		o.axis = axis
	}
}

// Color sets new channel colors. Without a signal, SetData rebuilds only
// the color buffer.
func Color(spec gridsig.ColorSpec) DataOption {
	return func(o *dataOptions) {
		o.color = &spec
	}
}
