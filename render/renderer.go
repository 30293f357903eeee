// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/gridsig"
	"github.com/gogpu/gridsig/internal/gpu"
)

var (
	// ErrNilDevice is returned when no HAL device is available.
	ErrNilDevice = errors.New("render: nil device")

	// ErrReleased is returned by calls on a destroyed renderer.
	ErrReleased = errors.New("render: renderer destroyed")

	// ErrNoData is returned by a color-only update before any data is set.
	ErrNoData = errors.New("render: no data loaded")
)

// GridRenderer draws every channel of a dataset as one tile of a grid, in
// a single batched line-strip draw.
//
// The renderer exclusively owns its GPU buffers: SetData allocates them,
// Clean and Destroy release them. It is driven from a single goroutine.
type GridRenderer struct {
	pipe *gpu.GridPipeline
	opts options

	params gridsig.RenderParameters
	axis   int
	color  gridsig.ColorSpec

	bufs *gridsig.Buffers
	perm *gridsig.Permutation

	destroyed bool
}

// New creates a renderer on a HAL device shared by the host.
func New(device hal.Device, queue hal.Queue, opts ...Option) (*GridRenderer, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	params, err := gridsig.DefaultParameters().WithScale(o.scale...)
	if err != nil {
		return nil, err
	}
	if params, err = params.WithSpace(o.space); err != nil {
		return nil, err
	}

	return &GridRenderer{
		pipe:   gpu.NewGridPipeline(device, queue, o.format),
		opts:   o,
		params: params,
		axis:   o.axis,
		color:  o.color,
	}, nil
}

// NewFromProvider creates a renderer on the device of a gpucontext
// provider. The provider's surface format becomes the default target
// format; WithTargetFormat overrides it.
func NewFromProvider(provider DeviceHandle, opts ...Option) (*GridRenderer, error) {
	device, queue, err := halFromProvider(provider)
	if err != nil {
		return nil, err
	}
	if f := provider.SurfaceFormat(); f != gputypes.TextureFormatUndefined {
		opts = append([]Option{WithTargetFormat(f)}, opts...)
	}
	return New(device, queue, opts...)
}

// SetData loads a new dataset, recolors the current one, or both.
//
// With a non-nil signal the volume, permutation, geometry and colors are
// rebuilt and uploaded into new buffers; the previous buffers are released
// only after the upload succeeds, so on error the last dataset keeps
// drawing. With a nil signal and a Color option only the color buffer is
// rebuilt. Every call re-binds the grid uniforms on the next draw.
func (r *GridRenderer) SetData(sig gridsig.Signal, opts ...DataOption) error {
	if r.destroyed {
		return ErrReleased
	}
	d := dataOptions{axis: r.axis}
	for _, opt := range opts {
		opt(&d)
	}
	color := r.color
	if d.color != nil {
		color = *d.color
	}

	if sig == nil {
		if d.color != nil {
			if err := r.recolor(color); err != nil {
				return err
			}
		}
		r.params.Dirty = true
		return nil
	}

	vol, perm, err := gridsig.Reshape(sig, d.axis)
	if err != nil {
		return err
	}
	bufs, err := gridsig.Build(vol, gridsig.BuildOptions{
		Color:        color,
		SampleRate:   r.opts.sampleRate,
		Preprocessor: r.opts.preprocessor,
	})
	if err != nil {
		return err
	}
	if err := r.pipe.Replace(bufs.Positions, bufs.Indices, bufs.VertexColors()); err != nil {
		return fmt.Errorf("upload grid: %w", err)
	}

	r.bufs = bufs
	r.perm = perm
	r.axis = d.axis
	r.color = color
	r.params = r.params.WithGeometry(bufs)
	gridsig.Logger().Info("render: dataset loaded",
		"channels", bufs.Count, "grid", bufs.Grid.String(), "samples", bufs.N)
	return nil
}

// SetColor rebuilds and uploads only the color buffer.
func (r *GridRenderer) SetColor(spec gridsig.ColorSpec) error {
	return r.SetData(nil, Color(spec))
}

func (r *GridRenderer) recolor(spec gridsig.ColorSpec) error {
	if r.bufs == nil {
		return ErrNoData
	}
	colors := gridsig.BuildColors(spec, r.bufs.Grid.Cells())
	if err := r.pipe.ReplaceColors(gridsig.Broadcast(colors, r.bufs.Order, r.bufs.N)); err != nil {
		return fmt.Errorf("upload colors: %w", err)
	}
	next := *r.bufs
	next.Colors = colors
	r.bufs = &next
	r.color = spec
	return nil
}

// SetScale sets the (x, y) scale. Anything but two finite positive values
// fails with gridsig.ErrTypeConstraint and changes nothing.
func (r *GridRenderer) SetScale(v ...float64) error {
	p, err := r.params.WithScale(v...)
	if err != nil {
		return err
	}
	r.params = p
	return nil
}

// SetSpace sets the inter-cell spacing factor. A non-positive or
// non-finite gap fails with gridsig.ErrTypeConstraint and changes nothing.
func (r *GridRenderer) SetSpace(gap float64) error {
	p, err := r.params.WithSpace(gap)
	if err != nil {
		return err
	}
	r.params = p
	return nil
}

// Draw renders the grid into view with the host's camera transform: one
// render pass, one draw. It waits for the GPU before returning.
func (r *GridRenderer) Draw(view hal.TextureView, transform gridsig.Matrix) error {
	if r.destroyed {
		return ErrReleased
	}
	if err := r.pipe.WriteUniforms(r.params, transform); err != nil {
		return err
	}
	if err := r.pipe.Render(view, r.opts.clear); err != nil {
		return err
	}
	r.params = r.params.Clean()
	return nil
}

// Record records the grid draw into a render pass owned by the host.
func (r *GridRenderer) Record(rp hal.RenderPassEncoder, transform gridsig.Matrix) error {
	if r.destroyed {
		return ErrReleased
	}
	if err := r.pipe.WriteUniforms(r.params, transform); err != nil {
		return err
	}
	r.pipe.RecordDraws(rp)
	r.params = r.params.Clean()
	return nil
}

// Locate returns the channel index shown at grid cell (row, col), rows
// counted from the top. A miss returns gridsig.ErrLookupMiss.
func (r *GridRenderer) Locate(row, col int) (gridsig.MultiIndex, error) {
	if r.perm == nil {
		return nil, fmt.Errorf("%w: %v", gridsig.ErrLookupMiss, ErrNoData)
	}
	return r.perm.Locate(row, col)
}

// CellAt converts a point in the camera's output space to a grid cell.
func (r *GridRenderer) CellAt(pt gridsig.Point, transform gridsig.Matrix) (row, col int, ok bool) {
	if r.bufs == nil {
		return 0, 0, false
	}
	return gridsig.CellAt(r.params, transform, pt)
}

// Clean releases the dataset's GPU buffers. Safe to call repeatedly.
func (r *GridRenderer) Clean() {
	r.pipe.ReleaseBuffers()
	r.bufs = nil
	r.perm = nil
}

// Destroy releases all GPU resources. Safe to call repeatedly.
func (r *GridRenderer) Destroy() {
	if r.destroyed {
		return
	}
	r.Clean()
	r.pipe.Destroy()
	r.destroyed = true
}

// Params returns the current render parameters.
func (r *GridRenderer) Params() gridsig.RenderParameters { return r.params }

// Dirty reports whether parameters or data changed since the last draw.
func (r *GridRenderer) Dirty() bool { return r.params.Dirty }

// Buffers returns the CPU copy of the uploaded vertex streams, or nil.
func (r *GridRenderer) Buffers() *gridsig.Buffers { return r.bufs }

// Color returns the current color specification.
func (r *GridRenderer) Color() gridsig.ColorSpec { return r.color }

// Len returns the number of samples per channel.
func (r *GridRenderer) Len() int {
	if r.bufs == nil {
		return 0
	}
	return r.bufs.N
}

// Rect returns the rectangle a camera should frame to show the grid.
func (r *GridRenderer) Rect() (x, y, w, h float64) { return r.params.Rect() }

// SampleRate returns the informational sampling rate.
func (r *GridRenderer) SampleRate() float64 { return r.opts.sampleRate }
