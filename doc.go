// Package gridsig lays out many time-series signals as a near-square grid
// of subplots that a GPU draws in one batched line-strip call.
//
// # Overview
//
// Electrophysiology recordings and similar data arrive as 1-D, 2-D or 3-D
// arrays of channels over time. gridsig turns such an array into a uniform
// (rows × cols × time) volume, picks the grid, and produces the three
// parallel vertex streams consumed by the renderer in the render package:
//
//	sig, _ := gridsig.FromShape([]int{64, 1000}, samples)
//	vol, perm, err := gridsig.Reshape(sig, -1)
//	if err != nil {
//	    return err
//	}
//	bufs, err := gridsig.Build(vol, gridsig.BuildOptions{})
//
// # Picking
//
// Every Reshape records a Permutation. Its rows are flipped relative to the
// natural order of the data, so row 0 is the top row of the plot and holds
// the last row of channels. Locate maps a grid cell back to the original
// channel index:
//
//	idx, err := perm.Locate(row, col)
//	if errors.Is(err, gridsig.ErrLookupMiss) {
//	    // padding or stale coordinates: no tooltip this frame
//	}
//
// # Architecture
//
//   - gridsig: layout planning, reshaping, normalization, buffers, colors
//   - internal/gpu: the WGSL grid pipeline on gogpu/wgpu HAL
//   - render: GridRenderer, the owner of GPU buffers
//   - cmd/gridsig: headless demo on the noop HAL backend
package gridsig

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"
)
