// Package gpu implements the grid-of-signals render pipeline on the
// gogpu/wgpu HAL (Vulkan, Metal, DX12, GLES, software, noop).
//
// # Architecture Overview
//
// One GridPipeline draws every channel of a dataset with a single
// line-strip draw call:
//
//	amplitudes (f32) ──┐
//	indices (vec3<f32>) ├─> vs_main ─> fs_main (discard between cells) ─> target
//	colors (vec3<f32>) ─┘      ▲
//	                           └── uniforms: transform, scale, grid size, space
//
// The three vertex streams live in separate buffers so a color change
// re-uploads only the color buffer.
//
// # Resource Lifecycle
//
// Shader, layouts, pipeline and the uniform buffer are created lazily on
// first use and released by Destroy. Vertex buffers are created per
// dataset: Replace uploads a full set of new buffers and releases the old
// ones only once every new buffer exists. ReleaseBuffers and Destroy are
// idempotent.
//
// # Shaders
//
// The WGSL source is compiled to SPIR-V with gogpu/naga. If compilation
// fails the pipeline hands the WGSL source to the HAL instead.
package gpu
