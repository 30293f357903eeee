package gpu

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/gridsig"
)

// fenceTimeout bounds the wait for a submitted frame.
const fenceTimeout = 5 * time.Second

var (
	// ErrNoDevice is returned when the pipeline has no HAL device.
	ErrNoDevice = errors.New("gpu: nil device")

	// ErrStreamMismatch is returned when vertex streams differ in length.
	ErrStreamMismatch = errors.New("gpu: vertex stream lengths differ")
)

// vertexBuffers is one dataset's set of parallel vertex streams.
type vertexBuffers struct {
	amplitude hal.Buffer
	index     hal.Buffer
	color     hal.Buffer
	count     uint32
}

func (b *vertexBuffers) destroy(device hal.Device) {
	if b.color != nil {
		device.DestroyBuffer(b.color)
		b.color = nil
	}
	if b.index != nil {
		device.DestroyBuffer(b.index)
		b.index = nil
	}
	if b.amplitude != nil {
		device.DestroyBuffer(b.amplitude)
		b.amplitude = nil
	}
	b.count = 0
}

// GridPipeline owns the render pipeline and the GPU buffers of one grid
// of signals. It is not safe for concurrent use; callers finish every
// upload before recording the next draw.
type GridPipeline struct {
	device hal.Device
	queue  hal.Queue
	format gputypes.TextureFormat

	shader        hal.ShaderModule
	uniformLayout hal.BindGroupLayout
	pipeLayout    hal.PipelineLayout
	pipeline      hal.RenderPipeline

	uniformBuf hal.Buffer
	bindGroup  hal.BindGroup

	verts vertexBuffers
}

// NewGridPipeline creates a grid pipeline drawing into targets of the given
// color format. GPU objects are created on first use.
func NewGridPipeline(device hal.Device, queue hal.Queue, format gputypes.TextureFormat) *GridPipeline {
	return &GridPipeline{
		device: device,
		queue:  queue,
		format: format,
	}
}

// VertexCount returns the number of vertices of the current dataset.
func (p *GridPipeline) VertexCount() uint32 { return p.verts.count }

// HasGeometry reports whether vertex buffers are allocated.
func (p *GridPipeline) HasGeometry() bool { return p.verts.amplitude != nil }

// Replace uploads a complete new set of vertex streams. The previous
// buffers stay untouched until every new buffer has been created, so a
// failure leaves the last dataset drawable.
func (p *GridPipeline) Replace(amplitudes []float32, indices [][3]float32, colors []float32) error {
	if p.device == nil {
		return ErrNoDevice
	}
	n := len(amplitudes)
	if len(indices) != n || len(colors) != 3*n {
		return fmt.Errorf("%w: %d amplitudes, %d indices, %d color components",
			ErrStreamMismatch, n, len(indices), len(colors))
	}
	if err := p.ensurePipeline(); err != nil {
		return err
	}

	var next vertexBuffers
	var err error
	next.amplitude, err = p.createAndUploadBuffer("grid_amplitudes", packFloats(amplitudes))
	if err != nil {
		return err
	}
	next.index, err = p.createAndUploadBuffer("grid_indices", packTriples(indices))
	if err != nil {
		next.destroy(p.device)
		return err
	}
	next.color, err = p.createAndUploadBuffer("grid_colors", packFloats(colors))
	if err != nil {
		next.destroy(p.device)
		return err
	}
	next.count = uint32(n) //nolint:gosec // vertex count fits uint32

	p.verts.destroy(p.device)
	p.verts = next
	gridsig.Logger().Debug("gpu: grid buffers uploaded",
		"vertices", n, "bytes", n*(amplitudeStride+indexStride+colorStride))
	return nil
}

// ReplaceColors uploads a new color stream, leaving geometry untouched.
func (p *GridPipeline) ReplaceColors(colors []float32) error {
	if p.device == nil {
		return ErrNoDevice
	}
	if !p.HasGeometry() {
		return fmt.Errorf("%w: no geometry for colors", ErrStreamMismatch)
	}
	if len(colors) != 3*int(p.verts.count) {
		return fmt.Errorf("%w: %d vertices, %d color components",
			ErrStreamMismatch, p.verts.count, len(colors))
	}
	buf, err := p.createAndUploadBuffer("grid_colors", packFloats(colors))
	if err != nil {
		return err
	}
	if p.verts.color != nil {
		p.device.DestroyBuffer(p.verts.color)
	}
	p.verts.color = buf
	gridsig.Logger().Debug("gpu: grid colors uploaded", "vertices", p.verts.count)
	return nil
}

// WriteUniforms uploads the per-frame uniform block.
func (p *GridPipeline) WriteUniforms(params gridsig.RenderParameters, transform gridsig.Matrix) error {
	if err := p.ensurePipeline(); err != nil {
		return err
	}
	p.queue.WriteBuffer(p.uniformBuf, 0, makeGridUniform(params, transform))
	return nil
}

// RecordDraws records the single line-strip draw into an existing render
// pass. This is a no-op when no dataset is loaded.
func (p *GridPipeline) RecordDraws(rp hal.RenderPassEncoder) {
	if p.pipeline == nil || p.verts.count == 0 {
		return
	}
	rp.SetPipeline(p.pipeline)
	rp.SetBindGroup(0, p.bindGroup, nil)
	rp.SetVertexBuffer(0, p.verts.amplitude, 0)
	rp.SetVertexBuffer(1, p.verts.index, 0)
	rp.SetVertexBuffer(2, p.verts.color, 0)
	rp.Draw(p.verts.count, 1, 0, 0)
}

// Render encodes one render pass into view that clears to clear and draws
// the grid, then submits it and waits for completion.
func (p *GridPipeline) Render(view hal.TextureView, clear gputypes.Color) error {
	if p.device == nil {
		return ErrNoDevice
	}
	if err := p.ensurePipeline(); err != nil {
		return err
	}

	encoder, err := p.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "grid_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("grid_render"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "grid_render_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: clear,
			},
		},
	})
	p.RecordDraws(rp)
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer p.device.FreeCommandBuffer(cmdBuf)

	fence, err := p.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer p.device.DestroyFence(fence)

	if err := p.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := p.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}
	return nil
}

// ReleaseBuffers frees the vertex buffers. Safe to call repeatedly.
func (p *GridPipeline) ReleaseBuffers() {
	if p.device == nil {
		return
	}
	p.verts.destroy(p.device)
}

// Destroy releases every GPU resource held by the pipeline. Safe to call
// multiple times or on a pipeline with no allocated resources.
func (p *GridPipeline) Destroy() {
	p.ReleaseBuffers()
	p.destroyPipeline()
}

// ensurePipeline creates the shader, layouts, pipeline, uniform buffer and
// bind group if they don't already exist.
func (p *GridPipeline) ensurePipeline() error {
	if p.pipeline != nil {
		return nil
	}
	if p.device == nil {
		return ErrNoDevice
	}
	if err := p.createPipeline(); err != nil {
		p.destroyPipeline()
		return err
	}
	return nil
}

func (p *GridPipeline) createPipeline() error {
	if gridShaderSource == "" {
		return fmt.Errorf("grid shader source is empty")
	}

	shader, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "grid_shader",
		Source: gridShaderModuleSource(),
	})
	if err != nil {
		return fmt.Errorf("create grid shader: %w", err)
	}
	p.shader = shader

	uniformLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "grid_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create grid uniform layout: %w", err)
	}
	p.uniformLayout = uniformLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "grid_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.uniformLayout},
	})
	if err != nil {
		return fmt.Errorf("create grid pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	blend := gputypes.BlendStatePremultiplied()
	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "grid_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
			Buffers:    gridVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    p.format,
					Blend:     &blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyLineStrip,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create grid pipeline: %w", err)
	}
	p.pipeline = pipeline

	uniformBuf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "grid_uniform",
		Size:  gridUniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create grid uniform buffer: %w", err)
	}
	p.uniformBuf = uniformBuf

	bindGroup, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "grid_bind",
		Layout: p.uniformLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: p.uniformBuf.NativeHandle(), Offset: 0, Size: gridUniformSize,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create grid bind group: %w", err)
	}
	p.bindGroup = bindGroup

	gridsig.Logger().Debug("gpu: grid pipeline created", "format", p.format)
	return nil
}

// destroyPipeline releases pipeline resources in reverse creation order.
func (p *GridPipeline) destroyPipeline() {
	if p.device == nil {
		return
	}
	if p.bindGroup != nil {
		p.device.DestroyBindGroup(p.bindGroup)
		p.bindGroup = nil
	}
	if p.uniformBuf != nil {
		p.device.DestroyBuffer(p.uniformBuf)
		p.uniformBuf = nil
	}
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.uniformLayout != nil {
		p.device.DestroyBindGroupLayout(p.uniformLayout)
		p.uniformLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}

// createAndUploadBuffer creates a vertex buffer and uploads data.
func (p *GridPipeline) createAndUploadBuffer(label string, data []byte) (hal.Buffer, error) {
	buf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	p.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// gridVertexLayout returns the three vertex buffer layouts of the grid
// pipeline, one per stream.
func gridVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: amplitudeStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32, Offset: 0, ShaderLocation: 0}, // amplitude
			},
		},
		{
			ArrayStride: indexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 1}, // (col, row, time)
			},
		},
		{
			ArrayStride: colorStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 2}, // color
			},
		},
	}
}
