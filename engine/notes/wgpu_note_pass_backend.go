package notes

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/notefall/notefall/common"
)

// passKind selects the load behavior of one pass submission.
type passKind int

const (
	// clearPass resets the color and depth attachments before drawing.
	clearPass passKind = iota

	// accumulatePass preserves the attachments' prior contents and draws on top.
	accumulatePass
)

// RenderTarget is the accelerator-visible color image one frame is rendered
// into, along with its pixel dimensions.
type RenderTarget struct {
	View   *wgpu.TextureView
	Width  uint32
	Height uint32
}

// depthFormat is the fixed depth attachment format for note passes.
const depthFormat = wgpu.TextureFormatDepth16Unorm

// notePassBackend is the accelerator-facing half of the note render pass. The
// orchestrator drives it; tests substitute a recording fake.
type notePassBackend interface {
	// createNoteBuffer allocates one device-side note vertex buffer.
	createNoteBuffer(size uint64) *wgpu.Buffer

	// createDepthTarget allocates the depth attachment at the given
	// dimensions, releasing any previous one. The orchestrator calls this
	// only when the output image dimensions changed since the prior frame.
	createDepthTarget(width, height uint32)

	// writeKeyPositions overwrites the key position table for this frame.
	writeKeyPositions(table *[KeyTableSize]KeyPosition)

	// writeFrameUniforms overwrites the per-frame uniforms.
	writeFrameUniforms(u frameUniforms)

	// submitPass uploads the filled prefix of buf, encodes one render pass of
	// the given kind drawing items instances, submits it, and returns a
	// completion ticket for the submission.
	submitPass(kind passKind, target RenderTarget, buf *noteBuffer, items uint32) (completionTicket, error)

	// release frees all accelerator resources owned by the backend.
	release()
}

// wgpuNotePassBackend is the WebGPU implementation of notePassBackend.
type wgpuNotePassBackend struct {
	device *wgpu.Device
	queue  *wgpu.Queue

	pipeline      *wgpu.RenderPipeline
	bindGroup     *wgpu.BindGroup
	uniformBuffer *wgpu.Buffer
	keyBuffer     *wgpu.Buffer

	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView
}

var _ notePassBackend = &wgpuNotePassBackend{}

// newWGPUNotePassBackend creates the pipeline, the per-frame uniform and key
// position buffers, and their bind group. The depth target is allocated on
// the first frame, once the output image dimensions are known.
func newWGPUNotePassBackend(device *wgpu.Device, queue *wgpu.Queue, colorFormat wgpu.TextureFormat) (*wgpuNotePassBackend, error) {
	b := &wgpuNotePassBackend{
		device: device,
		queue:  queue,
	}

	shaderModule, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "Note Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: NoteShaderSource,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create note shader module: %w", err)
	}

	bindGroupLayout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Note Frame Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: 16,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: KeyTableSize * 16,
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create note bind group layout: %w", err)
	}

	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Note Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bindGroupLayout},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create note pipeline layout: %w", err)
	}

	b.pipeline, err = device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Note Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     shaderModule,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{noteVertexLayout()},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shaderModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    colorFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
					Blend: &wgpu.BlendState{
						Color: wgpu.BlendComponent{
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
							Operation: wgpu.BlendOperationAdd,
						},
						Alpha: wgpu.BlendComponent{
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
							Operation: wgpu.BlendOperationAdd,
						},
					},
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleStrip,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create note render pipeline: %w", err)
	}

	b.uniformBuffer, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Note Frame Uniform Buffer",
		Size:  16,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create note frame uniform buffer: %w", err)
	}

	b.keyBuffer, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Key Position Buffer",
		Size:  KeyTableSize * 16,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create key position buffer: %w", err)
	}

	b.bindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Note Frame Bind Group",
		Layout: bindGroupLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: b.uniformBuffer, Offset: 0, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: b.keyBuffer, Offset: 0, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create note frame bind group: %w", err)
	}

	return b, nil
}

func (b *wgpuNotePassBackend) createNoteBuffer(size uint64) *wgpu.Buffer {
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Note Vertex Buffer",
		Size:  size,
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		panic(fmt.Sprintf("notes: failed to create note vertex buffer: %v", err))
	}
	return buf
}

// createDepthTarget allocates the depth attachment at the given dimensions,
// releasing any previous one.
func (b *wgpuNotePassBackend) createDepthTarget(width, height uint32) {
	if b.depthView != nil {
		b.depthView.Release()
	}
	if b.depthTexture != nil {
		b.depthTexture.Release()
	}

	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Note Depth Texture",
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        depthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(fmt.Sprintf("notes: failed to create depth texture: %v", err))
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		panic(fmt.Sprintf("notes: failed to create depth texture view: %v", err))
	}

	b.depthTexture = tex
	b.depthView = view
}

func (b *wgpuNotePassBackend) writeKeyPositions(table *[KeyTableSize]KeyPosition) {
	b.queue.WriteBuffer(b.keyBuffer, 0, common.SliceToBytes(table[:]))
}

func (b *wgpuNotePassBackend) writeFrameUniforms(u frameUniforms) {
	b.queue.WriteBuffer(b.uniformBuffer, 0, common.SliceToBytes([]frameUniforms{u}))
}

func (b *wgpuNotePassBackend) submitPass(kind passKind, target RenderTarget, buf *noteBuffer, items uint32) (completionTicket, error) {
	if items > 0 {
		b.queue.WriteBuffer(buf.gpu, 0, common.SliceToBytes(buf.staging[:items]))
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create pass command encoder: %w", err)
	}

	colorAttachment := wgpu.RenderPassColorAttachment{
		View:       target.View,
		LoadOp:     wgpu.LoadOpLoad,
		StoreOp:    wgpu.StoreOpStore,
		ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 0},
	}
	depthAttachment := &wgpu.RenderPassDepthStencilAttachment{
		View:            b.depthView,
		DepthLoadOp:     wgpu.LoadOpLoad,
		DepthStoreOp:    wgpu.StoreOpStore,
		DepthClearValue: 1.0,
	}
	if kind == clearPass {
		colorAttachment.LoadOp = wgpu.LoadOpClear
		depthAttachment.DepthLoadOp = wgpu.LoadOpClear
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label:                  "Note Pass",
		ColorAttachments:       []wgpu.RenderPassColorAttachment{colorAttachment},
		DepthStencilAttachment: depthAttachment,
	})
	pass.SetPipeline(b.pipeline)
	pass.SetViewport(0, 0, float32(target.Width), float32(target.Height), 0, 1)
	pass.SetBindGroup(0, b.bindGroup, nil)
	pass.SetVertexBuffer(0, buf.gpu, 0, wgpu.WholeSize)
	pass.Draw(4, items, 0, 0)
	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		encoder.Release()
		return nil, fmt.Errorf("failed to finish pass command buffer: %w", err)
	}

	b.queue.Submit(commandBuffer)

	status := make(chan wgpu.QueueWorkDoneStatus, 1)
	b.queue.OnSubmittedWorkDone(func(s wgpu.QueueWorkDoneStatus) {
		status <- s
	})

	commandBuffer.Release()
	encoder.Release()

	return &gpuTicket{device: b.device, status: status}, nil
}

func (b *wgpuNotePassBackend) release() {
	if b.bindGroup != nil {
		b.bindGroup.Release()
		b.bindGroup = nil
	}
	if b.uniformBuffer != nil {
		b.uniformBuffer.Release()
		b.uniformBuffer = nil
	}
	if b.keyBuffer != nil {
		b.keyBuffer.Release()
		b.keyBuffer = nil
	}
	if b.depthView != nil {
		b.depthView.Release()
		b.depthView = nil
	}
	if b.depthTexture != nil {
		b.depthTexture.Release()
		b.depthTexture = nil
	}
	if b.pipeline != nil {
		b.pipeline.Release()
		b.pipeline = nil
	}
}
