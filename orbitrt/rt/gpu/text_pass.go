package gpu

import (
	"fmt"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/skyweave/constellation/orbitrt/rt/core"
)

// TextPass draws the debug overlay straight onto the surface after tonemapping.
type TextPass struct {
	Device      *wgpu.Device
	Queue       *wgpu.Queue
	Pipeline    *wgpu.RenderPipeline
	BindGroup   *wgpu.BindGroup
	Atlas       *Target
	VB          *wgpu.Buffer
	VertexCount uint32

	module *wgpu.ShaderModule
}

// NewTextPass uploads the atlas and builds the overlay pipeline for the surface format.
func NewTextPass(device *wgpu.Device, format wgpu.TextureFormat, atlas *core.TextAtlas, sampler *wgpu.Sampler, code string) (*TextPass, error) {
	t := &TextPass{Device: device, Queue: device.GetQueue()}
	if err := t.init(format, atlas, sampler, code); err != nil {
		t.Release()
		return nil, err
	}
	return t, nil
}

func (t *TextPass) init(format wgpu.TextureFormat, atlas *core.TextAtlas, sampler *wgpu.Sampler, code string) error {
	w, h := uint32(atlas.Image.Bounds().Dx()), uint32(atlas.Image.Bounds().Dy())
	var err error
	t.Atlas, err = newTarget(t.Device, "Text Atlas", w, h, wgpu.TextureFormatR8Unorm,
		wgpu.TextureUsageTextureBinding|wgpu.TextureUsageCopyDst)
	if err != nil {
		return err
	}
	err = t.Queue.WriteTexture(t.Atlas.Texture.AsImageCopy(), atlas.Image.Pix, &wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(atlas.Image.Stride),
		RowsPerImage: h,
	}, &wgpu.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1})
	if err != nil {
		return fmt.Errorf("upload text atlas: %w", err)
	}

	t.module, err = t.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Text Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: code},
	})
	if err != nil {
		return fmt.Errorf("%w: text: %v", ErrShaderCompile, err)
	}

	t.Pipeline, err = t.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "Text Pipeline",
		Vertex: wgpu.VertexState{
			Module:     t.module,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: uint64(unsafe.Sizeof(core.TextVertex{})),
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
					{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
					{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2},
				},
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     t.module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    format,
				Blend:     alphaBlend,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyTriangleList,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("%w: text pipeline: %v", ErrShaderCompile, err)
	}

	t.BindGroup, err = t.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Text BG",
		Layout: t.Pipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: t.Atlas.View},
			{Binding: 1, Sampler: sampler},
		},
	})
	if err != nil {
		return fmt.Errorf("create text bind group: %w", err)
	}
	return nil
}

// Update replaces the overlay geometry.
func (t *TextPass) Update(vertices []core.TextVertex) error {
	t.VertexCount = 0
	if len(vertices) == 0 {
		return nil
	}
	size := uint64(len(vertices)) * uint64(unsafe.Sizeof(core.TextVertex{}))
	if t.VB == nil || t.VB.GetSize() < size {
		if t.VB != nil {
			t.VB.Release()
			t.VB = nil
		}
		vb, err := t.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "Text VB",
			Size:  size,
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("create text vertex buffer: %w", err)
		}
		t.VB = vb
	}
	if err := t.Queue.WriteBuffer(t.VB, 0, unsafe.Slice((*byte)(unsafe.Pointer(&vertices[0])), size)); err != nil {
		return fmt.Errorf("write text vertices: %w", err)
	}
	t.VertexCount = uint32(len(vertices))
	return nil
}

// Draw records the overlay into an open surface pass.
func (t *TextPass) Draw(pass *wgpu.RenderPassEncoder) {
	if t == nil || t.VertexCount == 0 {
		return
	}
	pass.SetPipeline(t.Pipeline)
	pass.SetBindGroup(0, t.BindGroup, nil)
	pass.SetVertexBuffer(0, t.VB, 0, wgpu.WholeSize)
	pass.Draw(t.VertexCount, 1, 0, 0)
}

func (t *TextPass) Release() {
	if t == nil {
		return
	}
	if t.BindGroup != nil {
		t.BindGroup.Release()
	}
	if t.Pipeline != nil {
		t.Pipeline.Release()
	}
	if t.module != nil {
		t.module.Release()
	}
	if t.VB != nil {
		t.VB.Release()
	}
	t.Atlas.Release()
}
