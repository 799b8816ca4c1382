package gpu

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/skyweave/constellation/orbitrt/rt/shaders"
)

var ErrShaderCompile = errors.New("gpu: shader compile failed")

// Pipelines is one compiled set of kernels and passes. A set is replaced whole on reload.
type Pipelines struct {
	Propagate *wgpu.ComputePipeline
	Beams     *wgpu.ComputePipeline

	Background     *wgpu.RenderPipeline
	Ground         *wgpu.RenderPipeline
	Planet         *wgpu.RenderPipeline
	Atmosphere     *wgpu.RenderPipeline
	Billboards     *wgpu.RenderPipeline
	BeamRibbons    *wgpu.RenderPipeline
	BloomThreshold *wgpu.RenderPipeline
	Blur           *wgpu.RenderPipeline
	Tonemap        *wgpu.RenderPipeline

	modules []*wgpu.ShaderModule
}

var (
	alphaBlend = &wgpu.BlendState{
		Color: wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorSrcAlpha, DstFactor: wgpu.BlendFactorOneMinusSrcAlpha, Operation: wgpu.BlendOperationAdd},
		Alpha: wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorOne, DstFactor: wgpu.BlendFactorOne, Operation: wgpu.BlendOperationAdd},
	}
	additiveBlend = &wgpu.BlendState{
		Color: wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorOne, DstFactor: wgpu.BlendFactorOne, Operation: wgpu.BlendOperationAdd},
		Alpha: wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorOne, DstFactor: wgpu.BlendFactorOne, Operation: wgpu.BlendOperationAdd},
	}
)

func depthState(write bool, compare wgpu.CompareFunction) *wgpu.DepthStencilState {
	return &wgpu.DepthStencilState{
		Format:            DepthFormat,
		DepthWriteEnabled: write,
		DepthCompare:      compare,
		StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
	}
}

var meshLayout = []wgpu.VertexBufferLayout{{
	ArrayStride: MeshVertexStride,
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
	},
}}

type renderSpec struct {
	label   string
	module  *wgpu.ShaderModule
	format  wgpu.TextureFormat
	buffers []wgpu.VertexBufferLayout
	blend   *wgpu.BlendState
	cull    wgpu.CullMode
	depth   *wgpu.DepthStencilState
}

// NewPipelines compiles every kernel and pass. Nothing is kept on failure.
func NewPipelines(device *wgpu.Device, surfaceFormat wgpu.TextureFormat, src shaders.Sources) (*Pipelines, error) {
	p := &Pipelines{}
	if err := p.build(device, surfaceFormat, src); err != nil {
		p.Release()
		return nil, err
	}
	return p, nil
}

func (p *Pipelines) module(device *wgpu.Device, label, code string) (*wgpu.ShaderModule, error) {
	m, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: code},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrShaderCompile, label, err)
	}
	p.modules = append(p.modules, m)
	return m, nil
}

func (p *Pipelines) compute(device *wgpu.Device, label, code string) (*wgpu.ComputePipeline, error) {
	m, err := p.module(device, label, code)
	if err != nil {
		return nil, err
	}
	cp, err := device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label: label,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     m,
			EntryPoint: "main",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s pipeline: %v", ErrShaderCompile, label, err)
	}
	return cp, nil
}

func (p *Pipelines) render(device *wgpu.Device, s renderSpec) (*wgpu.RenderPipeline, error) {
	rp, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: s.label,
		Vertex: wgpu.VertexState{
			Module:     s.module,
			EntryPoint: "vs_main",
			Buffers:    s.buffers,
		},
		Fragment: &wgpu.FragmentState{
			Module:     s.module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    s.format,
				Blend:     s.blend,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  s.cull,
		},
		DepthStencil: s.depth,
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s pipeline: %v", ErrShaderCompile, s.label, err)
	}
	return rp, nil
}

func (p *Pipelines) build(device *wgpu.Device, surfaceFormat wgpu.TextureFormat, src shaders.Sources) error {
	var err error
	if p.Propagate, err = p.compute(device, "Propagate", src.Propagate); err != nil {
		return err
	}
	if p.Beams, err = p.compute(device, "Beams", src.Beams); err != nil {
		return err
	}

	// Scene passes share one render pass with HDR color and depth.
	backdrop := depthState(false, wgpu.CompareFunctionAlways)
	type sceneDef struct {
		dst     **wgpu.RenderPipeline
		label   string
		code    string
		buffers []wgpu.VertexBufferLayout
		blend   *wgpu.BlendState
		cull    wgpu.CullMode
		depth   *wgpu.DepthStencilState
	}
	scene := []sceneDef{
		{&p.Background, "Background", src.Background, nil, nil, wgpu.CullModeNone, backdrop},
		{&p.Ground, "Ground Backdrop", src.Ground, nil, nil, wgpu.CullModeNone, backdrop},
		{&p.Planet, "Planet", src.Planet, meshLayout, nil, wgpu.CullModeBack, depthState(true, wgpu.CompareFunctionLess)},
		{&p.Atmosphere, "Atmosphere", src.Atmosphere, meshLayout, additiveBlend, wgpu.CullModeFront, depthState(false, wgpu.CompareFunctionLess)},
		{&p.Billboards, "Billboards", src.Billboards, nil, additiveBlend, wgpu.CullModeNone, depthState(false, wgpu.CompareFunctionLess)},
		{&p.BeamRibbons, "Beam Ribbons", src.BeamRibbons, nil, additiveBlend, wgpu.CullModeNone, depthState(false, wgpu.CompareFunctionLess)},
	}
	for _, d := range scene {
		m, err := p.module(device, d.label, d.code)
		if err != nil {
			return err
		}
		if *d.dst, err = p.render(device, renderSpec{
			label: d.label, module: m, format: HDRFormat,
			buffers: d.buffers, blend: d.blend, cull: d.cull, depth: d.depth,
		}); err != nil {
			return err
		}
	}

	post := []struct {
		dst    **wgpu.RenderPipeline
		label  string
		code   string
		format wgpu.TextureFormat
	}{
		{&p.BloomThreshold, "Bloom Threshold", src.BloomThreshold, HDRFormat},
		{&p.Blur, "Bloom Blur", src.BloomBlur, HDRFormat},
		{&p.Tonemap, "Tonemap", src.Tonemap, surfaceFormat},
	}
	for _, d := range post {
		m, err := p.module(device, d.label, d.code)
		if err != nil {
			return err
		}
		if *d.dst, err = p.render(device, renderSpec{
			label: d.label, module: m, format: d.format, cull: wgpu.CullModeNone,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipelines) Release() {
	if p == nil {
		return
	}
	for _, cp := range []**wgpu.ComputePipeline{&p.Propagate, &p.Beams} {
		if *cp != nil {
			(*cp).Release()
			*cp = nil
		}
	}
	for _, rp := range []**wgpu.RenderPipeline{
		&p.Background, &p.Ground, &p.Planet, &p.Atmosphere, &p.Billboards,
		&p.BeamRibbons, &p.BloomThreshold, &p.Blur, &p.Tonemap,
	} {
		if *rp != nil {
			(*rp).Release()
			*rp = nil
		}
	}
	for _, m := range p.modules {
		m.Release()
	}
	p.modules = nil
}
