package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/skyweave/constellation/orbitrt/rt/core"
	"github.com/skyweave/constellation/orbitrt/rt/orbit"
	"github.com/skyweave/constellation/orbitrt/rt/shaders"
)

// Renderer ties buffers, pipelines, targets and their bind groups together and encodes
// a frame from a pass plan.
type Renderer struct {
	Device        *wgpu.Device
	Queue         *wgpu.Queue
	SurfaceFormat wgpu.TextureFormat
	Limits        Limits

	Buffers   *BufferManager
	Pipelines *Pipelines
	Targets   *RenderTargets
	Resources *ResourceSet
	Sampler   *wgpu.Sampler
	Text      *TextPass

	Post PostParams
}

// NewRenderer compiles pipelines and allocates targets. Buffers are filled by Upload.
func NewRenderer(device *wgpu.Device, surfaceFormat wgpu.TextureFormat, limits Limits, src shaders.Sources, width, height uint32) (*Renderer, error) {
	r := &Renderer{
		Device:        device,
		Queue:         device.GetQueue(),
		SurfaceFormat: surfaceFormat,
		Limits:        limits,
		Buffers:       NewBufferManager(device),
		Post:          DefaultPostParams(),
	}
	r.Post.EncodeGamma = !IsSRGB(surfaceFormat)

	var err error
	r.Sampler, err = device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Linear Clamp",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("create sampler: %w", err)
	}
	if r.Pipelines, err = NewPipelines(device, surfaceFormat, src); err != nil {
		r.Release()
		return nil, err
	}
	if r.Targets, err = NewRenderTargets(device, width, height); err != nil {
		r.Release()
		return nil, err
	}
	return r, nil
}

// Upload writes the constellation and builds the first resource set.
func (r *Renderer) Upload(c *orbit.Constellation, beams orbit.BeamParams) error {
	if err := r.Buffers.UploadConstellation(c, beams); err != nil {
		return err
	}
	if err := r.Buffers.UpdatePost(r.Post); err != nil {
		return err
	}
	if err := r.Buffers.UpdateBlur(r.Targets.Width, r.Targets.Height); err != nil {
		return err
	}
	rs, err := r.buildResources(r.Pipelines, r.Targets)
	if err != nil {
		return err
	}
	r.Resources = rs
	return nil
}

// EnableText builds the overlay pass. Failure leaves the renderer without an overlay.
func (r *Renderer) EnableText(atlas *core.TextAtlas, code string) error {
	t, err := NewTextPass(r.Device, r.SurfaceFormat, atlas, r.Sampler, code)
	if err != nil {
		return err
	}
	r.Text.Release()
	r.Text = t
	return nil
}

// Resize recreates every target and the bind groups that reference them. The old
// state stays live until the new state is complete.
func (r *Renderer) Resize(width, height uint32) error {
	if r.Targets != nil && r.Targets.Width == width && r.Targets.Height == height {
		return nil
	}
	targets, err := NewRenderTargets(r.Device, width, height)
	if err != nil {
		return err
	}
	rs, err := r.buildResources(r.Pipelines, targets)
	if err != nil {
		targets.Release()
		return err
	}
	r.Resources.Release()
	r.Targets.Release()
	r.Targets, r.Resources = targets, rs
	return r.Buffers.UpdateBlur(width, height)
}

// Reload compiles src and swaps it in. On failure the running pipelines are kept.
func (r *Renderer) Reload(src shaders.Sources) error {
	p, err := NewPipelines(r.Device, r.SurfaceFormat, src)
	if err != nil {
		return err
	}
	rs, err := r.buildResources(p, r.Targets)
	if err != nil {
		p.Release()
		return err
	}
	r.Resources.Release()
	r.Pipelines.Release()
	r.Pipelines, r.Resources = p, rs
	return nil
}

// SetPost updates bloom and tonemap parameters.
func (r *Renderer) SetPost(p PostParams) error {
	p.EncodeGamma = !IsSRGB(r.SurfaceFormat)
	r.Post = p
	return r.Buffers.UpdatePost(p)
}

func (r *Renderer) buildResources(p *Pipelines, t *RenderTargets) (*ResourceSet, error) {
	rs := NewResourceSet()
	b := r.Buffers
	buf := func(binding uint32, bb *wgpu.Buffer) wgpu.BindGroupEntry {
		return wgpu.BindGroupEntry{Binding: binding, Buffer: bb, Size: wgpu.WholeSize}
	}
	tex := func(binding uint32, v *wgpu.TextureView) wgpu.BindGroupEntry {
		return wgpu.BindGroupEntry{Binding: binding, TextureView: v}
	}
	smp := wgpu.BindGroupEntry{Sampler: r.Sampler}

	type groupDef struct {
		pass    PassID
		variant int
		label   string
		layout  *wgpu.BindGroupLayout
		entries []wgpu.BindGroupEntry
	}
	withSampler := func(binding uint32) wgpu.BindGroupEntry {
		e := smp
		e.Binding = binding
		return e
	}
	defs := []groupDef{
		{PassPropagate, 0, "Propagate BG", p.Propagate.GetBindGroupLayout(0), []wgpu.BindGroupEntry{
			buf(0, b.FrameBuf), buf(1, b.ShellsBuf), buf(2, b.ElementsBuf), buf(3, b.PositionsBuf),
		}},
		{PassBeams, 0, "Beams BG", p.Beams.GetBindGroupLayout(0), []wgpu.BindGroupEntry{
			buf(0, b.BeamParamsBuf), buf(1, b.PositionsBuf), buf(2, b.GlyphsBuf), buf(3, b.BeamsBuf),
		}},
		{PassBackground, 0, "Background BG", p.Background.GetBindGroupLayout(0), []wgpu.BindGroupEntry{buf(0, b.FrameBuf)}},
		{PassGroundBackdrop, 0, "Ground BG", p.Ground.GetBindGroupLayout(0), []wgpu.BindGroupEntry{buf(0, b.FrameBuf)}},
		{PassPlanet, 0, "Planet BG", p.Planet.GetBindGroupLayout(0), []wgpu.BindGroupEntry{buf(0, b.FrameBuf)}},
		{PassAtmosphere, 0, "Atmosphere BG", p.Atmosphere.GetBindGroupLayout(0), []wgpu.BindGroupEntry{buf(0, b.FrameBuf)}},
		{PassBillboards, 0, "Billboards BG", p.Billboards.GetBindGroupLayout(0), []wgpu.BindGroupEntry{
			buf(0, b.FrameBuf), buf(1, b.ShellsBuf), buf(2, b.PositionsBuf),
		}},
		{PassBeamRibbons, 0, "Beam Ribbons BG", p.BeamRibbons.GetBindGroupLayout(0), []wgpu.BindGroupEntry{
			buf(0, b.FrameBuf), buf(1, b.BeamsBuf),
		}},
		{PassBloomThreshold, 0, "Bloom Threshold BG", p.BloomThreshold.GetBindGroupLayout(0), []wgpu.BindGroupEntry{
			tex(0, t.HDR.View), withSampler(1), buf(2, b.PostBuf),
		}},
	}
	t.Bloom.Each(func(i int, src *Target) {
		defs = append(defs,
			groupDef{PassBlurH, i, fmt.Sprintf("Blur H BG %d", i), p.Blur.GetBindGroupLayout(0), []wgpu.BindGroupEntry{
				tex(0, src.View), withSampler(1), buf(2, b.BlurHBuf),
			}},
			groupDef{PassBlurV, i, fmt.Sprintf("Blur V BG %d", i), p.Blur.GetBindGroupLayout(0), []wgpu.BindGroupEntry{
				tex(0, src.View), withSampler(1), buf(2, b.BlurVBuf),
			}},
			groupDef{PassTonemap, i, fmt.Sprintf("Tonemap BG %d", i), p.Tonemap.GetBindGroupLayout(0), []wgpu.BindGroupEntry{
				tex(0, t.HDR.View), tex(1, src.View), withSampler(2), buf(3, b.PostBuf),
			}},
		)
	})

	for _, d := range defs {
		bg, err := r.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:   d.label,
			Layout:  d.layout,
			Entries: d.entries,
		})
		if err != nil {
			rs.Release()
			return nil, fmt.Errorf("create %s: %w", d.label, err)
		}
		rs.Set(d.pass, d.variant, bg)
	}
	return rs, nil
}

// Encode records every pass of plan. The surface view receives the tonemapped image.
func (r *Renderer) Encode(encoder *wgpu.CommandEncoder, surface *wgpu.TextureView, plan []PassID) error {
	r.Targets.Bloom.Reset()
	for _, st := range Stages(plan) {
		var err error
		switch st.Kind {
		case KindCompute:
			err = r.encodeCompute(encoder, st.Passes)
		case KindScene:
			err = r.encodeScene(encoder, st.Passes)
		case KindPost:
			err = r.encodePost(encoder, st.Passes[0])
		case KindSurface:
			err = r.encodeSurface(encoder, surface, st.Passes)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) encodeCompute(encoder *wgpu.CommandEncoder, passes []PassID) error {
	cp := encoder.BeginComputePass(nil)
	for _, id := range passes {
		var (
			pipeline *wgpu.ComputePipeline
			lanes    int
		)
		switch id {
		case PassPropagate:
			pipeline, lanes = r.Pipelines.Propagate, r.Buffers.BodyCount
		case PassBeams:
			pipeline, lanes = r.Pipelines.Beams, r.Buffers.BeamCount
		default:
			cp.End()
			return fmt.Errorf("%s is not a compute pass", id)
		}
		cp.SetPipeline(pipeline)
		if err := r.Resources.Bind(cp, id, 0); err != nil {
			cp.End()
			return err
		}
		x, y := DispatchSize(lanes, r.Limits.MaxComputeWorkgroupsPerDimension)
		cp.DispatchWorkgroups(x, y, 1)
	}
	if err := cp.End(); err != nil {
		return fmt.Errorf("compute pass: %w", err)
	}
	return nil
}

func (r *Renderer) encodeScene(encoder *wgpu.CommandEncoder, passes []PassID) error {
	rp := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "Scene",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       r.Targets.HDR.View,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            r.Targets.Depth.View,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		},
	})
	b := r.Buffers
	for _, id := range passes {
		if err := r.Resources.Bind(rp, id, 0); err != nil {
			rp.End()
			return err
		}
		switch id {
		case PassBackground:
			rp.SetPipeline(r.Pipelines.Background)
			rp.Draw(3, 1, 0, 0)
		case PassGroundBackdrop:
			rp.SetPipeline(r.Pipelines.Ground)
			rp.Draw(3, 1, 0, 0)
		case PassPlanet, PassAtmosphere:
			if id == PassPlanet {
				rp.SetPipeline(r.Pipelines.Planet)
			} else {
				rp.SetPipeline(r.Pipelines.Atmosphere)
			}
			rp.SetVertexBuffer(0, b.SphereVB, 0, wgpu.WholeSize)
			rp.SetIndexBuffer(b.SphereIB, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
			rp.DrawIndexed(b.SphereIndexCount, 1, 0, 0, 0)
		case PassBillboards:
			rp.SetPipeline(r.Pipelines.Billboards)
			rp.Draw(6, uint32(b.BodyCount), 0, 0)
		case PassBeamRibbons:
			rp.SetPipeline(r.Pipelines.BeamRibbons)
			rp.Draw(6, uint32(b.BeamCount), 0, 0)
		default:
			rp.End()
			return fmt.Errorf("%s is not a scene pass", id)
		}
	}
	if err := rp.End(); err != nil {
		return fmt.Errorf("scene pass: %w", err)
	}
	return nil
}

// encodePost runs one bloom stage into the write side of the bloom pair and toggles it.
func (r *Renderer) encodePost(encoder *wgpu.CommandEncoder, id PassID) error {
	bloom := &r.Targets.Bloom
	pipeline := r.Pipelines.Blur
	variant := bloom.ReadIndex()
	if id == PassBloomThreshold {
		pipeline, variant = r.Pipelines.BloomThreshold, 0
	}
	rp := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: id.String(),
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       bloom.Write().View,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{},
		}},
	})
	rp.SetPipeline(pipeline)
	if err := r.Resources.Bind(rp, id, variant); err != nil {
		rp.End()
		return err
	}
	rp.Draw(3, 1, 0, 0)
	if err := rp.End(); err != nil {
		return fmt.Errorf("%s pass: %w", id, err)
	}
	bloom.Toggle()
	return nil
}

func (r *Renderer) encodeSurface(encoder *wgpu.CommandEncoder, surface *wgpu.TextureView, passes []PassID) error {
	rp := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "Surface",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       surface,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		}},
	})
	for _, id := range passes {
		switch id {
		case PassTonemap:
			rp.SetPipeline(r.Pipelines.Tonemap)
			if err := r.Resources.Bind(rp, id, r.Targets.Bloom.ReadIndex()); err != nil {
				rp.End()
				return err
			}
			rp.Draw(3, 1, 0, 0)
		case PassOverlay:
			r.Text.Draw(rp)
		}
	}
	if err := rp.End(); err != nil {
		return fmt.Errorf("surface pass: %w", err)
	}
	return nil
}

func (r *Renderer) Release() {
	if r == nil {
		return
	}
	r.Resources.Release()
	r.Text.Release()
	r.Pipelines.Release()
	r.Targets.Release()
	r.Buffers.Release()
	if r.Sampler != nil {
		r.Sampler.Release()
	}
}
