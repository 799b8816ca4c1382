package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

const (
	HDRFormat   = wgpu.TextureFormatRGBA16Float
	DepthFormat = wgpu.TextureFormatDepth32Float
)

// Target is a texture with its default view.
type Target struct {
	Texture *wgpu.Texture
	View    *wgpu.TextureView
}

func newTarget(device *wgpu.Device, label string, w, h uint32, format wgpu.TextureFormat, usage wgpu.TextureUsage) (*Target, error) {
	tex, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Size:          wgpu.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("create %s view: %w", label, err)
	}
	return &Target{Texture: tex, View: view}, nil
}

func (t *Target) Release() {
	if t == nil {
		return
	}
	if t.View != nil {
		t.View.Release()
	}
	if t.Texture != nil {
		t.Texture.Release()
	}
}

// RenderTargets holds the HDR scene color, its depth and the two bloom buffers, all at
// full drawable size.
type RenderTargets struct {
	Width, Height uint32
	HDR           *Target
	Depth         *Target
	Bloom         PingPong[*Target]
}

// NewRenderTargets allocates every target or none.
func NewRenderTargets(device *wgpu.Device, w, h uint32) (*RenderTargets, error) {
	w, h = max(w, 1), max(h, 1)
	color := wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding

	var made []*Target
	fail := func(err error) (*RenderTargets, error) {
		for _, t := range made {
			t.Release()
		}
		return nil, err
	}
	mk := func(label string, format wgpu.TextureFormat, usage wgpu.TextureUsage) (*Target, error) {
		t, err := newTarget(device, label, w, h, format, usage)
		if err == nil {
			made = append(made, t)
		}
		return t, err
	}

	hdr, err := mk("HDR Color", HDRFormat, color)
	if err != nil {
		return fail(err)
	}
	depth, err := mk("Scene Depth", DepthFormat, wgpu.TextureUsageRenderAttachment)
	if err != nil {
		return fail(err)
	}
	b0, err := mk("Bloom A", HDRFormat, color)
	if err != nil {
		return fail(err)
	}
	b1, err := mk("Bloom B", HDRFormat, color)
	if err != nil {
		return fail(err)
	}
	return &RenderTargets{
		Width:  w,
		Height: h,
		HDR:    hdr,
		Depth:  depth,
		Bloom:  NewPingPong(b0, b1),
	}, nil
}

func (rt *RenderTargets) Release() {
	if rt == nil {
		return
	}
	rt.HDR.Release()
	rt.Depth.Release()
	rt.Bloom.Each(func(_ int, t *Target) { t.Release() })
}

// IsSRGB reports whether writes to format are gamma encoded by the hardware.
func IsSRGB(format wgpu.TextureFormat) bool {
	switch format {
	case wgpu.TextureFormatRGBA8UnormSrgb, wgpu.TextureFormatBGRA8UnormSrgb:
		return true
	}
	return false
}
