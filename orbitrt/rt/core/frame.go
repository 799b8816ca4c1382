package core

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/skyweave/constellation/orbitrt/rt/orbit"
)

// FrameUniformSize is the byte size of the WGSL Frame struct.
const FrameUniformSize = 352

// FrameUniform is the per-frame state read by every kernel and pass.
type FrameUniform struct {
	ViewProj    mgl32.Mat4
	InvViewProj mgl32.Mat4

	CameraPos     mgl32.Vec3
	CameraRight   mgl32.Vec3
	CameraUp      mgl32.Vec3
	CameraForward mgl32.Vec3
	Planes        [6]mgl32.Vec4

	ScreenWidth  float32
	ScreenHeight float32
	Time         float32
	DeltaTime    float32
	Mode         ViewMode
	Ground       bool
	BodyCount    uint32

	MaxDistance      float32
	FrustumMargin    float32
	HorizonMargin    float32
	BodyRadius       float32
	SizeScale        float32
	MinSize          float32
	MaxSize          float32
	Attenuation      float32
	AtmosphereRadius float32
	BeamWidth        float32
}

// FrameInputs is everything besides the camera that goes into a frame.
type FrameInputs struct {
	Mode             ViewMode
	OrbitDistance    float32
	Width, Height    int
	Time, DeltaTime  float32
	BodyCount        int
	Visibility       VisibilityParams
	AtmosphereRadius float32
	BeamWidth        float32
}

// BuildFrame derives the uniform block from a camera. Planes are re-extracted every frame.
func BuildFrame(cam CameraState, in FrameInputs) FrameUniform {
	w, h := max(in.Width, 1), max(in.Height, 1)
	aspect := float32(w) / float32(h)

	view := cam.ViewMatrix()
	proj := cam.ProjectionMatrix(aspect)
	vp := proj.Mul4(view)

	fwd := cam.Forward()
	right := fwd.Cross(cam.Up).Normalize()
	up := right.Cross(fwd)

	vis := in.Visibility
	return FrameUniform{
		ViewProj:         vp,
		InvViewProj:      vp.Inv(),
		CameraPos:        cam.Position,
		CameraRight:      right,
		CameraUp:         up,
		CameraForward:    fwd,
		Planes:           ExtractFrustum(vp),
		ScreenWidth:      float32(w),
		ScreenHeight:     float32(h),
		Time:             in.Time,
		DeltaTime:        in.DeltaTime,
		Mode:             in.Mode,
		Ground:           in.Mode == ViewGround,
		BodyCount:        uint32(in.BodyCount),
		MaxDistance:      vis.RenderDistance(in.Mode, in.OrbitDistance),
		FrustumMargin:    vis.FrustumMargin,
		HorizonMargin:    vis.HorizonMargin,
		BodyRadius:       vis.BodyRadius,
		SizeScale:        vis.SizeScale,
		MinSize:          vis.MinSize,
		MaxSize:          vis.MaxSize,
		Attenuation:      vis.Attenuation,
		AtmosphereRadius: in.AtmosphereRadius,
		BeamWidth:        in.BeamWidth,
	}
}

// Visibility returns the params the uniform was built with.
func (f *FrameUniform) Visibility() VisibilityParams {
	return VisibilityParams{
		BodyRadius:    f.BodyRadius,
		FrustumMargin: f.FrustumMargin,
		HorizonMargin: f.HorizonMargin,
		SizeScale:     f.SizeScale,
		MinSize:       f.MinSize,
		MaxSize:       f.MaxSize,
		Attenuation:   f.Attenuation,
	}
}

// Visible is the host mirror of the billboard vertex stage cull: distance, then frustum,
// then (ground only) horizon.
func (f *FrameUniform) Visible(p mgl32.Vec3) bool {
	if p.Sub(f.CameraPos).Len() > f.MaxDistance {
		return false
	}
	if !PointInFrustum(p, f.Planes, f.FrustumMargin) {
		return false
	}
	if f.Ground && BelowHorizon(f.CameraPos, p, f.horizonRadius()) {
		return false
	}
	return true
}

// BeamDrawn is the host mirror of the ribbon vertex stage. Disabled beams collapse, and in
// ground view so does every beam whose body sits below the horizon, since no planet mesh
// writes depth there.
func (f *FrameUniform) BeamDrawn(b orbit.Beam) bool {
	if b.Intensity <= 0 {
		return false
	}
	return !f.Ground || !BelowHorizon(f.CameraPos, b.Start, f.horizonRadius())
}

func (f *FrameUniform) horizonRadius() float32 {
	return f.BodyRadius - f.HorizonMargin
}

// Marshal encodes the uniform in WGSL layout.
//
//	struct Frame {
//	  view_proj: mat4x4<f32>,      // 0
//	  inv_view_proj: mat4x4<f32>,  // 64
//	  cam_pos: vec4<f32>,          // 128 w = max_distance
//	  cam_right: vec4<f32>,        // 144 w = frustum_margin
//	  cam_up: vec4<f32>,           // 160 w = horizon_margin
//	  cam_forward: vec4<f32>,      // 176 w = body_radius
//	  planes: array<vec4<f32>, 6>, // 192
//	  screen: vec4<f32>,           // 288 (w, h, 1/w, 1/h)
//	  time, dt: f32, mode, ground: u32,                        // 304
//	  body_count: u32, size_scale, min_size, max_size: f32,   // 320
//	  attenuation, atmosphere_radius, beam_width, _pad: f32,  // 336
//	}
func (f *FrameUniform) Marshal() []byte {
	buf := make([]byte, FrameUniformSize)
	put := func(off int, v float32) {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
	}
	putU := func(off int, v uint32) {
		binary.LittleEndian.PutUint32(buf[off:], v)
	}
	putMat := func(off int, m mgl32.Mat4) {
		for i, v := range m {
			put(off+i*4, v)
		}
	}
	putVec := func(off int, v mgl32.Vec3, w float32) {
		put(off, v[0])
		put(off+4, v[1])
		put(off+8, v[2])
		put(off+12, w)
	}

	putMat(0, f.ViewProj)
	putMat(64, f.InvViewProj)
	putVec(128, f.CameraPos, f.MaxDistance)
	putVec(144, f.CameraRight, f.FrustumMargin)
	putVec(160, f.CameraUp, f.HorizonMargin)
	putVec(176, f.CameraForward, f.BodyRadius)
	for i, p := range f.Planes {
		putVec(192+i*16, p.Vec3(), p[3])
	}

	put(288, f.ScreenWidth)
	put(292, f.ScreenHeight)
	if f.ScreenWidth > 0 && f.ScreenHeight > 0 {
		put(296, 1/f.ScreenWidth)
		put(300, 1/f.ScreenHeight)
	}

	put(304, f.Time)
	put(308, f.DeltaTime)
	putU(312, uint32(f.Mode))
	if f.Ground {
		putU(316, 1)
	}

	putU(320, f.BodyCount)
	put(324, f.SizeScale)
	put(328, f.MinSize)
	put(332, f.MaxSize)

	put(336, f.Attenuation)
	put(340, f.AtmosphereRadius)
	put(344, f.BeamWidth)
	return buf
}
