package core

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyweave/constellation/orbitrt/rt/orbit"
)

func horizonFrame(t *testing.T) (CameraState, FrameUniform) {
	t.Helper()
	cfg := DefaultControllerConfig(testRadius)
	cam := ComputeCamera(cfg, ViewHorizon, AngularState{Yaw: 15, Pitch: 10}, mgl32.Vec3{}, 0, 0, nil)
	f := BuildFrame(cam, FrameInputs{
		Mode:             ViewHorizon,
		Width:            1920,
		Height:           1080,
		Time:             42,
		DeltaTime:        0.016,
		BodyCount:        1 << 20,
		Visibility:       DefaultVisibilityParams(testRadius),
		AtmosphereRadius: testRadius * 1.025,
		BeamWidth:        3,
	})
	return cam, f
}

func TestBuildFrameCameraBasis(t *testing.T) {
	cam, f := horizonFrame(t)

	assert.Equal(t, cam.Position, f.CameraPos)
	assert.InDelta(t, 0, f.CameraRight.Dot(f.CameraUp), 1e-5)
	assert.InDelta(t, 0, f.CameraRight.Dot(f.CameraForward), 1e-5)
	assert.InDelta(t, 1, f.CameraUp.Len(), 1e-5)
	assert.False(t, f.Ground)
	assert.Equal(t, DefaultVisibilityParams(testRadius).MaxDistance[ViewHorizon], f.MaxDistance)

	// The look target lands at the screen center with depth inside [0, 1].
	clip := f.ViewProj.Mul4x1(cam.Target.Vec4(1))
	ndc := clip.Vec3().Mul(1 / clip[3])
	assert.InDelta(t, 0, ndc[0], 1e-3)
	assert.InDelta(t, 0, ndc[1], 1e-3)
	assert.Greater(t, ndc[2], float32(0))
	assert.Less(t, ndc[2], float32(1))

	id := f.InvViewProj.Mul4(f.ViewProj)
	for i, v := range mgl32.Ident4() {
		assert.InDelta(t, v, id[i], 0.05, "inverse * view-proj [%d]", i)
	}
}

func TestBuildFrameGroundFlag(t *testing.T) {
	cfg := DefaultControllerConfig(testRadius)
	cam := ComputeCamera(cfg, ViewGround, AngularState{Pitch: 30}, mgl32.Vec3{}, 0, 0, nil)
	f := BuildFrame(cam, FrameInputs{Mode: ViewGround, Visibility: DefaultVisibilityParams(testRadius)})

	assert.True(t, f.Ground)
	assert.Equal(t, float32(1), f.ScreenWidth, "zero sizes clamp to one pixel")
}

func TestFrameUniformMarshal(t *testing.T) {
	_, f := horizonFrame(t)
	buf := f.Marshal()
	require.Len(t, buf, FrameUniformSize)

	f32 := func(off int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:])) }
	u32 := func(off int) uint32 { return binary.LittleEndian.Uint32(buf[off:]) }

	assert.Equal(t, f.ViewProj[0], f32(0))
	assert.Equal(t, f.InvViewProj[15], f32(64+60))
	assert.Equal(t, f.CameraPos.X(), f32(128))
	assert.Equal(t, f.MaxDistance, f32(140))
	assert.Equal(t, f.FrustumMargin, f32(156))
	assert.Equal(t, f.HorizonMargin, f32(172))
	assert.Equal(t, f.BodyRadius, f32(188))
	assert.Equal(t, f.Planes[5][3], f32(192+5*16+12))
	assert.Equal(t, float32(1920), f32(288))
	assert.Equal(t, float32(1080), f32(292))
	assert.InDelta(t, 1.0/1920, f32(296), 1e-9)
	assert.Equal(t, float32(42), f32(304))
	assert.Equal(t, float32(0.016), f32(308))
	assert.Equal(t, uint32(ViewHorizon), u32(312))
	assert.Equal(t, uint32(0), u32(316))
	assert.Equal(t, uint32(1<<20), u32(320))
	assert.Equal(t, f.SizeScale, f32(324))
	assert.Equal(t, f.MaxSize, f32(332))
	assert.Equal(t, f.AtmosphereRadius, f32(340))
	assert.Equal(t, float32(3), f32(344))

	f.Ground = true
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(f.Marshal()[316:]))
}

func TestFrameVisibilityRoundTrip(t *testing.T) {
	_, f := horizonFrame(t)
	p := f.Visibility()
	want := DefaultVisibilityParams(testRadius)
	want.MaxDistance = [ViewModeCount]float32{}
	assert.Equal(t, want, p)
}

func equatorGroundFrame(t *testing.T) FrameUniform {
	t.Helper()
	cfg := DefaultControllerConfig(testRadius)
	cfg.GroundLatitude = 0
	cam := ComputeCamera(cfg, ViewGround, AngularState{Pitch: MaxPitch}, mgl32.Vec3{}, 0, 0, nil)
	return BuildFrame(cam, FrameInputs{
		Mode:       ViewGround,
		Width:      1280,
		Height:     720,
		Visibility: DefaultVisibilityParams(testRadius),
	})
}

func TestGroundBeamsFollowHorizon(t *testing.T) {
	f := equatorGroundFrame(t)
	beam := func(p mgl32.Vec3) orbit.Beam {
		return orbit.Beam{Start: p, Intensity: 0.6, End: p.Normalize().Mul(testRadius)}
	}

	const r = 6921
	a := mgl32.DegToRad(40)
	behind := mgl32.Vec3{r * float32(math.Cos(float64(a))), r * float32(math.Sin(float64(a))), 0}
	overhead := mgl32.Vec3{r, 0, 0}

	tests := []struct {
		name string
		body mgl32.Vec3
		want bool
	}{
		{"overhead", overhead, true},
		{"40 degrees around the planet", behind, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Visible(tt.body), "billboard")
			assert.Equal(t, tt.want, f.BeamDrawn(beam(tt.body)), "ribbon")
		})
	}

	assert.False(t, f.BeamDrawn(orbit.Beam{Start: overhead}), "disabled beams never draw")

	f.Ground = false
	assert.True(t, f.BeamDrawn(beam(behind)), "orbit views rely on the planet depth instead")
}
