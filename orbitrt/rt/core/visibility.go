package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/skyweave/constellation/orbitrt/rt/orbit"
)

// VisibilityParams are the culling and billboard tunables shared by the host mirror and the
// billboard shader.
type VisibilityParams struct {
	BodyRadius    float32
	FrustumMargin float32
	HorizonMargin float32
	// MaxDistance per view mode. Free orbit adds the current orbit distance so zooming out
	// never culls the whole constellation.
	MaxDistance [ViewModeCount]float32
	SizeScale   float32 // pixels * sqrt(km)
	MinSize     float32 // pixels
	MaxSize     float32 // pixels
	Attenuation float32 // km at which brightness falls to half
}

func DefaultVisibilityParams(bodyRadius float32) VisibilityParams {
	return VisibilityParams{
		BodyRadius:    bodyRadius,
		FrustumMargin: 200,
		HorizonMargin: 10,
		MaxDistance:   [ViewModeCount]float32{12000, 20000, 6000, 5000},
		SizeScale:     120,
		MinSize:       1,
		MaxSize:       14,
		Attenuation:   9000,
	}
}

// RenderDistance returns the distance cull threshold for mode.
func (p VisibilityParams) RenderDistance(mode ViewMode, orbitDistance float32) float32 {
	if mode >= ViewModeCount {
		mode = ViewFreeOrbit
	}
	d := p.MaxDistance[mode]
	if mode == ViewFreeOrbit {
		d += orbitDistance
	}
	return d
}

// BelowHorizon reports whether the segment from eye to body crosses the sphere of the given
// radius centered at the origin strictly between its endpoints.
func BelowHorizon(eye, body mgl32.Vec3, radius float32) bool {
	d := body.Sub(eye)
	a := d.Dot(d)
	if a == 0 {
		return false
	}
	b := 2 * eye.Dot(d)
	c := eye.Dot(eye) - radius*radius
	disc := b*b - 4*a*c
	if disc < 0 {
		return false
	}
	s := math32.Sqrt(disc)
	t0 := (-b - s) / (2 * a)
	t1 := (-b + s) / (2 * a)
	return (t0 > 0 && t0 < 1) || (t1 > 0 && t1 < 1)
}

// BillboardSize returns the on-screen quad edge in pixels for a body at distance d.
// The inverse-sqrt falloff keeps bodies legible across several orders of magnitude.
func BillboardSize(d float32, p VisibilityParams) float32 {
	if d <= 0 {
		return p.MaxSize
	}
	return mgl32.Clamp(p.SizeScale/math32.Sqrt(d), p.MinSize, p.MaxSize)
}

// Brightness returns the pulse-modulated, distance-attenuated intensity of body i.
func Brightness(s orbit.Shell, i uint32, t, d float32, p VisibilityParams) float32 {
	phase := twoPi * fract(float32(i)*0.6180339)
	pulse := 1 - s.PulseDepth*0.5*(1+math32.Sin(s.PulseFreq*t+phase))
	atten := float32(1)
	if p.Attenuation > 0 {
		atten = 1 / (1 + d/p.Attenuation)
	}
	return pulse * atten
}

const twoPi = 2 * math32.Pi

func fract(x float32) float32 {
	return x - math32.Floor(x)
}
