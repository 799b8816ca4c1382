package orbit

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// PatternMode selects how beam targets and colours are derived.
type PatternMode uint32

const (
	PatternChaos PatternMode = iota
	PatternLogo
	PatternCross
)

func (m PatternMode) String() string {
	switch m {
	case PatternChaos:
		return "chaos"
	case PatternLogo:
		return "logo"
	case PatternCross:
		return "cross"
	}
	return "unknown"
}

// Beam is one ground link segment. Intensity 0 means disabled.
type Beam struct {
	Start     mgl32.Vec3
	Intensity float32
	End       mgl32.Vec3
	Hue       float32
}

// BeamParams is everything the beam kernel reads besides positions.
type BeamParams struct {
	Stride         int
	MaxBeams       int
	Mode           PatternMode
	Time           float32
	BodyRadius     float32
	ChaosAmplitude float32
	BaseIntensity  float32
	MaskIntensity  float32
	DimIntensity   float32
	AmbientHue     float32
	MaskHue        float32
	Logo           GlyphSet
	Cross          GlyphSet
}

// DefaultBeamParams returns a 1/16 density with the stock glyphs.
func DefaultBeamParams(bodies int) BeamParams {
	const stride = 16
	return BeamParams{
		Stride:         stride,
		MaxBeams:       bodies / stride,
		Mode:           PatternChaos,
		BodyRadius:     EarthRadius,
		ChaosAmplitude: 120,
		BaseIntensity:  0.6,
		MaskIntensity:  4.0,
		DimIntensity:   0.12,
		AmbientHue:     0.6,
		MaskHue:        0.5,
		Logo:           LogoGlyphs(),
		Cross:          CrossGlyphs(),
	}
}

// EnabledBeams returns how many beam slots map to a body: floor(bodies/stride).
func EnabledBeams(bodies, stride int) int {
	if stride <= 0 {
		return 0
	}
	return bodies / stride
}

// ComputeBeam is the host mirror of one beam kernel lane.
func ComputeBeam(i int, positions []BodyPosition, p BeamParams) Beam {
	if i < 0 || i >= p.MaxBeams || i >= EnabledBeams(len(positions), p.Stride) {
		return Beam{}
	}
	start := positions[i*p.Stride].Position
	dir := start.Normalize()
	b := Beam{
		Start:     start,
		Intensity: p.BaseIntensity,
		End:       dir.Mul(p.BodyRadius),
		Hue:       p.AmbientHue,
	}

	fi := float32(i)
	switch p.Mode {
	case PatternChaos:
		t := p.Time
		jitter := mgl32.Vec3{
			math32.Sin(t*0.7 + fi*0.37),
			math32.Sin(t*0.9 + fi*0.73),
			math32.Sin(t*1.1 + fi*1.31),
		}
		b.End = b.End.Add(jitter.Mul(p.ChaosAmplitude))
		h := p.AmbientHue + 0.05*math32.Sin(t*0.05+fi*0.01)
		b.Hue = h - math32.Floor(h)
	case PatternLogo:
		if p.Logo.Contains(EquirectUV(dir)) {
			b.Intensity = p.MaskIntensity
			b.Hue = p.MaskHue
		} else {
			b.Intensity = p.DimIntensity
		}
	case PatternCross:
		if p.Cross.Contains(EquirectUV(dir)) {
			b.Intensity = p.MaskIntensity
			b.Hue = p.MaskHue
		} else {
			b.Intensity = 0
		}
	}
	return b
}
