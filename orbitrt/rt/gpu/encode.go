package gpu

import (
	"encoding/binary"
	"math"

	"github.com/skyweave/constellation/orbitrt/rt/orbit"
)

// Byte sizes of the WGSL structs shared with the kernels.
const (
	ElementStride  = 16
	PositionStride = 16
	BeamStride     = 32
	GlyphStride    = 20
	ShellTableSize = 112
	BeamParamsSize = 64
	PostParamsSize = 32
	BlurParamsSize = 16
)

type byteWriter []byte

func (b byteWriter) f32(off int, v float32) {
	binary.LittleEndian.PutUint32(b[off:], math.Float32bits(v))
}

func (b byteWriter) u32(off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:], v)
}

// EncodeElements packs the orbital state buffer: raan, inclination, mean anomaly, shell.
func EncodeElements(elements []orbit.OrbitalElement) []byte {
	buf := byteWriter(make([]byte, len(elements)*ElementStride))
	for i, e := range elements {
		off := i * ElementStride
		buf.f32(off, e.RAAN)
		buf.f32(off+4, e.Inclination)
		buf.f32(off+8, e.MeanAnomalyEpoch)
		buf.u32(off+12, uint32(e.Shell))
	}
	return buf
}

// EncodeShellTable packs the shell uniform.
//
//	struct Shell { radius, mean_motion, pulse_freq, pulse_depth: f32, color: vec4<f32> } // 32
//	struct ShellTable { shell: array<Shell, 3>, body_radius: f32, count: u32, _p0, _p1 } // 112
func EncodeShellTable(t orbit.ShellTable) []byte {
	buf := byteWriter(make([]byte, ShellTableSize))
	for i, s := range t.Shells {
		off := i * 32
		buf.f32(off, s.Radius)
		buf.f32(off+4, s.MeanMotion)
		buf.f32(off+8, s.PulseFreq)
		buf.f32(off+12, s.PulseDepth)
		buf.f32(off+16, s.Color[0])
		buf.f32(off+20, s.Color[1])
		buf.f32(off+24, s.Color[2])
		buf.f32(off+28, 1)
	}
	buf.f32(96, t.BodyRadius)
	buf.u32(100, orbit.ShellCount)
	return buf
}

// EncodeBeamParams packs the beam kernel uniform. Logo glyphs occupy the start of the
// glyph buffer and cross glyphs follow them.
func EncodeBeamParams(p orbit.BeamParams, bodies int) []byte {
	buf := byteWriter(make([]byte, BeamParamsSize))
	buf.u32(0, uint32(max(p.Stride, 1)))
	buf.u32(4, uint32(max(p.MaxBeams, 0)))
	buf.u32(8, uint32(p.Mode))
	buf.u32(12, uint32(len(p.Logo)))
	buf.u32(16, uint32(len(p.Cross)))
	buf.u32(20, uint32(bodies))
	buf.f32(32, p.Time)
	buf.f32(36, p.BodyRadius)
	buf.f32(40, p.ChaosAmplitude)
	buf.f32(44, p.BaseIntensity)
	buf.f32(48, p.MaskIntensity)
	buf.f32(52, p.DimIntensity)
	buf.f32(56, p.AmbientHue)
	buf.f32(60, p.MaskHue)
	return buf
}

// EncodeGlyphs packs logo then cross glyphs. The result is never empty so the
// storage binding stays valid with no glyphs.
func EncodeGlyphs(logo, cross orbit.GlyphSet) []byte {
	n := len(logo) + len(cross)
	buf := byteWriter(make([]byte, max(n, 1)*GlyphStride))
	for i, g := range append(append(orbit.GlyphSet{}, logo...), cross...) {
		off := i * GlyphStride
		buf.u32(off, uint32(g.Kind))
		buf.f32(off+4, g.A)
		buf.f32(off+8, g.B)
		buf.f32(off+12, g.C)
		buf.f32(off+16, g.D)
	}
	return buf
}

// PostParams drives bloom extraction and the tonemap compositor.
type PostParams struct {
	Threshold   float32
	Knee        float32
	Intensity   float32
	Exposure    float32
	Vignette    float32
	EncodeGamma bool // set when the surface format is not sRGB
}

// DefaultPostParams returns the stock bloom and grade.
func DefaultPostParams() PostParams {
	return PostParams{
		Threshold: 1.0,
		Knee:      0.5,
		Intensity: 0.8,
		Exposure:  1.0,
		Vignette:  0.25,
	}
}

// Marshal encodes the Post uniform shared by bloom_threshold and tonemap.
func (p PostParams) Marshal() []byte {
	buf := byteWriter(make([]byte, PostParamsSize))
	buf.f32(0, p.Threshold)
	buf.f32(4, p.Knee)
	buf.f32(8, p.Intensity)
	buf.f32(12, p.Exposure)
	buf.f32(16, p.Vignette)
	if p.EncodeGamma {
		buf.u32(20, 1)
	}
	return buf
}

// EncodeBlur packs one blur direction as a UV step for a target of the given size.
func EncodeBlur(dirX, dirY float32, width, height uint32) []byte {
	buf := byteWriter(make([]byte, BlurParamsSize))
	if width > 0 {
		buf.f32(0, dirX/float32(width))
	}
	if height > 0 {
		buf.f32(4, dirY/float32(height))
	}
	return buf
}
