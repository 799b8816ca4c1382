package gpu

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/skyweave/constellation/orbitrt/rt/orbit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f32At(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}

func u32At(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off:])
}

func TestEncodeElements(t *testing.T) {
	elements := []orbit.OrbitalElement{
		{RAAN: 1, Inclination: 0.5, MeanAnomalyEpoch: 2, Shell: orbit.ShellLow},
		{RAAN: 3, Inclination: 1.5, MeanAnomalyEpoch: 4, Shell: orbit.ShellHigh},
	}
	buf := EncodeElements(elements)
	require.Len(t, buf, 2*ElementStride)
	assert.Equal(t, float32(3), f32At(buf, 16))
	assert.Equal(t, float32(1.5), f32At(buf, 20))
	assert.Equal(t, float32(4), f32At(buf, 24))
	assert.Equal(t, uint32(orbit.ShellHigh), u32At(buf, 28))
}

func TestEncodeShellTable(t *testing.T) {
	table := orbit.DefaultShellTable()
	buf := EncodeShellTable(table)
	require.Len(t, buf, ShellTableSize)

	mid := table.Shells[orbit.ShellMid]
	assert.Equal(t, mid.Radius, f32At(buf, 32))
	assert.Equal(t, mid.MeanMotion, f32At(buf, 36))
	assert.Equal(t, mid.PulseFreq, f32At(buf, 40))
	assert.Equal(t, mid.Color[2], f32At(buf, 56))
	assert.Equal(t, float32(1), f32At(buf, 60))
	assert.Equal(t, table.BodyRadius, f32At(buf, 96))
	assert.Equal(t, uint32(orbit.ShellCount), u32At(buf, 100))
}

func TestEncodeBeamParams(t *testing.T) {
	p := orbit.DefaultBeamParams(1 << 20)
	p.Mode = orbit.PatternCross
	p.Time = 12.5
	buf := EncodeBeamParams(p, 1<<20)
	require.Len(t, buf, BeamParamsSize)

	assert.Equal(t, uint32(16), u32At(buf, 0))
	assert.Equal(t, uint32(1<<16), u32At(buf, 4))
	assert.Equal(t, uint32(orbit.PatternCross), u32At(buf, 8))
	assert.Equal(t, uint32(len(p.Logo)), u32At(buf, 12))
	assert.Equal(t, uint32(len(p.Cross)), u32At(buf, 16))
	assert.Equal(t, uint32(1<<20), u32At(buf, 20))
	assert.Equal(t, float32(12.5), f32At(buf, 32))
	assert.Equal(t, p.MaskHue, f32At(buf, 60))
}

func TestEncodeBeamParamsZeroStride(t *testing.T) {
	buf := EncodeBeamParams(orbit.BeamParams{}, 10)
	assert.Equal(t, uint32(1), u32At(buf, 0), "stride is never zero on the GPU")
}

func TestEncodeGlyphsOrder(t *testing.T) {
	logo := orbit.LogoGlyphs()
	cross := orbit.CrossGlyphs()
	buf := EncodeGlyphs(logo, cross)
	require.Len(t, buf, (len(logo)+len(cross))*GlyphStride)

	off := len(logo) * GlyphStride
	assert.Equal(t, uint32(orbit.ShapeDiagonal), u32At(buf, off))
	assert.Equal(t, cross[0].D, f32At(buf, off+16))
	assert.Equal(t, uint32(orbit.ShapeAnnulus), u32At(buf, 0))
}

func TestEncodeGlyphsEmpty(t *testing.T) {
	assert.Len(t, EncodeGlyphs(nil, nil), GlyphStride)
}

func TestPostParamsMarshal(t *testing.T) {
	p := DefaultPostParams()
	p.EncodeGamma = true
	buf := p.Marshal()
	require.Len(t, buf, PostParamsSize)
	assert.Equal(t, p.Threshold, f32At(buf, 0))
	assert.Equal(t, p.Vignette, f32At(buf, 16))
	assert.Equal(t, uint32(1), u32At(buf, 20))
}

func TestEncodeBlur(t *testing.T) {
	h := EncodeBlur(1, 0, 800, 600)
	assert.InDelta(t, 1.0/800, f32At(h, 0), 1e-9)
	assert.Equal(t, float32(0), f32At(h, 4))

	v := EncodeBlur(0, 1, 800, 600)
	assert.Equal(t, float32(0), f32At(v, 0))
	assert.InDelta(t, 1.0/600, f32At(v, 4), 1e-9)
}
