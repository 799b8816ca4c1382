package gpu

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestBloomBlackStaysBlack(t *testing.T) {
	p := DefaultPostParams()
	row := make([]mgl32.Vec3, 32)
	for i := range row {
		row[i] = ThresholdColor(mgl32.Vec3{}, p)
	}
	out := BlurRow(BlurRow(row))
	for _, c := range out {
		assert.Equal(t, mgl32.Vec3{}, c)
	}
}

func TestThresholdKeepsBrightOnly(t *testing.T) {
	p := DefaultPostParams()
	dim := ThresholdColor(mgl32.Vec3{0.1, 0.1, 0.1}, p)
	assert.Less(t, Luminance(dim), float32(1e-3))

	bright := mgl32.Vec3{4, 4, 4}
	out := ThresholdColor(bright, p)
	assert.InDelta(t, Luminance(bright)-p.Threshold, Luminance(out), 1e-3)
}

func TestBlurWeightsNormalized(t *testing.T) {
	var sum float32
	for _, w := range BlurWeights {
		sum += w
	}
	assert.InDelta(t, 1, sum, 1e-6)
}

func TestBlurRowPreservesFlatField(t *testing.T) {
	row := make([]mgl32.Vec3, 9)
	for i := range row {
		row[i] = mgl32.Vec3{0.5, 1, 2}
	}
	for _, c := range BlurRow(row) {
		assert.InDelta(t, 0.5, c[0], 1e-5)
		assert.InDelta(t, 1, c[1], 1e-5)
		assert.InDelta(t, 2, c[2], 1e-5)
	}
}

func TestACESMonotoneAndBounded(t *testing.T) {
	assert.InDelta(t, 0, ACES(0), 1e-6)
	prev := float32(-1)
	for x := float32(0); x < 100; x += 0.25 {
		v := ACES(x)
		assert.GreaterOrEqual(t, v, prev)
		assert.LessOrEqual(t, v, float32(1))
		prev = v
	}
}
