package gpu

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// BlurWeights are the 5-tap binomial weights used by both blur directions.
var BlurWeights = [5]float32{0.0625, 0.25, 0.375, 0.25, 0.0625}

var lumaWeights = mgl32.Vec3{0.2126, 0.7152, 0.0722}

// Luminance returns the Rec. 709 luma of c.
func Luminance(c mgl32.Vec3) float32 {
	return c.Dot(lumaWeights)
}

// ThresholdColor is the host mirror of the bloom extraction shader: a soft-knee
// threshold on luminance that scales the whole colour.
func ThresholdColor(c mgl32.Vec3, p PostParams) mgl32.Vec3 {
	br := Luminance(c)
	knee := math32.Max(p.Knee, 1e-4)
	soft := mgl32.Clamp(br-p.Threshold+knee, 0, 2*knee)
	soft = soft * soft / (4*knee + 1e-4)
	contrib := math32.Max(soft, br-p.Threshold) / math32.Max(br, 1e-4)
	return c.Mul(contrib)
}

// BlurRow applies one blur direction to a row of samples, clamping at the edges like
// the sampler.
func BlurRow(src []mgl32.Vec3) []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(src))
	for i := range src {
		var sum mgl32.Vec3
		for k, w := range BlurWeights {
			j := min(max(i+k-2, 0), len(src)-1)
			sum = sum.Add(src[j].Mul(w))
		}
		out[i] = sum
	}
	return out
}

// ACES is the filmic curve applied by the tonemap compositor, per channel.
func ACES(x float32) float32 {
	v := (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
	return mgl32.Clamp(v, 0, 1)
}
