package orbit

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ShapeKind selects the UV test a GlyphShape performs.
type ShapeKind uint32

const (
	// ShapeBand is an axis-aligned rectangle: A..B in u, C..D in v.
	ShapeBand ShapeKind = iota
	// ShapeAnnulus is a ring centered at (A, B) with radii C..D.
	ShapeAnnulus
	// ShapeDiagonal is an X of two diagonal strokes centered at (A, B),
	// half-width C, half-extent D.
	ShapeDiagonal
)

// GlyphShape is one primitive of a mask. Layout mirrors the GPU struct.
type GlyphShape struct {
	Kind       ShapeKind
	A, B, C, D float32
}

// GlyphSet is a union of shapes.
type GlyphSet []GlyphShape

// uAspect compensates for u spanning 2pi of longitude while v spans pi of latitude.
const uAspect = 2

// EquirectUV maps a unit direction to longitude/latitude texture space.
func EquirectUV(dir mgl32.Vec3) mgl32.Vec2 {
	lon := math32.Atan2(dir[1], dir[0])
	lat := math32.Asin(mgl32.Clamp(dir[2], -1, 1))
	return mgl32.Vec2{lon/twoPi + 0.5, lat/math32.Pi + 0.5}
}

// Contains reports whether uv falls inside the shape.
func (s GlyphShape) Contains(uv mgl32.Vec2) bool {
	u, v := uv[0], uv[1]
	switch s.Kind {
	case ShapeBand:
		return u >= s.A && u <= s.B && v >= s.C && v <= s.D
	case ShapeAnnulus:
		du := (u - s.A) * uAspect
		dv := v - s.B
		d := math32.Sqrt(du*du + dv*dv)
		return d >= s.C && d <= s.D
	case ShapeDiagonal:
		du := (u - s.A) * uAspect
		dv := v - s.B
		if math32.Max(math32.Abs(du), math32.Abs(dv)) > s.D {
			return false
		}
		const invSqrt2 = 0.70710678
		return math32.Abs(du-dv)*invSqrt2 <= s.C || math32.Abs(du+dv)*invSqrt2 <= s.C
	}
	return false
}

// Contains reports whether any shape in the set covers uv.
func (g GlyphSet) Contains(uv mgl32.Vec2) bool {
	for _, s := range g {
		if s.Contains(uv) {
			return true
		}
	}
	return false
}

// LogoGlyphs is the ringed-planet mark drawn in logo mode: a ring crossed by an orbit band,
// two satellites, and three uprights underneath.
func LogoGlyphs() GlyphSet {
	return GlyphSet{
		{Kind: ShapeAnnulus, A: 0.5, B: 0.56, C: 0.045, D: 0.065},
		{Kind: ShapeBand, A: 0.40, B: 0.60, C: 0.553, D: 0.567},
		{Kind: ShapeAnnulus, A: 0.385, B: 0.56, C: 0, D: 0.014},
		{Kind: ShapeAnnulus, A: 0.615, B: 0.56, C: 0, D: 0.014},
		{Kind: ShapeBand, A: 0.445, B: 0.46, C: 0.40, D: 0.47},
		{Kind: ShapeBand, A: 0.4925, B: 0.5075, C: 0.38, D: 0.47},
		{Kind: ShapeBand, A: 0.54, B: 0.555, C: 0.40, D: 0.47},
	}
}

// CrossGlyphs is the single diagonal cross used by the alternate glyph mode.
func CrossGlyphs() GlyphSet {
	return GlyphSet{
		{Kind: ShapeDiagonal, A: 0.5, B: 0.5, C: 0.012, D: 0.14},
	}
}
