package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ExtractFrustum returns the 6 inward-facing planes of a view-projection matrix with clip
// depth in [0, 1], in order: Left, Right, Bottom, Top, Near, Far. Plane is Ax + By + Cz + D = 0
// with (A, B, C) normalized, so D-offset comparisons are in world units.
func ExtractFrustum(vp mgl32.Mat4) [6]mgl32.Vec4 {
	r0, r1, r2, r3 := vp.Rows()

	planes := [6]mgl32.Vec4{
		r3.Add(r0), // left
		r3.Sub(r0), // right
		r3.Add(r1), // bottom
		r3.Sub(r1), // top
		r2,         // near: z >= 0
		r3.Sub(r2), // far: z <= w
	}

	for i := range planes {
		length := planes[i].Vec3().Len()
		if length > 0 {
			planes[i] = planes[i].Mul(1 / length)
		}
	}
	return planes
}

// PlaneDistance is the signed distance of p from a normalized plane, positive inside.
func PlaneDistance(plane mgl32.Vec4, p mgl32.Vec3) float32 {
	return plane.Vec3().Dot(p) + plane[3]
}

// PointInFrustum reports whether p lies inside every plane, allowing margin units outside.
func PointInFrustum(p mgl32.Vec3, planes [6]mgl32.Vec4, margin float32) bool {
	for _, plane := range planes {
		if PlaneDistance(plane, p) < -margin {
			return false
		}
	}
	return true
}
