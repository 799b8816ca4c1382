package gpu

import (
	"encoding/binary"
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// MeshVertex is one sphere vertex: unit position and normal.
type MeshVertex struct {
	Pos    mgl32.Vec3
	Normal mgl32.Vec3
}

// MeshVertexStride is the byte size of MeshVertex on the GPU.
const MeshVertexStride = 24

// SphereMesh builds a unit UV sphere with counter-clockwise outward faces.
func SphereMesh(rings, segments int) ([]MeshVertex, []uint32) {
	rings = max(rings, 2)
	segments = max(segments, 3)

	verts := make([]MeshVertex, 0, (rings+1)*(segments+1))
	for r := 0; r <= rings; r++ {
		theta := float32(r) / float32(rings) * math32.Pi
		st, ct := math32.Sincos(theta)
		for s := 0; s <= segments; s++ {
			phi := float32(s) / float32(segments) * 2 * math32.Pi
			sp, cp := math32.Sincos(phi)
			n := mgl32.Vec3{st * cp, st * sp, ct}
			verts = append(verts, MeshVertex{Pos: n, Normal: n})
		}
	}

	idx := make([]uint32, 0, rings*segments*6)
	row := uint32(segments + 1)
	for r := 0; r < rings; r++ {
		for s := 0; s < segments; s++ {
			a := uint32(r)*row + uint32(s)
			b := a + row
			if r != 0 {
				idx = append(idx, a, b, a+1)
			}
			if r != rings-1 {
				idx = append(idx, a+1, b, b+1)
			}
		}
	}
	return verts, idx
}

// EncodeMesh packs vertices and indices for upload.
func EncodeMesh(verts []MeshVertex, idx []uint32) (vb, ib []byte) {
	vb = make([]byte, len(verts)*MeshVertexStride)
	for i, v := range verts {
		off := i * MeshVertexStride
		for k := 0; k < 3; k++ {
			binary.LittleEndian.PutUint32(vb[off+k*4:], math.Float32bits(v.Pos[k]))
			binary.LittleEndian.PutUint32(vb[off+12+k*4:], math.Float32bits(v.Normal[k]))
		}
	}
	ib = make([]byte, len(idx)*4)
	for i, x := range idx {
		binary.LittleEndian.PutUint32(ib[i*4:], x)
	}
	return vb, ib
}
