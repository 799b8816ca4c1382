package gpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSphereMeshCounts(t *testing.T) {
	verts, idx := SphereMesh(8, 16)
	assert.Len(t, verts, 9*17)
	// Pole rows emit one triangle per segment, every other row two.
	assert.Len(t, idx, 3*16*(2*8-2))
	for _, i := range idx {
		require.Less(t, int(i), len(verts))
	}
}

func TestSphereMeshUnitAndOutward(t *testing.T) {
	verts, idx := SphereMesh(12, 24)
	for _, v := range verts {
		assert.InDelta(t, 1, v.Pos.Len(), 1e-5)
		assert.Equal(t, v.Pos, v.Normal)
	}
	for i := 0; i < len(idx); i += 3 {
		a, b, c := verts[idx[i]].Pos, verts[idx[i+1]].Pos, verts[idx[i+2]].Pos
		n := b.Sub(a).Cross(c.Sub(a))
		if n.Len() < 1e-9 {
			continue
		}
		centroid := a.Add(b).Add(c)
		assert.Greater(t, n.Dot(centroid), float32(0), "triangle %d winds inward", i/3)
	}
}

func TestSphereMeshMinimums(t *testing.T) {
	verts, idx := SphereMesh(0, 0)
	assert.Len(t, verts, 3*4)
	assert.NotEmpty(t, idx)
}

func TestEncodeMesh(t *testing.T) {
	verts, idx := SphereMesh(4, 4)
	vb, ib := EncodeMesh(verts, idx)
	assert.Len(t, vb, len(verts)*MeshVertexStride)
	assert.Len(t, ib, len(idx)*4)
	assert.Equal(t, verts[7].Normal[2], f32At(vb, 7*MeshVertexStride+20))
	assert.Equal(t, idx[5], u32At(ib, 20))
}
