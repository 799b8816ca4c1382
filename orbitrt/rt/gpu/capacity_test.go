package gpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baselineLimits = Limits{
	MaxBufferSize:                    256 << 20,
	MaxStorageBufferBindingSize:      128 << 20,
	MaxComputeWorkgroupsPerDimension: 65535,
}

func TestValidateCapacityFits(t *testing.T) {
	require.NoError(t, ValidateCapacity(Requirements{Bodies: 1 << 20, Beams: 1 << 16}, baselineLimits))
}

func TestValidateCapacityStorageBinding(t *testing.T) {
	// 2^23 bodies at 16 bytes each is exactly 128 MiB; one more plane tips it over.
	require.NoError(t, ValidateCapacity(Requirements{Bodies: 1 << 23}, baselineLimits))

	err := ValidateCapacity(Requirements{Bodies: 1<<23 + 1}, baselineLimits)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCapacity)
	assert.Contains(t, err.Error(), "positions")
	assert.Contains(t, err.Error(), "storage binding")
}

func TestValidateCapacityBufferSize(t *testing.T) {
	l := baselineLimits
	l.MaxBufferSize = 1 << 20
	err := ValidateCapacity(Requirements{Bodies: 1 << 20}, l)
	assert.ErrorIs(t, err, ErrCapacity)
	assert.Contains(t, err.Error(), "max buffer size")
}

func TestValidateCapacityWorkgroupGrid(t *testing.T) {
	l := Limits{MaxComputeWorkgroupsPerDimension: 4}
	err := ValidateCapacity(Requirements{Bodies: 4*4*WorkgroupSize + 1}, l)
	assert.ErrorIs(t, err, ErrCapacity)
	assert.NoError(t, ValidateCapacity(Requirements{Bodies: 4 * 4 * WorkgroupSize}, l))
}

func TestValidateCapacityNoBodies(t *testing.T) {
	assert.ErrorIs(t, ValidateCapacity(Requirements{}, baselineLimits), ErrCapacity)
}

func TestStorageBuffers(t *testing.T) {
	bufs := Requirements{Bodies: 10, Beams: 0}.StorageBuffers()
	require.Len(t, bufs, 3)
	assert.Equal(t, uint64(160), bufs[0].Size)
	assert.Equal(t, uint64(BeamStride), bufs[2].Size, "beam buffer keeps one slot")
}
