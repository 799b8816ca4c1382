package gpu

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

var ErrCapacity = errors.New("gpu: capacity exceeded")

// Limits is the subset of adapter limits the renderer depends on.
type Limits struct {
	MaxBufferSize                    uint64
	MaxStorageBufferBindingSize      uint64
	MaxComputeWorkgroupsPerDimension uint32
}

// LimitsFrom copies the relevant adapter limits.
func LimitsFrom(l wgpu.Limits) Limits {
	return Limits{
		MaxBufferSize:                    l.MaxBufferSize,
		MaxStorageBufferBindingSize:      l.MaxStorageBufferBindingSize,
		MaxComputeWorkgroupsPerDimension: l.MaxComputeWorkgroupsPerDimension,
	}
}

// Requirements describes a constellation's buffer footprint.
type Requirements struct {
	Bodies int
	Beams  int
}

// BufferRequirement is one storage buffer the renderer will allocate.
type BufferRequirement struct {
	Name string
	Size uint64
}

// StorageBuffers lists the per-body and per-beam storage buffers.
func (r Requirements) StorageBuffers() []BufferRequirement {
	return []BufferRequirement{
		{Name: "orbital state", Size: uint64(r.Bodies) * ElementStride},
		{Name: "positions", Size: uint64(r.Bodies) * PositionStride},
		{Name: "beams", Size: uint64(max(r.Beams, 1)) * BeamStride},
	}
}

// ValidateCapacity reports every buffer that would not fit the adapter, before any
// allocation is attempted.
func ValidateCapacity(r Requirements, l Limits) error {
	if r.Bodies <= 0 {
		return fmt.Errorf("%w: no bodies", ErrCapacity)
	}
	var errs []error
	for _, b := range r.StorageBuffers() {
		if l.MaxBufferSize > 0 && b.Size > l.MaxBufferSize {
			errs = append(errs, fmt.Errorf("%w: %s buffer needs %d bytes, adapter max buffer size is %d",
				ErrCapacity, b.Name, b.Size, l.MaxBufferSize))
		}
		if l.MaxStorageBufferBindingSize > 0 && b.Size > l.MaxStorageBufferBindingSize {
			errs = append(errs, fmt.Errorf("%w: %s buffer needs %d bytes, adapter storage binding limit is %d",
				ErrCapacity, b.Name, b.Size, l.MaxStorageBufferBindingSize))
		}
	}
	maxDim := l.MaxComputeWorkgroupsPerDimension
	if maxDim == 0 {
		maxDim = DefaultMaxWorkgroupsPerDimension
	}
	for _, n := range []int{r.Bodies, r.Beams} {
		if _, y := DispatchSize(n, maxDim); y > maxDim {
			errs = append(errs, fmt.Errorf("%w: %d lanes exceed a %dx%d workgroup grid", ErrCapacity, n, maxDim, maxDim))
		}
	}
	return errors.Join(errs...)
}
