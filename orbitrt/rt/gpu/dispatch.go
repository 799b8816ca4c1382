package gpu

// WorkgroupSize matches @workgroup_size in the compute kernels.
const WorkgroupSize = 256

// DefaultMaxWorkgroupsPerDimension is the WebGPU baseline limit.
const DefaultMaxWorkgroupsPerDimension = 65535

// DispatchSize returns the workgroup grid covering n lanes. Grids that would exceed
// maxPerDim in x are folded into y; kernels recover the lane as
// gid.x + gid.y * num_workgroups.x * WorkgroupSize and skip lanes past n.
func DispatchSize(n int, maxPerDim uint32) (x, y uint32) {
	if n <= 0 {
		return 0, 1
	}
	if maxPerDim == 0 {
		maxPerDim = DefaultMaxWorkgroupsPerDimension
	}
	groups := (uint64(n) + WorkgroupSize - 1) / WorkgroupSize
	if groups <= uint64(maxPerDim) {
		return uint32(groups), 1
	}
	rows := (groups + uint64(maxPerDim) - 1) / uint64(maxPerDim)
	cols := (groups + rows - 1) / rows
	return uint32(cols), uint32(rows)
}
