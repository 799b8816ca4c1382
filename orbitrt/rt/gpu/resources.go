package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Binder is the part of a compute or render pass encoder that takes bind groups.
type Binder interface {
	SetBindGroup(groupIndex uint32, group *wgpu.BindGroup, dynamicOffsets []uint32)
}

// ResourceKey selects the bind groups for one pass. Variant distinguishes passes whose
// inputs depend on ping-pong state; it is the read index of the bloom pair.
type ResourceKey struct {
	Pass    PassID
	Variant int
}

// ResourceSet maps passes to the bind groups they need, group index = slice index.
// A set is built whole against one set of render targets and pipelines and replaced
// whole on resize or reload.
type ResourceSet struct {
	groups map[ResourceKey][]*wgpu.BindGroup
}

func NewResourceSet() *ResourceSet {
	return &ResourceSet{groups: make(map[ResourceKey][]*wgpu.BindGroup)}
}

// Set records the groups for a pass variant, replacing any previous entry.
func (s *ResourceSet) Set(pass PassID, variant int, groups ...*wgpu.BindGroup) {
	s.groups[ResourceKey{Pass: pass, Variant: variant}] = groups
}

// Groups returns the bind groups for a pass variant.
func (s *ResourceSet) Groups(pass PassID, variant int) ([]*wgpu.BindGroup, bool) {
	g, ok := s.groups[ResourceKey{Pass: pass, Variant: variant}]
	return g, ok
}

// Bind sets every group for the pass on b.
func (s *ResourceSet) Bind(b Binder, pass PassID, variant int) error {
	g, ok := s.Groups(pass, variant)
	if !ok {
		return fmt.Errorf("no resources for %s variant %d", pass, variant)
	}
	for i, bg := range g {
		b.SetBindGroup(uint32(i), bg, nil)
	}
	return nil
}

// Len returns the number of pass variants in the set.
func (s *ResourceSet) Len() int {
	return len(s.groups)
}

// Release frees every bind group. Groups shared between keys are released once.
func (s *ResourceSet) Release() {
	if s == nil {
		return
	}
	seen := make(map[*wgpu.BindGroup]bool)
	for k, g := range s.groups {
		for _, bg := range g {
			if bg != nil && !seen[bg] {
				seen[bg] = true
				bg.Release()
			}
		}
		delete(s.groups, k)
	}
}
