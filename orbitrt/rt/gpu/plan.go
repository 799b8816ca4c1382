package gpu

import (
	"fmt"

	"github.com/skyweave/constellation/orbitrt/rt/core"
)

// PassID names one kernel dispatch or draw in a frame.
type PassID int

const (
	PassPropagate PassID = iota
	PassBeams
	PassBackground
	PassGroundBackdrop
	PassPlanet
	PassAtmosphere
	PassBillboards
	PassBeamRibbons
	PassBloomThreshold
	PassBlurH
	PassBlurV
	PassTonemap
	PassOverlay
	passCount
)

var passNames = [passCount]string{
	"propagate", "beams", "background", "ground", "planet", "atmosphere",
	"billboards", "beam-ribbons", "bloom-threshold", "blur-h", "blur-v", "tonemap", "overlay",
}

func (p PassID) String() string {
	if p < 0 || p >= passCount {
		return fmt.Sprintf("pass(%d)", int(p))
	}
	return passNames[p]
}

// PassKind says which attachment set a pass encodes into.
type PassKind int

const (
	KindCompute PassKind = iota
	KindScene            // HDR color + depth
	KindPost             // one bloom target, fullscreen
	KindSurface          // swapchain image
)

// Kind returns where p writes.
func (p PassID) Kind() PassKind {
	switch p {
	case PassPropagate, PassBeams:
		return KindCompute
	case PassBloomThreshold, PassBlurH, PassBlurV:
		return KindPost
	case PassTonemap, PassOverlay:
		return KindSurface
	}
	return KindScene
}

// PlanOptions toggles the optional parts of a frame.
type PlanOptions struct {
	Beams   bool
	Overlay bool
}

// PlanFrame returns the ordered pass list for a view mode. Ground mode swaps the planet
// and atmosphere meshes for the procedural backdrop since its camera sits inside them.
func PlanFrame(mode core.ViewMode, opts PlanOptions) []PassID {
	plan := make([]PassID, 0, passCount)
	plan = append(plan, PassPropagate)
	if opts.Beams {
		plan = append(plan, PassBeams)
	}
	if mode == core.ViewGround {
		plan = append(plan, PassGroundBackdrop)
	} else {
		plan = append(plan, PassBackground, PassPlanet, PassAtmosphere)
	}
	plan = append(plan, PassBillboards)
	if opts.Beams {
		plan = append(plan, PassBeamRibbons)
	}
	plan = append(plan, PassBloomThreshold, PassBlurH, PassBlurV, PassTonemap)
	if opts.Overlay {
		plan = append(plan, PassOverlay)
	}
	return plan
}

// Stage is a run of passes encoded into one compute or render pass.
type Stage struct {
	Kind   PassKind
	Passes []PassID
}

// Stages groups a plan into encoder passes. Consecutive compute, scene and surface passes
// share one encoder pass; every post pass gets its own since each changes target.
func Stages(plan []PassID) []Stage {
	var out []Stage
	for _, p := range plan {
		k := p.Kind()
		if n := len(out); n > 0 && out[n-1].Kind == k && k != KindPost {
			out[n-1].Passes = append(out[n-1].Passes, p)
			continue
		}
		out = append(out, Stage{Kind: k, Passes: []PassID{p}})
	}
	return out
}

// ValidatePlan checks the ordering every frame relies on: propagation first, nothing
// reading beams before the beam kernel, bloom stages in order, and the tonemap pass as
// the only writer of the surface apart from the trailing overlay.
func ValidatePlan(plan []PassID) error {
	if len(plan) == 0 || plan[0] != PassPropagate {
		return fmt.Errorf("plan must start with %s", PassPropagate)
	}
	seen := make(map[PassID]int, len(plan))
	for i, p := range plan {
		if _, dup := seen[p]; dup {
			return fmt.Errorf("pass %s appears twice", p)
		}
		seen[p] = i
	}
	if i, ok := seen[PassBeamRibbons]; ok {
		if j, ok := seen[PassBeams]; !ok || j > i {
			return fmt.Errorf("%s requires an earlier %s", PassBeamRibbons, PassBeams)
		}
	}
	_, ground := seen[PassGroundBackdrop]
	_, planet := seen[PassPlanet]
	if ground && planet {
		return fmt.Errorf("%s and %s are exclusive", PassGroundBackdrop, PassPlanet)
	}
	order := []PassID{PassBillboards, PassBloomThreshold, PassBlurH, PassBlurV, PassTonemap}
	last := -1
	for _, p := range order {
		i, ok := seen[p]
		if !ok {
			return fmt.Errorf("plan is missing %s", p)
		}
		if i < last {
			return fmt.Errorf("%s is out of order", p)
		}
		last = i
	}
	for i, p := range plan[last+1:] {
		if p != PassOverlay || i != 0 {
			return fmt.Errorf("%s follows %s", p, PassTonemap)
		}
	}
	return nil
}
