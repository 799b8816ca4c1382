package orbit

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// EarthRadius is the central body radius in kilometers. One world unit is one kilometer.
	EarthRadius = 6371.0
	// EarthMu is the standard gravitational parameter in km^3/s^2.
	EarthMu = 398600.4418
)

// ShellTag identifies the altitude band a body belongs to.
type ShellTag uint8

const (
	ShellLow ShellTag = iota
	ShellMid
	ShellHigh
)

// ShellCount is the number of entries in a ShellTable.
const ShellCount = 3

func (t ShellTag) String() string {
	switch t {
	case ShellLow:
		return "low"
	case ShellMid:
		return "mid"
	case ShellHigh:
		return "high"
	}
	return "unknown"
}

// Shell holds the per-band orbital and appearance parameters.
type Shell struct {
	Tag         ShellTag
	Altitude    float32 // km above the central body surface
	Radius      float32 // km from the body center
	MeanMotion  float32 // rad/s
	Inclination float32 // base inclination in radians, before per-plane jitter
	Weight      float32 // relative probability of a plane landing in this shell
	Color       mgl32.Vec3
	PulseFreq   float32 // rad/s, each shell gets its own band
	PulseDepth  float32 // 0..1 modulation depth
}

// Period returns the orbital period in seconds.
func (s Shell) Period() float32 {
	if s.MeanMotion == 0 {
		return 0
	}
	return float32(2 * math.Pi / float64(s.MeanMotion))
}

// ShellTable is the immutable shell configuration passed to propagation, beams and the GPU.
// It is a value type; copies never alias.
type ShellTable struct {
	BodyRadius float32
	Shells     [ShellCount]Shell
}

// NewShell derives radius and circular mean motion from an altitude.
func NewShell(tag ShellTag, bodyRadius, altitude, inclinationDeg, weight float32, color mgl32.Vec3, pulseFreq, pulseDepth float32) Shell {
	r := float64(bodyRadius + altitude)
	return Shell{
		Tag:         tag,
		Altitude:    altitude,
		Radius:      float32(r),
		MeanMotion:  float32(math.Sqrt(EarthMu / (r * r * r))),
		Inclination: mgl32.DegToRad(inclinationDeg),
		Weight:      weight,
		Color:       color,
		PulseFreq:   pulseFreq,
		PulseDepth:  pulseDepth,
	}
}

// DefaultShellTable returns the three-shell layout used by the viewer.
func DefaultShellTable() ShellTable {
	const r = float32(EarthRadius)
	return ShellTable{
		BodyRadius: r,
		Shells: [ShellCount]Shell{
			NewShell(ShellLow, r, 550, 53.0, 0.3, mgl32.Vec3{1.0, 0.85, 0.55}, 0.9, 0.35),
			NewShell(ShellMid, r, 1110, 70.0, 0.5, mgl32.Vec3{0.55, 0.8, 1.0}, 2.3, 0.25),
			NewShell(ShellHigh, r, 1325, 97.6, 0.2, mgl32.Vec3{0.85, 0.6, 1.0}, 5.1, 0.45),
		},
	}
}

// Shell returns the entry for tag. Out-of-range tags fall back to the first shell,
// matching the kernel's clamp.
func (t ShellTable) Shell(tag ShellTag) Shell {
	if int(tag) >= ShellCount {
		return t.Shells[0]
	}
	return t.Shells[tag]
}

// MaxRadius returns the largest shell radius.
func (t ShellTable) MaxRadius() float32 {
	var m float32
	for _, s := range t.Shells {
		if s.Radius > m {
			m = s.Radius
		}
	}
	return m
}

// pick maps u in [0,1) to a shell using the cumulative weights.
func (t ShellTable) pick(u float32) ShellTag {
	var total float32
	for _, s := range t.Shells {
		total += s.Weight
	}
	if total <= 0 {
		return ShellLow
	}
	acc := float32(0)
	for i, s := range t.Shells {
		acc += s.Weight / total
		if u < acc {
			return ShellTag(i)
		}
	}
	return ShellTag(ShellCount - 1)
}
