package app

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/skyweave/constellation/orbitrt/rt/core"
	"github.com/skyweave/constellation/orbitrt/rt/gpu"
	"github.com/skyweave/constellation/orbitrt/rt/orbit"
)

var ErrInvalidConfig = errors.New("app: invalid config")

// Config is everything the viewer reads at startup.
type Config struct {
	Width, Height int
	Title         string

	Bodies int
	Planes int
	Seed   int64

	Mode       core.ViewMode
	TimeScale  float64
	Beams      bool
	BeamStride int
	Pattern    orbit.PatternMode

	ShaderDir string
	Debug     bool
	Overlay   bool
	Workers   int

	Visibility       core.VisibilityParams
	Post             gpu.PostParams
	AtmosphereScale  float32 // atmosphere radius / body radius
	BeamWidth        float32 // km
	VisibleRefresh   time.Duration
	LogThrottle      time.Duration
	OverlayTextScale float32
}

func DefaultConfig() Config {
	return Config{
		Width:            1600,
		Height:           900,
		Title:            "Constellation",
		Bodies:           1 << 20,
		Planes:           1024,
		Seed:             42,
		Mode:             core.ViewFreeOrbit,
		TimeScale:        60,
		Beams:            true,
		BeamStride:       16,
		Pattern:          orbit.PatternChaos,
		Workers:          runtime.NumCPU(),
		Visibility:       core.DefaultVisibilityParams(orbit.EarthRadius),
		Post:             gpu.DefaultPostParams(),
		AtmosphereScale:  1.025,
		BeamWidth:        1.5,
		VisibleRefresh:   500 * time.Millisecond,
		LogThrottle:      2 * time.Second,
		OverlayTextScale: 1,
	}
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.Width <= 0 || c.Height <= 0 {
		bad("window size %dx%d", c.Width, c.Height)
	}
	if c.Bodies <= 0 || c.Bodies&(c.Bodies-1) != 0 {
		bad("bodies=%d is not a power of two", c.Bodies)
	}
	if c.Planes <= 0 || (c.Bodies > 0 && c.Bodies%c.Planes != 0) {
		bad("planes=%d does not divide bodies=%d", c.Planes, c.Bodies)
	}
	if c.Mode >= core.ViewModeCount {
		bad("view mode %d", c.Mode)
	}
	if c.TimeScale <= 0 {
		bad("time scale %g", c.TimeScale)
	}
	if c.BeamStride <= 0 {
		bad("beam stride %d", c.BeamStride)
	}
	if c.Pattern > orbit.PatternCross {
		bad("beam pattern %d", c.Pattern)
	}

	v := c.Visibility
	if v.FrustumMargin < 0 || v.HorizonMargin < 0 {
		bad("culling margins must not be negative")
	}
	for m, d := range v.MaxDistance {
		if d <= 0 {
			bad("max distance for %s is %g", core.ViewMode(m), d)
		}
	}
	if v.SizeScale <= 0 || v.MinSize <= 0 || v.MaxSize < v.MinSize {
		bad("billboard size scale=%g min=%g max=%g", v.SizeScale, v.MinSize, v.MaxSize)
	}
	if v.Attenuation <= 0 {
		bad("attenuation %g", v.Attenuation)
	}

	p := c.Post
	if p.Threshold < 0 || p.Knee <= 0 || p.Intensity < 0 || p.Exposure <= 0 {
		bad("bloom threshold=%g knee=%g intensity=%g exposure=%g", p.Threshold, p.Knee, p.Intensity, p.Exposure)
	}
	if c.AtmosphereScale <= 1 {
		bad("atmosphere scale %g must exceed 1", c.AtmosphereScale)
	}
	if c.BeamWidth <= 0 {
		bad("beam width %g", c.BeamWidth)
	}
	return errors.Join(errs...)
}

// GeneratorConfig derives the constellation layout.
func (c Config) GeneratorConfig() orbit.GeneratorConfig {
	g := orbit.DefaultGeneratorConfig()
	g.Bodies = c.Bodies
	g.Planes = c.Planes
	g.Seed = c.Seed
	g.Workers = max(c.Workers, 1)
	return g
}

// BeamParams derives the beam kernel parameters.
func (c Config) BeamParams() orbit.BeamParams {
	p := orbit.DefaultBeamParams(c.Bodies)
	p.Stride = c.BeamStride
	p.MaxBeams = orbit.EnabledBeams(c.Bodies, c.BeamStride)
	p.Mode = c.Pattern
	p.BodyRadius = c.Visibility.BodyRadius
	return p
}
