package orbit

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrInvalidLayout = errors.New("orbit: invalid constellation layout")
	ErrShortBuffer   = errors.New("orbit: destination buffer too small")
)

// GeneratorConfig controls the one-time constellation build.
type GeneratorConfig struct {
	Bodies            int
	Planes            int
	Seed              int64
	InclinationJitter float32 // max absolute jitter in radians
	Phasing           float32 // Walker-style inter-plane phase factor
	Workers           int
}

// DefaultGeneratorConfig returns 2^20 bodies in 1024 planes of 1024.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Bodies:            1 << 20,
		Planes:            1024,
		Seed:              42,
		InclinationJitter: mgl32.DegToRad(0.6),
		Phasing:           1,
		Workers:           runtime.NumCPU(),
	}
}

// Constellation is the immutable generated body set plus the shells it was built for.
// It answers body tracker queries with the kernel's formula.
type Constellation struct {
	Elements []OrbitalElement
	Shells   ShellTable
	Planes   int
	PerPlane int
}

// Len returns the body count.
func (c *Constellation) Len() int {
	return len(c.Elements)
}

// BodyState returns the position and velocity of body i at time t.
func (c *Constellation) BodyState(i int, t float32) (pos, vel mgl32.Vec3, ok bool) {
	if i < 0 || i >= len(c.Elements) {
		return mgl32.Vec3{}, mgl32.Vec3{}, false
	}
	pos, vel = Propagate(c.Elements[i], c.Shells, t)
	return pos, vel, true
}

// ShellCounts returns how many bodies landed in each shell.
func (c *Constellation) ShellCounts() [ShellCount]int {
	var counts [ShellCount]int
	for _, e := range c.Elements {
		if int(e.Shell) < ShellCount {
			counts[e.Shell]++
		}
	}
	return counts
}

// Generate builds the constellation: planes evenly spread in RAAN, each plane drawn into a
// shell by weight with a jittered inclination, bodies evenly phased within their plane.
// Plane parameters come from a single seeded source so the result is reproducible; the
// per-body fill runs in parallel.
func Generate(ctx context.Context, shells ShellTable, cfg GeneratorConfig) (*Constellation, error) {
	if cfg.Bodies <= 0 || cfg.Planes <= 0 {
		return nil, fmt.Errorf("%w: bodies=%d planes=%d", ErrInvalidLayout, cfg.Bodies, cfg.Planes)
	}
	if cfg.Bodies%cfg.Planes != 0 {
		return nil, fmt.Errorf("%w: %d bodies do not divide into %d planes", ErrInvalidLayout, cfg.Bodies, cfg.Planes)
	}
	perPlane := cfg.Bodies / cfg.Planes

	type plane struct {
		raan  float32
		incl  float32
		shell ShellTag
		phase float32
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	planes := make([]plane, cfg.Planes)
	for p := range planes {
		tag := shells.pick(rng.Float32())
		jitter := (rng.Float32()*2 - 1) * cfg.InclinationJitter
		incl := mgl32.Clamp(shells.Shell(tag).Inclination+jitter, 0, twoPi/2)
		planes[p] = plane{
			raan:  twoPi * float32(p) / float32(cfg.Planes),
			incl:  incl,
			shell: tag,
			phase: cfg.Phasing * twoPi * float32(p) / float32(cfg.Bodies),
		}
	}

	elements := make([]OrbitalElement, cfg.Bodies)
	err := parallelChunks(ctx, cfg.Planes, cfg.Workers, func(lo, hi int) {
		for p := lo; p < hi; p++ {
			pl := planes[p]
			base := p * perPlane
			for s := 0; s < perPlane; s++ {
				m := pl.phase + twoPi*float32(s)/float32(perPlane)
				if m >= twoPi {
					m -= twoPi
				}
				elements[base+s] = OrbitalElement{
					RAAN:             pl.raan,
					Inclination:      pl.incl,
					MeanAnomalyEpoch: m,
					Shell:            pl.shell,
				}
			}
		}
	})
	if err != nil {
		return nil, err
	}

	return &Constellation{
		Elements: elements,
		Shells:   shells,
		Planes:   cfg.Planes,
		PerPlane: perPlane,
	}, nil
}
