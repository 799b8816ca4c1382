package orbit

import (
	"context"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/sync/errgroup"
)

const twoPi = 2 * math32.Pi

// OrbitalElement is the static per-body state uploaded once at startup.
type OrbitalElement struct {
	RAAN             float32 // [0, 2pi)
	Inclination      float32 // [0, pi]
	MeanAnomalyEpoch float32 // [0, 2pi)
	Shell            ShellTag
}

// BodyPosition is the per-frame propagated state of one body.
type BodyPosition struct {
	Position mgl32.Vec3
	Shell    ShellTag
}

// MeanAnomaly returns the phase at time t wrapped to [0, 2pi).
// The kernel performs the same wrap before taking sin/cos.
func MeanAnomaly(e OrbitalElement, s Shell, t float32) float32 {
	m := e.MeanAnomalyEpoch + s.MeanMotion*t
	return m - twoPi*math32.Floor(m/twoPi)
}

// Propagate evaluates the circular-orbit position and velocity of e at time t (seconds).
// Eccentricity is zero by construction: no Kepler solve.
func Propagate(e OrbitalElement, shells ShellTable, t float32) (pos, vel mgl32.Vec3) {
	s := shells.Shell(e.Shell)
	m := MeanAnomaly(e, s, t)

	sm, cm := math32.Sincos(m)
	si, ci := math32.Sincos(e.Inclination)
	so, co := math32.Sincos(e.RAAN)

	pos = rotate(s.Radius*cm, s.Radius*sm, ci, si, co, so)
	v := s.Radius * s.MeanMotion
	vel = rotate(-v*sm, v*cm, ci, si, co, so)
	return pos, vel
}

// rotate takes an in-plane vector through inclination (about X) then RAAN (about Z).
func rotate(x, y, ci, si, co, so float32) mgl32.Vec3 {
	yi := y * ci
	zi := y * si
	return mgl32.Vec3{
		x*co - yi*so,
		x*so + yi*co,
		zi,
	}
}

// PropagateAll is the host mirror of the propagation kernel. It fills dst (len(dst) must
// equal len(elements)) using up to workers goroutines. Lanes never read each other.
func PropagateAll(ctx context.Context, elements []OrbitalElement, shells ShellTable, t float32, dst []BodyPosition, workers int) error {
	if len(dst) < len(elements) {
		return ErrShortBuffer
	}
	return parallelChunks(ctx, len(elements), workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			p, _ := Propagate(elements[i], shells, t)
			dst[i] = BodyPosition{Position: p, Shell: elements[i].Shell}
		}
	})
}

// parallelChunks splits [0,n) into contiguous ranges and runs fn on each.
func parallelChunks(ctx context.Context, n, workers int, fn func(lo, hi int)) error {
	if workers < 1 {
		workers = 1
	}
	chunk := (n + workers - 1) / workers
	if chunk == 0 {
		return nil
	}
	g, ctx := errgroup.WithContext(ctx)
	for lo := 0; lo < n; lo += chunk {
		lo, hi := lo, min(lo+chunk, n)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(lo, hi)
			return nil
		})
	}
	return g.Wait()
}
