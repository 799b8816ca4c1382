package orbit

import (
	"context"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleElements() []OrbitalElement {
	return []OrbitalElement{
		{RAAN: 0, Inclination: 0, MeanAnomalyEpoch: 0, Shell: ShellLow},
		{RAAN: 1.2, Inclination: mgl32.DegToRad(53), MeanAnomalyEpoch: 0.4, Shell: ShellLow},
		{RAAN: 3.9, Inclination: mgl32.DegToRad(70), MeanAnomalyEpoch: 5.1, Shell: ShellMid},
		{RAAN: 6.1, Inclination: mgl32.DegToRad(97.6), MeanAnomalyEpoch: 2.2, Shell: ShellHigh},
		{RAAN: 2.0, Inclination: mgl32.DegToRad(180), MeanAnomalyEpoch: 3.0, Shell: ShellHigh},
	}
}

func TestPropagate_StaysOnShellRadius(t *testing.T) {
	shells := DefaultShellTable()
	for _, e := range sampleElements() {
		r := shells.Shell(e.Shell).Radius
		for _, tm := range []float32{0, 1, 37.5, 600, 5400, 86400} {
			pos, _ := Propagate(e, shells, tm)
			assert.InDelta(t, r, pos.Len(), 0.05, "shell %s at t=%v", e.Shell, tm)
		}
	}
}

func TestPropagate_Periodic(t *testing.T) {
	shells := DefaultShellTable()
	for _, e := range sampleElements() {
		period := shells.Shell(e.Shell).Period()
		require.Greater(t, period, float32(0))

		a, _ := Propagate(e, shells, 1234.5)
		b, _ := Propagate(e, shells, 1234.5+period)
		assert.InDelta(t, 0, a.Sub(b).Len(), 0.1, "shell %s", e.Shell)
	}
}

func TestPropagate_EquatorialReference(t *testing.T) {
	shells := DefaultShellTable()
	e := OrbitalElement{Shell: ShellLow}
	pos, vel := Propagate(e, shells, 0)

	r := shells.Shells[ShellLow].Radius
	assert.InDelta(t, r, pos.X(), 1e-3)
	assert.InDelta(t, 0, pos.Y(), 1e-3)
	assert.InDelta(t, 0, pos.Z(), 1e-3)
	// Prograde equatorial orbit moves toward +Y.
	assert.Greater(t, vel.Y(), float32(0))
}

func TestPropagate_VelocityTangent(t *testing.T) {
	shells := DefaultShellTable()
	for _, e := range sampleElements() {
		pos, vel := Propagate(e, shells, 321)
		s := shells.Shell(e.Shell)
		assert.InDelta(t, 0, pos.Normalize().Dot(vel.Normalize()), 1e-4)
		assert.InDelta(t, s.Radius*s.MeanMotion, vel.Len(), 1e-3)
	}
}

func TestPropagate_SyntheticShells(t *testing.T) {
	shells := ShellTable{BodyRadius: 1}
	for i := range shells.Shells {
		shells.Shells[i] = Shell{Tag: ShellTag(i), Radius: float32(i + 2), MeanMotion: 0.5}
	}
	e := OrbitalElement{Shell: ShellHigh}
	pos, _ := Propagate(e, shells, 0)
	assert.InDelta(t, 4, pos.Len(), 1e-5)

	// Out of range tags use the first shell.
	pos, _ = Propagate(OrbitalElement{Shell: 9}, shells, 0)
	assert.InDelta(t, 2, pos.Len(), 1e-5)
}

func TestPropagateAll_MatchesSingleLane(t *testing.T) {
	shells := DefaultShellTable()
	elems := sampleElements()
	dst := make([]BodyPosition, len(elems))

	require.NoError(t, PropagateAll(context.Background(), elems, shells, 99, dst, 3))
	for i, e := range elems {
		want, _ := Propagate(e, shells, 99)
		assert.Equal(t, want, dst[i].Position)
		assert.Equal(t, e.Shell, dst[i].Shell)
	}
}

func TestPropagateAll_ShortBuffer(t *testing.T) {
	err := PropagateAll(context.Background(), sampleElements(), DefaultShellTable(), 0, make([]BodyPosition, 1), 2)
	assert.ErrorIs(t, err, ErrShortBuffer)
}

func TestPropagateAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	elems := sampleElements()
	err := PropagateAll(ctx, elems, DefaultShellTable(), 0, make([]BodyPosition, len(elems)), 2)
	assert.ErrorIs(t, err, context.Canceled)
}
