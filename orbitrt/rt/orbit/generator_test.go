package orbit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallConfig() GeneratorConfig {
	cfg := DefaultGeneratorConfig()
	cfg.Bodies = 4096
	cfg.Planes = 64
	cfg.Workers = 4
	return cfg
}

func TestGenerate_Layout(t *testing.T) {
	shells := DefaultShellTable()
	c, err := Generate(context.Background(), shells, smallConfig())
	require.NoError(t, err)

	assert.Equal(t, 4096, c.Len())
	assert.Equal(t, 64, c.PerPlane)
	for i, e := range c.Elements {
		assert.GreaterOrEqual(t, e.RAAN, float32(0), "body %d", i)
		assert.Less(t, e.RAAN, float32(twoPi))
		assert.GreaterOrEqual(t, e.MeanAnomalyEpoch, float32(0))
		assert.Less(t, e.MeanAnomalyEpoch, float32(twoPi))
		assert.GreaterOrEqual(t, e.Inclination, float32(0))
		assert.LessOrEqual(t, e.Inclination, float32(twoPi/2))
	}

	// Bodies in one plane share orientation and shell.
	first := c.Elements[0]
	for s := 1; s < c.PerPlane; s++ {
		e := c.Elements[s]
		assert.Equal(t, first.RAAN, e.RAAN)
		assert.Equal(t, first.Inclination, e.Inclination)
		assert.Equal(t, first.Shell, e.Shell)
	}
}

func TestGenerate_InclinationJitterBounded(t *testing.T) {
	shells := DefaultShellTable()
	cfg := smallConfig()
	c, err := Generate(context.Background(), shells, cfg)
	require.NoError(t, err)

	for p := 0; p < c.Planes; p++ {
		e := c.Elements[p*c.PerPlane]
		base := shells.Shell(e.Shell).Inclination
		assert.InDelta(t, base, e.Inclination, float64(cfg.InclinationJitter)+1e-6)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	shells := DefaultShellTable()
	a, err := Generate(context.Background(), shells, smallConfig())
	require.NoError(t, err)
	b, err := Generate(context.Background(), shells, smallConfig())
	require.NoError(t, err)
	assert.Equal(t, a.Elements, b.Elements)
}

func TestGenerate_ShellWeights(t *testing.T) {
	cfg := smallConfig()
	cfg.Bodies = 1 << 16
	cfg.Planes = 4096
	c, err := Generate(context.Background(), DefaultShellTable(), cfg)
	require.NoError(t, err)

	counts := c.ShellCounts()
	total := float64(c.Len())
	assert.InDelta(t, 0.3, float64(counts[ShellLow])/total, 0.05)
	assert.InDelta(t, 0.5, float64(counts[ShellMid])/total, 0.05)
	assert.InDelta(t, 0.2, float64(counts[ShellHigh])/total, 0.05)
}

func TestGenerate_InvalidLayout(t *testing.T) {
	tests := []struct {
		name           string
		bodies, planes int
	}{
		{"zero bodies", 0, 4},
		{"zero planes", 16, 0},
		{"uneven", 100, 7},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := smallConfig()
			cfg.Bodies = tc.bodies
			cfg.Planes = tc.planes
			_, err := Generate(context.Background(), DefaultShellTable(), cfg)
			assert.ErrorIs(t, err, ErrInvalidLayout)
		})
	}
}

func TestConstellation_BodyStateMatchesPropagate(t *testing.T) {
	c, err := Generate(context.Background(), DefaultShellTable(), smallConfig())
	require.NoError(t, err)

	pos, vel, ok := c.BodyState(17, 42)
	require.True(t, ok)
	wantPos, wantVel := Propagate(c.Elements[17], c.Shells, 42)
	assert.Equal(t, wantPos, pos)
	assert.Equal(t, wantVel, vel)

	_, _, ok = c.BodyState(-1, 0)
	assert.False(t, ok)
	_, _, ok = c.BodyState(c.Len(), 0)
	assert.False(t, ok)
}

func TestShellTable_Pick(t *testing.T) {
	shells := DefaultShellTable()
	assert.Equal(t, ShellLow, shells.pick(0))
	assert.Equal(t, ShellLow, shells.pick(0.29))
	assert.Equal(t, ShellMid, shells.pick(0.31))
	assert.Equal(t, ShellMid, shells.pick(0.79))
	assert.Equal(t, ShellHigh, shells.pick(0.81))
	assert.Equal(t, ShellHigh, shells.pick(0.9999))
}
