package constellation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClockScalesSimulationTime(t *testing.T) {
	start := time.Unix(1000, 0)
	c := NewClock(start, 60)

	ft := c.Tick(start.Add(50 * time.Millisecond))
	assert.False(t, ft.Clamped)
	assert.Equal(t, 50*time.Millisecond, ft.Dt)
	assert.InDelta(t, 3.0, ft.SimDt, 1e-9)
	assert.InDelta(t, 3.0, ft.SimTime, 1e-9)
	assert.InDelta(t, 0.05, ft.DtSeconds(), 1e-6)
}

func TestClockClampsStalls(t *testing.T) {
	start := time.Unix(1000, 0)
	c := NewClock(start, 1)

	ft := c.Tick(start.Add(5 * time.Second))
	assert.True(t, ft.Clamped)
	assert.Equal(t, MaxFrameDelta, ft.Dt)
	assert.InDelta(t, MaxFrameDelta.Seconds(), ft.SimTime, 1e-9)

	// Time going backwards never rewinds the simulation.
	ft = c.Tick(start)
	assert.Zero(t, ft.Dt)
	assert.InDelta(t, MaxFrameDelta.Seconds(), ft.SimTime, 1e-9)
}

func TestClockPauseAndScale(t *testing.T) {
	start := time.Unix(0, 0)
	c := NewClock(start, 1)

	c.TogglePause()
	assert.True(t, c.Paused())
	ft := c.Tick(start.Add(10 * time.Millisecond))
	assert.Zero(t, ft.SimDt)
	assert.Zero(t, c.SimTime())

	c.TogglePause()
	c.Faster()
	assert.Equal(t, 2.0, c.Scale())
	c.Slower()
	c.Slower()
	assert.Equal(t, 0.5, c.Scale())

	c.SetScale(1e9)
	assert.Equal(t, MaxTimeScale, c.Scale())
	c.SetScale(0)
	assert.Equal(t, MinTimeScale, c.Scale())
}
