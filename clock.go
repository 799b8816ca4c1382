package constellation

import (
	"time"
)

const (
	// MaxFrameDelta caps the wall-clock step fed to the simulation after a stall.
	MaxFrameDelta = 100 * time.Millisecond

	MinTimeScale = 1.0 / 64
	MaxTimeScale = 4096.0
)

// FrameTime is one tick of the clock.
type FrameTime struct {
	Now     time.Time
	Dt      time.Duration // clamped wall-clock delta
	SimDt   float64       // seconds of simulation advanced this tick
	SimTime float64       // seconds of simulation since start
	Clamped bool          // the raw delta exceeded MaxFrameDelta
}

// DtSeconds returns the clamped wall-clock delta in seconds.
func (f FrameTime) DtSeconds() float32 {
	return float32(f.Dt.Seconds())
}

// Clock advances simulation time from wall-clock deltas with a scale and pause.
type Clock struct {
	last    time.Time
	simTime float64
	scale   float64
	paused  bool
}

func NewClock(now time.Time, scale float64) *Clock {
	c := &Clock{last: now}
	c.SetScale(scale)
	return c
}

func (c *Clock) Tick(now time.Time) FrameTime {
	dt := now.Sub(c.last)
	c.last = now

	ft := FrameTime{Now: now}
	switch {
	case dt < 0:
		dt = 0
	case dt > MaxFrameDelta:
		dt = MaxFrameDelta
		ft.Clamped = true
	}
	ft.Dt = dt

	if !c.paused {
		ft.SimDt = dt.Seconds() * c.scale
		c.simTime += ft.SimDt
	}
	ft.SimTime = c.simTime
	return ft
}

func (c *Clock) Scale() float64 { return c.scale }
func (c *Clock) Paused() bool   { return c.paused }
func (c *Clock) SimTime() float64 {
	return c.simTime
}

func (c *Clock) SetScale(s float64) {
	c.scale = min(max(s, MinTimeScale), MaxTimeScale)
}

func (c *Clock) Faster()      { c.SetScale(c.scale * 2) }
func (c *Clock) Slower()      { c.SetScale(c.scale / 2) }
func (c *Clock) TogglePause() { c.paused = !c.paused }
