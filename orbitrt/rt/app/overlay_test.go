package app

import (
	"testing"
	"time"

	"github.com/skyweave/constellation/orbitrt/rt/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlayLines(t *testing.T) {
	s := Status{
		FPS:       59.7,
		Mode:      core.ViewGround,
		Visible:   1234,
		Bodies:    1 << 20,
		TimeScale: 60,
		SimTime:   3725.4,
		Pattern:   "logo",
		Profile:   []string{"update 0.10 ms"},
	}
	lines := OverlayLines(s, 20, 1)
	require.Len(t, lines, 5)
	assert.Equal(t, "60 fps  ground", lines[0].Text)
	assert.Equal(t, "visible 1234 / 1048576", lines[1].Text)
	assert.Equal(t, "t+1h2m5s  x60", lines[2].Text)
	assert.Equal(t, "beams logo", lines[3].Text)
	assert.Equal(t, float32(12), lines[0].Y)
	assert.Equal(t, float32(32), lines[1].Y)
	assert.Greater(t, lines[4].Y, lines[3].Y+20, "profile block is spaced from the status block")
}

func TestOverlayTracksInFirstPerson(t *testing.T) {
	lines := OverlayLines(Status{Mode: core.ViewFirstPerson, Tracked: 17, Paused: true}, 10, 1)
	assert.Equal(t, "t+0s  paused", lines[2].Text)
	assert.Equal(t, "tracking #17", lines[4].Text)
}

func TestFPSCounter(t *testing.T) {
	var f fpsCounter
	changed := false
	for range 60 {
		changed = f.add(time.Second / 60)
	}
	// 60 frames of 1/60 s may land a hair under one second.
	if !changed {
		changed = f.add(time.Second / 60)
	}
	assert.True(t, changed)
	assert.InDelta(t, 60, f.fps, 1.1)
}
