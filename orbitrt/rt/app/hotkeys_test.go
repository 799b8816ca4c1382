package app

import (
	"testing"

	"github.com/skyweave/constellation/orbitrt/rt/core"
	"github.com/skyweave/constellation/orbitrt/rt/orbit"
	"github.com/stretchr/testify/assert"
)

func TestNextPatternCycle(t *testing.T) {
	mode, on := orbit.PatternChaos, true
	var seen []string
	for range 5 {
		mode, on = NextPattern(mode, on)
		if on {
			seen = append(seen, mode.String())
		} else {
			seen = append(seen, "off")
		}
	}
	assert.Equal(t, []string{"logo", "cross", "off", "chaos", "logo"}, seen)
}

func TestHotkeyFor(t *testing.T) {
	assert.Equal(t, ActionViewGround, HotkeyFor(core.Key4))
	assert.Equal(t, ActionFaster, HotkeyFor(core.KeyRightBracket))
	assert.Equal(t, ActionQuit, HotkeyFor(core.KeyEscape))
	assert.Equal(t, ActionNone, HotkeyFor(core.KeyW), "movement keys are held, not actions")
}
