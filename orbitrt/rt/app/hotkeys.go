package app

import (
	"github.com/skyweave/constellation/orbitrt/rt/core"
	"github.com/skyweave/constellation/orbitrt/rt/orbit"
)

// Action is a discrete command bound to a key.
type Action int

const (
	ActionNone Action = iota
	ActionViewHorizon
	ActionViewOrbit
	ActionViewFirstPerson
	ActionViewGround
	ActionCyclePattern
	ActionPrevBody
	ActionNextBody
	ActionSlower
	ActionFaster
	ActionPause
	ActionToggleOverlay
	ActionReloadShaders
	ActionQuit
)

var hotkeys = map[core.Key]Action{
	core.Key1:            ActionViewHorizon,
	core.Key2:            ActionViewOrbit,
	core.Key3:            ActionViewFirstPerson,
	core.Key4:            ActionViewGround,
	core.KeyB:            ActionCyclePattern,
	core.KeyN:            ActionPrevBody,
	core.KeyM:            ActionNextBody,
	core.KeyLeftBracket:  ActionSlower,
	core.KeyRightBracket: ActionFaster,
	core.KeyP:            ActionPause,
	core.KeyF1:           ActionToggleOverlay,
	core.KeyR:            ActionReloadShaders,
	core.KeyEscape:       ActionQuit,
}

// HotkeyFor returns the action bound to k.
func HotkeyFor(k core.Key) Action {
	return hotkeys[k]
}

// NextPattern steps chaos -> logo -> cross -> off -> chaos.
func NextPattern(mode orbit.PatternMode, on bool) (orbit.PatternMode, bool) {
	if !on {
		return orbit.PatternChaos, true
	}
	if mode >= orbit.PatternCross {
		return mode, false
	}
	return mode + 1, true
}

func (a *App) apply(action Action) {
	switch action {
	case ActionViewHorizon:
		a.setMode(core.ViewHorizon)
	case ActionViewOrbit:
		a.setMode(core.ViewFreeOrbit)
	case ActionViewFirstPerson:
		a.setMode(core.ViewFirstPerson)
	case ActionViewGround:
		a.setMode(core.ViewGround)
	case ActionCyclePattern:
		a.Beams.Mode, a.BeamsOn = NextPattern(a.Beams.Mode, a.BeamsOn)
		a.Log.Infof("beams: %s", a.patternName())
	case ActionPrevBody:
		a.Controller.StepTracked(-1, a.Constellation.Len())
	case ActionNextBody:
		a.Controller.StepTracked(1, a.Constellation.Len())
	case ActionSlower:
		a.Clock.Slower()
	case ActionFaster:
		a.Clock.Faster()
	case ActionPause:
		a.Clock.TogglePause()
	case ActionToggleOverlay:
		a.Overlay = !a.Overlay
	case ActionReloadShaders:
		if err := a.ReloadShaders(); err != nil {
			a.Log.Errorf("%v", err)
		}
	case ActionQuit:
		a.quit = true
		if a.Window != nil {
			a.Window.RequestClose()
		}
	}
}

func (a *App) setMode(m core.ViewMode) {
	if a.Controller.Mode() == m {
		return
	}
	a.Controller.SetMode(m)
	a.Log.Infof("view: %s", m)
}

func (a *App) patternName() string {
	if !a.BeamsOn {
		return "off"
	}
	return a.Beams.Mode.String()
}
