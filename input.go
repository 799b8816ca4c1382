package constellation

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/skyweave/constellation/orbitrt/rt/core"
)

var glfwToKey = map[glfw.Key]core.Key{
	glfw.KeyW:            core.KeyW,
	glfw.KeyA:            core.KeyA,
	glfw.KeyS:            core.KeyS,
	glfw.KeyD:            core.KeyD,
	glfw.KeyQ:            core.KeyQ,
	glfw.KeyE:            core.KeyE,
	glfw.KeyB:            core.KeyB,
	glfw.KeyN:            core.KeyN,
	glfw.KeyM:            core.KeyM,
	glfw.KeyP:            core.KeyP,
	glfw.KeyR:            core.KeyR,
	glfw.Key1:            core.Key1,
	glfw.Key2:            core.Key2,
	glfw.Key3:            core.Key3,
	glfw.Key4:            core.Key4,
	glfw.KeyKP1:          core.Key1,
	glfw.KeyKP2:          core.Key2,
	glfw.KeyKP3:          core.Key3,
	glfw.KeyKP4:          core.Key4,
	glfw.KeyLeftBracket:  core.KeyLeftBracket,
	glfw.KeyRightBracket: core.KeyRightBracket,
	glfw.KeyF1:           core.KeyF1,
	glfw.KeyEscape:       core.KeyEscape,
	glfw.KeyLeftShift:    core.KeyShift,
	glfw.KeyRightShift:   core.KeyShift,
}

// TranslateKey maps a glfw key to the core key set. Unmapped keys return core.KeyUnknown.
func TranslateKey(k glfw.Key) core.Key {
	if ck, ok := glfwToKey[k]; ok {
		return ck
	}
	return core.KeyUnknown
}

// BindInput installs window callbacks that forward pointer, scroll and key events to sink.
// The left button drags; key repeats are dropped since sinks track held state themselves.
func BindInput(w *Window, sink core.InputSink) {
	win := w.glfw
	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		sink.PointerMove(x, y)
	})
	win.SetMouseButtonCallback(func(gw *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft {
			return
		}
		x, y := gw.GetCursorPos()
		switch action {
		case glfw.Press:
			sink.PointerDown(x, y)
		case glfw.Release:
			sink.PointerUp(x, y)
		}
	})
	win.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		sink.Scroll(yoff)
	})
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		k := TranslateKey(key)
		if k == core.KeyUnknown {
			return
		}
		switch action {
		case glfw.Press:
			sink.KeyDown(k)
		case glfw.Release:
			sink.KeyUp(k)
		}
	})
}
