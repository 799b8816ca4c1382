package core

// Key is a host-independent key code. The window layer translates its native codes into these.
type Key int

const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyQ
	KeyE
	KeyB
	KeyN
	KeyM
	KeyP
	KeyR
	Key1
	Key2
	Key3
	Key4
	KeyLeftBracket
	KeyRightBracket
	KeyF1
	KeyEscape
	KeyShift
	keyCount
)

// InputSink receives pointer and keyboard events from the input provider.
type InputSink interface {
	PointerDown(x, y float64)
	PointerUp(x, y float64)
	PointerMove(x, y float64)
	Scroll(dy float64)
	KeyDown(k Key)
	KeyUp(k Key)
}
