package app

import (
	"fmt"
	"time"

	"github.com/skyweave/constellation/orbitrt/rt/core"
)

// Status is the snapshot shown by the debug overlay.
type Status struct {
	FPS       float64
	Mode      core.ViewMode
	Visible   int
	Bodies    int
	TimeScale float64
	Paused    bool
	SimTime   float64
	Pattern   string
	Tracked   int
	Profile   []string
}

var (
	overlayColor = [4]float32{0.85, 0.92, 1.0, 0.95}
	dimColor     = [4]float32{0.6, 0.68, 0.8, 0.85}
)

// OverlayLines lays the status out from the top-left corner.
func OverlayLines(s Status, lineHeight, scale float32) []core.TextLine {
	const margin = 12
	text := []string{
		fmt.Sprintf("%.0f fps  %s", s.FPS, s.Mode),
		fmt.Sprintf("visible %d / %d", s.Visible, s.Bodies),
		timeLine(s),
		fmt.Sprintf("beams %s", s.Pattern),
	}
	if s.Mode == core.ViewFirstPerson {
		text = append(text, fmt.Sprintf("tracking #%d", s.Tracked))
	}

	lines := make([]core.TextLine, 0, len(text)+len(s.Profile))
	y := float32(margin)
	for _, t := range text {
		lines = append(lines, core.TextLine{Text: t, X: margin, Y: y, Scale: scale, Color: overlayColor})
		y += lineHeight
	}
	y += lineHeight / 2
	for _, t := range s.Profile {
		lines = append(lines, core.TextLine{Text: t, X: margin, Y: y, Scale: scale, Color: dimColor})
		y += lineHeight
	}
	return lines
}

func timeLine(s Status) string {
	t := time.Duration(s.SimTime * float64(time.Second)).Truncate(time.Second)
	if s.Paused {
		return fmt.Sprintf("t+%s  paused", t)
	}
	return fmt.Sprintf("t+%s  x%g", t, s.TimeScale)
}

// fpsCounter averages frame rate over roughly one second windows.
type fpsCounter struct {
	frames  int
	elapsed time.Duration
	fps     float64
}

// add records a frame and reports whether the estimate changed.
func (f *fpsCounter) add(dt time.Duration) bool {
	f.frames++
	f.elapsed += dt
	if f.elapsed < time.Second {
		return false
	}
	f.fps = float64(f.frames) / f.elapsed.Seconds()
	f.frames, f.elapsed = 0, 0
	return true
}
