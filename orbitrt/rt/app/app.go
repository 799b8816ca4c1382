package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/skyweave/constellation"
	"github.com/skyweave/constellation/orbitrt/rt/core"
	"github.com/skyweave/constellation/orbitrt/rt/gpu"
	"github.com/skyweave/constellation/orbitrt/rt/orbit"
	"github.com/skyweave/constellation/orbitrt/rt/shaders"
)

var ErrNoAdapter = errors.New("app: no capable graphics adapter")

// App owns the simulation state and, once Init has run, the device and renderer.
type App struct {
	Config    Config
	Log       constellation.Logger
	SessionID uuid.UUID

	Window   *constellation.Window
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Surface  *wgpu.Surface
	Surf     *wgpu.SurfaceConfiguration
	Renderer *gpu.Renderer
	Text     *core.TextAtlas

	Constellation *orbit.Constellation
	Controller    *core.Controller
	Clock         *constellation.Clock
	Profiler      *Profiler

	Beams   orbit.BeamParams
	BeamsOn bool
	Overlay bool
	Frame   core.FrameUniform
	Visible int
	Width   int
	Height  int

	throttled    *constellation.ThrottledLogger
	visibleEvery rate.Sometimes
	positions    []orbit.BodyPosition
	fps          fpsCounter
	quit         bool
}

// NewApp validates cfg and generates the constellation. Window may be nil for headless use.
func NewApp(ctx context.Context, cfg Config, window *constellation.Window, log constellation.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = constellation.NewNopLogger()
	}
	a := &App{
		Config:       cfg,
		Log:          log,
		SessionID:    uuid.New(),
		Window:       window,
		Profiler:     NewProfiler(),
		Beams:        cfg.BeamParams(),
		BeamsOn:      cfg.Beams,
		Overlay:      cfg.Overlay,
		Width:        cfg.Width,
		Height:       cfg.Height,
		throttled:    constellation.NewThrottledLogger(log, cfg.LogThrottle),
		visibleEvery: rate.Sometimes{Interval: cfg.VisibleRefresh},
	}
	if window != nil {
		a.Width, a.Height = window.DrawableSize()
	}
	log.Infof("session %s", a.SessionID)

	start := time.Now()
	shells := orbit.DefaultShellTable()
	shells.BodyRadius = cfg.Visibility.BodyRadius
	c, err := orbit.Generate(ctx, shells, cfg.GeneratorConfig())
	if err != nil {
		return nil, fmt.Errorf("generate constellation: %w", err)
	}
	a.Constellation = c
	a.positions = make([]orbit.BodyPosition, c.Len())
	counts := c.ShellCounts()
	log.Infof("generated %d bodies in %d planes (%v): low=%d mid=%d high=%d",
		c.Len(), c.Planes, time.Since(start).Round(time.Millisecond), counts[0], counts[1], counts[2])

	a.Controller = core.NewController(core.DefaultControllerConfig(cfg.Visibility.BodyRadius), cfg.Mode)
	a.Clock = constellation.NewClock(time.Now(), cfg.TimeScale)
	return a, nil
}

// Init brings up the device, checks capacity against the adapter and uploads the
// constellation. Errors here are fatal for the run.
func (a *App) Init() error {
	if a.Window == nil {
		return errors.New("app: Init needs a window")
	}
	a.Instance = wgpu.CreateInstance(nil)
	a.Surface = a.Instance.CreateSurface(a.Window.SurfaceDescriptor())

	adapter, err := a.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: a.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil || adapter == nil {
		return fmt.Errorf("%w: %v", ErrNoAdapter, err)
	}
	a.Adapter = adapter

	supported := adapter.GetLimits().Limits
	limits := gpu.LimitsFrom(supported)
	req := gpu.Requirements{Bodies: a.Constellation.Len(), Beams: a.Beams.MaxBeams}
	if err := gpu.ValidateCapacity(req, limits); err != nil {
		return err
	}

	required := wgpu.DefaultLimits()
	required.MaxBufferSize = supported.MaxBufferSize
	required.MaxStorageBufferBindingSize = supported.MaxStorageBufferBindingSize
	a.Device, err = adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:          "Constellation Device",
		RequiredLimits: &wgpu.RequiredLimits{Limits: required},
	})
	if err != nil {
		return fmt.Errorf("request device: %w", err)
	}
	a.Queue = a.Device.GetQueue()

	caps := a.Surface.GetCapabilities(adapter)
	a.Surf = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(max(a.Width, 1)),
		Height:      uint32(max(a.Height, 1)),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	a.Surface.Configure(adapter, a.Device, a.Surf)

	src, err := shaders.Load(a.Config.ShaderDir)
	if err != nil {
		return err
	}
	a.Renderer, err = gpu.NewRenderer(a.Device, a.Surf.Format, limits, src, a.Surf.Width, a.Surf.Height)
	if err != nil {
		return err
	}
	if err := a.Renderer.Upload(a.Constellation, a.Beams); err != nil {
		return err
	}
	if err := a.Renderer.SetPost(a.Config.Post); err != nil {
		return err
	}

	// The overlay is optional; the viewer runs without it.
	if a.Text, err = core.NewTextAtlas(16); err != nil {
		a.Log.Warnf("debug overlay disabled: %v", err)
	} else if err := a.Renderer.EnableText(a.Text, shaders.TextWGSL); err != nil {
		a.Log.Warnf("debug overlay disabled: %v", err)
	}

	a.Log.Infof("device ready: %dx%d %v, %d bodies, %d beam slots",
		a.Surf.Width, a.Surf.Height, a.Surf.Format, a.Constellation.Len(), a.Beams.MaxBeams)
	return nil
}

// Resize reconfigures the surface and rebuilds every size-dependent target.
// A zero size (minimized) is ignored.
func (a *App) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	a.Width, a.Height = w, h
	if a.Surface == nil || a.Renderer == nil {
		return
	}
	a.Surf.Width, a.Surf.Height = uint32(w), uint32(h)
	a.Surface.Configure(a.Adapter, a.Device, a.Surf)
	if err := a.Renderer.Resize(uint32(w), uint32(h)); err != nil {
		a.Log.Errorf("resize to %dx%d: %v", w, h, err)
	}
}

// Update advances time, the camera and every per-frame uniform.
func (a *App) Update(now time.Time) {
	defer a.Profiler.Scope("update")()

	ft := a.Clock.Tick(now)
	if ft.Clamped {
		a.throttled.Debugf("frame delta clamped to %v", ft.Dt)
	}
	dt := ft.DtSeconds()
	t := float32(ft.SimTime)

	a.Controller.Update(dt)
	cam := a.Controller.Camera(t, a.Constellation)
	a.Frame = core.BuildFrame(cam, core.FrameInputs{
		Mode:             a.Controller.ActiveMode(t, a.Constellation),
		OrbitDistance:    a.Controller.Angles().Distance,
		Width:            a.Width,
		Height:           a.Height,
		Time:             t,
		DeltaTime:        dt,
		BodyCount:        a.Constellation.Len(),
		Visibility:       a.Config.Visibility,
		AtmosphereRadius: a.Config.Visibility.BodyRadius * a.Config.AtmosphereScale,
		BeamWidth:        a.Config.BeamWidth,
	})
	a.Beams.Time = t

	a.visibleEvery.Do(func() { a.refreshVisible(t) })

	if a.fps.add(ft.Dt) && a.Window != nil {
		a.Window.SetTitle(fmt.Sprintf("%s - %.0f fps", a.Config.Title, a.fps.fps))
	}

	if a.Renderer == nil {
		return
	}
	if err := a.Renderer.Buffers.UpdateFrame(&a.Frame); err != nil {
		a.throttled.Warnf("frame uniform: %v", err)
	}
	if a.BeamsOn {
		if err := a.Renderer.Buffers.UpdateBeamParams(a.Beams); err != nil {
			a.throttled.Warnf("beam params: %v", err)
		}
	}
	if a.Overlay && a.Renderer.Text != nil {
		if err := a.Renderer.Text.Update(a.Text.Vertices(a.overlayLines(), a.Width, a.Height)); err != nil {
			a.throttled.Warnf("overlay: %v", err)
		}
	}
}

// refreshVisible counts bodies surviving the visibility stage with the host mirror.
func (a *App) refreshVisible(t float32) {
	defer a.Profiler.Scope("visible")()
	ctx := context.Background()
	workers := a.Config.Workers
	if err := orbit.PropagateAll(ctx, a.Constellation.Elements, a.Constellation.Shells, t, a.positions, workers); err != nil {
		a.throttled.Warnf("visible count: %v", err)
		return
	}
	n, err := core.CountVisible(ctx, a.positions, &a.Frame, workers)
	if err != nil {
		a.throttled.Warnf("visible count: %v", err)
		return
	}
	a.Visible = n
	a.Profiler.SetCount("visible", n)
}

// Status snapshots what the overlay shows.
func (a *App) Status() Status {
	return Status{
		FPS:       a.fps.fps,
		Mode:      a.Controller.Mode(),
		Visible:   a.Visible,
		Bodies:    a.Constellation.Len(),
		TimeScale: a.Clock.Scale(),
		Paused:    a.Clock.Paused(),
		SimTime:   a.Clock.SimTime(),
		Pattern:   a.patternName(),
		Tracked:   a.Controller.Tracked(),
		Profile:   a.Profiler.Lines(),
	}
}

func (a *App) overlayLines() []core.TextLine {
	scale := a.Config.OverlayTextScale
	return OverlayLines(a.Status(), a.Text.LineHeight(scale), scale)
}

// Plan returns the pass list for the current frame.
func (a *App) Plan() []gpu.PassID {
	overlay := a.Overlay && a.Renderer != nil && a.Renderer.Text != nil
	return gpu.PlanFrame(a.Controller.Mode(), gpu.PlanOptions{Beams: a.BeamsOn, Overlay: overlay})
}

// Render encodes and presents one frame. Any failure drops the frame.
func (a *App) Render() {
	defer a.Profiler.Scope("render")()
	if err := a.render(); err != nil {
		a.throttled.Errorf("frame dropped: %v", err)
	}
}

func (a *App) render() error {
	if a.Renderer == nil {
		return nil
	}
	next, err := a.Surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("acquire surface texture: %w", err)
	}
	defer next.Release()

	view, err := next.CreateView(nil)
	if err != nil {
		return fmt.Errorf("create surface view: %w", err)
	}
	defer view.Release()

	encoder, err := a.Device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	defer encoder.Release()

	if err := a.Renderer.Encode(encoder, view, a.Plan()); err != nil {
		return err
	}
	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish encoder: %w", err)
	}
	defer cmd.Release()
	a.Queue.Submit(cmd)
	a.Surface.Present()
	return nil
}

// ShouldQuit reports whether a quit was requested from the keyboard.
func (a *App) ShouldQuit() bool {
	return a.quit
}

func (a *App) Release() {
	a.Renderer.Release()
	if a.Surface != nil {
		a.Surface.Release()
	}
	if a.Device != nil {
		a.Device.Release()
	}
	if a.Adapter != nil {
		a.Adapter.Release()
	}
	if a.Instance != nil {
		a.Instance.Release()
	}
}

// PointerDown and the rest implement core.InputSink.

func (a *App) PointerDown(x, y float64) { a.Controller.PointerDown(x, y) }
func (a *App) PointerUp(x, y float64)   { a.Controller.PointerUp(x, y) }
func (a *App) PointerMove(x, y float64) { a.Controller.PointerMove(x, y) }
func (a *App) Scroll(dy float64)        { a.Controller.Scroll(dy) }

func (a *App) KeyDown(k core.Key) {
	if action := HotkeyFor(k); action != ActionNone {
		a.apply(action)
	}
	a.Controller.KeyDown(k)
}

func (a *App) KeyUp(k core.Key) { a.Controller.KeyUp(k) }
