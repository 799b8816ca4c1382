package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"time"

	constellation "github.com/skyweave/constellation"
	"github.com/skyweave/constellation/orbitrt/rt/app"
	"github.com/skyweave/constellation/orbitrt/rt/core"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	cfg := app.DefaultConfig()
	flag.IntVar(&cfg.Width, "width", cfg.Width, "Window width")
	flag.IntVar(&cfg.Height, "height", cfg.Height, "Window height")
	flag.IntVar(&cfg.Bodies, "bodies", cfg.Bodies, "Body count (power of two)")
	flag.IntVar(&cfg.Planes, "planes", cfg.Planes, "Orbital planes (must divide bodies)")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Generator seed")
	flag.Float64Var(&cfg.TimeScale, "time-scale", cfg.TimeScale, "Simulated seconds per wall second")
	flag.BoolVar(&cfg.Beams, "beams", cfg.Beams, "Draw ground beams")
	flag.IntVar(&cfg.BeamStride, "beam-stride", cfg.BeamStride, "One beam per N bodies")
	flag.StringVar(&cfg.ShaderDir, "shader-dir", "", "Load WGSL from this directory (enables R to reload)")
	flag.BoolVar(&cfg.Overlay, "overlay", cfg.Overlay, "Show the status overlay")
	flag.BoolVar(&cfg.Debug, "debug", false, "Enable debug logging")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "Generator workers")
	mode := flag.String("mode", cfg.Mode.String(), "Initial view: horizon, orbit, first-person, ground")
	flag.Parse()

	log := constellation.NewDefaultLogger("constellation", cfg.Debug)

	m, err := core.ParseViewMode(*mode)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(2)
	}
	cfg.Mode = m

	if err := run(cfg, log); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(cfg app.Config, log constellation.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	window, err := constellation.OpenWindow(cfg.Width, cfg.Height, cfg.Title)
	if err != nil {
		return err
	}
	defer window.Close()

	a, err := app.NewApp(ctx, cfg, window, log)
	if err != nil {
		return err
	}
	defer a.Release()

	if err := a.Init(); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	constellation.BindInput(window, a)
	window.OnResize(a.Resize)

	for !window.ShouldClose() && !a.ShouldQuit() && ctx.Err() == nil {
		window.PollEvents()
		if window.Minimized() {
			window.WaitEvents()
			continue
		}
		a.Update(time.Now())
		a.Render()
	}
	return nil
}
