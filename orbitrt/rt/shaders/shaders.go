package shaders

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed common.wgsl
var CommonWGSL string

//go:embed propagate.wgsl
var PropagateWGSL string

//go:embed beams.wgsl
var BeamsWGSL string

//go:embed billboards.wgsl
var BillboardsWGSL string

//go:embed beam_ribbons.wgsl
var BeamRibbonsWGSL string

//go:embed background.wgsl
var BackgroundWGSL string

//go:embed ground.wgsl
var GroundWGSL string

//go:embed planet.wgsl
var PlanetWGSL string

//go:embed atmosphere.wgsl
var AtmosphereWGSL string

//go:embed bloom_threshold.wgsl
var BloomThresholdWGSL string

//go:embed bloom_blur.wgsl
var BloomBlurWGSL string

//go:embed tonemap.wgsl
var TonemapWGSL string

//go:embed text.wgsl
var TextWGSL string

// Sources holds one complete WGSL module per pipeline, common prelude already applied.
type Sources struct {
	Propagate      string
	Beams          string
	Billboards     string
	BeamRibbons    string
	Background     string
	Ground         string
	Planet         string
	Atmosphere     string
	BloomThreshold string
	BloomBlur      string
	Tonemap        string
	Text           string
}

// Compose prepends the shared declarations to a pass body.
func Compose(common, body string) string {
	return common + "\n" + body
}

type entry struct {
	file string
	dst  func(*Sources) *string
}

var entries = []entry{
	{"propagate.wgsl", func(s *Sources) *string { return &s.Propagate }},
	{"beams.wgsl", func(s *Sources) *string { return &s.Beams }},
	{"billboards.wgsl", func(s *Sources) *string { return &s.Billboards }},
	{"beam_ribbons.wgsl", func(s *Sources) *string { return &s.BeamRibbons }},
	{"background.wgsl", func(s *Sources) *string { return &s.Background }},
	{"ground.wgsl", func(s *Sources) *string { return &s.Ground }},
	{"planet.wgsl", func(s *Sources) *string { return &s.Planet }},
	{"atmosphere.wgsl", func(s *Sources) *string { return &s.Atmosphere }},
	{"bloom_threshold.wgsl", func(s *Sources) *string { return &s.BloomThreshold }},
	{"bloom_blur.wgsl", func(s *Sources) *string { return &s.BloomBlur }},
	{"tonemap.wgsl", func(s *Sources) *string { return &s.Tonemap }},
}

// Default returns the embedded set.
func Default() Sources {
	return Sources{
		Propagate:      Compose(CommonWGSL, PropagateWGSL),
		Beams:          Compose(CommonWGSL, BeamsWGSL),
		Billboards:     Compose(CommonWGSL, BillboardsWGSL),
		BeamRibbons:    Compose(CommonWGSL, BeamRibbonsWGSL),
		Background:     Compose(CommonWGSL, BackgroundWGSL),
		Ground:         Compose(CommonWGSL, GroundWGSL),
		Planet:         Compose(CommonWGSL, PlanetWGSL),
		Atmosphere:     Compose(CommonWGSL, AtmosphereWGSL),
		BloomThreshold: Compose(CommonWGSL, BloomThresholdWGSL),
		BloomBlur:      Compose(CommonWGSL, BloomBlurWGSL),
		Tonemap:        Compose(CommonWGSL, TonemapWGSL),
		Text:           TextWGSL,
	}
}

// Load reads overrides from dir, falling back to the embedded copy for any file
// that is absent. An empty dir returns Default. The text overlay shader is never
// overridden.
func Load(dir string) (Sources, error) {
	return LoadFS(os.DirFS(dir), dir == "")
}

// LoadFS is Load over an arbitrary filesystem.
func LoadFS(fsys fs.FS, embeddedOnly bool) (Sources, error) {
	src := Default()
	if embeddedOnly {
		return src, nil
	}
	common := CommonWGSL
	if b, err := fs.ReadFile(fsys, "common.wgsl"); err == nil {
		common = string(b)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Sources{}, fmt.Errorf("read common.wgsl: %w", err)
	}

	base := Sources{
		Propagate:      PropagateWGSL,
		Beams:          BeamsWGSL,
		Billboards:     BillboardsWGSL,
		BeamRibbons:    BeamRibbonsWGSL,
		Background:     BackgroundWGSL,
		Ground:         GroundWGSL,
		Planet:         PlanetWGSL,
		Atmosphere:     AtmosphereWGSL,
		BloomThreshold: BloomThresholdWGSL,
		BloomBlur:      BloomBlurWGSL,
		Tonemap:        TonemapWGSL,
	}
	for _, e := range entries {
		body := *e.dst(&base)
		b, err := fs.ReadFile(fsys, e.file)
		switch {
		case err == nil:
			body = string(b)
		case !errors.Is(err, fs.ErrNotExist):
			return Sources{}, fmt.Errorf("read %s: %w", filepath.ToSlash(e.file), err)
		}
		*e.dst(&src) = Compose(common, body)
	}
	return src, nil
}

// Files lists the override file names Load looks for.
func Files() []string {
	out := []string{"common.wgsl"}
	for _, e := range entries {
		out = append(out, e.file)
	}
	return out
}
