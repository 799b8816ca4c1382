package app

import (
	"errors"
	"fmt"

	"github.com/skyweave/constellation/orbitrt/rt/shaders"
)

var errReloadDisabled = errors.New("shader reload needs -shader-dir")

// ReloadShaders recompiles from the shader directory. A failed compile leaves the
// running pipelines in place.
func (a *App) ReloadShaders() error {
	if a.Config.ShaderDir == "" {
		return errReloadDisabled
	}
	src, err := shaders.Load(a.Config.ShaderDir)
	if err != nil {
		return fmt.Errorf("reload shaders: %w", err)
	}
	if a.Renderer == nil {
		return nil
	}
	if err := a.Renderer.Reload(src); err != nil {
		return fmt.Errorf("reload shaders, keeping previous pipelines: %w", err)
	}
	a.Log.Infof("shaders reloaded from %s", a.Config.ShaderDir)
	return nil
}
