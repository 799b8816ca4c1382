package constellation

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Window owns the glfw window the renderer presents into. It must be created and used on
// the main OS thread.
type Window struct {
	glfw  *glfw.Window
	title string
}

func OpenWindow(width, height int, title string) (*Window, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // WebGPU owns the surface, no GL context
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	return &Window{glfw: win, title: title}, nil
}

// SurfaceDescriptor wraps the native window handle for wgpu.Instance.CreateSurface.
func (w *Window) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(w.glfw)
}

// DrawableSize returns the framebuffer size in pixels.
func (w *Window) DrawableSize() (int, int) {
	return w.glfw.GetFramebufferSize()
}

// OnResize registers fn for framebuffer size changes.
func (w *Window) OnResize(fn func(width, height int)) {
	w.glfw.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		fn(width, height)
	})
}

func (w *Window) SetTitle(s string) {
	if s != w.title {
		w.title = s
		w.glfw.SetTitle(s)
	}
}

func (w *Window) ShouldClose() bool { return w.glfw.ShouldClose() }
func (w *Window) RequestClose()     { w.glfw.SetShouldClose(true) }
func (w *Window) PollEvents()       { glfw.PollEvents() }
func (w *Window) WaitEvents()       { glfw.WaitEvents() }
func (w *Window) Minimized() bool   { wd, h := w.DrawableSize(); return wd == 0 || h == 0 }

func (w *Window) Close() {
	w.glfw.Destroy()
	glfw.Terminate()
}
