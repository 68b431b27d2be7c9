package core

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	runtime.LockOSThread()
}

type Window struct {
	Handle *glfw.Window
	Width  int
	Height int
	Title  string
}

type WindowConfig struct {
	Width     int
	Height    int
	Title     string
	Resizable bool
	VSync     bool
}

func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Width:     800,
		Height:    600,
		Title:     "Shading Demo",
		Resizable: true,
		VSync:     true,
	}
}

// NewWindow initialises GLFW, creates a window with an OpenGL 4.1 core
// profile context and makes that context current. Window-level MSAA is
// requested off; the renderer owns its own multisample framebuffer.
func NewWindow(config WindowConfig) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Samples, 0)
	glfw.WindowHint(glfw.Resizable, boolToInt(config.Resizable))

	handle, err := glfw.CreateWindow(config.Width, config.Height, config.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	handle.MakeContextCurrent()

	window := &Window{
		Handle: handle,
		Width:  config.Width,
		Height: config.Height,
		Title:  config.Title,
	}
	window.SetVSync(config.VSync)

	return window, nil
}

// SetVSync switches the swap interval: 1 paces SwapBuffers to the display
// refresh, 0 returns immediately.
func (w *Window) SetVSync(enabled bool) {
	if enabled {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
}

func (w *Window) ShouldClose() bool {
	return w.Handle.ShouldClose()
}

func (w *Window) RequestClose() {
	w.Handle.SetShouldClose(true)
}

func (w *Window) PollEvents() {
	glfw.PollEvents()
}

func (w *Window) SwapBuffers() {
	w.Handle.SwapBuffers()
}

func (w *Window) GetFramebufferSize() (int, int) {
	return w.Handle.GetFramebufferSize()
}

func (w *Window) Destroy() {
	w.Handle.Destroy()
	glfw.Terminate()
}

func (w *Window) IsKeyPressed(key int) bool {
	return w.Handle.GetKey(glfw.Key(key)) == glfw.Press
}

func (w *Window) IsMouseButtonPressed(button int) bool {
	return w.Handle.GetMouseButton(glfw.MouseButton(button)) == glfw.Press
}

func (w *Window) GetCursorPos() (float64, float64) {
	return w.Handle.GetCursorPos()
}

func (w *Window) SetTitle(title string) {
	w.Handle.SetTitle(title)
	w.Title = title
}

// SetResizeCallback registers a handler for framebuffer size changes.
// The window's stored dimensions are updated before the handler runs.
func (w *Window) SetResizeCallback(cb func(width, height int)) {
	w.Handle.SetFramebufferSizeCallback(func(win *glfw.Window, width, height int) {
		w.Width = width
		w.Height = height
		cb(width, height)
	})
}

// SetKeyCallback registers a handler invoked once per key press event.
// Repeats and releases are filtered out.
func (w *Window) SetKeyCallback(cb func(key int)) {
	w.Handle.SetKeyCallback(func(win *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action == glfw.Press {
			cb(int(key))
		}
	})
}

// SetCursorPosCallback registers a handler for mouse movement.
func (w *Window) SetCursorPosCallback(cb func(x, y float64)) {
	w.Handle.SetCursorPosCallback(func(win *glfw.Window, x, y float64) {
		cb(x, y)
	})
}

// Time returns seconds since GLFW initialisation.
func Time() float64 {
	return glfw.GetTime()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

const (
	KeyEscape     = int(glfw.KeyEscape)
	KeyEnter      = int(glfw.KeyEnter)
	KeyBackspace  = int(glfw.KeyBackspace)
	KeyEqual      = int(glfw.KeyEqual)
	KeyMinus      = int(glfw.KeyMinus)
	KeyKPAdd      = int(glfw.KeyKPAdd)
	KeyKPSubtract = int(glfw.KeyKPSubtract)
	KeyW          = int(glfw.KeyW)
	KeyA          = int(glfw.KeyA)
	KeyS          = int(glfw.KeyS)
	KeyD          = int(glfw.KeyD)
	KeyR          = int(glfw.KeyR)
	KeyF          = int(glfw.KeyF)
	KeyF1         = int(glfw.KeyF1)
	KeyF2         = int(glfw.KeyF2)
	KeyF3         = int(glfw.KeyF3)
	KeyF4         = int(glfw.KeyF4)
	KeyF5         = int(glfw.KeyF5)
	KeyF6         = int(glfw.KeyF6)
	KeyF7         = int(glfw.KeyF7)
	KeyLeftShift  = int(glfw.KeyLeftShift)

	MouseButtonRight = int(glfw.MouseButtonRight)
)
