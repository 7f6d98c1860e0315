package meshview

import (
	"fmt"
	"reflect"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// PlatformWindowModule creates the single GLFW window with a current OpenGL
// 4.1 core context, and provides the WindowState and Viewport resources.
// Install is idempotent: if a WindowState resource already exists, it is reused.
type PlatformWindowModule struct {
	Width  int
	Height int
	Title  string
}

// NewPlatformWindow creates a module with defaults for zero values.
func NewPlatformWindow(width, height int, title string) *PlatformWindowModule {
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 600
	}
	if title == "" {
		title = "meshview"
	}
	return &PlatformWindowModule{
		Width:  width,
		Height: height,
		Title:  title,
	}
}

type WindowState struct {
	windowGlfw *glfw.Window
	title      string

	buttonEvents        []ButtonEvent
	scrollX             float64
	scrollY             float64
	onFramebufferResize func(width, height int)
}

// Viewport is the framebuffer size. Resized is true only for the frame in
// which a new size was observed, including the first frame.
type Viewport struct {
	Width, Height int
	Resized       bool

	pending       bool
	pendingWidth  int
	pendingHeight int
}

func (m PlatformWindowModule) Install(app *App, cmd *Commands) {
	t := reflect.TypeOf((*WindowState)(nil)).Elem()
	if _, ok := app.resources[t]; ok {
		return
	}
	mod := NewPlatformWindow(m.Width, m.Height, m.Title)

	ws, err := createWindowState(mod.Width, mod.Height, mod.Title)
	if err != nil {
		panic(err)
	}
	fbw, fbh := ws.windowGlfw.GetFramebufferSize()
	viewport := &Viewport{}
	viewport.Resize(fbw, fbh)
	ws.onFramebufferResize = viewport.Resize

	cmd.AddResources(ws, viewport)
	cmd.OnShutdown(ws.Destroy)
	app.Logger().Infof("Created window (%dx%d) '%s'", mod.Width, mod.Height, mod.Title)

	app.UseSystem(
		System(viewportSystem).
			InStage(PreUpdate),
	)
	app.UseSystem(
		System(windowCloseSystem).
			InStage(Update),
	)
	app.UseSystem(
		System(presentSystem).
			InStage(PostRender),
	)
}

func createWindowState(width int, height int, title string) (*WindowState, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window %q: %w", title, err)
	}
	win.MakeContextCurrent()
	glfw.SwapInterval(1)

	ws := &WindowState{
		windowGlfw: win,
		title:      title,
	}

	win.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		if ws.onFramebufferResize != nil {
			ws.onFramebufferResize(width, height)
		}
	})
	win.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		ws.scrollX += xoff
		ws.scrollY += yoff
	})
	win.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		slot, ok := mouseButtonFromGlfw[button]
		if !ok || action == glfw.Repeat {
			return
		}
		ws.buttonEvents = append(ws.buttonEvents, ButtonEvent{Button: slot, Pressed: action == glfw.Press})
	})

	return ws, nil
}

func (ws *WindowState) Destroy() {
	if ws.windowGlfw == nil {
		return
	}
	ws.windowGlfw.Destroy()
	ws.windowGlfw = nil
	glfw.Terminate()
}

func (ws *WindowState) PollEvents() {
	glfw.PollEvents()
}

func (ws *WindowState) KeyDown(key int) bool {
	glfwKey, ok := keyToGlfw[key]
	if !ok {
		return false
	}
	return ws.windowGlfw.GetKey(glfwKey) == glfw.Press
}

func (ws *WindowState) CursorPos() (float64, float64) {
	return ws.windowGlfw.GetCursorPos()
}

func (ws *WindowState) TakeButtonEvents() []ButtonEvent {
	events := ws.buttonEvents
	ws.buttonEvents = nil
	return events
}

func (ws *WindowState) TakeScroll() (float64, float64) {
	dx, dy := ws.scrollX, ws.scrollY
	ws.scrollX, ws.scrollY = 0, 0
	return dx, dy
}

func (ws *WindowState) Size() (int, int) {
	return ws.windowGlfw.GetSize()
}

func (ws *WindowState) ShouldClose() bool {
	return ws.windowGlfw.ShouldClose()
}

func (ws *WindowState) Close() {
	ws.windowGlfw.SetShouldClose(true)
}

// Resize records a framebuffer size to be applied at the next frame start.
func (v *Viewport) Resize(width, height int) {
	v.pending = true
	v.pendingWidth = width
	v.pendingHeight = height
}

// Aspect is width/height, or 1 for a degenerate (minimised) framebuffer.
func (v *Viewport) Aspect() float32 {
	if v.Width <= 0 || v.Height <= 0 {
		return 1
	}
	return float32(v.Width) / float32(v.Height)
}

func (v *Viewport) apply() {
	v.Resized = v.pending
	if !v.pending {
		return
	}
	v.Width, v.Height = v.pendingWidth, v.pendingHeight
	v.pending = false
}

func viewportSystem(v *Viewport) {
	v.apply()
}

func windowCloseSystem(ws *WindowState, cmd *Commands) {
	if ws.ShouldClose() {
		cmd.Exit()
	}
}

func presentSystem(ws *WindowState) {
	ws.windowGlfw.SwapBuffers()
}
