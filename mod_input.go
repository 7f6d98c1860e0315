package meshview

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	KeyA int = iota
	KeyD
	KeyH
	KeyR
	KeyS
	KeyW
	KeyX
	KeyY
	KeyZ
	KeySpace
	KeyEnter
	KeyEscape
	KeyTab
	KeyShift
	KeyControl
	KeyLeftAlt
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle

	inputSlots
)

// InputModule samples the devices once per frame and requests exit on the
// Escape press edge.
type InputModule struct{}

// Input is the per-frame snapshot of the input devices. It is written once in
// PreUpdate and only read for the rest of the frame.
type Input struct {
	Pressed [inputSlots]bool

	JustPressed  [inputSlots]bool
	JustReleased [inputSlots]bool

	MouseX, MouseY   float64
	ScrollX, ScrollY float64

	WindowWidth, WindowHeight int
}

// ButtonEvent is a mouse button transition reported by the platform between
// two samples.
type ButtonEvent struct {
	Button  int
	Pressed bool
}

// InputSource is the device side of the input contract.
type InputSource interface {
	PollEvents()
	KeyDown(key int) bool
	CursorPos() (x, y float64)
	// TakeButtonEvents returns and clears the button transitions since the last call.
	TakeButtonEvents() []ButtonEvent
	// TakeScroll returns and clears the scroll accumulated since the last call.
	TakeScroll() (dx, dy float64)
	Size() (width, height int)
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Input{})
	app.UseSystem(
		System(inputSystem).
			InStage(PreUpdate),
	)
	app.UseSystem(
		System(exitKeySystem).
			InStage(Update),
	)
}

func inputSystem(s *WindowState, input *Input) {
	s.PollEvents()
	input.Sample(s)
}

func exitKeySystem(input *Input, cmd *Commands) {
	if input.JustPressed[KeyEscape] {
		cmd.Exit()
	}
}

// Sample replaces the snapshot with the current device state.
func (input *Input) Sample(src InputSource) {
	input.JustPressed = [inputSlots]bool{}
	input.JustReleased = [inputSlots]bool{}

	for key := range keyToGlfw {
		input.transition(key, src.KeyDown(key))
	}

	// Buttons are replayed from events so a press and release inside one
	// frame still produce both edges.
	for _, ev := range src.TakeButtonEvents() {
		if ev.Button < MouseButtonLeft || ev.Button > MouseButtonMiddle {
			continue
		}
		input.transition(ev.Button, ev.Pressed)
	}

	input.MouseX, input.MouseY = src.CursorPos()
	input.ScrollX, input.ScrollY = src.TakeScroll()
	input.WindowWidth, input.WindowHeight = src.Size()
}

func (input *Input) transition(slot int, down bool) {
	if down {
		if !input.Pressed[slot] {
			input.JustPressed[slot] = true
		}
		input.Pressed[slot] = true
		return
	}
	if input.Pressed[slot] {
		input.JustReleased[slot] = true
	}
	input.Pressed[slot] = false
}

var keyToGlfw = map[int]glfw.Key{
	KeyA:       glfw.KeyA,
	KeyD:       glfw.KeyD,
	KeyH:       glfw.KeyH,
	KeyR:       glfw.KeyR,
	KeyS:       glfw.KeyS,
	KeyW:       glfw.KeyW,
	KeyX:       glfw.KeyX,
	KeyY:       glfw.KeyY,
	KeyZ:       glfw.KeyZ,
	KeySpace:   glfw.KeySpace,
	KeyEnter:   glfw.KeyEnter,
	KeyEscape:  glfw.KeyEscape,
	KeyTab:     glfw.KeyTab,
	KeyShift:   glfw.KeyLeftShift,
	KeyControl: glfw.KeyLeftControl,
	KeyLeftAlt: glfw.KeyLeftAlt,
}

var mouseButtonFromGlfw = map[glfw.MouseButton]int{
	glfw.MouseButtonLeft:   MouseButtonLeft,
	glfw.MouseButtonRight:  MouseButtonRight,
	glfw.MouseButtonMiddle: MouseButtonMiddle,
}
