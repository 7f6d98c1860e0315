package meshview

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-4

// frameDriver feeds a session the same kind of snapshots inputSystem builds.
type frameDriver struct {
	t       *testing.T
	session *TransformSession
	in      Input
}

func newFrameDriver(t *testing.T) *frameDriver {
	return &frameDriver{
		t:       t,
		session: NewTransformSession(DefaultSessionConfig(), nil),
		in:      Input{WindowWidth: 800, WindowHeight: 600},
	}
}

func (d *frameDriver) step(mutate func(in *Input)) {
	d.in.JustPressed = [inputSlots]bool{}
	d.in.JustReleased = [inputSlots]bool{}
	d.in.ScrollX, d.in.ScrollY = 0, 0
	if mutate != nil {
		mutate(&d.in)
	}
	d.session.Update(&d.in)
}

func (d *frameDriver) press(button int, x, y float64) {
	d.step(func(in *Input) {
		in.MouseX, in.MouseY = x, y
		in.Pressed[button] = true
		in.JustPressed[button] = true
	})
}

func (d *frameDriver) hold(x, y float64) {
	d.step(func(in *Input) {
		in.MouseX, in.MouseY = x, y
	})
}

func (d *frameDriver) release(button int) {
	d.step(func(in *Input) {
		in.Pressed[button] = false
		in.JustReleased[button] = true
	})
}

func (d *frameDriver) key(slot int, down bool) {
	d.in.Pressed[slot] = down
}

func (d *frameDriver) scroll(dy float64) {
	d.step(func(in *Input) {
		in.ScrollY = dy
	})
}

// drag presses at (x, y), holds at (x+dx, y+dy) and releases.
func (d *frameDriver) drag(x, y, dx, dy float64) {
	d.press(MouseButtonLeft, x, y)
	d.hold(x+dx, y+dy)
	d.release(MouseButtonLeft)
}

func TestTransformSession_StartsAtHome(t *testing.T) {
	s := NewTransformSession(DefaultSessionConfig(), nil)

	assert.Equal(t, Idle, s.State())
	assert.Equal(t, ModeNone, s.Mode())
	assert.Equal(t, HomePose(), s.Live())
	assert.Equal(t, HomePose(), s.Committed())
	assert.Equal(t, Depth{Camera: 1.5, Model: 0}, s.Depth())
	assert.Equal(t, mgl32.Vec3{0, 0, 1.5}, s.CameraPosition())
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, s.ModelPosition())
	assert.True(t, s.ModelMatrix().ApproxEqual(mgl32.Ident4()))
}

func TestTransformSession_OrbitDrag(t *testing.T) {
	d := newFrameDriver(t)

	d.press(MouseButtonLeft, 100, 100)
	assert.Equal(t, Dragging, d.session.State())
	assert.Equal(t, DragAnchor{X: 100, Y: 100}, d.session.Anchor())

	d.hold(150, 130)
	assert.Equal(t, ModeOrbit, d.session.Mode())
	assert.InDelta(t, 10.0, d.session.Live().Orientation.Yaw, eps)
	assert.InDelta(t, 6.0, d.session.Live().Orientation.Pitch, eps)
	assert.Equal(t, HomePose(), d.session.Committed(), "committed must not move during a hold")

	// Motion is measured from the anchor, not integrated.
	d.hold(150, 130)
	assert.InDelta(t, 10.0, d.session.Live().Orientation.Yaw, eps)
	d.hold(120, 100)
	assert.InDelta(t, 4.0, d.session.Live().Orientation.Yaw, eps)
	assert.InDelta(t, 0.0, d.session.Live().Orientation.Pitch, eps)

	d.release(MouseButtonLeft)
	assert.Equal(t, Idle, d.session.State())
	assert.InDelta(t, 4.0, d.session.Committed().Orientation.Yaw, eps)
}

func TestTransformSession_DriftFreeRedrag(t *testing.T) {
	cases := []struct {
		a, b, c, d float64
	}{
		{50, 30, 20, -10},
		{-75, 12, 75, -12},
		{0, 0, 33, 44},
		{123.5, -7.25, 1, 1},
	}
	for _, tc := range cases {
		d := newFrameDriver(t)
		d.drag(200, 200, tc.a, tc.b)
		// The second drag starts somewhere else entirely; only movement counts.
		d.drag(600, 20, tc.c, tc.d)

		live := d.session.Live().Orientation
		assert.InDelta(t, 0.2*(tc.a+tc.c), live.Yaw, eps)
		assert.InDelta(t, 0.2*(tc.b+tc.d), live.Pitch, eps)
		assert.Equal(t, d.session.Live(), d.session.Committed())
	}
}

func TestTransformSession_IdempotentRelease(t *testing.T) {
	d := newFrameDriver(t)
	d.drag(10, 10, 40, 20)
	committed := d.session.Committed()

	d.hold(500, 500)
	d.release(MouseButtonLeft)

	assert.Equal(t, committed, d.session.Committed())
	assert.Equal(t, committed, d.session.Live())
	assert.Equal(t, Idle, d.session.State())
}

func TestTransformSession_HoldWithoutPressIsIgnored(t *testing.T) {
	d := newFrameDriver(t)
	d.step(func(in *Input) {
		in.Pressed[MouseButtonLeft] = true
		in.MouseX, in.MouseY = 300, 300
	})

	assert.Equal(t, Idle, d.session.State())
	assert.Equal(t, HomePose(), d.session.Live())
}

func TestTransformSession_ZeroMotionPressRelease(t *testing.T) {
	d := newFrameDriver(t)
	d.drag(0, 0, 25, -5)
	before := d.session.Committed()

	// Press and release inside one frame: both edges, button up at sample time.
	d.step(func(in *Input) {
		in.MouseX, in.MouseY = 700, 10
		in.JustPressed[MouseButtonLeft] = true
		in.JustReleased[MouseButtonLeft] = true
		in.Pressed[MouseButtonLeft] = false
	})

	assert.Equal(t, before, d.session.Committed())
	assert.Equal(t, before, d.session.Live())
	assert.Equal(t, Idle, d.session.State())
	assert.Equal(t, ModeNone, d.session.Mode())
}

func TestTransformSession_AxisLockX(t *testing.T) {
	d := newFrameDriver(t)
	d.drag(0, 0, 10, 10)
	committed := d.session.Committed().Orientation

	d.key(KeyX, true)
	d.press(MouseButtonLeft, 100, 100)
	d.hold(150, 130)

	assert.Equal(t, ModeOrbitLockX, d.session.Mode())
	assert.InDelta(t, committed.Yaw+0.2*50, d.session.Live().Orientation.Yaw, eps)
	assert.Equal(t, committed.Pitch, d.session.Live().Orientation.Pitch)
}

func TestTransformSession_AxisLockY(t *testing.T) {
	d := newFrameDriver(t)
	d.key(KeyY, true)
	d.press(MouseButtonLeft, 100, 100)
	d.hold(150, 130)

	assert.Equal(t, ModeOrbitLockY, d.session.Mode())
	assert.Equal(t, float32(0), d.session.Live().Orientation.Yaw)
	assert.InDelta(t, 0.2*30, d.session.Live().Orientation.Pitch, eps)
}

func TestTransformSession_BothLocksPreferX(t *testing.T) {
	d := newFrameDriver(t)
	d.key(KeyX, true)
	d.key(KeyY, true)
	d.press(MouseButtonLeft, 0, 0)
	d.hold(50, 30)

	assert.Equal(t, ModeOrbitLockX, d.session.Mode())
	assert.Equal(t, float32(0), d.session.Live().Orientation.Pitch)
}

func TestTransformSession_LockChangesMidDrag(t *testing.T) {
	d := newFrameDriver(t)
	d.press(MouseButtonLeft, 0, 0)
	d.key(KeyX, true)
	d.hold(50, 30)
	assert.Equal(t, float32(0), d.session.Live().Orientation.Pitch)

	// Releasing the lock mid-drag lets both axes follow the full movement.
	d.key(KeyX, false)
	d.hold(50, 30)
	assert.InDelta(t, 10.0, d.session.Live().Orientation.Yaw, eps)
	assert.InDelta(t, 6.0, d.session.Live().Orientation.Pitch, eps)
}

func TestTransformSession_Pan(t *testing.T) {
	d := newFrameDriver(t)
	d.key(KeyShift, true)
	d.press(MouseButtonLeft, 400, 300)
	d.hold(600, 450)

	assert.Equal(t, ModePan, d.session.Mode())
	// 200px of an 800px window, 150px of a 600px window, gain 2.
	assert.InDelta(t, -0.5, d.session.CameraPosition().X(), eps)
	assert.InDelta(t, 0.5, d.session.CameraPosition().Y(), eps)
	assert.InDelta(t, -0.5, d.session.ModelPosition().X(), eps)
	assert.InDelta(t, 0.5, d.session.ModelPosition().Y(), eps)
	assert.Equal(t, Orientation{}, d.session.Live().Orientation, "pan must not rotate")

	// Camera and model move rigidly: the look direction is unchanged.
	dir := d.session.ModelPosition().Sub(d.session.CameraPosition())
	assert.True(t, dir.ApproxEqual(mgl32.Vec3{0, 0, -1.5}))

	d.release(MouseButtonLeft)
	assert.InDelta(t, -0.5, d.session.Committed().Translation.Camera.X(), eps)
}

func TestTransformSession_PanIsResolutionIndependent(t *testing.T) {
	small := newFrameDriver(t)
	small.in.WindowWidth, small.in.WindowHeight = 400, 300
	large := newFrameDriver(t)
	large.in.WindowWidth, large.in.WindowHeight = 1600, 1200

	for _, d := range []*frameDriver{small, large} {
		d.key(KeyShift, true)
	}
	small.drag(0, 0, 100, 75)
	large.drag(0, 0, 400, 300)

	assert.True(t, small.session.CameraPosition().ApproxEqualThreshold(large.session.CameraPosition(), eps))
}

func TestTransformSession_PanAxisLocks(t *testing.T) {
	d := newFrameDriver(t)
	d.key(KeyShift, true)
	d.key(KeyX, true)
	d.press(MouseButtonLeft, 0, 0)
	d.hold(400, 300)
	assert.Equal(t, ModePanLockX, d.session.Mode())
	assert.InDelta(t, -1.0, d.session.CameraPosition().X(), eps)
	assert.Equal(t, float32(0), d.session.CameraPosition().Y())
	d.release(MouseButtonLeft)

	d.key(KeyX, false)
	d.key(KeyY, true)
	d.press(MouseButtonLeft, 0, 0)
	d.hold(400, 300)
	assert.Equal(t, ModePanLockY, d.session.Mode())
	assert.InDelta(t, -1.0, d.session.CameraPosition().X(), eps, "x stays at the committed value")
	assert.InDelta(t, 1.0, d.session.CameraPosition().Y(), eps)
}

func TestTransformSession_ZeroSizedWindowPan(t *testing.T) {
	d := newFrameDriver(t)
	d.in.WindowWidth, d.in.WindowHeight = 0, 0
	d.key(KeyShift, true)
	d.drag(0, 0, 1, 1)

	pos := d.session.CameraPosition()
	assert.False(t, isNaN(pos.X()) || isNaN(pos.Y()))
}

func isNaN(f float32) bool { return f != f }

func TestTransformSession_ScrollIndependence(t *testing.T) {
	d := newFrameDriver(t)
	d.press(MouseButtonLeft, 0, 0)
	d.hold(50, 30)
	pose := d.session.Live()

	d.step(func(in *Input) {
		in.ScrollY = 2
	})
	live := d.session.Live()
	assert.Equal(t, pose.Orientation, live.Orientation)
	assert.Equal(t, pose.Translation.Camera.Vec2(), live.Translation.Camera.Vec2())
	assert.InDelta(t, 1.3, d.session.CameraPosition().Z(), eps)
	assert.InDelta(t, -0.2, d.session.ModelPosition().Z(), eps)

	d.release(MouseButtonLeft)
	d.drag(0, 0, 5, 5)
	assert.InDelta(t, 1.3, d.session.Depth().Camera, eps, "depth survives release and press")
	assert.InDelta(t, -0.2, d.session.Depth().Model, eps)
	assert.InDelta(t, 1.3, d.session.CameraPosition().Z(), eps)
}

func TestTransformSession_ScrollAccumulates(t *testing.T) {
	d := newFrameDriver(t)
	d.scroll(1)
	d.scroll(1)
	d.scroll(-3)

	assert.InDelta(t, 1.6, d.session.Depth().Camera, eps)
	assert.InDelta(t, 0.1, d.session.Depth().Model, eps)
	// Zoom keeps the eye-target distance; it moves both along Z.
	assert.InDelta(t, 1.5, d.session.CameraPosition().Sub(d.session.ModelPosition()).Len(), eps)
}

func TestTransformSession_ResetIsAbsolute(t *testing.T) {
	d := newFrameDriver(t)
	d.drag(0, 0, 90, -40)
	d.key(KeyShift, true)
	d.drag(0, 0, 100, 100)
	d.key(KeyShift, false)
	d.scroll(4)

	d.press(MouseButtonMiddle, 10, 10)
	d.release(MouseButtonMiddle)

	s := d.session
	assert.Equal(t, Orientation{}, s.Live().Orientation)
	assert.Equal(t, Orientation{}, s.Committed().Orientation)
	assert.Equal(t, mgl32.Vec3{0, 0, 1.5}, s.CameraPosition())
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, s.ModelPosition())
	assert.Equal(t, HomeDepth(), s.Depth())
	assert.Equal(t, DragAnchor{}, s.Anchor())

	// The next drag behaves as in a fresh session.
	fresh := newFrameDriver(t)
	d.drag(300, 300, 50, 30)
	fresh.drag(300, 300, 50, 30)
	assert.Equal(t, fresh.session.Live(), s.Live())
	assert.Equal(t, fresh.session.Committed(), s.Committed())
}

func TestTransformSession_ResetWinsOverDrag(t *testing.T) {
	d := newFrameDriver(t)
	d.press(MouseButtonLeft, 0, 0)
	d.hold(100, 100)

	d.step(func(in *Input) {
		in.MouseX, in.MouseY = 200, 200
		in.Pressed[MouseButtonMiddle] = true
		in.JustPressed[MouseButtonMiddle] = true
	})
	require.Equal(t, Idle, d.session.State())
	assert.Equal(t, HomePose(), d.session.Live())

	// Left is still held from before the reset: no stale anchor may apply.
	d.hold(400, 400)
	assert.Equal(t, HomePose(), d.session.Live())
	d.release(MouseButtonLeft)
	assert.Equal(t, HomePose(), d.session.Committed())
}

func TestTransformSession_PressWhileDraggingKeepsProgress(t *testing.T) {
	d := newFrameDriver(t)
	d.press(MouseButtonLeft, 0, 0)
	d.hold(50, 0)

	// A lost release: the next press arrives while still dragging.
	d.press(MouseButtonLeft, 500, 500)
	assert.InDelta(t, 10.0, d.session.Committed().Orientation.Yaw, eps)
	d.hold(510, 500)
	assert.InDelta(t, 12.0, d.session.Live().Orientation.Yaw, eps)
}

func TestTransformSession_CustomConfig(t *testing.T) {
	cfg := DefaultSessionConfig()
	cfg.OrbitGain = 1
	cfg.Bindings.Drag = MouseButtonRight
	s := NewTransformSession(cfg, nil)

	in := &Input{}
	in.Pressed[MouseButtonRight] = true
	in.JustPressed[MouseButtonRight] = true
	s.Update(in)

	in.JustPressed = [inputSlots]bool{}
	in.MouseX = 15
	s.Update(in)

	assert.InDelta(t, 15.0, s.Live().Orientation.Yaw, eps)
}

func TestTransformSession_ModelMatrix(t *testing.T) {
	d := newFrameDriver(t)
	d.drag(0, 0, 450, 0) // yaw 90

	// A point in front of the model swings to +X.
	p := d.session.ModelMatrix().Mul4x1(mgl32.Vec4{0, 0, 1, 1})
	assert.True(t, p.Vec3().ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, eps), "got %v", p)

	d.key(KeyY, true)
	d.drag(0, 0, 0, 450) // pitch 90
	// Pitch applies before yaw: the top of the model tips toward the viewer
	// and then swings with the yaw.
	p = d.session.ModelMatrix().Mul4x1(mgl32.Vec4{0, 1, 0, 1})
	assert.True(t, p.Vec3().ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, eps), "got %v", p)
}

func TestTransformSession_ViewMatrix(t *testing.T) {
	d := newFrameDriver(t)
	want := mgl32.LookAtV(mgl32.Vec3{0, 0, 1.5}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	assert.True(t, d.session.ViewMatrix().ApproxEqual(want))

	d.scroll(5)
	// The origin is now 1.5 - 0.5 = 1.0 in front of the eye.
	origin := d.session.ViewMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, -1.0, origin.Z(), eps)
}

func TestTransformSession_RegrabInOneFrameKeepsDragging(t *testing.T) {
	src := newFakeInputSource()
	input := &Input{}
	s := NewTransformSession(DefaultSessionConfig(), nil)
	frame := func(x float64, events ...ButtonEvent) {
		src.x = x
		src.buttons = events
		input.Sample(src)
		s.Update(input)
	}

	frame(0, ButtonEvent{Button: MouseButtonLeft, Pressed: true})
	frame(50)
	require.InDelta(t, 10, s.Live().Orientation.Yaw, eps)

	frame(50,
		ButtonEvent{Button: MouseButtonLeft, Pressed: false},
		ButtonEvent{Button: MouseButtonLeft, Pressed: true},
	)
	require.True(t, input.Pressed[MouseButtonLeft])
	assert.Equal(t, Dragging, s.State())
	assert.InDelta(t, 10, s.Committed().Orientation.Yaw, eps)
	assert.Equal(t, DragAnchor{X: 50}, s.Anchor())

	frame(100)
	assert.Equal(t, Dragging, s.State())
	assert.InDelta(t, 20, s.Live().Orientation.Yaw, eps)

	frame(100, ButtonEvent{Button: MouseButtonLeft, Pressed: false})
	assert.Equal(t, Idle, s.State())
	assert.InDelta(t, 20, s.Committed().Orientation.Yaw, eps)
}

func TestTransformSession_PressAndReleaseInOneFrameThroughSample(t *testing.T) {
	src := newFakeInputSource()
	input := &Input{}
	s := NewTransformSession(DefaultSessionConfig(), nil)

	src.x = 30
	src.buttons = []ButtonEvent{
		{Button: MouseButtonLeft, Pressed: true},
		{Button: MouseButtonLeft, Pressed: false},
	}
	input.Sample(src)
	s.Update(input)

	assert.Equal(t, Idle, s.State())
	assert.Equal(t, HomePose(), s.Committed())
}
