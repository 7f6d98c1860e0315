package meshview

import (
	"github.com/go-gl/mathgl/mgl32"
)

// SessionState is Idle between drags and Dragging while the drag button is
// held after a press edge.
type SessionState int

const (
	Idle SessionState = iota
	Dragging
)

func (s SessionState) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Orientation is in degrees.
type Orientation struct {
	Pitch float32
	Yaw   float32
}

// Translation holds the eye and the look-at target. Pan moves both by the
// same offset; their Z is owned by Depth.
type Translation struct {
	Camera mgl32.Vec3
	Model  mgl32.Vec3
}

// Depth is the Z of the eye and of the target, driven only by scrolling.
type Depth struct {
	Camera float32
	Model  float32
}

// Pose is what a drag changes; committed and live are both poses.
type Pose struct {
	Orientation Orientation
	Translation Translation
}

// DragAnchor is the pointer position at the press edge, in window pixels.
type DragAnchor struct {
	X, Y float64
}

var (
	homeCamera = mgl32.Vec3{0, 0, 1.5}
	homeModel  = mgl32.Vec3{0, 0, 0}
	worldUp    = mgl32.Vec3{0, 1, 0}
)

// HomePose is zero rotation with the eye at (0, 0, 1.5) looking at the origin.
func HomePose() Pose {
	return Pose{
		Translation: Translation{Camera: homeCamera, Model: homeModel},
	}
}

// HomeDepth matches the Z of HomePose.
func HomeDepth() Depth {
	return Depth{Camera: homeCamera.Z(), Model: homeModel.Z()}
}

// Bindings are Input slots.
type Bindings struct {
	Drag  int
	Reset int
	LockX int
	LockY int
	Pan   int
}

func DefaultBindings() Bindings {
	return Bindings{
		Drag:  MouseButtonLeft,
		Reset: MouseButtonMiddle,
		LockX: KeyX,
		LockY: KeyY,
		Pan:   KeyShift,
	}
}

type SessionConfig struct {
	// OrbitGain is degrees per pixel of drag.
	OrbitGain float32
	// PanGain is world units per full window width/height of drag.
	PanGain float32
	// ScrollGain is world units of depth per scroll step.
	ScrollGain float32
	Bindings   Bindings
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		OrbitGain:  0.2,
		PanGain:    2.0,
		ScrollGain: 0.1,
		Bindings:   DefaultBindings(),
	}
}

// TransformSession turns per-frame input snapshots into the model and view
// transforms. Live state is always committed + scaled(drag delta); committed
// state only advances on drag release and reset.
type TransformSession struct {
	cfg    SessionConfig
	logger Logger

	state     SessionState
	mode      MotionMode
	anchor    DragAnchor
	live      Pose
	committed Pose
	depth     Depth
}

func NewTransformSession(cfg SessionConfig, logger Logger) *TransformSession {
	if logger == nil {
		logger = NewNopLogger()
	}
	s := &TransformSession{cfg: cfg, logger: logger}
	s.reset()
	return s
}

// Update applies one frame of input: scroll, drag press, drag hold, drag
// release, then reset, in that order.
func (s *TransformSession) Update(in *Input) {
	b := s.cfg.Bindings

	if in.ScrollY != 0 {
		dz := -float32(in.ScrollY) * s.cfg.ScrollGain
		s.depth.Camera += dz
		s.depth.Model += dz
	}

	// A release and a new press inside one frame with the button ending held
	// is a regrab: beginDrag commits the old drag and the release is consumed.
	regrab := in.JustPressed[b.Drag] && in.JustReleased[b.Drag] && in.Pressed[b.Drag]

	if in.JustPressed[b.Drag] {
		s.beginDrag(in.MouseX, in.MouseY)
	}

	s.mode = ModeNone
	if s.state == Dragging && in.Pressed[b.Drag] {
		s.mode = selectMode(Modifiers{
			LockX: in.Pressed[b.LockX],
			LockY: in.Pressed[b.LockY],
			Pan:   in.Pressed[b.Pan],
		})
		d := dragDelta{
			MoveX:  float32(in.MouseX - s.anchor.X),
			MoveY:  float32(in.MouseY - s.anchor.Y),
			Width:  float32(in.WindowWidth),
			Height: float32(in.WindowHeight),
		}
		s.live = motions[s.mode](d, s.committed, motionGains{Orbit: s.cfg.OrbitGain, Pan: s.cfg.PanGain})
	}

	if in.JustReleased[b.Drag] && !regrab && s.state == Dragging {
		s.commit()
		s.state = Idle
	}

	if in.JustPressed[b.Reset] {
		s.reset()
		s.logger.Debugf("transform reset to home pose")
	}

	s.live.Translation.Camera[2] = s.depth.Camera
	s.live.Translation.Model[2] = s.depth.Model
}

func (s *TransformSession) beginDrag(x, y float64) {
	if s.state == Dragging {
		// The release was never seen, or came in the same frame as this
		// press; keep what the user dragged to.
		s.commit()
	}
	s.anchor = DragAnchor{X: x, Y: y}
	s.live = s.committed
	s.state = Dragging
	s.logger.Debugf("drag started at (%.1f, %.1f)", x, y)
}

func (s *TransformSession) commit() {
	s.committed = s.live
	s.logger.Debugf("drag committed: pitch=%.2f yaw=%.2f", s.committed.Orientation.Pitch, s.committed.Orientation.Yaw)
}

func (s *TransformSession) reset() {
	s.state = Idle
	s.mode = ModeNone
	s.anchor = DragAnchor{}
	s.live = HomePose()
	s.committed = HomePose()
	s.depth = HomeDepth()
}

func (s *TransformSession) State() SessionState { return s.state }
func (s *TransformSession) Mode() MotionMode     { return s.mode }
func (s *TransformSession) Anchor() DragAnchor   { return s.anchor }
func (s *TransformSession) Live() Pose           { return s.live }
func (s *TransformSession) Committed() Pose      { return s.committed }
func (s *TransformSession) Depth() Depth         { return s.depth }

func (s *TransformSession) CameraPosition() mgl32.Vec3 {
	return s.live.Translation.Camera
}

func (s *TransformSession) ModelPosition() mgl32.Vec3 {
	return s.live.Translation.Model
}

// ModelMatrix rotates about the origin: pitch about X first, then yaw about Y.
func (s *TransformSession) ModelMatrix() mgl32.Mat4 {
	pitch := mgl32.HomogRotate3DX(mgl32.DegToRad(s.live.Orientation.Pitch))
	yaw := mgl32.HomogRotate3DY(mgl32.DegToRad(s.live.Orientation.Yaw))
	return yaw.Mul4(pitch)
}

// ViewMatrix looks from the camera position at the model position.
func (s *TransformSession) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(s.CameraPosition(), s.ModelPosition(), worldUp)
}
