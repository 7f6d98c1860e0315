package meshview

import (
	"github.com/go-gl/mathgl/mgl32"
)

// MotionMode is the drag behaviour selected from the modifier snapshot.
type MotionMode int

const (
	ModeNone MotionMode = iota
	ModeOrbit
	ModeOrbitLockX
	ModeOrbitLockY
	ModePan
	ModePanLockX
	ModePanLockY
)

func (m MotionMode) String() string {
	switch m {
	case ModeOrbit:
		return "orbit"
	case ModeOrbitLockX:
		return "orbit (x)"
	case ModeOrbitLockY:
		return "orbit (y)"
	case ModePan:
		return "pan"
	case ModePanLockX:
		return "pan (x)"
	case ModePanLockY:
		return "pan (y)"
	default:
		return "idle"
	}
}

// Modifiers is the modifier-key snapshot for one frame.
type Modifiers struct {
	LockX bool
	LockY bool
	Pan   bool
}

// selectMode picks exactly one mode. X lock wins when both locks are held.
func selectMode(m Modifiers) MotionMode {
	switch {
	case m.Pan && m.LockX:
		return ModePanLockX
	case m.Pan && m.LockY:
		return ModePanLockY
	case m.Pan:
		return ModePan
	case m.LockX:
		return ModeOrbitLockX
	case m.LockY:
		return ModeOrbitLockY
	default:
		return ModeOrbit
	}
}

// dragDelta is the pointer movement since the drag anchor together with the
// window size the pointer coordinates are measured in.
type dragDelta struct {
	MoveX, MoveY  float32
	Width, Height float32
}

type motionGains struct {
	Orbit float32
	Pan   float32
}

// motion maps the committed pose and the drag delta to the live pose.
type motion func(d dragDelta, committed Pose, g motionGains) Pose

var motions = map[MotionMode]motion{
	ModeOrbit: func(d dragDelta, c Pose, g motionGains) Pose {
		return orbit(c, g.Orbit*d.MoveY, g.Orbit*d.MoveX)
	},
	ModeOrbitLockX: func(d dragDelta, c Pose, g motionGains) Pose {
		return orbit(c, 0, g.Orbit*d.MoveX)
	},
	ModeOrbitLockY: func(d dragDelta, c Pose, g motionGains) Pose {
		return orbit(c, g.Orbit*d.MoveY, 0)
	},
	ModePan: func(d dragDelta, c Pose, g motionGains) Pose {
		dx, dy := panOffset(d, g.Pan)
		return pan(c, dx, dy)
	},
	ModePanLockX: func(d dragDelta, c Pose, g motionGains) Pose {
		dx, _ := panOffset(d, g.Pan)
		return pan(c, dx, 0)
	},
	ModePanLockY: func(d dragDelta, c Pose, g motionGains) Pose {
		_, dy := panOffset(d, g.Pan)
		return pan(c, 0, dy)
	},
}

func orbit(c Pose, dPitch, dYaw float32) Pose {
	p := c
	p.Orientation.Pitch = c.Orientation.Pitch + dPitch
	p.Orientation.Yaw = c.Orientation.Yaw + dYaw
	return p
}

func pan(c Pose, dx, dy float32) Pose {
	offset := mgl32.Vec3{dx, dy, 0}
	p := c
	p.Translation.Camera = c.Translation.Camera.Add(offset)
	p.Translation.Model = c.Translation.Model.Add(offset)
	return p
}

// panOffset converts pointer movement into a world offset for the eye and
// target. Dragging right moves the eye left so the scene follows the pointer;
// window Y grows downward.
func panOffset(d dragDelta, gain float32) (float32, float32) {
	w, h := d.Width, d.Height
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return -d.MoveX / w * gain, d.MoveY / h * gain
}
