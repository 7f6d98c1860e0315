package meshview

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Light is the single point light of the lit program. The basic program draws
// a small marker cube at Position in Color.
type Light struct {
	Position mgl32.Vec3
	Color    mgl32.Vec3
	Ambient  float32
	Specular float32
	// MarkerScale is the edge length of the marker cube.
	MarkerScale float32
}

func DefaultLight() *Light {
	return &Light{
		Position:    mgl32.Vec3{1.2, 1.0, 2.0},
		Color:       mgl32.Vec3{1, 1, 1},
		Ambient:     0.1,
		Specular:    0.5,
		MarkerScale: 0.1,
	}
}

func (l *Light) MarkerMatrix() mgl32.Mat4 {
	return mgl32.Translate3D(l.Position.X(), l.Position.Y(), l.Position.Z()).
		Mul4(mgl32.Scale3D(l.MarkerScale, l.MarkerScale, l.MarkerScale))
}
