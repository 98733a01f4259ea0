package component

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Transform is a world-space position plus a heading. Y is up, Yaw is in
// degrees with 0 facing +Z and positive values turning toward +X.
type Transform struct {
	X   float64
	Y   float64
	Z   float64
	Yaw float64
}

var TransformComponent = NewComponent[Transform]()

func (t *Transform) Position() mgl64.Vec3 {
	return mgl64.Vec3{t.X, t.Y, t.Z}
}

func (t *Transform) SetPosition(p mgl64.Vec3) {
	t.X, t.Y, t.Z = p[0], p[1], p[2]
}

// Forward returns the unit facing vector on the XZ plane.
func (t *Transform) Forward() mgl64.Vec3 {
	return YawDirection(t.Yaw)
}

// YawDirection converts a heading in degrees to a unit vector on the XZ
// plane.
func YawDirection(yawDeg float64) mgl64.Vec3 {
	r := mgl64.DegToRad(yawDeg)
	return mgl64.Vec3{math.Sin(r), 0, math.Cos(r)}
}
