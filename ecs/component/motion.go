package component

import "github.com/go-gl/mathgl/mgl64"

// Motion is the controller's integration state. Only the controller systems
// write it, once per fixed step.
type Motion struct {
	Speed            float64
	AnimationBlend   float64
	TargetRotation   float64
	RotationVelocity float64
	VerticalVelocity float64

	JumpTimeoutDelta float64
	FallTimeoutDelta float64

	Grounded bool
	Jumping  bool
	FreeFall bool

	// LastVelocity is the velocity the mover actually applied on the
	// previous step, after collisions.
	LastVelocity mgl64.Vec3

	Initialized bool
}

var MotionComponent = NewComponent[Motion]()

// HorizontalSpeed is the XZ magnitude of the last applied velocity.
func (m *Motion) HorizontalSpeed() float64 {
	return mgl64.Vec3{m.LastVelocity[0], 0, m.LastVelocity[2]}.Len()
}
