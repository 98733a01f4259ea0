package component

import "math"

// Input is the per-frame input snapshot the controller reads. InputSystem
// overwrites the analog fields every frame. JumpPressed is latched until the
// controller consumes it.
type Input struct {
	MoveX float64
	MoveY float64

	LookX float64
	LookY float64

	JumpPressed bool
	Sprint      bool
}

var InputComponent = NewComponent[Input]()

// MoveMagnitude returns the length of the move vector clamped to 1.
func (in *Input) MoveMagnitude() float64 {
	m := in.MoveX*in.MoveX + in.MoveY*in.MoveY
	if m >= 1 {
		return 1
	}
	return math.Sqrt(m)
}

func (in *Input) HasMove() bool {
	return in.MoveX != 0 || in.MoveY != 0
}
