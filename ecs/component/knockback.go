package component

import "github.com/go-gl/mathgl/mgl64"

// Knockback is a timed displacement that decays linearly to zero. Only one
// runs at a time per entity.
type Knockback struct {
	Force       float64
	UpwardForce float64
	Duration    float64

	Active  bool
	Elapsed float64
	Initial mgl64.Vec3
}

var KnockbackComponent = NewComponent[Knockback]()

func DefaultKnockback() Knockback {
	return Knockback{Force: 5, UpwardForce: 2, Duration: 0.3}
}

// KnockbackRequest is a one-shot request consumed by KnockbackSystem.
type KnockbackRequest struct {
	Direction mgl64.Vec3
}

var KnockbackRequestComponent = NewComponent[KnockbackRequest]()
