package component

import "math"

// Health tracks hit points and the invincibility window that follows damage.
type Health struct {
	Current int
	Max     int

	// InvincibleTime is the window, in seconds, after damage during which
	// further damage is ignored.
	InvincibleTime float64
	LastDamageTime float64

	// Announced is set once the initial change notification went out.
	Announced bool
}

var HealthComponent = NewComponent[Health]()

const DefaultMaxHealth = 3

func NewHealth(max int) Health {
	if max <= 0 {
		max = DefaultMaxHealth
	}
	return Health{
		Current:        max,
		Max:            max,
		InvincibleTime: 1.0,
		LastDamageTime: math.Inf(-1),
	}
}
