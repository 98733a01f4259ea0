package component

import "image/color"

// DamageFlash pulses Tint between Base and Flash while the entity is
// invincible.
type DamageFlash struct {
	Speed float64
	Base  color.NRGBA
	Flash color.NRGBA
}

var DamageFlashComponent = NewComponent[DamageFlash]()

// Tint is the color renderers draw the entity with.
type Tint struct {
	Color color.NRGBA
}

var TintComponent = NewComponent[Tint]()
