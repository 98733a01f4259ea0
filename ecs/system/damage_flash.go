package system

import (
	"image/color"

	"github.com/milk9111/thirdperson/common"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

// DamageFlashSystem pulses the tint while the entity is invincible.
type DamageFlashSystem struct{}

func NewDamageFlashSystem() *DamageFlashSystem { return &DamageFlashSystem{} }

func (s *DamageFlashSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	now := w.Time()

	ecs.ForEach3(w, component.DamageFlashComponent.Kind(), component.TintComponent.Kind(), component.HealthComponent.Kind(), func(_ ecs.Entity, df *component.DamageFlash, tint *component.Tint, h *component.Health) {
		if !isInvincible(h, now) {
			tint.Color = df.Base
			return
		}
		tint.Color = lerpColor(df.Base, df.Flash, common.PingPong(now*df.Speed, 1))
	})
}

func lerpColor(a, b color.NRGBA, t float64) color.NRGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(common.Lerp(float64(x), float64(y), t) + 0.5)
	}
	return color.NRGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
