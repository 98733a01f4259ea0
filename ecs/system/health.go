package system

import (
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
	"github.com/milk9111/thirdperson/logger"
)

// HealthSystem announces every Health once, on the first tick after the
// entity appears, so the HUD can show the starting value.
type HealthSystem struct{}

func NewHealthSystem() *HealthSystem { return &HealthSystem{} }

func (s *HealthSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.HealthComponent.Kind(), func(e ecs.Entity, h *component.Health) {
		if h.Announced {
			return
		}
		h.Announced = true
		publishHealth(w, e, h)
	})
}

// IsInvincible reports whether e took damage less than InvincibleTime ago.
func IsInvincible(w *ecs.World, e ecs.Entity) bool {
	h, ok := ecs.Get(w, e, component.HealthComponent.Kind())
	if !ok {
		return false
	}
	return isInvincible(h, w.Time())
}

func isInvincible(h *component.Health, now float64) bool {
	return now-h.LastDamageTime < h.InvincibleTime
}

// TakeDamage subtracts amount unless e is invincible. It reports whether the
// damage landed.
func TakeDamage(w *ecs.World, e ecs.Entity, amount int) bool {
	h, ok := ecs.Get(w, e, component.HealthComponent.Kind())
	if !ok {
		return false
	}
	now := w.Time()
	if isInvincible(h, now) {
		return false
	}

	h.Current -= max(amount, 0)
	if h.Current < 0 {
		h.Current = 0
	}
	h.LastDamageTime = now
	publishHealth(w, e, h)

	if h.Current == 0 {
		logger.For("health").Info("health depleted", "entity", e)
	}
	return true
}

// Heal adds amount, capped at Max.
func Heal(w *ecs.World, e ecs.Entity, amount int) bool {
	h, ok := ecs.Get(w, e, component.HealthComponent.Kind())
	if !ok {
		return false
	}
	h.Current = min(h.Current+max(amount, 0), h.Max)
	publishHealth(w, e, h)
	return true
}

func publishHealth(w *ecs.World, e ecs.Entity, h *component.Health) {
	w.Publish(ecs.Event{
		Type: ecs.EventHealthChanged,
		Data: ecs.HealthChanged{Entity: e, Current: h.Current, Max: h.Max},
	})
}
