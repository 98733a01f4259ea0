package system

import (
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

const hazardMask = component.LayerHazard | component.LayerEnemy

// HazardSystem damages entities with Health that touch a Hazard and asks
// for a knockback away from it. Trigger hazards hurt on overlap; solid ones
// hurt when the mover ran into them this step.
type HazardSystem struct {
	query ShapeQuerier
}

func NewHazardSystem(query ShapeQuerier) *HazardSystem {
	return &HazardSystem{query: query}
}

func (s *HazardSystem) Update(w *ecs.World) {
	if s == nil || s.query == nil || w == nil {
		return
	}

	ecs.ForEach2(w, component.HealthComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.Health, t *component.Transform) {
		for _, other := range s.touching(w, e) {
			hz, ok := ecs.Get(w, other, component.HazardComponent.Kind())
			if !ok {
				continue
			}
			if !TakeDamage(w, e, hz.Amount) {
				continue
			}
			ht, _ := ecs.Get(w, other, component.TransformComponent.Kind())
			_ = ecs.Add(w, e, component.KnockbackRequestComponent.Kind(), &component.KnockbackRequest{
				Direction: knockbackDirection(t, ht),
			})
		}
	})
}

func (s *HazardSystem) touching(w *ecs.World, e ecs.Entity) []ecs.Entity {
	touching := s.query.Overlapping(w, e, hazardMask)
	contacts, ok := s.query.(ContactReporter)
	if !ok {
		return touching
	}
	for _, other := range contacts.Contacts(e) {
		col, ok := ecs.Get(w, other, component.ColliderComponent.Kind())
		if !ok || col.Layer&hazardMask == 0 || slices.Contains(touching, other) {
			continue
		}
		touching = append(touching, other)
	}
	return touching
}

// knockbackDirection points from the hazard to the victim on the XZ plane.
// It falls back to the victim's back when the two are stacked.
func knockbackDirection(victim, hazard *component.Transform) mgl64.Vec3 {
	if hazard != nil {
		d := mgl64.Vec3{victim.X - hazard.X, 0, victim.Z - hazard.Z}
		if d.LenSqr() > 1e-8 {
			return d.Normalize()
		}
	}
	return victim.Forward().Mul(-1)
}
