package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/thirdperson/common"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

// KnockbackSystem starts requested knockbacks and plays the active ones
// through the mover.
type KnockbackSystem struct {
	mover Mover
}

func NewKnockbackSystem(mover Mover) *KnockbackSystem {
	return &KnockbackSystem{mover: mover}
}

func (s *KnockbackSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	ecs.ForEach(w, component.KnockbackRequestComponent.Kind(), func(e ecs.Entity, req *component.KnockbackRequest) {
		ApplyKnockback(w, e, req.Direction)
		ecs.Remove(w, e, component.KnockbackRequestComponent.Kind())
	})

	dt := w.DeltaTime()
	if dt <= 0 {
		return
	}
	ecs.ForEach(w, component.KnockbackComponent.Kind(), func(e ecs.Entity, kb *component.Knockback) {
		if !kb.Active {
			return
		}
		if kb.Elapsed < kb.Duration {
			v := common.LerpVec(kb.Initial, mgl64.Vec3{}, kb.Elapsed/kb.Duration)
			if s.mover != nil {
				s.mover.Move(w, e, v.Mul(dt))
			}
			kb.Elapsed += dt
		}
		if kb.Elapsed >= kb.Duration {
			kb.Active = false
		}
	})
}

// ApplyKnockback starts a knockback along direction. It is ignored while one
// is already running.
func ApplyKnockback(w *ecs.World, e ecs.Entity, direction mgl64.Vec3) bool {
	kb, ok := ecs.Get(w, e, component.KnockbackComponent.Kind())
	if !ok || kb.Active {
		return false
	}

	var push mgl64.Vec3
	if direction.LenSqr() > 0 {
		push = direction.Normalize().Mul(kb.Force)
	}
	kb.Initial = push.Add(mgl64.Vec3{0, kb.UpwardForce, 0})
	kb.Elapsed = 0
	kb.Active = true

	w.Publish(ecs.Event{Type: ecs.EventKnockbackStarted, Data: ecs.KnockbackStarted{Entity: e}})
	return true
}

func IsKnockedBack(w *ecs.World, e ecs.Entity) bool {
	kb, ok := ecs.Get(w, e, component.KnockbackComponent.Kind())
	return ok && kb.Active
}
