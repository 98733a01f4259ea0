package system

import (
	"math"

	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

// MovingBlockSystem bobs platforms vertically with a sine of game time.
// Their colliders should be kinematic so physics picks up the new height.
type MovingBlockSystem struct{}

func NewMovingBlockSystem() *MovingBlockSystem { return &MovingBlockSystem{} }

func (s *MovingBlockSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	now, dt := w.Time(), w.DeltaTime()

	ecs.ForEach2(w, component.MovingBlockComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, mb *component.MovingBlock, t *component.Transform) {
		t.Y += math.Sin(now*mb.Speed+mb.Phase) * mb.Amplitude * dt
	})
}
