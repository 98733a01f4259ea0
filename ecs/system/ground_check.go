package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

// GroundCheckSystem refreshes Motion.Grounded with a sphere query just
// below each controller's origin.
type GroundCheckSystem struct {
	query ShapeQuerier
}

func NewGroundCheckSystem(query ShapeQuerier) *GroundCheckSystem {
	return &GroundCheckSystem{query: query}
}

func (s *GroundCheckSystem) Update(w *ecs.World) {
	if s == nil || s.query == nil || w == nil {
		return
	}

	ecs.ForEach3(w, component.PlayerControllerComponent.Kind(), component.MotionComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pc *component.PlayerController, m *component.Motion, t *component.Transform) {
		center := mgl64.Vec3{t.X, t.Y - pc.GroundedOffset, t.Z}
		m.Grounded = s.query.CheckSphere(w, center, pc.GroundedRadius, pc.GroundLayers, e)
	})
}
