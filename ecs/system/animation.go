package system

import (
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

// AnimationSystem publishes controller state as animator parameters.
type AnimationSystem struct{}

func NewAnimationSystem() *AnimationSystem { return &AnimationSystem{} }

func (s *AnimationSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach2(w, component.AnimatorComponent.Kind(), component.MotionComponent.Kind(), func(e ecs.Entity, anim *component.Animator, m *component.Motion) {
		anim.Speed = m.AnimationBlend
		anim.Grounded = m.Grounded
		anim.Jump = m.Jumping
		anim.FreeFall = m.FreeFall
		anim.MotionSpeed = 0
		if in, ok := ecs.Get(w, e, component.InputComponent.Kind()); ok {
			anim.MotionSpeed = in.MoveMagnitude()
		}
	})
}
