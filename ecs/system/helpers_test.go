package system

import (
	"math"
	"testing"

	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

const fixedDT = 1.0 / 60.0

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func mustAdd[T any](t *testing.T, w *ecs.World, e ecs.Entity, kind component.ComponentKind[T], v *T) {
	t.Helper()
	if err := ecs.Add(w, e, kind, v); err != nil {
		t.Fatalf("add component: %v", err)
	}
}

// addBlock creates a static solid box whose top face is at top.
func addBlock(t *testing.T, w *ecs.World, x, top, z, width, height, depth float64) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	mustAdd(t, w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: top - height, Z: z})
	mustAdd(t, w, e, component.ColliderComponent.Kind(), &component.Collider{
		Width:  width,
		Height: height,
		Depth:  depth,
		Layer:  component.LayerGround,
	})
	return e
}

func addFloor(t *testing.T, w *ecs.World) ecs.Entity {
	t.Helper()
	return addBlock(t, w, 0, 0, 0, 40, 1, 40)
}

func addTrigger(t *testing.T, w *ecs.World, x, y, z float64, layer uint) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	mustAdd(t, w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y, Z: z})
	mustAdd(t, w, e, component.ColliderComponent.Kind(), &component.Collider{
		Width:   1,
		Height:  1,
		Depth:   1,
		Layer:   layer,
		Trigger: true,
	})
	return e
}

func defaultCharacterBody() *component.CharacterBody {
	return &component.CharacterBody{
		Radius:     0.5,
		Height:     2,
		StepHeight: 0.3,
		Layer:      component.LayerCharacter,
		SolidMask:  component.LayerGround,
	}
}

// addPlayer builds a controller entity standing at the given position.
func addPlayer(t *testing.T, w *ecs.World, x, y, z float64) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	health := component.NewHealth(component.DefaultMaxHealth)
	pc := component.DefaultPlayerController()
	kb := component.DefaultKnockback()
	mustAdd(t, w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
	mustAdd(t, w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y, Z: z})
	mustAdd(t, w, e, component.CharacterBodyComponent.Kind(), defaultCharacterBody())
	mustAdd(t, w, e, component.PlayerControllerComponent.Kind(), &pc)
	mustAdd(t, w, e, component.MotionComponent.Kind(), &component.Motion{})
	mustAdd(t, w, e, component.InputComponent.Kind(), &component.Input{})
	mustAdd(t, w, e, component.CameraStateComponent.Kind(), &component.CameraState{})
	mustAdd(t, w, e, component.HealthComponent.Kind(), &health)
	mustAdd(t, w, e, component.KnockbackComponent.Kind(), &kb)
	mustAdd(t, w, e, component.AnimatorComponent.Kind(), &component.Animator{})
	return e
}

func step(w *ecs.World, dt float64, systems ...ecs.System) {
	ecs.NewScheduler(systems...).Step(w, dt)
}
