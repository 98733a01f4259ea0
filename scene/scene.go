// Package scene builds a playable world from a level: entities, the
// collision world and the two system pipelines.
package scene

import (
	"fmt"

	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/entity"
	"github.com/milk9111/thirdperson/ecs/system"
	"github.com/milk9111/thirdperson/levels"
)

// Scene is one loaded level. Fixed runs on the simulation step; Late runs
// once per rendered frame after it.
type Scene struct {
	Name    string
	Level   *levels.Level
	World   *ecs.World
	Physics *system.PhysicsSystem
	Fixed   *ecs.Scheduler
	Late    *ecs.Scheduler
}

// Load reads and spawns the named level. onRequest receives scene changes
// raised by portals, timers and fall checks.
func Load(name string, onRequest system.SceneLoader) (*Scene, error) {
	lvl, err := levels.Load(name)
	if err != nil {
		return nil, fmt.Errorf("load scene %q: %w", name, err)
	}
	return FromLevel(lvl, onRequest)
}

func FromLevel(lvl *levels.Level, onRequest system.SceneLoader) (*Scene, error) {
	world := ecs.NewWorld()
	if err := entity.LoadLevelToWorld(world, lvl); err != nil {
		return nil, fmt.Errorf("load scene %q: %w", lvl.Name, err)
	}

	physics := system.NewPhysicsSystem()
	physics.Sync(world)

	return &Scene{
		Name:    lvl.Name,
		Level:   lvl,
		World:   world,
		Physics: physics,
		Fixed: ecs.NewScheduler(
			system.NewHealthSystem(),
			system.NewGroundCheckSystem(physics),
			system.NewPlayerControllerSystem(physics),
			system.NewKnockbackSystem(physics),
			system.NewHazardSystem(physics),
			system.NewPickupCollectSystem(physics),
			system.NewPortalSystem(physics),
			system.NewChaseSystem(),
			system.NewPathfindingSystem(),
			system.NewNavFollowSystem(physics),
			physics,
			system.NewTimerSystem(),
			system.NewFallCheckSystem(),
			system.NewSceneTimerSystem(),
			system.NewMovingBlockSystem(),
			system.NewSpinSystem(),
			system.NewGuideSystem(physics),
			system.NewSceneSystem(onRequest),
		),
		Late: ecs.NewScheduler(
			system.NewCameraSystem(),
			system.NewDamageFlashSystem(),
			system.NewAnimationSystem(),
		),
	}, nil
}

// Step runs one fixed step followed by the late pipeline.
func (s *Scene) Step(dt float64) {
	s.Fixed.Step(s.World, dt)
	s.Late.Update(s.World)
}

// History tracks where "return to previous" goes.
type History struct {
	fallback string
	stack    []string
	current  string
}

// Change is a planned scene switch. Commit it once the target loaded.
type Change struct {
	Target string
	push   bool
	pop    bool
}

func NewHistory(fallback string) *History {
	return &History{fallback: fallback}
}

func (h *History) Current() string { return h.current }

// Plan resolves a scene request. Reload keeps the current scene and an
// empty name returns to the previous one, or the fallback when there is
// none.
func (h *History) Plan(name string, reload bool) Change {
	switch {
	case reload && name == "":
		if h.current == "" {
			return Change{Target: h.fallback}
		}
		return Change{Target: h.current}
	case name == "":
		if n := len(h.stack); n > 0 {
			return Change{Target: h.stack[n-1], pop: true}
		}
		return Change{Target: h.fallback}
	default:
		return Change{Target: name, push: h.current != "" && name != h.current}
	}
}

func (h *History) Commit(c Change) {
	switch {
	case c.pop:
		h.stack = h.stack[:len(h.stack)-1]
	case c.push:
		h.stack = append(h.stack, h.current)
	}
	h.current = c.Target
}
