package system

import (
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
	"github.com/milk9111/thirdperson/logger"
)

// SceneLoader receives scene requests. An empty name without reload means
// the previous scene.
type SceneLoader func(name string, reload bool)

// SceneSystem drains SceneRequest components and hands them to the game.
// Loading is left to the loader so the world is never rebuilt mid-step.
type SceneSystem struct {
	load SceneLoader
}

func NewSceneSystem(load SceneLoader) *SceneSystem {
	return &SceneSystem{load: load}
}

func (s *SceneSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	ecs.ForEach(w, component.SceneRequestComponent.Kind(), func(e ecs.Entity, req *component.SceneRequest) {
		r := *req
		ecs.Remove(w, e, component.SceneRequestComponent.Kind())

		logger.For("scene").Debug("scene requested", "name", r.Name, "reload", r.Reload)
		w.Publish(ecs.Event{Type: ecs.EventSceneRequest, Data: ecs.SceneRequested{Name: r.Name, Reload: r.Reload}})
		if s.load != nil {
			s.load(r.Name, r.Reload)
		}
	})
}

// RequestScene queues a scene change on e for SceneSystem.
func RequestScene(w *ecs.World, e ecs.Entity, name string, reload bool) error {
	return ecs.Add(w, e, component.SceneRequestComponent.Kind(), &component.SceneRequest{Name: name, Reload: reload})
}

// FallCheckSystem reloads the scene once an entity drops below its
// threshold.
type FallCheckSystem struct{}

func NewFallCheckSystem() *FallCheckSystem { return &FallCheckSystem{} }

func (s *FallCheckSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach2(w, component.FallCheckerComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, fc *component.FallChecker, t *component.Transform) {
		if fc.Triggered || t.Y >= fc.Threshold {
			return
		}
		fc.Triggered = true
		logger.For("scene").Info("fell out of the level", "entity", e, "y", t.Y)
		if err := RequestScene(w, e, "", true); err != nil {
			logger.For("scene").Warn("request reload", "err", err)
		}
	})
}

// SceneTimerSystem requests its target scene once the delay runs out.
type SceneTimerSystem struct{}

func NewSceneTimerSystem() *SceneTimerSystem { return &SceneTimerSystem{} }

func (s *SceneTimerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaTime()

	ecs.ForEach(w, component.SceneTimerComponent.Kind(), func(e ecs.Entity, st *component.SceneTimer) {
		if st.Fired {
			return
		}
		st.Remaining -= dt
		if st.Remaining > 0 {
			return
		}
		st.Fired = true
		if err := RequestScene(w, e, st.Target, false); err != nil {
			logger.For("scene").Warn("request scene", "target", st.Target, "err", err)
		}
	})
}

// PortalSystem requests a portal's target scene once the player overlaps
// it.
type PortalSystem struct {
	query ShapeQuerier
}

func NewPortalSystem(query ShapeQuerier) *PortalSystem {
	return &PortalSystem{query: query}
}

func (s *PortalSystem) Update(w *ecs.World) {
	if s == nil || s.query == nil || w == nil {
		return
	}

	player, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return
	}

	for _, e := range s.query.Overlapping(w, player, component.LayerPickup) {
		portal, ok := ecs.Get(w, e, component.ScenePortalComponent.Kind())
		if !ok || portal.Used {
			continue
		}
		portal.Used = true
		logger.For("scene").Info("portal entered", "target", portal.Target)
		if err := RequestScene(w, e, portal.Target, false); err != nil {
			logger.For("scene").Warn("request scene", "target", portal.Target, "err", err)
		}
	}
}
