package system

import (
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

// ChaseSystem sends an agent after its target while the target is in
// range and stops it the same tick the target leaves.
type ChaseSystem struct{}

func NewChaseSystem() *ChaseSystem { return &ChaseSystem{} }

func (s *ChaseSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach3(w, component.ChaseComponent.Kind(), component.NavAgentComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, c *component.Chase, agent *component.NavAgent, t *component.Transform) {
		target := ecs.Entity(c.Target)
		tt, ok := ecs.Get(w, target, component.TransformComponent.Kind())
		if !ok {
			stopChase(w, e, c, agent)
			return
		}

		dist := tt.Position().Sub(t.Position()).Len()
		if shouldChase(c, dist) {
			c.Chasing = true
			agent.SetDestination(tt.X, tt.Z)
			return
		}
		stopChase(w, e, c, agent)
	})
}

// shouldChase applies DetectRange, widened by ExitBand once a chase is
// under way. Exactly at range counts as in range.
func shouldChase(c *component.Chase, dist float64) bool {
	limit := c.DetectRange
	if c.Chasing {
		limit += c.ExitBand
	}
	return dist <= limit
}

func stopChase(w *ecs.World, e ecs.Entity, c *component.Chase, agent *component.NavAgent) {
	c.Chasing = false
	agent.ResetPath()
	if pf, ok := ecs.Get(w, e, component.PathfindingComponent.Kind()); ok {
		pf.Clear()
	}
}
