package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

const (
	nodeReachedDistance = 0.1
	navGroundedVelocity = -2.0
)

// NavFollowSystem walks agents along their planned path through the mover
// and keeps them under gravity.
type NavFollowSystem struct {
	mover Mover
}

func NewNavFollowSystem(mover Mover) *NavFollowSystem {
	return &NavFollowSystem{mover: mover}
}

func (s *NavFollowSystem) Update(w *ecs.World) {
	if s == nil || s.mover == nil || w == nil {
		return
	}
	dt := w.DeltaTime()
	if dt <= 0 {
		return
	}

	ecs.ForEach3(w, component.NavAgentComponent.Kind(), component.PathfindingComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, agent *component.NavAgent, pf *component.Pathfinding, t *component.Transform) {
		agent.VerticalVelocity += Gravity * dt
		delta := mgl64.Vec3{0, agent.VerticalVelocity * dt, 0}

		if step, ok := pathStep(agent, pf, t, dt); ok {
			delta[0], delta[2] = step[0], step[2]
			t.Yaw = mgl64.RadToDeg(math.Atan2(step[0], step[2]))
		}

		applied := s.mover.Move(w, e, delta)
		if applied[1] > delta[1]+contactEpsilon {
			// landed
			agent.VerticalVelocity = navGroundedVelocity
		}
	})
}

// pathStep returns the horizontal displacement toward the next path node,
// advancing past nodes that are already reached.
func pathStep(agent *component.NavAgent, pf *component.Pathfinding, t *component.Transform, dt float64) (mgl64.Vec3, bool) {
	if !agent.HasDestination || len(pf.Path) == 0 || agent.Speed <= 0 {
		return mgl64.Vec3{}, false
	}

	dest := mgl64.Vec3{agent.Destination.X - t.X, 0, agent.Destination.Z - t.Z}
	if dest.Len() <= agent.StoppingDistance {
		return mgl64.Vec3{}, false
	}

	for pf.NextNode < len(pf.Path) {
		n := pf.Path[pf.NextNode]
		to := mgl64.Vec3{n.X - t.X, 0, n.Z - t.Z}
		dist := to.Len()
		if dist <= nodeReachedDistance && pf.NextNode < len(pf.Path)-1 {
			pf.NextNode++
			continue
		}
		if dist <= 1e-9 {
			return mgl64.Vec3{}, false
		}
		if pf.NextNode == len(pf.Path)-1 {
			// do not walk into the stopping radius
			dist = math.Min(dist, dest.Len()-agent.StoppingDistance)
		}
		travel := math.Min(agent.Speed*dt, dist)
		return to.Normalize().Mul(travel), true
	}
	return mgl64.Vec3{}, false
}
