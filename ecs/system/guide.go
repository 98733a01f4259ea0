package system

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
	"github.com/milk9111/thirdperson/logger"
	"github.com/milk9111/thirdperson/prefabs"
)

// ForceApplier pushes a dynamic body for the next integration step.
type ForceApplier interface {
	ApplyForce(w *ecs.World, e ecs.Entity, f mgl64.Vec3) bool
}

// ScriptSource resolves a policy script name to its source.
type ScriptSource func(name string) ([]byte, error)

const (
	guideActionIdle  = 0
	guideActionGuide = 1
)

// The policy script defines decide(obs) and returns 0 or 1.
const guideDispatchScript = `
__action = decide(__obs)
`

type guideRuntime struct {
	script   string
	compiled *tengo.Compiled
	memory   *tengo.Map
	// err is set when the script could not be loaded or compiled. The
	// agent idles until the world is rebuilt.
	err error
}

// errPolicyUnavailable is returned after a policy's load failure has
// already been reported.
var errPolicyUnavailable = errors.New("guide policy unavailable")

// GuideSystem runs guide agent episodes: a scripted policy decides each
// tick whether to push the subject toward the target.
type GuideSystem struct {
	forces   ForceApplier
	source   ScriptSource
	runtimes map[ecs.Entity]*guideRuntime
	rngs     map[ecs.Entity]*rand.Rand
}

func NewGuideSystem(forces ForceApplier) *GuideSystem {
	return NewGuideSystemWithSource(forces, prefabs.LoadScript)
}

func NewGuideSystemWithSource(forces ForceApplier, source ScriptSource) *GuideSystem {
	return &GuideSystem{
		forces:   forces,
		source:   source,
		runtimes: map[ecs.Entity]*guideRuntime{},
		rngs:     map[ecs.Entity]*rand.Rand{},
	}
}

func (s *GuideSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	log := logger.For("guide")
	ecs.ForEach(w, component.GuideAgentComponent.Kind(), func(e ecs.Entity, g *component.GuideAgent) {
		subject := ecs.Entity(g.Subject)
		target := ecs.Entity(g.Target)
		st, ok := ecs.Get(w, subject, component.TransformComponent.Kind())
		if !ok {
			return
		}
		tt, ok := ecs.Get(w, target, component.TransformComponent.Kind())
		if !ok {
			return
		}

		if g.NeedsReset || (g.Episodes == 0 && g.Steps == 0) {
			s.beginEpisode(w, e, g, st, tt)
		}

		action, err := s.decide(w, e, g, st, tt)
		if err != nil {
			if !errors.Is(err, errPolicyUnavailable) {
				log.Warn("policy failed", "entity", e, "script", g.Script, "err", err)
			}
			action = guideActionIdle
		}
		g.Guiding = action == guideActionGuide

		subjectPos := mgl64.Vec3{st.X, st.Y, st.Z}
		targetPos := mgl64.Vec3{tt.X, tt.Y, tt.Z}
		toTarget := targetPos.Sub(subjectPos)

		if g.Guiding {
			if toTarget.LenSqr() > 0 && s.forces != nil {
				s.forces.ApplyForce(w, subject, toTarget.Normalize().Mul(g.AssistPower))
			}
			g.Reward -= g.StepPenalty
		}

		g.Steps++
		if toTarget.Len() < g.SuccessRadius {
			g.Reward += 1
			g.Successes++
			s.endEpisode(e, g, true)
			return
		}
		if g.MaxSteps > 0 && g.Steps >= g.MaxSteps {
			s.endEpisode(e, g, false)
		}
	})

	for e := range s.runtimes {
		if !ecs.IsAlive(w, e) {
			delete(s.runtimes, e)
			delete(s.rngs, e)
		}
	}
}

func (s *GuideSystem) beginEpisode(w *ecs.World, e ecs.Entity, g *component.GuideAgent, st, tt *component.Transform) {
	rng := s.rng(e, g.Seed)
	half := g.AreaHalfExtent

	st.X = g.OriginX + (rng.Float64()*2-1)*half
	st.Z = g.OriginZ + (rng.Float64()*2-1)*half
	tt.X = g.OriginX + (rng.Float64()*2-1)*half
	tt.Z = g.OriginZ + (rng.Float64()*2-1)*half

	if v, ok := ecs.Get(w, ecs.Entity(g.Subject), component.VelocityComponent.Kind()); ok {
		v.Linear = mgl64.Vec3{}
		v.Force = mgl64.Vec3{}
	}

	g.NeedsReset = false
	g.Guiding = false
	g.Reward = 0
	g.Steps = 0
}

func (s *GuideSystem) endEpisode(e ecs.Entity, g *component.GuideAgent, success bool) {
	g.Episodes++
	g.CumulativeReward += g.Reward
	g.NeedsReset = true

	logger.For("guide").Debug("episode finished",
		"entity", e,
		"episode", g.Episodes,
		"success", success,
		"steps", g.Steps,
		"reward", g.Reward,
		"successes", g.Successes,
		"cumulative_reward", g.CumulativeReward,
	)
}

func (s *GuideSystem) rng(e ecs.Entity, seed int64) *rand.Rand {
	if r, ok := s.rngs[e]; ok {
		return r
	}
	r := rand.New(rand.NewSource(seed))
	s.rngs[e] = r
	return r
}

func (s *GuideSystem) decide(w *ecs.World, e ecs.Entity, g *component.GuideAgent, st, tt *component.Transform) (int, error) {
	rt, err := s.runtime(e, g.Script)
	if err != nil {
		return guideActionIdle, err
	}

	var vel mgl64.Vec3
	if v, ok := ecs.Get(w, ecs.Entity(g.Subject), component.VelocityComponent.Kind()); ok {
		vel = v.Linear
	}

	obs := &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"subject":        vec3Object(st.X, st.Y, st.Z),
		"target":         vec3Object(tt.X, tt.Y, tt.Z),
		"velocity":       vec3Object(vel.X(), vel.Y(), vel.Z()),
		"guiding":        boolObject(g.Guiding),
		"steps":          &tengo.Int{Value: int64(g.Steps)},
		"reward":         &tengo.Float{Value: g.Reward},
		"success_radius": &tengo.Float{Value: g.SuccessRadius},
		"memory":         rt.memory,
	}}

	if err := rt.compiled.Set("__obs", obs); err != nil {
		return guideActionIdle, err
	}
	if err := rt.compiled.Run(); err != nil {
		return guideActionIdle, err
	}

	switch action := rt.compiled.Get("__action").Int(); action {
	case guideActionIdle, guideActionGuide:
		return action, nil
	default:
		return guideActionIdle, fmt.Errorf("action %d out of range", action)
	}
}

func (s *GuideSystem) runtime(e ecs.Entity, name string) (*guideRuntime, error) {
	if rt, ok := s.runtimes[e]; ok && rt.script == name {
		if rt.err != nil {
			return nil, errPolicyUnavailable
		}
		return rt, nil
	}

	rt, err := s.compile(name)
	if err != nil {
		s.runtimes[e] = &guideRuntime{script: name, err: err}
		return nil, err
	}
	s.runtimes[e] = rt
	return rt, nil
}

func (s *GuideSystem) compile(name string) (*guideRuntime, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("guide agent has no policy script")
	}
	if s.source == nil {
		return nil, fmt.Errorf("no script source")
	}

	src, err := s.source(name)
	if err != nil {
		return nil, err
	}

	script := tengo.NewScript([]byte(string(src) + "\n" + guideDispatchScript))
	_ = script.Add("__obs", map[string]any{})
	_ = script.Add("__action", 0)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}

	return &guideRuntime{
		script:   name,
		compiled: compiled,
		memory:   &tengo.Map{Value: map[string]tengo.Object{}},
	}, nil
}

func vec3Object(x, y, z float64) *tengo.Array {
	return &tengo.Array{Value: []tengo.Object{
		&tengo.Float{Value: x},
		&tengo.Float{Value: y},
		&tengo.Float{Value: z},
	}}
}

func boolObject(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}
