package system

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

type recordedForce struct {
	e ecs.Entity
	f mgl64.Vec3
}

type recordingForces struct {
	calls []recordedForce
}

func (r *recordingForces) ApplyForce(_ *ecs.World, e ecs.Entity, f mgl64.Vec3) bool {
	r.calls = append(r.calls, recordedForce{e, f})
	return true
}

func inlineScript(src string) ScriptSource {
	return func(string) ([]byte, error) { return []byte(src), nil }
}

const (
	alwaysGuide = `decide := func(obs) { return 1 }`
	neverGuide  = `decide := func(obs) { return 0 }`
)

func addGuideScene(t *testing.T, w *ecs.World, g component.GuideAgent) (agent, subject, target ecs.Entity) {
	t.Helper()
	subject = ecs.CreateEntity(w)
	mustAdd(t, w, subject, component.TransformComponent.Kind(), &component.Transform{Y: 1})
	mustAdd(t, w, subject, component.VelocityComponent.Kind(), &component.Velocity{Mass: 1, Drag: 1, Linear: mgl64.Vec3{5, 0, 5}})
	target = ecs.CreateEntity(w)
	mustAdd(t, w, target, component.TransformComponent.Kind(), &component.Transform{Y: 1})

	agent = ecs.CreateEntity(w)
	g.Subject = uint64(subject)
	g.Target = uint64(target)
	if g.Script == "" {
		g.Script = "policy.tengo"
	}
	mustAdd(t, w, agent, component.GuideAgentComponent.Kind(), &g)
	return agent, subject, target
}

func TestGuideEpisodeStartRandomizesPositions(t *testing.T) {
	w := ecs.NewWorld()
	_, subject, target := addGuideScene(t, w, component.GuideAgent{AreaHalfExtent: 4, OriginX: 10, Seed: 7})

	step(w, fixedDT, NewGuideSystemWithSource(nil, inlineScript(neverGuide)))

	for _, e := range []ecs.Entity{subject, target} {
		tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		if tr.X < 6 || tr.X > 14 || tr.Z < -4 || tr.Z > 4 {
			t.Fatalf("entity %d placed outside the area: %v,%v", e, tr.X, tr.Z)
		}
		if tr.Y != 1 {
			t.Fatalf("episode start should keep the height, y = %v", tr.Y)
		}
	}
	v, _ := ecs.Get(w, subject, component.VelocityComponent.Kind())
	if v.Linear.LenSqr() != 0 {
		t.Fatalf("subject velocity should be cleared, got %v", v.Linear)
	}
}

func TestGuideSameSeedSamePlacement(t *testing.T) {
	place := func() (float64, float64) {
		w := ecs.NewWorld()
		_, subject, _ := addGuideScene(t, w, component.GuideAgent{AreaHalfExtent: 4, Seed: 42})
		step(w, fixedDT, NewGuideSystemWithSource(nil, inlineScript(neverGuide)))
		tr, _ := ecs.Get(w, subject, component.TransformComponent.Kind())
		return tr.X, tr.Z
	}
	x1, z1 := place()
	x2, z2 := place()
	if x1 != x2 || z1 != z2 {
		t.Fatalf("placement differs: (%v,%v) vs (%v,%v)", x1, z1, x2, z2)
	}
}

func TestGuidePushesTowardTarget(t *testing.T) {
	w := ecs.NewWorld()
	agent, subject, target := addGuideScene(t, w, component.GuideAgent{AreaHalfExtent: 4, AssistPower: 10, StepPenalty: 0.01, Seed: 3, SuccessRadius: 0.01})
	forces := &recordingForces{}

	step(w, fixedDT, NewGuideSystemWithSource(forces, inlineScript(alwaysGuide)))

	if len(forces.calls) != 1 || forces.calls[0].e != subject {
		t.Fatalf("expected one force on the subject, got %v", forces.calls)
	}
	st, _ := ecs.Get(w, subject, component.TransformComponent.Kind())
	tt, _ := ecs.Get(w, target, component.TransformComponent.Kind())
	want := mgl64.Vec3{tt.X - st.X, 0, tt.Z - st.Z}.Normalize().Mul(10)
	if !forces.calls[0].f.ApproxEqualThreshold(want, 1e-9) {
		t.Fatalf("force = %v, want %v", forces.calls[0].f, want)
	}

	g, _ := ecs.Get(w, agent, component.GuideAgentComponent.Kind())
	if !g.Guiding || !approxEqual(g.Reward, -0.01, 1e-12) || g.Steps != 1 {
		t.Fatalf("agent after one guided step = %+v", g)
	}
}

func TestGuideEpisodeEnds(t *testing.T) {
	cases := []struct {
		name          string
		agent         component.GuideAgent
		ticks         int
		wantSuccesses int
		wantReward    float64
	}{
		{"success_inside_radius", component.GuideAgent{SuccessRadius: 1.5}, 1, 1, 1},
		{"max_steps", component.GuideAgent{MaxSteps: 3}, 3, 0, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			agent, _, _ := addGuideScene(t, w, c.agent)
			sys := NewGuideSystemWithSource(nil, inlineScript(neverGuide))
			for i := 0; i < c.ticks; i++ {
				step(w, fixedDT, sys)
			}
			g, _ := ecs.Get(w, agent, component.GuideAgentComponent.Kind())
			if g.Episodes != 1 || !g.NeedsReset {
				t.Fatalf("episode should have ended, agent = %+v", g)
			}
			if g.Successes != c.wantSuccesses || !approxEqual(g.CumulativeReward, c.wantReward, 1e-12) {
				t.Fatalf("successes = %d reward = %v, want %d %v", g.Successes, g.CumulativeReward, c.wantSuccesses, c.wantReward)
			}

			step(w, fixedDT, sys)
			if g.Steps != 1 || g.Episodes > 2 {
				t.Fatalf("next tick should start a new episode, agent = %+v", g)
			}
		})
	}
}

func TestGuideBadPolicyStaysIdle(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"compile_error", `decide := func(obs) {`},
		{"action_out_of_range", `decide := func(obs) { return 2 }`},
		{"missing_decide", `x := 1`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			agent, _, _ := addGuideScene(t, w, component.GuideAgent{AreaHalfExtent: 4, AssistPower: 10, StepPenalty: 0.01})
			forces := &recordingForces{}
			step(w, fixedDT, NewGuideSystemWithSource(forces, inlineScript(c.src)))

			g, _ := ecs.Get(w, agent, component.GuideAgentComponent.Kind())
			if g.Guiding || len(forces.calls) != 0 || g.Reward != 0 {
				t.Fatalf("bad policy should not guide, agent = %+v forces = %v", g, forces.calls)
			}
		})
	}
}

func TestGuideBrokenPolicyCompilesOnce(t *testing.T) {
	w := ecs.NewWorld()
	agent, _, _ := addGuideScene(t, w, component.GuideAgent{Script: "broken.tengo", AreaHalfExtent: 4})

	loads := 0
	source := func(string) ([]byte, error) {
		loads++
		return []byte(`decide := func(obs) {`), nil
	}
	guide := NewGuideSystemWithSource(&recordingForces{}, source)

	for i := 0; i < 30; i++ {
		step(w, fixedDT, guide)
	}
	if loads != 1 {
		t.Fatalf("broken script loaded %d times, want 1", loads)
	}
	if g, _ := ecs.Get(w, agent, component.GuideAgentComponent.Kind()); g.Guiding {
		t.Fatalf("broken policy should leave the agent idle")
	}

	_, err := guide.runtime(agent, "broken.tengo")
	if !errors.Is(err, errPolicyUnavailable) {
		t.Fatalf("cached failure = %v, want errPolicyUnavailable", err)
	}
}

func TestGuideScriptBringsSubjectHome(t *testing.T) {
	w := ecs.NewWorld()
	agent, _, _ := addGuideScene(t, w, component.GuideAgent{
		Script:         "guide.tengo",
		AssistPower:    10,
		SuccessRadius:  1.5,
		StepPenalty:    0.01,
		AreaHalfExtent: 4,
		MaxSteps:       1000,
		Seed:           1,
	})

	ps := NewPhysicsSystem()
	systems := []ecs.System{NewGuideSystem(ps), ps}
	for i := 0; i < 600; i++ {
		step(w, fixedDT, systems...)
	}

	g, _ := ecs.Get(w, agent, component.GuideAgentComponent.Kind())
	if g.Successes < 1 {
		t.Fatalf("expected at least one success, agent = %+v", g)
	}
	if math.IsNaN(g.CumulativeReward) {
		t.Fatalf("cumulative reward = %v", g.CumulativeReward)
	}
}
