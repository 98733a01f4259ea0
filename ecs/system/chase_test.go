package system

import (
	"math"
	"testing"

	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

func TestShouldChase(t *testing.T) {
	cases := []struct {
		name    string
		chase   component.Chase
		dist    float64
		want    bool
	}{
		{"exactly_at_range", component.Chase{DetectRange: 10}, 10, true},
		{"just_beyond_range", component.Chase{DetectRange: 10}, 10.001, false},
		{"well_inside", component.Chase{DetectRange: 10}, 2, true},
		{"exit_band_keeps_chasing", component.Chase{DetectRange: 10, ExitBand: 2, Chasing: true}, 11.5, true},
		{"exit_band_needs_active_chase", component.Chase{DetectRange: 10, ExitBand: 2}, 11.5, false},
		{"beyond_exit_band", component.Chase{DetectRange: 10, ExitBand: 2, Chasing: true}, 12.5, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := shouldChase(&c.chase, c.dist); got != c.want {
				t.Fatalf("shouldChase(%v) = %v, want %v", c.dist, got, c.want)
			}
		})
	}
}

func addLevelBounds(t *testing.T, w *ecs.World, half float64) {
	t.Helper()
	e := ecs.CreateEntity(w)
	mustAdd(t, w, e, component.LevelBoundsComponent.Kind(), &component.LevelBounds{MinX: -half, MinZ: -half, MaxX: half, MaxZ: half, KillY: -10})
}

func addEnemy(t *testing.T, w *ecs.World, x, z float64, target ecs.Entity) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	body := defaultCharacterBody()
	body.Layer = component.LayerEnemy
	mustAdd(t, w, e, component.EnemyTagComponent.Kind(), &component.EnemyTag{})
	mustAdd(t, w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Z: z})
	mustAdd(t, w, e, component.CharacterBodyComponent.Kind(), body)
	mustAdd(t, w, e, component.ChaseComponent.Kind(), &component.Chase{Target: uint64(target), DetectRange: 10})
	mustAdd(t, w, e, component.NavAgentComponent.Kind(), &component.NavAgent{Speed: 3.5, StoppingDistance: 0.5})
	mustAdd(t, w, e, component.PathfindingComponent.Kind(), &component.Pathfinding{GridSize: 1})
	return e
}

func TestChaseSystemStartsAndStops(t *testing.T) {
	w := ecs.NewWorld()
	player := addPlayer(t, w, 10, 0, 0)
	enemy := addEnemy(t, w, 0, 0, player)

	step(w, fixedDT, NewChaseSystem())
	agent, _ := ecs.Get(w, enemy, component.NavAgentComponent.Kind())
	if !agent.HasDestination || agent.Destination.X != 10 {
		t.Fatalf("target at exactly detect range should be chased, agent = %+v", agent)
	}

	pf, _ := ecs.Get(w, enemy, component.PathfindingComponent.Kind())
	pf.Path = []component.PathNode{{X: 1}, {X: 2}}

	pt, _ := ecs.Get(w, player, component.TransformComponent.Kind())
	pt.X = 10.5
	step(w, fixedDT, NewChaseSystem())
	if agent.HasDestination {
		t.Fatalf("destination should be cleared the tick the target leaves range")
	}
	if len(pf.Path) != 0 {
		t.Fatalf("path should be cleared with the destination")
	}
}

func TestAStarRoutesAroundWall(t *testing.T) {
	w := ecs.NewWorld()
	addFloor(t, w)
	addLevelBounds(t, w, 5)
	addBlock(t, w, 0, 2, 0, 6, 2, 1)

	e := ecs.CreateEntity(w)
	mustAdd(t, w, e, component.TransformComponent.Kind(), &component.Transform{X: 0, Z: -3})
	mustAdd(t, w, e, component.CharacterBodyComponent.Kind(), defaultCharacterBody())
	agent := &component.NavAgent{Speed: 3}
	agent.SetDestination(0, 3)
	mustAdd(t, w, e, component.NavAgentComponent.Kind(), agent)
	mustAdd(t, w, e, component.PathfindingComponent.Kind(), &component.Pathfinding{GridSize: 1})

	step(w, fixedDT, NewPathfindingSystem())

	pf, _ := ecs.Get(w, e, component.PathfindingComponent.Kind())
	if len(pf.Path) < 8 {
		t.Fatalf("expected a detour, got %d nodes: %v", len(pf.Path), pf.Path)
	}
	if last := pf.Path[len(pf.Path)-1]; last != agent.Destination {
		t.Fatalf("path should end at the destination, ends at %v", last)
	}
	for _, n := range pf.Path {
		if math.Abs(n.X) < 3 && math.Abs(n.Z) < 0.5 {
			t.Fatalf("path crosses the wall at %v", n)
		}
	}
	if pf.NextNode != 1 {
		t.Fatalf("next node = %d, want 1", pf.NextNode)
	}
}

func TestAStarNoRoute(t *testing.T) {
	blocked := make([]bool, 5*5)
	for x := 0; x < 5; x++ {
		blocked[2*5+x] = true
	}
	path, visited := astarPath(gridPos{0, 0}, gridPos{0, 4}, blocked, 5, 5)
	if path != nil {
		t.Fatalf("expected no path, got %v", path)
	}
	if len(visited) != 10 {
		t.Fatalf("expected the reachable half to be explored, visited %d", len(visited))
	}
}

func TestEnemyChasesAroundWall(t *testing.T) {
	w := ecs.NewWorld()
	addFloor(t, w)
	addLevelBounds(t, w, 6)
	addBlock(t, w, 0, 2, 0, 6, 2, 1)
	player := addPlayer(t, w, 0, 0, 3)
	enemy := addEnemy(t, w, 0, -3, player)

	ps := NewPhysicsSystem()
	ps.Sync(w)
	systems := []ecs.System{NewChaseSystem(), NewPathfindingSystem(), NewNavFollowSystem(ps), ps}
	for i := 0; i < 600; i++ {
		step(w, fixedDT, systems...)
	}

	et, _ := ecs.Get(w, enemy, component.TransformComponent.Kind())
	pt, _ := ecs.Get(w, player, component.TransformComponent.Kind())
	if d := math.Hypot(et.X-pt.X, et.Z-pt.Z); d > 1.5 {
		t.Fatalf("enemy should have reached the player, distance %v (enemy at %v,%v)", d, et.X, et.Z)
	}
	if !approxEqual(et.Y, 0, 1e-9) {
		t.Fatalf("enemy should stay on the floor, y = %v", et.Y)
	}
}
