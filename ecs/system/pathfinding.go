package system

import (
	"container/heap"
	"math"

	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

const (
	defaultPathGridSize   = 1.0
	defaultPathRepathTick = 15
)

// PathfindingSystem plans grid routes on the XZ plane for agents with a
// destination. The grid covers LevelBounds; cells under colliders the
// agent cannot step over are blocked.
type PathfindingSystem struct{}

func NewPathfindingSystem() *PathfindingSystem {
	return &PathfindingSystem{}
}

func (ps *PathfindingSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}

	bounds, ok := levelBounds(w)
	if !ok {
		return
	}

	ecs.ForEach3(w, component.NavAgentComponent.Kind(), component.PathfindingComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, agent *component.NavAgent, pf *component.Pathfinding, t *component.Transform) {
		if !agent.HasDestination {
			pf.Clear()
			return
		}

		gridSize := defaultPathGridSize
		if pf.GridSize > 0 {
			gridSize = pf.GridSize
		} else {
			pf.GridSize = gridSize
		}
		if pf.RepathTicks <= 0 {
			pf.RepathTicks = defaultPathRepathTick
		}

		g := newNavGrid(bounds, gridSize)
		if g.w <= 0 || g.h <= 0 {
			return
		}

		start := g.cell(t.X, t.Z)
		goal := g.cell(agent.Destination.X, agent.Destination.Z)

		pf.TickCounter++
		if pf.TickCounter%pf.RepathTicks != 0 &&
			pf.LastStartX == start.x && pf.LastStartZ == start.z &&
			pf.LastTargetX == goal.x && pf.LastTargetZ == goal.z &&
			len(pf.Path) > 0 {
			return
		}

		blocked := buildBlockedGrid(w, e, g, t)
		// The agent's own cell is never treated as blocked so it can walk
		// out of tight spots.
		blocked[start.z*g.w+start.x] = false

		path, visited := astarPath(start, goal, blocked, g.w, g.h)

		pf.Path = g.toWorld(path)
		if n := len(pf.Path); n > 0 {
			pf.Path[n-1] = agent.Destination
		}
		pf.Visited = g.toWorld(visited)
		pf.NextNode = 0
		if len(pf.Path) > 1 {
			pf.NextNode = 1
		}
		pf.LastStartX = start.x
		pf.LastStartZ = start.z
		pf.LastTargetX = goal.x
		pf.LastTargetZ = goal.z
	})
}

type gridPos struct {
	x int
	z int
}

type navGrid struct {
	minX, minZ float64
	size       float64
	w, h       int
}

func newNavGrid(b component.LevelBounds, size float64) navGrid {
	return navGrid{
		minX: b.MinX,
		minZ: b.MinZ,
		size: size,
		w:    int(math.Ceil(b.Width() / size)),
		h:    int(math.Ceil(b.Depth() / size)),
	}
}

func (g navGrid) cell(x, z float64) gridPos {
	gx := int(math.Floor((x - g.minX) / g.size))
	gz := int(math.Floor((z - g.minZ) / g.size))
	return gridPos{x: clampInt(gx, 0, g.w-1), z: clampInt(gz, 0, g.h-1)}
}

func (g navGrid) toWorld(path []gridPos) []component.PathNode {
	if len(path) == 0 {
		return nil
	}
	out := make([]component.PathNode, 0, len(path))
	half := g.size * 0.5
	for _, p := range path {
		out = append(out, component.PathNode{
			X: g.minX + float64(p.x)*g.size + half,
			Z: g.minZ + float64(p.z)*g.size + half,
		})
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func levelBounds(w *ecs.World) (component.LevelBounds, bool) {
	boundsEntity, ok := ecs.First(w, component.LevelBoundsComponent.Kind())
	if !ok {
		return component.LevelBounds{}, false
	}
	bounds, ok := ecs.Get(w, boundsEntity, component.LevelBoundsComponent.Kind())
	if !ok {
		return component.LevelBounds{}, false
	}
	return *bounds, true
}

// buildBlockedGrid marks cells covered by solid colliders that rise more
// than the agent's step height above its feet without clearing its head.
func buildBlockedGrid(w *ecs.World, agent ecs.Entity, g navGrid, at *component.Transform) []bool {
	blocked := make([]bool, g.w*g.h)

	stepHeight, height := 0.3, 2.0
	if cb, ok := ecs.Get(w, agent, component.CharacterBodyComponent.Kind()); ok {
		stepHeight, height = cb.StepHeight, cb.Height
	}
	feet := at.Y
	head := at.Y + height

	ecs.ForEach2(w, component.ColliderComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, col *component.Collider, t *component.Transform) {
		if col.Trigger {
			return
		}
		min, max := colliderBox(col, t)
		if max[1] <= feet+stepHeight || min[1] >= head {
			return
		}
		if max[0] <= g.minX || max[2] <= g.minZ ||
			min[0] >= g.minX+float64(g.w)*g.size || min[2] >= g.minZ+float64(g.h)*g.size {
			return
		}

		start := g.cell(min[0], min[2])
		end := g.cell(max[0]-0.001, max[2]-0.001)
		for z := start.z; z <= end.z; z++ {
			for x := start.x; x <= end.x; x++ {
				blocked[z*g.w+x] = true
			}
		}
	})

	return blocked
}

func astarPath(start, goal gridPos, blocked []bool, gridW, gridH int) ([]gridPos, []gridPos) {
	if start.x < 0 || start.z < 0 || goal.x < 0 || goal.z < 0 {
		return nil, nil
	}
	if start.x >= gridW || start.z >= gridH || goal.x >= gridW || goal.z >= gridH {
		return nil, nil
	}
	if blocked[start.z*gridW+start.x] || blocked[goal.z*gridW+goal.x] {
		return nil, nil
	}

	open := &openSet{}
	heap.Init(open)

	cameFrom := make([]int, gridW*gridH)
	for i := range cameFrom {
		cameFrom[i] = -1
	}
	gScore := make([]float64, gridW*gridH)
	for i := range gScore {
		gScore[i] = math.Inf(1)
	}
	startIdx := start.z*gridW + start.x
	goalIdx := goal.z*gridW + goal.x
	gScore[startIdx] = 0
	heap.Push(open, &openItem{pos: start, f: heuristic(start, goal), g: 0})

	visited := make([]gridPos, 0, 64)

	for open.Len() > 0 {
		current := heap.Pop(open).(*openItem)
		cur := current.pos
		curIdx := cur.z*gridW + cur.x
		if current.g > gScore[curIdx] {
			continue
		}

		visited = append(visited, cur)

		if curIdx == goalIdx {
			return reconstructPath(cameFrom, gridW, startIdx, goalIdx), visited
		}

		for _, n := range neighbors(cur, gridW, gridH) {
			idx := n.z*gridW + n.x
			if blocked[idx] {
				continue
			}
			tentativeG := gScore[curIdx] + 1
			if tentativeG < gScore[idx] {
				cameFrom[idx] = curIdx
				gScore[idx] = tentativeG
				f := tentativeG + heuristic(n, goal)
				heap.Push(open, &openItem{pos: n, f: f, g: tentativeG})
			}
		}
	}

	return nil, visited
}

func reconstructPath(cameFrom []int, gridW int, startIdx, goalIdx int) []gridPos {
	if startIdx == goalIdx {
		return []gridPos{{x: startIdx % gridW, z: startIdx / gridW}}
	}
	if goalIdx < 0 || goalIdx >= len(cameFrom) || cameFrom[goalIdx] == -1 {
		return nil
	}

	path := make([]gridPos, 0, 32)
	cur := goalIdx
	for cur != -1 {
		path = append(path, gridPos{x: cur % gridW, z: cur / gridW})
		if cur == startIdx {
			break
		}
		cur = cameFrom[cur]
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func neighbors(p gridPos, gridW, gridH int) []gridPos {
	out := make([]gridPos, 0, 4)
	if p.x > 0 {
		out = append(out, gridPos{x: p.x - 1, z: p.z})
	}
	if p.x < gridW-1 {
		out = append(out, gridPos{x: p.x + 1, z: p.z})
	}
	if p.z > 0 {
		out = append(out, gridPos{x: p.x, z: p.z - 1})
	}
	if p.z < gridH-1 {
		out = append(out, gridPos{x: p.x, z: p.z + 1})
	}
	return out
}

func heuristic(a, b gridPos) float64 {
	return math.Abs(float64(a.x-b.x)) + math.Abs(float64(a.z-b.z))
}

type openItem struct {
	pos   gridPos
	f     float64
	g     float64
	index int
}

type openSet []*openItem

func (o openSet) Len() int           { return len(o) }
func (o openSet) Less(i, j int) bool { return o[i].f < o[j].f }
func (o openSet) Swap(i, j int) {
	o[i], o[j] = o[j], o[i]
	o[i].index = i
	o[j].index = j
}
func (o *openSet) Push(x any) {
	item := x.(*openItem)
	item.index = len(*o)
	*o = append(*o, item)
}
func (o *openSet) Pop() any {
	old := *o
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*o = old[:n-1]
	return item
}
