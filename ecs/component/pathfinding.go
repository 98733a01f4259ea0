package component

// PathNode represents a world-space point along a path on the XZ plane.
type PathNode struct {
	X float64
	Z float64
}

// NavAgent is the path request surface. Setting HasDestination asks the
// pathfinding system for a route; ResetPath clears it.
type NavAgent struct {
	Speed            float64
	StoppingDistance float64

	Destination    PathNode
	HasDestination bool

	// VerticalVelocity carries gravity between steps.
	VerticalVelocity float64
}

var NavAgentComponent = NewComponent[NavAgent]()

func (n *NavAgent) SetDestination(x, z float64) {
	n.Destination = PathNode{X: x, Z: z}
	n.HasDestination = true
}

func (n *NavAgent) ResetPath() {
	n.HasDestination = false
	n.Destination = PathNode{}
}

// Pathfinding stores grid-based pathfinding results and settings.
type Pathfinding struct {
	GridSize    float64
	RepathTicks int
	TickCounter int

	LastStartX  int
	LastStartZ  int
	LastTargetX int
	LastTargetZ int

	Path     []PathNode
	Visited  []PathNode
	NextNode int
}

var PathfindingComponent = NewComponent[Pathfinding]()

func (p *Pathfinding) Clear() {
	p.Path = nil
	p.Visited = nil
	p.NextNode = 0
}
