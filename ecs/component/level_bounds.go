package component

// LevelBounds stores the XZ extent of the current scene. Pathfinding grids
// are laid over it.
type LevelBounds struct {
	MinX float64
	MinZ float64
	MaxX float64
	MaxZ float64
	// KillY is the height below which fall checkers fire.
	KillY float64
}

var LevelBoundsComponent = NewComponent[LevelBounds]()

func (b LevelBounds) Width() float64 {
	return b.MaxX - b.MinX
}

func (b LevelBounds) Depth() float64 {
	return b.MaxZ - b.MinZ
}
