package component

// Chase pursues Target (an ecs.Entity) while it is within DetectRange.
// ExitBand widens the range once a chase has started; zero means the same
// threshold is used both ways.
type Chase struct {
	Target      uint64
	DetectRange float64
	ExitBand    float64

	Chasing bool
}

var ChaseComponent = NewComponent[Chase]()
