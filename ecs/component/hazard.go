package component

// Hazard damages any entity with Health that overlaps its collider.
type Hazard struct {
	Amount int
}

var HazardComponent = NewComponent[Hazard]()
