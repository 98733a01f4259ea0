package component

// MovingBlock bobs a platform vertically: each step adds
// sin(t*Speed)*Amplitude*dt to Y.
type MovingBlock struct {
	Speed     float64
	Amplitude float64
	Phase     float64
}

var MovingBlockComponent = NewComponent[MovingBlock]()
