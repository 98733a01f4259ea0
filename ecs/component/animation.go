package component

// Animator is a parameter sink. Renderers read these instead of Motion.
type Animator struct {
	Speed       float64
	MotionSpeed float64
	Grounded    bool
	Jump        bool
	FreeFall    bool
}

var AnimatorComponent = NewComponent[Animator]()
