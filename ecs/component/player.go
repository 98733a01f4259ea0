package component

// PlayerController holds the movement, jump and ground check tuning.
type PlayerController struct {
	MoveSpeed          float64
	SprintSpeed        float64
	RotationSmoothTime float64
	SpeedChangeRate    float64
	SpeedDeadBand      float64
	BlendFloor         float64

	// JumpHeight is the live value; buffs overwrite it and revert to
	// DefaultJumpHeight.
	JumpHeight        float64
	DefaultJumpHeight float64
	Gravity           float64
	JumpTimeout       float64
	FallTimeout       float64
	TerminalVelocity  float64
	GroundedVelocity  float64

	// The ground check is a sphere centred at Y - GroundedOffset.
	GroundedOffset float64
	GroundedRadius float64
	GroundLayers   uint
}

var PlayerControllerComponent = NewComponent[PlayerController]()

func DefaultPlayerController() PlayerController {
	return PlayerController{
		MoveSpeed:          2.0,
		SprintSpeed:        5.335,
		RotationSmoothTime: 0.12,
		SpeedChangeRate:    10,
		SpeedDeadBand:      0.1,
		BlendFloor:         0.01,
		JumpHeight:         1.0,
		DefaultJumpHeight:  1.0,
		Gravity:            -9.81,
		JumpTimeout:        0.5,
		FallTimeout:        0.15,
		TerminalVelocity:   53,
		GroundedVelocity:   -2,
		GroundedOffset:     -0.14,
		GroundedRadius:     0.28,
		GroundLayers:       LayerGround,
	}
}
