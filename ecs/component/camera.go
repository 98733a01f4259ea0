package component

import "github.com/go-gl/mathgl/mgl64"

// CameraState is the look orientation driven by look input, in degrees. It
// lives on the controller entity.
type CameraState struct {
	Yaw   float64
	Pitch float64
}

var CameraStateComponent = NewComponent[CameraState]()

// CameraRig holds the look limits and sensitivity, and the orientation
// derived from CameraState at the end of each frame.
type CameraRig struct {
	TopClamp     float64
	BottomClamp  float64
	SensitivityX float64
	SensitivityY float64
	LockYaw      bool

	Orientation mgl64.Quat
}

var CameraRigComponent = NewComponent[CameraRig]()

func DefaultCameraRig() CameraRig {
	return CameraRig{
		TopClamp:     70,
		BottomClamp:  -30,
		SensitivityX: 0.5,
		SensitivityY: 0.5,
		Orientation:  mgl64.QuatIdent(),
	}
}

// CameraFollow places a render camera behind Target (an ecs.Entity).
type CameraFollow struct {
	Target   uint64
	Distance float64
	Height   float64
	FOV      float64
}

var CameraFollowComponent = NewComponent[CameraFollow]()
