package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/thirdperson/common"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

// CameraSystem applies look input to CameraState and rebuilds the rig
// orientation. It belongs in the late scheduler, after every fixed step of
// the frame has moved the character.
type CameraSystem struct{}

func NewCameraSystem() *CameraSystem { return &CameraSystem{} }

func (s *CameraSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach3(w, component.InputComponent.Kind(), component.CameraStateComponent.Kind(), component.CameraRigComponent.Kind(), func(_ ecs.Entity, in *component.Input, cam *component.CameraState, rig *component.CameraRig) {
		rotateCamera(cam, rig, in.LookX, in.LookY)
		in.LookX, in.LookY = 0, 0
	})
}

func rotateCamera(cam *component.CameraState, rig *component.CameraRig, lookX, lookY float64) {
	if !rig.LockYaw {
		cam.Yaw += lookX * rig.SensitivityX
	}
	cam.Pitch -= lookY * rig.SensitivityY

	cam.Yaw = common.ClampAngle(cam.Yaw, -math.MaxFloat64, math.MaxFloat64)
	cam.Pitch = common.ClampAngle(cam.Pitch, rig.BottomClamp, rig.TopClamp)

	rig.Orientation = CameraOrientation(cam.Yaw, cam.Pitch)
}

// CameraOrientation builds the look rotation for yaw and pitch in degrees.
// Positive pitch looks down.
func CameraOrientation(yaw, pitch float64) mgl64.Quat {
	qYaw := mgl64.QuatRotate(mgl64.DegToRad(yaw), mgl64.Vec3{0, 1, 0})
	qPitch := mgl64.QuatRotate(mgl64.DegToRad(pitch), mgl64.Vec3{1, 0, 0})
	return qYaw.Mul(qPitch).Normalize()
}
