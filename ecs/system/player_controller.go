package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/thirdperson/common"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

// PlayerControllerSystem runs jump, gravity and camera-relative movement
// for every controller entity once per fixed step. Grounded must already
// be current, so GroundCheckSystem runs first.
type PlayerControllerSystem struct {
	mover Mover
}

func NewPlayerControllerSystem(mover Mover) *PlayerControllerSystem {
	return &PlayerControllerSystem{mover: mover}
}

func (s *PlayerControllerSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	dt := w.DeltaTime()
	if dt <= 0 {
		return
	}

	ecs.ForEach4(w, component.PlayerControllerComponent.Kind(), component.MotionComponent.Kind(), component.InputComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pc *component.PlayerController, m *component.Motion, in *component.Input, t *component.Transform) {
		if !m.Initialized {
			m.JumpTimeoutDelta = pc.JumpTimeout
			m.FallTimeoutDelta = pc.FallTimeout
			m.Initialized = true
		}

		cameraYaw := 0.0
		if cam, ok := ecs.Get(w, e, component.CameraStateComponent.Kind()); ok {
			cameraYaw = cam.Yaw
		}

		stepJumpAndGravity(pc, m, in, dt)
		delta := stepMove(pc, m, in, t, cameraYaw, dt)

		applied := delta
		if s.mover != nil {
			applied = s.mover.Move(w, e, delta)
		} else {
			t.SetPosition(t.Position().Add(delta))
		}
		m.LastVelocity = applied.Mul(1 / dt)
	})
}

// TriggerJump latches a jump request on e. The next grounded step consumes
// it.
func TriggerJump(w *ecs.World, e ecs.Entity) bool {
	in, ok := ecs.Get(w, e, component.InputComponent.Kind())
	if !ok {
		return false
	}
	in.JumpPressed = true
	return true
}

// JumpVelocity is the launch speed that peaks at height under gravity.
func JumpVelocity(height, gravity float64) float64 {
	return math.Sqrt(height * -2 * gravity)
}

// stepJumpAndGravity advances the vertical state by one tick. The jump edge
// is always consumed, grounded or not.
func stepJumpAndGravity(pc *component.PlayerController, m *component.Motion, in *component.Input, dt float64) {
	if m.Grounded {
		m.FallTimeoutDelta = pc.FallTimeout
		m.Jumping = false
		m.FreeFall = false

		if m.VerticalVelocity < 0 {
			m.VerticalVelocity = pc.GroundedVelocity
		}
		if in.JumpPressed && m.JumpTimeoutDelta <= 0 {
			m.VerticalVelocity = JumpVelocity(pc.JumpHeight, pc.Gravity)
			m.Jumping = true
		}
		in.JumpPressed = false

		if m.JumpTimeoutDelta >= 0 {
			m.JumpTimeoutDelta -= dt
		}
	} else {
		m.JumpTimeoutDelta = pc.JumpTimeout
		if m.FallTimeoutDelta >= 0 {
			m.FallTimeoutDelta -= dt
		} else {
			m.FreeFall = true
		}
		in.JumpPressed = false
	}

	if m.VerticalVelocity < pc.TerminalVelocity {
		m.VerticalVelocity += pc.Gravity * dt
	}
}

// stepMove updates speed, blend and facing and returns this tick's
// displacement. It does not touch the collision world.
func stepMove(pc *component.PlayerController, m *component.Motion, in *component.Input, t *component.Transform, cameraYaw, dt float64) mgl64.Vec3 {
	targetSpeed := pc.MoveSpeed
	if in.Sprint {
		targetSpeed = pc.SprintSpeed
	}
	if !in.HasMove() {
		targetSpeed = 0
	}

	current := m.HorizontalSpeed()
	magnitude := in.MoveMagnitude()

	if current < targetSpeed-pc.SpeedDeadBand || current > targetSpeed+pc.SpeedDeadBand {
		m.Speed = common.Round3(common.Lerp(current, targetSpeed*magnitude, dt*pc.SpeedChangeRate))
	} else {
		m.Speed = targetSpeed
	}

	m.AnimationBlend = common.Lerp(m.AnimationBlend, targetSpeed, dt*pc.SpeedChangeRate)
	if m.AnimationBlend < pc.BlendFloor {
		m.AnimationBlend = 0
	}

	if in.HasMove() {
		m.TargetRotation = mgl64.RadToDeg(math.Atan2(in.MoveX, in.MoveY)) + cameraYaw
		t.Yaw = common.SmoothDampAngle(t.Yaw, m.TargetRotation, &m.RotationVelocity, pc.RotationSmoothTime, dt)
	}

	dir := component.YawDirection(m.TargetRotation)
	return dir.Mul(m.Speed * dt).Add(mgl64.Vec3{0, m.VerticalVelocity * dt, 0})
}
