package system

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

func TestJumpVelocityReachesHeight(t *testing.T) {
	cases := []struct {
		height  float64
		gravity float64
	}{
		{1, -9.81},
		{2, -9.81},
		{0.5, -20},
		{3, -4},
	}

	for _, c := range cases {
		v := JumpVelocity(c.height, c.gravity)
		if want := math.Sqrt(c.height * -2 * c.gravity); !approxEqual(v, want, 1e-12) {
			t.Fatalf("JumpVelocity(%v, %v) = %v, want %v", c.height, c.gravity, v, want)
		}


		// Integrate the launch through the controller the way Update does:
		// velocity first, then the displacement for this tick.
		pc := component.DefaultPlayerController()
		pc.JumpHeight, pc.Gravity = c.height, c.gravity
		m := component.Motion{Grounded: true}
		in := component.Input{JumpPressed: true}
		y, peak := 0.0, 0.0
		for i := 0; i < 10000; i++ {
			stepJumpAndGravity(&pc, &m, &in, fixedDT)
			m.Grounded = false
			y += m.VerticalVelocity * fixedDT
			peak = math.Max(peak, y)
			if m.VerticalVelocity <= 0 {
				break
			}
		}
		// Discrete integration undershoots by about half a step of launch
		// velocity.
		if tol := v * fixedDT; !approxEqual(peak, c.height, tol) {
			t.Fatalf("peak for H=%v G=%v = %v, want within %v", c.height, c.gravity, peak, tol)
		}
	}
}

func TestStepJumpAndGravity(t *testing.T) {
	pc := component.DefaultPlayerController()
	dt := fixedDT

	cases := []struct {
		name        string
		motion      component.Motion
		jump        bool
		wantVY      float64
		wantJumping bool
		wantTimeout float64
	}{
		{
			name:        "grounded_jump_when_cooled_down",
			motion:      component.Motion{Grounded: true, JumpTimeoutDelta: 0},
			jump:        true,
			wantVY:      JumpVelocity(pc.JumpHeight, pc.Gravity) + pc.Gravity*dt,
			wantJumping: true,
			wantTimeout: -dt,
		},
		{
			name:        "grounded_jump_blocked_by_cooldown",
			motion:      component.Motion{Grounded: true, JumpTimeoutDelta: 0.3},
			jump:        true,
			wantVY:      pc.Gravity * dt,
			wantTimeout: 0.3 - dt,
		},
		{
			name:        "grounded_snaps_falling_velocity",
			motion:      component.Motion{Grounded: true, VerticalVelocity: -7, JumpTimeoutDelta: -1},
			wantVY:      pc.GroundedVelocity + pc.Gravity*dt,
			wantTimeout: -1,
		},
		{
			name:        "airborne_discards_jump",
			motion:      component.Motion{VerticalVelocity: 1, JumpTimeoutDelta: -1},
			jump:        true,
			wantVY:      1 + pc.Gravity*dt,
			wantTimeout: pc.JumpTimeout,
		},
		{
			name:        "terminal_velocity_stops_gravity",
			motion:      component.Motion{VerticalVelocity: 60},
			wantVY:      60,
			wantTimeout: pc.JumpTimeout,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m := c.motion
			in := component.Input{JumpPressed: c.jump}
			stepJumpAndGravity(&pc, &m, &in, dt)

			if !approxEqual(m.VerticalVelocity, c.wantVY, 1e-9) {
				t.Fatalf("vertical velocity = %v, want %v", m.VerticalVelocity, c.wantVY)
			}
			if m.Jumping != c.wantJumping {
				t.Fatalf("jumping = %v, want %v", m.Jumping, c.wantJumping)
			}
			if !approxEqual(m.JumpTimeoutDelta, c.wantTimeout, 1e-9) {
				t.Fatalf("jump timeout = %v, want %v", m.JumpTimeoutDelta, c.wantTimeout)
			}
			if in.JumpPressed {
				t.Fatalf("jump edge should always be consumed")
			}
		})
	}
}

func TestStepMoveSpeed(t *testing.T) {
	pc := component.DefaultPlayerController()

	cases := []struct {
		name      string
		last      mgl64.Vec3
		input     component.Input
		wantSpeed float64
	}{
		{"snaps_inside_dead_band", mgl64.Vec3{0, 0, 1.95}, component.Input{MoveY: 1}, 2},
		{"accelerates_from_rest", mgl64.Vec3{}, component.Input{MoveY: 1}, 0.333},
		{"sprint_target", mgl64.Vec3{0, 0, 5.3}, component.Input{MoveY: 1, Sprint: true}, 5.335},
		{"no_input_ignores_sprint", mgl64.Vec3{}, component.Input{Sprint: true}, 0},
		{"decelerates_without_input", mgl64.Vec3{2, 0, 0}, component.Input{}, 1.667},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m := component.Motion{LastVelocity: c.last}
			in := c.input
			tr := component.Transform{}
			stepMove(&pc, &m, &in, &tr, 0, 1.0/60.0)
			if !approxEqual(m.Speed, c.wantSpeed, 1e-9) {
				t.Fatalf("speed = %v, want %v", m.Speed, c.wantSpeed)
			}
		})
	}
}

func TestStepMoveIsCameraRelative(t *testing.T) {
	pc := component.DefaultPlayerController()
	m := component.Motion{LastVelocity: mgl64.Vec3{0, 0, 2}}
	in := component.Input{MoveY: 1}
	tr := component.Transform{}

	delta := stepMove(&pc, &m, &in, &tr, 90, 0.5)

	if !approxEqual(m.TargetRotation, 90, 1e-9) {
		t.Fatalf("target rotation = %v, want 90", m.TargetRotation)
	}
	if !approxEqual(delta[0], 1, 1e-9) || !approxEqual(delta[2], 0, 1e-9) {
		t.Fatalf("forward with camera yaw 90 should move along +X, got %v", delta)
	}
	if tr.Yaw <= 0 || tr.Yaw > 90 {
		t.Fatalf("yaw should turn toward 90 without overshoot, got %v", tr.Yaw)
	}
}

func TestPlayerControllerWalksAndJumps(t *testing.T) {
	w := ecs.NewWorld()
	addFloor(t, w)
	player := addPlayer(t, w, 0, 0, 0)

	ps := NewPhysicsSystem()
	ps.Sync(w)
	systems := []ecs.System{NewGroundCheckSystem(ps), NewPlayerControllerSystem(ps), ps}

	in, _ := ecs.Get(w, player, component.InputComponent.Kind())
	for i := 0; i < 60; i++ {
		in.MoveY = 1
		step(w, fixedDT, systems...)
	}

	tr, _ := ecs.Get(w, player, component.TransformComponent.Kind())
	m, _ := ecs.Get(w, player, component.MotionComponent.Kind())
	if !approxEqual(tr.Y, 0, 1e-9) {
		t.Fatalf("walking player should stay on the floor, y = %v", tr.Y)
	}
	if tr.Z < 1 {
		t.Fatalf("expected forward progress along +Z, z = %v", tr.Z)
	}
	if !m.Grounded {
		t.Fatalf("expected grounded after walking")
	}
	if !approxEqual(m.Speed, 2, 1e-9) {
		t.Fatalf("walk speed = %v, want 2", m.Speed)
	}

	in.MoveY = 0
	if !TriggerJump(w, player) {
		t.Fatalf("TriggerJump should succeed on a controller entity")
	}
	peak := 0.0
	for i := 0; i < 120; i++ {
		step(w, fixedDT, systems...)
		peak = math.Max(peak, tr.Y)
	}
	if peak < 0.8 || peak > 1.1 {
		t.Fatalf("jump peak = %v, want about 1", peak)
	}
	if !approxEqual(tr.Y, 0, 1e-9) || !m.Grounded {
		t.Fatalf("expected to land again, y = %v grounded = %v", tr.Y, m.Grounded)
	}
}
