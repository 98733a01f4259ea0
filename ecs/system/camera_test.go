package system

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

func TestRotateCameraClamps(t *testing.T) {
	cases := []struct {
		name      string
		start     component.CameraState
		lookX     float64
		lookY     float64
		wantYaw   float64
		wantPitch float64
	}{
		{"applies_sensitivity", component.CameraState{}, 10, -4, 5, 2},
		{"pitch_top_clamp", component.CameraState{Pitch: 60}, 0, -100, 0, 70},
		{"pitch_bottom_clamp", component.CameraState{Pitch: -20}, 0, 100, 0, -30},
		{"yaw_wraps", component.CameraState{Yaw: 350}, 40, 0, 10, 0},
		{"yaw_wraps_negative", component.CameraState{Yaw: -350}, -40, 0, -10, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cam := c.start
			rig := component.DefaultCameraRig()
			rotateCamera(&cam, &rig, c.lookX, c.lookY)
			if !approxEqual(cam.Yaw, c.wantYaw, 1e-9) {
				t.Fatalf("yaw = %v, want %v", cam.Yaw, c.wantYaw)
			}
			if !approxEqual(cam.Pitch, c.wantPitch, 1e-9) {
				t.Fatalf("pitch = %v, want %v", cam.Pitch, c.wantPitch)
			}
		})
	}
}

func TestCameraPitchAlwaysWithinLimits(t *testing.T) {
	cam := component.CameraState{}
	rig := component.DefaultCameraRig()
	looks := []float64{500, -37, 1e6, -1e6, 3.5, 0, -220, 1e20, -1e20, 1e300, math.Inf(1)}
	for i := 0; i < 200; i++ {
		l := looks[i%len(looks)]
		rotateCamera(&cam, &rig, l*1.7, l)
		if cam.Pitch < rig.BottomClamp || cam.Pitch > rig.TopClamp {
			t.Fatalf("pitch %v escaped [%v, %v]", cam.Pitch, rig.BottomClamp, rig.TopClamp)
		}
		if cam.Yaw < -360 || cam.Yaw > 360 {
			t.Fatalf("yaw %v escaped [-360, 360]", cam.Yaw)
		}
	}
}

func TestCameraOrientationForward(t *testing.T) {
	cases := []struct {
		yaw, pitch float64
		want       mgl64.Vec3
	}{
		{0, 0, mgl64.Vec3{0, 0, 1}},
		{90, 0, mgl64.Vec3{1, 0, 0}},
		{0, 90, mgl64.Vec3{0, -1, 0}},
	}
	for _, c := range cases {
		got := CameraOrientation(c.yaw, c.pitch).Rotate(mgl64.Vec3{0, 0, 1})
		if !got.ApproxEqualThreshold(c.want, 1e-9) {
			t.Fatalf("forward for yaw %v pitch %v = %v, want %v", c.yaw, c.pitch, got, c.want)
		}
	}
}

func TestCameraSystemConsumesLook(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	rig := component.DefaultCameraRig()
	mustAdd(t, w, e, component.InputComponent.Kind(), &component.Input{LookX: 4, LookY: 2})
	mustAdd(t, w, e, component.CameraStateComponent.Kind(), &component.CameraState{})
	mustAdd(t, w, e, component.CameraRigComponent.Kind(), &rig)

	step(w, fixedDT, NewCameraSystem())
	step(w, fixedDT, NewCameraSystem())

	cam, _ := ecs.Get(w, e, component.CameraStateComponent.Kind())
	if !approxEqual(cam.Yaw, 2, 1e-9) || !approxEqual(cam.Pitch, -1, 1e-9) {
		t.Fatalf("look should apply once, got yaw %v pitch %v", cam.Yaw, cam.Pitch)
	}
	in, _ := ecs.Get(w, e, component.InputComponent.Kind())
	if in.LookX != 0 || in.LookY != 0 {
		t.Fatalf("look input should be consumed")
	}
}
