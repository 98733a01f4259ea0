package common

import (
	"math"
	"testing"
)

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestLerpClampsT(t *testing.T) {
	tests := []struct {
		name    string
		a, b, t float64
		want    float64
	}{
		{"mid", 0, 10, 0.5, 5},
		{"below", 0, 10, -1, 0},
		{"above", 0, 10, 2, 10},
		{"descending", 4, 2, 0.25, 3.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Lerp(tt.a, tt.b, tt.t); !approxEqual(got, tt.want, 1e-12) {
				t.Errorf("Lerp(%v, %v, %v) = %v, want %v", tt.a, tt.b, tt.t, got, tt.want)
			}
		})
	}
}

func TestDeltaAngle(t *testing.T) {
	tests := []struct {
		current, target, want float64
	}{
		{0, 90, 90},
		{0, 270, -90},
		{350, 10, 20},
		{10, 350, -20},
		{-720, 45, 45},
		{0, 180, 180},
	}
	for _, tt := range tests {
		if got := DeltaAngle(tt.current, tt.target); !approxEqual(got, tt.want, 1e-9) {
			t.Errorf("DeltaAngle(%v, %v) = %v, want %v", tt.current, tt.target, got, tt.want)
		}
	}
}

func TestPingPong(t *testing.T) {
	tests := []struct {
		t, want float64
	}{
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{1.5, 0.5},
		{2, 0},
		{2.25, 0.25},
	}
	for _, tt := range tests {
		if got := PingPong(tt.t, 1); !approxEqual(got, tt.want, 1e-9) {
			t.Errorf("PingPong(%v, 1) = %v, want %v", tt.t, got, tt.want)
		}
	}
}

func TestSmoothDampConvergesWithoutOvershoot(t *testing.T) {
	const dt = 1.0 / 60
	current, vel := 0.0, 0.0
	for i := 0; i < 120; i++ {
		current = SmoothDamp(current, 10, &vel, 0.12, dt)
		if current > 10 {
			t.Fatalf("overshot target at step %d: %v", i, current)
		}
	}
	if !approxEqual(current, 10, 1e-3) {
		t.Fatalf("expected convergence to 10, got %v", current)
	}
}

func TestSmoothDampAngleTakesShortWay(t *testing.T) {
	vel := 0.0
	got := SmoothDampAngle(350, 10, &vel, 0.12, 1.0/60)
	if got <= 350 {
		t.Fatalf("expected to move upward through 360, got %v", got)
	}
}

func TestClampAngle(t *testing.T) {
	tests := []struct {
		name            string
		angle, min, max float64
		want            float64
	}{
		{"pitch_in_range", 10, -30, 70, 10},
		{"pitch_over_top", 95, -30, 70, 70},
		{"pitch_under_bottom", -80, -30, 70, -30},
		{"pitch_wraps_before_clamp", 400, -30, 70, 40},
		{"yaw_wraps_positive", 725, -math.MaxFloat64, math.MaxFloat64, 5},
		{"yaw_wraps_negative", -1000, -math.MaxFloat64, math.MaxFloat64, -280},
		{"pitch_positive_infinity", math.Inf(1), -30, 70, 0},
		{"pitch_nan", math.NaN(), 10, 70, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampAngle(tt.angle, tt.min, tt.max); !approxEqual(got, tt.want, 1e-9) {
				t.Errorf("ClampAngle(%v) = %v, want %v", tt.angle, got, tt.want)
			}
		})
	}
}

func TestClampAngleHugeInput(t *testing.T) {
	for _, angle := range []float64{1e12, 1e20, -1e20, math.MaxFloat64} {
		got := ClampAngle(angle, -30, 70)
		if got < -30 || got > 70 {
			t.Errorf("ClampAngle(%v) = %v, want within [-30, 70]", angle, got)
		}
		yaw := ClampAngle(angle, -math.MaxFloat64, math.MaxFloat64)
		if yaw < -360 || yaw > 360 {
			t.Errorf("ClampAngle(%v) yaw = %v, want within [-360, 360]", angle, yaw)
		}
	}
}

func TestRound3(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{1.23449, 1.234},
		{1.2346, 1.235},
		{-0.0004, 0},
		{5.335, 5.335},
	}
	for _, tt := range tests {
		if got := Round3(tt.in); !approxEqual(got, tt.want, 1e-12) {
			t.Errorf("Round3(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
