package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

func Clamp(v, lo, hi float64) float64 {
	return mgl64.Clamp(v, lo, hi)
}

func Clamp01(v float64) float64 {
	return mgl64.Clamp(v, 0, 1)
}

// Lerp interpolates from a to b with t clamped to [0, 1].
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*Clamp01(t)
}

// LerpVec interpolates two vectors with t clamped to [0, 1].
func LerpVec(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(Clamp01(t)))
}

// Repeat wraps t into [0, length).
func Repeat(t, length float64) float64 {
	return Clamp(t-math.Floor(t/length)*length, 0, length)
}

// PingPong bounces t between 0 and length.
func PingPong(t, length float64) float64 {
	t = Repeat(t, length*2)
	return length - math.Abs(t-length)
}

// DeltaAngle returns the shortest signed difference between two angles in
// degrees, in (-180, 180].
func DeltaAngle(current, target float64) float64 {
	d := Repeat(target-current, 360)
	if d > 180 {
		d -= 360
	}
	return d
}

// SmoothDamp moves current toward target like a critically damped spring
// that settles in roughly smoothTime seconds. velocity carries the spring
// state between calls. The result never overshoots target.
func SmoothDamp(current, target float64, velocity *float64, smoothTime, dt float64) float64 {
	if dt <= 0 {
		return current
	}
	smoothTime = math.Max(0.0001, smoothTime)
	omega := 2 / smoothTime

	x := omega * dt
	exp := 1 / (1 + x + 0.48*x*x + 0.235*x*x*x)
	change := current - target
	originalTo := target

	target = current - change

	temp := (*velocity + omega*change) * dt
	*velocity = (*velocity - omega*temp) * exp
	output := target + (change+temp)*exp

	if (originalTo-current > 0) == (output > originalTo) {
		output = originalTo
		*velocity = (output - originalTo) / dt
	}
	return output
}

// SmoothDampAngle is SmoothDamp over degrees, taking the short way round.
func SmoothDampAngle(current, target float64, velocity *float64, smoothTime, dt float64) float64 {
	target = current + DeltaAngle(current, target)
	return SmoothDamp(current, target, velocity, smoothTime, dt)
}

// ClampAngle brings angle into [-360, 360] by whole turns, then clamps it to
// [min, max]. Non-finite angles clamp 0.
func ClampAngle(angle, min, max float64) float64 {
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return Clamp(0, min, max)
	}
	if angle < -360 || angle > 360 {
		angle = math.Mod(angle, 360)
	}
	return Clamp(angle, min, max)
}

// Round3 rounds to three decimals, half to even.
func Round3(v float64) float64 {
	return math.RoundToEven(v*1000) / 1000
}
