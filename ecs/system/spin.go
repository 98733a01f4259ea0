package system

import (
	"math"

	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

// SpinSystem turns and bobs pickups in place.
type SpinSystem struct{}

func NewSpinSystem() *SpinSystem { return &SpinSystem{} }

func (s *SpinSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	now, dt := w.Time(), w.DeltaTime()

	ecs.ForEach2(w, component.SpinComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, sp *component.Spin, t *component.Transform) {
		if !sp.Initialized {
			sp.BaseY = t.Y
			sp.Initialized = true
		}
		t.Yaw = math.Mod(t.Yaw+sp.DegreesPerSecond*dt, 360)
		t.Y = sp.BaseY + math.Sin(now*sp.BobSpeed)*sp.BobAmplitude
	})
}
