package system

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

const (
	nearPlane  = 0.1
	farPlane   = 200.0
	defaultFOV = 60.0
)

var (
	groundColor  = color.NRGBA{R: 120, G: 160, B: 120, A: 255}
	hazardColor  = color.NRGBA{R: 220, G: 60, B: 60, A: 255}
	pickupColor  = color.NRGBA{R: 240, G: 200, B: 60, A: 255}
	triggerColor = color.NRGBA{R: 90, G: 140, B: 220, A: 255}
	enemyColor   = color.NRGBA{R: 200, G: 80, B: 200, A: 255}
	agentColor   = color.NRGBA{R: 80, G: 220, B: 220, A: 255}
)

// RenderSystem draws the world as wire boxes and character markers seen
// from the follow camera.
type RenderSystem struct {
	camEntity ecs.Entity
	debug     bool
}

func NewRenderSystem(debug bool) *RenderSystem {
	return &RenderSystem{debug: debug}
}

func (r *RenderSystem) ToggleDebug() bool {
	r.debug = !r.debug
	return r.debug
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}

	if !ecs.IsAlive(w, r.camEntity) || !ecs.Has(w, r.camEntity, component.CameraFollowComponent.Kind()) {
		if e, ok := ecs.First(w, component.CameraFollowComponent.Kind()); ok {
			r.camEntity = e
		}
	}

	b := screen.Bounds()
	width, height := float64(b.Dx()), float64(b.Dy())
	vp, eye, ok := CameraViewProjection(w, r.camEntity, width/height)
	if !ok {
		ebitenutil.DebugPrintAt(screen, "no camera", 8, 8)
		return
	}

	for _, e := range sortedByDepth(w, eye, ecs.Query(w, component.ColliderComponent.Kind(), component.TransformComponent.Kind())) {
		col, _ := ecs.Get(w, e, component.ColliderComponent.Kind())
		t, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		drawWireBox(screen, vp, width, height, colliderCorners(col, t), colliderColor(w, e, col))
	}

	for _, e := range sortedByDepth(w, eye, ecs.Query(w, component.CharacterBodyComponent.Kind(), component.TransformComponent.Kind())) {
		cb, _ := ecs.Get(w, e, component.CharacterBodyComponent.Kind())
		t, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		r.drawCharacter(screen, w, e, vp, width, height, cb, t)
	}

	ecs.ForEach2(w, component.VelocityComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.Velocity, t *component.Transform) {
		if ecs.Has(w, e, component.CharacterBodyComponent.Kind()) {
			return
		}
		if x, y, ok := ProjectPoint(vp, t.Position(), width, height); ok {
			vector.DrawFilledCircle(screen, x, y, 6, agentColor, true)
		}
	})

	if r.debug {
		r.drawDebug(w, screen)
	}
}

func (r *RenderSystem) drawCharacter(screen *ebiten.Image, w *ecs.World, e ecs.Entity, vp mgl64.Mat4, width, height float64, cb *component.CharacterBody, t *component.Transform) {
	base := t.Position()
	top := base.Add(mgl64.Vec3{0, cb.Height, 0})
	bx, by, okBase := ProjectPoint(vp, base, width, height)
	tx, ty, okTop := ProjectPoint(vp, top, width, height)
	if !okBase || !okTop {
		return
	}

	clr := color.Color(enemyColor)
	if tint, ok := ecs.Get(w, e, component.TintComponent.Kind()); ok {
		clr = tint.Color
	}

	radius := float32(math.Abs(float64(by-ty)) / 4)
	if anim, ok := ecs.Get(w, e, component.AnimatorComponent.Kind()); ok {
		// pulse with the locomotion blend
		radius *= 1 + float32(math.Min(anim.Speed, 6))*0.03
	}
	vector.StrokeLine(screen, bx, by, tx, ty, 2, clr, true)
	vector.DrawFilledCircle(screen, tx, ty, radius, clr, true)

	nose := top.Add(t.Forward().Mul(cb.Radius * 2))
	if nx, ny, ok := ProjectPoint(vp, nose, width, height); ok {
		vector.StrokeLine(screen, tx, ty, nx, ny, 2, color.White, true)
	}
}

func (r *RenderSystem) drawDebug(w *ecs.World, screen *ebiten.Image) {
	y := 8
	line := func(format string, args ...any) {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf(format, args...), 8, y)
		y += 16
	}

	line("TPS %.0f  FPS %.0f", ebiten.ActualTPS(), ebiten.ActualFPS())
	if p, ok := ecs.First(w, component.PlayerTagComponent.Kind()); ok {
		if t, ok := ecs.Get(w, p, component.TransformComponent.Kind()); ok {
			line("pos %.2f %.2f %.2f  yaw %.1f", t.X, t.Y, t.Z, t.Yaw)
		}
		if m, ok := ecs.Get(w, p, component.MotionComponent.Kind()); ok {
			line("speed %.3f  vy %.2f  grounded %v", m.Speed, m.VerticalVelocity, m.Grounded)
		}
		if cam, ok := ecs.Get(w, p, component.CameraStateComponent.Kind()); ok {
			line("cam yaw %.1f pitch %.1f", cam.Yaw, cam.Pitch)
		}
	}
	ecs.ForEach(w, component.GuideAgentComponent.Kind(), func(_ ecs.Entity, g *component.GuideAgent) {
		line("guide ep %d ok %d reward %.2f", g.Episodes, g.Successes, g.CumulativeReward)
	})
}

// CameraViewProjection builds the view-projection matrix for a follow
// camera and returns the eye position.
func CameraViewProjection(w *ecs.World, camEntity ecs.Entity, aspect float64) (mgl64.Mat4, mgl64.Vec3, bool) {
	follow, ok := ecs.Get(w, camEntity, component.CameraFollowComponent.Kind())
	if !ok {
		return mgl64.Mat4{}, mgl64.Vec3{}, false
	}
	target := ecs.Entity(follow.Target)
	t, ok := ecs.Get(w, target, component.TransformComponent.Kind())
	if !ok {
		return mgl64.Mat4{}, mgl64.Vec3{}, false
	}

	orientation := mgl64.QuatIdent()
	if rig, ok := ecs.Get(w, target, component.CameraRigComponent.Kind()); ok {
		orientation = rig.Orientation
	}
	forward := orientation.Rotate(mgl64.Vec3{0, 0, 1})

	pivot := t.Position().Add(mgl64.Vec3{0, follow.Height, 0})
	eye := pivot.Sub(forward.Mul(follow.Distance))

	fov := follow.FOV
	if fov <= 0 {
		fov = defaultFOV
	}
	if aspect <= 0 {
		aspect = 1
	}
	proj := mgl64.Perspective(mgl64.DegToRad(fov), aspect, nearPlane, farPlane)
	view := mgl64.LookAtV(eye, pivot, mgl64.Vec3{0, 1, 0})
	return proj.Mul4(view), eye, true
}

// ProjectPoint maps a world point to screen pixels. Points behind the
// camera are rejected.
func ProjectPoint(vp mgl64.Mat4, p mgl64.Vec3, width, height float64) (float32, float32, bool) {
	clip := vp.Mul4x1(p.Vec4(1))
	if clip[3] <= nearPlane {
		return 0, 0, false
	}
	ndcX := clip[0] / clip[3]
	ndcY := clip[1] / clip[3]
	x := (ndcX + 1) / 2 * width
	y := (1 - ndcY) / 2 * height
	return float32(x), float32(y), true
}

func colliderCorners(col *component.Collider, t *component.Transform) [8]mgl64.Vec3 {
	lo, hi := colliderBox(col, t)
	return [8]mgl64.Vec3{
		{lo[0], lo[1], lo[2]},
		{hi[0], lo[1], lo[2]},
		{hi[0], lo[1], hi[2]},
		{lo[0], lo[1], hi[2]},
		{lo[0], hi[1], lo[2]},
		{hi[0], hi[1], lo[2]},
		{hi[0], hi[1], hi[2]},
		{lo[0], hi[1], hi[2]},
	}
}

var boxEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

func drawWireBox(screen *ebiten.Image, vp mgl64.Mat4, width, height float64, corners [8]mgl64.Vec3, clr color.Color) {
	var pts [8][2]float32
	var visible [8]bool
	for i, c := range corners {
		x, y, ok := ProjectPoint(vp, c, width, height)
		pts[i] = [2]float32{x, y}
		visible[i] = ok
	}
	for _, edge := range boxEdges {
		a, b := edge[0], edge[1]
		if !visible[a] || !visible[b] {
			continue
		}
		vector.StrokeLine(screen, pts[a][0], pts[a][1], pts[b][0], pts[b][1], 1, clr, true)
	}
}

func colliderColor(w *ecs.World, e ecs.Entity, col *component.Collider) color.Color {
	if tint, ok := ecs.Get(w, e, component.TintComponent.Kind()); ok {
		return tint.Color
	}
	switch {
	case col.Layer&component.LayerHazard != 0:
		return hazardColor
	case col.Layer&component.LayerPickup != 0:
		return pickupColor
	case col.Trigger:
		return triggerColor
	default:
		return groundColor
	}
}

// sortedByDepth orders entities far to near so closer ones draw on top.
func sortedByDepth(w *ecs.World, eye mgl64.Vec3, entities []ecs.Entity) []ecs.Entity {
	dist := make(map[ecs.Entity]float64, len(entities))
	for _, e := range entities {
		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			dist[e] = t.Position().Sub(eye).LenSqr()
		}
	}
	sort.SliceStable(entities, func(i, j int) bool {
		if dist[entities[i]] != dist[entities[j]] {
			return dist[entities[i]] > dist[entities[j]]
		}
		return uint64(entities[i]) < uint64(entities[j])
	})
	return entities
}
