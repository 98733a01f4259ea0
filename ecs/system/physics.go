package system

import (
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

// Gravity is the world's downward acceleration in m/s^2.
const Gravity = -9.81

const (
	contactEpsilon = 1e-4
	// queryMargin pads broadphase boxes. Moving shapes are only reindexed
	// on Step, so their cached bounds can trail the ECS by one tick.
	queryMargin = 0.5
	// penetrationTolerance lets a character ride a platform that rose into
	// its feet since the last step.
	penetrationTolerance = 0.1
)

// Mover moves an entity through the collision world and reports the
// displacement that was actually applied.
type Mover interface {
	Move(w *ecs.World, e ecs.Entity, delta mgl64.Vec3) mgl64.Vec3
}

// ShapeQuerier answers overlap questions against the collision world.
type ShapeQuerier interface {
	CheckSphere(w *ecs.World, center mgl64.Vec3, radius float64, mask uint, ignore ecs.Entity) bool
	Overlapping(w *ecs.World, e ecs.Entity, mask uint) []ecs.Entity
}

// ContactReporter lists the solid colliders that stopped an entity's moves
// since the last physics step.
type ContactReporter interface {
	Contacts(e ecs.Entity) []ecs.Entity
}

// PhysicsSystem mirrors colliders and character bodies into a cp space. cp
// provides the XZ broadphase and layer filtering; box tests and the
// per-axis character mover run in 3D on top of it.
type PhysicsSystem struct {
	space    *cp.Space
	entities map[ecs.Entity]*bodyInfo
	contacts map[ecs.Entity][]ecs.Entity
}

type bodyInfo struct {
	body      *cp.Body
	shape     *cp.Shape
	static    bool
	character bool
	footprint cp.BB
}

func NewPhysicsSystem() *PhysicsSystem {
	return &PhysicsSystem{
		space:    cp.NewSpace(),
		entities: make(map[ecs.Entity]*bodyInfo),
		contacts: make(map[ecs.Entity][]ecs.Entity),
	}
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	if ps.space == nil {
		ps.space = cp.NewSpace()
		ps.entities = make(map[ecs.Entity]*bodyInfo)
	}

	clear(ps.contacts)
	ps.syncEntities(w)
	ps.integrateBodies(w)

	if dt := w.DeltaTime(); dt > 0 {
		ps.space.Step(dt)
	}
}

// Sync makes the space match the world without stepping it. Tests and scene
// loading use it to populate the broadphase before the first tick.
func (ps *PhysicsSystem) Sync(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	ps.syncEntities(w)
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	ps.cleanupEntities(w)

	ecs.ForEach2(w, component.ColliderComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, col *component.Collider, t *component.Transform) {
		if ecs.Has(w, e, component.CharacterBodyComponent.Kind()) {
			return
		}
		filter := cp.NewShapeFilter(cp.NO_GROUP, col.Layer, cp.ALL_CATEGORIES)

		if col.Kinematic {
			info := ps.entities[e]
			if info != nil && info.static {
				ps.removeEntity(e, info)
				info = nil
			}
			if info == nil {
				body := cp.NewKinematicBody()
				ps.space.AddBody(body)
				shape := cp.NewBox(body, col.Width, col.Depth, 0)
				info = &bodyInfo{body: body, shape: shape}
				ps.addShape(e, info, filter, col.Trigger)
				ps.entities[e] = info
			}
			info.body.SetPosition(cp.Vector{X: t.X, Y: t.Z})
			return
		}

		footprint := colliderFootprint(col, t)
		info := ps.entities[e]
		if info != nil && (!info.static || info.footprint != footprint) {
			ps.removeEntity(e, info)
			info = nil
		}
		if info == nil {
			shape := cp.NewBox2(ps.space.StaticBody, footprint, 0)
			info = &bodyInfo{body: ps.space.StaticBody, shape: shape, static: true, footprint: footprint}
			ps.addShape(e, info, filter, col.Trigger)
			ps.entities[e] = info
		}
	})

	ecs.ForEach2(w, component.CharacterBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, cb *component.CharacterBody, t *component.Transform) {
		info := ps.entities[e]
		if info != nil && !info.character {
			ps.removeEntity(e, info)
			info = nil
		}
		if info == nil {
			body := cp.NewKinematicBody()
			ps.space.AddBody(body)
			shape := cp.NewCircle(body, cb.Radius, cp.Vector{})
			info = &bodyInfo{body: body, shape: shape, character: true}
			ps.addShape(e, info, cp.NewShapeFilter(cp.NO_GROUP, cb.Layer, cp.ALL_CATEGORIES), true)
			ps.entities[e] = info
		}
		info.body.SetPosition(cp.Vector{X: t.X, Y: t.Z})
	})
}

func (ps *PhysicsSystem) addShape(e ecs.Entity, info *bodyInfo, filter cp.ShapeFilter, sensor bool) {
	info.shape.UserData = e
	info.shape.SetFilter(filter)
	info.shape.SetSensor(sensor)
	ps.space.AddShape(info.shape)
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.entities {
		if !ecs.IsAlive(w, e) {
			ps.removeEntity(e, info)
			continue
		}
		if info.character {
			if !ecs.Has(w, e, component.CharacterBodyComponent.Kind()) {
				ps.removeEntity(e, info)
			}
			continue
		}
		if !ecs.Has(w, e, component.ColliderComponent.Kind()) || ecs.Has(w, e, component.CharacterBodyComponent.Kind()) {
			ps.removeEntity(e, info)
		}
	}
}

func (ps *PhysicsSystem) removeEntity(e ecs.Entity, info *bodyInfo) {
	if info.shape != nil && ps.space.ContainsShape(info.shape) {
		ps.space.RemoveShape(info.shape)
	}
	if !info.static && info.body != nil && ps.space.ContainsBody(info.body) {
		ps.space.RemoveBody(info.body)
	}
	delete(ps.entities, e)
}

// integrateBodies advances force-driven bodies with explicit Euler and
// moves them through the mover. Axes that hit something lose their
// velocity.
func (ps *PhysicsSystem) integrateBodies(w *ecs.World) {
	dt := w.DeltaTime()
	if dt <= 0 {
		return
	}
	ecs.ForEach2(w, component.VelocityComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, v *component.Velocity, _ *component.Transform) {
		mass := v.Mass
		if mass <= 0 {
			mass = 1
		}
		acc := v.Force.Mul(1 / mass)
		if v.UseGravity {
			acc[1] += Gravity
		}
		v.Linear = v.Linear.Add(acc.Mul(dt))
		if v.Drag > 0 {
			v.Linear = v.Linear.Mul(1 / (1 + v.Drag*dt))
		}
		v.Force = mgl64.Vec3{}

		want := v.Linear.Mul(dt)
		got := ps.Move(w, e, want)
		for i := 0; i < 3; i++ {
			if math.Abs(got[i]-want[i]) > contactEpsilon {
				v.Linear[i] = 0
			}
		}
	})
}

// ApplyForce accumulates f into the entity's Velocity for the next step.
func (ps *PhysicsSystem) ApplyForce(w *ecs.World, e ecs.Entity, f mgl64.Vec3) bool {
	v, ok := ecs.Get(w, e, component.VelocityComponent.Kind())
	if !ok {
		return false
	}
	v.Force = v.Force.Add(f)
	return true
}

// Move displaces e by delta, resolving Y first and then X and Z against
// solid colliders on the character's SolidMask. Entities without a
// CharacterBody are translated without collision.
func (ps *PhysicsSystem) Move(w *ecs.World, e ecs.Entity, delta mgl64.Vec3) mgl64.Vec3 {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return mgl64.Vec3{}
	}
	cb, ok := ecs.Get(w, e, component.CharacterBodyComponent.Kind())
	if !ok {
		t.SetPosition(t.Position().Add(delta))
		return delta
	}

	pos := t.Position()
	solids := ps.solidBoxes(w, e, cb, pos, delta)

	var applied mgl64.Vec3
	for _, axis := range [3]int{1, 0, 2} {
		d := delta[axis]
		// Y is always resolved so a platform that rose into the feet
		// pushes the character up.
		if d == 0 && axis != 1 {
			continue
		}
		min, max := characterBox(cb, pos)
		for _, b := range solids {
			if !overlapsOther(min, max, b.min, b.max, axis) {
				continue
			}
			hit := false
			switch {
			case axis == 1 && d <= 0:
				if min[1] >= b.max[1]-penetrationTolerance && min[1]+d < b.max[1] {
					d = b.max[1] - min[1]
					hit = true
				}
			case d > 0:
				if max[axis] <= b.min[axis]+contactEpsilon && max[axis]+d > b.min[axis] {
					d = math.Max(0, b.min[axis]-max[axis])
					hit = true
				}
			case d < 0:
				if min[axis] >= b.max[axis]-contactEpsilon && min[axis]+d < b.max[axis] {
					d = math.Min(0, b.max[axis]-min[axis])
					hit = true
				}
			}
			if hit {
				ps.addContact(e, b.entity)
			}
		}
		pos[axis] += d
		applied[axis] = d
	}

	t.SetPosition(pos)
	if info := ps.entities[e]; info != nil && info.body != nil {
		info.body.SetPosition(cp.Vector{X: pos[0], Y: pos[2]})
	}
	return applied
}

func (ps *PhysicsSystem) addContact(e, other ecs.Entity) {
	if ps.contacts == nil {
		ps.contacts = make(map[ecs.Entity][]ecs.Entity)
	}
	if slices.Contains(ps.contacts[e], other) {
		return
	}
	ps.contacts[e] = append(ps.contacts[e], other)
}

// Contacts returns the solid colliders e ran into since the last Update.
func (ps *PhysicsSystem) Contacts(e ecs.Entity) []ecs.Entity {
	if ps == nil {
		return nil
	}
	return ps.contacts[e]
}

type box struct {
	entity   ecs.Entity
	min, max mgl64.Vec3
}

func (ps *PhysicsSystem) solidBoxes(w *ecs.World, self ecs.Entity, cb *component.CharacterBody, pos, delta mgl64.Vec3) []box {
	min, max := characterBox(cb, pos)
	bb := cp.BB{
		L: math.Min(min[0], min[0]+delta[0]) - queryMargin,
		B: math.Min(min[2], min[2]+delta[2]) - queryMargin,
		R: math.Max(max[0], max[0]+delta[0]) + queryMargin,
		T: math.Max(max[2], max[2]+delta[2]) + queryMargin,
	}

	var out []box
	for _, other := range ps.query(bb, cb.SolidMask) {
		if other == self {
			continue
		}
		col, ok := ecs.Get(w, other, component.ColliderComponent.Kind())
		if !ok || col.Trigger {
			continue
		}
		t, ok := ecs.Get(w, other, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		bmin, bmax := colliderBox(col, t)
		out = append(out, box{entity: other, min: bmin, max: bmax})
	}
	return out
}

// CheckSphere reports whether a sphere touches any solid collider on mask.
func (ps *PhysicsSystem) CheckSphere(w *ecs.World, center mgl64.Vec3, radius float64, mask uint, ignore ecs.Entity) bool {
	if ps == nil || ps.space == nil {
		return false
	}
	bb := cp.NewBBForCircle(cp.Vector{X: center[0], Y: center[2]}, radius+queryMargin)
	for _, other := range ps.query(bb, mask) {
		if other == ignore {
			continue
		}
		col, ok := ecs.Get(w, other, component.ColliderComponent.Kind())
		if !ok || col.Trigger {
			continue
		}
		t, ok := ecs.Get(w, other, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		bmin, bmax := colliderBox(col, t)
		if sphereIntersectsBox(center, radius, bmin, bmax) {
			return true
		}
	}
	return false
}

// Overlapping returns the trigger colliders and other characters on mask
// whose boxes intersect e's box.
func (ps *PhysicsSystem) Overlapping(w *ecs.World, e ecs.Entity, mask uint) []ecs.Entity {
	if ps == nil || ps.space == nil {
		return nil
	}
	min, max, ok := entityBox(w, e)
	if !ok {
		return nil
	}
	bb := cp.BB{L: min[0] - queryMargin, B: min[2] - queryMargin, R: max[0] + queryMargin, T: max[2] + queryMargin}

	var out []ecs.Entity
	for _, other := range ps.query(bb, mask) {
		if other == e {
			continue
		}
		if col, ok := ecs.Get(w, other, component.ColliderComponent.Kind()); ok && !col.Trigger {
			continue
		}
		omin, omax, ok := entityBox(w, other)
		if !ok {
			continue
		}
		if boxesOverlap(min, max, omin, omax) {
			out = append(out, other)
		}
	}
	return out
}

func (ps *PhysicsSystem) query(bb cp.BB, mask uint) []ecs.Entity {
	if ps.space == nil {
		return nil
	}
	var out []ecs.Entity
	filter := cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, mask)
	ps.space.BBQuery(bb, filter, func(shape *cp.Shape, _ interface{}) {
		if e, ok := shape.UserData.(ecs.Entity); ok {
			out = append(out, e)
		}
	}, nil)
	return out
}

func colliderFootprint(col *component.Collider, t *component.Transform) cp.BB {
	return cp.NewBBForExtents(cp.Vector{X: t.X, Y: t.Z}, col.Width/2, col.Depth/2)
}

func colliderBox(col *component.Collider, t *component.Transform) (mgl64.Vec3, mgl64.Vec3) {
	base := t.Y + col.OffsetY
	return mgl64.Vec3{t.X - col.Width/2, base, t.Z - col.Depth/2},
		mgl64.Vec3{t.X + col.Width/2, base + col.Height, t.Z + col.Depth/2}
}

func characterBox(cb *component.CharacterBody, pos mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	return mgl64.Vec3{pos[0] - cb.Radius, pos[1], pos[2] - cb.Radius},
		mgl64.Vec3{pos[0] + cb.Radius, pos[1] + cb.Height, pos[2] + cb.Radius}
}

func entityBox(w *ecs.World, e ecs.Entity) (mgl64.Vec3, mgl64.Vec3, bool) {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}
	if cb, ok := ecs.Get(w, e, component.CharacterBodyComponent.Kind()); ok {
		min, max := characterBox(cb, t.Position())
		return min, max, true
	}
	if col, ok := ecs.Get(w, e, component.ColliderComponent.Kind()); ok {
		min, max := colliderBox(col, t)
		return min, max, true
	}
	return mgl64.Vec3{}, mgl64.Vec3{}, false
}

// overlapsOther reports strict overlap on the two axes other than skip.
func overlapsOther(amin, amax, bmin, bmax mgl64.Vec3, skip int) bool {
	for i := 0; i < 3; i++ {
		if i == skip {
			continue
		}
		if amin[i] >= bmax[i]-contactEpsilon || amax[i] <= bmin[i]+contactEpsilon {
			return false
		}
	}
	return true
}

func boxesOverlap(amin, amax, bmin, bmax mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if amin[i] > bmax[i] || amax[i] < bmin[i] {
			return false
		}
	}
	return true
}

func sphereIntersectsBox(center mgl64.Vec3, radius float64, bmin, bmax mgl64.Vec3) bool {
	var closest mgl64.Vec3
	for i := 0; i < 3; i++ {
		closest[i] = mgl64.Clamp(center[i], bmin[i], bmax[i])
	}
	return closest.Sub(center).LenSqr() <= radius*radius
}
