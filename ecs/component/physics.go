package component

import "github.com/go-gl/mathgl/mgl64"

// Collision layer bits. They are used as cp shape filter categories and
// masks.
const (
	LayerGround uint = 1 << iota
	LayerHazard
	LayerPickup
	LayerCharacter
	LayerEnemy
)

// Collider is an axis-aligned box. Its footprint is centred on the
// transform's X/Z and its base sits at Y + OffsetY.
type Collider struct {
	Width   float64
	Height  float64
	Depth   float64
	OffsetY float64

	Layer   uint
	Trigger bool
	// Kinematic colliders are re-synced into the physics space every step.
	Kinematic bool
}

var ColliderComponent = NewComponent[Collider]()

// CharacterBody is an upright box moved by the kinematic mover.
type CharacterBody struct {
	Radius     float64
	Height     float64
	StepHeight float64
	Layer      uint
	// SolidMask selects which collider layers block movement.
	SolidMask uint
}

var CharacterBodyComponent = NewComponent[CharacterBody]()

// Velocity is used by force-driven bodies. Forces accumulate for one step
// and are integrated by the physics system.
type Velocity struct {
	Linear mgl64.Vec3
	Force  mgl64.Vec3
	Mass   float64
	Drag   float64
	// UseGravity makes the body fall; its vertical motion is stopped by
	// the mover.
	UseGravity bool
}

var VelocityComponent = NewComponent[Velocity]()

var layerNames = map[string]uint{
	"ground":    LayerGround,
	"hazard":    LayerHazard,
	"pickup":    LayerPickup,
	"character": LayerCharacter,
	"enemy":     LayerEnemy,
}

// LayerByName resolves a prefab layer name.
func LayerByName(name string) (uint, bool) {
	l, ok := layerNames[name]
	return l, ok
}

// LayerMask ORs the named layers together. Unknown names are reported
// through ok.
func LayerMask(names []string) (mask uint, ok bool) {
	ok = true
	for _, n := range names {
		l, found := LayerByName(n)
		if !found {
			ok = false
			continue
		}
		mask |= l
	}
	return mask, ok
}
