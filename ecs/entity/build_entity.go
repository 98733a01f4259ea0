package entity

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
	"github.com/milk9111/thirdperson/prefabs"
)

type entityPrefabSpec = prefabs.EntityBuildSpec

type buildContext struct {
	PrefabPath string
	builder    *Builder
}

// refer queues a name lookup that runs once every entity is spawned.
func (ctx *buildContext) refer(name string, set func(ecs.Entity)) {
	if name == "" || ctx.builder == nil {
		return
	}
	ctx.builder.links = append(ctx.builder.links, link{name: name, prefab: ctx.PrefabPath, set: set})
}

type link struct {
	name   string
	prefab string
	set    func(ecs.Entity)
}

// Builder spawns prefabs into a world. References between entities, such as
// a camera's target, are written as names and resolved by Link.
type Builder struct {
	w     *ecs.World
	names map[string]ecs.Entity
	links []link
}

func NewBuilder(w *ecs.World) *Builder {
	return &Builder{w: w, names: map[string]ecs.Entity{}}
}

// Lookup returns the entity registered under name.
func (b *Builder) Lookup(name string) (ecs.Entity, bool) {
	e, ok := b.names[name]
	return e, ok
}

// Link resolves every queued reference. Unresolved names are an error.
func (b *Builder) Link() error {
	var missing []string
	for _, l := range b.links {
		target, ok := b.names[l.name]
		if !ok {
			missing = append(missing, fmt.Sprintf("%s -> %q", l.prefab, l.name))
			continue
		}
		l.set(target)
	}
	b.links = nil
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("link entities: unresolved %v", missing)
	}
	return nil
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"player_tag":        addPlayerTag,
	"camera_tag":        addCameraTag,
	"enemy_tag":         addEnemyTag,
	"transform":         addTransform,
	"collider":          addCollider,
	"character_body":    addCharacterBody,
	"velocity":          addVelocity,
	"player_controller": addPlayerController,
	"motion":            addMotion,
	"input":             addInput,
	"camera_state":      addCameraState,
	"camera_rig":        addCameraRig,
	"camera_follow":     addCameraFollow,
	"health":            addHealth,
	"knockback":         addKnockback,
	"hazard":            addHazard,
	"collectible":       addCollectible,
	"spin":              addSpin,
	"moving_block":      addMovingBlock,
	"chase":             addChase,
	"nav_agent":         addNavAgent,
	"pathfinding":       addPathfinding,
	"animator":          addAnimator,
	"tint":              addTint,
	"damage_flash":      addDamageFlash,
	"fall_checker":      addFallChecker,
	"scene_timer":       addSceneTimer,
	"scene_portal":      addScenePortal,
	"guide_agent":       addGuideAgent,
}

var componentBuildOrder = []string{
	"player_tag",
	"camera_tag",
	"enemy_tag",
	"transform",
	"collider",
	"character_body",
	"velocity",
	"player_controller",
	"motion",
	"input",
	"camera_state",
	"camera_rig",
	"camera_follow",
	"health",
	"knockback",
	"hazard",
	"collectible",
	"spin",
	"moving_block",
	"chase",
	"nav_agent",
	"pathfinding",
	"animator",
	"tint",
	"damage_flash",
	"fall_checker",
	"scene_timer",
	"scene_portal",
	"guide_agent",
}

// BuildEntity spawns a single prefab and links it against the entities it
// names. Use a Builder to spawn groups that refer to each other.
func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}
	b := NewBuilder(w)
	e, err := b.Build(prefabPath, "", nil)
	if err != nil {
		return 0, err
	}
	if err := b.Link(); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("build entity: %q: %w", prefabPath, err)
	}
	return e, nil
}

// Build spawns prefabPath with overrides merged over its component specs.
// The entity is registered under name, or the prefab's name when empty.
func (b *Builder) Build(prefabPath, name string, overrides map[string]any) (ecs.Entity, error) {
	if b == nil || b.w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}
	w := b.w

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	components := mergeComponents(spec.Components, overrides)
	if len(components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath, builder: b}

	remaining := make(map[string]any, len(components))
	for k, v := range components {
		remaining[k] = v
	}

	for _, name := range componentBuildOrder {
		raw, ok := remaining[name]
		if !ok {
			continue
		}
		if err := componentRegistry[name](w, e, raw, ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
		delete(remaining, name)
	}

	if len(remaining) > 0 {
		names := make([]string, 0, len(remaining))
		for name := range remaining {
			names = append(names, name)
		}
		sort.Strings(names)
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("build entity: %q: no builder for components %v", prefabPath, names)
	}

	if name == "" {
		name = spec.Name
	}
	if name != "" {
		if err := ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: name}); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add name: %w", prefabPath, err)
		}
		if _, taken := b.names[name]; !taken {
			b.names[name] = e
		}
	}

	return e, nil
}

// mergeComponents lays overrides over base. Map values merge one level
// deep; anything else replaces.
func mergeComponents(base, overrides map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(overrides))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overrides {
		baseMap, okBase := out[k].(map[string]any)
		overMap, okOver := v.(map[string]any)
		if !okBase || !okOver {
			out[k] = v
			continue
		}
		merged := make(map[string]any, len(baseMap)+len(overMap))
		for bk, bv := range baseMap {
			merged[bk] = bv
		}
		for ok, ov := range overMap {
			merged[ok] = ov
		}
		out[k] = merged
	}
	return out
}

// SetEntityTransform places e, adding a Transform when it has none.
func SetEntityTransform(w *ecs.World, e ecs.Entity, x, y, z, yaw float64) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil {
		t = &component.Transform{}
	}
	t.X = x
	t.Y = y
	t.Z = z
	t.Yaw = yaw
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

func addCameraTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.CameraTagComponent.Kind(), &component.CameraTag{})
}

func addEnemyTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.EnemyTagComponent.Kind(), &component.EnemyTag{})
}

type transformSpec = prefabs.TransformComponentSpec

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		X:   spec.X,
		Y:   spec.Y,
		Z:   spec.Z,
		Yaw: spec.Yaw,
	})
}

// parseLayer accepts one layer name or several joined with "|".
func parseLayer(name string, fallback uint) (uint, error) {
	if name == "" {
		return fallback, nil
	}
	names := strings.Split(name, "|")
	for i := range names {
		names[i] = strings.TrimSpace(names[i])
	}
	l, ok := component.LayerMask(names)
	if !ok {
		return 0, fmt.Errorf("unknown layer %q", name)
	}
	return l, nil
}

func parseMask(names []string, fallback uint) (uint, error) {
	if len(names) == 0 {
		return fallback, nil
	}
	mask, ok := component.LayerMask(names)
	if !ok {
		return 0, fmt.Errorf("unknown layer in %v", names)
	}
	return mask, nil
}

type colliderSpec = prefabs.ColliderComponentSpec

func addCollider(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[colliderSpec](raw)
	if err != nil {
		return fmt.Errorf("decode collider spec: %w", err)
	}
	if spec.Width <= 0 || spec.Height <= 0 || spec.Depth <= 0 {
		return fmt.Errorf("collider size must be positive, got %vx%vx%v", spec.Width, spec.Height, spec.Depth)
	}
	layer, err := parseLayer(spec.Layer, component.LayerGround)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.ColliderComponent.Kind(), &component.Collider{
		Width:     spec.Width,
		Height:    spec.Height,
		Depth:     spec.Depth,
		OffsetY:   spec.OffsetY,
		Layer:     layer,
		Trigger:   spec.Trigger,
		Kinematic: spec.Kinematic,
	})
}

type characterBodySpec = prefabs.CharacterBodyComponentSpec

func addCharacterBody(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[characterBodySpec](raw)
	if err != nil {
		return fmt.Errorf("decode character_body spec: %w", err)
	}
	layer, err := parseLayer(spec.Layer, component.LayerCharacter)
	if err != nil {
		return err
	}
	mask, err := parseMask(spec.SolidMask, component.LayerGround)
	if err != nil {
		return err
	}
	body := &component.CharacterBody{
		Radius:     spec.Radius,
		Height:     spec.Height,
		StepHeight: spec.StepHeight,
		Layer:      layer,
		SolidMask:  mask,
	}
	if body.Radius <= 0 {
		body.Radius = 0.5
	}
	if body.Height <= 0 {
		body.Height = 1.8
	}
	return ecs.Add(w, e, component.CharacterBodyComponent.Kind(), body)
}

type velocitySpec = prefabs.VelocityComponentSpec

func addVelocity(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[velocitySpec](raw)
	if err != nil {
		return fmt.Errorf("decode velocity spec: %w", err)
	}
	mass := spec.Mass
	if mass <= 0 {
		mass = 1
	}
	return ecs.Add(w, e, component.VelocityComponent.Kind(), &component.Velocity{
		Mass:       mass,
		Drag:       spec.Drag,
		UseGravity: spec.UseGravity,
	})
}

type playerControllerSpec = prefabs.PlayerControllerComponentSpec

func addPlayerController(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[playerControllerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode player_controller spec: %w", err)
	}

	pc := component.DefaultPlayerController()
	override := func(dst *float64, v float64) {
		if v != 0 {
			*dst = v
		}
	}
	override(&pc.MoveSpeed, spec.MoveSpeed)
	override(&pc.SprintSpeed, spec.SprintSpeed)
	override(&pc.RotationSmoothTime, spec.RotationSmoothTime)
	override(&pc.SpeedChangeRate, spec.SpeedChangeRate)
	override(&pc.JumpHeight, spec.JumpHeight)
	override(&pc.Gravity, spec.Gravity)
	override(&pc.JumpTimeout, spec.JumpTimeout)
	override(&pc.FallTimeout, spec.FallTimeout)
	override(&pc.TerminalVelocity, spec.TerminalVelocity)
	override(&pc.GroundedOffset, spec.GroundedOffset)
	override(&pc.GroundedRadius, spec.GroundedRadius)
	pc.DefaultJumpHeight = pc.JumpHeight

	if pc.Gravity >= 0 {
		return fmt.Errorf("gravity must be negative, got %v", pc.Gravity)
	}
	mask, err := parseMask(spec.GroundLayers, component.LayerGround)
	if err != nil {
		return err
	}
	pc.GroundLayers = mask

	return ecs.Add(w, e, component.PlayerControllerComponent.Kind(), &pc)
}

func addMotion(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.MotionComponent.Kind(), &component.Motion{})
}

func addInput(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{})
}

func addCameraState(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.CameraStateComponent.Kind(), &component.CameraState{})
}

type cameraRigSpec = prefabs.CameraRigComponentSpec

func addCameraRig(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[cameraRigSpec](raw)
	if err != nil {
		return fmt.Errorf("decode camera_rig spec: %w", err)
	}
	rig := component.DefaultCameraRig()
	if spec.TopClamp != 0 || spec.BottomClamp != 0 {
		rig.TopClamp = spec.TopClamp
		rig.BottomClamp = spec.BottomClamp
	}
	if rig.BottomClamp > rig.TopClamp {
		return fmt.Errorf("bottom_clamp %v is above top_clamp %v", rig.BottomClamp, rig.TopClamp)
	}
	if spec.SensitivityX != 0 {
		rig.SensitivityX = spec.SensitivityX
	}
	if spec.SensitivityY != 0 {
		rig.SensitivityY = spec.SensitivityY
	}
	rig.LockYaw = spec.LockYaw
	return ecs.Add(w, e, component.CameraRigComponent.Kind(), &rig)
}

type cameraFollowSpec = prefabs.CameraFollowComponentSpec

func addCameraFollow(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[cameraFollowSpec](raw)
	if err != nil {
		return fmt.Errorf("decode camera_follow spec: %w", err)
	}
	follow := &component.CameraFollow{
		Distance: spec.Distance,
		Height:   spec.Height,
		FOV:      spec.FOV,
	}
	if follow.Distance <= 0 {
		follow.Distance = 6
	}
	if err := ecs.Add(w, e, component.CameraFollowComponent.Kind(), follow); err != nil {
		return err
	}
	ctx.refer(spec.TargetName, func(target ecs.Entity) { follow.Target = uint64(target) })
	return nil
}

type healthSpec = prefabs.HealthComponentSpec

func addHealth(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[healthSpec](raw)
	if err != nil {
		return fmt.Errorf("decode health spec: %w", err)
	}
	h := component.NewHealth(spec.Max)
	if spec.InvincibleTime > 0 {
		h.InvincibleTime = spec.InvincibleTime
	}
	return ecs.Add(w, e, component.HealthComponent.Kind(), &h)
}

type knockbackSpec = prefabs.KnockbackComponentSpec

func addKnockback(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[knockbackSpec](raw)
	if err != nil {
		return fmt.Errorf("decode knockback spec: %w", err)
	}
	kb := component.DefaultKnockback()
	if spec.Force != 0 {
		kb.Force = spec.Force
	}
	if spec.UpwardForce != 0 {
		kb.UpwardForce = spec.UpwardForce
	}
	if spec.Duration > 0 {
		kb.Duration = spec.Duration
	}
	return ecs.Add(w, e, component.KnockbackComponent.Kind(), &kb)
}

type hazardSpec = prefabs.HazardComponentSpec

func addHazard(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[hazardSpec](raw)
	if err != nil {
		return fmt.Errorf("decode hazard spec: %w", err)
	}
	amount := spec.Amount
	if amount <= 0 {
		amount = 1
	}
	return ecs.Add(w, e, component.HazardComponent.Kind(), &component.Hazard{Amount: amount})
}

type collectibleSpec = prefabs.CollectibleComponentSpec

func addCollectible(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[collectibleSpec](raw)
	if err != nil {
		return fmt.Errorf("decode collectible spec: %w", err)
	}
	kind := component.CollectibleKind(spec.Kind)
	switch kind {
	case component.CollectibleHeal, component.CollectibleJumpBuff:
	default:
		return fmt.Errorf("unknown collectible kind %q", spec.Kind)
	}
	return ecs.Add(w, e, component.CollectibleComponent.Kind(), &component.Collectible{
		Kind:        kind,
		Amount:      spec.Amount,
		Duration:    spec.Duration,
		DisplayName: spec.DisplayName,
	})
}

type spinSpec = prefabs.SpinComponentSpec

func addSpin(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[spinSpec](raw)
	if err != nil {
		return fmt.Errorf("decode spin spec: %w", err)
	}
	return ecs.Add(w, e, component.SpinComponent.Kind(), &component.Spin{
		DegreesPerSecond: spec.DegreesPerSecond,
		BobAmplitude:     spec.BobAmplitude,
		BobSpeed:         spec.BobSpeed,
	})
}

type movingBlockSpec = prefabs.MovingBlockComponentSpec

func addMovingBlock(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[movingBlockSpec](raw)
	if err != nil {
		return fmt.Errorf("decode moving_block spec: %w", err)
	}
	mb := &component.MovingBlock{Speed: spec.Speed, Amplitude: spec.Amplitude, Phase: spec.Phase}
	if mb.Speed == 0 {
		mb.Speed = 2
	}
	if mb.Amplitude == 0 {
		mb.Amplitude = 0.5
	}
	return ecs.Add(w, e, component.MovingBlockComponent.Kind(), mb)
}

type chaseSpec = prefabs.ChaseComponentSpec

func addChase(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[chaseSpec](raw)
	if err != nil {
		return fmt.Errorf("decode chase spec: %w", err)
	}
	if spec.ExitBand < 0 {
		return fmt.Errorf("exit_band must not be negative, got %v", spec.ExitBand)
	}
	chase := &component.Chase{DetectRange: spec.DetectRange, ExitBand: spec.ExitBand}
	if chase.DetectRange <= 0 {
		chase.DetectRange = 10
	}
	if err := ecs.Add(w, e, component.ChaseComponent.Kind(), chase); err != nil {
		return err
	}
	ctx.refer(spec.TargetName, func(target ecs.Entity) { chase.Target = uint64(target) })
	return nil
}

type navAgentSpec = prefabs.NavAgentComponentSpec

func addNavAgent(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[navAgentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode nav_agent spec: %w", err)
	}
	return ecs.Add(w, e, component.NavAgentComponent.Kind(), &component.NavAgent{
		Speed:            spec.Speed,
		StoppingDistance: spec.StoppingDistance,
	})
}

type pathfindingSpec = prefabs.PathfindingComponentSpec

func addPathfinding(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[pathfindingSpec](raw)
	if err != nil {
		return fmt.Errorf("decode pathfinding spec: %w", err)
	}
	return ecs.Add(w, e, component.PathfindingComponent.Kind(), &component.Pathfinding{
		GridSize:    spec.GridSize,
		RepathTicks: spec.RepathTicks,
	})
}

func addAnimator(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.AnimatorComponent.Kind(), &component.Animator{})
}

var white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

type tintSpec = prefabs.TintComponentSpec

func addTint(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[tintSpec](raw)
	if err != nil {
		return fmt.Errorf("decode tint spec: %w", err)
	}
	return ecs.Add(w, e, component.TintComponent.Kind(), &component.Tint{Color: spec.Color.Or(white)})
}

type damageFlashSpec = prefabs.DamageFlashComponentSpec

func addDamageFlash(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[damageFlashSpec](raw)
	if err != nil {
		return fmt.Errorf("decode damage_flash spec: %w", err)
	}
	speed := spec.Speed
	if speed <= 0 {
		speed = 5
	}
	return ecs.Add(w, e, component.DamageFlashComponent.Kind(), &component.DamageFlash{
		Speed: speed,
		Base:  spec.Base.Or(white),
		Flash: spec.Flash.Or(color.NRGBA{R: 255, A: 255}),
	})
}

type fallCheckerSpec = prefabs.FallCheckerComponentSpec

func addFallChecker(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[fallCheckerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode fall_checker spec: %w", err)
	}
	threshold := spec.Threshold
	if threshold == 0 {
		threshold = -10
	}
	return ecs.Add(w, e, component.FallCheckerComponent.Kind(), &component.FallChecker{Threshold: threshold})
}

type sceneTimerSpec = prefabs.SceneTimerComponentSpec

func addSceneTimer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[sceneTimerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode scene_timer spec: %w", err)
	}
	delay := spec.Delay
	if delay <= 0 {
		delay = 3
	}
	return ecs.Add(w, e, component.SceneTimerComponent.Kind(), &component.SceneTimer{Remaining: delay, Target: spec.Target})
}

type scenePortalSpec = prefabs.ScenePortalComponentSpec

func addScenePortal(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[scenePortalSpec](raw)
	if err != nil {
		return fmt.Errorf("decode scene_portal spec: %w", err)
	}
	if spec.Target == "" {
		return fmt.Errorf("scene_portal needs a target")
	}
	return ecs.Add(w, e, component.ScenePortalComponent.Kind(), &component.ScenePortal{Target: spec.Target})
}

type guideAgentSpec = prefabs.GuideAgentComponentSpec

func addGuideAgent(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[guideAgentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode guide_agent spec: %w", err)
	}
	if spec.Script == "" {
		return fmt.Errorf("guide_agent needs a script")
	}
	g := &component.GuideAgent{
		Script:         spec.Script,
		AssistPower:    spec.AssistPower,
		SuccessRadius:  spec.SuccessRadius,
		StepPenalty:    spec.StepPenalty,
		AreaHalfExtent: math.Abs(spec.AreaHalfExtent),
		MaxSteps:       spec.MaxSteps,
		Seed:           spec.Seed,
	}
	if err := ecs.Add(w, e, component.GuideAgentComponent.Kind(), g); err != nil {
		return err
	}
	ctx.refer(spec.SubjectName, func(target ecs.Entity) { g.Subject = uint64(target) })
	ctx.refer(spec.TargetName, func(target ecs.Entity) { g.Target = uint64(target) })
	return nil
}
