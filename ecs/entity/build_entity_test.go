package entity

import (
	"strings"
	"testing"

	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
	"github.com/milk9111/thirdperson/prefabs"
)

func TestEmbeddedPrefabsBuild(t *testing.T) {
	names, err := prefabs.Names()
	if err != nil {
		t.Fatalf("list prefabs: %v", err)
	}

	w := ecs.NewWorld()
	b := NewBuilder(w)
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			if _, err := b.Build(name, "", nil); err != nil {
				t.Fatalf("build %s: %v", name, err)
			}
		})
	}
	if err := b.Link(); err != nil {
		t.Fatalf("link: %v", err)
	}
}

func TestBuildEntityUnresolvedLink(t *testing.T) {
	w := ecs.NewWorld()
	if _, err := BuildEntity(w, "camera.yaml"); err == nil {
		t.Fatalf("camera without a player should fail to link")
	}
	if got := len(ecs.Entities(w)); got != 0 {
		t.Fatalf("failed build should leave no entities, got %d", got)
	}
}

func TestBuilderLinksCameraToPlayer(t *testing.T) {
	w := ecs.NewWorld()
	b := NewBuilder(w)
	camera, err := NewCamera(b)
	if err != nil {
		t.Fatalf("camera: %v", err)
	}
	player, err := NewPlayerAt(b, 1, 2, 3, 90)
	if err != nil {
		t.Fatalf("player: %v", err)
	}
	if err := b.Link(); err != nil {
		t.Fatalf("link: %v", err)
	}

	follow, ok := ecs.Get(w, camera, component.CameraFollowComponent.Kind())
	if !ok || follow.Target != uint64(player) {
		t.Fatalf("camera should follow the player, got %+v", follow)
	}
	tr, _ := ecs.Get(w, player, component.TransformComponent.Kind())
	if tr.X != 1 || tr.Y != 2 || tr.Z != 3 || tr.Yaw != 90 {
		t.Fatalf("unexpected player transform %+v", tr)
	}
	if got, ok := b.Lookup("player"); !ok || got != player {
		t.Fatalf("player should be registered by name")
	}
}

func TestBuildRejectsBadComponents(t *testing.T) {
	cases := []struct {
		name      string
		prefab    string
		overrides map[string]any
		want      string
	}{
		{"unknown_component", "guide_ball.yaml", map[string]any{"jetpack": map[string]any{}}, "no builder"},
		{"unknown_layer", "damage_block.yaml", map[string]any{"collider": map[string]any{"layer": "lava"}}, "unknown layer"},
		{"bad_collectible", "heal_heart.yaml", map[string]any{"collectible": map[string]any{"kind": "coin"}}, "unknown collectible"},
		{"positive_gravity", "player.yaml", map[string]any{"player_controller": map[string]any{"gravity": 3.0}}, "gravity"},
		{"portal_without_target", "goal.yaml", map[string]any{"scene_portal": map[string]any{"target": ""}}, "target"},
		{"missing_prefab", "nope.yaml", nil, "load"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			_, err := NewBuilder(w).Build(c.prefab, "", c.overrides)
			if err == nil || !strings.Contains(err.Error(), c.want) {
				t.Fatalf("expected error containing %q, got %v", c.want, err)
			}
			if got := len(ecs.Entities(w)); got != 0 {
				t.Fatalf("failed build should leave no entities, got %d", got)
			}
		})
	}
}

func TestMergeComponents(t *testing.T) {
	base := map[string]any{
		"moving_block": map[string]any{"speed": 2, "amplitude": 0.5},
		"tint":         map[string]any{"color": "#ffffff"},
	}
	merged := mergeComponents(base, map[string]any{
		"moving_block": map[string]any{"speed": 1.5},
		"spin":         map[string]any{"degrees_per_second": 10},
	})

	mb := merged["moving_block"].(map[string]any)
	if mb["speed"] != 1.5 || mb["amplitude"] != 0.5 {
		t.Fatalf("override should merge into the base spec, got %v", mb)
	}
	if _, ok := merged["spin"]; !ok {
		t.Fatalf("new components should be added")
	}
	if base["moving_block"].(map[string]any)["speed"] != 2 {
		t.Fatalf("base spec must not be modified")
	}
}

func TestPlayerPrefabDefaults(t *testing.T) {
	w := ecs.NewWorld()
	player, err := NewPlayer(NewBuilder(w))
	if err != nil {
		t.Fatalf("player: %v", err)
	}

	pc, ok := ecs.Get(w, player, component.PlayerControllerComponent.Kind())
	if !ok {
		t.Fatalf("player should have a controller")
	}
	if pc.DefaultJumpHeight != pc.JumpHeight {
		t.Fatalf("default jump height should track the prefab, got %v vs %v", pc.DefaultJumpHeight, pc.JumpHeight)
	}
	if pc.GroundLayers != component.LayerGround {
		t.Fatalf("ground layers = %b", pc.GroundLayers)
	}
	h, _ := ecs.Get(w, player, component.HealthComponent.Kind())
	if h.Current != 3 || h.Max != 3 || h.InvincibleTime != 1 {
		t.Fatalf("unexpected health %+v", h)
	}
	df, _ := ecs.Get(w, player, component.DamageFlashComponent.Kind())
	if df.Flash.R != 255 || df.Flash.G != 0 {
		t.Fatalf("flash color should decode, got %+v", df.Flash)
	}
	for _, has := range []bool{
		ecs.Has(w, player, component.MotionComponent.Kind()),
		ecs.Has(w, player, component.InputComponent.Kind()),
		ecs.Has(w, player, component.CameraStateComponent.Kind()),
		ecs.Has(w, player, component.CameraRigComponent.Kind()),
		ecs.Has(w, player, component.AnimatorComponent.Kind()),
	} {
		if !has {
			t.Fatalf("player prefab is missing a controller component")
		}
	}
}

func TestDamageBlockIsSolidHazard(t *testing.T) {
	w := ecs.NewWorld()
	e, err := NewBuilder(w).Build("damage_block.yaml", "", nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	col, ok := ecs.Get(w, e, component.ColliderComponent.Kind())
	if !ok {
		t.Fatalf("damage block has no collider")
	}
	if col.Trigger || col.Layer != component.LayerGround|component.LayerHazard {
		t.Fatalf("collider = %+v, want a solid ground|hazard box", col)
	}
}

func TestParseLayerCombinations(t *testing.T) {
	cases := []struct {
		in      string
		want    uint
		wantErr bool
	}{
		{"", component.LayerPickup, false},
		{"ground", component.LayerGround, false},
		{"ground|hazard", component.LayerGround | component.LayerHazard, false},
		{"ground | enemy", component.LayerGround | component.LayerEnemy, false},
		{"ground|lava", 0, true},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got, err := parseLayer(c.in, component.LayerPickup)
			if c.wantErr {
				if err == nil {
					t.Fatalf("expected an error for %q", c.in)
				}
				return
			}
			if err != nil || got != c.want {
				t.Fatalf("parseLayer(%q) = %v, %v, want %v", c.in, got, err, c.want)
			}
		})
	}
}
