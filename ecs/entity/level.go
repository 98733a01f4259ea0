package entity

import (
	"fmt"

	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
	"github.com/milk9111/thirdperson/levels"
)

// LoadLevelToWorld spawns a level: its bounds, terrain and static blocks,
// the player and camera, then every placement. Names are linked last.
func LoadLevelToWorld(world *ecs.World, lvl *levels.Level) error {
	if world == nil || lvl == nil {
		return fmt.Errorf("load level: world and level are required")
	}

	boundsEntity := ecs.CreateEntity(world)
	if err := ecs.Add(world, boundsEntity, component.LevelBoundsComponent.Kind(), &component.LevelBounds{
		MinX:  lvl.Bounds.MinX,
		MinZ:  lvl.Bounds.MinZ,
		MaxX:  lvl.Bounds.MaxX,
		MaxZ:  lvl.Bounds.MaxZ,
		KillY: lvl.Bounds.KillY,
	}); err != nil {
		return fmt.Errorf("load level %s: add bounds: %w", lvl.Name, err)
	}

	for i, block := range lvl.Terrain.Blocks() {
		if _, err := NewBlock(world, block); err != nil {
			return fmt.Errorf("load level %s: terrain block %d: %w", lvl.Name, i, err)
		}
	}
	for i, block := range lvl.Blocks {
		if _, err := NewBlock(world, block); err != nil {
			return fmt.Errorf("load level %s: block %d: %w", lvl.Name, i, err)
		}
	}

	b := NewBuilder(world)
	if _, err := NewPlayerAt(b, lvl.Spawn.X, lvl.Spawn.Y, lvl.Spawn.Z, lvl.Spawn.Yaw); err != nil {
		return fmt.Errorf("load level %s: %w", lvl.Name, err)
	}
	if _, err := NewCamera(b); err != nil {
		return fmt.Errorf("load level %s: %w", lvl.Name, err)
	}

	for i, p := range lvl.Entities {
		if _, err := Place(b, p); err != nil {
			return fmt.Errorf("load level %s: entity %d: %w", lvl.Name, i, err)
		}
	}

	if lvl.ReturnAfter > 0 {
		timer := ecs.CreateEntity(world)
		if err := ecs.Add(world, timer, component.SceneTimerComponent.Kind(), &component.SceneTimer{
			Remaining: lvl.ReturnAfter,
			Target:    lvl.ReturnTo,
		}); err != nil {
			return fmt.Errorf("load level %s: add return timer: %w", lvl.Name, err)
		}
	}

	if err := b.Link(); err != nil {
		return fmt.Errorf("load level %s: %w", lvl.Name, err)
	}
	return nil
}

// Place builds a level placement at its position.
func Place(b *Builder, p levels.Placement) (ecs.Entity, error) {
	e, err := b.Build(p.Prefab, p.Name, p.Components)
	if err != nil {
		return 0, err
	}
	if err := SetEntityTransform(b.w, e, p.X, p.Y, p.Z, p.Yaw); err != nil {
		return 0, fmt.Errorf("place %s: %w", p.Prefab, err)
	}
	// Guide episodes scatter around where the agent was placed.
	if g, ok := ecs.Get(b.w, e, component.GuideAgentComponent.Kind()); ok {
		g.OriginX = p.X
		g.OriginZ = p.Z
	}
	return e, nil
}

// NewBlock spawns a static box collider.
func NewBlock(w *ecs.World, block levels.Block) (ecs.Entity, error) {
	layer, err := parseLayer(block.Layer, component.LayerGround)
	if err != nil {
		return 0, err
	}

	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		X: block.X,
		Y: block.Y,
		Z: block.Z,
	}); err != nil {
		return 0, fmt.Errorf("block: add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.ColliderComponent.Kind(), &component.Collider{
		Width:   block.Width,
		Height:  block.Height,
		Depth:   block.Depth,
		Layer:   layer,
		Trigger: block.Trigger,
	}); err != nil {
		return 0, fmt.Errorf("block: add collider: %w", err)
	}
	return e, nil
}
