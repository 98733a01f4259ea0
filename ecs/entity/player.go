package entity

import (
	"fmt"

	"github.com/milk9111/thirdperson/ecs"
)

const (
	playerPrefab = "player.yaml"
	cameraPrefab = "camera.yaml"
)

func NewPlayer(b *Builder) (ecs.Entity, error) {
	return b.Build(playerPrefab, "player", nil)
}

func NewPlayerAt(b *Builder, x, y, z, yaw float64) (ecs.Entity, error) {
	entity, err := NewPlayer(b)
	if err != nil {
		return 0, err
	}
	if err := SetEntityTransform(b.w, entity, x, y, z, yaw); err != nil {
		return 0, fmt.Errorf("player: override transform: %w", err)
	}
	return entity, nil
}
