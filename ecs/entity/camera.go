package entity

import (
	"fmt"

	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

// NewCamera spawns the render camera. It follows whatever its prefab names
// once the builder links.
func NewCamera(b *Builder) (ecs.Entity, error) {
	camera, err := b.Build(cameraPrefab, "camera", nil)
	if err != nil {
		return 0, err
	}
	if !ecs.Has(b.w, camera, component.CameraFollowComponent.Kind()) {
		ecs.DestroyEntity(b.w, camera)
		return 0, fmt.Errorf("camera: prefab %q has no camera_follow", cameraPrefab)
	}
	if !ecs.Has(b.w, camera, component.TransformComponent.Kind()) {
		if err := SetEntityTransform(b.w, camera, 0, 0, 0, 0); err != nil {
			return 0, fmt.Errorf("camera: add transform: %w", err)
		}
	}
	return camera, nil
}
