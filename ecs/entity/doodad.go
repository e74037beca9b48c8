package entity

import (
	"fmt"

	"github.com/milk9111/clusterjunk/ecs"
	"github.com/milk9111/clusterjunk/ecs/component"
	"github.com/milk9111/clusterjunk/ecs/system"
	"github.com/milk9111/clusterjunk/prefabs"
)

// BuildDoodad builds the doodad prefab on e, then moves it to the requested
// point and swaps in the requested shape and size.
func BuildDoodad(w *ecs.World, e ecs.Entity, req system.DoodadRequest) error {
	if err := BuildEntityOn(w, e, prefabs.DoodadSpecFile); err != nil {
		return err
	}
	if err := SetEntityTransform(w, e, req.X, req.Y, 0); err != nil {
		return fmt.Errorf("doodad: override transform: %w", err)
	}
	if req.Scale > 0 {
		t, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		t.ScaleX, t.ScaleY = req.Scale, req.Scale
	}
	if req.Shape == "" {
		return nil
	}

	ctx := newBuildContext(w, prefabs.DoodadSpecFile)
	asset, ok := ctx.Meshes.Get(req.Shape)
	if !ok {
		return fmt.Errorf("doodad: unknown shape %q", req.Shape)
	}
	if mesh, ok := ecs.Get(w, e, component.MeshComponent.Kind()); ok {
		mesh.Shape = asset.Shape
		mesh.Image = asset.Image
	}
	if col, ok := ecs.Get(w, e, component.ColliderComponent.Kind()); ok {
		density := col.Density
		*col = asset.Collider
		col.Density = density
	}
	return nil
}

var _ system.DoodadSpawnFunc = BuildDoodad
