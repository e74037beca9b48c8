package entity

import (
	"fmt"

	"github.com/milk9111/clusterjunk/assets"
	"github.com/milk9111/clusterjunk/ecs"
	"github.com/milk9111/clusterjunk/ecs/component"
	"github.com/milk9111/clusterjunk/levels"
	"github.com/milk9111/clusterjunk/prefabs"
)

// LoadLevelToWorld creates one static entity per level block: a scaled unit
// mesh with the matching collider and the level collision groups. Blocks have
// no rigid body, so the physics system puts them on the static body.
func LoadLevelToWorld(world *ecs.World, lvl *levels.Level) ([]ecs.Entity, error) {
	if world == nil || lvl == nil {
		return nil, fmt.Errorf("level: world and level are required")
	}
	ctx := newBuildContext(world, lvl.Name)

	out := make([]ecs.Entity, 0, len(lvl.Blocks))
	for i, b := range lvl.Blocks {
		e := world.CreateEntity()
		if err := addBlock(world, e, b, ctx); err != nil {
			world.DestroyEntity(e)
			for _, built := range out {
				world.DestroyEntity(built)
			}
			return nil, fmt.Errorf("level %q: block %d: %w", lvl.Name, i, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func addBlock(w *ecs.World, e ecs.Entity, b levels.Block, ctx *buildContext) error {
	asset, ok := ctx.Meshes.Get(component.MeshShape(b.Shape))
	if !ok {
		return fmt.Errorf("unknown shape %q", b.Shape)
	}

	c := assets.FloorColor
	if b.Color != "" {
		parsed, err := prefabs.ParseHexColor(b.Color)
		if err != nil {
			return err
		}
		c = parsed
	}

	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		X:        b.X,
		Y:        b.Y,
		Rotation: b.Rotation,
		ScaleX:   b.ScaleX,
		ScaleY:   b.ScaleY,
	}); err != nil {
		return err
	}
	mesh := asset.Mesh(c)
	if err := ecs.Add(w, e, component.MeshComponent.Kind(), &mesh); err != nil {
		return err
	}
	col := asset.Collider
	if err := ecs.Add(w, e, component.ColliderComponent.Kind(), &col); err != nil {
		return err
	}
	groups := ctx.Scheme.Level
	if err := ecs.Add(w, e, component.CollisionGroupsComponent.Kind(), &groups); err != nil {
		return err
	}
	if b.Friction != nil {
		if err := ecs.Add(w, e, component.FrictionComponent.Kind(), &component.Friction{Coefficient: *b.Friction}); err != nil {
			return err
		}
	}
	if b.Restitution != nil {
		if err := ecs.Add(w, e, component.RestitutionComponent.Kind(), &component.Restitution{Coefficient: *b.Restitution}); err != nil {
			return err
		}
	}
	if b.Type == levels.BlockFloor {
		if err := ecs.Add(w, e, component.FloorTagComponent.Kind(), &component.FloorTag{}); err != nil {
			return err
		}
	}
	return nil
}
