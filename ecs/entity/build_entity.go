package entity

import (
	"fmt"
	"sort"

	"github.com/milk9111/clusterjunk/assets"
	"github.com/milk9111/clusterjunk/ecs"
	"github.com/milk9111/clusterjunk/ecs/component"
	"github.com/milk9111/clusterjunk/ecs/system"
	"github.com/milk9111/clusterjunk/prefabs"
)

type buildContext struct {
	PrefabPath string
	Meshes     *assets.MeshAssets
	Scheme     component.CollisionScheme
}

func newBuildContext(w *ecs.World, prefabPath string) *buildContext {
	ctx := &buildContext{PrefabPath: prefabPath, Scheme: component.InteractionScheme()}
	if m, ok := ecs.Resource[assets.MeshAssets](w); ok {
		ctx.Meshes = m
	} else {
		ctx.Meshes = assets.NewMeshAssets()
	}
	if s, ok := ecs.Resource[component.CollisionScheme](w); ok {
		ctx.Scheme = *s
	}
	return ctx
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"player_tag":       addPlayerTag,
	"doodad_tag":       addDoodadTag,
	"floor_tag":        addFloorTag,
	"player":           addPlayer,
	"transform":        addTransform,
	"mesh":             addMesh,
	"collider":         addCollider,
	"rigid_body":       addRigidBody,
	"velocity":         addVelocity,
	"damping":          addDamping,
	"restitution":      addRestitution,
	"friction":         addFriction,
	"collision_groups": addCollisionGroups,
	"external_impulse": addExternalImpulse,
}

// collider reads the mesh, so mesh must come first
var componentBuildOrder = []string{
	"player_tag",
	"doodad_tag",
	"floor_tag",
	"player",
	"transform",
	"mesh",
	"collider",
	"rigid_body",
	"velocity",
	"damping",
	"restitution",
	"friction",
	"collision_groups",
	"external_impulse",
}

// BuildEntity creates an entity from the named prefab. A failed build leaves
// nothing behind.
func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}
	e := ecs.CreateEntity(w)
	if err := BuildEntityOn(w, e, prefabPath); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, err
	}
	return e, nil
}

// BuildEntityOn adds the named prefab's components to an existing entity.
// On error e may be partly built and the caller should destroy it.
func BuildEntityOn(w *ecs.World, e ecs.Entity, prefabPath string) error {
	if w == nil {
		return fmt.Errorf("build entity: world is nil")
	}
	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 {
		return fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}
	return buildComponents(w, e, spec.Components, newBuildContext(w, prefabPath))
}

func buildComponents(w *ecs.World, e ecs.Entity, components map[string]any, ctx *buildContext) error {
	remaining := make(map[string]any, len(components))
	for k, v := range components {
		remaining[k] = v
	}

	names := make([]string, 0, len(remaining))
	for _, name := range componentBuildOrder {
		if _, ok := remaining[name]; ok {
			names = append(names, name)
			delete(remaining, name)
		}
	}
	if len(remaining) > 0 {
		extra := make([]string, 0, len(remaining))
		for name := range remaining {
			extra = append(extra, name)
		}
		sort.Strings(extra)
		names = append(names, extra...)
	}

	for _, name := range names {
		builder, ok := componentRegistry[name]
		if !ok {
			return fmt.Errorf("build entity: %q: no builder for component %q", ctx.PrefabPath, name)
		}
		if err := builder(w, e, components[name], ctx); err != nil {
			return fmt.Errorf("build entity: %q: add %q: %w", ctx.PrefabPath, name, err)
		}
	}
	return nil
}

func SetEntityTransform(w *ecs.World, e ecs.Entity, x, y, rotation float64) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil {
		t = &component.Transform{ScaleX: 1, ScaleY: 1}
	}
	t.X = x
	t.Y = y
	t.Rotation = rotation
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

func addDoodadTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.DoodadTagComponent.Kind(), &component.DoodadTag{})
}

func addFloorTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.FloorTagComponent.Kind(), &component.FloorTag{})
}

type playerSpec = prefabs.PlayerComponentSpec

func addPlayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[playerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode player spec: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return err
	}
	p := system.PlayerFromSpec(spec)
	return ecs.Add(w, e, component.PlayerComponent.Kind(), &p)
}

type transformSpec = prefabs.TransformComponentSpec

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	if spec.ScaleX == 0 {
		spec.ScaleX = spec.Scale
	}
	if spec.ScaleY == 0 {
		spec.ScaleY = spec.Scale
	}
	if spec.ScaleX == 0 {
		spec.ScaleX = 1
	}
	if spec.ScaleY == 0 {
		spec.ScaleY = 1
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		X:        spec.X,
		Y:        spec.Y,
		Z:        spec.Z,
		ScaleX:   spec.ScaleX,
		ScaleY:   spec.ScaleY,
		Rotation: spec.Rotation,
	})
}

type meshSpec = prefabs.MeshComponentSpec

func addMesh(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[meshSpec](raw)
	if err != nil {
		return fmt.Errorf("decode mesh spec: %w", err)
	}
	asset, ok := ctx.Meshes.Get(component.MeshShape(spec.Shape))
	if !ok {
		return fmt.Errorf("unknown mesh shape %q", spec.Shape)
	}
	c := asset.Color
	if spec.Color != nil {
		c = spec.Color.RGBA8()
	}
	mesh := asset.Mesh(c)
	return ecs.Add(w, e, component.MeshComponent.Kind(), &mesh)
}

type colliderSpec = prefabs.ColliderComponentSpec

func addCollider(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[colliderSpec](raw)
	if err != nil {
		return fmt.Errorf("decode collider spec: %w", err)
	}

	var col component.Collider
	if spec.FromMesh {
		mesh, ok := ecs.Get(w, e, component.MeshComponent.Kind())
		if !ok {
			return fmt.Errorf("from_mesh needs a mesh component")
		}
		asset, ok := ctx.Meshes.Get(mesh.Shape)
		if !ok {
			return fmt.Errorf("no collider template for mesh %q", mesh.Shape)
		}
		col = asset.Collider
	} else {
		col = component.Collider{
			Shape:      component.ColliderShape(spec.Shape),
			HalfWidth:  spec.HalfWidth,
			HalfHeight: spec.HalfHeight,
			Radius:     spec.Radius,
		}
		switch col.Shape {
		case component.ColliderCuboid:
			if col.HalfWidth <= 0 || col.HalfHeight <= 0 {
				return fmt.Errorf("cuboid needs positive half extents")
			}
		case component.ColliderBall:
			if col.Radius <= 0 {
				return fmt.Errorf("ball needs a positive radius")
			}
		default:
			return fmt.Errorf("unknown collider shape %q", spec.Shape)
		}
	}
	if spec.Density > 0 {
		col.Density = spec.Density
	}
	return ecs.Add(w, e, component.ColliderComponent.Kind(), &col)
}

func addRigidBody(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	rb, err := prefabs.DecodeComponentSpec[component.RigidBody](raw)
	if err != nil {
		return fmt.Errorf("decode rigid body spec: %w", err)
	}
	switch rb.Type {
	case "":
		rb.Type = component.RigidBodyDynamic
	case component.RigidBodyDynamic, component.RigidBodyFixed:
	default:
		return fmt.Errorf("unknown rigid body type %q", rb.Type)
	}
	return ecs.Add(w, e, component.RigidBodyComponent.Kind(), &rb)
}

func addVelocity(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	v, err := prefabs.DecodeComponentSpec[component.Velocity](raw)
	if err != nil {
		return fmt.Errorf("decode velocity spec: %w", err)
	}
	return ecs.Add(w, e, component.VelocityComponent.Kind(), &v)
}

func addDamping(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	d, err := prefabs.DecodeComponentSpec[component.Damping](raw)
	if err != nil {
		return fmt.Errorf("decode damping spec: %w", err)
	}
	if d.Linear < 0 || d.Angular < 0 {
		return fmt.Errorf("damping must not be negative")
	}
	return ecs.Add(w, e, component.DampingComponent.Kind(), &d)
}

func addRestitution(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	r, err := prefabs.DecodeComponentSpec[component.Restitution](raw)
	if err != nil {
		return fmt.Errorf("decode restitution spec: %w", err)
	}
	return ecs.Add(w, e, component.RestitutionComponent.Kind(), &r)
}

type frictionSpec = prefabs.FrictionComponentSpec

func addFriction(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[frictionSpec](raw)
	if err != nil {
		return fmt.Errorf("decode friction spec: %w", err)
	}
	f := component.Friction{Coefficient: ctx.Scheme.PlayerFriction}
	if spec.Coefficient != nil {
		f.Coefficient = *spec.Coefficient
	}
	return ecs.Add(w, e, component.FrictionComponent.Kind(), &f)
}

type collisionGroupsSpec = prefabs.CollisionGroupsComponentSpec

func addCollisionGroups(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[collisionGroupsSpec](raw)
	if err != nil {
		return fmt.Errorf("decode collision groups spec: %w", err)
	}

	var groups component.CollisionGroups
	switch spec.Preset {
	case "player":
		groups = ctx.Scheme.Player
	case "doodad":
		groups = ctx.Scheme.Doodad
	case "level":
		groups = ctx.Scheme.Level
	case "interaction":
		groups = ctx.Scheme.Interaction
	case "":
		groups = component.CollisionGroups{
			Memberships: component.Groups(spec.Memberships),
			Filters:     component.Groups(spec.Filters),
		}
		if groups.Memberships == 0 && groups.Filters == 0 {
			groups = component.DefaultCollisionGroups()
		}
	default:
		return fmt.Errorf("unknown collision groups preset %q", spec.Preset)
	}
	return ecs.Add(w, e, component.CollisionGroupsComponent.Kind(), &groups)
}

func addExternalImpulse(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	imp, err := prefabs.DecodeComponentSpec[component.ExternalImpulse](raw)
	if err != nil {
		return fmt.Errorf("decode external impulse spec: %w", err)
	}
	return ecs.Add(w, e, component.ExternalImpulseComponent.Kind(), &imp)
}
