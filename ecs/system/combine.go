package system

import (
	"fmt"

	"github.com/milk9111/clusterjunk/ecs"
	"github.com/milk9111/clusterjunk/ecs/component"
	"github.com/milk9111/clusterjunk/log"
)

// absorbedZ keeps absorbed parts drawn just under the player root.
const absorbedZ = -1.0

// CombineSystem absorbs the free doodads touching the player into the player
// hierarchy when the combine action fires.
type CombineSystem struct {
	physics *PhysicsSystem
}

func NewCombineSystem(physics *PhysicsSystem) *CombineSystem {
	return &CombineSystem{physics: physics}
}

func (c *CombineSystem) Update(w *ecs.World) {
	if c == nil || w == nil {
		return
	}
	actions, ok := ecs.Resource[component.Actions](w)
	if !ok || !actions.Combine {
		return
	}
	c.Combine(w)
}

// Combine queues the absorption of every doodad intersecting any player
// collider and returns the doodads it queued. The changes land together at
// the next command flush.
func (c *CombineSystem) Combine(w *ecs.World) []ecs.Entity {
	root := PlayerRoot(w)
	scheme := schemeOf(w)
	playerGlobal := GlobalPose(w, root)

	playerColor, hasColor := ecs.Get(w, root, component.MeshComponent.Kind())

	var absorbed []ecs.Entity
	seen := make(map[ecs.Entity]struct{})
	for _, part := range playerColliders(w, root) {
		col, _ := ecs.Get(w, part, component.ColliderComponent.Kind())
		q := ShapeQuery{
			Collider:    *col,
			Pose:        GlobalPose(w, part),
			Groups:      scheme.Interaction,
			OnlyDynamic: true,
		}
		c.physics.IntersectionsWithShape(q, func(hit ecs.Entity) bool {
			if !ecs.Has(w, hit, component.DoodadTagComponent.Kind()) {
				return true
			}
			if _, dup := seen[hit]; dup {
				return true
			}
			seen[hit] = struct{}{}

			local := GlobalPose(w, hit).RelativeTo(playerGlobal)
			local.Z = absorbedZ
			queueAbsorb(w.Commands(), hit, root, local, scheme.Player)
			if hasColor {
				color := playerColor.Color
				w.Commands().Defer(func(w *ecs.World) error {
					if m, ok := ecs.Get(w, hit, component.MeshComponent.Kind()); ok {
						m.Color = color
					}
					return nil
				})
			}
			w.Events().Push(ecs.Event{Type: ecs.EventDoodadAbsorbed, Entity: hit, Data: root})
			absorbed = append(absorbed, hit)
			log.Debug("combine: absorbing %s into %s", hit, root)
			return true
		})
	}
	return absorbed
}

func queueAbsorb(cmds *ecs.Commands, doodad, root ecs.Entity, local component.Transform, groups component.CollisionGroups) {
	ecs.QueueRemove(cmds, doodad, component.RigidBodyComponent.Kind())
	ecs.QueueRemove(cmds, doodad, component.CollisionGroupsComponent.Kind())
	ecs.QueueRemove(cmds, doodad, component.DoodadTagComponent.Kind())
	ecs.QueueAdd(cmds, doodad, component.CollisionGroupsComponent.Kind(), &groups)
	ecs.QueueAdd(cmds, doodad, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
	cmds.SetParent(doodad, root)
	ecs.QueueAdd(cmds, doodad, component.TransformComponent.Kind(), &local)
}

// PlayerRoot returns the one PlayerTag entity without a parent. Any other
// count means the world is broken, so it panics.
func PlayerRoot(w *ecs.World) ecs.Entity {
	roots := ecs.Without(w, w.Query(component.PlayerTagComponent.Kind()), ecs.ParentComponent.Kind())
	if len(roots) != 1 {
		panic(fmt.Sprintf("player: expected exactly one player root, found %d", len(roots)))
	}
	return roots[0]
}

// playerColliders lists the root and every absorbed part that has a
// collider, depth first.
func playerColliders(w *ecs.World, root ecs.Entity) []ecs.Entity {
	var out []ecs.Entity
	var walk func(e ecs.Entity)
	walk = func(e ecs.Entity) {
		if ecs.Has(w, e, component.ColliderComponent.Kind()) && ecs.Has(w, e, component.PlayerTagComponent.Kind()) {
			out = append(out, e)
		}
		for _, child := range ecs.ChildrenOf(w, e) {
			walk(child)
		}
	}
	walk(root)
	return out
}

func schemeOf(w *ecs.World) component.CollisionScheme {
	if s, ok := ecs.Resource[component.CollisionScheme](w); ok {
		return *s
	}
	return component.InteractionScheme()
}
