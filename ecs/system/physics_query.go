package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/clusterjunk/ecs"
	"github.com/milk9111/clusterjunk/ecs/component"
)

// ShapeQuery describes a query shape placed in the world.
type ShapeQuery struct {
	Collider component.Collider
	// Pose places the query shape; its scale multiplies the collider extents.
	Pose   component.Transform
	Groups component.CollisionGroups
	// OnlyDynamic skips shapes attached to static or fixed bodies.
	OnlyDynamic bool
}

// IntersectionsWithShape calls fn with the collider entity of every shape
// overlapping the query shape, until fn returns false. Shapes created since the
// last Sync are not visible.
func (ps *PhysicsSystem) IntersectionsWithShape(q ShapeQuery, fn func(ecs.Entity) bool) {
	if ps == nil || fn == nil {
		return
	}

	body := cp.NewKinematicBody()
	body.SetPosition(cp.Vector{X: q.Pose.X, Y: q.Pose.Y})
	body.SetAngle(q.Pose.Rotation)

	sx, sy := q.Pose.Scale()
	sx, sy = math.Abs(sx), math.Abs(sy)
	var query *cp.Shape
	switch q.Collider.Shape {
	case component.ColliderBall:
		query = cp.NewCircle(body, q.Collider.Radius*math.Max(sx, sy), cp.Vector{})
	default:
		verts := boxVerts(q.Collider.HalfWidth*sx, q.Collider.HalfHeight*sy, 0, cp.Vector{})
		query = cp.NewPolyShapeRaw(body, len(verts), verts, 0)
	}
	query.SetFilter(shapeFilter(q.Groups))

	var hits []ecs.Entity
	seen := make(map[ecs.Entity]struct{})
	ps.space.ShapeQuery(query, func(shape *cp.Shape, _ *cp.ContactPointSet) {
		if q.OnlyDynamic && shape.Body().GetType() != cp.BODY_DYNAMIC {
			return
		}
		e, ok := ps.shapeOwners[shape]
		if !ok {
			return
		}
		if _, dup := seen[e]; dup {
			return
		}
		seen[e] = struct{}{}
		hits = append(hits, e)
	})

	// the space is locked during the query, so callbacks run afterwards
	for _, e := range hits {
		if !fn(e) {
			return
		}
	}
}

// ColliderShapes returns the collider entities attached to body entity e,
// its own collider included.
func (ps *PhysicsSystem) ColliderShapes(e ecs.Entity) []ecs.Entity {
	var out []ecs.Entity
	ps.shapes.ForEach(func(se ecs.Entity, si *shapeInfo) bool {
		if si.owner == e {
			out = append(out, se)
		}
		return true
	})
	return out
}
