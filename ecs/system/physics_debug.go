package system

import (
	"cmp"
	"image/color"
	"math"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/clusterjunk/ecs"
	"github.com/milk9111/clusterjunk/ecs/component"
)

var (
	debugPlayerColor = color.NRGBA{R: 0xff, G: 0xd0, B: 0x30, A: 0xe0}
	debugDoodadColor = color.NRGBA{R: 0x40, G: 0xe0, B: 0x60, A: 0xe0}
	debugLevelColor  = color.NRGBA{R: 0x90, G: 0x90, B: 0x90, A: 0xc0}
	debugOtherColor  = color.NRGBA{R: 0xff, G: 0x60, B: 0x60, A: 0xe0}
)

// colliderOutline is a collider in world space. Balls carry a spoke from
// the center to the rim so spin is visible.
type colliderOutline struct {
	entity ecs.Entity
	ball   bool
	center cp.Vector
	radius float64
	spoke  cp.Vector
	verts  []cp.Vector
	color  color.NRGBA
}

// colliderOutlines returns every collider the space holds, in entity order.
func (ps *PhysicsSystem) colliderOutlines(w *ecs.World) []colliderOutline {
	out := make([]colliderOutline, 0, ps.shapes.Len())
	ps.shapes.ForEach(func(e ecs.Entity, si *shapeInfo) bool {
		body := si.shape.Body()
		geom := si.geom
		sx, sy := geom.pose.Scale()
		sx, sy = math.Abs(sx), math.Abs(sy)
		offset := cp.Vector{X: geom.pose.X, Y: geom.pose.Y}

		o := colliderOutline{entity: e, color: outlineColor(w, e)}
		if geom.collider.Shape == component.ColliderBall {
			o.ball = true
			o.radius = geom.collider.Radius * math.Max(sx, sy)
			o.center = body.LocalToWorld(offset)
			o.spoke = body.LocalToWorld(offset.Add(cp.ForAngle(geom.pose.Rotation).Mult(o.radius)))
		} else {
			o.verts = boxVerts(geom.collider.HalfWidth*sx, geom.collider.HalfHeight*sy, geom.pose.Rotation, offset)
			for i, v := range o.verts {
				o.verts[i] = body.LocalToWorld(v)
			}
		}
		out = append(out, o)
		return true
	})
	slices.SortFunc(out, func(a, b colliderOutline) int { return cmp.Compare(a.entity, b.entity) })
	return out
}

func outlineColor(w *ecs.World, e ecs.Entity) color.NRGBA {
	groups, ok := ecs.Get(w, e, component.CollisionGroupsComponent.Kind())
	if !ok {
		return debugOtherColor
	}
	switch {
	case groups.Memberships == component.GroupAll:
		return debugOtherColor
	case groups.Memberships.Has(component.GroupPlayer):
		return debugPlayerColor
	case groups.Memberships.Has(component.GroupDoodad):
		return debugDoodadColor
	case groups.Memberships.Has(component.GroupLevel):
		return debugLevelColor
	}
	return debugOtherColor
}

// PhysicsDebugRender strokes every collider over the scene when enabled.
type PhysicsDebugRender struct {
	Physics *PhysicsSystem
	Enabled bool
}

func (r *PhysicsDebugRender) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || !r.Enabled || r.Physics == nil || w == nil || screen == nil {
		return
	}
	cam := component.Camera{Zoom: 1}
	if c, ok := ecs.Resource[component.Camera](w); ok {
		cam = *c
	}
	sw, sh := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	project := func(v cp.Vector) (float32, float32) {
		x, y := cam.ToScreen(v.X, v.Y, sw, sh)
		return float32(x), float32(y)
	}

	for _, o := range r.Physics.colliderOutlines(w) {
		if o.ball {
			cx, cy := project(o.center)
			vector.StrokeCircle(screen, cx, cy, float32(o.radius*cam.ZoomOrDefault()), 1, o.color, true)
			ex, ey := project(o.spoke)
			vector.StrokeLine(screen, cx, cy, ex, ey, 1, o.color, true)
			continue
		}
		for i, v := range o.verts {
			x0, y0 := project(v)
			x1, y1 := project(o.verts[(i+1)%len(o.verts)])
			vector.StrokeLine(screen, x0, y0, x1, y1, 1, o.color, true)
		}
	}
}
