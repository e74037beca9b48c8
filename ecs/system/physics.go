package system

import (
	"math"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/kamstrup/intmap"
	"github.com/milk9111/clusterjunk/ecs"
	"github.com/milk9111/clusterjunk/ecs/component"
	"github.com/milk9111/clusterjunk/log"
)

var physicsLog = log.With("system", "physics")

const (
	defaultPixelsPerMeter = 100.0
	defaultGravity        = -9.81
	defaultDensity        = 0.001
	defaultFriction       = 0.5
	defaultIterations     = 20
	defaultMaxStep        = time.Second / 30
	fallbackStep          = time.Second / 60
)

// PhysicsConfig tunes the simulation. Gravity is in meters per second squared
// and is scaled by PixelsPerMeter, since the world is measured in pixels.
type PhysicsConfig struct {
	Gravity        float64
	PixelsPerMeter float64
	Iterations     int
	// MaxStep clamps a single step so a long frame cannot tunnel bodies.
	MaxStep        time.Duration
	DefaultDensity float64
	// DefaultFriction is used for colliders without a Friction component.
	// cp multiplies the two coefficients of a contact, so a zero here would
	// make every such surface frictionless.
	DefaultFriction float64
}

func DefaultPhysicsConfig() PhysicsConfig {
	return PhysicsConfig{
		Gravity:         defaultGravity,
		PixelsPerMeter:  defaultPixelsPerMeter,
		Iterations:      defaultIterations,
		MaxStep:         defaultMaxStep,
		DefaultDensity:  defaultDensity,
		DefaultFriction: defaultFriction,
	}
}

func (c PhysicsConfig) withDefaults() PhysicsConfig {
	d := DefaultPhysicsConfig()
	if c.PixelsPerMeter <= 0 {
		c.PixelsPerMeter = d.PixelsPerMeter
	}
	if c.Iterations <= 0 {
		c.Iterations = d.Iterations
	}
	if c.MaxStep <= 0 {
		c.MaxStep = d.MaxStep
	}
	if c.DefaultDensity <= 0 {
		c.DefaultDensity = d.DefaultDensity
	}
	if c.DefaultFriction <= 0 {
		c.DefaultFriction = d.DefaultFriction
	}
	return c
}

// PhysicsSystem mirrors rigid bodies and colliders into a chipmunk space,
// steps it, and writes poses and velocities back.
//
// A collider is attached to the nearest rigid body found walking up from its
// own entity, so children of a body form one compound body. Colliders with
// no rigid body above them become static geometry.
type PhysicsSystem struct {
	space *cp.Space
	cfg   PhysicsConfig

	bodies      *intmap.Map[ecs.Entity, *bodyInfo]
	shapes      *intmap.Map[ecs.Entity, *shapeInfo]
	shapeOwners map[*cp.Shape]ecs.Entity
}

type bodyInfo struct {
	body    *cp.Body
	kind    component.RigidBodyType
	damping component.Damping
	shapes  int
	dirty   bool
}

type shapeInfo struct {
	shape *cp.Shape
	owner ecs.Entity // zero for static geometry
	geom  shapeGeom
}

// shapeGeom is everything a cp shape is built from; a change rebuilds it.
type shapeGeom struct {
	collider component.Collider
	pose     component.Transform
}

func NewPhysicsSystem(cfg PhysicsConfig) *PhysicsSystem {
	cfg = cfg.withDefaults()
	space := cp.NewSpace()
	space.Iterations = uint(cfg.Iterations)
	space.SetGravity(cp.Vector{X: 0, Y: cfg.Gravity * cfg.PixelsPerMeter})
	return &PhysicsSystem{
		space:       space,
		cfg:         cfg,
		bodies:      intmap.New[ecs.Entity, *bodyInfo](64),
		shapes:      intmap.New[ecs.Entity, *shapeInfo](64),
		shapeOwners: make(map[*cp.Shape]ecs.Entity),
	}
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

func (ps *PhysicsSystem) Config() PhysicsConfig {
	return ps.cfg
}

// SetGravity updates gravity in meters per second squared.
func (ps *PhysicsSystem) SetGravity(g float64) {
	ps.cfg.Gravity = g
	ps.space.SetGravity(cp.Vector{X: 0, Y: g * ps.cfg.PixelsPerMeter})
}

// BodyOf returns the chipmunk body owned by e, if any.
func (ps *PhysicsSystem) BodyOf(e ecs.Entity) (*cp.Body, bool) {
	info, ok := ps.bodies.Get(e)
	if !ok {
		return nil, false
	}
	return info.body, true
}

// ShapeOf returns the chipmunk shape built for e's collider, if any.
func (ps *PhysicsSystem) ShapeOf(e ecs.Entity) (*cp.Shape, bool) {
	info, ok := ps.shapes.Get(e)
	if !ok {
		return nil, false
	}
	return info.shape, true
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}

	ps.Sync(w)
	ps.pushVelocities(w)
	ps.applyImpulses(w)

	if dt := ps.stepSize(w); dt > 0 {
		ps.space.Step(dt)
	}

	ps.pullBodies(w)
}

// Sync brings the space in line with the world without stepping it.
func (ps *PhysicsSystem) Sync(w *ecs.World) {
	ps.cleanupBodies(w)
	ps.syncBodies(w)
	ps.syncShapes(w)
	ps.bodies.ForEach(func(e ecs.Entity, info *bodyInfo) bool {
		if info.dirty {
			ps.recomputeMass(info)
			info.dirty = false
		}
		return true
	})
}

func (ps *PhysicsSystem) stepSize(w *ecs.World) float64 {
	dt := fallbackStep
	if t, ok := ecs.Resource[ecs.Time](w); ok {
		dt = t.Delta
	}
	if dt > ps.cfg.MaxStep {
		dt = ps.cfg.MaxStep
	}
	return dt.Seconds()
}

// cleanupBodies drops bodies whose entity died or lost its RigidBody, along
// with every shape attached to them. Those colliders are rebuilt on their
// new owner by syncShapes.
func (ps *PhysicsSystem) cleanupBodies(w *ecs.World) {
	var stale []ecs.Entity
	ps.bodies.ForEach(func(e ecs.Entity, info *bodyInfo) bool {
		rb, ok := ecs.Get(w, e, component.RigidBodyComponent.Kind())
		if !ok || rigidBodyType(rb) != info.kind {
			stale = append(stale, e)
		}
		return true
	})
	for _, e := range stale {
		ps.removeBody(e)
	}

	var orphaned []ecs.Entity
	ps.shapes.ForEach(func(e ecs.Entity, info *shapeInfo) bool {
		if !ecs.Has(w, e, component.ColliderComponent.Kind()) {
			orphaned = append(orphaned, e)
		}
		return true
	})
	for _, e := range orphaned {
		ps.removeShape(e)
	}
}

func (ps *PhysicsSystem) removeBody(e ecs.Entity) {
	info, ok := ps.bodies.Get(e)
	if !ok {
		return
	}
	var attached []ecs.Entity
	ps.shapes.ForEach(func(se ecs.Entity, si *shapeInfo) bool {
		if si.owner == e {
			attached = append(attached, se)
		}
		return true
	})
	for _, se := range attached {
		ps.removeShape(se)
	}
	ps.space.RemoveBody(info.body)
	ps.bodies.Del(e)
	physicsLog.Trace("removed body of %s", e)
}

func (ps *PhysicsSystem) removeShape(e ecs.Entity) {
	info, ok := ps.shapes.Get(e)
	if !ok {
		return
	}
	ps.space.RemoveShape(info.shape)
	delete(ps.shapeOwners, info.shape)
	if owner, ok := ps.bodies.Get(info.owner); ok {
		owner.shapes--
		owner.dirty = true
	}
	ps.shapes.Del(e)
}

func (ps *PhysicsSystem) syncBodies(w *ecs.World) {
	for _, e := range w.Query(component.RigidBodyComponent.Kind(), component.TransformComponent.Kind()) {
		rb, _ := ecs.Get(w, e, component.RigidBodyComponent.Kind())
		info, ok := ps.bodies.Get(e)
		if !ok {
			info = ps.createBody(w, e, rigidBodyType(rb))
			ps.bodies.Put(e, info)
		}
		if d, ok := ecs.Get(w, e, component.DampingComponent.Kind()); ok {
			info.damping = *d
		} else {
			info.damping = component.Damping{}
		}
		if info.kind == component.RigidBodyFixed {
			ps.moveFixedBody(w, e, info)
		}
	}
}

func (ps *PhysicsSystem) createBody(w *ecs.World, e ecs.Entity, kind component.RigidBodyType) *bodyInfo {
	pose := GlobalPose(w, e)
	info := &bodyInfo{kind: kind, dirty: true}

	var body *cp.Body
	if kind == component.RigidBodyFixed {
		body = cp.NewStaticBody()
	} else {
		body = cp.NewBody(1, 1)
		body.SetVelocityUpdateFunc(func(body *cp.Body, gravity cp.Vector, damping float64, dt float64) {
			cp.BodyUpdateVelocity(body, gravity, damping, dt)
			if info.damping.Linear > 0 {
				body.SetVelocityVector(body.Velocity().Mult(1 / (1 + dt*info.damping.Linear)))
			}
			if info.damping.Angular > 0 {
				body.SetAngularVelocity(body.AngularVelocity() / (1 + dt*info.damping.Angular))
			}
		})
	}
	body.SetPosition(cp.Vector{X: pose.X, Y: pose.Y})
	body.SetAngle(pose.Rotation)
	if v, ok := ecs.Get(w, e, component.VelocityComponent.Kind()); ok && kind == component.RigidBodyDynamic {
		body.SetVelocity(v.LinearX, v.LinearY)
		body.SetAngularVelocity(v.Angular)
	}
	ps.space.AddBody(body)
	info.body = body
	physicsLog.Trace("created %s body for %s", kind, e)
	return info
}

func (ps *PhysicsSystem) moveFixedBody(w *ecs.World, e ecs.Entity, info *bodyInfo) {
	pose := GlobalPose(w, e)
	pos := info.body.Position()
	if pos.X == pose.X && pos.Y == pose.Y && info.body.Angle() == pose.Rotation {
		return
	}
	info.body.SetPosition(cp.Vector{X: pose.X, Y: pose.Y})
	info.body.SetAngle(pose.Rotation)
	ps.space.ReindexShapesForBody(info.body)
}

func (ps *PhysicsSystem) syncShapes(w *ecs.World) {
	for _, e := range w.Query(component.ColliderComponent.Kind()) {
		col, _ := ecs.Get(w, e, component.ColliderComponent.Kind())
		owner, pose := ps.colliderPose(w, e)
		geom := shapeGeom{collider: *col, pose: pose}

		info, ok := ps.shapes.Get(e)
		if ok && (info.owner != owner || info.geom != geom) {
			ps.removeShape(e)
			ok = false
		}
		if !ok {
			info = ps.createShape(e, owner, geom)
			ps.shapes.Put(e, info)
		}
		ps.applyMaterial(w, e, info.shape)
	}
}

// colliderPose finds the body a collider attaches to and the collider's pose
// in that body's frame, with the body's own scale folded in. Static
// colliders get their global pose.
func (ps *PhysicsSystem) colliderPose(w *ecs.World, e ecs.Entity) (ecs.Entity, component.Transform) {
	var chain []component.Transform
	for cur, ok := e, true; ok; cur, ok = ecs.ParentOf(w, cur) {
		if _, isBody := ps.bodies.Get(cur); isBody {
			sx, sy := chainScale(w, cur)
			rel := component.Transform{ScaleX: sx, ScaleY: sy}
			for i := len(chain) - 1; i >= 0; i-- {
				rel = rel.Compose(chain[i])
			}
			return cur, rel
		}
		t, ok := ecs.Get(w, cur, component.TransformComponent.Kind())
		if !ok {
			chain = append(chain, component.NewTransform(0, 0))
			continue
		}
		chain = append(chain, *t)
	}
	return 0, GlobalPose(w, e)
}

func (ps *PhysicsSystem) createShape(e, owner ecs.Entity, geom shapeGeom) *shapeInfo {
	body := ps.space.StaticBody
	ownerInfo, hasOwner := ps.bodies.Get(owner)
	if hasOwner {
		body = ownerInfo.body
	}

	sx, sy := geom.pose.Scale()
	sx, sy = math.Abs(sx), math.Abs(sy)
	offset := cp.Vector{X: geom.pose.X, Y: geom.pose.Y}

	var shape *cp.Shape
	switch geom.collider.Shape {
	case component.ColliderBall:
		shape = cp.NewCircle(body, geom.collider.Radius*math.Max(sx, sy), offset)
	default:
		hw := geom.collider.HalfWidth * sx
		hh := geom.collider.HalfHeight * sy
		verts := boxVerts(hw, hh, geom.pose.Rotation, offset)
		shape = cp.NewPolyShapeRaw(body, len(verts), verts, 0)
	}

	ps.space.AddShape(shape)
	ps.shapeOwners[shape] = e
	if hasOwner {
		ownerInfo.shapes++
		ownerInfo.dirty = true
	}
	return &shapeInfo{shape: shape, owner: owner, geom: geom}
}

func (ps *PhysicsSystem) applyMaterial(w *ecs.World, e ecs.Entity, shape *cp.Shape) {
	groups := component.DefaultCollisionGroups()
	if g, ok := ecs.Get(w, e, component.CollisionGroupsComponent.Kind()); ok {
		groups = *g
	}
	shape.SetFilter(shapeFilter(groups))

	friction := ps.cfg.DefaultFriction
	if f, ok := ecs.Get(w, e, component.FrictionComponent.Kind()); ok {
		friction = f.Coefficient
	}
	shape.SetFriction(friction)

	elasticity := 0.0
	if r, ok := ecs.Get(w, e, component.RestitutionComponent.Kind()); ok {
		elasticity = r.Coefficient
	}
	shape.SetElasticity(elasticity)
}

// recomputeMass sets mass, moment and center of gravity of a dynamic body
// from the area and density of its shapes.
func (ps *PhysicsSystem) recomputeMass(info *bodyInfo) {
	if info.kind != component.RigidBodyDynamic {
		return
	}

	var mass, momentAtOrigin float64
	var cog cp.Vector
	ps.shapes.ForEach(func(e ecs.Entity, si *shapeInfo) bool {
		if si.shape.Body() != info.body {
			return true
		}
		m, i, c := shapeMass(si.geom, ps.cfg.DefaultDensity)
		if m <= 0 {
			return true
		}
		cog = cog.Add(c.Mult(m))
		mass += m
		momentAtOrigin += i + m*c.LengthSq()
		return true
	})
	if mass <= 0 {
		info.body.SetMass(1)
		info.body.SetMoment(1)
		return
	}

	cog = cog.Mult(1 / mass)
	moment := momentAtOrigin - mass*cog.LengthSq()
	if moment <= 0 {
		moment = 1
	}

	pos := info.body.Position()
	info.body.SetMass(mass)
	info.body.SetMoment(moment)
	info.body.SetCenterOfGravity(cog)
	info.body.SetPosition(pos)
}

// shapeMass returns the mass of a shape, its moment about its own centroid,
// and the centroid in body coordinates.
func shapeMass(g shapeGeom, fallbackDensity float64) (float64, float64, cp.Vector) {
	density := g.collider.Density
	if density <= 0 {
		density = fallbackDensity
	}
	sx, sy := g.pose.Scale()
	sx, sy = math.Abs(sx), math.Abs(sy)
	c := cp.Vector{X: g.pose.X, Y: g.pose.Y}

	switch g.collider.Shape {
	case component.ColliderBall:
		r := g.collider.Radius * math.Max(sx, sy)
		m := density * math.Pi * r * r
		return m, cp.MomentForCircle(m, 0, r, cp.Vector{}), c
	default:
		w := 2 * g.collider.HalfWidth * sx
		h := 2 * g.collider.HalfHeight * sy
		m := density * w * h
		return m, cp.MomentForBox(m, w, h), c
	}
}

func (ps *PhysicsSystem) pushVelocities(w *ecs.World) {
	ecs.ForEach(w, component.VelocityComponent.Kind(), func(e ecs.Entity, v *component.Velocity) {
		info, ok := ps.bodies.Get(e)
		if !ok || info.kind != component.RigidBodyDynamic {
			return
		}
		info.body.SetVelocity(v.LinearX, v.LinearY)
		info.body.SetAngularVelocity(v.Angular)
	})
}

func (ps *PhysicsSystem) applyImpulses(w *ecs.World) {
	ecs.ForEach(w, component.ExternalImpulseComponent.Kind(), func(e ecs.Entity, imp *component.ExternalImpulse) {
		info, ok := ps.bodies.Get(e)
		if !ok || info.kind != component.RigidBodyDynamic {
			return
		}
		if imp.X != 0 || imp.Y != 0 {
			dv := cp.Vector{X: imp.X, Y: imp.Y}.Mult(1 / info.body.Mass())
			info.body.SetVelocityVector(info.body.Velocity().Add(dv))
		}
		if imp.Torque != 0 {
			info.body.SetAngularVelocity(info.body.AngularVelocity() + imp.Torque/info.body.Moment())
		}
		*imp = component.ExternalImpulse{}
	})
}

func (ps *PhysicsSystem) pullBodies(w *ecs.World) {
	ps.bodies.ForEach(func(e ecs.Entity, info *bodyInfo) bool {
		if info.kind != component.RigidBodyDynamic {
			return true
		}
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			return true
		}
		pos := info.body.Position()
		world := *t
		world.X, world.Y, world.Rotation = pos.X, pos.Y, info.body.Angle()
		if parent, ok := ecs.ParentOf(w, e); ok {
			world = world.RelativeTo(GlobalPose(w, parent))
			world.ScaleX, world.ScaleY, world.Z = t.ScaleX, t.ScaleY, t.Z
		}
		*t = world

		if v, ok := ecs.Get(w, e, component.VelocityComponent.Kind()); ok {
			vel := info.body.Velocity()
			v.LinearX, v.LinearY = vel.X, vel.Y
			v.Angular = info.body.AngularVelocity()
		}
		return true
	})
}

func rigidBodyType(rb *component.RigidBody) component.RigidBodyType {
	if rb.Type == component.RigidBodyFixed {
		return component.RigidBodyFixed
	}
	return component.RigidBodyDynamic
}

func shapeFilter(g component.CollisionGroups) cp.ShapeFilter {
	return cp.ShapeFilter{
		Group:      cp.NO_GROUP,
		Categories: uint(g.Memberships),
		Mask:       uint(g.Filters),
	}
}

// boxVerts returns the counter-clockwise corners of a rotated box.
func boxVerts(hw, hh, angle float64, offset cp.Vector) []cp.Vector {
	rot := cp.ForAngle(angle)
	corners := []cp.Vector{
		{X: -hw, Y: -hh},
		{X: hw, Y: -hh},
		{X: hw, Y: hh},
		{X: -hw, Y: hh},
	}
	for i, c := range corners {
		corners[i] = rot.Rotate(c).Add(offset)
	}
	return corners
}

// GlobalPose composes e's Transform with its ancestors'. It does not rely on
// GlobalTransform, so it is valid for entities spawned this frame.
func GlobalPose(w *ecs.World, e ecs.Entity) component.Transform {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	local := component.NewTransform(0, 0)
	if ok {
		local = *t
	}
	parent, ok := ecs.ParentOf(w, e)
	if !ok {
		return local
	}
	return GlobalPose(w, parent).Compose(local)
}

// chainScale multiplies the scale factors from e up to its root.
func chainScale(w *ecs.World, e ecs.Entity) (float64, float64) {
	sx, sy := 1.0, 1.0
	for cur, ok := e, true; ok; cur, ok = ecs.ParentOf(w, cur) {
		if t, has := ecs.Get(w, cur, component.TransformComponent.Kind()); has {
			tx, ty := t.Scale()
			sx *= tx
			sy *= ty
		}
	}
	return sx, sy
}
