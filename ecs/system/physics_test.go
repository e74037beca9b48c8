package system

import (
	"math"
	"testing"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/clusterjunk/ecs"
	"github.com/milk9111/clusterjunk/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = time.Second / 60

type bodySpec struct {
	x, y, rot float64
	scale     float64
	shape     component.MeshShape
	groups    component.CollisionGroups
	dynamic   bool
	tags      []func(w *ecs.World, e ecs.Entity)
}

func spawnBody(t *testing.T, w *ecs.World, s bodySpec) ecs.Entity {
	t.Helper()
	e := w.CreateEntity()
	tr := component.Transform{X: s.x, Y: s.y, Rotation: s.rot, ScaleX: s.scale, ScaleY: s.scale}
	require.NoError(t, ecs.Add(w, e, component.TransformComponent.Kind(), &tr))
	col := colliderFor(s.shape)
	require.NoError(t, ecs.Add(w, e, component.ColliderComponent.Kind(), &col))
	groups := s.groups
	require.NoError(t, ecs.Add(w, e, component.CollisionGroupsComponent.Kind(), &groups))
	require.NoError(t, ecs.Add(w, e, component.MeshComponent.Kind(), &component.Mesh{Shape: s.shape}))
	if s.dynamic {
		require.NoError(t, ecs.Add(w, e, component.RigidBodyComponent.Kind(), &component.RigidBody{Type: component.RigidBodyDynamic}))
		require.NoError(t, ecs.Add(w, e, component.VelocityComponent.Kind(), &component.Velocity{}))
	}
	for _, tag := range s.tags {
		tag(w, e)
	}
	return e
}

func playerTag(w *ecs.World, e ecs.Entity) {
	_ = ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

func doodadTag(w *ecs.World, e ecs.Entity) {
	_ = ecs.Add(w, e, component.DoodadTagComponent.Kind(), &component.DoodadTag{})
}

func spawnFloor(t *testing.T, w *ecs.World, scheme component.CollisionScheme) ecs.Entity {
	t.Helper()
	e := w.CreateEntity()
	tr := component.Transform{X: 0, Y: -100, ScaleX: 1000, ScaleY: 15}
	require.NoError(t, ecs.Add(w, e, component.TransformComponent.Kind(), &tr))
	col := colliderFor(component.MeshSquare)
	require.NoError(t, ecs.Add(w, e, component.ColliderComponent.Kind(), &col))
	groups := scheme.Level
	require.NoError(t, ecs.Add(w, e, component.CollisionGroupsComponent.Kind(), &groups))
	require.NoError(t, ecs.Add(w, e, component.FloorTagComponent.Kind(), &component.FloorTag{}))
	return e
}

func newPhysicsWorld(gravity float64) (*ecs.World, *PhysicsSystem) {
	w := ecs.NewWorld()
	ecs.SetResource(w, &ecs.Time{Delta: frame})
	scheme := component.InteractionScheme()
	ecs.SetResource(w, &scheme)
	cfg := DefaultPhysicsConfig()
	cfg.Gravity = gravity
	return w, NewPhysicsSystem(cfg)
}

func stepFor(w *ecs.World, ps *PhysicsSystem, d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += frame {
		ps.Update(w)
	}
}

func TestPhysicsBodiesLandOnFloor(t *testing.T) {
	scheme := component.InteractionScheme()
	tests := []struct {
		name  string
		spec  bodySpec
		restY float64
	}{
		{
			name:  "player ball",
			spec:  bodySpec{scale: 60, shape: component.MeshCircle, groups: scheme.Player, dynamic: true},
			restY: -92.5 + 30,
		},
		{
			name:  "doodad box",
			spec:  bodySpec{y: 50, scale: 40, shape: component.MeshSquare, groups: scheme.Doodad, dynamic: true},
			restY: -92.5 + 20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, ps := newPhysicsWorld(-9.81)
			spawnFloor(t, w, scheme)
			e := spawnBody(t, w, tt.spec)

			stepFor(w, ps, 3*time.Second)

			tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
			assert.InDelta(t, tt.restY, tr.Y, 2)
			assert.InDelta(t, 0, tr.X, 1)

			v, _ := ecs.Get(w, e, component.VelocityComponent.Kind())
			assert.InDelta(t, 0, v.LinearY, 5)
		})
	}
}

func TestPhysicsMaterials(t *testing.T) {
	scheme := component.InteractionScheme()
	w, ps := newPhysicsWorld(0)
	floor := spawnFloor(t, w, scheme)
	ball := spawnBody(t, w, bodySpec{y: 100, scale: 60, shape: component.MeshCircle, groups: scheme.Player, dynamic: true})
	require.NoError(t, ecs.Add(w, ball, component.FrictionComponent.Kind(), &component.Friction{Coefficient: 6}))
	require.NoError(t, ecs.Add(w, ball, component.RestitutionComponent.Kind(), &component.Restitution{Coefficient: 0.5}))
	ps.Sync(w)

	floorShape, ok := ps.ShapeOf(floor)
	require.True(t, ok)
	assert.Equal(t, 0.5, floorShape.Friction(), "no Friction component uses the default")
	assert.Equal(t, 0.0, floorShape.Elasticity())

	ballShape, ok := ps.ShapeOf(ball)
	require.True(t, ok)
	assert.Equal(t, 6.0, ballShape.Friction())
	assert.Equal(t, 0.5, ballShape.Elasticity())
}

func TestPhysicsSpinningBallRollsOnFloor(t *testing.T) {
	scheme := component.InteractionScheme()
	w, ps := newPhysicsWorld(-9.81)
	spawnFloor(t, w, scheme)
	ball := spawnBody(t, w, bodySpec{y: -62.5, scale: 60, shape: component.MeshCircle, groups: scheme.Player, dynamic: true})
	require.NoError(t, ecs.Add(w, ball, component.FrictionComponent.Kind(), &component.Friction{Coefficient: 6}))

	for i := 0; i < 120; i++ {
		v, _ := ecs.Get(w, ball, component.VelocityComponent.Kind())
		v.Angular = -30
		ps.Update(w)
	}

	v, _ := ecs.Get(w, ball, component.VelocityComponent.Kind())
	assert.Greater(t, v.LinearX, 100.0)
	tr, _ := ecs.Get(w, ball, component.TransformComponent.Kind())
	assert.Greater(t, tr.X, 100.0)
}

func TestPhysicsPlayerIgnoresDoodads(t *testing.T) {
	scheme := component.InteractionScheme()
	w, ps := newPhysicsWorld(-9.81)
	spawnFloor(t, w, scheme)
	spawnBody(t, w, bodySpec{scale: 60, shape: component.MeshCircle, groups: scheme.Player, dynamic: true})
	doodad := spawnBody(t, w, bodySpec{y: 120, scale: 40, shape: component.MeshSquare, groups: scheme.Doodad, dynamic: true})

	stepFor(w, ps, 3*time.Second)

	// the doodad falls through the ball onto the floor
	tr, _ := ecs.Get(w, doodad, component.TransformComponent.Kind())
	assert.InDelta(t, -72.5, tr.Y, 2)
}

func TestPhysicsStaticCollidersUseStaticBody(t *testing.T) {
	w, ps := newPhysicsWorld(-9.81)
	floor := spawnFloor(t, w, component.InteractionScheme())
	ps.Sync(w)

	_, hasBody := ps.BodyOf(floor)
	assert.False(t, hasBody)

	shape, ok := ps.ShapeOf(floor)
	require.True(t, ok)
	assert.Equal(t, cp.BODY_STATIC, shape.Body().GetType())

	bb := shape.BB()
	assert.InDelta(t, -500, bb.L, 1e-6)
	assert.InDelta(t, 500, bb.R, 1e-6)
	assert.InDelta(t, -107.5, bb.B, 1e-6)
	assert.InDelta(t, -92.5, bb.T, 1e-6)
}

func TestPhysicsCompoundBody(t *testing.T) {
	scheme := component.InteractionScheme()
	w, ps := newPhysicsWorld(0)
	root := spawnBody(t, w, bodySpec{scale: 60, shape: component.MeshCircle, groups: scheme.Player, dynamic: true})
	part := spawnBody(t, w, bodySpec{x: 40, scale: 40, shape: component.MeshSquare, groups: scheme.Doodad, dynamic: true})
	ps.Sync(w)

	rootBody, ok := ps.BodyOf(root)
	require.True(t, ok)
	ballMass := 0.001 * math.Pi * 30 * 30
	assert.InDelta(t, ballMass, rootBody.Mass(), 1e-9)

	// attach the part the way combining does
	ecs.Remove(w, part, component.RigidBodyComponent.Kind())
	require.NoError(t, ecs.SetParent(w, part, root))
	local := GlobalPose(w, part).RelativeTo(GlobalPose(w, root))
	require.NoError(t, ecs.Add(w, part, component.TransformComponent.Kind(), &local))
	ps.Sync(w)

	_, partHasBody := ps.BodyOf(part)
	assert.False(t, partHasBody)
	shape, ok := ps.ShapeOf(part)
	require.True(t, ok)
	assert.Same(t, rootBody, shape.Body())
	assert.ElementsMatch(t, []ecs.Entity{root, part}, ps.ColliderShapes(root))

	boxMass := 0.001 * 40 * 40
	assert.InDelta(t, ballMass+boxMass, rootBody.Mass(), 1e-9)

	// center of gravity shifts towards the part without moving the body
	cog := rootBody.CenterOfGravity()
	assert.InDelta(t, 40*boxMass/(ballMass+boxMass), cog.X, 1e-9)
	assert.InDelta(t, 0, rootBody.Position().X, 1e-9)

	// the part's box is 40 wide around x=40
	bb := shape.BB()
	assert.InDelta(t, 20, bb.L, 1e-6)
	assert.InDelta(t, 60, bb.R, 1e-6)
}

func TestPhysicsDestroyedEntityCleansUp(t *testing.T) {
	scheme := component.InteractionScheme()
	w, ps := newPhysicsWorld(0)
	e := spawnBody(t, w, bodySpec{scale: 40, shape: component.MeshSquare, groups: scheme.Doodad, dynamic: true})
	ps.Sync(w)
	_, ok := ps.BodyOf(e)
	require.True(t, ok)

	w.DestroyEntity(e)
	ps.Sync(w)

	_, ok = ps.BodyOf(e)
	assert.False(t, ok)
	_, ok = ps.ShapeOf(e)
	assert.False(t, ok)
}

func TestPhysicsVelocityRoundTrip(t *testing.T) {
	scheme := component.InteractionScheme()
	w, ps := newPhysicsWorld(0)
	e := spawnBody(t, w, bodySpec{scale: 60, shape: component.MeshCircle, groups: scheme.Player, dynamic: true})
	v, _ := ecs.Get(w, e, component.VelocityComponent.Kind())
	v.LinearX = 120
	v.Angular = -3

	stepFor(w, ps, time.Second)

	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	assert.InDelta(t, 120, tr.X, 1)
	assert.InDelta(t, -3, tr.Rotation, 0.05)
	assert.InDelta(t, 120, v.LinearX, 1e-6)
}

func TestPhysicsAngularDamping(t *testing.T) {
	scheme := component.InteractionScheme()
	w, ps := newPhysicsWorld(0)
	e := spawnBody(t, w, bodySpec{scale: 60, shape: component.MeshCircle, groups: scheme.Player, dynamic: true})
	require.NoError(t, ecs.Add(w, e, component.DampingComponent.Kind(), &component.Damping{Angular: 0.1}))
	v, _ := ecs.Get(w, e, component.VelocityComponent.Kind())
	v.Angular = 10

	stepFor(w, ps, time.Second)

	assert.Less(t, v.Angular, 10.0)
	assert.Greater(t, v.Angular, 8.0)
}

func TestPhysicsExternalImpulse(t *testing.T) {
	scheme := component.InteractionScheme()
	w, ps := newPhysicsWorld(0)
	e := spawnBody(t, w, bodySpec{scale: 40, shape: component.MeshSquare, groups: scheme.Doodad, dynamic: true})
	mass := 0.001 * 40 * 40
	require.NoError(t, ecs.Add(w, e, component.ExternalImpulseComponent.Kind(), &component.ExternalImpulse{X: mass * 50}))

	ps.Update(w)

	v, _ := ecs.Get(w, e, component.VelocityComponent.Kind())
	assert.InDelta(t, 50, v.LinearX, 1e-6)
	imp, _ := ecs.Get(w, e, component.ExternalImpulseComponent.Kind())
	assert.Equal(t, component.ExternalImpulse{}, *imp)
}

func TestPhysicsStepIsClamped(t *testing.T) {
	w, ps := newPhysicsWorld(0)
	ecs.MustResource[ecs.Time](w).Delta = time.Second
	assert.InDelta(t, ps.Config().MaxStep.Seconds(), ps.stepSize(w), 1e-12)

	ecs.RemoveResource[ecs.Time](w)
	assert.InDelta(t, fallbackStep.Seconds(), ps.stepSize(w), 1e-12)
}

func TestSetGravity(t *testing.T) {
	_, ps := newPhysicsWorld(-9.81)
	ps.SetGravity(-20)
	assert.Equal(t, -20.0, ps.Config().Gravity)
	assert.InDelta(t, -2000, ps.Space().Gravity().Y, 1e-9)
}

func TestIntersectionsWithShape(t *testing.T) {
	scheme := component.InteractionScheme()
	w, ps := newPhysicsWorld(0)
	spawnFloor(t, w, scheme)
	near := spawnBody(t, w, bodySpec{x: 10, scale: 40, shape: component.MeshSquare, groups: scheme.Doodad, dynamic: true})
	spawnBody(t, w, bodySpec{x: 300, scale: 40, shape: component.MeshSquare, groups: scheme.Doodad, dynamic: true})
	ps.Sync(w)

	tests := []struct {
		name  string
		query ShapeQuery
		want  int
	}{
		{
			name:  "doodad groups see doodads",
			query: ShapeQuery{Collider: colliderFor(component.MeshSquare), Pose: component.Transform{ScaleX: 40, ScaleY: 40}, Groups: scheme.Doodad},
			want:  1,
		},
		{
			name:  "player groups ignore doodads",
			query: ShapeQuery{Collider: colliderFor(component.MeshSquare), Pose: component.Transform{ScaleX: 40, ScaleY: 40}, Groups: scheme.Player},
			want:  0,
		},
		{
			name:  "doodad groups see the floor",
			query: ShapeQuery{Collider: colliderFor(component.MeshSquare), Pose: component.Transform{Y: -100, ScaleX: 40, ScaleY: 40}, Groups: scheme.Doodad},
			want:  1,
		},
		{
			name:  "only dynamic skips the floor",
			query: ShapeQuery{Collider: colliderFor(component.MeshSquare), Pose: component.Transform{Y: -100, ScaleX: 40, ScaleY: 40}, Groups: scheme.Doodad, OnlyDynamic: true},
			want:  0,
		},
		{
			name:  "empty space",
			query: ShapeQuery{Collider: colliderFor(component.MeshCircle), Pose: component.Transform{X: 150, Y: 150, ScaleX: 10, ScaleY: 10}, Groups: component.DefaultCollisionGroups()},
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits []ecs.Entity
			ps.IntersectionsWithShape(tt.query, func(e ecs.Entity) bool {
				hits = append(hits, e)
				return true
			})
			assert.Len(t, hits, tt.want)
		})
	}

	t.Run("stops when callback returns false", func(t *testing.T) {
		calls := 0
		ps.IntersectionsWithShape(ShapeQuery{
			Collider: colliderFor(component.MeshSquare),
			Pose:     component.Transform{Y: -50, ScaleX: 200, ScaleY: 200},
			Groups:   scheme.Doodad,
		}, func(e ecs.Entity) bool {
			calls++
			return false
		})
		assert.Equal(t, 1, calls)
	})

	t.Run("hit is the collider entity", func(t *testing.T) {
		var got ecs.Entity
		ps.IntersectionsWithShape(ShapeQuery{
			Collider: colliderFor(component.MeshSquare),
			Pose:     component.Transform{ScaleX: 40, ScaleY: 40},
			Groups:   scheme.Doodad,
		}, func(e ecs.Entity) bool {
			got = e
			return false
		})
		assert.Equal(t, near, got)
	})
}
