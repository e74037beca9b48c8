package system

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/clusterjunk/ecs"
	"github.com/milk9111/clusterjunk/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertVec(t *testing.T, want, got cp.Vector) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-6, "x")
	assert.InDelta(t, want.Y, got.Y, 1e-6, "y")
}

func TestColliderOutlines(t *testing.T) {
	w, ps := newPhysicsWorld(0)
	scheme := component.InteractionScheme()
	floor := spawnFloor(t, w, scheme)
	ball := spawnBody(t, w, bodySpec{y: 50, rot: math.Pi / 2, scale: 60, shape: component.MeshCircle, groups: scheme.Player, dynamic: true})
	box := spawnBody(t, w, bodySpec{x: 200, scale: 40, shape: component.MeshSquare, groups: scheme.Doodad, dynamic: true})
	ps.Sync(w)

	outlines := ps.colliderOutlines(w)
	require.Len(t, outlines, 3)
	byEntity := map[ecs.Entity]colliderOutline{}
	for _, o := range outlines {
		byEntity[o.entity] = o
	}

	f := byEntity[floor]
	assert.False(t, f.ball)
	assert.Equal(t, debugLevelColor, f.color)
	require.Len(t, f.verts, 4)
	assertVec(t, cp.Vector{X: -500, Y: -107.5}, f.verts[0])
	assertVec(t, cp.Vector{X: 500, Y: -92.5}, f.verts[2])

	b := byEntity[ball]
	assert.True(t, b.ball)
	assert.Equal(t, debugPlayerColor, b.color)
	assert.InDelta(t, 30, b.radius, 1e-9)
	assertVec(t, cp.Vector{X: 0, Y: 50}, b.center)
	assertVec(t, cp.Vector{X: 0, Y: 80}, b.spoke)

	d := byEntity[box]
	assert.Equal(t, debugDoodadColor, d.color)
	require.Len(t, d.verts, 4)
	assertVec(t, cp.Vector{X: 180, Y: -20}, d.verts[0])
	assertVec(t, cp.Vector{X: 220, Y: 20}, d.verts[2])
}

func TestColliderOutlinesFollowCompoundBody(t *testing.T) {
	w, ps := newPhysicsWorld(0)
	scheme := component.InteractionScheme()
	root := spawnBody(t, w, bodySpec{x: 100, scale: 60, shape: component.MeshCircle, groups: scheme.Player, dynamic: true})
	part := w.CreateEntity()
	require.NoError(t, ecs.Add(w, part, component.TransformComponent.Kind(), &component.Transform{X: 1, ScaleX: 1, ScaleY: 1}))
	col := colliderFor(component.MeshCircle)
	require.NoError(t, ecs.Add(w, part, component.ColliderComponent.Kind(), &col))
	require.NoError(t, ecs.SetParent(w, part, root))
	ps.Sync(w)

	outlines := ps.colliderOutlines(w)
	require.Len(t, outlines, 2)
	assert.Equal(t, part, outlines[1].entity)
	assertVec(t, cp.Vector{X: 160, Y: 0}, outlines[1].center)
	assert.Equal(t, debugOtherColor, outlines[1].color, "no collision groups")
}

func TestPhysicsDebugRenderDisabled(t *testing.T) {
	w, ps := newPhysicsWorld(0)
	assert.NotPanics(t, func() {
		(&PhysicsDebugRender{Physics: ps}).Draw(w, nil)
		(*PhysicsDebugRender)(nil).Draw(w, nil)
	})
}
