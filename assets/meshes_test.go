package assets

import (
	"testing"

	"github.com/milk9111/clusterjunk/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeshAssetsGet(t *testing.T) {
	m := NewMeshAssets()

	tests := []struct {
		name     string
		shape    component.MeshShape
		ok       bool
		collider component.ColliderShape
	}{
		{name: "square", shape: component.MeshSquare, ok: true, collider: component.ColliderCuboid},
		{name: "empty means square", shape: "", ok: true, collider: component.ColliderCuboid},
		{name: "circle", shape: component.MeshCircle, ok: true, collider: component.ColliderBall},
		{name: "unknown", shape: "hexagon", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, ok := m.Get(tt.shape)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.collider, a.Collider.Shape)
			}
		})
	}
}

func TestMeshTemplatesAreUnitSized(t *testing.T) {
	m := NewMeshAssets()
	assert.Equal(t, 0.5, m.Square.Collider.HalfWidth)
	assert.Equal(t, 0.5, m.Square.Collider.HalfHeight)
	assert.Equal(t, 0.5, m.Circle.Collider.Radius)

	mesh := m.Circle.Mesh(FloorColor)
	assert.Equal(t, component.MeshCircle, mesh.Shape)
	assert.Equal(t, FloorColor, mesh.Color)
}

func TestNilMeshAssets(t *testing.T) {
	var m *MeshAssets
	_, ok := m.Get(component.MeshSquare)
	assert.False(t, ok)
}
