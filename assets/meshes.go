package assets

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/clusterjunk/ecs/component"
)

// meshTextureSize is the pixel size of the generated unit mesh images. The
// renderer scales them down to one world unit before applying the entity's
// scale.
const meshTextureSize = 64

// MeshAsset pairs a unit mesh image with the collider that matches it.
type MeshAsset struct {
	Shape    component.MeshShape
	Image    *ebiten.Image
	Collider component.Collider
	Color    color.RGBA
}

// Mesh returns a Mesh component for the asset, tinted c.
func (a MeshAsset) Mesh(c color.RGBA) component.Mesh {
	return component.Mesh{Shape: a.Shape, Color: c, Image: a.Image}
}

// MeshAssets holds the shared unit meshes. It is inserted as a world
// resource once loading finishes.
type MeshAssets struct {
	Square MeshAsset
	Circle MeshAsset
}

var (
	DoodadColor = color.RGBA{R: 0x30, G: 0x50, B: 0xe0, A: 0xff}
	PlayerColor = color.RGBA{R: 0xe8, G: 0xa3, B: 0x3d, A: 0xff}
	FloorColor  = color.RGBA{R: 0x5a, G: 0x5a, B: 0x66, A: 0xff}
)

// BuildMeshAssets draws the unit square and circle images.
func BuildMeshAssets() *MeshAssets {
	square := ebiten.NewImage(meshTextureSize, meshTextureSize)
	square.Fill(color.White)

	circle := ebiten.NewImage(meshTextureSize, meshTextureSize)
	r := float32(meshTextureSize) / 2
	vector.DrawFilledCircle(circle, r, r, r, color.White, true)

	m := NewMeshAssets()
	m.Square.Image = square
	m.Circle.Image = circle
	return m
}

// NewMeshAssets returns the mesh templates without images, for headless use.
func NewMeshAssets() *MeshAssets {
	return &MeshAssets{
		Square: MeshAsset{
			Shape:    component.MeshSquare,
			Collider: component.Collider{Shape: component.ColliderCuboid, HalfWidth: 0.5, HalfHeight: 0.5},
			Color:    DoodadColor,
		},
		Circle: MeshAsset{
			Shape:    component.MeshCircle,
			Collider: component.Collider{Shape: component.ColliderBall, Radius: 0.5},
			Color:    PlayerColor,
		},
	}
}

// Get looks up the asset for shape. An empty shape means square.
func (m *MeshAssets) Get(shape component.MeshShape) (MeshAsset, bool) {
	if m == nil {
		return MeshAsset{}, false
	}
	switch shape {
	case component.MeshSquare, "":
		return m.Square, true
	case component.MeshCircle:
		return m.Circle, true
	default:
		return MeshAsset{}, false
	}
}
