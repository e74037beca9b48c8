package component

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

type MeshShape string

const (
	MeshSquare MeshShape = "square"
	MeshCircle MeshShape = "circle"
)

// Mesh is a unit-sized shape image drawn at the entity's global transform and
// tinted with Color.
type Mesh struct {
	Shape MeshShape
	Color color.RGBA
	Image *ebiten.Image
}

var MeshComponent = NewComponent[Mesh]()
