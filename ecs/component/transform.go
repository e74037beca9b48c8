package component

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Transform is an entity's pose relative to its parent, or to the world when
// it has none. World units are pixels with y pointing up. A zero scale is
// treated as 1.
type Transform struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Z        float64 `yaml:"z"`
	Rotation float64 `yaml:"rotation"`
	ScaleX   float64 `yaml:"scale_x"`
	ScaleY   float64 `yaml:"scale_y"`
}

var TransformComponent = NewComponent[Transform]()

// GlobalTransform is the world-space pose computed from the Transform chain.
type GlobalTransform struct {
	Transform
}

var GlobalTransformComponent = NewComponent[GlobalTransform]()

// NewTransform returns an unscaled, unrotated transform at (x, y).
func NewTransform(x, y float64) Transform {
	return Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1}
}

// Scale returns the effective scale factors.
func (t Transform) Scale() (float64, float64) {
	sx, sy := t.ScaleX, t.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	return sx, sy
}

// GeoM returns the affine matrix mapping local points into the parent frame:
// scale, then rotate, then translate.
func (t Transform) GeoM() ebiten.GeoM {
	sx, sy := t.Scale()
	var g ebiten.GeoM
	g.Scale(sx, sy)
	g.Rotate(t.Rotation)
	g.Translate(t.X, t.Y)
	return g
}

// Apply maps a local point into the parent frame.
func (t Transform) Apply(x, y float64) (float64, float64) {
	g := t.GeoM()
	return g.Apply(x, y)
}

// Compose returns child expressed in t's parent frame.
func (t Transform) Compose(child Transform) Transform {
	g := child.GeoM()
	g.Concat(t.GeoM())
	out := TransformFromGeoM(g)
	out.Z = t.Z + child.Z
	return out
}

// RelativeTo returns t expressed in parent's local frame, the inverse of
// Compose: parent.Compose(t.RelativeTo(parent)) == t.
func (t Transform) RelativeTo(parent Transform) Transform {
	inv := parent.GeoM()
	if !inv.IsInvertible() {
		return t
	}
	inv.Invert()
	g := t.GeoM()
	g.Concat(inv)
	out := TransformFromGeoM(g)
	out.Z = t.Z - parent.Z
	return out
}

// TransformFromGeoM decomposes a scale-rotate-translate matrix. Shear is
// not representable and is folded into ScaleY.
func TransformFromGeoM(g ebiten.GeoM) Transform {
	a, b := g.Element(0, 0), g.Element(0, 1)
	c, d := g.Element(1, 0), g.Element(1, 1)
	sx := math.Hypot(a, c)
	if sx == 0 {
		return Transform{X: g.Element(0, 2), Y: g.Element(1, 2), ScaleX: 0, ScaleY: 0}
	}
	return Transform{
		X:        g.Element(0, 2),
		Y:        g.Element(1, 2),
		Rotation: math.Atan2(c, a),
		ScaleX:   sx,
		ScaleY:   (a*d - b*c) / sx,
	}
}
