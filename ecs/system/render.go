package system

import (
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/clusterjunk/ecs"
	"github.com/milk9111/clusterjunk/ecs/component"
)

type RenderSystem struct{}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{}
}

// Draw renders every mesh at its global transform, lowest Z first.
func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}

	cam := component.Camera{Zoom: 1}
	if c, ok := ecs.Resource[component.Camera](w); ok {
		cam = *c
	}
	zoom := cam.ZoomOrDefault()
	bounds := screen.Bounds()
	screenW, screenH := float64(bounds.Dx()), float64(bounds.Dy())

	entities := w.Query(component.GlobalTransformComponent.Kind(), component.MeshComponent.Kind())
	sort.SliceStable(entities, func(i, j int) bool {
		zi, zj := 0.0, 0.0
		if t, ok := ecs.Get(w, entities[i], component.GlobalTransformComponent.Kind()); ok {
			zi = t.Z
		}
		if t, ok := ecs.Get(w, entities[j], component.GlobalTransformComponent.Kind()); ok {
			zj = t.Z
		}
		if zi != zj {
			return zi < zj
		}
		return uint64(entities[i]) < uint64(entities[j])
	})

	for _, e := range entities {
		t, _ := ecs.Get(w, e, component.GlobalTransformComponent.Kind())
		m, _ := ecs.Get(w, e, component.MeshComponent.Kind())
		if m.Image == nil {
			continue
		}

		size := m.Image.Bounds()
		iw, ih := float64(size.Dx()), float64(size.Dy())
		sx, sy := t.Scale()

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-iw/2, -ih/2)
		op.GeoM.Scale(sx/iw*zoom, sy/ih*zoom)
		// screen y points down, so world rotations flip
		op.GeoM.Rotate(-t.Rotation)
		x, y := cam.ToScreen(t.X, t.Y, screenW, screenH)
		op.GeoM.Translate(x, y)
		op.ColorScale.ScaleWithColor(m.Color)
		op.Filter = ebiten.FilterLinear

		screen.DrawImage(m.Image, op)
	}
}
