package ecs

import "github.com/hajimehoshi/ebiten/v2"

// RenderSystem draws ECS entities each frame.
type RenderSystem interface {
	Draw(w *World, screen *ebiten.Image)
}

// RenderFunc adapts a plain function to RenderSystem.
type RenderFunc func(w *World, screen *ebiten.Image)

func (f RenderFunc) Draw(w *World, screen *ebiten.Image) {
	if f != nil {
		f(w, screen)
	}
}
