package main

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/clusterjunk/ecs"
)

var background = color.RGBA{R: 0x20, G: 0x22, B: 0x2a, A: 0xff}

// Game runs the app at ebiten's fixed tick rate.
type Game struct {
	app    *ecs.App
	width  int
	height int
}

func NewGame(app *ecs.App, width, height int) *Game {
	return &Game{app: app, width: width, height: height}
}

func (g *Game) Update() error {
	g.app.Update(time.Second / time.Duration(ebiten.TPS()))
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	g.app.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}
