package system

import (
	"fmt"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/clusterjunk/ecs"
	"github.com/milk9111/clusterjunk/ecs/component"
)

// HUDRender prints the Stats counters in the top-left corner.
type HUDRender struct{}

func NewHUDRender() *HUDRender {
	return &HUDRender{}
}

func (h *HUDRender) Draw(w *ecs.World, screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}
	ebitenutil.DebugPrintAt(screen, HUDText(w), 4, 4)
}

// HUDText formats the HUD lines.
func HUDText(w *ecs.World) string {
	var stats component.Stats
	if s, ok := ecs.Resource[component.Stats](w); ok {
		stats = *s
	}
	return fmt.Sprintf("Spawned: %d\nAbsorbed: %d\nParts: %d", stats.Spawned, stats.Absorbed, stats.Parts)
}

// FPSRender prints the frame rate in the bottom-left corner.
type FPSRender struct{}

func NewFPSRender() *FPSRender {
	return &FPSRender{}
}

func (f *FPSRender) Draw(_ *ecs.World, screen *ebiten.Image) {
	if screen == nil {
		return
	}
	ebitenutil.DebugPrintAt(screen, FPSText(ebiten.ActualFPS()), 4, screen.Bounds().Dy()-16)
}

func FPSText(fps float64) string {
	return "FPS: " + strconv.FormatFloat(fps, 'f', 1, 64)
}
