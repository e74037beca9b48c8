package game

import (
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/clusterjunk/assets"
	"github.com/milk9111/clusterjunk/ecs"
)

// MenuPlugin shows the title screen. Play or Enter starts the game.
type MenuPlugin struct {
	Width    int
	Height   int
	Title    string
	Headless bool
}

// MenuScreen is the title screen resource. It only exists in StateMenu.
type MenuScreen struct {
	UI *ebitenui.UI
}

func (p *MenuPlugin) Build(app *ecs.App) {
	app.OnEnter(StateMenu, ecs.SystemFunc(func(w *ecs.World) {
		screen := &MenuScreen{}
		if !p.Headless {
			screen.UI = NewMenuUI(p.Title, p.Width, p.Height, func() {
				ecs.RequestState(w, StatePlaying)
			})
		}
		ecs.SetResource(w, screen)
	}))
	app.OnExit(StateMenu, ecs.SystemFunc(func(w *ecs.World) {
		ecs.RemoveResource[MenuScreen](w)
	}))
	app.OnUpdate(StateMenu, ecs.SystemFunc(func(w *ecs.World) {
		if screen, ok := ecs.Resource[MenuScreen](w); ok && screen.UI != nil {
			screen.UI.Update()
		}
		if !p.Headless && inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			ecs.RequestState(w, StatePlaying)
		}
	}))
	app.AddRender(StateMenu, ecs.RenderFunc(func(w *ecs.World, dst *ebiten.Image) {
		if screen, ok := ecs.Resource[MenuScreen](w); ok && screen.UI != nil {
			screen.UI.Draw(dst)
		}
	}))
}

// NewMenuUI builds a centered panel with the title, a Play button and a key
// hint. Buttons use colored nine-slices, so no theme images are needed.
func NewMenuUI(title string, width, height int, onPlay func()) *ebitenui.UI {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x18, G: 0x18, B: 0x20, A: 220})
	btnIdle := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x40, A: 255})
	btnHover := imageui.NewNineSliceColor(color.NRGBA{R: 0x50, G: 0x50, B: 0x66, A: 255})

	var face ebtext.Face = assets.Face()
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	centered := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})

	titleText := widget.NewText(
		widget.TextOpts.Text(title, &face, white),
		widget.TextOpts.WidgetOpts(centered),
	)

	playBtn := widget.NewButton(
		widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnIdle, Hover: btnHover, Pressed: btnHover}),
		widget.ButtonOpts.Text("Play", &face, &widget.ButtonTextColor{Idle: white}),
		widget.ButtonOpts.WidgetOpts(centered),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if onPlay != nil {
				onPlay()
			}
		}),
	)

	hint := widget.NewText(
		widget.TextOpts.Text("A/D to roll, Space to combine", &face, color.NRGBA{R: 0xaa, G: 0xaa, B: 0xbb, A: 0xff}),
		widget.TextOpts.WidgetOpts(centered),
	)

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(14),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 24, Bottom: 24, Left: 32, Right: 32}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(width/2, height/3),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)
	panel.AddChild(titleText)
	panel.AddChild(playBtn)
	panel.AddChild(hint)

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)

	return &ebitenui.UI{Container: root}
}
