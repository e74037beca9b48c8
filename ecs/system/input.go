package system

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/clusterjunk/ecs"
	"github.com/milk9111/clusterjunk/ecs/component"
)

const stickDeadzone = 0.2

// InputSystem maps keyboard and the first gamepad onto the Actions resource.
type InputSystem struct {
	read func() (component.Vec2, bool, bool)
}

func NewInputSystem() *InputSystem {
	return &InputSystem{read: readDevices}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	actions, ok := ecs.Resource[component.Actions](w)
	if !ok {
		actions = &component.Actions{}
		ecs.SetResource(w, actions)
	}

	move, moving, combine := i.read()
	actions.PlayerMovement = nil
	if moving {
		actions.PlayerMovement = &move
	}
	actions.Combine = combine
}

func readDevices() (component.Vec2, bool, bool) {
	var move component.Vec2
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		move.X -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		move.X += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		move.Y += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		move.Y -= 1
	}
	combine := inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyC)

	if gamepads := ebiten.AppendGamepadIDs(nil); len(gamepads) > 0 {
		id := gamepads[0]
		lx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if math.Hypot(lx, ly) > stickDeadzone {
			// stick y points down
			move = component.Vec2{X: lx, Y: -ly}
		}
		combine = combine || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
	}

	if move != (component.Vec2{}) && move.Len() > 1 {
		l := move.Len()
		move.X /= l
		move.Y /= l
	}
	return move, move != (component.Vec2{}), combine
}
