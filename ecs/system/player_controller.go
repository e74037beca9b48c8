package system

import (
	"math"

	"github.com/milk9111/clusterjunk/ecs"
	"github.com/milk9111/clusterjunk/ecs/component"
)

// PlayerControllerSystem spins the player ball from horizontal input. The
// ball rolls because of floor friction; input never sets linear velocity.
type PlayerControllerSystem struct{}

func NewPlayerControllerSystem() *PlayerControllerSystem {
	return &PlayerControllerSystem{}
}

func (p *PlayerControllerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	actions, ok := ecs.Resource[component.Actions](w)
	if !ok || actions.PlayerMovement == nil {
		return
	}
	dt := 0.0
	if t, ok := ecs.Resource[ecs.Time](w); ok {
		dt = t.DeltaSeconds()
	}

	move := *actions.PlayerMovement
	parts := len(w.Query(component.PlayerTagComponent.Kind()))
	ecs.ForEach2(w, component.PlayerComponent.Kind(), component.VelocityComponent.Kind(), func(e ecs.Entity, player *component.Player, vel *component.Velocity) {
		if player.Movement != component.MovementImpulse {
			ApplyMovement(player, vel, move, dt)
			return
		}
		imp, ok := ecs.Get(w, e, component.ExternalImpulseComponent.Kind())
		if !ok {
			return
		}
		ApplyImpulseMovement(player, vel, imp, move, parts)
	})
}

// ApplyMovement accelerates the spin against the input direction (positive
// x rolls right, which is a clockwise, negative, spin) and clamps speeds.
func ApplyMovement(player *component.Player, vel *component.Velocity, move component.Vec2, dt float64) {
	vel.Angular -= move.X * player.AngularAcceleration * dt
	vel.Angular = clamp(vel.Angular, -player.MaxAngularSpeed, player.MaxAngularSpeed)
	if player.ClampLinear {
		vel.LinearX = clamp(vel.LinearX, -player.MaxLinearSpeed, player.MaxLinearSpeed)
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// ApplyImpulseMovement queues a torque impulse for the next physics step,
// scaled by the number of parts making up the player, and clamps the
// current speeds.
func ApplyImpulseMovement(player *component.Player, vel *component.Velocity, imp *component.ExternalImpulse, move component.Vec2, parts int) {
	if parts < 1 {
		parts = 1
	}
	imp.Torque = -move.X * player.AngularImpulse * float64(parts)
	vel.Angular = clamp(vel.Angular, -player.MaxAngularSpeed, player.MaxAngularSpeed)
	if player.ClampLinear {
		vel.LinearX = clamp(vel.LinearX, -player.MaxLinearSpeed, player.MaxLinearSpeed)
	}
}
