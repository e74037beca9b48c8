package component

import "math"

type Vec2 struct {
	X float64
	Y float64
}

func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Actions is the per-frame input resource. PlayerMovement is nil when no
// movement input is held.
type Actions struct {
	PlayerMovement *Vec2
	Combine        bool
}
