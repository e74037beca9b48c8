package component

// Player holds the rolling controller tuning. Speeds are in radians per
// second (angular) and pixels per second (linear).
type Player struct {
	MaxAngularSpeed     float64 `yaml:"max_angular_speed"`
	MaxLinearSpeed      float64 `yaml:"max_linear_speed"`
	AngularAcceleration float64 `yaml:"angular_acceleration"`
	// ClampLinear also caps the horizontal linear speed.
	ClampLinear bool         `yaml:"clamp_linear"`
	Movement    MovementMode `yaml:"movement"`
	// AngularImpulse is the torque impulse added per player part each tick
	// in MovementImpulse mode.
	AngularImpulse float64 `yaml:"angular_impulse"`
}

// MovementMode selects how input turns into spin.
type MovementMode string

const (
	// MovementSpin accelerates the angular velocity directly. It is the
	// default for an empty mode.
	MovementSpin MovementMode = "spin"
	// MovementImpulse applies a torque impulse scaled by the number of
	// player parts, so an absorbed cluster needs more push.
	MovementImpulse MovementMode = "impulse"
)

func (m MovementMode) Valid() bool {
	switch m {
	case "", MovementSpin, MovementImpulse:
		return true
	}
	return false
}

var PlayerComponent = NewComponent[Player]()
