package component

type RigidBodyType string

const (
	RigidBodyDynamic RigidBodyType = "dynamic"
	RigidBodyFixed   RigidBodyType = "fixed"
)

// RigidBody makes an entity a simulated body. Colliders on the entity and on
// descendants without their own RigidBody are attached to it.
type RigidBody struct {
	Type RigidBodyType `yaml:"type"`
}

var RigidBodyComponent = NewComponent[RigidBody]()

type ColliderShape string

const (
	ColliderCuboid ColliderShape = "cuboid"
	ColliderBall   ColliderShape = "ball"
)

// Collider describes a shape in the entity's local units; the physics system
// multiplies the extents by the entity's global scale.
type Collider struct {
	Shape      ColliderShape `yaml:"shape"`
	HalfWidth  float64       `yaml:"half_width"`
	HalfHeight float64       `yaml:"half_height"`
	Radius     float64       `yaml:"radius"`
	// Density is mass per square pixel. Zero uses the physics default.
	Density float64 `yaml:"density"`
}

var ColliderComponent = NewComponent[Collider]()

// Velocity is read and written by the physics system every step.
type Velocity struct {
	LinearX float64 `yaml:"linear_x"`
	LinearY float64 `yaml:"linear_y"`
	Angular float64 `yaml:"angular"`
}

var VelocityComponent = NewComponent[Velocity]()

type Damping struct {
	Linear  float64 `yaml:"linear"`
	Angular float64 `yaml:"angular"`
}

var DampingComponent = NewComponent[Damping]()

type Restitution struct {
	Coefficient float64 `yaml:"coefficient"`
}

var RestitutionComponent = NewComponent[Restitution]()

type Friction struct {
	Coefficient float64 `yaml:"coefficient"`
}

var FrictionComponent = NewComponent[Friction]()

// ExternalImpulse is applied once at the next physics step and then zeroed.
type ExternalImpulse struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Torque float64 `yaml:"torque"`
}

var ExternalImpulseComponent = NewComponent[ExternalImpulse]()
