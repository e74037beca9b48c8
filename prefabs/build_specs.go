package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

const (
	PlayerSpecFile = "player.yaml"
	DoodadSpecFile = "doodad.yaml"
)

// EntityBuildSpec is a named bag of component specs keyed by component name.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type TransformComponentSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Z        float64 `yaml:"z"`
	ScaleX   float64 `yaml:"scale_x"`
	ScaleY   float64 `yaml:"scale_y"`
	Scale    float64 `yaml:"scale"`
	Rotation float64 `yaml:"rotation"`
}

type MeshComponentSpec struct {
	Shape string     `yaml:"shape"`
	Color *YAMLColor `yaml:"color"`
}

// ColliderComponentSpec either spells out a collider or, with FromMesh,
// takes the template that matches the entity's mesh.
type ColliderComponentSpec struct {
	FromMesh   bool    `yaml:"from_mesh"`
	Shape      string  `yaml:"shape"`
	HalfWidth  float64 `yaml:"half_width"`
	HalfHeight float64 `yaml:"half_height"`
	Radius     float64 `yaml:"radius"`
	Density    float64 `yaml:"density"`
}

// CollisionGroupsComponentSpec names a scheme entry (player, doodad, level,
// interaction) or gives explicit bits.
type CollisionGroupsComponentSpec struct {
	Preset      string `yaml:"preset"`
	Memberships uint32 `yaml:"memberships"`
	Filters     uint32 `yaml:"filters"`
}

// FrictionComponentSpec leaves Coefficient unset to use the scheme's player
// friction.
type FrictionComponentSpec struct {
	Coefficient *float64 `yaml:"coefficient"`
}

type PlayerComponentSpec struct {
	MaxAngularSpeed     float64 `yaml:"max_angular_speed"`
	MaxLinearSpeed      float64 `yaml:"max_linear_speed"`
	AngularAcceleration float64 `yaml:"angular_acceleration"`
	ClampLinear         bool    `yaml:"clamp_linear"`
	// Movement is "spin" (default) or "impulse".
	Movement       string  `yaml:"movement"`
	AngularImpulse float64 `yaml:"angular_impulse"`
}

func (s PlayerComponentSpec) Validate() error {
	switch s.Movement {
	case "", "spin", "impulse":
	default:
		return fmt.Errorf("unknown movement %q", s.Movement)
	}
	if s.AngularImpulse < 0 {
		return fmt.Errorf("angular_impulse must not be negative")
	}
	return nil
}

// LoadPlayerComponentSpec reads the controller tuning from the player prefab.
func LoadPlayerComponentSpec() (PlayerComponentSpec, error) {
	spec, err := LoadEntityBuildSpec(PlayerSpecFile)
	if err != nil {
		return PlayerComponentSpec{}, err
	}
	raw, ok := spec.Components["player"]
	if !ok {
		return PlayerComponentSpec{}, fmt.Errorf("prefabs: %s has no player component", PlayerSpecFile)
	}
	p, err := DecodeComponentSpec[PlayerComponentSpec](raw)
	if err != nil {
		return PlayerComponentSpec{}, fmt.Errorf("prefabs: decode player: %w", err)
	}
	if err := p.Validate(); err != nil {
		return PlayerComponentSpec{}, fmt.Errorf("prefabs: %s: player: %w", PlayerSpecFile, err)
	}
	return p, nil
}
