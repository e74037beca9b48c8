package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

const GameSpecFile = "game.yaml"

// GameSpec is the top-level game configuration.
type GameSpec struct {
	Window  WindowSpec  `yaml:"window"`
	Physics PhysicsSpec `yaml:"physics"`
	Spawner SpawnerSpec `yaml:"spawner"`
	Camera  CameraSpec  `yaml:"camera"`
	Level   string      `yaml:"level"`
	Scheme  string      `yaml:"scheme"`
}

type WindowSpec struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type PhysicsSpec struct {
	Gravity        float64       `yaml:"gravity"`
	PixelsPerMeter float64       `yaml:"pixels_per_meter"`
	Iterations     int           `yaml:"iterations"`
	MaxStep        time.Duration `yaml:"max_step"`
	DefaultDensity float64       `yaml:"default_density"`
	// DefaultFriction applies to colliders that set no friction.
	DefaultFriction float64 `yaml:"default_friction"`
}

type SpawnerSpec struct {
	Period time.Duration `yaml:"period"`
	X      float64       `yaml:"x"`
	Y      float64       `yaml:"y"`
	Shape  string        `yaml:"shape"`
	Scale  float64       `yaml:"scale"`
	// Script optionally names a tengo script under scripts/ defining pick(n).
	Script string `yaml:"script"`
}

type CameraSpec struct {
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	Zoom float64 `yaml:"zoom"`
}

// LoadGameSpec loads game.yaml and fills unset values with defaults.
func LoadGameSpec() (*GameSpec, error) {
	spec, err := LoadSpec[GameSpec](GameSpecFile)
	if err != nil {
		return nil, err
	}
	spec.applyDefaults()
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", GameSpecFile, err)
	}
	return &spec, nil
}

func (s *GameSpec) applyDefaults() {
	if s.Window.Width <= 0 {
		s.Window.Width = 800
	}
	if s.Window.Height <= 0 {
		s.Window.Height = 600
	}
	if s.Window.Title == "" {
		s.Window.Title = "Clusterjunk!"
	}
	if s.Spawner.Period <= 0 {
		s.Spawner.Period = 2 * time.Second
	}
	if s.Spawner.Shape == "" {
		s.Spawner.Shape = "square"
	}
	if s.Spawner.Scale <= 0 {
		s.Spawner.Scale = 40
	}
	if s.Camera.Zoom <= 0 {
		s.Camera.Zoom = 1
	}
	if s.Level == "" {
		s.Level = "arena"
	}
}

func (s *GameSpec) Validate() error {
	switch s.Spawner.Shape {
	case "square", "circle":
	default:
		return fmt.Errorf("spawner: unknown shape %q", s.Spawner.Shape)
	}
	if s.Physics.PixelsPerMeter < 0 {
		return fmt.Errorf("physics: pixels_per_meter must not be negative")
	}
	return nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}
	rgba, err := ParseHexColor(value.Value)
	if err != nil {
		return err
	}
	c.Color = rgba
	return nil
}

// RGBA8 returns the color as premultiplied RGBA, white when unset.
func (c YAMLColor) RGBA8() color.RGBA {
	if c.Color == nil {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return color.RGBAModel.Convert(c.Color).(color.RGBA)
}

// ParseHexColor parses #rrggbb or #rrggbbaa.
func ParseHexColor(v string) (color.RGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(v), "#")

	if len(s) != 6 && len(s) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color format: %s", v)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return color.RGBA{}, err
	}
	g, err := parse(2)
	if err != nil {
		return color.RGBA{}, err
	}
	b, err := parse(4)
	if err != nil {
		return color.RGBA{}, err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return color.RGBA{}, err
		}
	}

	return color.RGBAModel.Convert(color.NRGBA{R: r, G: g, B: b, A: a}).(color.RGBA), nil
}
