package levels

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
)

//go:embed *.json
var LevelsFS embed.FS

// Level is a set of static blocks. Coordinates are world pixels, y up.
type Level struct {
	Name   string  `json:"name"`
	Blocks []Block `json:"blocks"`
}

// Block is one piece of static geometry: a unit mesh scaled into place.
type Block struct {
	Type     string  `json:"type"`
	Shape    string  `json:"shape"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	ScaleX   float64 `json:"scale_x"`
	ScaleY   float64 `json:"scale_y"`
	Rotation float64 `json:"rotation,omitempty"`
	Color    string  `json:"color,omitempty"`
	// Friction and Restitution set the block's contact material. Unset
	// friction falls back to the physics default; unset restitution is 0.
	Friction    *float64 `json:"friction,omitempty"`
	Restitution *float64 `json:"restitution,omitempty"`
}

const BlockFloor = "floor"

// LoadLevelFromFS reads an embedded level by name, with or without the
// .json extension.
func LoadLevelFromFS(name string) (*Level, error) {
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, fmt.Errorf("level %s: %w", name, err)
	}
	return &lvl, nil
}

func (l *Level) Validate() error {
	for i, b := range l.Blocks {
		switch b.Shape {
		case "", "square", "circle":
		default:
			return fmt.Errorf("block %d: unknown shape %q", i, b.Shape)
		}
		if b.ScaleX <= 0 || b.ScaleY <= 0 {
			return fmt.Errorf("block %d: scale must be positive", i)
		}
		if b.Friction != nil && *b.Friction < 0 {
			return fmt.Errorf("block %d: friction must not be negative", i)
		}
		if b.Restitution != nil && *b.Restitution < 0 {
			return fmt.Errorf("block %d: restitution must not be negative", i)
		}
	}
	return nil
}
