package system

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/clusterjunk/ecs/component"
)

// The script defines pick(n) returning {shape: "square"|"circle", scale: x}
// for the nth spawn.
const spawnDispatchScript = `
__result := pick(__n)
`

// DoodadPicker chooses what the nth spawned doodad looks like.
type DoodadPicker interface {
	Pick(n int) (component.MeshShape, float64, error)
}

// SpawnScript runs a tengo pick function.
type SpawnScript struct {
	name     string
	compiled *tengo.Compiled
}

func NewSpawnScript(name string, src []byte) (*SpawnScript, error) {
	script := tengo.NewScript([]byte(string(src) + "\n" + spawnDispatchScript))
	if err := script.Add("__n", 0); err != nil {
		return nil, err
	}
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile spawn script %q: %w", name, err)
	}
	return &SpawnScript{name: name, compiled: compiled}, nil
}

func (s *SpawnScript) Pick(n int) (component.MeshShape, float64, error) {
	if s == nil || s.compiled == nil {
		return "", 0, fmt.Errorf("nil spawn script")
	}
	if err := s.compiled.Set("__n", n); err != nil {
		return "", 0, err
	}
	if err := s.compiled.Run(); err != nil {
		return "", 0, fmt.Errorf("run spawn script %q: %w", s.name, err)
	}

	result := s.compiled.Get("__result").Map()
	if result == nil {
		return "", 0, fmt.Errorf("spawn script %q: pick(%d) did not return a map", s.name, n)
	}

	shape := component.MeshShape(strings.ToLower(strings.TrimSpace(fmt.Sprint(result["shape"]))))
	switch shape {
	case component.MeshSquare, component.MeshCircle:
	default:
		return "", 0, fmt.Errorf("spawn script %q: unknown shape %q", s.name, shape)
	}

	var scale float64
	switch v := result["scale"].(type) {
	case float64:
		scale = v
	case int64:
		scale = float64(v)
	default:
		return "", 0, fmt.Errorf("spawn script %q: scale must be a number, got %T", s.name, v)
	}
	if scale <= 0 {
		return "", 0, fmt.Errorf("spawn script %q: scale must be positive, got %v", s.name, scale)
	}
	return shape, scale, nil
}
