// Package game wires the ECS systems into an app: states, plugins and the
// order systems run in.
package game

import (
	"fmt"

	"github.com/milk9111/clusterjunk/ecs"
	"github.com/milk9111/clusterjunk/ecs/component"
	"github.com/milk9111/clusterjunk/prefabs"
)

const (
	StateLoading ecs.State = "loading"
	StateMenu    ecs.State = "menu"
	StatePlaying ecs.State = "playing"
)

// Options are the command-line choices that shape the app.
type Options struct {
	Debug    bool
	SkipMenu bool
	// Scheme and Level override the values from game.yaml when set.
	Scheme string
	Level  string
	// Watch enables prefab hot reload from prefabs.Dir.
	Watch bool
	// Headless skips GPU image creation, for tests.
	Headless bool
}

// New builds the app from game.yaml and opts. It starts in StateLoading.
func New(spec *prefabs.GameSpec, opts Options) (*ecs.App, error) {
	if spec == nil {
		loaded, err := prefabs.LoadGameSpec()
		if err != nil {
			return nil, err
		}
		spec = loaded
	}

	schemeName := spec.Scheme
	if opts.Scheme != "" {
		schemeName = opts.Scheme
	}
	scheme, err := component.SchemeByName(schemeName)
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}

	level := spec.Level
	if opts.Level != "" {
		level = opts.Level
	}

	app := ecs.NewApp(StateLoading)
	ecs.SetResource(app.World(), &scheme)
	camera := component.Camera{X: spec.Camera.X, Y: spec.Camera.Y, Zoom: spec.Camera.Zoom}

	// plugin order is system order within a state
	app.AddPlugin(ecs.PluginFunc(func(app *ecs.App) {
		app.Startup(ecs.SystemFunc(func(w *ecs.World) {
			ecs.SetResource(w, &camera)
			ecs.SetResource(w, &component.Actions{})
			ecs.SetResource(w, &component.Stats{})
		}))
	})).
		AddPlugin(&LoadingPlugin{SkipMenu: opts.SkipMenu, Headless: opts.Headless}).
		AddPlugin(&MenuPlugin{Width: spec.Window.Width, Height: spec.Window.Height, Title: spec.Window.Title, Headless: opts.Headless}).
		AddPlugin(&ActionsPlugin{Headless: opts.Headless}).
		AddPlugin(&PlayerPlugin{}).
		AddPlugin(&PhysicsPlugin{Spec: spec.Physics, Debug: opts.Debug}).
		AddPlugin(&LevelPlugin{Name: level}).
		AddPlugin(&DoodadPlugin{Spec: spec.Spawner}).
		AddPlugin(&HUDPlugin{}).
		AddPlugin(&ConfigReloadPlugin{Enabled: opts.Watch, Dir: prefabs.Dir, Script: spec.Spawner.Script})
	return app, nil
}
