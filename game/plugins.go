package game

import (
	"os"
	"path/filepath"

	"github.com/milk9111/clusterjunk/assets"
	"github.com/milk9111/clusterjunk/ecs"
	"github.com/milk9111/clusterjunk/ecs/component"
	"github.com/milk9111/clusterjunk/ecs/entity"
	"github.com/milk9111/clusterjunk/ecs/system"
	"github.com/milk9111/clusterjunk/levels"
	"github.com/milk9111/clusterjunk/log"
	"github.com/milk9111/clusterjunk/prefabs"
)

// LoadingPlugin builds the shared meshes, then moves on to the menu.
type LoadingPlugin struct {
	SkipMenu bool
	// Headless skips image creation, for tests.
	Headless bool
}

func (p *LoadingPlugin) Build(app *ecs.App) {
	app.OnEnter(StateLoading, ecs.SystemFunc(func(w *ecs.World) {
		meshes := assets.NewMeshAssets()
		if !p.Headless {
			meshes = assets.BuildMeshAssets()
		}
		ecs.SetResource(w, meshes)
		log.Info("loading: meshes ready")

		next := StateMenu
		if p.SkipMenu {
			next = StatePlaying
		}
		ecs.RequestState(w, next)
	}))
}

// ActionsPlugin reads input every frame, in every state. Headless apps leave
// the Actions resource to the caller.
type ActionsPlugin struct {
	Headless bool
}

func (p *ActionsPlugin) Build(app *ecs.App) {
	if p.Headless {
		return
	}
	app.Always(system.NewInputSystem())
}

// PlayerPlugin spawns the player ball and drives it from input.
type PlayerPlugin struct{}

func (p *PlayerPlugin) Build(app *ecs.App) {
	app.OnEnter(StatePlaying, ecs.SystemFunc(func(w *ecs.World) {
		e, err := entity.NewPlayer(w)
		if err != nil {
			log.Error("player: %v", err)
			return
		}
		log.Debug("player: spawned %s", e)
	}))
	app.OnUpdate(StatePlaying, system.NewPlayerControllerSystem())
}

// PhysicsPlugin steps the simulation and propagates transforms. The physics
// system is also stored as a resource for the plugins that query it.
type PhysicsPlugin struct {
	Spec  prefabs.PhysicsSpec
	Debug bool
}

func (p *PhysicsPlugin) Build(app *ecs.App) {
	physics := system.NewPhysicsSystem(system.PhysicsConfig{
		Gravity:         p.Spec.Gravity,
		PixelsPerMeter:  p.Spec.PixelsPerMeter,
		Iterations:      p.Spec.Iterations,
		MaxStep:         p.Spec.MaxStep,
		DefaultDensity:  p.Spec.DefaultDensity,
		DefaultFriction: p.Spec.DefaultFriction,
	})
	ecs.SetResource(app.World(), physics)

	app.OnUpdate(StatePlaying, physics, system.NewTransformSystem())
	app.AddRender(StatePlaying, system.NewRenderSystem())
	app.AddRender(StatePlaying, &system.PhysicsDebugRender{Physics: physics, Enabled: p.Debug})
}

// LevelPlugin loads the static level geometry on entering play.
type LevelPlugin struct {
	Name string
}

func (p *LevelPlugin) Build(app *ecs.App) {
	app.OnEnter(StatePlaying, ecs.SystemFunc(func(w *ecs.World) {
		lvl, err := levels.LoadLevelFromFS(p.Name)
		if err != nil {
			log.Error("level: %v", err)
			return
		}
		blocks, err := entity.LoadLevelToWorld(w, lvl)
		if err != nil {
			log.Error("level: %v", err)
			return
		}
		log.Info("level: loaded %s with %d blocks", lvl.Name, len(blocks))
	}))
}

// DoodadPlugin drops doodads on a timer and lets the player absorb them.
type DoodadPlugin struct {
	Spec prefabs.SpawnerSpec
}

func (p *DoodadPlugin) Build(app *ecs.App) {
	w := app.World()
	physics := ecs.MustResource[system.PhysicsSystem](w)

	spawner := system.NewDoodadSpawnerSystem(physics, system.SpawnerConfigFromSpec(p.Spec), entity.BuildDoodad)
	if p.Spec.Script != "" {
		script, err := system.LoadSpawnScript(p.Spec.Script)
		if err != nil {
			log.Error("doodads: %v", err)
		} else {
			spawner.SetPicker(script)
		}
	}
	ecs.SetResource(w, spawner)
	ecs.SetResource(w, &component.SpawnTimer{Timer: component.NewTimer(p.Spec.Period, true)})

	app.OnEnter(StatePlaying, ecs.SystemFunc(func(w *ecs.World) {
		if timer, ok := ecs.Resource[component.SpawnTimer](w); ok {
			timer.Reset()
		}
	}))
	app.OnUpdate(StatePlaying, spawner, system.NewCombineSystem(physics))
}

// HUDPlugin counts spawns and absorbs and prints them over the game. The
// frame rate shows in every state.
type HUDPlugin struct{}

func (p *HUDPlugin) Build(app *ecs.App) {
	app.OnUpdate(StatePlaying, system.NewStatsSystem())
	app.AddRender(StatePlaying, system.NewHUDRender())
	app.AddRenderAlways(system.NewFPSRender())
}

// ConfigReloadPlugin watches the prefab directory and applies edits live.
type ConfigReloadPlugin struct {
	Enabled bool
	Dir     string
	// Script is the spawn script in use at startup.
	Script string
	// Source replaces the file watcher, for tests.
	Source system.ChangeSource
}

func (p *ConfigReloadPlugin) Build(app *ecs.App) {
	if !p.Enabled {
		return
	}
	source := p.Source
	if source == nil {
		dirs := []string{p.Dir}
		if scripts := filepath.Join(p.Dir, "scripts"); isDir(scripts) {
			dirs = append(dirs, scripts)
		}
		watcher, err := prefabs.NewWatcher(dirs...)
		if err != nil {
			log.Warn("config reload: cannot watch %s: %v", p.Dir, err)
			return
		}
		source = watcher
		log.Info("config reload: watching %s", p.Dir)
	}

	w := app.World()
	reload := system.NewConfigReloadSystem(source, ecs.MustResource[system.PhysicsSystem](w), ecs.MustResource[system.DoodadSpawnerSystem](w))
	reload.SetScript(p.Script)
	app.OnUpdate(StatePlaying, reload)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
