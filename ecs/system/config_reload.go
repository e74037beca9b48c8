package system

import (
	"github.com/milk9111/clusterjunk/ecs"
	"github.com/milk9111/clusterjunk/ecs/component"
	"github.com/milk9111/clusterjunk/log"
	"github.com/milk9111/clusterjunk/prefabs"
)

// ChangeSource reports the base names of config files changed since the last
// call. *prefabs.Watcher is one.
type ChangeSource interface {
	Pending() ([]string, error)
}

// ConfigReloadSystem applies edits to game.yaml, player.yaml and the spawn
// script while the game runs. A file that fails to load is logged and the
// running values are kept.
type ConfigReloadSystem struct {
	source  ChangeSource
	physics *PhysicsSystem
	spawner *DoodadSpawnerSystem
	script  string
}

func NewConfigReloadSystem(source ChangeSource, physics *PhysicsSystem, spawner *DoodadSpawnerSystem) *ConfigReloadSystem {
	return &ConfigReloadSystem{source: source, physics: physics, spawner: spawner}
}

// SetScript records the spawn script currently in use, so edits to it are
// picked up.
func (c *ConfigReloadSystem) SetScript(name string) {
	c.script = name
}

func (c *ConfigReloadSystem) Update(w *ecs.World) {
	if c == nil || c.source == nil || w == nil {
		return
	}
	changed, err := c.source.Pending()
	if err != nil {
		log.Warn("config reload: watcher: %v", err)
	}
	for _, name := range changed {
		switch {
		case name == prefabs.GameSpecFile:
			c.reloadGame(w)
		case name == prefabs.PlayerSpecFile:
			c.reloadPlayer(w)
		case c.script != "" && name == c.script:
			c.reloadScript(c.script)
		}
	}
}

func (c *ConfigReloadSystem) reloadGame(w *ecs.World) {
	spec, err := prefabs.LoadGameSpec()
	if err != nil {
		log.Error("config reload: %v", err)
		return
	}

	if c.spawner != nil {
		c.spawner.SetConfig(SpawnerConfigFromSpec(spec.Spawner))
		if spec.Spawner.Script != c.script {
			c.script = spec.Spawner.Script
			c.reloadScript(c.script)
		}
	}
	if timer, ok := ecs.Resource[component.SpawnTimer](w); ok && timer.Duration != spec.Spawner.Period {
		timer.Duration = spec.Spawner.Period
		timer.Reset()
	}
	if c.physics != nil {
		c.physics.SetGravity(spec.Physics.Gravity)
	}
	log.Info("config reload: applied %s", prefabs.GameSpecFile)
}

func (c *ConfigReloadSystem) reloadPlayer(w *ecs.World) {
	spec, err := prefabs.LoadPlayerComponentSpec()
	if err != nil {
		log.Error("config reload: %v", err)
		return
	}
	tuning := PlayerFromSpec(spec)
	ecs.ForEach(w, component.PlayerComponent.Kind(), func(e ecs.Entity, p *component.Player) {
		*p = tuning
	})
	log.Info("config reload: applied %s", prefabs.PlayerSpecFile)
}

func (c *ConfigReloadSystem) reloadScript(name string) {
	if c.spawner == nil {
		return
	}
	if name == "" {
		c.spawner.SetPicker(nil)
		return
	}
	script, err := LoadSpawnScript(name)
	if err != nil {
		log.Error("config reload: %v", err)
		return
	}
	c.spawner.SetPicker(script)
	log.Info("config reload: applied spawn script %s", name)
}

// SpawnerConfigFromSpec converts the spawner section of game.yaml.
func SpawnerConfigFromSpec(spec prefabs.SpawnerSpec) SpawnerConfig {
	return SpawnerConfig{
		X:     spec.X,
		Y:     spec.Y,
		Shape: component.MeshShape(spec.Shape),
		Scale: spec.Scale,
	}
}

// PlayerFromSpec converts the player section of player.yaml.
func PlayerFromSpec(spec prefabs.PlayerComponentSpec) component.Player {
	return component.Player{
		MaxAngularSpeed:     spec.MaxAngularSpeed,
		MaxLinearSpeed:      spec.MaxLinearSpeed,
		AngularAcceleration: spec.AngularAcceleration,
		ClampLinear:         spec.ClampLinear,
		Movement:            component.MovementMode(spec.Movement),
		AngularImpulse:      spec.AngularImpulse,
	}
}

// LoadSpawnScript compiles a spawn script from prefabs/scripts.
func LoadSpawnScript(name string) (*SpawnScript, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, err
	}
	return NewSpawnScript(name, src)
}
