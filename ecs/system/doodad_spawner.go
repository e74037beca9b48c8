package system

import (
	"github.com/milk9111/clusterjunk/ecs"
	"github.com/milk9111/clusterjunk/ecs/component"
	"github.com/milk9111/clusterjunk/log"
)

// DoodadRequest describes one doodad to spawn.
type DoodadRequest struct {
	Shape component.MeshShape
	Scale float64
	X     float64
	Y     float64
}

// DoodadSpawnFunc builds a doodad on a freshly created entity.
type DoodadSpawnFunc func(w *ecs.World, e ecs.Entity, req DoodadRequest) error

// SpawnerConfig places and sizes spawned doodads.
type SpawnerConfig struct {
	X     float64
	Y     float64
	Shape component.MeshShape
	Scale float64
}

// DoodadSpawnerSystem drops a doodad at the spawn point every time the
// SpawnTimer resource finishes, unless a free doodad already sits there.
type DoodadSpawnerSystem struct {
	physics *PhysicsSystem
	spawn   DoodadSpawnFunc
	cfg     SpawnerConfig
	picker  DoodadPicker
	count   int
}

func NewDoodadSpawnerSystem(physics *PhysicsSystem, cfg SpawnerConfig, spawn DoodadSpawnFunc) *DoodadSpawnerSystem {
	return &DoodadSpawnerSystem{physics: physics, cfg: cfg, spawn: spawn}
}

func (s *DoodadSpawnerSystem) SetConfig(cfg SpawnerConfig) {
	s.cfg = cfg
}

func (s *DoodadSpawnerSystem) Config() SpawnerConfig {
	return s.cfg
}

// SetPicker installs a picker for shape and scale; nil restores the default.
func (s *DoodadSpawnerSystem) SetPicker(p DoodadPicker) {
	s.picker = p
}

func (s *DoodadSpawnerSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	timer, ok := ecs.Resource[component.SpawnTimer](w)
	if !ok {
		return
	}
	if t, ok := ecs.Resource[ecs.Time](w); ok {
		timer.Tick(t.Delta)
	}
	if !timer.JustFinished() {
		return
	}
	s.TrySpawn(w)
}

// TrySpawn queues a doodad at the spawn point and reports whether it did.
func (s *DoodadSpawnerSystem) TrySpawn(w *ecs.World) bool {
	req := s.next()
	scheme := schemeOf(w)

	occupied := false
	s.physics.IntersectionsWithShape(ShapeQuery{
		Collider: colliderFor(req.Shape),
		Pose:     component.Transform{X: req.X, Y: req.Y, ScaleX: req.Scale, ScaleY: req.Scale},
		Groups:   scheme.Doodad,
	}, func(hit ecs.Entity) bool {
		if ecs.Has(w, hit, component.DoodadTagComponent.Kind()) {
			occupied = true
			return false
		}
		return true
	})
	if occupied {
		log.Debug("spawner: spawn point (%.0f, %.0f) occupied, skipping", req.X, req.Y)
		return false
	}

	spawn := s.spawn
	w.Commands().Spawn(func(w *ecs.World, e ecs.Entity) error {
		if spawn != nil {
			if err := spawn(w, e, req); err != nil {
				return err
			}
		}
		w.Events().Push(ecs.Event{Type: ecs.EventDoodadSpawned, Entity: e})
		log.Debug("spawner: spawned %s doodad %s", req.Shape, e)
		return nil
	})
	s.count++
	return true
}

func (s *DoodadSpawnerSystem) next() DoodadRequest {
	req := DoodadRequest{Shape: s.cfg.Shape, Scale: s.cfg.Scale, X: s.cfg.X, Y: s.cfg.Y}
	if req.Shape == "" {
		req.Shape = component.MeshSquare
	}
	if s.picker != nil {
		shape, scale, err := s.picker.Pick(s.count)
		if err != nil {
			log.Error("spawner: %v", err)
		} else {
			req.Shape, req.Scale = shape, scale
		}
	}
	return req
}

// colliderFor returns the unit collider matching a mesh shape.
func colliderFor(shape component.MeshShape) component.Collider {
	if shape == component.MeshCircle {
		return component.Collider{Shape: component.ColliderBall, Radius: 0.5}
	}
	return component.Collider{Shape: component.ColliderCuboid, HalfWidth: 0.5, HalfHeight: 0.5}
}
