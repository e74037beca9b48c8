package system

import (
	"github.com/milk9111/clusterjunk/ecs"
	"github.com/milk9111/clusterjunk/ecs/component"
)

// StatsSystem tallies spawn and absorb events into the Stats resource.
type StatsSystem struct{}

func NewStatsSystem() *StatsSystem {
	return &StatsSystem{}
}

func (s *StatsSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	stats, ok := ecs.Resource[component.Stats](w)
	if !ok {
		stats = &component.Stats{}
		ecs.SetResource(w, stats)
	}
	for _, evt := range w.Events().Peek() {
		switch evt.Type {
		case ecs.EventDoodadSpawned:
			stats.Spawned++
		case ecs.EventDoodadAbsorbed:
			stats.Absorbed++
		}
	}
	stats.Parts = len(w.Query(component.PlayerTagComponent.Kind()))
}
