package entity

import (
	"fmt"

	"github.com/milk9111/clusterjunk/ecs"
	"github.com/milk9111/clusterjunk/prefabs"
)

func NewPlayer(w *ecs.World) (ecs.Entity, error) {
	return BuildEntity(w, prefabs.PlayerSpecFile)
}

func NewPlayerAt(w *ecs.World, x, y float64) (ecs.Entity, error) {
	entity, err := BuildEntity(w, prefabs.PlayerSpecFile)
	if err != nil {
		return 0, err
	}
	if err := SetEntityTransform(w, entity, x, y, 0); err != nil {
		ecs.DestroyEntity(w, entity)
		return 0, fmt.Errorf("player: override transform: %w", err)
	}
	return entity, nil
}
