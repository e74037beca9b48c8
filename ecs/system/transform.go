package system

import (
	"github.com/milk9111/clusterjunk/ecs"
	"github.com/milk9111/clusterjunk/ecs/component"
	"github.com/milk9111/clusterjunk/log"
)

// TransformSystem recomputes GlobalTransform for every entity with a
// Transform, walking each hierarchy from its root.
type TransformSystem struct{}

func NewTransformSystem() *TransformSystem {
	return &TransformSystem{}
}

func (s *TransformSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	roots := ecs.Without(w, w.Query(component.TransformComponent.Kind()), ecs.ParentComponent.Kind())
	for _, e := range roots {
		t, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		propagate(w, e, *t)
	}
}

func propagate(w *ecs.World, e ecs.Entity, global component.Transform) {
	if g, ok := ecs.Get(w, e, component.GlobalTransformComponent.Kind()); ok {
		g.Transform = global
	} else {
		if err := ecs.Add(w, e, component.GlobalTransformComponent.Kind(), &component.GlobalTransform{Transform: global}); err != nil {
			log.Error("transform: global for %s: %v", e, err)
			return
		}
	}
	for _, child := range ecs.ChildrenOf(w, e) {
		local, ok := ecs.Get(w, child, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		propagate(w, child, global.Compose(*local))
	}
}
