package ecs

import (
	"fmt"

	"github.com/milk9111/clusterjunk/ecs/component"
)

// Query returns the live entities that carry every kind, in the dense order
// of the smallest store.
func (w *World) Query(kinds ...component.AnyKind) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	stores := make([]*SparseSet, 0, len(kinds))
	for _, k := range kinds {
		if k == nil {
			return nil
		}
		s := w.store(k.ID(), false)
		if s.Len() == 0 {
			return nil
		}
		stores = append(stores, s)
	}

	// iterate the smallest set
	smallest := 0
	for i, s := range stores {
		if s.Len() < stores[smallest].Len() {
			smallest = i
		}
	}

	var out []Entity
	for _, id := range stores[smallest].ids() {
		matched := true
		for i, s := range stores {
			if i != smallest && !s.Has(id) {
				matched = false
				break
			}
		}
		if !matched {
			continue
		}
		if e, ok := w.entities.entity(id); ok {
			out = append(out, e)
		}
	}
	return out
}

// First returns any entity carrying every kind.
func (w *World) First(kinds ...component.AnyKind) (Entity, bool) {
	ents := w.Query(kinds...)
	if len(ents) == 0 {
		return 0, false
	}
	return ents[0], true
}

// Single returns the one entity carrying every kind. Zero or several matches
// are reported as an error.
func (w *World) Single(kinds ...component.AnyKind) (Entity, error) {
	ents := w.Query(kinds...)
	if len(ents) != 1 {
		return 0, fmt.Errorf("ecs: single query matched %d entities", len(ents))
	}
	return ents[0], nil
}

// Without filters ents down to those carrying none of kinds.
func Without(w *World, ents []Entity, kinds ...component.AnyKind) []Entity {
	out := ents[:0:0]
	for _, e := range ents {
		excluded := false
		for _, k := range kinds {
			if w.HasComponent(e, k) {
				excluded = true
				break
			}
		}
		if !excluded {
			out = append(out, e)
		}
	}
	return out
}
