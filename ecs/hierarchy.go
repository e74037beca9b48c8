package ecs

import (
	"fmt"
	"slices"

	"github.com/milk9111/clusterjunk/ecs/component"
)

// Parent points a child entity at the entity whose frame its Transform is
// expressed in.
type Parent struct {
	Entity Entity
}

// Children lists the direct children of an entity.
type Children struct {
	Entities []Entity
}

var (
	ParentComponent   = component.NewComponent[Parent]()
	ChildrenComponent = component.NewComponent[Children]()
)

// SetParent makes child a direct child of parent, detaching it from any
// previous parent. Cycles are rejected.
func SetParent(w *World, child, parent Entity) error {
	if !w.IsAlive(child) || !w.IsAlive(parent) {
		return fmt.Errorf("set parent %s -> %s: %w", child, parent, component.ErrEntityNotAlive)
	}
	if child == parent {
		return fmt.Errorf("set parent %s: entity cannot parent itself", child)
	}
	for cur, ok := parent, true; ok; cur, ok = ParentOf(w, cur) {
		if cur == child {
			return fmt.Errorf("set parent %s -> %s: would create a cycle", child, parent)
		}
	}

	RemoveParent(w, child)

	if err := Add(w, child, ParentComponent.Kind(), &Parent{Entity: parent}); err != nil {
		return err
	}
	children, ok := Get(w, parent, ChildrenComponent.Kind())
	if !ok {
		children = &Children{}
	}
	children.Entities = append(children.Entities, child)
	return Add(w, parent, ChildrenComponent.Kind(), children)
}

// RemoveParent detaches child from its parent, if it has one.
func RemoveParent(w *World, child Entity) {
	p, ok := Get(w, child, ParentComponent.Kind())
	if !ok {
		return
	}
	Remove(w, child, ParentComponent.Kind())
	children, ok := Get(w, p.Entity, ChildrenComponent.Kind())
	if !ok {
		return
	}
	children.Entities = slices.DeleteFunc(children.Entities, func(e Entity) bool { return e == child })
	if len(children.Entities) == 0 {
		Remove(w, p.Entity, ChildrenComponent.Kind())
	}
}

// ParentOf returns e's parent.
func ParentOf(w *World, e Entity) (Entity, bool) {
	p, ok := Get(w, e, ParentComponent.Kind())
	if !ok || !w.IsAlive(p.Entity) {
		return 0, false
	}
	return p.Entity, true
}

// ChildrenOf returns a copy of e's direct children.
func ChildrenOf(w *World, e Entity) []Entity {
	children, ok := Get(w, e, ChildrenComponent.Kind())
	if !ok {
		return nil
	}
	return slices.Clone(children.Entities)
}

func detachHierarchy(w *World, e Entity) {
	RemoveParent(w, e)
	for _, child := range ChildrenOf(w, e) {
		Remove(w, child, ParentComponent.Kind())
	}
	Remove(w, e, ChildrenComponent.Kind())
}
