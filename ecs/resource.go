package ecs

import (
	"errors"
	"reflect"
)

var ErrNoResource = errors.New("ecs: resource not present")

// SetResource stores a world-global value keyed by its type. Resources hold
// state that no single entity owns: timers, input actions, asset tables.
func SetResource[T any](w *World, value *T) {
	if w == nil || value == nil {
		return
	}
	if w.resources == nil {
		w.resources = make(map[reflect.Type]any)
	}
	w.resources[reflect.TypeFor[T]()] = value
}

// Resource returns the stored *T, if any.
func Resource[T any](w *World) (*T, bool) {
	if w == nil {
		return nil, false
	}
	v, ok := w.resources[reflect.TypeFor[T]()]
	if !ok {
		return nil, false
	}
	r, ok := v.(*T)
	return r, ok
}

// MustResource is Resource for resources whose absence is a wiring bug.
func MustResource[T any](w *World) *T {
	r, ok := Resource[T](w)
	if !ok {
		panic(ErrNoResource.Error() + ": " + reflect.TypeFor[T]().String())
	}
	return r
}

// RemoveResource deletes the *T resource.
func RemoveResource[T any](w *World) {
	if w == nil {
		return
	}
	delete(w.resources, reflect.TypeFor[T]())
}
