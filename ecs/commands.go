package ecs

import (
	"errors"
	"fmt"

	"github.com/milk9111/clusterjunk/ecs/component"
)

// Commands buffers structural changes so a system never observes its own
// spawns or component removals mid-pass. The scheduler flushes the buffer
// after every system; operations apply in the order they were queued.
type Commands struct {
	ops []command
}

type command func(w *World) error

func (c *Commands) push(cmd command) {
	if c == nil {
		return
	}
	c.ops = append(c.ops, cmd)
}

// Len returns the number of pending operations.
func (c *Commands) Len() int {
	if c == nil {
		return 0
	}
	return len(c.ops)
}

// Spawn queues entity creation. build runs at flush time with the new
// entity; an error destroys it again.
func (c *Commands) Spawn(build func(w *World, e Entity) error) {
	c.push(func(w *World) error {
		e := w.CreateEntity()
		if build == nil {
			return nil
		}
		if err := build(w, e); err != nil {
			w.DestroyEntity(e)
			return fmt.Errorf("spawn: %w", err)
		}
		return nil
	})
}

// Destroy queues entity destruction.
func (c *Commands) Destroy(e Entity) {
	c.push(func(w *World) error {
		w.DestroyEntity(e)
		return nil
	})
}

// SetParent queues a reparent of child under parent.
func (c *Commands) SetParent(child, parent Entity) {
	c.push(func(w *World) error {
		return SetParent(w, child, parent)
	})
}

// Defer queues an arbitrary mutation.
func (c *Commands) Defer(fn func(w *World) error) {
	if fn == nil {
		return
	}
	c.push(fn)
}

// QueueAdd queues adding (or replacing) a component.
func QueueAdd[T any](c *Commands, e Entity, kind component.ComponentKind[T], value *T) {
	c.push(func(w *World) error {
		if !w.IsAlive(e) {
			return nil
		}
		return Add(w, e, kind, value)
	})
}

// QueueRemove queues removing a component. Removing an absent component is
// not an error.
func QueueRemove[T any](c *Commands, e Entity, kind component.ComponentKind[T]) {
	c.push(func(w *World) error {
		Remove(w, e, kind)
		return nil
	})
}

// Flush applies every pending operation to w and resets the buffer.
// Operations queued while flushing run in the same flush.
func (c *Commands) Flush(w *World) error {
	if c == nil || w == nil {
		return nil
	}
	var errs []error
	for i := 0; i < len(c.ops); i++ {
		if err := c.ops[i](w); err != nil {
			errs = append(errs, err)
		}
	}
	clear(c.ops)
	c.ops = c.ops[:0]
	return errors.Join(errs...)
}
