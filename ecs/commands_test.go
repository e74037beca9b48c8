package ecs

import (
	"errors"
	"testing"

	"github.com/milk9111/clusterjunk/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsDeferUntilFlush(t *testing.T) {
	w := NewWorld()
	kind := component.NewComponentKind[int]()

	e := CreateEntity(w)
	QueueAdd(w.Commands(), e, kind, intPtr(7))
	var spawned Entity
	w.Commands().Spawn(func(w *World, e Entity) error {
		spawned = e
		return Add(w, e, kind, intPtr(9))
	})

	assert.False(t, Has(w, e, kind), "queued add must not apply before flush")
	assert.Equal(t, 2, w.Commands().Len())

	require.NoError(t, w.Commands().Flush(w))
	assert.Equal(t, 0, w.Commands().Len())

	v, ok := Get(w, e, kind)
	require.True(t, ok)
	assert.Equal(t, 7, *v)
	v, ok = Get(w, spawned, kind)
	require.True(t, ok)
	assert.Equal(t, 9, *v)
}

func TestCommandsApplyInQueueOrder(t *testing.T) {
	w := NewWorld()
	kind := component.NewComponentKind[int]()
	e := CreateEntity(w)

	cmds := w.Commands()
	QueueAdd(cmds, e, kind, intPtr(1))
	QueueRemove(cmds, e, kind)
	QueueAdd(cmds, e, kind, intPtr(3))
	require.NoError(t, cmds.Flush(w))

	v, ok := Get(w, e, kind)
	require.True(t, ok)
	assert.Equal(t, 3, *v)
}

func TestCommandsSpawnErrorDestroysEntity(t *testing.T) {
	w := NewWorld()
	boom := errors.New("boom")
	w.Commands().Spawn(func(w *World, e Entity) error { return boom })

	err := w.Commands().Flush(w)
	require.ErrorIs(t, err, boom)
	assert.Empty(t, Entities(w))
}

func TestCommandsOpsQueuedDuringFlushRunSameFlush(t *testing.T) {
	w := NewWorld()
	kind := component.NewComponentKind[int]()
	e := CreateEntity(w)

	w.Commands().Defer(func(w *World) error {
		QueueAdd(w.Commands(), e, kind, intPtr(4))
		return nil
	})
	require.NoError(t, w.Commands().Flush(w))
	assert.True(t, Has(w, e, kind))
}

func TestCommandsQueueAddSkipsDeadEntity(t *testing.T) {
	w := NewWorld()
	kind := component.NewComponentKind[int]()
	e := CreateEntity(w)

	w.Commands().Destroy(e)
	QueueAdd(w.Commands(), e, kind, intPtr(1))
	require.NoError(t, w.Commands().Flush(w))
	assert.False(t, IsAlive(w, e))
}

func TestSchedulerFlushesBetweenSystems(t *testing.T) {
	w := NewWorld()
	kind := component.NewComponentKind[int]()
	e := CreateEntity(w)

	var sawInSame, sawInNext bool
	s := NewScheduler(
		SystemFunc(func(w *World) {
			QueueAdd(w.Commands(), e, kind, intPtr(1))
			sawInSame = Has(w, e, kind)
		}),
		SystemFunc(func(w *World) {
			sawInNext = Has(w, e, kind)
		}),
	)
	s.Update(w)

	assert.False(t, sawInSame)
	assert.True(t, sawInNext)
	assert.Equal(t, 2, s.Len())
}

func TestDestroyedHandleNotResurrected(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)
	require.True(t, DestroyEntity(w, e))

	reused := CreateEntity(w)
	assert.Equal(t, e.id(), reused.id(), "slot is recycled")
	assert.NotEqual(t, e, reused)
	assert.False(t, IsAlive(w, e))
	assert.True(t, IsAlive(w, reused))
	assert.False(t, DestroyEntity(w, e))
}
