package ecs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	stateA State = "a"
	stateB State = "b"
)

type recordPlugin struct {
	log *[]string
}

func (p recordPlugin) Build(app *App) {
	rec := func(s string) System {
		return SystemFunc(func(*World) { *p.log = append(*p.log, s) })
	}
	app.Startup(rec("startup"))
	app.OnEnter(stateA, rec("enter a"))
	app.OnExit(stateA, rec("exit a"))
	app.OnEnter(stateB, rec("enter b"))
	app.OnUpdate(stateA, rec("update a"))
	app.OnUpdate(stateB, rec("update b"))
	app.Always(rec("always"))
}

func TestAppStateTransitions(t *testing.T) {
	var got []string
	app := NewApp(stateA).AddPlugin(recordPlugin{log: &got})

	app.Update(time.Second / 60)
	assert.Equal(t, []string{"startup", "enter a", "always", "update a"}, got)

	got = got[:0]
	RequestState(app.World(), stateB)
	assert.Equal(t, stateA, app.State(), "request applies on the next update")

	app.Update(time.Second / 60)
	assert.Equal(t, stateB, app.State())
	assert.Equal(t, []string{"exit a", "enter b", "always", "update b"}, got)
}

func TestAppRequestSameStateIsNoop(t *testing.T) {
	var got []string
	app := NewApp(stateA).AddPlugin(recordPlugin{log: &got})
	app.Update(time.Millisecond)

	got = got[:0]
	RequestState(app.World(), stateA)
	app.Update(time.Millisecond)
	assert.Equal(t, []string{"always", "update a"}, got)
}

func TestAppAdvancesTime(t *testing.T) {
	app := NewApp(stateA)
	app.Update(100 * time.Millisecond)
	app.Update(100 * time.Millisecond)

	tm, ok := Resource[Time](app.World())
	require.True(t, ok)
	assert.Equal(t, 100*time.Millisecond, tm.Delta)
	assert.Equal(t, 200*time.Millisecond, tm.Elapsed)
	assert.Equal(t, uint64(2), tm.Frame)
	assert.InDelta(t, 0.1, tm.DeltaSeconds(), 1e-9)
}

func TestAppClearsEventsEachFrame(t *testing.T) {
	var seen int
	app := NewApp(stateA)
	app.OnUpdate(stateA,
		SystemFunc(func(w *World) { w.Events().Push(Event{Type: EventDoodadSpawned}) }),
		SystemFunc(func(w *World) { seen = len(w.Events().Peek()) }),
	)

	app.Update(time.Millisecond)
	app.Update(time.Millisecond)
	assert.Equal(t, 1, seen)
	assert.Empty(t, app.World().Events().Peek())
}

func TestResources(t *testing.T) {
	type counter struct{ n int }
	w := NewWorld()

	_, ok := Resource[counter](w)
	assert.False(t, ok)
	assert.Panics(t, func() { MustResource[counter](w) })

	SetResource(w, &counter{n: 3})
	c, ok := Resource[counter](w)
	require.True(t, ok)
	c.n++
	assert.Equal(t, 4, MustResource[counter](w).n)

	RemoveResource[counter](w)
	_, ok = Resource[counter](w)
	assert.False(t, ok)
}

func TestQuerySingleAndWithout(t *testing.T) {
	w := NewWorld()
	a := CreateEntity(w)
	b := CreateEntity(w)
	require.NoError(t, SetParent(w, b, a))

	kinds := ParentComponent.Kind()
	e, err := w.Single(kinds)
	require.NoError(t, err)
	assert.Equal(t, b, e)

	_, err = w.Single(ChildrenComponent.Kind(), kinds)
	assert.Error(t, err)

	roots := Without(w, Entities(w), ParentComponent.Kind())
	assert.Equal(t, []Entity{a}, roots)
}
