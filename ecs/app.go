package ecs

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/clusterjunk/log"
)

// State names a coarse app state (loading, menu, playing...).
type State string

// Plugin bundles the resources and system registrations of one feature.
type Plugin interface {
	Build(app *App)
}

// PluginFunc adapts a function to Plugin.
type PluginFunc func(app *App)

func (f PluginFunc) Build(app *App) {
	if f != nil {
		f(app)
	}
}

type stateRequest struct {
	next State
	set  bool
}

// App drives a World through its states. Each Update applies a pending
// state transition, then runs the state-independent systems followed by the
// systems registered for the current state.
type App struct {
	world *World
	state State
	begun bool

	startup  *Scheduler
	always   *Scheduler
	onEnter  map[State]*Scheduler
	onExit   map[State]*Scheduler
	onUpdate map[State]*Scheduler

	renderAlways []RenderSystem
	render       map[State][]RenderSystem
}

// NewApp creates an app that starts in initial.
func NewApp(initial State) *App {
	w := NewWorld()
	SetResource(w, &Time{})
	SetResource(w, &stateRequest{})
	return &App{
		world:    w,
		state:    initial,
		startup:  NewScheduler(),
		always:   NewScheduler(),
		onEnter:  make(map[State]*Scheduler),
		onExit:   make(map[State]*Scheduler),
		onUpdate: make(map[State]*Scheduler),
		render:   make(map[State][]RenderSystem),
	}
}

// World returns the app's world.
func (a *App) World() *World {
	return a.world
}

// State returns the current state.
func (a *App) State() State {
	return a.state
}

// AddPlugin builds p into the app.
func (a *App) AddPlugin(p Plugin) *App {
	if p != nil {
		p.Build(a)
	}
	return a
}

// Startup registers systems that run once before the first frame.
func (a *App) Startup(systems ...System) *App {
	for _, s := range systems {
		a.startup.Add(s)
	}
	return a
}

// Always registers systems that run every frame in every state, before the
// state's own systems.
func (a *App) Always(systems ...System) *App {
	for _, s := range systems {
		a.always.Add(s)
	}
	return a
}

// OnEnter registers systems run once when the app enters s.
func (a *App) OnEnter(s State, systems ...System) *App {
	addTo(a.onEnter, s, systems)
	return a
}

// OnExit registers systems run once when the app leaves s.
func (a *App) OnExit(s State, systems ...System) *App {
	addTo(a.onExit, s, systems)
	return a
}

// OnUpdate registers systems run every frame while in s.
func (a *App) OnUpdate(s State, systems ...System) *App {
	addTo(a.onUpdate, s, systems)
	return a
}

// AddRender registers a render system for s.
func (a *App) AddRender(s State, r RenderSystem) *App {
	if r != nil {
		a.render[s] = append(a.render[s], r)
	}
	return a
}

// AddRenderAlways registers a render system drawn in every state, after the
// state's own renderers.
func (a *App) AddRenderAlways(r RenderSystem) *App {
	if r != nil {
		a.renderAlways = append(a.renderAlways, r)
	}
	return a
}

// RequestState asks the app owning w to move to s at the start of its next
// update. The last request in a frame wins.
func RequestState(w *World, s State) {
	req, ok := Resource[stateRequest](w)
	if !ok {
		return
	}
	req.next = s
	req.set = true
}

// Update advances the app by one frame of length dt.
func (a *App) Update(dt time.Duration) {
	w := a.world
	if !a.begun {
		a.begun = true
		a.startup.Update(w)
		a.enter(a.state)
	}

	MustResource[Time](w).advance(dt)

	if req := MustResource[stateRequest](w); req.set {
		req.set = false
		if req.next != a.state {
			a.transition(req.next)
		}
	}

	a.always.Update(w)
	if s := a.onUpdate[a.state]; s != nil {
		s.Update(w)
	}
	w.Events().flush()
}

// Draw runs the current state's render systems.
func (a *App) Draw(screen *ebiten.Image) {
	for _, r := range a.render[a.state] {
		r.Draw(a.world, screen)
	}
	for _, r := range a.renderAlways {
		r.Draw(a.world, screen)
	}
}

func (a *App) transition(next State) {
	prev := a.state
	if s := a.onExit[prev]; s != nil {
		s.Update(a.world)
	}
	a.state = next
	log.Info("app: state %s -> %s", prev, next)
	a.world.Events().Push(Event{Type: EventStateChanged, Data: next})
	a.enter(next)
}

func (a *App) enter(s State) {
	if sched := a.onEnter[s]; sched != nil {
		sched.Update(a.world)
	}
}

func addTo(m map[State]*Scheduler, s State, systems []System) {
	sched := m[s]
	if sched == nil {
		sched = NewScheduler()
		m[s] = sched
	}
	for _, sys := range systems {
		sched.Add(sys)
	}
}
