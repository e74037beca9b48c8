package component

import "time"

// Timer counts frame time towards Duration. A repeating timer wraps around
// and may finish more than once in a single large tick.
type Timer struct {
	Duration  time.Duration
	Repeating bool

	elapsed  time.Duration
	finished bool
	times    int
}

func NewTimer(d time.Duration, repeating bool) Timer {
	return Timer{Duration: d, Repeating: repeating}
}

// Tick advances the timer by dt.
func (t *Timer) Tick(dt time.Duration) {
	t.times = 0
	if !t.Repeating && t.finished {
		return
	}
	if t.Duration <= 0 {
		t.finished = true
		t.times = 1
		return
	}
	t.elapsed += dt
	if t.elapsed < t.Duration {
		t.finished = false
		return
	}
	t.finished = true
	if t.Repeating {
		t.times = int(t.elapsed / t.Duration)
		t.elapsed %= t.Duration
		return
	}
	t.times = 1
	t.elapsed = t.Duration
}

// JustFinished reports whether the last Tick completed a period.
func (t *Timer) JustFinished() bool {
	return t.times > 0
}

func (t *Timer) Elapsed() time.Duration {
	return t.elapsed
}

func (t *Timer) Reset() {
	t.elapsed = 0
	t.finished = false
	t.times = 0
}

// SpawnTimer paces doodad spawns.
type SpawnTimer struct {
	Timer
}
