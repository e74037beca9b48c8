package ecs

import "time"

// Time is the frame clock resource maintained by App.
type Time struct {
	Delta   time.Duration
	Elapsed time.Duration
	Frame   uint64
}

// DeltaSeconds returns the last frame delta in seconds.
func (t *Time) DeltaSeconds() float64 {
	if t == nil {
		return 0
	}
	return t.Delta.Seconds()
}

func (t *Time) advance(dt time.Duration) {
	t.Delta = dt
	t.Elapsed += dt
	t.Frame++
}
