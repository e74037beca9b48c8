package component

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimerRepeating(t *testing.T) {
	timer := NewTimer(time.Second, true)

	fired := 0
	for i := 0; i < 25; i++ {
		timer.Tick(100 * time.Millisecond)
		if timer.JustFinished() {
			fired++
			assert.Equal(t, 9, i%10, "fires on the tick that reaches the period")
		}
	}
	assert.Equal(t, 2, fired)
	assert.Equal(t, 500*time.Millisecond, timer.Elapsed())
}

func TestTimerLargeTickFiresSeveralTimes(t *testing.T) {
	timer := NewTimer(time.Second, true)
	timer.Tick(2500 * time.Millisecond)
	assert.True(t, timer.JustFinished())
	assert.Equal(t, 500*time.Millisecond, timer.Elapsed(), "whole periods are dropped")

	timer.Tick(100 * time.Millisecond)
	assert.False(t, timer.JustFinished())
}

func TestTimerOnce(t *testing.T) {
	timer := NewTimer(time.Second, false)
	timer.Tick(time.Second)
	assert.True(t, timer.JustFinished())
	timer.Tick(time.Second)
	assert.False(t, timer.JustFinished(), "one-shot timer finishes once")

	timer.Reset()
	timer.Tick(time.Second)
	assert.True(t, timer.JustFinished())
}
