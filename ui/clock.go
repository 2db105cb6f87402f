package ui

import "time"

// Timer is a pending callback that can be cancelled
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks; tests swap in a manual clock
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock is backed by time.AfterFunc
var RealClock Clock = realClock{}

// stopTimer stops t if set and always returns nil, for `x = stopTimer(x)`.
func stopTimer(t Timer) Timer {
	if t != nil {
		t.Stop()
	}
	return nil
}
