package scheduler

import (
	"sync/atomic"
	"time"
)

// Task is a handle to a scheduled callback.
type Task interface {
	// ID uniquely identifies the task within its Scheduler.
	ID() uint64
	// Stop cancels the task. It reports false if the task already ran or was stopped.
	Stop() bool
}

// Scheduler runs callbacks after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Task
	Now() time.Time
}

// Real schedules callbacks on the wall clock using time.AfterFunc.
// Callbacks run on their own goroutine.
type Real struct {
	seq atomic.Uint64
}

// NewReal returns a wall-clock Scheduler.
func NewReal() *Real {
	return &Real{}
}

func (r *Real) AfterFunc(d time.Duration, fn func()) Task {
	return &realTask{
		id:    r.seq.Add(1),
		timer: time.AfterFunc(d, fn),
	}
}

func (r *Real) Now() time.Time {
	return time.Now()
}

type realTask struct {
	id    uint64
	timer *time.Timer
}

func (t *realTask) ID() uint64 { return t.id }

func (t *realTask) Stop() bool { return t.timer.Stop() }
