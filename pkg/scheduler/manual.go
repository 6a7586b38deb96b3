package scheduler

import (
	"slices"
	"sync"
	"time"
)

// Manual is a Scheduler driven by a virtual clock. Nothing runs until Advance
// is called, which makes timing-dependent code deterministic under test.
type Manual struct {
	mu    sync.Mutex
	now   time.Time
	seq   uint64
	tasks []*manualTask
}

// NewManual returns a Manual scheduler whose clock starts at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) AfterFunc(d time.Duration, fn func()) Task {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	t := &manualTask{
		id:  m.seq,
		due: m.now.Add(d),
		fn:  fn,
		m:   m,
	}
	m.tasks = append(m.tasks, t)
	return t
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d and runs every task that falls due,
// earliest first, including tasks scheduled by callbacks within the window.
// Callbacks run on the calling goroutine. It returns the number of tasks run.
func (m *Manual) Advance(d time.Duration) int {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	ran := 0
	for {
		m.mu.Lock()
		next := m.nextDue(target)
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return ran
		}
		m.remove(next)
		m.now = next.due
		m.mu.Unlock()

		next.fn()
		ran++
	}
}

// Pending reports the number of tasks that have neither run nor been stopped.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

func (m *Manual) nextDue(target time.Time) *manualTask {
	var next *manualTask
	for _, t := range m.tasks {
		if t.due.After(target) {
			continue
		}
		if next == nil || t.due.Before(next.due) || (t.due.Equal(next.due) && t.id < next.id) {
			next = t
		}
	}
	return next
}

func (m *Manual) remove(t *manualTask) bool {
	n := len(m.tasks)
	m.tasks = slices.DeleteFunc(m.tasks, func(x *manualTask) bool { return x == t })
	return len(m.tasks) != n
}

type manualTask struct {
	id  uint64
	due time.Time
	fn  func()
	m   *Manual
}

func (t *manualTask) ID() uint64 { return t.id }

func (t *manualTask) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	return t.m.remove(t)
}
