package visibility

import (
	"log/slog"
	"sync"
	"time"

	"github.com/socialdash/dashboard/pkg/logger"
	"github.com/socialdash/dashboard/pkg/scheduler"
)

// DefaultDwell is how long an element must stay visible before its post is
// marked as seen.
const DefaultDwell = 2 * time.Second

// Marker is the part of the post store the tracker drives.
type Marker interface {
	MarkPostAsSeen(id int64) bool
}

// Intersection reports that an observed element crossed the 50% visibility
// threshold in either direction.
type Intersection struct {
	ElementID      string `json:"elementId"`
	IsIntersecting bool   `json:"isIntersecting"`
}

// Tracker turns viewport intersection signals into MarkPostAsSeen calls.
// Each observed element gets at most one dwell timer; when it fires the post
// is marked once and the element is no longer observed.
type Tracker struct {
	mu       sync.Mutex
	elements map[string]*element
	token    uint64
	closed   bool

	marker       Marker
	sched        scheduler.Scheduler
	dwell        time.Duration
	cancelOnExit bool
	log          *slog.Logger
}

type element struct {
	postID int64
	token  uint64
	task   scheduler.Task
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithDwell sets the visibility dwell. Non-positive values are ignored.
func WithDwell(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.dwell = d
		}
	}
}

func WithScheduler(s scheduler.Scheduler) Option {
	return func(t *Tracker) {
		if s != nil {
			t.sched = s
		}
	}
}

// WithCancelOnExit drops a pending dwell when the element leaves the
// viewport. By default the dwell keeps running.
func WithCancelOnExit(enabled bool) Option {
	return func(t *Tracker) { t.cancelOnExit = enabled }
}

func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.log = l
		}
	}
}

// NewTracker creates a Tracker that reports seen posts to marker.
func NewTracker(marker Marker, opts ...Option) *Tracker {
	t := &Tracker{
		elements: make(map[string]*element),
		marker:   marker,
		dwell:    DefaultDwell,
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.sched == nil {
		t.sched = scheduler.NewReal()
	}
	return t
}

// Observe starts watching elementID on behalf of postID. Observing an element
// again replaces the previous registration and drops its pending dwell.
func (t *Tracker) Observe(elementID string, postID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}
	t.drop(elementID)
	t.elements[elementID] = &element{postID: postID}
}

// Unobserve stops watching elementID. Unknown ids are ignored.
func (t *Tracker) Unobserve(elementID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.drop(elementID)
}

// Observed reports whether elementID is being watched.
func (t *Tracker) Observed(elementID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.elements[elementID]
	return ok
}

// Signal feeds one intersection change. Becoming visible starts the dwell
// unless one is already pending. Signals for unknown elements are ignored.
func (t *Tracker) Signal(in Intersection) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}
	el, ok := t.elements[in.ElementID]
	if !ok {
		return
	}

	if !in.IsIntersecting {
		if t.cancelOnExit && el.task != nil {
			el.task.Stop()
			el.task = nil
			el.token = 0
		}
		return
	}
	if el.task != nil {
		return
	}

	t.token++
	token := t.token
	el.token = token
	el.task = t.sched.AfterFunc(t.dwell, func() { t.fire(in.ElementID, token) })

	t.log.Debug("dwell started", logger.ElementID(in.ElementID), logger.PostID(el.postID))
}

// Close drops every element and its pending dwell.
func (t *Tracker) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	for id := range t.elements {
		t.drop(id)
	}
	return nil
}

func (t *Tracker) fire(elementID string, token uint64) {
	t.mu.Lock()
	el, ok := t.elements[elementID]
	if t.closed || !ok || el.token != token {
		t.mu.Unlock()
		return
	}
	delete(t.elements, elementID)
	postID := el.postID
	t.mu.Unlock()

	// The marker is called without t.mu held so it may publish to observers
	// that call back into the tracker.
	marked := t.marker.MarkPostAsSeen(postID)
	t.log.Debug("dwell elapsed",
		logger.ElementID(elementID),
		logger.PostID(postID),
		slog.Bool("marked", marked),
	)
}

func (t *Tracker) drop(elementID string) {
	el, ok := t.elements[elementID]
	if !ok {
		return
	}
	if el.task != nil {
		el.task.Stop()
	}
	delete(t.elements, elementID)
}
