package broadcast

import (
	"context"
	"slices"
	"sync"
)

// Subject holds a current value and republishes every new value to observers
// and channel subscribers. Late subscribers receive the current value first.
//
// Observers run synchronously inside Publish, in registration order. They
// must not call Publish on the same Subject.
type Subject[T any] struct {
	mu        sync.RWMutex
	pubMu     sync.Mutex
	value     T
	observers []observer[T]
	nextID    uint64
	closed    bool
	copyFn    func(T) T
	channels  *MemoryBroadcaster[T]
}

type observer[T any] struct {
	id uint64
	fn func(T)
}

// SubjectOption configures a Subject.
type SubjectOption[T any] func(*Subject[T])

// WithCopy makes the Subject hand every observer and subscriber its own copy
// of the value, so receivers cannot alias the publisher's state.
func WithCopy[T any](fn func(T) T) SubjectOption[T] {
	return func(s *Subject[T]) {
		if fn != nil {
			s.copyFn = fn
		}
	}
}

// WithBufferSize sets the channel buffer of each Subscribe subscriber.
func WithBufferSize[T any](size int) SubjectOption[T] {
	return func(s *Subject[T]) {
		s.channels = NewMemoryBroadcaster[T](size)
	}
}

// NewSubject creates a Subject whose current value is initial.
func NewSubject[T any](initial T, opts ...SubjectOption[T]) *Subject[T] {
	s := &Subject[T]{value: initial}
	for _, opt := range opts {
		opt(s)
	}
	if s.channels == nil {
		s.channels = NewMemoryBroadcaster[T](16)
	}
	return s
}

// Value returns the current value.
func (s *Subject[T]) Value() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copy(s.value)
}

// Publish replaces the current value and delivers it to every observer, then
// to every channel subscriber. Publishing after Close is a no-op.
func (s *Subject[T]) Publish(v T) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.value = v
	observers := slices.Clone(s.observers)
	s.mu.Unlock()

	for _, o := range observers {
		o.fn(s.copy(v))
	}
	_ = s.channels.Broadcast(context.Background(), Message[T]{Data: s.copy(v)})
}

// Observe registers fn and calls it immediately with the current value.
// The returned function removes the observer; it is safe to call twice.
func (s *Subject[T]) Observe(fn func(T)) (cancel func()) {
	if fn == nil {
		return func() {}
	}

	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return func() {}
	}
	s.nextID++
	id := s.nextID
	s.observers = append(s.observers, observer[T]{id: id, fn: fn})
	current := s.value
	s.mu.Unlock()

	fn(s.copy(current))

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.observers = slices.DeleteFunc(s.observers, func(o observer[T]) bool {
			return o.id == id
		})
	}
}

// Subscribe returns a channel subscriber bound to ctx whose first message is
// the current value.
func (s *Subject[T]) Subscribe(ctx context.Context) Subscriber[T] {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	current := s.Value()
	return s.channels.subscribe(ctx, &Message[T]{Data: current})
}

// Close drops every observer and closes every channel subscriber.
func (s *Subject[T]) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.observers = nil
	s.mu.Unlock()

	return s.channels.Close()
}

func (s *Subject[T]) copy(v T) T {
	if s.copyFn == nil {
		return v
	}
	return s.copyFn(v)
}

// Map derives a Subject whose value is fn applied to every value of src.
// The returned stop function detaches the projection and closes it.
func Map[T, U any](src *Subject[T], fn func(T) U) (*Subject[U], func()) {
	dst := NewSubject(fn(src.Value()))
	cancel := src.Observe(func(v T) {
		dst.Publish(fn(v))
	})
	return dst, func() {
		cancel()
		_ = dst.Close()
	}
}
