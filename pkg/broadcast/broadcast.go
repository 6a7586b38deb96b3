package broadcast

import (
	"context"
	"sync"
)

// Message wraps a published value of type T.
type Message[T any] struct {
	Data T
}

// Subscriber receives messages from a Broadcaster.
// Implementations must be safe for concurrent use.
type Subscriber[T any] interface {
	// Receive returns the channel messages are delivered on.
	// The channel is closed once the subscriber is closed or dropped.
	Receive(ctx context.Context) <-chan Message[T]

	// Close releases the subscriber. It is idempotent.
	Close() error
}

// Broadcaster sends messages to multiple subscribers.
// Implementations drop messages for slow consumers rather than block the publisher.
type Broadcaster[T any] interface {
	// Subscribe registers a subscriber whose lifetime is bound to ctx.
	Subscribe(ctx context.Context) Subscriber[T]

	// Broadcast delivers msg to every active subscriber.
	Broadcast(ctx context.Context, msg Message[T]) error

	// Close closes all subscribers. Subscribe after Close returns a closed subscriber.
	Close() error
}

type subscriber[T any] struct {
	ch     chan Message[T]
	closed bool
	mu     sync.RWMutex
}

func newSubscriber[T any](bufferSize int) *subscriber[T] {
	return &subscriber[T]{
		ch: make(chan Message[T], bufferSize),
	}
}

func (s *subscriber[T]) Receive(ctx context.Context) <-chan Message[T] {
	return s.ch
}

func (s *subscriber[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		close(s.ch)
		s.closed = true
	}
	return nil
}

// send never blocks; false means the buffer was full or the subscriber is closed.
func (s *subscriber[T]) send(msg Message[T]) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false
	}

	select {
	case s.ch <- msg:
		return true
	default:
		return false
	}
}
