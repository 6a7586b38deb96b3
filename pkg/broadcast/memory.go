package broadcast

import (
	"context"
	"sync"
)

// MemoryBroadcaster fans messages out to in-process subscribers.
// Slow subscribers are dropped instead of blocking Broadcast.
// All methods are safe for concurrent use.
type MemoryBroadcaster[T any] struct {
	subscribers map[*subscriber[T]]struct{}
	bufferSize  int
	closed      bool
	done        chan struct{}
	mu          sync.RWMutex
	cleanupWg   sync.WaitGroup
}

// NewMemoryBroadcaster creates an in-memory broadcaster with the given per-subscriber
// buffer size. Buffers smaller than 1 are raised to 1.
func NewMemoryBroadcaster[T any](bufferSize int) *MemoryBroadcaster[T] {
	return &MemoryBroadcaster[T]{
		subscribers: make(map[*subscriber[T]]struct{}),
		bufferSize:  max(bufferSize, 1),
		done:        make(chan struct{}),
	}
}

// Subscribe registers a subscriber that is removed when ctx is cancelled.
func (b *MemoryBroadcaster[T]) Subscribe(ctx context.Context) Subscriber[T] {
	return b.subscribe(ctx, nil)
}

// subscribe registers a subscriber and queues replay before any concurrent
// Broadcast can reach it, so a late subscriber never observes an older value
// after a newer one.
func (b *MemoryBroadcaster[T]) subscribe(ctx context.Context, replay *Message[T]) Subscriber[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := newSubscriber[T](b.bufferSize)
	if b.closed {
		_ = sub.Close()
		return sub
	}

	if replay != nil {
		sub.send(*replay)
	}
	b.subscribers[sub] = struct{}{}

	if ctx.Done() != nil {
		b.cleanupWg.Add(1)
		go func() {
			defer b.cleanupWg.Done()
			select {
			case <-ctx.Done():
				b.unsubscribe(sub)
			case <-b.done:
			}
		}()
	}

	return sub
}

// Broadcast sends msg to every subscriber without blocking.
// Subscribers whose buffer is full are dropped asynchronously.
func (b *MemoryBroadcaster[T]) Broadcast(ctx context.Context, msg Message[T]) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil
	}

	for sub := range b.subscribers {
		if !sub.send(msg) {
			go b.unsubscribe(sub)
		}
	}

	return nil
}

// Len reports the number of active subscribers.
func (b *MemoryBroadcaster[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close closes every subscriber. It is safe to call more than once.
func (b *MemoryBroadcaster[T]) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.done)

	for sub := range b.subscribers {
		_ = sub.Close()
	}
	clear(b.subscribers)
	b.mu.Unlock()

	b.cleanupWg.Wait()
	return nil
}

func (b *MemoryBroadcaster[T]) unsubscribe(sub *subscriber[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.subscribers, sub)
	_ = sub.Close()
}
