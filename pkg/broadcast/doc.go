// Package broadcast provides typed one-to-many publishing.
//
// MemoryBroadcaster fans messages out to channel subscribers and drops slow
// consumers instead of blocking the publisher. Subject builds on it to model a
// value that changes over time: it keeps the current value, calls observers
// synchronously on every Publish, and replays the current value to anyone who
// starts observing late.
//
// Basic usage:
//
//	posts := broadcast.NewSubject([]Post{}, broadcast.WithCopy(slices.Clone[[]Post]))
//	defer posts.Close()
//
//	stop := posts.Observe(func(snapshot []Post) {
//		render(snapshot)
//	})
//	defer stop()
//
//	posts.Publish(next)
//
// Channel subscribers suit long-lived consumers such as SSE streams:
//
//	sub := posts.Subscribe(ctx)
//	for msg := range sub.Receive(ctx) {
//		send(msg.Data)
//	}
package broadcast
