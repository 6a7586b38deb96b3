package broadcast

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBroadcaster_Subscribe(t *testing.T) {
	t.Parallel()

	t.Run("subscribe after close returns closed subscriber", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](4)
		require.NoError(t, b.Close())

		sub := b.Subscribe(context.Background())
		_, ok := <-sub.Receive(context.Background())
		assert.False(t, ok)
	})

	t.Run("context cancellation unsubscribes", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](4)
		defer b.Close()

		ctx, cancel := context.WithCancel(context.Background())
		sub := b.Subscribe(ctx)
		cancel()

		require.Eventually(t, func() bool { return b.Len() == 0 }, time.Second, 5*time.Millisecond)

		_, ok := <-sub.Receive(context.Background())
		assert.False(t, ok)
	})

	t.Run("close does not wait on live contexts", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](4)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		_ = b.Subscribe(ctx)

		done := make(chan struct{})
		go func() {
			_ = b.Close()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Close blocked on an uncancelled subscriber context")
		}
	})
}

func TestMemoryBroadcaster_Broadcast(t *testing.T) {
	t.Parallel()

	t.Run("every subscriber receives the message", func(t *testing.T) {
		b := NewMemoryBroadcaster[[]int](4)
		defer b.Close()

		ctx := context.Background()
		subs := []Subscriber[[]int]{b.Subscribe(ctx), b.Subscribe(ctx), b.Subscribe(ctx)}

		require.NoError(t, b.Broadcast(ctx, Message[[]int]{Data: []int{3, 2, 1}}))

		for i, sub := range subs {
			select {
			case msg := <-sub.Receive(ctx):
				assert.Equal(t, []int{3, 2, 1}, msg.Data, "subscriber %d", i)
			case <-time.After(100 * time.Millisecond):
				t.Fatalf("subscriber %d timed out", i)
			}
		}
	})

	t.Run("slow subscriber is dropped", func(t *testing.T) {
		b := NewMemoryBroadcaster[int](1)
		defer b.Close()

		ctx := context.Background()
		_ = b.Subscribe(ctx)

		for i := range 5 {
			require.NoError(t, b.Broadcast(ctx, Message[int]{Data: i}))
		}

		require.Eventually(t, func() bool { return b.Len() == 0 }, time.Second, 5*time.Millisecond)
	})

	t.Run("broadcast after close is a no-op", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](1)
		require.NoError(t, b.Close())
		assert.NoError(t, b.Broadcast(context.Background(), Message[string]{Data: "late"}))
	})

	t.Run("double close is safe", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](1)
		require.NoError(t, b.Close())
		require.NoError(t, b.Close())
	})
}

func BenchmarkMemoryBroadcaster_Broadcast(b *testing.B) {
	broadcaster := NewMemoryBroadcaster[string](100)
	defer broadcaster.Close()

	ctx := context.Background()
	for range 10 {
		sub := broadcaster.Subscribe(ctx)
		go func(s Subscriber[string]) {
			for range s.Receive(ctx) {
			}
		}(sub)
	}

	msg := Message[string]{Data: "snapshot"}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = broadcaster.Broadcast(ctx, msg)
		}
	})
}
