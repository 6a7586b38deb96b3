package posts_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialdash/dashboard/pkg/scheduler"
	"github.com/socialdash/dashboard/svc/posts"
)

var epoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

const fade = posts.DefaultFadeDelay

func newStore(t *testing.T, opts ...posts.Option) (*posts.Store, *scheduler.Manual) {
	t.Helper()
	clock := scheduler.NewManual(epoch)
	store := posts.NewStore(append([]posts.Option{posts.WithScheduler(clock)}, opts...)...)
	t.Cleanup(func() { _ = store.Close() })
	return store, clock
}

func seeded() posts.Option {
	return posts.WithPosts([]posts.Post{
		{ID: 1, Author: "Alice", Content: "Hello", IsNew: false},
	})
}

func TestStore_AddPost(t *testing.T) {
	t.Parallel()

	store, _ := newStore(t, seeded())

	p := store.AddPost("X", "hi")

	snapshot := store.Posts()
	require.Len(t, snapshot, 2)
	assert.Equal(t, p, snapshot[0])
	assert.Equal(t, "X", snapshot[0].Author)
	assert.Equal(t, "hi", snapshot[0].Content)
	assert.True(t, snapshot[0].IsNew)
	assert.False(t, snapshot[0].FadingOut)
	assert.Zero(t, snapshot[0].Likes)
	assert.Zero(t, snapshot[0].Comments)
	assert.Zero(t, snapshot[0].Shares)
	assert.Equal(t, int64(1), snapshot[1].ID)

	assert.Equal(t, posts.DashboardState{Count: 1, Fading: false}, store.Dashboard())
}

func TestStore_AddPost_IDsIncrease(t *testing.T) {
	t.Parallel()

	store, _ := newStore(t)

	a := store.AddPost("a", "1")
	b := store.AddPost("b", "2")

	assert.Equal(t, epoch.UnixMilli(), a.ID)
	assert.Greater(t, b.ID, a.ID)
	assert.Equal(t, []int64{b.ID, a.ID}, ids(store.Posts()))
}

func TestStore_LikePost(t *testing.T) {
	t.Parallel()

	store, _ := newStore(t, posts.WithPosts([]posts.Post{{ID: 7, Likes: 3}}))

	for n := 1; n <= 5; n++ {
		require.True(t, store.LikePost(7))
		p, _ := store.Post(7)
		assert.Equal(t, n%2 == 1, p.LikedByUser, "after %d likes", n)
		if n%2 == 0 {
			assert.Equal(t, 3, p.Likes, "after %d likes", n)
		} else {
			assert.Equal(t, 4, p.Likes, "after %d likes", n)
		}
	}

	assert.False(t, store.LikePost(404))
}

func TestStore_LikePost_InconsistentInput(t *testing.T) {
	t.Parallel()

	store, _ := newStore(t, posts.WithPosts([]posts.Post{{ID: 1, Likes: 0, LikedByUser: true}}))

	p, _ := store.Post(1)
	assert.False(t, p.LikedByUser)

	require.True(t, store.LikePost(1))
	require.True(t, store.LikePost(1))
	p, _ = store.Post(1)
	assert.Zero(t, p.Likes)
	assert.False(t, p.LikedByUser)

	store.UpdatePosts([]posts.Post{{ID: 2, Likes: -3, LikedByUser: true}})
	p, _ = store.Post(2)
	assert.Zero(t, p.Likes)
	assert.False(t, p.LikedByUser)

	require.True(t, store.LikePost(2))
	require.True(t, store.LikePost(2))
	p, _ = store.Post(2)
	assert.Zero(t, p.Likes)
}

func TestStore_Counters(t *testing.T) {
	t.Parallel()

	store, _ := newStore(t, seeded())

	assert.True(t, store.CommentPost(1))
	assert.True(t, store.CommentPost(1))
	assert.True(t, store.SharePost(1))
	assert.False(t, store.CommentPost(2))
	assert.False(t, store.SharePost(2))

	p, ok := store.Post(1)
	require.True(t, ok)
	assert.Equal(t, 2, p.Comments)
	assert.Equal(t, 1, p.Shares)
}

func TestStore_SnapshotsAreIsolated(t *testing.T) {
	t.Parallel()

	store, _ := newStore(t, seeded())

	var received [][]posts.Post
	store.ObservePosts(func(snapshot []posts.Post) { received = append(received, snapshot) })

	store.LikePost(1)

	require.Len(t, received, 2)
	assert.Equal(t, 0, received[0][0].Likes, "earlier snapshot is not mutated")
	assert.Equal(t, 1, received[1][0].Likes)

	received[1][0].Likes = 99
	p, _ := store.Post(1)
	assert.Equal(t, 1, p.Likes)
}

func TestStore_MarkPostAsSeen(t *testing.T) {
	t.Parallel()

	store, clock := newStore(t, seeded())
	p := store.AddPost("X", "hi")

	var dashboard []posts.DashboardState
	store.ObserveDashboard(func(d posts.DashboardState) { dashboard = append(dashboard, d) })

	require.True(t, store.MarkPostAsSeen(p.ID))

	got, _ := store.Post(p.ID)
	assert.True(t, got.FadingOut)
	assert.True(t, got.IsNew)
	assert.Equal(t, posts.FreshnessFading, got.Freshness())
	assert.Equal(t, 1, clock.Pending())

	clock.Advance(fade - time.Millisecond)
	got, _ = store.Post(p.ID)
	assert.True(t, got.IsNew)

	clock.Advance(time.Millisecond)
	got, _ = store.Post(p.ID)
	assert.False(t, got.IsNew)
	assert.False(t, got.FadingOut)
	assert.True(t, store.HasBeenSeen(p.ID))
	assert.Equal(t, posts.DashboardState{Count: 1, Fading: true}, store.Dashboard())

	clock.Advance(fade)
	assert.Equal(t, posts.DashboardState{Count: 0, Fading: false}, store.Dashboard())

	assert.Equal(t, []posts.DashboardState{
		{Count: 1},
		{Count: 1, Fading: true},
		{Count: 0},
	}, dashboard)
}

func TestStore_MarkPostAsSeen_Idempotent(t *testing.T) {
	t.Parallel()

	store, clock := newStore(t)
	p := store.AddPost("X", "hi")

	require.True(t, store.MarkPostAsSeen(p.ID))
	assert.False(t, store.MarkPostAsSeen(p.ID), "fading post")
	assert.Equal(t, 1, clock.Pending())

	clock.Advance(fade)
	before := store.Posts()
	pending := clock.Pending()

	assert.False(t, store.MarkPostAsSeen(p.ID), "seen post")
	assert.Equal(t, before, store.Posts())
	assert.Equal(t, pending, clock.Pending())

	assert.False(t, store.MarkPostAsSeen(12345), "missing post")
}

func TestStore_FadeForRemovedPostIsIgnored(t *testing.T) {
	t.Parallel()

	store, clock := newStore(t, seeded(), posts.WithBadgePolicy(posts.BadgeImmediate))
	p := store.AddPost("X", "hi")
	require.True(t, store.MarkPostAsSeen(p.ID))

	store.UpdatePosts([]posts.Post{{ID: 1, Author: "Alice"}})
	assert.Equal(t, 0, clock.Pending())

	clock.Advance(fade)
	assert.Len(t, store.Posts(), 1)
	assert.False(t, store.HasBeenSeen(p.ID))
}

func TestStore_UpdatePosts(t *testing.T) {
	t.Parallel()

	t.Run("seen posts never become new again", func(t *testing.T) {
		store, clock := newStore(t)
		p := store.AddPost("X", "hi")
		store.MarkPostAsSeen(p.ID)
		clock.Advance(fade)

		p.IsNew = true
		store.UpdatePosts([]posts.Post{p})

		got, _ := store.Post(p.ID)
		assert.False(t, got.IsNew)
	})

	t.Run("fading without new is normalized", func(t *testing.T) {
		store, _ := newStore(t)
		store.UpdatePosts([]posts.Post{{ID: 5, FadingOut: true}})

		got, _ := store.Post(5)
		assert.False(t, got.FadingOut)
	})

	t.Run("fading posts get a timer", func(t *testing.T) {
		store, clock := newStore(t)
		store.UpdatePosts([]posts.Post{{ID: 5, IsNew: true, FadingOut: true}})
		assert.Equal(t, posts.DashboardState{Count: 1}, store.Dashboard())

		clock.Advance(fade)
		got, _ := store.Post(5)
		assert.Equal(t, posts.FreshnessSeen, got.Freshness())
	})

	t.Run("input slice is not aliased", func(t *testing.T) {
		store, _ := newStore(t)
		in := []posts.Post{{ID: 9, Content: "a"}}
		store.UpdatePosts(in)
		in[0].Content = "b"

		got, _ := store.Post(9)
		assert.Equal(t, "a", got.Content)
	})
}

func TestStore_DashboardTracksNewCount(t *testing.T) {
	t.Parallel()

	store, clock := newStore(t)
	a := store.AddPost("a", "1")
	b := store.AddPost("b", "2")
	assert.Equal(t, posts.DashboardState{Count: 2}, store.Dashboard())

	store.MarkPostAsSeen(a.ID)
	clock.Advance(fade)
	assert.Equal(t, posts.DashboardState{Count: 1}, store.Dashboard())

	store.MarkPostAsSeen(b.ID)
	clock.Advance(fade)
	assert.Equal(t, posts.DashboardState{Count: 1, Fading: true}, store.Dashboard())

	c := store.AddPost("c", "3")
	assert.Equal(t, posts.DashboardState{Count: 1}, store.Dashboard(), "new post cancels the badge fade")

	clock.Advance(fade)
	assert.Equal(t, posts.DashboardState{Count: 1}, store.Dashboard())

	store.MarkPostAsSeen(c.ID)
	clock.Advance(2 * fade)
	assert.Equal(t, posts.DashboardState{Count: 0}, store.Dashboard())
}

func TestStore_BadgeImmediate(t *testing.T) {
	t.Parallel()

	store, clock := newStore(t, posts.WithBadgePolicy(posts.BadgeImmediate))
	p := store.AddPost("a", "1")

	store.MarkPostAsSeen(p.ID)
	clock.Advance(fade)

	assert.Equal(t, posts.DashboardState{Count: 0}, store.Dashboard())
	assert.Equal(t, 0, clock.Pending())
}

func TestStore_SubscribePosts(t *testing.T) {
	t.Parallel()

	store, _ := newStore(t, seeded())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := store.SubscribePosts(ctx)
	store.AddPost("X", "hi")

	first := <-sub.Receive(ctx)
	assert.Len(t, first.Data, 1)
	second := <-sub.Receive(ctx)
	assert.Len(t, second.Data, 2)
}

func TestStore_Close(t *testing.T) {
	t.Parallel()

	store, clock := newStore(t)
	p := store.AddPost("X", "hi")
	store.MarkPostAsSeen(p.ID)

	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
	assert.Equal(t, 0, clock.Pending())

	assert.Equal(t, posts.Post{}, store.AddPost("late", "post"))
	assert.False(t, store.LikePost(p.ID))
}

func ids(list []posts.Post) []int64 {
	out := make([]int64, len(list))
	for i, p := range list {
		out[i] = p.ID
	}
	return out
}
