package ratelimiter_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialdash/dashboard/pkg/ratelimiter"
)

func TestRedisStore(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	store := ratelimiter.NewRedisStore(client, ratelimiter.WithKeyPrefix("test:ratelimit:"))
	b, err := ratelimiter.NewBucket(store, ratelimiter.Config{Capacity: 2, RefillRate: 1, RefillInterval: time.Minute})
	require.NoError(t, err)

	key := uuid.NewString()
	t.Cleanup(func() { _ = b.Reset(ctx, key) })

	for want := 1; want >= 0; want-- {
		res, err := b.Allow(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, want, res.Remaining)
	}

	res, err := b.Allow(ctx, key)
	require.NoError(t, err)
	assert.False(t, res.Allowed())

	require.NoError(t, b.Reset(ctx, key))
	res, err = b.Allow(ctx, key)
	require.NoError(t, err)
	assert.True(t, res.Allowed())
}
