package ratelimiter

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// consumeScript mirrors MemoryStore.ConsumeTokens. Times are unix millis.
var consumeScript = redis.NewScript(`
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local interval = tonumber(ARGV[3])
local now = tonumber(ARGV[4])
local n = tonumber(ARGV[5])

local state = redis.call('HMGET', KEYS[1], 'tokens', 'ts')
local tokens = tonumber(state[1])
local ts = tonumber(state[2])
if tokens == nil or ts == nil then
	tokens = capacity
	ts = now
end

if now > ts then
	local intervals = math.min(math.floor((now - ts) / interval), math.floor(capacity / rate) + 1)
	if intervals > 0 then
		tokens = math.min(tokens + intervals * rate, capacity)
		ts = ts + intervals * interval
	end
end
if tokens >= capacity then
	ts = now
end

local remaining
if tokens < n then
	remaining = tokens - n
else
	tokens = tokens - n
	remaining = tokens
end

redis.call('HSET', KEYS[1], 'tokens', tokens, 'ts', ts)
redis.call('PEXPIRE', KEYS[1], (math.floor(capacity / rate) + 1) * interval)
return {remaining, ts + interval}
`)

// RedisStore keeps buckets in Redis hashes under prefix+key.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

type RedisStoreOption func(*RedisStore)

// WithKeyPrefix sets the key prefix. Defaults to "ratelimit:".
func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{client: client, prefix: "ratelimit:", now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) ConsumeTokens(ctx context.Context, key string, n int, cfg Config) (int, time.Time, error) {
	res, err := consumeScript.Run(ctx, s.client, []string{s.prefix + key},
		cfg.Capacity,
		cfg.RefillRate,
		cfg.RefillInterval.Milliseconds(),
		s.now().UnixMilli(),
		n,
	).Int64Slice()
	if err != nil {
		return 0, time.Time{}, errors.Join(ErrStoreUnavailable, err)
	}
	if len(res) != 2 {
		return 0, time.Time{}, errors.Join(ErrStoreUnavailable, errors.New("unexpected script reply"))
	}
	return int(res[0]), time.UnixMilli(res[1]), nil
}

func (s *RedisStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}
