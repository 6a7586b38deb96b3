package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore keeps login sessions. Get returns ErrSessionNotFound for
// unknown or expired tokens.
type SessionStore interface {
	Save(ctx context.Context, s Session) error
	Get(ctx context.Context, token string) (Session, error)
	Delete(ctx context.Context, token string) error
}

// MemorySessionStore keeps sessions in process memory. Expired entries are
// dropped when read.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	now      func() time.Time
}

func NewMemorySessionStore(now func() time.Time) *MemorySessionStore {
	if now == nil {
		now = time.Now
	}
	return &MemorySessionStore{sessions: make(map[string]Session), now: now}
}

func (m *MemorySessionStore) Save(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.Token] = s
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, token string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	if s.Expired(m.now()) {
		delete(m.sessions, token)
		return Session{}, ErrSessionNotFound
	}
	return s, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

// RedisSessionStore keeps sessions as JSON values under "session:<token>"
// with a TTL matching the session expiry.
type RedisSessionStore struct {
	client redis.UniversalClient
	now    func() time.Time
}

func NewRedisSessionStore(client redis.UniversalClient) *RedisSessionStore {
	return &RedisSessionStore{client: client, now: time.Now}
}

func sessionKey(token string) string { return "session:" + token }

func (r *RedisSessionStore) Save(ctx context.Context, s Session) error {
	ttl := s.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("identity: encode session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(s.Token), data, ttl).Err(); err != nil {
		return fmt.Errorf("identity: save session: %w", err)
	}
	return nil
}

func (r *RedisSessionStore) Get(ctx context.Context, token string) (Session, error) {
	data, err := r.client.Get(ctx, sessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("identity: load session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("identity: decode session: %w", err)
	}
	if s.Expired(r.now()) {
		return Session{}, ErrSessionNotFound
	}
	return s, nil
}

func (r *RedisSessionStore) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("identity: delete session: %w", err)
	}
	return nil
}
