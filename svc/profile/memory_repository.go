package profile

import (
	"context"
	"sync"
	"time"
)

// MemoryRepository is a Repository kept in process memory, used in tests
// and when no database is configured.
type MemoryRepository struct {
	mu       sync.RWMutex
	profiles map[string]Profile
	seq      int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{profiles: make(map[string]Profile)}
}

func (r *MemoryRepository) Create(_ context.Context, p Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[p.UID]; ok {
		return ErrProfileExists
	}
	for _, existing := range r.profiles {
		if existing.Username == p.Username {
			return ErrUsernameTaken
		}
	}
	r.profiles[p.UID] = p
	return nil
}

func (r *MemoryRepository) FindByUID(_ context.Context, uid string) (Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[uid]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return p, nil
}

func (r *MemoryRepository) FindByUsername(_ context.Context, username string) (Profile, error) {
	return r.find(func(p Profile) bool { return p.Username == username })
}

func (r *MemoryRepository) FindByUserID(_ context.Context, userID int64) (Profile, error) {
	return r.find(func(p Profile) bool { return p.UserID == userID })
}

func (r *MemoryRepository) Merge(_ context.Context, uid string, c Changes, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[uid]
	if !ok {
		return ErrNotFound
	}
	if c.Username != nil && *c.Username != p.Username {
		for id, existing := range r.profiles {
			if id != uid && existing.Username == *c.Username {
				return ErrUsernameTaken
			}
		}
	}
	c.applyTo(&p)
	p.UpdatedAt = updatedAt
	r.profiles[uid] = p
	return nil
}

func (r *MemoryRepository) UsernameTaken(_ context.Context, username string) (bool, error) {
	_, err := r.find(func(p Profile) bool { return p.Username == username })
	return err == nil, nil
}

func (r *MemoryRepository) NextUserID(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return r.seq, nil
}

func (r *MemoryRepository) Delete(_ context.Context, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.profiles, uid)
	return nil
}

func (r *MemoryRepository) find(match func(Profile) bool) (Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.profiles {
		if match(p) {
			return p, nil
		}
	}
	return Profile{}, ErrNotFound
}
