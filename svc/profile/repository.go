package profile

import (
	"context"
	"time"
)

// Repository stores profile documents. Lookups of missing documents return
// ErrNotFound. Usernames are compared in normalized form.
type Repository interface {
	Create(ctx context.Context, p Profile) error
	FindByUID(ctx context.Context, uid string) (Profile, error)
	FindByUsername(ctx context.Context, username string) (Profile, error)
	FindByUserID(ctx context.Context, userID int64) (Profile, error)
	// Merge writes only the fields set in c plus updatedAt.
	Merge(ctx context.Context, uid string, c Changes, updatedAt time.Time) error
	UsernameTaken(ctx context.Context, username string) (bool, error)
	// NextUserID atomically increments the users counter and returns the
	// new value, starting at 1.
	NextUserID(ctx context.Context) (int64, error)
	Delete(ctx context.Context, uid string) error
}
