package identity

import (
	"context"
	"strings"
	"time"
)

// User is a login identity. Its UID keys the user's profile document.
type User struct {
	UID          string    `bson:"_id" json:"uid"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash []byte    `bson:"passwordHash" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

// Session binds an opaque token to a user until ExpiresAt.
type Session struct {
	Token     string    `json:"token"`
	UID       string    `json:"uid"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type sessionContextKey struct{}

// WithSession stores the authenticated session in ctx.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, s)
}

// SessionFromContext returns the authenticated session, if any.
func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionContextKey{}).(Session)
	return s, ok
}

// UIDFromContext returns the authenticated uid or "".
func UIDFromContext(ctx context.Context) string {
	s, _ := SessionFromContext(ctx)
	return s.UID
}
