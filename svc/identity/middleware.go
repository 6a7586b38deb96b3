package identity

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/socialdash/dashboard/handler"
	"github.com/socialdash/dashboard/pkg/logger"
)

// DefaultCookieName is the session cookie used when none is configured.
const DefaultCookieName = "session_token"

// Authenticator resolves session tokens. *Service implements it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (Session, error)
}

// Middleware guards routes based on the session cookie.
type Middleware struct {
	auth       Authenticator
	cookieName string
	secure     bool
	log        *slog.Logger
}

type MiddlewareOption func(*Middleware)

func WithCookieName(name string) MiddlewareOption {
	return func(m *Middleware) {
		if name != "" {
			m.cookieName = name
		}
	}
}

func WithSecureCookie(secure bool) MiddlewareOption {
	return func(m *Middleware) {
		m.secure = secure
	}
}

func WithMiddlewareLogger(l *slog.Logger) MiddlewareOption {
	return func(m *Middleware) {
		if l != nil {
			m.log = l
		}
	}
}

func NewMiddleware(auth Authenticator, opts ...MiddlewareOption) *Middleware {
	m := &Middleware{auth: auth, cookieName: DefaultCookieName, log: logger.Discard()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Authenticate puts the session from the cookie into the request context.
// A cookie that no longer resolves is cleared.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(m.cookieName)
		if err != nil || c.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		sess, err := m.auth.Authenticate(r.Context(), c.Value)
		if err != nil {
			if !errors.Is(err, ErrSessionNotFound) {
				m.log.ErrorContext(r.Context(), "session lookup failed", logger.Error(err))
			}
			m.ClearCookie(w)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
	})
}

// RequireAuth rejects anonymous requests: API clients get a JSON 401, browsers
// are redirected to /login.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SessionFromContext(r.Context()); ok {
			next.ServeHTTP(w, r)
			return
		}
		if wantsJSON(r) {
			_ = handler.JSONError(handler.ErrUnauthorized).Render(w, r)
			return
		}
		http.Redirect(w, r, "/login", http.StatusFound)
	})
}

// GuestOnly sends signed-in users to /home.
func (m *Middleware) GuestOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SessionFromContext(r.Context()); ok {
			http.Redirect(w, r, "/home", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RedirectToLogin is the catch-all for unknown routes.
func RedirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/login", http.StatusFound)
}

// SetCookie writes the session cookie.
func (m *Middleware) SetCookie(w http.ResponseWriter, s Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    s.Token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func (m *Middleware) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Token returns the session token carried by the request, if any.
func (m *Middleware) Token(r *http.Request) string {
	c, err := r.Cookie(m.cookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

func wantsJSON(r *http.Request) bool {
	return r.Header.Get("X-Requested-With") == "XMLHttpRequest" ||
		r.Header.Get("Datastar-Request") == "true" ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}
