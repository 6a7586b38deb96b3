package account

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/socialdash/dashboard/handler"
	"github.com/socialdash/dashboard/pkg/binder"
	"github.com/socialdash/dashboard/pkg/logger"
	"github.com/socialdash/dashboard/svc/identity"
)

// Identity is the part of identity.Service the account routes use.
type Identity interface {
	Signup(ctx context.Context, in identity.SignupInput) (identity.Session, error)
	Login(ctx context.Context, email, password string) (identity.Session, error)
	Logout(ctx context.Context, token string) error
	EmailAvailable(ctx context.Context, email string) (bool, error)
}

// Usernames reports username availability.
type Usernames interface {
	UsernameAvailable(ctx context.Context, username string) (bool, error)
}

// Module serves login, signup and logout.
type Module struct {
	identity  Identity
	usernames Usernames
	guard     *identity.Middleware
	home      string
	throttle  func(http.Handler) http.Handler
	log       *slog.Logger
}

type Option func(*Module)

func WithLogger(l *slog.Logger) Option {
	return func(m *Module) {
		if l != nil {
			m.log = l
		}
	}
}

// WithHomePath sets where signed-in users land. Defaults to /home.
func WithHomePath(path string) Option {
	return func(m *Module) {
		if path != "" {
			m.home = path
		}
	}
}

// WithThrottle wraps the credential endpoints, login and signup, in mw.
func WithThrottle(mw func(http.Handler) http.Handler) Option {
	return func(m *Module) {
		if mw != nil {
			m.throttle = mw
		}
	}
}

func New(id Identity, usernames Usernames, guard *identity.Middleware, opts ...Option) *Module {
	m := &Module{identity: id, usernames: usernames, guard: guard, home: "/home", log: logger.Discard()}
	m.throttle = func(next http.Handler) http.Handler { return next }
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.With(logger.Component("account"))
	return m
}

// Handle returns the account routes. The router expects guard.Authenticate
// to run before it.
func (m *Module) Handle() http.Handler {
	r := chi.NewRouter()
	body := []handler.Bind{binder.JSON(), binder.Form()}

	r.Group(func(r chi.Router) {
		r.Use(m.guard.GuestOnly)
		r.With(m.throttle).Post("/login", handler.Handle(m.log, m.login, body...))
		r.With(m.throttle).Post("/signup", handler.Handle(m.log, m.signup, body...))
		r.Get("/signup/username-available", handler.Handle(m.log, m.usernameAvailable, binder.Query()))
		r.Get("/signup/email-available", handler.Handle(m.log, m.emailAvailable, binder.Query()))
	})

	r.With(m.guard.RequireAuth).Post("/logout", handler.Handle(m.log, m.logout))

	return r
}
