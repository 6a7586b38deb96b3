package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/socialdash/dashboard/handler"
	"github.com/socialdash/dashboard/modules/account"
	"github.com/socialdash/dashboard/modules/feed"
	profilemod "github.com/socialdash/dashboard/modules/profile"
	"github.com/socialdash/dashboard/pkg/environment"
	"github.com/socialdash/dashboard/pkg/httpserver"
	"github.com/socialdash/dashboard/pkg/ratelimiter"
	"github.com/socialdash/dashboard/svc/identity"
)

// routes assembles the HTTP surface. Unknown paths redirect to /login.
func (a *app) routes(env environment.Environment) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		environment.Middleware(env),
		a.guard.Authenticate,
	)
	r.NotFound(identity.RedirectToLogin)

	r.Get("/health/live", httpserver.LivenessHandler())
	r.Get("/health/ready", httpserver.ReadinessHandler(a.log, a.checks...))

	r.Mount("/api", a.guard.RequireAuth(
		feed.New(a.posts, a.notifications, a.tracker, feed.WithLogger(a.log)).Handle(),
	))

	// the profile router carries full paths, so it is attached without a prefix
	profiles := a.guard.RequireAuth(profilemod.New(a.profiles, profilemod.WithLogger(a.log)).Handle())
	r.Handle("/u/*", profiles)
	r.Handle("/profile", profiles)
	r.Handle("/profile/*", profiles)

	throttle := ratelimiter.Middleware(a.loginLimiter, ratelimiter.ClientIP,
		ratelimiter.WithLogger(a.log),
		ratelimiter.WithDeniedHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = handler.JSONError(handler.ErrTooManyRequests).Render(w, r)
		})),
	)
	r.Mount("/", account.New(a.identity, a.profiles, a.guard,
		account.WithLogger(a.log),
		account.WithThrottle(throttle),
	).Handle())

	return r
}
