package feed

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/socialdash/dashboard/handler"
	"github.com/socialdash/dashboard/pkg/binder"
	"github.com/socialdash/dashboard/pkg/logger"
	"github.com/socialdash/dashboard/svc/notifications"
	"github.com/socialdash/dashboard/svc/posts"
	"github.com/socialdash/dashboard/svc/visibility"
)

// Module serves the feed API: posts, the new-posts badge, notifications,
// visibility signals and the live SSE stream.
type Module struct {
	posts         *posts.Store
	notifications *notifications.Store
	tracker       *visibility.Tracker
	log           *slog.Logger
}

type Option func(*Module)

func WithLogger(l *slog.Logger) Option {
	return func(m *Module) {
		if l != nil {
			m.log = l
		}
	}
}

func New(p *posts.Store, n *notifications.Store, t *visibility.Tracker, opts ...Option) *Module {
	m := &Module{posts: p, notifications: n, tracker: t, log: logger.Discard()}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.With(logger.Component("feed"))
	return m
}

// Handle returns the feed routes. They expect an authenticated caller.
func (m *Module) Handle() http.Handler {
	r := chi.NewRouter()
	body := []handler.Bind{binder.JSON(), binder.Form()}

	r.Get("/posts", handler.Handle(m.log, m.listPosts))
	r.Post("/posts", handler.Handle(m.log, m.createPost, body...))
	r.Route("/posts/{id}", func(r chi.Router) {
		r.Post("/like", handler.Handle(m.log, m.postAction(m.posts.LikePost), binder.Path()))
		r.Post("/comment", handler.Handle(m.log, m.postAction(m.posts.CommentPost), binder.Path()))
		r.Post("/share", handler.Handle(m.log, m.postAction(m.posts.SharePost), binder.Path()))
		r.Post("/seen", handler.Handle(m.log, m.markSeen, binder.Path()))
	})
	r.Get("/dashboard", handler.Handle(m.log, m.dashboard))

	r.Route("/visibility", func(r chi.Router) {
		r.Post("/observe", handler.Handle(m.log, m.observe, body...))
		r.Post("/unobserve", handler.Handle(m.log, m.unobserve, body...))
		r.Post("/signal", handler.Handle(m.log, m.signal, body...))
	})

	r.Get("/notifications", handler.Handle(m.log, m.listNotifications))
	r.Post("/notifications", handler.Handle(m.log, m.addNotification, body...))
	r.Post("/notifications/read-all", handler.Handle(m.log, m.markAllRead))
	r.Post("/notifications/{index}/read", handler.Handle(m.log, m.markRead, binder.Path()))

	r.Get("/stream", handler.Handle(m.log, m.stream))

	return r
}
