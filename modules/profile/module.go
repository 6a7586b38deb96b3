package profile

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/socialdash/dashboard/handler"
	"github.com/socialdash/dashboard/pkg/binder"
	"github.com/socialdash/dashboard/pkg/logger"
	"github.com/socialdash/dashboard/svc/profile"
)

// Module serves profile pages data and owner edits. Every route expects an
// authenticated caller; the session uid identifies the owner.
type Module struct {
	profiles *profile.Service
	log      *slog.Logger
}

type Option func(*Module)

func WithLogger(l *slog.Logger) Option {
	return func(m *Module) {
		if l != nil {
			m.log = l
		}
	}
}

func New(profiles *profile.Service, opts ...Option) *Module {
	m := &Module{profiles: profiles, log: logger.Discard()}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.With(logger.Component("profile"))
	return m
}

func (m *Module) Handle() http.Handler {
	r := chi.NewRouter()

	r.Get("/u/{username}", handler.Handle(m.log, m.byUsername, binder.Path()))

	r.Route("/profile", func(r chi.Router) {
		r.Patch("/", handler.Handle(m.log, m.update, binder.JSON(), binder.Form()))
		r.Get("/username-status", handler.Handle(m.log, m.usernameStatus, binder.Query()))
		r.Post("/picture", handler.Handle(m.log, m.setPicture, binder.Form()))
		r.Delete("/picture", handler.Handle(m.log, m.removePicture))
		r.Get("/{userId}", handler.Handle(m.log, m.byUserID, binder.Path()))
	})

	return r
}
