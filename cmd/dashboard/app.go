package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/socialdash/dashboard/pkg/httpserver"
	"github.com/socialdash/dashboard/pkg/logger"
	"github.com/socialdash/dashboard/pkg/mongo"
	"github.com/socialdash/dashboard/pkg/ratelimiter"
	"github.com/socialdash/dashboard/pkg/redis"
	"github.com/socialdash/dashboard/svc/identity"
	"github.com/socialdash/dashboard/svc/notifications"
	"github.com/socialdash/dashboard/svc/posts"
	"github.com/socialdash/dashboard/svc/profile"
	"github.com/socialdash/dashboard/svc/seed"
	"github.com/socialdash/dashboard/svc/visibility"
)

// app holds the wired services of one process.
type app struct {
	log *slog.Logger

	posts         *posts.Store
	notifications *notifications.Store
	tracker       *visibility.Tracker
	profiles      *profile.Service
	identity      *identity.Service
	guard         *identity.Middleware
	loginLimiter  *ratelimiter.Bucket

	checks  []httpserver.Check
	closers []func(context.Context) error
}

// newApp builds the services described by cfg. Without MONGODB_URL profiles
// and identities live in memory; without REDIS_URL so do sessions.
func newApp(ctx context.Context, cfg Config, log *slog.Logger) (_ *app, err error) {
	a := &app{log: log}
	defer func() {
		if err != nil {
			err = errors.Join(err, a.close(context.WithoutCancel(ctx)))
		}
	}()

	data, err := seed.Load(cfg.Feed.SeedFile)
	if err != nil {
		return nil, err
	}

	a.posts = posts.NewStore(
		posts.WithPosts(data.Posts),
		posts.WithFadeDelay(cfg.Feed.FadeDelay),
		posts.WithBadgePolicy(posts.BadgePolicy(cfg.Feed.BadgePolicy)),
		posts.WithLogger(log),
	)
	a.closers = append(a.closers, func(context.Context) error { return a.posts.Close() })

	a.notifications = notifications.NewStore(
		notifications.WithNotifications(data.Notifications),
		notifications.WithLogger(log),
	)
	a.closers = append(a.closers, func(context.Context) error { return a.notifications.Close() })

	a.tracker = visibility.NewTracker(a.posts,
		visibility.WithDwell(cfg.Feed.SeenDwell),
		visibility.WithLogger(log),
	)
	a.closers = append(a.closers, func(context.Context) error { return a.tracker.Close() })

	var (
		profileRepo profile.Repository      = profile.NewMemoryRepository()
		users       identity.UserRepository = identity.NewMemoryUserRepository()
		sessions    identity.SessionStore   = identity.NewMemorySessionStore(nil)
		limits      ratelimiter.Store
	)

	if cfg.Mongo.Enabled() {
		db, err := mongo.NewWithDatabase(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Client().Disconnect)
		a.checks = append(a.checks, httpserver.Check{Name: "mongo", Fn: mongo.Healthcheck(db.Client())})

		mongoProfiles := profile.NewMongoRepository(db)
		if err := mongoProfiles.EnsureIndexes(ctx); err != nil {
			return nil, fmt.Errorf("profile indexes: %w", err)
		}
		mongoUsers := identity.NewMongoUserRepository(db)
		if err := mongoUsers.EnsureIndexes(ctx); err != nil {
			return nil, fmt.Errorf("identity indexes: %w", err)
		}
		profileRepo, users = mongoProfiles, mongoUsers
		log.InfoContext(ctx, "profiles stored in mongo", slog.String("database", cfg.Mongo.Database))
	} else {
		log.WarnContext(ctx, "MONGODB_URL is empty, profiles and identities are kept in memory")
	}

	if cfg.Redis.Enabled() {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return client.Close() })
		a.checks = append(a.checks, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)})
		sessions = identity.NewRedisSessionStore(client)
		limits = ratelimiter.NewRedisStore(client)
	} else {
		log.WarnContext(ctx, "REDIS_URL is empty, sessions are kept in memory")
		mem := ratelimiter.NewMemoryStore()
		a.closers = append(a.closers, func(context.Context) error { return mem.Close() })
		limits = mem
	}

	a.loginLimiter, err = ratelimiter.NewBucket(limits, ratelimiter.Config{
		Capacity:       cfg.Login.Burst,
		RefillRate:     1,
		RefillInterval: cfg.Login.RefillInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("login rate limit: %w", err)
	}

	a.profiles = profile.NewService(profileRepo, profile.WithLogger(log))
	a.identity = identity.NewService(users, sessions, a.profiles,
		identity.WithSessionTTL(cfg.Session.TTL),
		identity.WithLogger(log),
	)
	a.guard = identity.NewMiddleware(a.identity,
		identity.WithSecureCookie(cfg.Session.CookieSecure),
		identity.WithMiddlewareLogger(log),
	)

	return a, nil
}

// close releases resources in reverse order of creation.
func (a *app) close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	if err := errors.Join(errs...); err != nil {
		a.log.ErrorContext(ctx, "shutdown", logger.Error(err))
		return err
	}
	return nil
}
