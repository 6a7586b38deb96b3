package posts

import (
	"log/slog"
	"time"

	"github.com/socialdash/dashboard/pkg/scheduler"
)

const (
	// DefaultFadeDelay matches the CSS transition of the "new" highlight.
	DefaultFadeDelay = 700 * time.Millisecond
)

// Option configures a Store.
type Option func(*Store)

// WithFadeDelay sets how long a post stays FADING and how long the badge
// fades. Non-positive values are ignored.
func WithFadeDelay(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.fadeDelay = d
		}
	}
}

// WithScheduler replaces the wall-clock scheduler.
func WithScheduler(sched scheduler.Scheduler) Option {
	return func(s *Store) {
		if sched != nil {
			s.sched = sched
		}
	}
}

// WithIDGenerator replaces the timestamp id generator.
func WithIDGenerator(ids IDGenerator) Option {
	return func(s *Store) {
		if ids != nil {
			s.ids = ids
		}
	}
}

// WithBadgePolicy selects the dashboard badge behavior. Unknown values are ignored.
func WithBadgePolicy(p BadgePolicy) Option {
	return func(s *Store) {
		switch p {
		case BadgeDeferred, BadgeImmediate:
			s.badge = p
		}
	}
}

// WithPosts seeds the store. The slice is copied.
func WithPosts(seed []Post) Option {
	return func(s *Store) {
		s.seed = append([]Post(nil), seed...)
	}
}

// WithLogger sets the logger. Nil keeps the discard logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}
