package notifications

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/socialdash/dashboard/pkg/broadcast"
	"github.com/socialdash/dashboard/pkg/logger"
)

// Store owns the notification list, newest first, and publishes a snapshot
// after every change. The unread count is derived from each snapshot.
type Store struct {
	mu     sync.Mutex
	items  []Notification
	closed bool

	subj       *broadcast.Subject[[]Notification]
	unread     *broadcast.Subject[int]
	stopUnread func()

	log *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithNotifications seeds the store. The slice is copied.
func WithNotifications(seed []Notification) Option {
	return func(s *Store) {
		s.items = slices.Clone(seed)
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// NewStore creates an empty Store unless seeded with WithNotifications.
func NewStore(opts ...Option) *Store {
	s := &Store{log: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	if s.items == nil {
		s.items = []Notification{}
	}

	s.subj = broadcast.NewSubject(s.items, broadcast.WithCopy(slices.Clone[[]Notification]))
	s.unread, s.stopUnread = broadcast.Map(s.subj, UnreadCount)
	return s
}

// Notifications returns the current snapshot.
func (s *Store) Notifications() []Notification {
	return s.subj.Value()
}

// UnreadCount returns the number of unread notifications.
func (s *Store) UnreadCount() int {
	return s.unread.Value()
}

func (s *Store) ObserveNotifications(fn func([]Notification)) (cancel func()) {
	return s.subj.Observe(fn)
}

func (s *Store) ObserveUnreadCount(fn func(int)) (cancel func()) {
	return s.unread.Observe(fn)
}

func (s *Store) SubscribeNotifications(ctx context.Context) broadcast.Subscriber[[]Notification] {
	return s.subj.Subscribe(ctx)
}

func (s *Store) SubscribeUnreadCount(ctx context.Context) broadcast.Subscriber[int] {
	return s.unread.Subscribe(ctx)
}

// AddNotification puts n at the head of the list.
func (s *Store) AddNotification(n Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	next := make([]Notification, 0, len(s.items)+1)
	next = append(next, n)
	next = append(next, s.items...)
	s.commit(next)
}

// MarkAllAsRead sets Read on every entry. A snapshot is published even when
// nothing was unread.
func (s *Store) MarkAllAsRead() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	next := slices.Clone(s.items)
	for i := range next {
		next[i].Read = true
	}
	s.commit(next)
}

// MarkAsRead sets Read on the entry at index. Out-of-range indexes report
// false and republish the unchanged list.
func (s *Store) MarkAsRead(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	next := slices.Clone(s.items)
	if index < 0 || index >= len(next) {
		s.log.Debug("notification index out of range", logger.NotificationIndex(index))
		s.commit(next)
		return false
	}

	next[index].Read = true
	s.commit(next)
	return true
}

// Close detaches the unread projection and closes every stream.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.stopUnread()
	return s.subj.Close()
}

func (s *Store) commit(next []Notification) {
	s.items = next
	s.subj.Publish(next)
}
