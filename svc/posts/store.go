package posts

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/socialdash/dashboard/pkg/broadcast"
	"github.com/socialdash/dashboard/pkg/logger"
	"github.com/socialdash/dashboard/pkg/scheduler"
)

// Store owns the ordered post feed (newest first) and publishes a full
// snapshot after every mutation, plus the derived dashboard badge state.
//
// Mutations are serialized; observers run synchronously while the store is
// locked, so they may read the store but must not mutate it.
type Store struct {
	mu      sync.Mutex
	posts   []Post
	seen    map[int64]struct{}
	fading  map[int64]pendingTask
	badgeAt *pendingTask
	token   uint64
	closed  bool

	postsSubj *broadcast.Subject[[]Post]
	dashSubj  *broadcast.Subject[DashboardState]

	seed      []Post
	sched     scheduler.Scheduler
	ids       IDGenerator
	fadeDelay time.Duration
	badge     BadgePolicy
	log       *slog.Logger
}

type pendingTask struct {
	token uint64
	task  scheduler.Task
}

// NewStore creates a Store. Without options it uses the wall clock, a 700ms
// fade delay and the deferred badge policy.
func NewStore(opts ...Option) *Store {
	s := &Store{
		seen:      make(map[int64]struct{}),
		fading:    make(map[int64]pendingTask),
		fadeDelay: DefaultFadeDelay,
		badge:     BadgeDeferred,
		log:       logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sched == nil {
		s.sched = scheduler.NewReal()
	}
	if s.ids == nil {
		s.ids = NewTimestampIDs(s.sched.Now)
	}

	s.posts = make([]Post, 0, len(s.seed))
	for _, p := range s.seed {
		p.normalize()
		if !p.IsNew {
			s.seen[p.ID] = struct{}{}
		}
		s.posts = append(s.posts, p)
	}
	s.seed = nil

	s.postsSubj = broadcast.NewSubject(s.posts, broadcast.WithCopy(slices.Clone[[]Post]))
	s.dashSubj = broadcast.NewSubject(DashboardState{Count: countNew(s.posts)})

	s.mu.Lock()
	s.resumeFading()
	s.mu.Unlock()

	return s
}

// Posts returns the current snapshot.
func (s *Store) Posts() []Post {
	return s.postsSubj.Value()
}

// Post returns the post with id, if present.
func (s *Store) Post(id int64) (Post, bool) {
	snapshot := s.postsSubj.Value()
	if i := indexOf(snapshot, id); i >= 0 {
		return snapshot[i], true
	}
	return Post{}, false
}

// Dashboard returns the current badge state.
func (s *Store) Dashboard() DashboardState {
	return s.dashSubj.Value()
}

// HasBeenSeen reports whether the post completed the seen transition.
func (s *Store) HasBeenSeen(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[id]
	return ok
}

// ObservePosts calls fn with the current snapshot and with every new one.
func (s *Store) ObservePosts(fn func([]Post)) (cancel func()) {
	return s.postsSubj.Observe(fn)
}

// ObserveDashboard calls fn with the current badge state and every change.
func (s *Store) ObserveDashboard(fn func(DashboardState)) (cancel func()) {
	return s.dashSubj.Observe(fn)
}

// SubscribePosts streams snapshots on a channel until ctx is done.
func (s *Store) SubscribePosts(ctx context.Context) broadcast.Subscriber[[]Post] {
	return s.postsSubj.Subscribe(ctx)
}

// SubscribeDashboard streams badge states on a channel until ctx is done.
func (s *Store) SubscribeDashboard(ctx context.Context) broadcast.Subscriber[DashboardState] {
	return s.dashSubj.Subscribe(ctx)
}

// AddPost prepends a new post with zeroed counters and isNew set.
func (s *Store) AddPost(author, content string) Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Post{}
	}

	id := s.ids.Next()
	for indexOf(s.posts, id) >= 0 {
		id = s.ids.Next()
	}

	p := Post{
		ID:      id,
		Author:  author,
		Content: content,
		IsNew:   true,
	}

	next := make([]Post, 0, len(s.posts)+1)
	next = append(next, p)
	next = append(next, s.posts...)
	s.commit(next)
	s.recomputeDashboard()

	s.log.Debug("post added", logger.PostID(p.ID))
	return p
}

// LikePost toggles likedByUser and moves likes by one in the same direction.
// It reports false when the post does not exist.
func (s *Store) LikePost(id int64) bool {
	return s.update(id, func(p *Post) bool {
		if p.LikedByUser {
			p.Likes = max(p.Likes-1, 0)
		} else {
			p.Likes++
		}
		p.LikedByUser = !p.LikedByUser
		return true
	})
}

// CommentPost increments the comment counter.
func (s *Store) CommentPost(id int64) bool {
	return s.update(id, func(p *Post) bool {
		p.Comments++
		return true
	})
}

// SharePost increments the share counter.
func (s *Store) SharePost(id int64) bool {
	return s.update(id, func(p *Post) bool {
		p.Shares++
		return true
	})
}

// MarkPostAsSeen starts the NEW -> FADING -> SEEN transition. The FADING
// snapshot is published at once; SEEN follows after the fade delay. Calls on
// missing, fading or seen posts are no-ops and report false.
func (s *Store) MarkPostAsSeen(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	i := indexOf(s.posts, id)
	if i < 0 {
		return false
	}
	next, err := lifecycle.Next(s.posts[i].Freshness(), EventMarkSeen)
	if err != nil {
		return false
	}

	posts := slices.Clone(s.posts)
	posts[i].setFreshness(next)
	s.commit(posts)
	s.scheduleFade(id)

	s.log.Debug("post fading", logger.PostID(id))
	return true
}

// UpdatePosts replaces the whole feed. Posts already seen stay seen,
// fadingOut without isNew is cleared, and fades in flight for posts that are
// gone or no longer fading are cancelled.
func (s *Store) UpdatePosts(posts []Post) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	next := make([]Post, len(posts))
	for i, p := range posts {
		if _, ok := s.seen[p.ID]; ok {
			p.setFreshness(FreshnessSeen)
		}
		p.normalize()
		next[i] = p
	}

	for id, pending := range s.fading {
		if j := indexOf(next, id); j < 0 || next[j].Freshness() != FreshnessFading {
			pending.task.Stop()
			delete(s.fading, id)
		}
	}

	s.commit(next)
	s.resumeFading()
	s.recomputeDashboard()
}

// Close cancels pending timers and closes every stream.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	for id, pending := range s.fading {
		pending.task.Stop()
		delete(s.fading, id)
	}
	if s.badgeAt != nil {
		s.badgeAt.task.Stop()
		s.badgeAt = nil
	}
	s.mu.Unlock()

	return errors.Join(s.postsSubj.Close(), s.dashSubj.Close())
}

func (s *Store) update(id int64, fn func(*Post) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	i := indexOf(s.posts, id)
	if i < 0 {
		return false
	}

	next := slices.Clone(s.posts)
	if !fn(&next[i]) {
		return false
	}
	s.commit(next)
	return true
}

// commit swaps the canonical slice and publishes it. Callers hold s.mu and
// must never modify next afterwards.
func (s *Store) commit(next []Post) {
	s.posts = next
	s.postsSubj.Publish(next)
}

func (s *Store) nextToken() uint64 {
	s.token++
	return s.token
}

func (s *Store) scheduleFade(id int64) {
	token := s.nextToken()
	task := s.sched.AfterFunc(s.fadeDelay, func() { s.completeFade(id, token) })
	s.fading[id] = pendingTask{token: token, task: task}
}

// resumeFading schedules a fade for FADING posts that have no timer, which
// happens when they arrive through seeding or UpdatePosts.
func (s *Store) resumeFading() {
	for _, p := range s.posts {
		if p.Freshness() != FreshnessFading {
			continue
		}
		if _, ok := s.fading[p.ID]; !ok {
			s.scheduleFade(p.ID)
		}
	}
}

func (s *Store) completeFade(id int64, token uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, ok := s.fading[id]
	if s.closed || !ok || pending.token != token {
		return
	}
	delete(s.fading, id)

	i := indexOf(s.posts, id)
	if i < 0 {
		s.log.Debug("fade fired for missing post", logger.PostID(id))
		return
	}
	next, err := lifecycle.Next(s.posts[i].Freshness(), EventFadeElapsed)
	if err != nil {
		return
	}

	posts := slices.Clone(s.posts)
	posts[i].setFreshness(next)
	s.seen[id] = struct{}{}
	s.commit(posts)
	s.recomputeDashboard()

	s.log.Debug("post seen", logger.PostID(id))
}

// recomputeDashboard publishes the badge state for the current feed. With
// the deferred policy, dropping from a non-zero count to zero first
// republishes the old count with Fading set and settles to zero one fade
// delay later.
func (s *Store) recomputeDashboard() {
	count := countNew(s.posts)
	prev := s.dashSubj.Value()

	switch {
	case count == 0 && s.badgeAt != nil:
		// already fading out
	case count == 0 && prev.Count > 0 && s.badge == BadgeDeferred:
		s.dashSubj.Publish(DashboardState{Count: prev.Count, Fading: true})
		token := s.nextToken()
		task := s.sched.AfterFunc(s.fadeDelay, func() { s.settleBadge(token) })
		s.badgeAt = &pendingTask{token: token, task: task}
	default:
		if s.badgeAt != nil {
			s.badgeAt.task.Stop()
			s.badgeAt = nil
		}
		s.dashSubj.Publish(DashboardState{Count: count})
	}
}

func (s *Store) settleBadge(token uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.badgeAt == nil || s.badgeAt.token != token {
		return
	}
	s.badgeAt = nil
	s.dashSubj.Publish(DashboardState{Count: countNew(s.posts)})
}
