package posts

import (
	"github.com/socialdash/dashboard/pkg/statemachine"
)

// Post is a single feed entry. Values are copied into every snapshot, so a
// Post held by a subscriber never changes underneath it.
type Post struct {
	ID          int64  `json:"id" yaml:"id"`
	Author      string `json:"author" yaml:"author"`
	Content     string `json:"content" yaml:"content"`
	Likes       int    `json:"likes" yaml:"likes"`
	Comments    int    `json:"comments" yaml:"comments"`
	Shares      int    `json:"shares" yaml:"shares"`
	LikedByUser bool   `json:"likedByUser" yaml:"likedByUser"`
	IsNew       bool   `json:"isNew" yaml:"isNew"`
	FadingOut   bool   `json:"fadingOut" yaml:"fadingOut"`
}

// Freshness is the "new post" lifecycle state of a Post.
type Freshness string

const (
	FreshnessNew    Freshness = "new"
	FreshnessFading Freshness = "fading"
	FreshnessSeen   Freshness = "seen"
)

// FreshnessEvent drives Freshness transitions.
type FreshnessEvent string

const (
	EventMarkSeen    FreshnessEvent = "mark_seen"
	EventFadeElapsed FreshnessEvent = "fade_elapsed"
)

// lifecycle: new --mark_seen--> fading --fade_elapsed--> seen. Seen is terminal.
var lifecycle = statemachine.MustNew(
	statemachine.WithTransition(FreshnessNew, EventMarkSeen, FreshnessFading),
	statemachine.WithTransition(FreshnessFading, EventFadeElapsed, FreshnessSeen),
)

// Freshness derives the lifecycle state from the post flags.
func (p Post) Freshness() Freshness {
	switch {
	case !p.IsNew:
		return FreshnessSeen
	case p.FadingOut:
		return FreshnessFading
	default:
		return FreshnessNew
	}
}

func (p *Post) setFreshness(f Freshness) {
	p.IsNew = f != FreshnessSeen
	p.FadingOut = f == FreshnessFading
}

// normalize enforces fadingOut => isNew and keeps likes non-negative with
// likedByUser implying at least one like, so LikePost toggles symmetrically.
func (p *Post) normalize() {
	if p.FadingOut && !p.IsNew {
		p.FadingOut = false
	}
	if p.Likes < 0 {
		p.Likes = 0
	}
	if p.LikedByUser && p.Likes == 0 {
		p.LikedByUser = false
	}
}

// DashboardState is the "new posts" badge projection.
type DashboardState struct {
	Count  int  `json:"count"`
	Fading bool `json:"fading"`
}

// BadgePolicy selects how the dashboard badge behaves when the last new post is seen.
type BadgePolicy string

const (
	// BadgeDeferred keeps the previous count with Fading set for one fade
	// delay, then settles to zero.
	BadgeDeferred BadgePolicy = "deferred"
	// BadgeImmediate drops the count to zero at once.
	BadgeImmediate BadgePolicy = "immediate"
)

func countNew(posts []Post) int {
	n := 0
	for _, p := range posts {
		if p.IsNew {
			n++
		}
	}
	return n
}

func indexOf(posts []Post, id int64) int {
	for i, p := range posts {
		if p.ID == id {
			return i
		}
	}
	return -1
}
