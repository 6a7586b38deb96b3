package posts

import (
	"sync"
	"time"
)

// IDGenerator produces post identifiers.
type IDGenerator interface {
	Next() int64
}

// TimestampIDs derives ids from the creation time in milliseconds and bumps
// them when two posts land in the same millisecond, so ids strictly increase.
type TimestampIDs struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// NewTimestampIDs returns a generator reading time from now.
func NewTimestampIDs(now func() time.Time) *TimestampIDs {
	if now == nil {
		now = time.Now
	}
	return &TimestampIDs{now: now}
}

func (g *TimestampIDs) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}
