// Package posts keeps the social feed in memory.
//
// A Store owns the ordered list of posts, newest first, and republishes an
// immutable snapshot after every mutation. New posts carry a "new" highlight
// that goes through new -> fading -> seen once the post has been looked at
// for long enough; the fade step is timed by a scheduler.Scheduler so tests
// can drive it with a virtual clock.
//
// The Store also publishes a DashboardState with the number of posts still
// new, for the "new posts" badge.
package posts
