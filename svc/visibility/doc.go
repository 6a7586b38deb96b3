// Package visibility decides when an on-screen post stops being "new".
//
// The browser reports when a post element crosses the 50% visibility
// threshold. Once an element has been visible for the dwell period (2s by
// default) the Tracker calls MarkPostAsSeen for its post exactly once and
// forgets the element; the post store then runs its own fade delay.
package visibility
