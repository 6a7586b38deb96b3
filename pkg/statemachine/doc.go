// Package statemachine provides an immutable, generic transition table for
// finite state machines.
//
// A Table maps (state, event) pairs to a next state. It does not hold the
// current state: the entity that owns the state asks the table where an event
// leads and stores the answer itself. This keeps one table shareable across
// many entities (for example, every post in a feed) without locking.
//
// # Usage
//
//	type State string
//	type Event string
//
//	var lifecycle = statemachine.MustNew(
//		statemachine.WithTransition[State, Event]("new", "mark_seen", "fading"),
//		statemachine.WithTransition[State, Event]("fading", "fade_elapsed", "seen"),
//	)
//
//	next, err := lifecycle.Next("new", "mark_seen")
//	if statemachine.IsNoTransitionAvailableError(err) {
//		// the event does not apply in this state
//	}
//
// Guards registered with WithGuard are evaluated at Next time; when every
// candidate is rejected the returned error satisfies IsTransitionRejectedError.
package statemachine
