package statemachine

// Guard decides at fire time whether a matching transition may proceed.
type Guard[S, E comparable] func(from S, event E) bool

// Transition moves From to To when Event fires and every guard passes.
type Transition[S, E comparable] struct {
	From   S
	Event  E
	To     S
	Guards []Guard[S, E]
}

// Table is an immutable transition table. The state itself lives with the
// entity that owns it, so one Table can drive any number of entities.
// A Table is safe for concurrent use once built.
type Table[S, E comparable] struct {
	transitions map[S]map[E][]Transition[S, E]
}

// Next returns the state reached from `from` on `event`.
// Transitions registered first win when several match.
func (t *Table[S, E]) Next(from S, event E) (S, error) {
	candidates := t.transitions[from][event]
	if len(candidates) == 0 {
		var zero S
		return zero, NewErrNoTransitionAvailable(from, event)
	}

	for _, tr := range candidates {
		if tr.allowed() {
			return tr.To, nil
		}
	}

	var zero S
	return zero, NewErrTransitionRejected(from, event)
}

// CanFire reports whether event would move an entity out of from.
func (t *Table[S, E]) CanFire(from S, event E) bool {
	_, err := t.Next(from, event)
	return err == nil
}

// IsTerminal reports whether no event is registered for s.
func (t *Table[S, E]) IsTerminal(s S) bool {
	return len(t.transitions[s]) == 0
}

func (t *Table[S, E]) add(tr Transition[S, E]) {
	if t.transitions[tr.From] == nil {
		t.transitions[tr.From] = make(map[E][]Transition[S, E])
	}
	t.transitions[tr.From][tr.Event] = append(t.transitions[tr.From][tr.Event], tr)
}

func (tr Transition[S, E]) allowed() bool {
	for _, g := range tr.Guards {
		if g != nil && !g(tr.From, tr.Event) {
			return false
		}
	}
	return true
}
