package statemachine

import (
	"fmt"
)

// Option configures a Table during construction.
type Option[S, E comparable] func(*Table[S, E]) error

// TransitionOption configures a single transition.
type TransitionOption[S, E comparable] func(*Transition[S, E])

// New builds a Table from the given options.
func New[S, E comparable](opts ...Option[S, E]) (*Table[S, E], error) {
	t := &Table[S, E]{
		transitions: make(map[S]map[E][]Transition[S, E]),
	}
	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// MustNew is like New but panics on error. Tables are built at package init,
// so a broken table must stop the program before it serves anything.
func MustNew[S, E comparable](opts ...Option[S, E]) *Table[S, E] {
	t, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("statemachine: %v", err))
	}
	return t
}

// WithTransition registers from --event--> to.
func WithTransition[S, E comparable](from S, event E, to S, opts ...TransitionOption[S, E]) Option[S, E] {
	return func(t *Table[S, E]) error {
		tr := Transition[S, E]{From: from, Event: event, To: to}
		for _, opt := range opts {
			opt(&tr)
		}
		for _, existing := range t.transitions[from][event] {
			if existing.To == to && len(existing.Guards) == 0 && len(tr.Guards) == 0 {
				return fmt.Errorf("%w: %v --%v--> %v registered twice", ErrDuplicateTransition, from, event, to)
			}
		}
		t.add(tr)
		return nil
	}
}

// WithGuard adds a guard to a transition. Nil guards are ignored.
func WithGuard[S, E comparable](g Guard[S, E]) TransitionOption[S, E] {
	return func(tr *Transition[S, E]) {
		if g != nil {
			tr.Guards = append(tr.Guards, g)
		}
	}
}
