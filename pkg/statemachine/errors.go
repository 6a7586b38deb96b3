package statemachine

import (
	"errors"
	"fmt"
)

var ErrDuplicateTransition = errors.New("duplicate transition")

// ErrNoTransitionAvailable indicates no transition is registered for the state/event pair.
type ErrNoTransitionAvailable struct {
	StateName string
	EventName string
}

func (e *ErrNoTransitionAvailable) Error() string {
	return fmt.Sprintf("no transition available from state '%s' for event '%s'", e.StateName, e.EventName)
}

func NewErrNoTransitionAvailable(state, event any) *ErrNoTransitionAvailable {
	return &ErrNoTransitionAvailable{
		StateName: fmt.Sprint(state),
		EventName: fmt.Sprint(event),
	}
}

// ErrTransitionRejected indicates every matching transition was blocked by a guard.
type ErrTransitionRejected struct {
	StateName string
	EventName string
}

func (e *ErrTransitionRejected) Error() string {
	return fmt.Sprintf("transition from state '%s' for event '%s' was rejected by guards", e.StateName, e.EventName)
}

func NewErrTransitionRejected(state, event any) *ErrTransitionRejected {
	return &ErrTransitionRejected{
		StateName: fmt.Sprint(state),
		EventName: fmt.Sprint(event),
	}
}

func IsNoTransitionAvailableError(err error) bool {
	var e *ErrNoTransitionAvailable
	return errors.As(err, &e)
}

func IsTransitionRejectedError(err error) bool {
	var e *ErrTransitionRejected
	return errors.As(err, &e)
}
