package entity

import (
	"fmt"
	"slices"

	"github.com/pkg/errors"
)

// ErrInvalidTransition is returned when a status change is not allowed by a transition table.
var ErrInvalidTransition = errors.New("invalid status transition")

// TransitionError describes a rejected status change.
type TransitionError struct {
	Kind string
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: cannot move from %q to %q", e.Kind, e.From, e.To)
}

// Unwrap lets errors.Is match ErrInvalidTransition.
func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

type transitionTable[S ~string] map[S][]S

func (t transitionTable[S]) allows(from, to S) bool {
	return slices.Contains(t[from], to)
}

func (t transitionTable[S]) check(kind string, from, to S) error {
	if t.allows(from, to) {
		return nil
	}

	return &TransitionError{Kind: kind, From: string(from), To: string(to)}
}
