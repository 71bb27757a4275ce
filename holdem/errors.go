package holdem

import (
	"errors"
	"fmt"
)

var (
	ErrHandEnded      = errors.New("hand already ended")
	ErrHandInProgress = errors.New("hand in progress")
	ErrOutOfTurn      = errors.New("action out of turn")
)

// InvalidStateError reports a broken internal invariant (for example a chip
// conservation failure). It is fatal to the current hand and should never
// occur in a correct engine.
type InvalidStateError string

func (e InvalidStateError) Error() string { return "invalid state: " + string(e) }

func errInvalidState(msg string) error { return InvalidStateError(msg) }

// IllegalActionError rejects an action that violates the current legality
// rules. The hand state is untouched; the caller must resubmit.
type IllegalActionError struct {
	Action ActionType
	Reason string
}

func (e *IllegalActionError) Error() string {
	return fmt.Sprintf("illegal action %s: %s", e.Action, e.Reason)
}

func errIllegal(a ActionType, reason string) error {
	return &IllegalActionError{Action: a, Reason: reason}
}

// InsufficientStackError rejects an explicit bet or raise beyond the actor's
// available chips. The caller may resubmit as an all-in.
type InsufficientStackError struct {
	Action    ActionType
	Requested int64
	Available int64
}

func (e *InsufficientStackError) Error() string {
	return fmt.Sprintf("insufficient stack for %s: requested %d, available %d",
		e.Action, e.Requested, e.Available)
}
