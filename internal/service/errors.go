package service

import (
	"errors"
	"fmt"

	"github.com/lyfstyl-ux/fightcaster/internal/engine"
)

// NotFoundError reports a missing battle, state, user, character or
// challenge.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// ForbiddenError reports an actor acting on something that is not theirs.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string { return e.Reason }

// InvalidStateError reports a request that is well formed but not allowed
// in the current state of the record, or carries bad game data.
type InvalidStateError struct {
	Reason string
	Err    error
}

func (e *InvalidStateError) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

func (e *InvalidStateError) Unwrap() error { return e.Err }

const (
	ReasonNotYourTurn       = "not your turn"
	ReasonNotParticipant    = "not a participant in this battle"
	ReasonNotRecipient      = "challenge is addressed to another user"
	ReasonBattleCompleted   = "battle already completed"
	ReasonChallengeResolved = "challenge is no longer pending"
	ReasonSelfChallenge     = "cannot challenge yourself"
	ReasonSamePlayers       = "a battle needs two different players"
	ReasonInvalidAction     = "invalid action"
	ReasonBattleNotFinished = "battle is not completed yet"
)

func notFound(resource string, id uint) error {
	return &NotFoundError{Resource: resource, ID: id}
}

func forbidden(reason string) error {
	return &ForbiddenError{Reason: reason}
}

func invalidState(reason string) error {
	return &InvalidStateError{Reason: reason}
}

// fromEngine turns engine validation failures into InvalidStateError and
// passes anything else through.
func fromEngine(err error) error {
	var rangeErr *engine.RangeError
	var cdErr *engine.CooldownError
	switch {
	case errors.Is(err, engine.ErrBattleCompleted):
		return &InvalidStateError{Reason: ReasonBattleCompleted, Err: err}
	case errors.Is(err, engine.ErrUnknownActionType), errors.As(err, &rangeErr), errors.As(err, &cdErr):
		return &InvalidStateError{Reason: ReasonInvalidAction, Err: err}
	}
	return err
}
