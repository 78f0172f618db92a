package domain

import (
	"errors"
	"fmt"
)

// ErrStateNotFound is returned when a qualified state name is not registered.
var ErrStateNotFound = errors.New("state not found")

// ErrSessionNotFound is returned when a session ID cannot be found in a store.
var ErrSessionNotFound = errors.New("session not found")

// ErrMachineBusy is returned when a trigger is fired from within an
// in-progress transition. The machine is strictly run-to-completion.
var ErrMachineBusy = errors.New("machine busy: re-entrant trigger firing is not allowed")

// InvalidTriggerError is returned when a fired trigger has no registration on
// the active leaf or any of its ancestors.
type InvalidTriggerError struct {
	Trigger string
	State   string
}

func (e *InvalidTriggerError) Error() string {
	return fmt.Sprintf("can't trigger event %s from state %s", e.Trigger, e.State)
}
