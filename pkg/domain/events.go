package domain

import "time"

// EventData carries the context of a fired trigger through guards, callbacks
// and the exit/enter sequence.
type EventData struct {
	// Trigger is the name the event was fired under.
	Trigger string

	// State is the machine's active state as of the last Update call. It is
	// the source leaf while exiting and the destination leaf afterwards.
	State *State

	// Transition is the candidate currently being executed.
	Transition *Transition

	// Args are the positional arguments passed to the trigger call.
	Args []any

	current func() *State
}

// NewEventData builds an EventData snapshot. current re-reads the machine's
// active state so Update can refresh the reference after the pointer moves.
func NewEventData(trigger string, state *State, args []any, current func() *State) *EventData {
	return &EventData{
		Trigger: trigger,
		State:   state,
		Args:    args,
		current: current,
	}
}

// Update refreshes the State reference from the machine. The engine calls it
// between the exit and enter phases of a transition.
func (ev *EventData) Update() {
	if ev.current != nil {
		ev.State = ev.current()
	}
}

// TransitionEvent describes a completed transition for lifecycle hooks.
type TransitionEvent struct {
	Trigger  string
	Source   string
	Dest     string
	Duration time.Duration
}

// StateEvent describes a state being entered or exited.
type StateEvent struct {
	Name    string
	Trigger string
}

// LifecycleHooks defines optional observer callbacks for machine activity.
// Nil members are skipped. Hooks must not fire triggers on the machine.
type LifecycleHooks struct {
	OnTransition     func(*TransitionEvent)
	OnStateEnter     func(*StateEvent)
	OnStateExit      func(*StateEvent)
	OnInvalidTrigger func(trigger, state string)
}
