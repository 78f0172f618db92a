package runtime

import "github.com/alvion/transitions/pkg/domain"

// FlatExecutor performs the plain state change: exit the source, move the
// pointer, enter the destination.
type FlatExecutor struct {
	Engine *Engine
}

func (x *FlatExecutor) ChangeState(t *domain.Transition, ev *domain.EventData) error {
	dest, err := x.Engine.GetState(t.Dest)
	if err != nil {
		return err
	}
	source := x.Engine.Current()
	if source != nil {
		source.Exit(ev)
	}
	x.Engine.SetCurrent(dest)
	ev.Update()
	dest.Enter(ev)
	return nil
}

// NestedExecutor performs the hierarchical state change. The exit walk
// returns the cutoff level at which source and destination chains share an
// ancestor; the matching enter walk stops there, so the common ancestor and
// everything above it are never disturbed.
//
// The active pointer moves exactly once, between the exit and enter phases.
// If a hook panics mid-sequence the pointer may already have moved while only
// part of the hook chain ran; atomicity is not guaranteed.
type NestedExecutor struct {
	Engine *Engine
}

func (x *NestedExecutor) ChangeState(t *domain.Transition, ev *domain.EventData) error {
	dest, err := x.Engine.GetState(t.Dest)
	if err != nil {
		return err
	}
	source := x.Engine.Current()

	cutoff := -1
	if source != nil {
		cutoff = source.ExitNested(ev, dest)
	}
	x.Engine.SetCurrent(dest)
	ev.Update()
	dest.EnterNested(ev, cutoff)
	return nil
}

// FlatResolver only matches transitions registered on the active state
// itself.
type FlatResolver struct{}

func (FlatResolver) Resolve(current *domain.State, registered func(string) bool) (*domain.State, bool) {
	if current != nil && registered(current.Name()) {
		return current, true
	}
	return nil, false
}

// NestedResolver bubbles from the active leaf up through its ancestors
// (inclusive) and stops at the first state with a registration. A trigger
// declared on an ancestor is therefore reachable from every descendant, and
// the declaration nearest the leaf wins.
type NestedResolver struct{}

func (NestedResolver) Resolve(current *domain.State, registered func(string) bool) (*domain.State, bool) {
	for tmp := current; tmp != nil; tmp = tmp.Parent {
		if registered(tmp.Name()) {
			return tmp, true
		}
	}
	return nil, false
}
