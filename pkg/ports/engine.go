package ports

import "github.com/alvion/transitions/pkg/domain"

// TransitionExecutor performs the state-change step of a transition. It is
// injected into the engine at construction, so hierarchical behavior replaces
// flat behavior without overriding the engine itself.
//
// ChangeState runs after the transition's guards and before callbacks; the
// engine runs the after callbacks once it returns.
type TransitionExecutor interface {
	ChangeState(t *domain.Transition, ev *domain.EventData) error
}

// EventResolver picks the state whose transition registrations serve a fired
// trigger. registered reports whether a qualified name has at least one
// transition for the trigger being resolved.
//
// The flat strategy only considers the active state; the hierarchical strategy
// bubbles from the active leaf up through its ancestors.
type EventResolver interface {
	Resolve(current *domain.State, registered func(qualifiedName string) bool) (*domain.State, bool)
}

// Definition is the read-only view of a machine that allows it to be embedded
// as a subtree of another machine.
type Definition interface {
	// States returns every registered state in registration order.
	States() []*domain.State

	// EventTriggers returns the registered trigger names in registration order.
	EventTriggers() []string

	// TransitionsFor returns every transition registered for a trigger, in
	// registration order.
	TransitionsFor(trigger string) []*domain.Transition
}
