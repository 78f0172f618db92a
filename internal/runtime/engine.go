// Package runtime implements the flat state machine engine: the state and
// event registries, transition execution with guard and callback evaluation,
// and the active-state pointer. Hierarchical behavior is supplied through the
// executor and resolver strategies from pkg/ports, not by overriding the
// engine.
package runtime

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/alvion/transitions/internal/logging"
	"github.com/alvion/transitions/pkg/domain"
	"github.com/alvion/transitions/pkg/ports"
)

// Engine is the flat machine core. It is not safe for concurrent use: exactly
// one logical caller drives the machine, and a fired trigger runs to
// completion before control returns.
type Engine struct {
	states map[string]*domain.State
	order  []string

	events     map[string]*Event
	eventOrder []string

	current *domain.State

	executor ports.TransitionExecutor
	resolver ports.EventResolver

	hooks  domain.LifecycleHooks
	logger *slog.Logger

	// busy blocks re-entrant firing from inside an in-progress transition.
	busy bool
}

// Option configures the engine.
type Option func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observer hooks. Hooks must be set before
// states are added: enter/exit instrumentation is attached at registration.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithExecutor overrides the state-change strategy.
func WithExecutor(x ports.TransitionExecutor) Option {
	return func(e *Engine) {
		e.executor = x
	}
}

// WithResolver overrides the event resolution strategy.
func WithResolver(r ports.EventResolver) Option {
	return func(e *Engine) {
		e.resolver = r
	}
}

// New creates an engine. The default strategies are the hierarchical ones.
func New(opts ...Option) *Engine {
	e := &Engine{
		states: make(map[string]*domain.State),
		events: make(map[string]*Event),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.executor == nil {
		e.executor = &NestedExecutor{Engine: e}
	}
	if e.resolver == nil {
		e.resolver = &NestedResolver{}
	}
	return e
}

// AddState registers a state under its qualified name. Names are unique
// machine-wide.
func (e *Engine) AddState(st *domain.State) error {
	name := st.Name()
	if _, ok := e.states[name]; ok {
		return fmt.Errorf("state %s already registered", name)
	}
	e.states[name] = st
	e.order = append(e.order, name)

	if e.hooks.OnStateEnter != nil {
		st.OnEnter = append(st.OnEnter, func(ev *domain.EventData) {
			e.hooks.OnStateEnter(&domain.StateEvent{Name: st.Name(), Trigger: ev.Trigger})
		})
	}
	if e.hooks.OnStateExit != nil {
		st.OnExit = append(st.OnExit, func(ev *domain.EventData) {
			e.hooks.OnStateExit(&domain.StateEvent{Name: st.Name(), Trigger: ev.Trigger})
		})
	}
	return nil
}

// GetState resolves a qualified name.
func (e *Engine) GetState(name string) (*domain.State, error) {
	st, ok := e.states[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrStateNotFound, name)
	}
	return st, nil
}

// HasState reports whether a qualified name is registered.
func (e *Engine) HasState(name string) bool {
	_, ok := e.states[name]
	return ok
}

// StateNames returns the registered qualified names in registration order.
// The slice is a snapshot: later registrations do not alter it.
func (e *Engine) StateNames() []string {
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

// States returns the registered states in registration order.
func (e *Engine) States() []*domain.State {
	out := make([]*domain.State, 0, len(e.order))
	for _, name := range e.order {
		out = append(out, e.states[name])
	}
	return out
}

// Current returns the active state.
func (e *Engine) Current() *domain.State { return e.current }

// SetCurrent moves the active pointer without firing any hooks. The nested
// executor uses it between the exit and enter phases; session restore uses it
// to resume a persisted snapshot.
func (e *Engine) SetCurrent(st *domain.State) { e.current = st }

// SetState resolves a qualified name and moves the active pointer to it.
func (e *Engine) SetState(name string) error {
	st, err := e.GetState(name)
	if err != nil {
		return err
	}
	e.current = st
	return nil
}

// AddTransition registers one transition per source for the trigger. It
// reports whether the trigger was seen for the first time, so the caller can
// bind its invocation surface.
func (e *Engine) AddTransition(trigger string, sources []string, dest string,
	conds []domain.Condition, before, after []domain.Callback) bool {

	ev, ok := e.events[trigger]
	if !ok {
		ev = newEvent(trigger, e)
		e.events[trigger] = ev
		e.eventOrder = append(e.eventOrder, trigger)
	}
	for _, src := range sources {
		ev.add(&domain.Transition{
			Source:     src,
			Dest:       dest,
			Conditions: conds,
			Before:     before,
			After:      after,
		})
	}
	return !ok
}

// Fire dispatches a trigger by name. A guard failure or an ignored invalid
// trigger is (false, nil); an unknown trigger on a non-ignoring leaf is an
// *domain.InvalidTriggerError.
func (e *Engine) Fire(trigger string, args ...any) (bool, error) {
	if e.busy {
		return false, domain.ErrMachineBusy
	}
	e.busy = true
	defer func() { e.busy = false }()

	ev, ok := e.events[trigger]
	if !ok {
		return e.invalidTrigger(trigger)
	}
	return ev.Trigger(args...)
}

// EventTriggers returns the registered trigger names in registration order.
func (e *Engine) EventTriggers() []string {
	out := make([]string, len(e.eventOrder))
	copy(out, e.eventOrder)
	return out
}

// TransitionsFor returns every transition registered for a trigger, in
// registration order.
func (e *Engine) TransitionsFor(trigger string) []*domain.Transition {
	ev, ok := e.events[trigger]
	if !ok {
		return nil
	}
	out := make([]*domain.Transition, len(ev.all))
	copy(out, ev.all)
	return out
}

// execute runs one candidate transition: guards, before callbacks, the
// pluggable state change, then after callbacks.
func (e *Engine) execute(t *domain.Transition, data *domain.EventData) (bool, error) {
	if !t.Allowed(data) {
		return false, nil
	}
	source := ""
	if e.current != nil {
		source = e.current.Name()
	}
	start := time.Now()

	for _, cb := range t.Before {
		cb(data)
	}
	if err := e.executor.ChangeState(t, data); err != nil {
		return false, err
	}
	for _, cb := range t.After {
		cb(data)
	}

	e.logger.Debug("transition fired",
		"trigger", data.Trigger, "source", source, "dest", t.Dest)
	if e.hooks.OnTransition != nil {
		e.hooks.OnTransition(&domain.TransitionEvent{
			Trigger:  data.Trigger,
			Source:   source,
			Dest:     t.Dest,
			Duration: time.Since(start),
		})
	}
	return true, nil
}

func (e *Engine) invalidTrigger(trigger string) (bool, error) {
	name := ""
	ignore := false
	if e.current != nil {
		name = e.current.Name()
		ignore = e.current.IgnoreInvalidTriggers
	}
	if e.hooks.OnInvalidTrigger != nil {
		e.hooks.OnInvalidTrigger(trigger, name)
	}
	if ignore {
		e.logger.Warn("invalid trigger ignored", "trigger", trigger, "state", name)
		return false, nil
	}
	return false, &domain.InvalidTriggerError{Trigger: trigger, State: name}
}

func (e *Engine) currentFn() *domain.State { return e.current }
