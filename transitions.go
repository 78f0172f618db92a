package transitions

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/alvion/transitions/internal/compiler"
	"github.com/alvion/transitions/internal/logging"
	"github.com/alvion/transitions/internal/runtime"
	"github.com/alvion/transitions/pkg/domain"
	"github.com/alvion/transitions/pkg/ports"
	"github.com/alvion/transitions/pkg/triggers"
)

const (
	// Wildcard as a transition source expands to every qualified state name
	// registered at the moment AddTransition is called.
	Wildcard = "*"

	// ToPrefix marks convenience "switch-to-state" trigger names. Triggers
	// named ToPrefix + <dotted path> are additionally reachable through the
	// trigger namespace tree.
	ToPrefix = "to_"

	// DefaultInitial is the name of the automatically created initial state.
	DefaultInitial = "initial"
)

// Machine is the public orchestrator: it compiles nested state specs through
// the flattener, owns the trigger namespace, and delegates registration and
// execution to the engine.
//
// A Machine assumes a single logical caller. Triggers run to completion;
// firing a trigger from inside a callback returns domain.ErrMachineBusy.
type Machine struct {
	engine *runtime.Engine
	tree   *triggers.Node
	named  map[string]domain.TriggerFunc

	logger                *slog.Logger
	hooks                 domain.LifecycleHooks
	initial               string
	autoTransitions       bool
	ignoreInvalidTriggers bool

	pendingStates []any
}

var _ ports.Definition = (*Machine)(nil)

// Option configures the Machine.
type Option func(*Machine)

// WithLogger sets a structured logger for the machine.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithLifecycleHooks registers observer hooks for transitions and state
// changes.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Machine) { m.hooks = hooks }
}

// WithInitial sets the name of the initial state (default "initial"). The
// state is created automatically if the declared states do not include it.
func WithInitial(name string) Option {
	return func(m *Machine) { m.initial = name }
}

// WithAutoTransitions controls the automatic to_<state> triggers (default on).
func WithAutoTransitions(enabled bool) Option {
	return func(m *Machine) { m.autoTransitions = enabled }
}

// WithIgnoreInvalidTriggers sets the machine-wide default for states that do
// not declare their own flag.
func WithIgnoreInvalidTriggers(ignore bool) Option {
	return func(m *Machine) { m.ignoreInvalidTriggers = ignore }
}

// WithStates declares states at construction time. Elements follow the
// AddStates forms.
func WithStates(specs ...any) Option {
	return func(m *Machine) { m.pendingStates = append(m.pendingStates, specs...) }
}

// New builds a machine positioned at its initial state.
func New(opts ...Option) (*Machine, error) {
	m := &Machine{
		named:           make(map[string]domain.TriggerFunc),
		tree:            triggers.NewTree(),
		logger:          logging.NewNop(),
		initial:         DefaultInitial,
		autoTransitions: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.engine = runtime.New(
		runtime.WithLogger(m.logger),
		runtime.WithLifecycleHooks(m.hooks),
	)

	if len(m.pendingStates) > 0 {
		if err := m.AddStates(m.pendingStates...); err != nil {
			return nil, err
		}
		m.pendingStates = nil
	}
	// The initial state is created automatically unless declared.
	if !m.engine.HasState(m.initial) {
		if err := m.AddStates(m.initial); err != nil {
			return nil, err
		}
	}
	if err := m.engine.SetState(m.initial); err != nil {
		return nil, err
	}
	return m, nil
}

// AddStates compiles nested spec elements and registers the flattened nodes.
// Accepted forms: a bare name, a domain.StateSpec, an already-built
// *domain.State, or another Machine (embedding; requires a parent, so only
// valid inside a StateSpec's Children).
//
// Deferred transitions produced by embedding are flushed afterwards; their
// order is unconstrained.
func (m *Machine) AddStates(specs ...any) error {
	res, err := compiler.Flatten(specs, nil, nil, compiler.Defaults{
		IgnoreInvalidTriggers: m.ignoreInvalidTriggers,
	})
	if err != nil {
		return err
	}
	for _, st := range res.States {
		if err := m.engine.AddState(st); err != nil {
			return err
		}
	}
	if m.autoTransitions {
		// Re-register the full to_<state> set so earlier states can also
		// reach states added in this batch.
		for _, name := range m.engine.StateNames() {
			if err := m.AddTransition(ToPrefix+name, Wildcard, name); err != nil {
				return err
			}
		}
	}
	for _, d := range res.Deferred {
		m.addTransition(d.Trigger, []string{d.Source}, d.Dest, d.Conditions, d.Before, d.After)
	}
	return nil
}

// TransitionOption configures guards and callbacks of a transition.
type TransitionOption func(*transitionConfig)

type transitionConfig struct {
	conditions []domain.Condition
	before     []domain.Callback
	after      []domain.Callback
}

// WithConditions adds guards that must all return true for the transition to
// fire.
func WithConditions(fns ...domain.ConditionFunc) TransitionOption {
	return func(c *transitionConfig) {
		for _, fn := range fns {
			c.conditions = append(c.conditions, domain.Condition{Fn: fn, Expected: true})
		}
	}
}

// WithUnless adds guards that must all return false for the transition to
// fire.
func WithUnless(fns ...domain.ConditionFunc) TransitionOption {
	return func(c *transitionConfig) {
		for _, fn := range fns {
			c.conditions = append(c.conditions, domain.Condition{Fn: fn, Expected: false})
		}
	}
}

// WithBefore adds callbacks run after the guards pass and before the state
// change.
func WithBefore(cbs ...domain.Callback) TransitionOption {
	return func(c *transitionConfig) { c.before = append(c.before, cbs...) }
}

// WithAfter adds callbacks run after the state change completes.
func WithAfter(cbs ...domain.Callback) TransitionOption {
	return func(c *transitionConfig) { c.after = append(c.after, cbs...) }
}

// AddTransition registers a transition for a trigger. A Wildcard source
// expands to the snapshot of currently registered qualified names. The first
// registration of a trigger binds it into the exact-name map and, for
// convenience-named triggers, into the namespace tree.
func (m *Machine) AddTransition(trigger, source, dest string, opts ...TransitionOption) error {
	if trigger == "" {
		return fmt.Errorf("transition trigger must not be empty")
	}
	var cfg transitionConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	sources := []string{source}
	if source == Wildcard {
		sources = m.engine.StateNames()
	}
	m.addTransition(trigger, sources, dest, cfg.conditions, cfg.before, cfg.after)
	return nil
}

func (m *Machine) addTransition(trigger string, sources []string, dest string,
	conds []domain.Condition, before, after []domain.Callback) {

	created := m.engine.AddTransition(trigger, sources, dest, conds, before, after)
	if !created {
		return
	}
	fire := func(args ...any) (bool, error) {
		return m.engine.Fire(trigger, args...)
	}
	m.named[trigger] = fire
	if strings.HasPrefix(trigger, ToPrefix) {
		path := strings.Split(trigger[len(ToPrefix):], domain.Separator)
		m.tree.Add(path, fire)
	}
}

// Fire dispatches a trigger by its exact registered name.
func (m *Machine) Fire(trigger string, args ...any) (bool, error) {
	return m.engine.Fire(trigger, args...)
}

// Trigger returns the callable bound to an exact trigger name.
func (m *Machine) Trigger(name string) (domain.TriggerFunc, bool) {
	fn, ok := m.named[name]
	return fn, ok
}

// To returns the root of the convenience trigger namespace. Chaining Child
// calls along a dotted state path reaches the auto-generated switch trigger:
// m.To().Walk("A", "B", "D").Call().
func (m *Machine) To() *triggers.Node { return m.tree }

// OnEnter appends an enter callback to the state with the given qualified
// name.
func (m *Machine) OnEnter(qualifiedName string, cb domain.Callback) error {
	st, err := m.engine.GetState(qualifiedName)
	if err != nil {
		return err
	}
	st.OnEnter = append(st.OnEnter, cb)
	return nil
}

// OnExit appends an exit callback to the state with the given qualified name.
func (m *Machine) OnExit(qualifiedName string, cb domain.Callback) error {
	st, err := m.engine.GetState(qualifiedName)
	if err != nil {
		return err
	}
	st.OnExit = append(st.OnExit, cb)
	return nil
}

// Current returns the active state.
func (m *Machine) Current() *domain.State { return m.engine.Current() }

// Is reports whether the active state has the given qualified name.
func (m *Machine) Is(qualifiedName string) bool {
	cur := m.engine.Current()
	return cur != nil && cur.Name() == qualifiedName
}

// SetState moves the active pointer without firing hooks, e.g. when resuming
// a persisted session.
func (m *Machine) SetState(qualifiedName string) error {
	return m.engine.SetState(qualifiedName)
}

// GetState resolves a qualified state name.
func (m *Machine) GetState(qualifiedName string) (*domain.State, error) {
	return m.engine.GetState(qualifiedName)
}

// StateNames returns the registered qualified names in registration order.
func (m *Machine) StateNames() []string { return m.engine.StateNames() }

// States returns the registered states in registration order. Part of the
// embeddable definition view.
func (m *Machine) States() []*domain.State { return m.engine.States() }

// EventTriggers returns the registered trigger names in registration order.
// Part of the embeddable definition view.
func (m *Machine) EventTriggers() []string { return m.engine.EventTriggers() }

// TransitionsFor returns the transitions registered for a trigger in
// registration order. Part of the embeddable definition view.
func (m *Machine) TransitionsFor(trigger string) []*domain.Transition {
	return m.engine.TransitionsFor(trigger)
}
