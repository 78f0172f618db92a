// Package yamlspec loads declarative machine definitions from YAML. Callback
// and guard names in the document are resolved against a registry.Registry.
//
// Only the definition is read from YAML; runtime state is never serialized
// here.
package yamlspec

import (
	"fmt"
	"io"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/alvion/transitions"
	"github.com/alvion/transitions/pkg/domain"
	"github.com/alvion/transitions/pkg/registry"
)

// Config is the decoded machine definition.
type Config struct {
	Name                  string `mapstructure:"name"`
	Initial               string `mapstructure:"initial"`
	AutoTransitions       *bool  `mapstructure:"auto_transitions"`
	IgnoreInvalidTriggers bool   `mapstructure:"ignore_invalid_triggers"`

	// States holds raw elements: a bare name or a nested mapping.
	States []any `mapstructure:"states"`

	Transitions []TransitionConfig `mapstructure:"transitions"`
}

// StateConfig is the structured form of one state element.
type StateConfig struct {
	Name                  string            `mapstructure:"name"`
	OnEnter               []string          `mapstructure:"on_enter"`
	OnExit                []string          `mapstructure:"on_exit"`
	IgnoreInvalidTriggers *bool             `mapstructure:"ignore_invalid_triggers"`
	Children              []any             `mapstructure:"children"`
	Remap                 map[string]string `mapstructure:"remap"`
}

// TransitionConfig is one transition entry.
type TransitionConfig struct {
	Trigger    string   `mapstructure:"trigger"`
	Source     string   `mapstructure:"source"`
	Dest       string   `mapstructure:"dest"`
	Conditions []string `mapstructure:"conditions"`
	Unless     []string `mapstructure:"unless"`
	Before     []string `mapstructure:"before"`
	After      []string `mapstructure:"after"`
}

// Parse decodes a YAML machine definition.
func Parse(data []byte) (*Config, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse machine definition: %w", err)
	}
	var cfg Config
	if err := mapstructure.Decode(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode machine definition: %w", err)
	}
	return &cfg, nil
}

// Load parses a definition and builds the machine in one step.
func Load(r io.Reader, reg *registry.Registry, opts ...transitions.Option) (*transitions.Machine, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read machine definition: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return cfg.Build(reg, opts...)
}

// Build constructs a machine from the definition. reg may be nil when the
// definition names no callbacks.
func (c *Config) Build(reg *registry.Registry, opts ...transitions.Option) (*transitions.Machine, error) {
	specs, err := c.stateSpecs(reg, c.States)
	if err != nil {
		return nil, err
	}

	machineOpts := make([]transitions.Option, 0, len(opts)+3)
	if c.Initial != "" {
		machineOpts = append(machineOpts, transitions.WithInitial(c.Initial))
	}
	if c.AutoTransitions != nil {
		machineOpts = append(machineOpts, transitions.WithAutoTransitions(*c.AutoTransitions))
	}
	machineOpts = append(machineOpts, transitions.WithIgnoreInvalidTriggers(c.IgnoreInvalidTriggers))
	machineOpts = append(machineOpts, opts...)
	machineOpts = append(machineOpts, transitions.WithStates(specs...))

	m, err := transitions.New(machineOpts...)
	if err != nil {
		return nil, err
	}

	for _, t := range c.Transitions {
		if t.Trigger == "" || t.Source == "" || t.Dest == "" {
			return nil, fmt.Errorf("transition requires trigger, source and dest: %+v", t)
		}
		topts, err := c.transitionOptions(reg, t)
		if err != nil {
			return nil, err
		}
		if err := m.AddTransition(t.Trigger, t.Source, t.Dest, topts...); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (c *Config) stateSpecs(reg *registry.Registry, elements []any) ([]any, error) {
	specs := make([]any, 0, len(elements))
	for _, el := range elements {
		switch v := el.(type) {
		case string:
			specs = append(specs, v)
		case map[string]any:
			var sc StateConfig
			if err := mapstructure.Decode(v, &sc); err != nil {
				return nil, fmt.Errorf("failed to decode state: %w", err)
			}
			spec, err := c.toSpec(reg, &sc)
			if err != nil {
				return nil, err
			}
			specs = append(specs, spec)
		default:
			return nil, fmt.Errorf("unsupported state element %T", el)
		}
	}
	return specs, nil
}

func (c *Config) toSpec(reg *registry.Registry, sc *StateConfig) (*domain.StateSpec, error) {
	if sc.Name == "" {
		return nil, fmt.Errorf("state entry missing name")
	}
	onEnter, err := resolveCallbacks(reg, sc.OnEnter)
	if err != nil {
		return nil, fmt.Errorf("state %s: %w", sc.Name, err)
	}
	onExit, err := resolveCallbacks(reg, sc.OnExit)
	if err != nil {
		return nil, fmt.Errorf("state %s: %w", sc.Name, err)
	}
	children, err := c.stateSpecs(reg, sc.Children)
	if err != nil {
		return nil, fmt.Errorf("state %s: %w", sc.Name, err)
	}
	return &domain.StateSpec{
		Name:                  sc.Name,
		OnEnter:               onEnter,
		OnExit:                onExit,
		IgnoreInvalidTriggers: sc.IgnoreInvalidTriggers,
		Children:              children,
		Remap:                 sc.Remap,
	}, nil
}

func (c *Config) transitionOptions(reg *registry.Registry, t TransitionConfig) ([]transitions.TransitionOption, error) {
	var opts []transitions.TransitionOption
	conds, err := resolveConditions(reg, t.Conditions)
	if err != nil {
		return nil, fmt.Errorf("transition %s: %w", t.Trigger, err)
	}
	if len(conds) > 0 {
		opts = append(opts, transitions.WithConditions(conds...))
	}
	unless, err := resolveConditions(reg, t.Unless)
	if err != nil {
		return nil, fmt.Errorf("transition %s: %w", t.Trigger, err)
	}
	if len(unless) > 0 {
		opts = append(opts, transitions.WithUnless(unless...))
	}
	before, err := resolveCallbacks(reg, t.Before)
	if err != nil {
		return nil, fmt.Errorf("transition %s: %w", t.Trigger, err)
	}
	if len(before) > 0 {
		opts = append(opts, transitions.WithBefore(before...))
	}
	after, err := resolveCallbacks(reg, t.After)
	if err != nil {
		return nil, fmt.Errorf("transition %s: %w", t.Trigger, err)
	}
	if len(after) > 0 {
		opts = append(opts, transitions.WithAfter(after...))
	}
	return opts, nil
}

func resolveCallbacks(reg *registry.Registry, names []string) ([]domain.Callback, error) {
	if len(names) == 0 {
		return nil, nil
	}
	if reg == nil {
		return nil, fmt.Errorf("callbacks %v referenced but no registry provided", names)
	}
	return reg.Callbacks(names)
}

func resolveConditions(reg *registry.Registry, names []string) ([]domain.ConditionFunc, error) {
	if len(names) == 0 {
		return nil, nil
	}
	if reg == nil {
		return nil, fmt.Errorf("conditions %v referenced but no registry provided", names)
	}
	return reg.Conditions(names)
}
