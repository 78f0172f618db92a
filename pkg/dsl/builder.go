// Package dsl provides a fluent builder for nested state specs.
package dsl

import "github.com/alvion/transitions/pkg/domain"

// Builder collects root-level state definitions.
type Builder struct {
	roots []*StateBuilder
}

// New creates a new spec builder.
func New() *Builder {
	return &Builder{}
}

// State adds a root-level state and returns its builder. Adding a name twice
// returns the existing builder.
func (b *Builder) State(name string) *StateBuilder {
	for _, sb := range b.roots {
		if sb.spec.Name == name {
			return sb
		}
	}
	sb := &StateBuilder{spec: &domain.StateSpec{Name: name}}
	b.roots = append(b.roots, sb)
	return sb
}

// Specs compiles the builder into spec elements accepted by Machine.AddStates.
func (b *Builder) Specs() []any {
	out := make([]any, 0, len(b.roots))
	for _, sb := range b.roots {
		out = append(out, *sb.spec)
	}
	return out
}

// StateBuilder configures one state and its children.
type StateBuilder struct {
	spec *domain.StateSpec
}

// OnEnter appends enter callbacks.
func (sb *StateBuilder) OnEnter(cbs ...domain.Callback) *StateBuilder {
	sb.spec.OnEnter = append(sb.spec.OnEnter, cbs...)
	return sb
}

// OnExit appends exit callbacks.
func (sb *StateBuilder) OnExit(cbs ...domain.Callback) *StateBuilder {
	sb.spec.OnExit = append(sb.spec.OnExit, cbs...)
	return sb
}

// IgnoreInvalidTriggers sets the per-state flag, overriding the machine
// default.
func (sb *StateBuilder) IgnoreInvalidTriggers(ignore bool) *StateBuilder {
	sb.spec.IgnoreInvalidTriggers = &ignore
	return sb
}

// Child adds a nested child state and returns the child's builder for
// further nesting.
func (sb *StateBuilder) Child(name string) *StateBuilder {
	child := &StateBuilder{spec: &domain.StateSpec{Name: name}}
	sb.spec.Children = append(sb.spec.Children, child.spec)
	return child
}

// Leaves adds several leaf children at once.
func (sb *StateBuilder) Leaves(names ...string) *StateBuilder {
	for _, name := range names {
		sb.spec.Children = append(sb.spec.Children, name)
	}
	return sb
}

// Embed nests an already-built machine under this state. remap redirects the
// embedded machine's listed child names to external qualified names.
func (sb *StateBuilder) Embed(def any, remap map[string]string) *StateBuilder {
	sb.spec.Children = append(sb.spec.Children, def)
	if remap != nil {
		if sb.spec.Remap == nil {
			sb.spec.Remap = make(map[string]string, len(remap))
		}
		for k, v := range remap {
			sb.spec.Remap[k] = v
		}
	}
	return sb
}
