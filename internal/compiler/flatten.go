// Package compiler turns declarative nested state specs into the flat node
// list the machine registers, plus the deferred transition records produced
// when one machine is embedded inside another.
package compiler

import (
	"fmt"
	"strings"

	"github.com/alvion/transitions/pkg/domain"
	"github.com/alvion/transitions/pkg/ports"
)

// Defaults carries machine-wide settings applied to specs that omit them.
type Defaults struct {
	IgnoreInvalidTriggers bool
}

// Result is the output of a flatten pass: states in pre-order and the
// deferred transitions collected from embedded machines. Deferred records are
// independent; the caller may flush them in any order.
type Result struct {
	States   []*domain.State
	Deferred []domain.DeferredTransition
}

// Flatten compiles spec elements under parent (nil for root level) into a
// flat pre-order state list. Accepted element forms: a bare name, a
// domain.StateSpec, an already-built *domain.State, or a ports.Definition
// (embedding a whole machine as a subtree).
//
// remap names are skipped instead of created: they redirect references to
// external, already-existing states.
func Flatten(specs []any, parent *domain.State, remap map[string]string, defs Defaults) (*Result, error) {
	res := &Result{}
	for _, spec := range specs {
		switch s := spec.(type) {
		case string:
			if _, ok := remap[s]; ok {
				continue
			}
			node := domain.NewState(s)
			node.Parent = parent
			node.IgnoreInvalidTriggers = defs.IgnoreInvalidTriggers
			res.States = append(res.States, node)

		case domain.StateSpec:
			if err := flattenSpec(&s, parent, defs, res); err != nil {
				return nil, err
			}
		case *domain.StateSpec:
			if err := flattenSpec(s, parent, defs, res); err != nil {
				return nil, err
			}

		case *domain.State:
			res.States = append(res.States, s)

		case ports.Definition:
			if err := embed(s, parent, remap, res); err != nil {
				return nil, err
			}

		default:
			return nil, fmt.Errorf("unsupported state spec element %T", spec)
		}
	}
	return res, nil
}

func flattenSpec(spec *domain.StateSpec, parent *domain.State, defs Defaults, res *Result) error {
	if spec.Name == "" {
		return fmt.Errorf("state spec missing name")
	}
	node := domain.NewState(spec.Name)
	node.Parent = parent
	node.OnEnter = append(node.OnEnter, spec.OnEnter...)
	node.OnExit = append(node.OnExit, spec.OnExit...)
	node.IgnoreInvalidTriggers = defs.IgnoreInvalidTriggers
	if spec.IgnoreInvalidTriggers != nil {
		node.IgnoreInvalidTriggers = *spec.IgnoreInvalidTriggers
	}
	res.States = append(res.States, node)

	if len(spec.Children) == 0 {
		return nil
	}
	sub, err := Flatten(spec.Children, node, spec.Remap, defs)
	if err != nil {
		return fmt.Errorf("state %s: %w", node.Name(), err)
	}
	for _, child := range sub.States {
		if child.Parent == node {
			node.Children = append(node.Children, child)
		}
	}
	res.States = append(res.States, sub.States...)
	res.Deferred = append(res.Deferred, sub.Deferred...)
	return nil
}

// embed re-parents the root-level states of an already-built machine under
// parent and rewrites every transition registered on it into the new scope.
func embed(def ports.Definition, parent *domain.State, remap map[string]string, res *Result) error {
	if parent == nil {
		return fmt.Errorf("machine embedding requires a parent state")
	}

	for _, st := range def.States() {
		if st.Level() != 0 {
			continue
		}
		if _, ok := remap[st.LocalName()]; ok {
			continue
		}
		st.Parent = parent
		parent.Children = append(parent.Children, st)
		appendSubtree(st, res)
	}

	prefix := parent.Name() + domain.Separator
	for _, trigger := range def.EventTriggers() {
		rewritten := rescopeTrigger(trigger, parent)
		for _, t := range def.TransitionsFor(trigger) {
			src, ok := remap[t.Source]
			if !ok {
				src = prefix + t.Source
			}
			dst, ok := remap[t.Dest]
			if !ok {
				dst = prefix + t.Dest
			}
			res.Deferred = append(res.Deferred, domain.DeferredTransition{
				Trigger:    rewritten,
				Source:     src,
				Dest:       dst,
				Conditions: t.Conditions,
				Before:     t.Before,
				After:      t.After,
			})
		}
	}
	return nil
}

// appendSubtree adds a re-parented state and all of its descendants in
// pre-order, so deep states of an embedded machine stay addressable by their
// new qualified names.
func appendSubtree(st *domain.State, res *Result) {
	res.States = append(res.States, st)
	for _, child := range st.Children {
		appendSubtree(child, res)
	}
}

// rescopeTrigger rewrites a convenience "to_<path>" trigger so it addresses
// the state by its new, nested location: the new parent's path is spliced in
// right after the prefix. Other trigger names pass through unchanged.
func rescopeTrigger(trigger string, parent *domain.State) string {
	const toPrefix = "to_"
	if !strings.HasPrefix(trigger, toPrefix) {
		return trigger
	}
	path := strings.Split(trigger[len(toPrefix):], domain.Separator)
	ppath := parent.Path()
	segs := make([]string, 0, len(ppath)+len(path))
	segs = append(segs, toPrefix+ppath[0])
	segs = append(segs, ppath[1:]...)
	segs = append(segs, path...)
	return strings.Join(segs, domain.Separator)
}
