package domain

import "strings"

// Separator joins the segments of a qualified state name, root to leaf.
const Separator = "."

// State is a node in the hierarchical state tree.
//
// The tree is built top-down (parents own their children) but walked bottom-up
// during transitions, so Parent is a plain non-owning back-reference. The
// machine's state registry is the only owner of nodes; they are never removed
// at runtime.
type State struct {
	// local is the name segment of this node, without ancestor prefixes.
	local string

	Parent   *State
	Children []*State

	// OnEnter and OnExit run in order when the state is entered/exited.
	OnEnter []Callback
	OnExit  []Callback

	// IgnoreInvalidTriggers downgrades an unknown trigger fired while this
	// state is active from an error to a logged no-op.
	IgnoreInvalidTriggers bool
}

// NewState creates a detached state node with the given local name.
func NewState(local string) *State {
	return &State{local: local}
}

// LocalName returns the node's own name segment.
func (s *State) LocalName() string { return s.local }

// Name returns the qualified name: ancestor segments joined by Separator,
// root to leaf.
func (s *State) Name() string {
	if s.Parent == nil {
		return s.local
	}
	return s.Parent.Name() + Separator + s.local
}

// Level returns the depth of the node; root states are level 0.
func (s *State) Level() int {
	if s.Parent == nil {
		return 0
	}
	return s.Parent.Level() + 1
}

// IsLeaf reports whether the node has no children. Only leaves can be active.
func (s *State) IsLeaf() bool { return len(s.Children) == 0 }

// Path returns the name segments from the root to this node.
func (s *State) Path() []string {
	return strings.Split(s.Name(), Separator)
}

// Enter fires the on-enter callbacks in registration order.
func (s *State) Enter(ev *EventData) {
	for _, cb := range s.OnEnter {
		cb(ev)
	}
}

// Exit fires the on-exit callbacks in registration order.
func (s *State) Exit(ev *EventData) {
	for _, cb := range s.OnExit {
		cb(ev)
	}
}

// ExitNested exits this state and every ancestor below the ancestor shared
// with target, deepest first. It returns the cutoff level: the level of the
// last state exited. States at or above the shared ancestor are not touched.
//
// A nil target (or either side already at the root level) degrades to exiting
// the whole chain up to and including the root.
func (s *State) ExitNested(ev *EventData, target *State) int {
	if target == nil || target.Level() == 0 || s.Level() == 0 {
		s.Exit(ev)
		if s.Parent != nil {
			return s.Parent.ExitNested(ev, nil)
		}
		return 0
	}

	if s.Level() > target.Level() {
		// Deeper nodes exit first; keep climbing until the levels align.
		s.Exit(ev)
		return s.Parent.ExitNested(ev, target)
	}

	// Align the target's chain to our level, then climb both chains in
	// lockstep until the parents meet.
	aligned := target
	for aligned.Level() != s.Level() {
		aligned = aligned.Parent
	}
	cur := s
	for cur.Level() > 0 && aligned.Parent.Name() != cur.Parent.Name() {
		cur.Exit(ev)
		cur = cur.Parent
		aligned = aligned.Parent
	}
	cur.Exit(ev)
	return cur.Level()
}

// EnterNested enters this state and every ancestor strictly below stopLevel,
// shallowest first, so parents are entered before their children. A negative
// stopLevel enters only this node.
func (s *State) EnterNested(ev *EventData, stopLevel int) {
	if stopLevel >= 0 && s.Level() > stopLevel && s.Parent != nil {
		s.Parent.EnterNested(ev, stopLevel)
	}
	s.Enter(ev)
}
