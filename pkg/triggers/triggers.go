// Package triggers provides a navigable tree of trigger callables keyed by
// state-path segments. It backs the convenience "switch-to-state" triggers:
// every auto-generated to_<qualified name> trigger is reachable by chaining
// Child calls along the dotted path.
package triggers

import "github.com/alvion/transitions/pkg/domain"

// Node is one segment of the namespace. A node may hold a callable and child
// nodes at the same time: inner states are addressable targets themselves.
type Node struct {
	fn       domain.TriggerFunc
	children map[string]*Node
}

// NewTree returns an empty namespace root. The root never holds a callable.
func NewTree() *Node {
	return &Node{children: make(map[string]*Node)}
}

// Sanitize makes a path segment a valid identifier: segments starting with a
// digit get a leading underscore. Lookups apply the same rule, so callers may
// use the raw state name.
func Sanitize(segment string) string {
	if segment != "" && segment[0] >= '0' && segment[0] <= '9' {
		return "_" + segment
	}
	return segment
}

// Add merges a path into the tree and installs fn on the terminal node.
// Existing intermediate nodes are descended into, never replaced, so adding a
// path cannot disturb a sibling subtree.
func (n *Node) Add(path []string, fn domain.TriggerFunc) {
	if len(path) == 0 {
		n.fn = fn
		return
	}
	seg := Sanitize(path[0])
	child, ok := n.children[seg]
	if !ok {
		child = &Node{children: make(map[string]*Node)}
		n.children[seg] = child
	}
	child.Add(path[1:], fn)
}

// Child navigates one segment down. Returns nil if the segment is absent.
func (n *Node) Child(segment string) *Node {
	if n == nil {
		return nil
	}
	return n.children[Sanitize(segment)]
}

// Walk navigates a multi-segment path. Returns nil if any segment is absent.
func (n *Node) Walk(path ...string) *Node {
	cur := n
	for _, seg := range path {
		cur = cur.Child(seg)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Callable reports whether this node holds a trigger.
func (n *Node) Callable() bool {
	return n != nil && n.fn != nil
}

// Call invokes the trigger held by this node.
func (n *Node) Call(args ...any) (bool, error) {
	if !n.Callable() {
		return false, domain.ErrStateNotFound
	}
	return n.fn(args...)
}

// Segments lists the child segment names present on this node.
func (n *Node) Segments() []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.children))
	for seg := range n.children {
		out = append(out, seg)
	}
	return out
}
