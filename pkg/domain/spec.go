package domain

// StateSpec is the structured form of a declarative state definition.
//
// A spec element handed to the machine may also be a bare string (shorthand
// for StateSpec{Name: ...}), an already-built *State, or a whole machine
// implementing the embeddable definition interface.
type StateSpec struct {
	Name    string
	OnEnter []Callback
	OnExit  []Callback

	// IgnoreInvalidTriggers falls back to the machine-wide default when nil.
	IgnoreInvalidTriggers *bool

	// Children holds nested spec elements (same forms as top-level elements).
	Children []any

	// Remap redirects child names to external qualified names while embedding.
	// A remapped name never creates a node; it only rewrites references.
	Remap map[string]string
}
