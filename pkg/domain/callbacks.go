package domain

// Callback is a side-effect hook attached to state entry/exit or to the
// before/after phases of a transition.
type Callback func(ev *EventData)

// ConditionFunc is a transition guard. The transition only fires if every
// registered condition evaluates to its expected value.
type ConditionFunc func(ev *EventData) bool

// Condition pairs a guard with its expected outcome. "unless" guards are
// stored with Expected=false.
type Condition struct {
	Fn       ConditionFunc
	Expected bool
}

// Check evaluates the guard against the expectation.
func (c Condition) Check(ev *EventData) bool {
	return c.Fn(ev) == c.Expected
}

// TriggerFunc fires a named trigger on the machine. It reports whether a
// transition actually ran; a guard failure is (false, nil).
type TriggerFunc func(args ...any) (bool, error)
