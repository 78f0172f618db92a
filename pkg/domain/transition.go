package domain

// Transition is a registered edge between two qualified state names.
// Conditions guard it; Before and After run around the state change.
type Transition struct {
	Source string
	Dest   string

	Conditions []Condition
	Before     []Callback
	After      []Callback
}

// Allowed reports whether every guard passes for the given event.
func (t *Transition) Allowed(ev *EventData) bool {
	for _, c := range t.Conditions {
		if !c.Check(ev) {
			return false
		}
	}
	return true
}

// DeferredTransition is a transition rewritten while embedding one machine
// inside another. Records are independent of each other: the orchestrator may
// flush them in any order through its normal transition registration.
type DeferredTransition struct {
	Trigger string
	Source  string
	Dest    string

	Conditions []Condition
	Before     []Callback
	After      []Callback
}
