package domain

import "time"

// Snapshot is the persistable execution state of one machine session: the
// qualified name of the active leaf, the visited history, and an optional
// session payload. Machine definitions themselves are never persisted.
type Snapshot struct {
	Current   string         `json:"current"`
	History   []string       `json:"history,omitempty"`
	Context   map[string]any `json:"context,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewSnapshot creates a snapshot positioned at the given qualified name.
func NewSnapshot(current string, payload map[string]any) *Snapshot {
	return &Snapshot{
		Current:   current,
		History:   []string{current},
		Context:   payload,
		UpdatedAt: time.Now(),
	}
}

// Clone returns a deep copy. Nested maps in the payload are copied; other
// payload values are shared.
func (s *Snapshot) Clone() *Snapshot {
	out := *s
	out.History = append([]string(nil), s.History...)
	if s.Context != nil {
		out.Context = cloneMap(s.Context)
	}
	return &out
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if sub, ok := v.(map[string]any); ok {
			out[k] = cloneMap(sub)
			continue
		}
		out[k] = v
	}
	return out
}

// Advance records a move to a new active state.
func (s *Snapshot) Advance(current string) {
	s.Current = current
	s.History = append(s.History, current)
	s.UpdatedAt = time.Now()
}
