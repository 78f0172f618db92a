package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransition_Allowed(t *testing.T) {
	yes := func(*EventData) bool { return true }
	no := func(*EventData) bool { return false }

	tests := []struct {
		name       string
		conditions []Condition
		want       bool
	}{
		{"no guards", nil, true},
		{"passing condition", []Condition{{Fn: yes, Expected: true}}, true},
		{"failing condition", []Condition{{Fn: no, Expected: true}}, false},
		{"passing unless", []Condition{{Fn: no, Expected: false}}, true},
		{"failing unless", []Condition{{Fn: yes, Expected: false}}, false},
		{"mixed, one fails", []Condition{
			{Fn: yes, Expected: true},
			{Fn: yes, Expected: false},
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &Transition{Source: "X", Dest: "Y", Conditions: tt.conditions}
			assert.Equal(t, tt.want, tr.Allowed(&EventData{}))
		})
	}
}
