package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alvion/transitions/pkg/domain"
)

func TestRegistry_Callbacks(t *testing.T) {
	r := New()
	var calls []string
	r.RegisterCallback("a", func(*domain.EventData) { calls = append(calls, "a") })
	r.RegisterCallback("b", func(*domain.EventData) { calls = append(calls, "b") })

	cb, err := r.Callback("a")
	require.NoError(t, err)
	cb(nil)
	assert.Equal(t, []string{"a"}, calls)

	_, err = r.Callback("ghost")
	assert.ErrorContains(t, err, "ghost")

	resolved, err := r.Callbacks([]string{"b", "a"})
	require.NoError(t, err)
	require.Len(t, resolved, 2)
	calls = nil
	for _, cb := range resolved {
		cb(nil)
	}
	assert.Equal(t, []string{"b", "a"}, calls)

	_, err = r.Callbacks([]string{"a", "ghost"})
	assert.Error(t, err)
}

func TestRegistry_Conditions(t *testing.T) {
	r := New()
	r.RegisterCondition("yes", func(*domain.EventData) bool { return true })
	r.RegisterCondition("no", func(*domain.EventData) bool { return false })

	fn, err := r.Condition("yes")
	require.NoError(t, err)
	assert.True(t, fn(nil))

	_, err = r.Condition("ghost")
	assert.Error(t, err)

	resolved, err := r.Conditions([]string{"yes", "no"})
	require.NoError(t, err)
	require.Len(t, resolved, 2)
	assert.True(t, resolved[0](nil))
	assert.False(t, resolved[1](nil))
}

func TestRegistry_Overwrite(t *testing.T) {
	r := New()
	r.RegisterCondition("flag", func(*domain.EventData) bool { return false })
	r.RegisterCondition("flag", func(*domain.EventData) bool { return true })

	fn, err := r.Condition("flag")
	require.NoError(t, err)
	assert.True(t, fn(nil))
}
