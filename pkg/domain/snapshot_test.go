package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshot_Advance(t *testing.T) {
	snap := NewSnapshot("idle", nil)
	assert.Equal(t, "idle", snap.Current)
	assert.Equal(t, []string{"idle"}, snap.History)

	snap.Advance("caffeinated.dispensing")
	assert.Equal(t, "caffeinated.dispensing", snap.Current)
	assert.Equal(t, []string{"idle", "caffeinated.dispensing"}, snap.History)
	assert.False(t, snap.UpdatedAt.IsZero())
}

func TestSnapshot_Clone(t *testing.T) {
	snap := NewSnapshot("idle", map[string]any{
		"user": map[string]any{"name": "ada"},
		"cups": 2,
	})

	clone := snap.Clone()
	clone.Advance("done")
	clone.Context["cups"] = 3
	clone.Context["user"].(map[string]any)["name"] = "grace"

	assert.Equal(t, "idle", snap.Current)
	assert.Equal(t, []string{"idle"}, snap.History)
	assert.Equal(t, 2, snap.Context["cups"])
	assert.Equal(t, "ada", snap.Context["user"].(map[string]any)["name"])
}

func TestSnapshot_CloneNilContext(t *testing.T) {
	snap := NewSnapshot("idle", nil)
	clone := snap.Clone()
	assert.Nil(t, clone.Context)
}
