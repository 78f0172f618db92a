package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alvion/transitions/pkg/domain"
	"github.com/alvion/transitions/pkg/ports"
)

func TestStore_Contract(t *testing.T) {
	ports.RunStateStoreContract(t, NewStore())
}

func TestStore_Isolation(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	snap := domain.NewSnapshot("idle", map[string]any{"cups": 1})
	require.NoError(t, store.Save(ctx, "s1", snap))

	// Mutating the saved snapshot does not leak into the store.
	snap.Advance("done")
	snap.Context["cups"] = 99

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "idle", loaded.Current)
	assert.Equal(t, 1, loaded.Context["cups"])

	// Mutating a loaded snapshot does not leak either.
	loaded.Advance("done")
	again, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "idle", again.Current)
}

func TestStore_List(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "a", domain.NewSnapshot("idle", nil)))
	require.NoError(t, store.Save(ctx, "b", domain.NewSnapshot("idle", nil)))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, ids)
}
