package middleware

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alvion/transitions/pkg/adapters/memory"
	"github.com/alvion/transitions/pkg/domain"
)

func TestPIIMiddleware_MasksMatchingKeys(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewStore()
	store := NewPIIMiddleware([]string{"(?i)card", "^ssn$"})(inner)

	snap := domain.NewSnapshot("idle", map[string]any{
		"CreditCard": "4111-1111",
		"ssn":        "123-45-6789",
		"name":       "ada",
		"billing": map[string]any{
			"card_number": "5500",
			"city":        "london",
		},
	})
	require.NoError(t, store.Save(ctx, "s1", snap))

	stored, err := inner.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "***", stored.Context["CreditCard"])
	assert.Equal(t, "***", stored.Context["ssn"])
	assert.Equal(t, "ada", stored.Context["name"])

	billing := stored.Context["billing"].(map[string]any)
	assert.Equal(t, "***", billing["card_number"])
	assert.Equal(t, "london", billing["city"])

	// The caller's snapshot keeps the unmasked values.
	assert.Equal(t, "4111-1111", snap.Context["CreditCard"])
}

func TestPIIMiddleware_LoadAndDeletePassThrough(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewStore()
	store := NewPIIMiddleware([]string{"secret"})(inner)

	require.NoError(t, store.Save(ctx, "s1", domain.NewSnapshot("idle", nil)))
	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "idle", loaded.Current)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Load(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestChain_Ordering(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewStore()

	// PII first, then encryption: the envelope hides the already-masked
	// payload, and loading decrypts back to the masked form.
	store := Chain(inner,
		NewPIIMiddleware([]string{"card"}),
		NewEncryptionMiddleware(EncryptionConfig{ActiveKey: testKey(7)}),
	)

	snap := domain.NewSnapshot("idle", map[string]any{"card": "4111"})
	require.NoError(t, store.Save(ctx, "s1", snap))

	raw, err := inner.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "encrypted", raw.Current)

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "***", loaded.Context["card"])
}
