package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alvion/transitions/pkg/domain"
	"github.com/alvion/transitions/pkg/ports"
)

func newTestStore(t *testing.T, opts ...Option) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewFromClient(client, opts...), mr
}

func TestStore_Contract(t *testing.T) {
	store, _ := newTestStore(t)
	ports.RunStateStoreContract(t, store)
}

func TestStore_KeyPrefix(t *testing.T) {
	store, mr := newTestStore(t, WithPrefix("hsm:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s1", domain.NewSnapshot("idle", nil)))
	assert.True(t, mr.Exists("hsm:s1"))
	assert.False(t, mr.Exists("transitions:session:s1"))
}

func TestStore_TTL(t *testing.T) {
	store, mr := newTestStore(t, WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s1", domain.NewSnapshot("idle", nil)))

	mr.FastForward(2 * time.Minute)
	_, err := store.Load(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestStore_CorruptPayload(t *testing.T) {
	store, mr := newTestStore(t)
	require.NoError(t, mr.Set("transitions:session:bad", "not json"))

	_, err := store.Load(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSessionNotFound)
}
