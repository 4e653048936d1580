package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client), mr
}

func TestRedisStore_GetSetConTTL(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "metrics:product")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "metrics:product", []byte(`{"a":1}`), 600*time.Second))
	got, ok, err := store.Get(ctx, "metrics:product")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"a":1}`, string(got))
	assert.Equal(t, 600*time.Second, mr.TTL("metrics:product"))

	mr.FastForward(601 * time.Second)
	_, ok, err = store.Get(ctx, "metrics:product")
	require.NoError(t, err)
	assert.False(t, ok, "la clave expira con el TTL")
}

func TestRedisStore_DeletePrefixSoloAfectaElPrefijo(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	// más claves que un lote de SCAN
	for i := 0; i < 450; i++ {
		require.NoError(t, mr.Set(fmt.Sprintf("list:brand:%d", i), "x"))
	}
	require.NoError(t, store.Set(ctx, "metrics:sales", []byte("1"), 0))

	require.NoError(t, store.DeletePrefix(ctx, "list:"))

	assert.Equal(t, []string{"metrics:sales"}, mr.Keys())
}

func TestRedisStore_DeletePrefixSinCoincidencias(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "metrics:sales", []byte("1"), 0))

	require.NoError(t, store.DeletePrefix(ctx, "list:"))

	assert.Equal(t, []string{"metrics:sales"}, mr.Keys())
}
