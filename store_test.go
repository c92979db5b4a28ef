package rslock_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legas7/rslock"
)

// TestStore_ReleaseMismatch confirms that writing an unrelated value at a
// key makes try_release report false; only the matching value makes it
// report true and actually delete the key.
func TestStore_ReleaseMismatch(t *testing.T) {
	_, clients := newStores(t, 1)
	store := rslock.NewRedisStore(clients[0])
	ctx := context.Background()

	require.NoError(t, clients[0].Set(ctx, "k", "someone-elses-value", 0).Err())

	ok := store.TryRelease(ctx, "k", []byte("our-value"))
	assert.False(t, ok, "release must not succeed against a mismatched value")

	require.NoError(t, clients[0].Set(ctx, "k", "our-value", 0).Err())
	ok = store.TryRelease(ctx, "k", []byte("our-value"))
	assert.True(t, ok, "release must succeed once the value matches")

	exists, err := clients[0].Exists(ctx, "k").Result()
	require.NoError(t, err)
	assert.Zero(t, exists, "key must be gone after a matching release")
}

func TestStore_AcquireIsConditional(t *testing.T) {
	_, clients := newStores(t, 1)
	store := rslock.NewRedisStore(clients[0])
	ctx := context.Background()

	ok := store.TryAcquire(ctx, "k", []byte("v1"), time.Second)
	assert.True(t, ok)

	ok = store.TryAcquire(ctx, "k", []byte("v2"), time.Second)
	assert.False(t, ok, "acquiring an already-set key must fail")
}

func TestStore_ExtendMismatch(t *testing.T) {
	_, clients := newStores(t, 1)
	store := rslock.NewRedisStore(clients[0])
	ctx := context.Background()

	require.NoError(t, clients[0].Set(ctx, "k", "v1", 0).Err())

	ok := store.TryExtend(ctx, "k", []byte("not-v1"), time.Second)
	assert.False(t, ok)

	ok = store.TryExtend(ctx, "k", []byte("v1"), time.Second)
	assert.True(t, ok)
}
