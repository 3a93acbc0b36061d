package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewStore(rdb, "session"), mr
}

func TestPutGetRoundTrip(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "sid-1", "user-1", time.Minute))

	subject, ok, err := store.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "user-1", subject)
}

func TestGetAbsentSession(t *testing.T) {
	store, _ := testStore(t)

	subject, ok, err := store.Get(context.Background(), "never-put")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, subject)
}

func TestSessionExpires(t *testing.T) {
	store, mr := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "sid-1", "user-1", time.Minute))

	mr.FastForward(time.Minute + time.Second)

	_, ok, err := store.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteRevokesImmediately(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "sid-1", "user-1", time.Minute))
	require.NoError(t, store.Put(ctx, "sid-2", "user-1", time.Minute))

	removed, err := store.Delete(ctx, "sid-1", "sid-2", "sid-3", "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	_, ok, err := store.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteNothing(t *testing.T) {
	store, _ := testStore(t)

	removed, err := store.Delete(context.Background(), "", "")
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestStoreUnavailable(t *testing.T) {
	store, mr := testStore(t)
	ctx := context.Background()

	mr.Close()

	err := store.Put(ctx, "sid-1", "user-1", time.Minute)
	assert.ErrorIs(t, err, ErrUnavailable)

	_, _, err = store.Get(ctx, "sid-1")
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = store.Delete(ctx, "sid-1")
	assert.ErrorIs(t, err, ErrUnavailable)

	assert.ErrorIs(t, store.Ping(ctx), ErrUnavailable)
}

func TestKeyPrefixDefaults(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store := NewStore(rdb, "")
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "sid-1", "user-1", time.Minute))
	assert.True(t, mr.Exists("session:sid-1"))
}
