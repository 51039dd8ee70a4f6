package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuard(t *testing.T) (*IdempotencyGuard, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewIdempotencyGuard(client, time.Hour), mr
}

func TestClaimOnce(t *testing.T) {
	guard, _ := newGuard(t)
	ctx := context.Background()

	id, ok, err := guard.Claim(ctx, "till-1-0001", "sale-a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "sale-a", id)

	id, ok, err = guard.Claim(ctx, "till-1-0001", "sale-b")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "sale-a", id)
}

func TestReleaseAllowsRetry(t *testing.T) {
	guard, _ := newGuard(t)
	ctx := context.Background()

	_, ok, err := guard.Claim(ctx, "k", "sale-a")
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, guard.Release(ctx, "k"))

	id, ok, err := guard.Claim(ctx, "k", "sale-b")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "sale-b", id)
}

func TestClaimExpires(t *testing.T) {
	guard, mr := newGuard(t)
	ctx := context.Background()

	_, ok, err := guard.Claim(ctx, "k", "sale-a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, mr.Exists(keyPrefix+"k"))

	mr.FastForward(2 * time.Hour)

	_, ok, err = guard.Claim(ctx, "k", "sale-b")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewFailsWithoutServer(t *testing.T) {
	_, err := New(context.Background(), "127.0.0.1:1", "", 0)
	require.Error(t, err)
}
