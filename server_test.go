package redlock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniredisServer(t *testing.T) (Server, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	srv, err := NewServer(client, mr.Addr())
	require.NoError(t, err)
	return srv, mr
}

func TestNewServer_NilClient(t *testing.T) {
	_, err := NewServer(nil, "")
	assert.ErrorIs(t, err, ErrNilServer)
}

func TestServer_LockThenLockAgainNotApplied(t *testing.T) {
	srv, _ := newMiniredisServer(t)
	ctx := context.Background()

	out, err := srv.run(ctx, opLock, "r1", "v1", 1000)
	require.NoError(t, err)
	assert.Equal(t, outcomeApplied, out)

	out, err = srv.run(ctx, opLock, "r1", "v2", 1000)
	require.NoError(t, err)
	assert.Equal(t, outcomeNotApplied, out)
}

func TestServer_UnlockRequiresMatchingValue(t *testing.T) {
	srv, _ := newMiniredisServer(t)
	ctx := context.Background()

	_, err := srv.run(ctx, opLock, "r2", "owner", 1000)
	require.NoError(t, err)

	out, err := srv.run(ctx, opUnlock, "r2", "not-owner", 0)
	require.NoError(t, err)
	assert.Equal(t, outcomeNotApplied, out)

	out, err = srv.run(ctx, opUnlock, "r2", "owner", 0)
	require.NoError(t, err)
	assert.Equal(t, outcomeApplied, out)

	// Second unlock with the same value finds nothing left to delete.
	out, err = srv.run(ctx, opUnlock, "r2", "owner", 0)
	require.NoError(t, err)
	assert.Equal(t, outcomeNotApplied, out)
}

func TestServer_ExtendRequiresMatchingValueAndResetsTTL(t *testing.T) {
	srv, mr := newMiniredisServer(t)
	ctx := context.Background()

	_, err := srv.run(ctx, opLock, "r3", "owner", 1000)
	require.NoError(t, err)

	out, err := srv.run(ctx, opExtend, "r3", "wrong", 5000)
	require.NoError(t, err)
	assert.Equal(t, outcomeNotApplied, out)

	out, err = srv.run(ctx, opExtend, "r3", "owner", 5000)
	require.NoError(t, err)
	assert.Equal(t, outcomeApplied, out)

	ttl := mr.TTL("r3")
	assert.InDelta(t, 5*time.Second, ttl, float64(500*time.Millisecond))
}

func TestServer_TransportErrorOnClosedConnection(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	srv, err := NewServer(client, "closed")
	require.NoError(t, err)
	require.NoError(t, client.Close())

	out, err := srv.run(context.Background(), opLock, "r4", "v", 1000)
	assert.Error(t, err)
	assert.Equal(t, outcomeTransportError, out)
}

func TestServer_String(t *testing.T) {
	srv, mr := newMiniredisServer(t)
	assert.Equal(t, mr.Addr(), srv.String())

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	anon, err := NewServer(client, "")
	require.NoError(t, err)
	assert.Equal(t, "redis-server", anon.String())
}
