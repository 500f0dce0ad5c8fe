package revocation

import (
	"context"
	"testing"
	"time"

	"trainerhub/app/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Store = (*MemoryStore)(nil)
var _ Store = (*RedisStore)(nil)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	defer store.Close()

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))
	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, _ = store.IsRevoked(ctx, "jti-2")
	assert.False(t, revoked)
}

func TestMemoryStoreSkipsExpiredTokens(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Revoke(ctx, "old", time.Now().Add(-time.Minute)))
	revoked, err := store.IsRevoked(ctx, "old")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemoryStoreEntryExpires(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Revoke(ctx, "short", time.Now().Add(50*time.Millisecond)))
	assert.Eventually(t, func() bool {
		revoked, _ := store.IsRevoked(ctx, "short")
		return !revoked
	}, time.Second, 20*time.Millisecond)
}

func TestNewRedisStoreUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisStore(ctx, config.RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}

func TestRedisStoreSkipsExpiredTokens(t *testing.T) {
	store := NewRedisStoreFromClient(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}))
	defer store.Close()

	// Nothing is sent for a token that has already expired.
	assert.NoError(t, store.Revoke(context.Background(), "old", time.Now().Add(-time.Minute)))
}

func TestRedisStoreReportsConnectionErrors(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	store := NewRedisStoreFromClient(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}))
	defer store.Close()

	_, err := store.IsRevoked(ctx, "jti")
	assert.Error(t, err)
}
