package auth

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenBlacklist_Revoke(t *testing.T) {
	blacklist := NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.Revoke(ctx, "jti-1", time.Hour))

	revoked, err := blacklist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = blacklist.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenBlacklist_Expiry(t *testing.T) {
	blacklist := NewInMemoryTokenBlacklist()
	now := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	blacklist.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, blacklist.Revoke(ctx, "jti-exp", time.Minute))
	now = now.Add(2 * time.Minute)

	revoked, err := blacklist.IsRevoked(ctx, "jti-exp")
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.Empty(t, blacklist.revoked)
}

func TestInMemoryTokenBlacklist_ZeroTTL(t *testing.T) {
	blacklist := NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.Revoke(ctx, "jti-0", 0))
	revoked, err := blacklist.IsRevoked(ctx, "jti-0")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenBlacklist_RevokeIfAbsent(t *testing.T) {
	blacklist := NewInMemoryTokenBlacklist()
	ctx := context.Background()

	claimed, err := blacklist.RevokeIfAbsent(ctx, "jti-r", time.Hour)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = blacklist.RevokeIfAbsent(ctx, "jti-r", time.Hour)
	require.NoError(t, err)
	assert.False(t, claimed)

	revoked, err := blacklist.IsRevoked(ctx, "jti-r")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestInMemoryTokenBlacklist_RevokeIfAbsentAfterExpiry(t *testing.T) {
	blacklist := NewInMemoryTokenBlacklist()
	now := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	blacklist.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, blacklist.Revoke(ctx, "jti-old", time.Minute))
	now = now.Add(2 * time.Minute)

	claimed, err := blacklist.RevokeIfAbsent(ctx, "jti-old", time.Minute)
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestInMemoryTokenBlacklist_RevokeIfAbsentZeroTTLStillBlocks(t *testing.T) {
	blacklist := NewInMemoryTokenBlacklist()
	ctx := context.Background()

	claimed, err := blacklist.RevokeIfAbsent(ctx, "jti-z", 0)
	require.NoError(t, err)
	require.True(t, claimed)

	revoked, err := blacklist.IsRevoked(ctx, "jti-z")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestInMemoryTokenBlacklist_RevokeIfAbsentConcurrent(t *testing.T) {
	blacklist := NewInMemoryTokenBlacklist()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		claimed atomic.Int32
	)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, err := blacklist.RevokeIfAbsent(ctx, "jti-c", time.Hour); err == nil && ok {
				claimed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), claimed.Load())
}
