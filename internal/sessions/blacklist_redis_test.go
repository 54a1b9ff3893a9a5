package sessions

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedisBlacklist_RevokeAndExpire(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	bl := NewRedisBlacklist(client, "")

	ctx := context.Background()
	require.NoError(t, bl.Revoke(ctx, "jti-1", 2*time.Second))
	require.True(t, m.Exists("blacklist:admin:jti-1"))

	ok, err := bl.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.True(t, ok)

	// advance past TTL
	m.FastForward(3 * time.Second)

	ok2, err := bl.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.False(t, ok2)
}

func TestMemoryBlacklist_RevokeAndExpire(t *testing.T) {
	now := time.Unix(1000, 0)
	bl := NewMemoryBlacklist()
	bl.now = func() time.Time { return now }
	ctx := context.Background()

	ok, err := bl.IsRevoked(ctx, "a")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, bl.Revoke(ctx, "a", time.Minute))
	ok, _ = bl.IsRevoked(ctx, "a")
	require.True(t, ok)

	now = now.Add(2 * time.Minute)
	ok, _ = bl.IsRevoked(ctx, "a")
	require.False(t, ok)
}
