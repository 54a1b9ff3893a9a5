package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Blacklist records revoked token ids until their natural expiry.
type Blacklist interface {
	Revoke(ctx context.Context, id string, ttl time.Duration) error
	IsRevoked(ctx context.Context, id string) (bool, error)
}

// RedisBlacklist stores revoked ids under "<prefix><id>" with a TTL so
// revocations are shared by every API replica.
type RedisBlacklist struct {
	client *redis.Client
	prefix string
}

func NewRedisBlacklist(client *redis.Client, prefix string) *RedisBlacklist {
	if prefix == "" {
		prefix = "blacklist:admin:"
	}
	return &RedisBlacklist{client: client, prefix: prefix}
}

func (b *RedisBlacklist) Revoke(ctx context.Context, id string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Second
	}
	return b.client.Set(ctx, b.prefix+id, "1", ttl).Err()
}

func (b *RedisBlacklist) IsRevoked(ctx context.Context, id string) (bool, error) {
	exists, err := b.client.Exists(ctx, b.prefix+id).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// MemoryBlacklist is the single-process fallback when Redis is not configured.
type MemoryBlacklist struct {
	mu  sync.Mutex
	ids map[string]time.Time
	now func() time.Time
}

func NewMemoryBlacklist() *MemoryBlacklist {
	return &MemoryBlacklist{ids: map[string]time.Time{}, now: time.Now}
}

func (b *MemoryBlacklist) Revoke(_ context.Context, id string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ids[id] = b.now().Add(ttl)
	return nil
}

func (b *MemoryBlacklist) IsRevoked(_ context.Context, id string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	exp, ok := b.ids[id]
	if !ok {
		return false, nil
	}
	if b.now().After(exp) {
		delete(b.ids, id)
		return false, nil
	}
	return true, nil
}
