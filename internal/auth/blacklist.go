// AngelaMos | 2026
// blacklist.go

package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistKeyPrefix = "blacklist:"

// Blacklist records revoked access-token IDs until their natural
// expiry. Entries self-expire, so the list only ever holds tokens
// that would otherwise still verify.
type Blacklist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RedisBlacklist is the deployed Blacklist. The client lifecycle is
// managed by the caller.
type RedisBlacklist struct {
	client *redis.Client
}

func NewRedisBlacklist(client *redis.Client) *RedisBlacklist {
	return &RedisBlacklist{client: client}
}

func (b *RedisBlacklist) Revoke(
	ctx context.Context,
	jti string,
	ttl time.Duration,
) error {
	if jti == "" || ttl <= 0 {
		return nil
	}

	key := blacklistKeyPrefix + jti
	if err := b.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}

	return nil
}

func (b *RedisBlacklist) IsRevoked(
	ctx context.Context,
	jti string,
) (bool, error) {
	if jti == "" {
		return false, nil
	}

	key := blacklistKeyPrefix + jti

	exists, err := b.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}

	return exists > 0, nil
}

// MemoryBlacklist backs the memory store mode, where no Redis client
// exists. Revocations do not survive a restart, which is acceptable
// for local development only.
type MemoryBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewMemoryBlacklist() *MemoryBlacklist {
	return &MemoryBlacklist{
		revoked: make(map[string]time.Time),
	}
}

func (b *MemoryBlacklist) Revoke(
	_ context.Context,
	jti string,
	ttl time.Duration,
) error {
	if jti == "" || ttl <= 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.revoked[jti] = time.Now().Add(ttl)
	return nil
}

func (b *MemoryBlacklist) IsRevoked(
	_ context.Context,
	jti string,
) (bool, error) {
	if jti == "" {
		return false, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	expiry, ok := b.revoked[jti]
	if !ok {
		return false, nil
	}

	if time.Now().After(expiry) {
		delete(b.revoked, jti)
		return false, nil
	}

	return true, nil
}
