// AngelaMos | 2026
// redis.go

package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultScanCount = 200

// RedisStore implements Store on top of a shared go-redis client. The
// client lifecycle is managed by the caller.
type RedisStore struct {
	client    *redis.Client
	scanCount int64
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithScanCount overrides the COUNT hint passed to SCAN and the MGET
// batch size used when hydrating scanned keys.
func WithScanCount(n int64) RedisOption {
	return func(s *RedisStore) {
		if n > 0 {
			s.scanCount = n
		}
	}
}

func NewRedisStore(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client:    client,
		scanCount: defaultScanCount,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Ping verifies the backing connection is alive.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return val, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) SetNX(ctx context.Context, key string, value []byte) (bool, error) {
	ok, err := s.client.SetNX(ctx, key, value, 0).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	removed, err := s.client.Del(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	if removed == 0 {
		return ErrKeyNotFound
	}
	return nil
}

// Scan walks the keyspace with SCAN MATCH prefix* and hydrates the
// matching keys in MGET batches. SCAN guarantees at-least-once delivery,
// so keys are deduplicated; records deleted between the scan and the
// fetch are skipped.
func (s *RedisStore) Scan(ctx context.Context, prefix string) ([]KeyValue, error) {
	seen := make(map[string]struct{})
	var keys []string

	iter := s.client.Scan(ctx, 0, prefix+"*", s.scanCount).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}

	if len(keys) == 0 {
		return nil, nil
	}

	results := make([]KeyValue, 0, len(keys))
	batch := int(s.scanCount)

	for start := 0; start < len(keys); start += batch {
		end := start + batch
		if end > len(keys) {
			end = len(keys)
		}

		values, err := s.client.MGet(ctx, keys[start:end]...).Result()
		if err != nil {
			return nil, fmt.Errorf("redis mget: %w", err)
		}

		for i, raw := range values {
			if raw == nil {
				continue
			}
			str, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("redis mget: unexpected type %T for key %s", raw, keys[start+i])
			}
			results = append(results, KeyValue{
				Key:   keys[start+i],
				Value: []byte(str),
			})
		}
	}

	return results, nil
}
