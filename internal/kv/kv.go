// AngelaMos | 2026
// kv.go

package kv

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get and Delete when the key does not exist.
var ErrKeyNotFound = errors.New("key not found")

// KeyValue is a single record returned by Scan.
type KeyValue struct {
	Key   string
	Value []byte
}

// Store is a minimal key-value abstraction over the entry backend. The
// redis implementation is the deployed one; the memory implementation
// backs local development and unit tests.
//
// Scan returns every record whose key starts with prefix. Iteration order
// is unspecified; callers that need ordering sort the results themselves.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetNX(ctx context.Context, key string, value []byte) (bool, error)
	Delete(ctx context.Context, key string) error
	Scan(ctx context.Context, prefix string) ([]KeyValue, error)
	Ping(ctx context.Context) error
}
