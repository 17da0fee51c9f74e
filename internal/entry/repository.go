// AngelaMos | 2026
// repository.go

package entry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/carterperez-dev/rolodex/internal/core"
	"github.com/carterperez-dev/rolodex/internal/kv"
)

const defaultKeyPrefix = "entries:"

// Repository persists entries in a prefix-queryable key-value store.
// Keys follow "<prefix><userId>:<entryId>", so one owner's entries are
// a prefix scan and the full set is a coarser one.
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	Put(ctx context.Context, e *Entry) error
	Delete(ctx context.Context, userID, entryID string) error
	ListOwner(ctx context.Context, userID string) ([]Entry, error)
	ListAll(ctx context.Context) ([]Entry, error)
	FindByID(ctx context.Context, entryID string) (*Entry, error)
	CountAll(ctx context.Context) (int, error)
}

type KVRepository struct {
	store  kv.Store
	prefix string
}

func NewRepository(store kv.Store, prefix string) Repository {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}

	return &KVRepository{store: store, prefix: prefix}
}

// Create stores a new entry and fails with a duplicate-key error when
// the owner-namespaced key already exists.
func (r *KVRepository) Create(ctx context.Context, e *Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}

	ok, err := r.store.SetNX(ctx, r.key(e.UserID, e.ID), data)
	if err != nil {
		return fmt.Errorf("store entry: %w", err)
	}
	if !ok {
		return fmt.Errorf("entry %s: %w", e.ID, core.ErrDuplicateKey)
	}

	return nil
}

// Put overwrites the entry under its owner-namespaced key.
func (r *KVRepository) Put(ctx context.Context, e *Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}

	if err := r.store.Set(ctx, r.key(e.UserID, e.ID), data); err != nil {
		return fmt.Errorf("store entry: %w", err)
	}

	return nil
}

// Delete removes the entry key. A missing key maps to not-found so a
// repeat delete of the same id surfaces as one.
func (r *KVRepository) Delete(ctx context.Context, userID, entryID string) error {
	if err := r.store.Delete(ctx, r.key(userID, entryID)); err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return fmt.Errorf("entry %s: %w", entryID, core.ErrNotFound)
		}
		return fmt.Errorf("delete entry: %w", err)
	}

	return nil
}

func (r *KVRepository) ListOwner(
	ctx context.Context,
	userID string,
) ([]Entry, error) {
	return r.list(ctx, r.ownerPrefix(userID))
}

func (r *KVRepository) ListAll(ctx context.Context) ([]Entry, error) {
	return r.list(ctx, r.prefix)
}

// FindByID locates an entry by its public id. The id does not encode
// the owner, so the whole entry prefix is scanned and matched against
// the decoded records; callers must not assume the target lives in
// their own namespace.
func (r *KVRepository) FindByID(
	ctx context.Context,
	entryID string,
) (*Entry, error) {
	entries, err := r.list(ctx, r.prefix)
	if err != nil {
		return nil, err
	}

	for i := range entries {
		if entries[i].ID == entryID {
			return &entries[i], nil
		}
	}

	return nil, fmt.Errorf("entry %s: %w", entryID, core.ErrNotFound)
}

func (r *KVRepository) CountAll(ctx context.Context) (int, error) {
	pairs, err := r.store.Scan(ctx, r.prefix)
	if err != nil {
		return 0, fmt.Errorf("scan entries: %w", err)
	}

	return len(pairs), nil
}

func (r *KVRepository) list(
	ctx context.Context,
	prefix string,
) ([]Entry, error) {
	pairs, err := r.store.Scan(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("scan entries: %w", err)
	}

	entries := make([]Entry, 0, len(pairs))
	for _, pair := range pairs {
		var e Entry
		if err := json.Unmarshal(pair.Value, &e); err != nil {
			return nil, fmt.Errorf("decode entry %s: %w", pair.Key, err)
		}
		entries = append(entries, e)
	}

	return entries, nil
}

func (r *KVRepository) key(userID, entryID string) string {
	return r.ownerPrefix(userID) + entryID
}

func (r *KVRepository) ownerPrefix(userID string) string {
	return r.prefix + userID + ":"
}
