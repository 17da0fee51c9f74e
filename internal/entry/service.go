// AngelaMos | 2026
// service.go

package entry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/carterperez-dev/rolodex/internal/core"
	"github.com/carterperez-dev/rolodex/internal/metrics"
)

const (
	minMobileDigits = 10
	maxMobileDigits = 15
)

type Service struct {
	repo    Repository
	metrics *metrics.Metrics
}

func NewService(repo Repository, m *metrics.Metrics) *Service {
	return &Service{repo: repo, metrics: m}
}

// Create persists a new entry owned by the authenticated caller. The
// ownership field always comes from the verified token, never from the
// payload. A well-formed client id or dateAdded is kept as supplied;
// anything else is generated server-side.
func (s *Service) Create(
	ctx context.Context,
	callerID string,
	req CreateEntryRequest,
) (*Entry, error) {
	if callerID == "" {
		return nil, fmt.Errorf("create entry: %w", core.ErrUnauthorized)
	}

	name, err := validateName(req.Name)
	if err != nil {
		return nil, err
	}

	mobile, err := validateMobile(req.Mobile)
	if err != nil {
		return nil, err
	}

	address, err := validateAddress(req.Address)
	if err != nil {
		return nil, err
	}

	id := req.ID
	if ValidID(id) {
		// Client ids can collide with an entry under another owner, so
		// global uniqueness needs the full-prefix check. Generated ids
		// rely on the timestamp-plus-random construction instead.
		_, err := s.repo.FindByID(ctx, id)
		switch {
		case err == nil:
			return nil, fmt.Errorf("entry %s: %w", id, core.ErrDuplicateKey)
		case !errors.Is(err, core.ErrNotFound):
			return nil, err
		}
	} else {
		id = NewEntryID()
	}

	dateAdded := req.DateAdded
	if _, ok := parseEntryDate(dateAdded); !ok {
		dateAdded = nowStamp()
	}

	e := &Entry{
		ID:        id,
		Name:      name,
		Mobile:    mobile,
		Address:   address,
		DateAdded: dateAdded,
		UserID:    callerID,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}

	s.metrics.IncCreated()

	return e, nil
}

// List returns the entries visible to the caller, newest first, after
// applying the optional filter. Admin callers see every owner's
// entries; everyone else sees only their own namespace.
func (s *Service) List(
	ctx context.Context,
	callerID string,
	admin bool,
	f Filter,
) ([]Entry, error) {
	var (
		entries []Entry
		err     error
	)

	if admin {
		entries, err = s.repo.ListAll(ctx)
	} else {
		if callerID == "" {
			return nil, fmt.Errorf("list entries: %w", core.ErrUnauthorized)
		}
		entries, err = s.repo.ListOwner(ctx, callerID)
	}
	if err != nil {
		return nil, err
	}

	entries = ApplyFilter(entries, f)
	SortNewestFirst(entries)

	return entries, nil
}

// Update merges the supplied fields into the entry with the given id,
// wherever it lives. id, userId and dateAdded survive any payload;
// dateModified is stamped on every successful update.
func (s *Service) Update(
	ctx context.Context,
	entryID string,
	req UpdateEntryRequest,
) (*Entry, error) {
	existing, err := s.repo.FindByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if req.ExpectedDateModified != nil &&
		*req.ExpectedDateModified != existing.DateModified {
		return nil, core.ConflictError(
			"entry was modified since it was last read",
		)
	}

	if req.Name != nil {
		name, err := validateName(*req.Name)
		if err != nil {
			return nil, err
		}
		existing.Name = name
	}

	if req.Mobile != nil {
		mobile, err := validateMobile(*req.Mobile)
		if err != nil {
			return nil, err
		}
		existing.Mobile = mobile
	}

	if req.Address != nil {
		address, err := validateAddress(*req.Address)
		if err != nil {
			return nil, err
		}
		existing.Address = address
	}

	existing.DateModified = nowStamp()

	if err := s.repo.Put(ctx, existing); err != nil {
		return nil, err
	}

	s.metrics.IncUpdated()

	return existing, nil
}

// Delete removes the entry with the given id from its owner's
// namespace. Deleting an already-deleted id reports not-found.
func (s *Service) Delete(ctx context.Context, entryID string) error {
	existing, err := s.repo.FindByID(ctx, entryID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, existing.UserID, existing.ID); err != nil {
		return err
	}

	s.metrics.IncDeleted()

	return nil
}

// Export renders the filtered full entry set as CSV. Nothing is
// persisted; no record of the export is kept.
func (s *Service) Export(ctx context.Context, f Filter) ([]byte, error) {
	entries, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	entries = ApplyFilter(entries, f)
	SortNewestFirst(entries)

	s.metrics.IncExports()

	return ExportCSV(entries), nil
}

// Count reports the total number of stored entries across all owners.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.CountAll(ctx)
}

func validateName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", core.ValidationError("name is required")
	}

	return name, nil
}

func validateAddress(raw string) (string, error) {
	address := strings.TrimSpace(raw)
	if address == "" {
		return "", core.ValidationError("address is required")
	}

	return address, nil
}

func validateMobile(raw string) (string, error) {
	mobile := NormalizeMobile(raw)
	if len(mobile) < minMobileDigits || len(mobile) > maxMobileDigits {
		return "", core.ValidationError(
			"mobile must contain 10 to 15 digits",
		)
	}

	return mobile, nil
}

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
