// AngelaMos | 2026
// service_test.go

package entry

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/carterperez-dev/rolodex/internal/core"
	"github.com/carterperez-dev/rolodex/internal/kv"
)

type ServiceSuite struct {
	suite.Suite
	store   *kv.MemoryStore
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.store = kv.NewMemoryStore()
	s.service = NewService(NewRepository(s.store, ""), nil)
}

func (s *ServiceSuite) mustCreate(
	callerID string,
	req CreateEntryRequest,
) *Entry {
	s.T().Helper()

	e, err := s.service.Create(context.Background(), callerID, req)
	s.Require().NoError(err)
	return e
}

func validCreate() CreateEntryRequest {
	return CreateEntryRequest{
		Name:    "John Smith",
		Mobile:  "123-456-7890",
		Address: "1 Main St",
	}
}

func (s *ServiceSuite) TestCreate() {
	ctx := context.Background()

	s.Run("stamps ownership and generated fields", func() {
		req := validCreate()
		req.Name = "  John Smith  "
		req.Address = "  1 Main St "

		e := s.mustCreate("user-1", req)

		s.Equal("user-1", e.UserID)
		s.NotEmpty(e.ID)
		s.Equal("John Smith", e.Name)
		s.Equal("1234567890", e.Mobile)
		s.Equal("1 Main St", e.Address)
		s.Empty(e.DateModified)

		_, err := time.Parse(time.RFC3339, e.DateAdded)
		s.NoError(err)
	})

	s.Run("payload ownership is ignored", func() {
		req := validCreate()
		req.UserID = "someone-else"

		e := s.mustCreate("user-1", req)
		s.Equal("user-1", e.UserID)
	})

	s.Run("keeps well-formed client id and dateAdded", func() {
		req := validCreate()
		req.ID = "client-supplied-1"
		req.DateAdded = "2024-01-05"

		e := s.mustCreate("user-1", req)
		s.Equal("client-supplied-1", e.ID)
		s.Equal("2024-01-05", e.DateAdded)
	})

	s.Run("replaces malformed client id and dateAdded", func() {
		req := validCreate()
		req.ID = "has spaces"
		req.DateAdded = "garbage"

		e := s.mustCreate("user-1", req)
		s.NotEqual("has spaces", e.ID)
		s.True(ValidID(e.ID))

		_, ok := parseEntryDate(e.DateAdded)
		s.True(ok)
	})

	s.Run("client id collides across owners", func() {
		req := validCreate()
		req.ID = "shared-id"
		s.mustCreate("user-1", req)

		_, err := s.service.Create(ctx, "user-2", req)
		s.ErrorIs(err, core.ErrDuplicateKey)
	})

	s.Run("rejects mobile with too few digits", func() {
		req := validCreate()
		req.Mobile = "12345"

		_, err := s.service.Create(ctx, "user-1", req)
		s.ErrorIs(err, core.ErrInvalidInput)
		s.Contains(err.Error(), "10 to 15 digits")
	})

	s.Run("rejects mobile with too many digits", func() {
		req := validCreate()
		req.Mobile = "1234567890123456"

		_, err := s.service.Create(ctx, "user-1", req)
		s.ErrorIs(err, core.ErrInvalidInput)
	})

	s.Run("rejects blank name", func() {
		req := validCreate()
		req.Name = "   "

		_, err := s.service.Create(ctx, "user-1", req)
		s.ErrorIs(err, core.ErrInvalidInput)
	})

	s.Run("rejects blank address", func() {
		req := validCreate()
		req.Address = ""

		_, err := s.service.Create(ctx, "user-1", req)
		s.ErrorIs(err, core.ErrInvalidInput)
	})

	s.Run("requires a caller identity", func() {
		_, err := s.service.Create(ctx, "", validCreate())
		s.ErrorIs(err, core.ErrUnauthorized)
	})
}

func (s *ServiceSuite) seedThreeOwners() {
	reqA1 := validCreate()
	reqA1.ID = "a1"
	reqA1.DateAdded = "2024-01-05T00:00:00Z"
	s.mustCreate("user-a", reqA1)

	reqA2 := validCreate()
	reqA2.ID = "a2"
	reqA2.Name = "Mary Jones"
	reqA2.DateAdded = "2024-03-01T00:00:00Z"
	s.mustCreate("user-a", reqA2)

	reqB1 := validCreate()
	reqB1.ID = "b1"
	reqB1.Name = "Jane Doe"
	reqB1.DateAdded = "2024-02-01T00:00:00Z"
	s.mustCreate("user-b", reqB1)
}

func (s *ServiceSuite) TestList() {
	ctx := context.Background()
	s.seedThreeOwners()

	s.Run("owner sees only their namespace", func() {
		entries, err := s.service.List(ctx, "user-a", false, Filter{})
		s.NoError(err)
		s.Equal([]string{"a2", "a1"}, filterIDs(entries))

		for _, e := range entries {
			s.Equal("user-a", e.UserID)
		}
	})

	s.Run("admin sees every owner newest first", func() {
		entries, err := s.service.List(ctx, "admin-1", true, Filter{})
		s.NoError(err)
		s.Equal([]string{"a2", "b1", "a1"}, filterIDs(entries))
	})

	s.Run("equal dates fall back to id descending", func() {
		tieOne := validCreate()
		tieOne.ID = "tie-a"
		tieOne.DateAdded = "2024-05-05T00:00:00Z"
		s.mustCreate("user-b", tieOne)

		tieTwo := validCreate()
		tieTwo.ID = "tie-b"
		tieTwo.DateAdded = "2024-05-05T00:00:00Z"
		s.mustCreate("user-b", tieTwo)

		entries, err := s.service.List(ctx, "user-b", false, Filter{})
		s.NoError(err)
		s.Equal([]string{"tie-b", "tie-a", "b1"}, filterIDs(entries))
	})

	s.Run("filter narrows the visible set", func() {
		entries, err := s.service.List(ctx, "admin-1", true, Filter{Term: "doe"})
		s.NoError(err)
		s.Equal([]string{"b1"}, filterIDs(entries))
	})

	s.Run("empty namespace lists empty", func() {
		entries, err := s.service.List(ctx, "user-z", false, Filter{})
		s.NoError(err)
		s.Empty(entries)
	})

	s.Run("requires a caller identity for owner scope", func() {
		_, err := s.service.List(ctx, "", false, Filter{})
		s.ErrorIs(err, core.ErrUnauthorized)
	})
}

func (s *ServiceSuite) TestUpdate() {
	ctx := context.Background()

	seed := func() *Entry {
		req := validCreate()
		req.ID = "target"
		req.DateAdded = "2024-01-01T00:00:00Z"
		return s.mustCreate("user-b", req)
	}

	s.Run("merges fields and stamps dateModified", func() {
		seed()

		newName := "Johnny Smith"
		updated, err := s.service.Update(ctx, "target", UpdateEntryRequest{
			Name: &newName,
		})
		s.Require().NoError(err)

		s.Equal("Johnny Smith", updated.Name)
		s.Equal("1234567890", updated.Mobile)
		s.Equal("1 Main St", updated.Address)
		s.Equal("target", updated.ID)
		s.Equal("user-b", updated.UserID)
		s.Equal("2024-01-01T00:00:00Z", updated.DateAdded)

		added, ok := parseEntryDate(updated.DateAdded)
		s.Require().True(ok)
		modified, ok := parseEntryDate(updated.DateModified)
		s.Require().True(ok)
		s.True(modified.After(added))
	})

	s.Run("found outside the caller namespace by full scan", func() {
		decoy := validCreate()
		decoy.ID = "decoy"
		s.mustCreate("user-z", decoy)

		newAddress := "42 New Rd"
		updated, err := s.service.Update(ctx, "target", UpdateEntryRequest{
			Address: &newAddress,
		})
		s.Require().NoError(err)
		s.Equal("user-b", updated.UserID)
		s.Equal("42 New Rd", updated.Address)
	})

	s.Run("unknown id is not found", func() {
		_, err := s.service.Update(ctx, "missing", UpdateEntryRequest{})
		s.ErrorIs(err, core.ErrNotFound)
	})

	s.Run("normalizes and validates replacement mobile", func() {
		badMobile := "123"
		_, err := s.service.Update(ctx, "target", UpdateEntryRequest{
			Mobile: &badMobile,
		})
		s.ErrorIs(err, core.ErrInvalidInput)

		goodMobile := "555-000-1111"
		updated, err := s.service.Update(ctx, "target", UpdateEntryRequest{
			Mobile: &goodMobile,
		})
		s.Require().NoError(err)
		s.Equal("5550001111", updated.Mobile)
	})

	s.Run("stale expectation conflicts", func() {
		stale := ""
		_, err := s.service.Update(ctx, "target", UpdateEntryRequest{
			ExpectedDateModified: &stale,
		})
		s.ErrorIs(err, core.ErrConflict)
	})

	s.Run("matching expectation succeeds", func() {
		current, err := s.service.List(ctx, "user-b", false, Filter{})
		s.Require().NoError(err)
		s.Require().NotEmpty(current)

		expected := current[0].DateModified
		name := "Renamed"
		updated, err := s.service.Update(ctx, "target", UpdateEntryRequest{
			Name:                 &name,
			ExpectedDateModified: &expected,
		})
		s.Require().NoError(err)
		s.Equal("Renamed", updated.Name)
	})
}

func (s *ServiceSuite) TestDelete() {
	ctx := context.Background()

	req := validCreate()
	req.ID = "victim"
	s.mustCreate("user-a", req)

	s.Run("removes the entry wherever it lives", func() {
		err := s.service.Delete(ctx, "victim")
		s.NoError(err)
		s.Equal(0, s.store.Len())
	})

	s.Run("second delete of the same id is not found", func() {
		err := s.service.Delete(ctx, "victim")
		s.ErrorIs(err, core.ErrNotFound)
	})

	s.Run("update after delete is not found", func() {
		name := "Ghost"
		_, err := s.service.Update(ctx, "victim", UpdateEntryRequest{
			Name: &name,
		})
		s.ErrorIs(err, core.ErrNotFound)
	})
}

func (s *ServiceSuite) TestExport() {
	ctx := context.Background()
	s.seedThreeOwners()

	s.Run("serializes the filtered set only", func() {
		data, err := s.service.Export(ctx, Filter{Term: "doe"})
		s.Require().NoError(err)

		got := string(data)
		s.True(strings.HasPrefix(got, "Name,Mobile No,Address,Date Added\r\n"))
		s.Contains(got, `"Jane Doe"`)
		s.NotContains(got, `"John Smith"`)
		s.NotContains(got, `"Mary Jones"`)
	})

	s.Run("unfiltered export carries every owner", func() {
		data, err := s.service.Export(ctx, Filter{})
		s.Require().NoError(err)

		lines := strings.Split(strings.TrimRight(string(data), "\r\n"), "\r\n")
		s.Len(lines, 4, "header plus three rows")
	})
}

func (s *ServiceSuite) TestCount() {
	s.seedThreeOwners()

	count, err := s.service.Count(context.Background())
	s.NoError(err)
	s.Equal(3, count)
}
