// AngelaMos | 2026
// repository_test.go

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/rolodex/internal/core"
)

func newMockRepository(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func tokenRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "token_hash", "family_id", "expires_at",
		"created_at", "is_used", "used_at", "revoked_at",
		"replaced_by_id", "user_agent", "ip_address",
	})
}

func TestTokenRepositoryCreate(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Now()
	expires := now.Add(24 * time.Hour)

	mock.ExpectQuery(`INSERT INTO refresh_tokens`).
		WithArgs(
			"tok-1", "user-1", "hash-1", "fam-1",
			expires, "Chrome on Linux", "10.0.0.1",
		).
		WillReturnRows(
			sqlmock.NewRows([]string{"created_at"}).AddRow(now),
		)

	token := &RefreshToken{
		ID:        "tok-1",
		UserID:    "user-1",
		TokenHash: "hash-1",
		FamilyID:  "fam-1",
		ExpiresAt: expires,
		Device:    "Chrome on Linux",
		IPAddress: "10.0.0.1",
	}
	require.NoError(t, repo.Create(context.Background(), token))

	assert.WithinDuration(t, now, token.CreatedAt, time.Second)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepositoryFindByHash(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Now()
	expires := now.Add(24 * time.Hour)

	mock.ExpectQuery(`FROM refresh_tokens`).
		WithArgs("hash-1").
		WillReturnRows(tokenRows().AddRow(
			"tok-1", "user-1", "hash-1", "fam-1", expires,
			now, false, nil, nil, nil, "Chrome on Linux", "10.0.0.1",
		))

	token, err := repo.FindByHash(context.Background(), "hash-1")
	require.NoError(t, err)

	assert.Equal(t, "tok-1", token.ID)
	assert.Equal(t, "fam-1", token.FamilyID)
	assert.True(t, token.IsValid())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepositoryFindByHashNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`FROM refresh_tokens`).
		WithArgs("unknown").
		WillReturnRows(tokenRows())

	_, err := repo.FindByHash(context.Background(), "unknown")
	require.ErrorIs(t, err, core.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepositoryFindByID(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Now()
	usedAt := now.Add(-time.Minute)
	replacedBy := "tok-2"

	mock.ExpectQuery(`FROM refresh_tokens`).
		WithArgs("tok-1").
		WillReturnRows(tokenRows().AddRow(
			"tok-1", "user-1", "hash-1", "fam-1", now.Add(time.Hour),
			now, true, usedAt, nil, replacedBy, "CLI", "10.0.0.2",
		))

	token, err := repo.FindByID(context.Background(), "tok-1")
	require.NoError(t, err)

	assert.True(t, token.IsUsed)
	require.NotNil(t, token.ReplacedByID)
	assert.Equal(t, "tok-2", *token.ReplacedByID)
	assert.False(t, token.IsValid())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepositoryMarkAsUsed(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(`SET is_used = true`).
		WithArgs("tok-1", "tok-2").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.MarkAsUsed(context.Background(), "tok-1", "tok-2")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepositoryMarkAsUsedAlreadyUsed(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(`SET is_used = true`).
		WithArgs("tok-1", "tok-2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkAsUsed(context.Background(), "tok-1", "tok-2")
	require.ErrorIs(t, err, core.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepositoryRevokeByID(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(`SET revoked_at = NOW\(\)`).
		WithArgs("tok-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.RevokeByID(context.Background(), "tok-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepositoryRevokeByIDAlreadyRevoked(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(`SET revoked_at = NOW\(\)`).
		WithArgs("tok-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.RevokeByID(context.Background(), "tok-1")
	require.ErrorIs(t, err, core.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepositoryRevokeByFamilyID(t *testing.T) {
	repo, mock := newMockRepository(t)

	// Family revocation is a sweep; zero affected rows is not an error.
	mock.ExpectExec(`WHERE family_id = \$1`).
		WithArgs("fam-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.RevokeByFamilyID(context.Background(), "fam-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepositoryRevokeAllForUser(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(`WHERE user_id = \$1`).
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repo.RevokeAllForUser(context.Background(), "user-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepositoryGetActiveSessionsForUser(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Now()

	mock.ExpectQuery(`ORDER BY created_at DESC`).
		WithArgs("user-1").
		WillReturnRows(tokenRows().
			AddRow(
				"tok-2", "user-1", "hash-2", "fam-2", now.Add(time.Hour),
				now, false, nil, nil, nil, "Firefox on Linux", "10.0.0.3",
			).
			AddRow(
				"tok-1", "user-1", "hash-1", "fam-1", now.Add(time.Hour),
				now.Add(-time.Hour), false, nil, nil, nil,
				"Chrome on Mac OS X", "10.0.0.4",
			))

	sessions, err := repo.GetActiveSessionsForUser(
		context.Background(),
		"user-1",
	)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "tok-2", sessions[0].ID)
	assert.Equal(t, "Chrome on Mac OS X", sessions[1].Device)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepositoryDeleteExpired(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(`DELETE FROM refresh_tokens`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 7))

	removed, err := repo.DeleteExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), removed)
	require.NoError(t, mock.ExpectationsWereMet())
}
