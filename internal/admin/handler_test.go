// AngelaMos | 2026
// handler_test.go

package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/rolodex/internal/core"
	"github.com/carterperez-dev/rolodex/internal/middleware"
)

type counterFunc func(ctx context.Context) (int, error)

func (f counterFunc) Count(ctx context.Context) (int, error) {
	return f(ctx)
}

type staticVerifier struct {
	tokens map[string]middleware.AccessTokenClaims
}

func (v *staticVerifier) VerifyAccessToken(
	ctx context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	claims, ok := v.tokens[token]
	if !ok {
		return nil, core.ErrTokenInvalid
	}
	return &claims, nil
}

func serveStats(t *testing.T, cfg HandlerConfig) *chi.Mux {
	t.Helper()

	verifier := &staticVerifier{
		tokens: map[string]middleware.AccessTokenClaims{
			"admin-token": {UserID: "admin-1", Role: "admin"},
			"user-token":  {UserID: "user-1", Role: "user"},
		},
	}

	router := chi.NewRouter()
	NewHandler(cfg).RegisterRoutes(
		router,
		middleware.Authenticator(verifier),
		middleware.RequireAdmin,
	)
	return router
}

func statsRequest(router *chi.Mux, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestStatsRequiresAdmin(t *testing.T) {
	router := serveStats(t, HandlerConfig{})

	rec := statsRequest(router, "/admin/stats", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = statsRequest(router, "/admin/stats", "user-token")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = statsRequest(router, "/admin/stats/totals", "user-token")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSystemStats(t *testing.T) {
	router := serveStats(t, HandlerConfig{
		Entries: counterFunc(func(context.Context) (int, error) { return 7, nil }),
		Users:   counterFunc(func(context.Context) (int, error) { return 3, nil }),
	})

	rec := statsRequest(router, "/admin/stats", "admin-token")
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Success bool                `json:"success"`
		Data    SystemStatsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)

	assert.NotEmpty(t, envelope.Data.Runtime.GoVersion)
	assert.Positive(t, envelope.Data.Runtime.NumCPU)

	require.NotNil(t, envelope.Data.Totals.Entries)
	assert.Equal(t, 7, *envelope.Data.Totals.Entries)
	require.NotNil(t, envelope.Data.Totals.Users)
	assert.Equal(t, 3, *envelope.Data.Totals.Users)
}

func TestTotalsBestEffort(t *testing.T) {
	router := serveStats(t, HandlerConfig{
		Entries: counterFunc(func(context.Context) (int, error) { return 2, nil }),
		Users: counterFunc(func(context.Context) (int, error) {
			return 0, errors.New("users table unavailable")
		}),
	})

	rec := statsRequest(router, "/admin/stats/totals", "admin-token")
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Success bool        `json:"success"`
		Data    TotalsStats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)

	require.NotNil(t, envelope.Data.Entries)
	assert.Equal(t, 2, *envelope.Data.Entries)
	assert.Nil(t, envelope.Data.Users)
}
