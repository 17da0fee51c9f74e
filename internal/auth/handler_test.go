// AngelaMos | 2026
// handler_test.go

package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"github.com/carterperez-dev/rolodex/internal/middleware"
)

const testServiceKey = "provisioning-secret"

type AuthHandlerSuite struct {
	suite.Suite
	repo    *fakeTokenRepo
	users   *fakeUsers
	jwt     *JWTManager
	service *Service
	router  *chi.Mux
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerSuite))
}

func (s *AuthHandlerSuite) SetupTest() {
	s.repo = newFakeTokenRepo()
	s.users = newFakeUsers()
	blacklist := NewMemoryBlacklist()
	s.jwt = newTestJWTManager(s.T())
	s.service = NewService(s.repo, s.jwt, s.users, blacklist)

	handler := NewHandler(s.service)
	authenticator := middleware.Authenticator(NewVerifier(s.jwt, blacklist))

	s.router = chi.NewRouter()
	s.router.With(middleware.RequireServiceKey(testServiceKey)).
		Post("/signup", handler.Signup)
	s.router.Route("/v1", func(r chi.Router) {
		handler.RegisterRoutes(r, authenticator)
	})
}

type authEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *AuthHandlerSuite) do(
	method, target string,
	headers map[string]string,
	body any,
) (*httptest.ResponseRecorder, authEnvelope) {
	s.T().Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("User-Agent", testUserAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env authEnvelope
	if rec.Body.Len() > 0 {
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func (s *AuthHandlerSuite) signup(email, role string) *AuthResponse {
	s.T().Helper()

	rec, env := s.do(http.MethodPost, "/signup",
		map[string]string{middleware.ServiceKeyHeader: testServiceKey},
		map[string]string{
			"email":    email,
			"password": "password-123",
			"role":     role,
		},
	)
	s.Require().Equal(http.StatusCreated, rec.Code)

	var resp AuthResponse
	s.Require().NoError(json.Unmarshal(env.Data, &resp))
	return &resp
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func (s *AuthHandlerSuite) TestSignup() {
	s.Run("missing service key", func() {
		rec, env := s.do(http.MethodPost, "/signup", nil, map[string]string{
			"email":    "jane@example.com",
			"password": "password-123",
		})
		s.Equal(http.StatusUnauthorized, rec.Code)
		s.Require().NotNil(env.Error)
		s.Equal("UNAUTHORIZED", env.Error.Code)
		s.Equal("invalid service key", env.Error.Message)
	})

	s.Run("wrong service key", func() {
		rec, _ := s.do(http.MethodPost, "/signup",
			map[string]string{middleware.ServiceKeyHeader: "guessed"},
			map[string]string{
				"email":    "jane@example.com",
				"password": "password-123",
			},
		)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("valid request provisions the account", func() {
		resp := s.signup("jane@example.com", "")
		s.Equal("user", resp.User.Role)
		s.NotEmpty(resp.Tokens.AccessToken)
		s.NotEmpty(resp.Tokens.RefreshToken)
	})

	s.Run("duplicate email", func() {
		rec, env := s.do(http.MethodPost, "/signup",
			map[string]string{middleware.ServiceKeyHeader: testServiceKey},
			map[string]string{
				"email":    "jane@example.com",
				"password": "password-456",
			},
		)
		s.Equal(http.StatusConflict, rec.Code)
		s.Require().NotNil(env.Error)
		s.Equal("DUPLICATE", env.Error.Code)
	})

	s.Run("invalid payload", func() {
		rec, env := s.do(http.MethodPost, "/signup",
			map[string]string{middleware.ServiceKeyHeader: testServiceKey},
			map[string]string{
				"email":    "not-an-email",
				"password": "short",
			},
		)
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Require().NotNil(env.Error)
	})

	s.Run("unexpected role rejected", func() {
		rec, _ := s.do(http.MethodPost, "/signup",
			map[string]string{middleware.ServiceKeyHeader: testServiceKey},
			map[string]string{
				"email":    "other@example.com",
				"password": "password-123",
				"role":     "superuser",
			},
		)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *AuthHandlerSuite) TestLogin() {
	s.signup("jane@example.com", "admin")

	s.Run("valid credentials", func() {
		rec, env := s.do(http.MethodPost, "/v1/auth/login", nil,
			map[string]string{
				"email":    "jane@example.com",
				"password": "password-123",
			},
		)
		s.Require().Equal(http.StatusOK, rec.Code)

		var resp AuthResponse
		s.Require().NoError(json.Unmarshal(env.Data, &resp))
		s.Equal("admin", resp.User.Role)
		s.NotEmpty(resp.Tokens.AccessToken)
	})

	s.Run("wrong password", func() {
		rec, env := s.do(http.MethodPost, "/v1/auth/login", nil,
			map[string]string{
				"email":    "jane@example.com",
				"password": "wrong-password",
			},
		)
		s.Equal(http.StatusUnauthorized, rec.Code)
		s.Require().NotNil(env.Error)
		s.Equal("invalid email or password", env.Error.Message)
	})
}

func (s *AuthHandlerSuite) TestMe() {
	resp := s.signup("jane@example.com", "admin")

	s.Run("without token", func() {
		rec, _ := s.do(http.MethodGet, "/v1/auth/me", nil, nil)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("with token", func() {
		rec, env := s.do(
			http.MethodGet,
			"/v1/auth/me",
			bearer(resp.Tokens.AccessToken),
			nil,
		)
		s.Require().Equal(http.StatusOK, rec.Code)

		var profile UserResponse
		s.Require().NoError(json.Unmarshal(env.Data, &profile))
		s.Equal("jane@example.com", profile.Email)
		s.Equal("admin", profile.Role)
	})
}

func (s *AuthHandlerSuite) TestRefresh() {
	resp := s.signup("jane@example.com", "")
	var rotated AuthResponse

	s.Run("rotation", func() {
		rec, env := s.do(http.MethodPost, "/v1/auth/refresh", nil,
			map[string]string{"refresh_token": resp.Tokens.RefreshToken},
		)
		s.Require().Equal(http.StatusOK, rec.Code)
		s.Require().NoError(json.Unmarshal(env.Data, &rotated))
		s.NotEqual(resp.Tokens.RefreshToken, rotated.Tokens.RefreshToken)
	})

	s.Run("reuse detection", func() {
		rec, env := s.do(http.MethodPost, "/v1/auth/refresh", nil,
			map[string]string{"refresh_token": resp.Tokens.RefreshToken},
		)
		s.Equal(http.StatusUnauthorized, rec.Code)
		s.Require().NotNil(env.Error)
		s.Equal("TOKEN_REUSE_DETECTED", env.Error.Code)
	})
}

func (s *AuthHandlerSuite) TestLogout() {
	resp := s.signup("jane@example.com", "")

	rec, _ := s.do(
		http.MethodPost,
		"/v1/auth/logout",
		bearer(resp.Tokens.AccessToken),
		map[string]string{"refresh_token": resp.Tokens.RefreshToken},
	)
	s.Require().Equal(http.StatusNoContent, rec.Code)

	// The blacklisted access token is dead on the very next request.
	rec, env := s.do(
		http.MethodGet,
		"/v1/auth/me",
		bearer(resp.Tokens.AccessToken),
		nil,
	)
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Require().NotNil(env.Error)
	s.Equal("TOKEN_REVOKED", env.Error.Code)
}

func (s *AuthHandlerSuite) TestSessions() {
	resp := s.signup("jane@example.com", "")
	headers := bearer(resp.Tokens.AccessToken)

	rec, env := s.do(http.MethodGet, "/v1/auth/sessions", headers, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var sessions SessionsResponse
	s.Require().NoError(json.Unmarshal(env.Data, &sessions))
	s.Require().Len(sessions.Sessions, 1)
	s.Contains(sessions.Sessions[0].Device, "Chrome")

	rec, _ = s.do(
		http.MethodDelete,
		"/v1/auth/sessions/"+sessions.Sessions[0].ID,
		headers,
		nil,
	)
	s.Require().Equal(http.StatusNoContent, rec.Code)

	rec, env = s.do(http.MethodGet, "/v1/auth/sessions", headers, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().NoError(json.Unmarshal(env.Data, &sessions))
	s.Empty(sessions.Sessions)
}
