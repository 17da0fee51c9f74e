// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/rolodex/internal/core"
)

// defaultRole is applied when a signup request omits the role. Kept as
// a literal here because the user package consumes this one and cannot
// be imported without a cycle.
const defaultRole = "user"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenReuse         = errors.New("token reuse detected")
	ErrEmailExists        = errors.New("email already exists")
	ErrStaleToken         = errors.New("token version is stale")
)

type UserInfo struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string
	TokenVersion int
	CreatedAt    time.Time
}

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	Create(
		ctx context.Context,
		email, passwordHash, role string,
	) (*UserInfo, error)
	IncrementTokenVersion(ctx context.Context, userID string) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type Service struct {
	repo         Repository
	jwt          *JWTManager
	userProvider UserProvider
	blacklist    Blacklist
}

func NewService(
	repo Repository,
	jwt *JWTManager,
	userProvider UserProvider,
	blacklist Blacklist,
) *Service {
	return &Service{
		repo:         repo,
		jwt:          jwt,
		userProvider: userProvider,
		blacklist:    blacklist,
	}
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
	userAgent, ipAddress string,
) (*AuthResponse, error) {
	account, err := s.userProvider.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		req.Password,
		&account.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		//nolint:errcheck // best-effort rehash upgrade
		_ = s.userProvider.UpdatePassword(ctx, account.ID, newHash)
	}

	return s.createAuthResponse(ctx, account, userAgent, ipAddress, "", nil)
}

// Signup provisions an account. The HTTP layer has already checked the
// service key, so the requested role is honored as-is; an empty role
// falls back to the ordinary one.
func (s *Service) Signup(
	ctx context.Context,
	req SignupRequest,
	userAgent, ipAddress string,
) (*AuthResponse, error) {
	role := req.Role
	if role == "" {
		role = defaultRole
	}

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account, err := s.userProvider.Create(ctx, req.Email, passwordHash, role)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.createAuthResponse(ctx, account, userAgent, ipAddress, "", nil)
}

func (s *Service) Refresh(
	ctx context.Context,
	refreshToken, userAgent, ipAddress string,
) (*AuthResponse, error) {
	tokenHash := core.HashToken(refreshToken)

	storedToken, err := s.repo.FindByHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("refresh: %w", core.ErrTokenInvalid)
		}
		return nil, fmt.Errorf("find token: %w", err)
	}

	if storedToken.IsUsed {
		//nolint:errcheck // security revocation continues regardless
		_ = s.repo.RevokeByFamilyID(ctx, storedToken.FamilyID)
		return nil, ErrTokenReuse
	}

	if !storedToken.IsValid() {
		if storedToken.IsRevoked() {
			return nil, fmt.Errorf("refresh: %w", core.ErrTokenRevoked)
		}
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenExpired)
	}

	account, err := s.userProvider.GetByID(ctx, storedToken.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return s.createAuthResponse(
		ctx,
		account,
		userAgent,
		ipAddress,
		storedToken.FamilyID,
		&storedToken.ID,
	)
}

// Logout revokes the presented refresh token and blacklists the access
// token that authenticated the request, so both halves of the session
// die together.
func (s *Service) Logout(
	ctx context.Context,
	refreshToken, accessToken, userID string,
) error {
	tokenHash := core.HashToken(refreshToken)

	storedToken, err := s.repo.FindByHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return s.revokeAccessToken(ctx, accessToken)
		}
		return fmt.Errorf("find token: %w", err)
	}

	if storedToken.UserID != userID {
		return fmt.Errorf("logout: %w", core.ErrForbidden)
	}

	if err := s.repo.RevokeByID(ctx, storedToken.ID); err != nil &&
		!errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("revoke token: %w", err)
	}

	return s.revokeAccessToken(ctx, accessToken)
}

func (s *Service) LogoutAll(
	ctx context.Context,
	accessToken, userID string,
) error {
	if err := s.repo.RevokeAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke all tokens: %w", err)
	}

	if err := s.userProvider.IncrementTokenVersion(ctx, userID); err != nil {
		return fmt.Errorf("increment token version: %w", err)
	}

	return s.revokeAccessToken(ctx, accessToken)
}

func (s *Service) revokeAccessToken(
	ctx context.Context,
	accessToken string,
) error {
	if accessToken == "" {
		return nil
	}

	jti, expiresAt, err := s.jwt.RevocationData(accessToken)
	if err != nil {
		// The token already failed to parse; there is nothing to revoke.
		return nil
	}

	if err := s.blacklist.Revoke(ctx, jti, time.Until(expiresAt)); err != nil {
		return fmt.Errorf("revoke access token: %w", err)
	}

	return nil
}

func (s *Service) GetActiveSessions(
	ctx context.Context,
	userID string,
) ([]SessionInfo, error) {
	tokens, err := s.repo.GetActiveSessionsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get sessions: %w", err)
	}

	sessions := make([]SessionInfo, 0, len(tokens))
	for _, t := range tokens {
		sessions = append(sessions, t.SessionInfo())
	}

	return sessions, nil
}

func (s *Service) RevokeSession(
	ctx context.Context,
	userID, sessionID string,
) error {
	token, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("find session: %w", err)
	}

	if token.UserID != userID {
		return fmt.Errorf("revoke session: %w", core.ErrForbidden)
	}

	if err := s.repo.RevokeByID(ctx, sessionID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	return nil
}

func (s *Service) ChangePassword(
	ctx context.Context,
	userID, currentPassword, newPassword string,
) error {
	account, err := s.userProvider.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	valid, _, err := core.VerifyPasswordWithRehash(
		currentPassword,
		account.PasswordHash,
	)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return ErrInvalidCredentials
	}

	newHash, err := core.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.userProvider.UpdatePassword(ctx, userID, newHash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.LogoutAll(ctx, "", userID); err != nil {
		return fmt.Errorf("logout all: %w", err)
	}

	return nil
}

// GetCurrentUser resolves the caller's profile. A token minted before
// the last logout-all carries a stale version and is rejected so
// clients re-authenticate instead of operating on dead sessions.
func (s *Service) GetCurrentUser(
	ctx context.Context,
	userID string,
	tokenVersion int,
) (*UserResponse, error) {
	account, err := s.userProvider.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if tokenVersion < account.TokenVersion {
		return nil, fmt.Errorf("get current user: %w: %w",
			ErrStaleToken, core.ErrTokenRevoked)
	}

	profile := newUserResponse(account)
	return &profile, nil
}

// StartTokenCleanup removes expired refresh tokens every interval until
// ctx is cancelled. Expired rows can never authenticate again; they only
// add weight to the hash lookups.
func (s *Service) StartTokenCleanup(
	ctx context.Context,
	interval time.Duration,
) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed, err := s.repo.DeleteExpired(ctx)
			if err != nil {
				slog.Warn("refresh token cleanup failed", "error", err)
				continue
			}
			if removed > 0 {
				slog.Info("expired refresh tokens removed",
					"count", removed)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (s *Service) createAuthResponse(
	ctx context.Context,
	account *UserInfo,
	userAgent, ipAddress, familyID string,
	oldTokenID *string,
) (*AuthResponse, error) {
	accessToken, err := s.jwt.CreateAccessToken(AccessTokenClaims{
		UserID:       account.ID,
		Role:         account.Role,
		TokenVersion: account.TokenVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	refreshToken, err := s.issueRefreshToken(
		ctx,
		account.ID,
		userAgent,
		ipAddress,
		familyID,
		oldTokenID,
	)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User: newUserResponse(account),
		Tokens: newTokenResponse(
			accessToken,
			refreshToken,
			s.jwt.AccessTokenTTL(),
		),
	}, nil
}

// issueRefreshToken mints and stores the next link in a rotation
// chain; with oldTokenID set the previous link is marked used.
// Marking is best-effort, reuse detection works off the stored hash
// either way.
func (s *Service) issueRefreshToken(
	ctx context.Context,
	userID, userAgent, ipAddress, familyID string,
	oldTokenID *string,
) (string, error) {
	refreshData, err := s.jwt.CreateRefreshToken(userID, familyID)
	if err != nil {
		return "", fmt.Errorf("create refresh token: %w", err)
	}

	record := &RefreshToken{
		ID:        uuid.New().String(),
		UserID:    userID,
		TokenHash: refreshData.Hash,
		FamilyID:  refreshData.FamilyID,
		ExpiresAt: refreshData.ExpiresAt,
		Device:    DeviceLabel(userAgent),
		IPAddress: ipAddress,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return "", fmt.Errorf("store refresh token: %w", err)
	}

	if oldTokenID != nil {
		//nolint:errcheck // best-effort token chain tracking
		_ = s.repo.MarkAsUsed(ctx, *oldTokenID, record.ID)
	}

	return refreshData.Token, nil
}
