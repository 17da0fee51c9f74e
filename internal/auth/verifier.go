// AngelaMos | 2026
// verifier.go

package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/carterperez-dev/rolodex/internal/core"
	"github.com/carterperez-dev/rolodex/internal/middleware"
)

// Verifier layers the revocation list over signature verification. It
// is what the HTTP authenticator consumes, so a blacklisted token is
// rejected on the very next request after logout.
type Verifier struct {
	jwt       *JWTManager
	blacklist Blacklist
}

func NewVerifier(jwt *JWTManager, blacklist Blacklist) *Verifier {
	return &Verifier{
		jwt:       jwt,
		blacklist: blacklist,
	}
}

func (v *Verifier) VerifyAccessToken(
	ctx context.Context,
	tokenString string,
) (*middleware.AccessTokenClaims, error) {
	claims, jti, _, err := v.jwt.verifyToken(ctx, tokenString)
	if err != nil {
		return nil, err
	}

	revoked, err := v.blacklist.IsRevoked(ctx, jti)
	if err != nil {
		// Signature already checked; an unreachable blacklist degrades
		// logout immediacy, not authentication.
		slog.Warn("blacklist check failed, continuing",
			"error", err,
			"user_id", claims.UserID,
		)
		return claims, nil
	}

	if revoked {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	}

	return claims, nil
}
