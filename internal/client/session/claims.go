package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dbelyaev/askpdf/internal/client/models"
	"github.com/dbelyaev/askpdf/internal/common"
)

// tokenClaims is the claim set the client reads from the bearer token.
// Beyond the registered claims only username and email are of interest;
// everything else stays opaque.
type tokenClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Email    string `json:"email"`
}

// DecodeIdentity extracts the identity and expiry instant from a bearer
// token without verifying its signature. The server is the sole verifier;
// the client only needs the claims to render who is logged in and to skip
// restoring tokens that are already expired.
//
// Pure function: no storage, no network, no clock. A token without a
// subject or expiry claim is reported as common.ErrClaimDecode.
func DecodeIdentity(token string) (models.Identity, time.Time, error) {
	var claims tokenClaims

	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return models.Identity{}, time.Time{}, fmt.Errorf("%w: %w", common.ErrClaimDecode, err)
	}

	if claims.Subject == "" {
		return models.Identity{}, time.Time{}, fmt.Errorf("%w: missing subject", common.ErrClaimDecode)
	}
	if claims.ExpiresAt == nil {
		return models.Identity{}, time.Time{}, fmt.Errorf("%w: missing expiry", common.ErrClaimDecode)
	}

	identity := models.Identity{
		ID:       claims.Subject,
		Username: claims.Username,
		Email:    claims.Email,
	}
	if identity.Username == "" {
		identity.Username = claims.Subject
	}

	return identity, claims.ExpiresAt.Time, nil
}
