package auth

import (
	"context"
	"time"

	"github.com/phrazzld/taskboard-api/internal/domain"
)

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed access token for the principal.
	// Returns the token string and its expiry time.
	GenerateToken(ctx context.Context, principal domain.Principal) (string, time.Time, error)

	// ValidateToken validates the provided token string and extracts the claims.
	// Returns ErrExpiredToken, ErrTokenNotYetValid or ErrInvalidToken on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the validated contents of an access token.
type Claims struct {
	// UserID is the id of the user the token was issued for.
	UserID int64 `json:"uid"`

	// Roles holds the role names the user had when the token was issued.
	Roles []domain.RoleName `json:"roles"`

	// Standard registered JWT claims; Subject is the user's email.
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}

// Principal returns the caller described by the claims.
func (c *Claims) Principal() domain.Principal {
	return domain.Principal{UserID: c.UserID, Email: c.Subject, Roles: c.Roles}
}
