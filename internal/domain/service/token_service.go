package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are the verified contents of an access token.
type Claims struct {
	UserID   uuid.UUID `json:"-"`
	Username string    `json:"username,omitempty"`
	Email    string    `json:"email,omitempty"`
	Role     string    `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed access tokens.
type TokenService interface {
	// IssueToken signs a token for userID carrying extra claims. A ttl of zero uses the configured default.
	IssueToken(userID uuid.UUID, extra Claims, ttl time.Duration) (string, error)

	// VerifyToken checks signature and expiry. Any failure is returned as an error, never a panic.
	VerifyToken(token string) (*Claims, error)

	// DefaultTTL is the lifetime used when IssueToken gets a zero ttl.
	DefaultTTL() time.Duration
}
