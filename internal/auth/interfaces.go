package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// TokenClaims is the decoded payload of a session token
type TokenClaims struct {
	UserID    string    `json:"id"` // UUID stored as string in token
	Username  string    `json:"username"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// TokenService defines the interface for token creation and validation.
// Implementations include JWTService (HS256) and PasetoService (PASETO v4.local).
// The signing key and token lifetime are fixed at construction.
type TokenService interface {
	CreateToken(userID uuid.UUID, username string) (string, error)
	VerifyToken(tokenStr string) (*TokenClaims, error)
}

// NewTokenService builds the token service for the configured format ("jwt" or "paseto")
func NewTokenService(format string, jwtSecret, pasetoKey []byte, duration time.Duration) (TokenService, error) {
	switch format {
	case "jwt":
		svc, err := NewJWTService(jwtSecret, duration)
		if err != nil {
			return nil, err
		}
		return svc, nil
	case "paseto":
		svc, err := NewPasetoService(pasetoKey, duration)
		if err != nil {
			return nil, err
		}
		return svc, nil
	default:
		return nil, fmt.Errorf("unknown token format %q", format)
	}
}
