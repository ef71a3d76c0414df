// Package auth provides HS256 bearer tokens for the standalone identity
// provider, password hashing, and the echo middleware that places the
// verified identity on the request context.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/carehub/carehub/internal/shared"
)

// Claims carries the subject identity inside a signed token. The role is
// deliberately absent: roles live on the profile document and are resolved
// per request, so a role change never requires re-issuing tokens.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenIssuer mints and verifies HS256 tokens with a shared secret.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer creates a TokenIssuer.
func NewTokenIssuer(secret []byte, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: secret, ttl: ttl}
}

// Mint signs a token for the given subject identity.
func (t *TokenIssuer) Mint(identity string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	})
	return token.SignedString(t.secret)
}

// Verify parses a token string and returns the subject identity, or
// shared.ErrInvalidToken.
func (t *TokenIssuer) Verify(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", shared.ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", shared.ErrInvalidToken
	}
	return claims.Subject, nil
}
