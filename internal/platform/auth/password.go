package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/carehub/carehub/internal/shared"
)

// HashPassword derives a bcrypt hash from the plaintext secret.
func HashPassword(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext secret against a stored bcrypt hash,
// returning shared.ErrInvalidCredentials on mismatch.
func CheckPassword(hash, secret string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)); err != nil {
		return shared.ErrInvalidCredentials
	}
	return nil
}
