package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	apperrors "userbase/internal/errors"
)

const (
	bcryptCost = 10

	// bcrypt reads at most 72 bytes of input; anything longer must be
	// truncated up front or GenerateFromPassword rejects it outright.
	maxPasswordBytes = 72
)

func passwordBytes(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}

// HashPassword derives a bcrypt digest from a plaintext password.
// Passwords longer than 72 bytes are hashed on their first 72 bytes.
func HashPassword(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword(passwordBytes(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrHashing, err)
	}
	return string(digest), nil
}

// VerifyPassword reports whether plaintext matches the stored digest,
// applying the same 72-byte truncation as HashPassword.
// A mismatch returns (false, nil); only a malformed digest yields an error.
func VerifyPassword(password, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), passwordBytes(password))
	if err == nil {
		return true, nil
	}
	if err == bcrypt.ErrMismatchedHashAndPassword {
		return false, nil
	}
	return false, fmt.Errorf("%w: %v", apperrors.ErrHashing, err)
}
