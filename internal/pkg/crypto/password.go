// Package crypto provides cryptographic utilities for Alexander IAM.
package crypto

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Password hashing errors.
var (
	// ErrEmptyPassword indicates an empty plaintext was passed to HashPassword.
	ErrEmptyPassword = errors.New("password must not be empty")

	// ErrPasswordTooLong indicates the plaintext exceeds bcrypt's 72-byte limit.
	ErrPasswordTooLong = errors.New("password exceeds maximum length of 72 bytes")
)

// PasswordHasher hashes and verifies passwords using bcrypt.
// It holds no mutable state and is safe for concurrent use.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a PasswordHasher with the given bcrypt cost.
// A cost outside bcrypt's valid range falls back to bcrypt.DefaultCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash computes the bcrypt hash of a plaintext password.
// Each call embeds a fresh random salt, so hashing the same plaintext
// twice yields different outputs.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}
	if len(plaintext) > 72 {
		return "", ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches the given bcrypt hash.
// The comparison inside bcrypt is constant-time. A malformed hash
// yields false rather than an error.
func (h *PasswordHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
