package service

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/natours/booking-api/internal/core/domain"
)

// DefaultHashCost is the bcrypt work factor used for stored passwords.
const DefaultHashCost = 12

// CredentialStore hashes and verifies passwords with bcrypt.
type CredentialStore struct {
	cost int
}

// NewCredentialStore returns a store using cost, or DefaultHashCost when cost
// is outside bcrypt's accepted range.
func NewCredentialStore(cost int) *CredentialStore {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultHashCost
	}
	return &CredentialStore{cost: cost}
}

// Hash returns a salted bcrypt hash of plaintext. Inputs over 72 bytes are
// rejected as a validation error.
func (s *CredentialStore) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", domain.Errorf(domain.ErrValidation, "Password must be at most 72 bytes")
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches hashed. A hash that bcrypt cannot
// parse means stored data is corrupt, which is a programming error.
func (s *CredentialStore) Verify(plaintext, hashed string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext))
	switch {
	case err == nil:
		return true
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false
	default:
		panic(fmt.Sprintf("credentials: malformed password hash: %v", err))
	}
}
