package service

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/natours/booking-api/internal/core/domain"
)

func TestCredentialStore_HashVerify(t *testing.T) {
	store := NewCredentialStore(bcrypt.MinCost)

	hash, err := store.Hash("pass1234")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if hash == "pass1234" {
		t.Fatalf("hash must not equal plaintext")
	}
	if !store.Verify("pass1234", hash) {
		t.Fatalf("expected matching password to verify")
	}
	if store.Verify("wrong-pass", hash) {
		t.Fatalf("expected wrong password to fail")
	}
}

func TestCredentialStore_HashTooLong(t *testing.T) {
	store := NewCredentialStore(bcrypt.MinCost)

	if _, err := store.Hash(strings.Repeat("é", 40)); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for 80-byte input, got %v", err)
	}
	if _, err := store.Hash(strings.Repeat("a", 72)); err != nil {
		t.Fatalf("72-byte input should hash, got %v", err)
	}
}

func TestCredentialStore_SaltPerCall(t *testing.T) {
	store := NewCredentialStore(bcrypt.MinCost)

	a, _ := store.Hash("same-password")
	b, _ := store.Hash("same-password")
	if a == b {
		t.Fatalf("expected distinct hashes for the same plaintext")
	}
}

func TestCredentialStore_DefaultCost(t *testing.T) {
	store := NewCredentialStore(0)
	if store.cost != DefaultHashCost {
		t.Fatalf("expected default cost %d, got %d", DefaultHashCost, store.cost)
	}
}

func TestCredentialStore_MalformedHashPanics(t *testing.T) {
	store := NewCredentialStore(bcrypt.MinCost)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for malformed hash")
		}
	}()
	store.Verify("pass1234", "not-a-bcrypt-hash")
}
