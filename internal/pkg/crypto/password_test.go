package crypto

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("correct-horse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash == "correct-horse" {
		t.Fatal("hash must not equal plaintext")
	}

	if !hasher.Verify("correct-horse", hash) {
		t.Error("expected correct password to verify")
	}
	if hasher.Verify("wrong-horse", hash) {
		t.Error("expected wrong password to fail verification")
	}
	if hasher.Verify("correct-horse", "not-a-bcrypt-hash") {
		t.Error("expected malformed hash to fail verification")
	}
}

func TestPasswordHasher_SaltedHashes(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	first, err := hasher.Hash("same-password")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := hasher.Hash("same-password")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first == second {
		t.Error("expected distinct hashes for the same plaintext")
	}
}

func TestPasswordHasher_InvalidInput(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	if _, err := hasher.Hash(""); !errors.Is(err, ErrEmptyPassword) {
		t.Errorf("expected ErrEmptyPassword, got %v", err)
	}
	if _, err := hasher.Hash(strings.Repeat("x", 73)); !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("expected ErrPasswordTooLong, got %v", err)
	}
}

func TestNewPasswordHasher_CostFallback(t *testing.T) {
	// Out-of-range costs fall back to the bcrypt default rather than
	// failing at hash time.
	hasher := NewPasswordHasher(100)
	if hasher.cost != bcrypt.DefaultCost {
		t.Errorf("expected default cost, got %d", hasher.cost)
	}

	hasher = NewPasswordHasher(0)
	if hasher.cost != bcrypt.DefaultCost {
		t.Errorf("expected default cost, got %d", hasher.cost)
	}
}
