package service

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashAndVerify(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("Passw0rd!")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "Passw0rd!" || !strings.HasPrefix(hash, "$2") {
		t.Fatalf("expected bcrypt hash, got %q", hash)
	}

	if !hasher.Verify("Passw0rd!", hash) {
		t.Fatalf("expected matching password to verify")
	}
	if hasher.Verify("other", hash) {
		t.Fatalf("expected mismatched password to fail")
	}
}

func TestPasswordHasherDefaultCost(t *testing.T) {
	hasher := NewPasswordHasher(0)
	if hasher.cost != defaultBcryptCost {
		t.Fatalf("expected default cost %d, got %d", defaultBcryptCost, hasher.cost)
	}
	if NewPasswordHasher(bcrypt.MaxCost+1).cost != defaultBcryptCost {
		t.Fatalf("out-of-range cost must fall back to default")
	}
}
