package password

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashAndVerify(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if hash == "secret1" || !strings.HasPrefix(hash, "$2") {
		t.Fatalf("expected bcrypt hash, got %q", hash)
	}
	if !h.Verify("secret1", hash) {
		t.Fatalf("expected match")
	}
	if h.Verify("secret2", hash) {
		t.Fatalf("expected mismatch")
	}
}

func TestHasher_CostFloor(t *testing.T) {
	h := NewHasher(4)
	if h.Cost() != MinCost {
		t.Fatalf("expected cost %d, got %d", MinCost, h.Cost())
	}

	hash, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("bcrypt.Cost: %v", err)
	}
	if cost < MinCost {
		t.Fatalf("hash cost %d below floor", cost)
	}
}

func TestHasher_MalformedHashIsMismatch(t *testing.T) {
	h := NewHasher(MinCost)
	for _, stored := range []string{"", "not-a-hash", "$2a$10$short"} {
		if h.Verify("secret1", stored) {
			t.Fatalf("Verify against %q must be false", stored)
		}
	}
}

func TestHasher_EmptyPassword(t *testing.T) {
	h := NewHasher(MinCost)
	if _, err := h.Hash(""); err != ErrEmptyPassword {
		t.Fatalf("expected ErrEmptyPassword, got %v", err)
	}
}

func TestHasher_BurnNeverMatches(t *testing.T) {
	h := NewHasher(MinCost)
	if h.Burn("anything") {
		t.Fatalf("Burn must report false")
	}
}

func TestHasher_DummyHashMatchesCost(t *testing.T) {
	h := NewHasher(MinCost)
	cost, err := bcrypt.Cost(h.dummy)
	if err != nil {
		t.Fatalf("dummy hash malformed: %v", err)
	}
	if cost != h.Cost() {
		t.Fatalf("dummy hash cost %d, want %d", cost, h.Cost())
	}
}

func TestHasher_RejectsOverlongPassword(t *testing.T) {
	h := NewHasher(MinCost)
	if _, err := h.Hash(strings.Repeat("é", 40)); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
	if _, err := h.Hash(strings.Repeat("a", MaxLength)); err != nil {
		t.Fatalf("hash at the limit: %v", err)
	}
}
