// Package password hashes and verifies secrets with bcrypt.
package password

import (
	"crypto/rand"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MinCost is the lowest bcrypt cost accepted by NewHasher.
const MinCost = 10

// MaxLength is the longest secret bcrypt accepts, in bytes.
const MaxLength = 72

var (
	ErrEmptyPassword   = errors.New("password is empty")
	ErrPasswordTooLong = errors.New("password exceeds 72 bytes")
)

// Hasher produces and checks bcrypt hashes at a fixed cost.
type Hasher struct {
	cost int
	// dummy is a hash of random bytes at the same cost. Burn compares against
	// it so a lookup miss costs the same as a password mismatch.
	dummy []byte
}

// NewHasher returns a Hasher using cost, raised to MinCost when lower.
func NewHasher(cost int) *Hasher {
	if cost < MinCost {
		cost = MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &Hasher{cost: cost, dummy: newDummyHash(cost)}
}

func newDummyHash(cost int) []byte {
	secret := make([]byte, 32)
	_, _ = rand.Read(secret)
	hash, err := bcrypt.GenerateFromPassword(secret, cost)
	if err != nil {
		return nil
	}
	return hash
}

// Hash returns the bcrypt hash of plaintext.
func (h *Hasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}
	if len(plaintext) > MaxLength {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches storedHash. A malformed or empty
// hash is a mismatch, never an error.
func (h *Hasher) Verify(plaintext, storedHash string) bool {
	if storedHash == "" {
		_ = h.Burn(plaintext)
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plaintext)) == nil
}

// Burn spends one comparison worth of CPU and always reports false.
func (h *Hasher) Burn(plaintext string) bool {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(plaintext))
	return false
}

// Cost returns the bcrypt cost in use.
func (h *Hasher) Cost() int {
	return h.cost
}
