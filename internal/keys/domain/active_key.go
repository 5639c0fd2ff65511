package domain

import (
	"github.com/google/uuid"

	cryptoDomain "github.com/cipherapi/cipherapi/internal/crypto/domain"
)

// ActiveKey pairs a key record id with its unwrapped 32-byte key material.
//
// Key is plaintext and must never be persisted or logged. Callers own the
// slice and must zero it after use with cryptoDomain.Zero.
type ActiveKey struct {
	ID   uuid.UUID
	Algo cryptoDomain.Algorithm
	Key  []byte
}

// Zero clears the plaintext key material.
func (a *ActiveKey) Zero() {
	cryptoDomain.Zero(a.Key)
}
