// Package domain defines the key record entity and its lifecycle.
package domain

import (
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/cipherapi/cipherapi/internal/crypto/domain"
)

// PurposeData is the purpose tag for payload encryption keys.
const PurposeData = "DATA"

// KeyRecord is a wrapped data key persisted in the key store.
//
// A nil UserID marks a shared key visible to every tenant; a non-nil UserID
// scopes the key to that tenant. WrappedKey holds the base64 envelope blob
// produced by the key wrap service; the plaintext key is never persisted.
//
// Lifecycle: a record is active while RetiredAt is nil. Retiring sets
// RetiredAt and is terminal; a retired key is never reactivated, it remains
// readable so old ciphertexts can still be decrypted by key id.
type KeyRecord struct {
	ID         uuid.UUID
	UserID     *uuid.UUID
	Purpose    string
	WrappedKey string
	Algo       cryptoDomain.Algorithm
	CreatedAt  time.Time
	RetiredAt  *time.Time
}

// IsShared reports whether the key is visible to all tenants.
func (k *KeyRecord) IsShared() bool {
	return k.UserID == nil
}

// IsActive reports whether the key is still active.
func (k *KeyRecord) IsActive() bool {
	return k.RetiredAt == nil
}
