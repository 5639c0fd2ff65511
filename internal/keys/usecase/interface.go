package usecase

import (
	"context"

	"github.com/google/uuid"

	identityDomain "github.com/cipherapi/cipherapi/internal/identity/domain"
	keysDomain "github.com/cipherapi/cipherapi/internal/keys/domain"
)

// KeyRepository defines the interface for key record persistence.
type KeyRepository interface {
	// GetActive returns the active key for a purpose visible to the subject
	// (tenant-owned preferred over shared, newest first) or ErrNotFound.
	GetActive(ctx context.Context, subject uuid.UUID, purpose string) (*keysDomain.KeyRecord, error)

	// Create inserts a key record; returns ErrConflict when a concurrent
	// insert already created an active key for the same owner and purpose.
	Create(ctx context.Context, record *keysDomain.KeyRecord) error

	// GetByID returns a key owned by the subject or shared, ErrNotFound otherwise.
	GetByID(ctx context.Context, subject uuid.UUID, keyID uuid.UUID) (*keysDomain.KeyRecord, error)

	// RetireActive retires the subject's active keys for a purpose and
	// returns the number of rows retired.
	RetireActive(ctx context.Context, subject uuid.UUID, purpose string) (int64, error)
}

// KeyUseCase defines the key lifecycle operations.
//
// All returned ActiveKey values carry plaintext key material; callers MUST
// zero it after use.
type KeyUseCase interface {
	// Mint generates a fresh data key, wraps it and persists it for the identity.
	Mint(ctx context.Context, identity *identityDomain.Identity, purpose string) (*keysDomain.ActiveKey, error)

	// EnsureActive returns the active key for the identity and purpose,
	// minting one if none exists. Safe under concurrent first calls: all
	// callers converge on a single active record.
	EnsureActive(ctx context.Context, identity *identityDomain.Identity, purpose string) (*keysDomain.ActiveKey, error)

	// GetByID unwraps a specific key visible to the identity.
	GetByID(ctx context.Context, identity *identityDomain.Identity, keyID uuid.UUID) (*keysDomain.ActiveKey, error)

	// Rotate retires the identity's active key for the purpose and mints a
	// replacement, returning the new key's id.
	Rotate(ctx context.Context, identity *identityDomain.Identity, purpose string) (uuid.UUID, error)
}
