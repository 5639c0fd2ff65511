package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	identityDomain "github.com/cipherapi/cipherapi/internal/identity/domain"
	keysDomain "github.com/cipherapi/cipherapi/internal/keys/domain"
	"github.com/cipherapi/cipherapi/internal/metrics"
)

// keyUseCaseWithMetrics decorates KeyUseCase with metrics instrumentation.
type keyUseCaseWithMetrics struct {
	next    KeyUseCase
	metrics metrics.BusinessMetrics
}

// NewKeyUseCaseWithMetrics wraps a KeyUseCase with metrics recording.
func NewKeyUseCaseWithMetrics(useCase KeyUseCase, m metrics.BusinessMetrics) KeyUseCase {
	return &keyUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Mint records metrics for key minting operations.
func (k *keyUseCaseWithMetrics) Mint(
	ctx context.Context,
	identity *identityDomain.Identity,
	purpose string,
) (*keysDomain.ActiveKey, error) {
	start := time.Now()
	key, err := k.next.Mint(ctx, identity, purpose)

	status := "success"
	if err != nil {
		status = "error"
	}

	k.metrics.RecordOperation(ctx, "keys", "key_mint", status)
	k.metrics.RecordDuration(ctx, "keys", "key_mint", time.Since(start), status)

	return key, err
}

// EnsureActive records metrics for active key resolution.
func (k *keyUseCaseWithMetrics) EnsureActive(
	ctx context.Context,
	identity *identityDomain.Identity,
	purpose string,
) (*keysDomain.ActiveKey, error) {
	start := time.Now()
	key, err := k.next.EnsureActive(ctx, identity, purpose)

	status := "success"
	if err != nil {
		status = "error"
	}

	k.metrics.RecordOperation(ctx, "keys", "key_ensure_active", status)
	k.metrics.RecordDuration(ctx, "keys", "key_ensure_active", time.Since(start), status)

	return key, err
}

// GetByID records metrics for key lookups.
func (k *keyUseCaseWithMetrics) GetByID(
	ctx context.Context,
	identity *identityDomain.Identity,
	keyID uuid.UUID,
) (*keysDomain.ActiveKey, error) {
	start := time.Now()
	key, err := k.next.GetByID(ctx, identity, keyID)

	status := "success"
	if err != nil {
		status = "error"
	}

	k.metrics.RecordOperation(ctx, "keys", "key_get_by_id", status)
	k.metrics.RecordDuration(ctx, "keys", "key_get_by_id", time.Since(start), status)

	return key, err
}

// Rotate records metrics for key rotation operations.
func (k *keyUseCaseWithMetrics) Rotate(
	ctx context.Context,
	identity *identityDomain.Identity,
	purpose string,
) (uuid.UUID, error) {
	start := time.Now()
	id, err := k.next.Rotate(ctx, identity, purpose)

	status := "success"
	if err != nil {
		status = "error"
	}

	k.metrics.RecordOperation(ctx, "keys", "key_rotate", status)
	k.metrics.RecordDuration(ctx, "keys", "key_rotate", time.Since(start), status)

	return id, err
}
