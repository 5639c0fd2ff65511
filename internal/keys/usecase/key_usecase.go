// Package usecase implements the key lifecycle for envelope encryption.
package usecase

import (
	"context"
	"crypto/rand"
	"log/slog"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/cipherapi/cipherapi/internal/crypto/domain"
	cryptoService "github.com/cipherapi/cipherapi/internal/crypto/service"
	"github.com/cipherapi/cipherapi/internal/database"
	apperrors "github.com/cipherapi/cipherapi/internal/errors"
	identityDomain "github.com/cipherapi/cipherapi/internal/identity/domain"
	keysDomain "github.com/cipherapi/cipherapi/internal/keys/domain"
)

// keyUseCase implements KeyUseCase backed by the key repository and the key
// wrap service. All database access runs through identity-bound transactions
// so row-level security sees the caller's claims.
type keyUseCase struct {
	txManager  database.IdentityTxManager
	keyRepo    KeyRepository
	keyWrapper cryptoService.KeyWrapper
	logger     *slog.Logger
}

// NewKeyUseCase creates a new KeyUseCase.
func NewKeyUseCase(
	txManager database.IdentityTxManager,
	keyRepo KeyRepository,
	keyWrapper cryptoService.KeyWrapper,
	logger *slog.Logger,
) KeyUseCase {
	return &keyUseCase{
		txManager:  txManager,
		keyRepo:    keyRepo,
		keyWrapper: keyWrapper,
		logger:     logger,
	}
}

// Mint generates a fresh 32-byte data key, wraps it under the master key and
// persists the record for the identity. Returns ErrConflict when a concurrent
// mint already created an active key for the same purpose.
func (u *keyUseCase) Mint(
	ctx context.Context,
	identity *identityDomain.Identity,
	purpose string,
) (*keysDomain.ActiveKey, error) {
	dataKey := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(dataKey); err != nil {
		return nil, apperrors.Wrap(err, "failed to generate data key")
	}

	wrapped, err := u.keyWrapper.Wrap(ctx, dataKey)
	if err != nil {
		cryptoDomain.Zero(dataKey)
		return nil, err
	}

	userID := identity.Subject
	record := &keysDomain.KeyRecord{
		ID:         uuid.Must(uuid.NewV7()),
		UserID:     &userID,
		Purpose:    purpose,
		WrappedKey: wrapped,
		Algo:       cryptoDomain.AESGCM,
		CreatedAt:  time.Now().UTC(),
	}

	err = u.txManager.WithIdentityTx(ctx, identity, func(ctx context.Context) error {
		return u.keyRepo.Create(ctx, record)
	})
	if err != nil {
		cryptoDomain.Zero(dataKey)
		return nil, err
	}

	return &keysDomain.ActiveKey{ID: record.ID, Algo: record.Algo, Key: dataKey}, nil
}

// EnsureActive returns the active key for the identity and purpose, minting
// one if none exists.
//
// A concurrent first call can lose the insert race; the conflict-safe insert
// reports that as ErrConflict and the loser re-fetches the winner's record,
// so every caller converges on the same single active key.
func (u *keyUseCase) EnsureActive(
	ctx context.Context,
	identity *identityDomain.Identity,
	purpose string,
) (*keysDomain.ActiveKey, error) {
	active, err := u.fetchActive(ctx, identity, purpose)
	if err == nil {
		return active, nil
	}
	if !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	minted, err := u.Mint(ctx, identity, purpose)
	if err == nil {
		return minted, nil
	}
	if !apperrors.Is(err, apperrors.ErrConflict) {
		return nil, err
	}

	// Lost the mint race; the winner's record is now active.
	return u.fetchActive(ctx, identity, purpose)
}

// GetByID unwraps a specific key visible to the identity. A key owned by
// another tenant is reported as ErrNotFound.
func (u *keyUseCase) GetByID(
	ctx context.Context,
	identity *identityDomain.Identity,
	keyID uuid.UUID,
) (*keysDomain.ActiveKey, error) {
	var record *keysDomain.KeyRecord
	err := u.txManager.WithIdentityReadTx(ctx, identity, func(ctx context.Context) error {
		var repoErr error
		record, repoErr = u.keyRepo.GetByID(ctx, identity.Subject, keyID)
		return repoErr
	})
	if err != nil {
		return nil, err
	}

	return u.unwrapRecord(ctx, record)
}

// Rotate retires the identity's active key for the purpose and mints a
// replacement.
//
// Retire and mint commit independently; a concurrent EnsureActive observing
// the window between them simply mints, which the conflict-safe insert
// resolves to a single winner. A rotation that retired nothing still mints.
func (u *keyUseCase) Rotate(
	ctx context.Context,
	identity *identityDomain.Identity,
	purpose string,
) (uuid.UUID, error) {
	var retired int64
	err := u.txManager.WithIdentityTx(ctx, identity, func(ctx context.Context) error {
		var repoErr error
		retired, repoErr = u.keyRepo.RetireActive(ctx, identity.Subject, purpose)
		return repoErr
	})
	if err != nil {
		return uuid.Nil, err
	}

	u.logger.Info("rotating key",
		slog.String("purpose", purpose),
		slog.Int64("retired", retired),
	)

	minted, err := u.Mint(ctx, identity, purpose)
	if err == nil {
		defer minted.Zero()
		return minted.ID, nil
	}
	if !apperrors.Is(err, apperrors.ErrConflict) {
		return uuid.Nil, err
	}

	// A concurrent mint won after the retire; return its id.
	active, err := u.fetchActive(ctx, identity, purpose)
	if err != nil {
		return uuid.Nil, err
	}
	defer active.Zero()
	return active.ID, nil
}

// fetchActive reads the active record inside a read-only identity transaction
// and unwraps it.
func (u *keyUseCase) fetchActive(
	ctx context.Context,
	identity *identityDomain.Identity,
	purpose string,
) (*keysDomain.ActiveKey, error) {
	var record *keysDomain.KeyRecord
	err := u.txManager.WithIdentityReadTx(ctx, identity, func(ctx context.Context) error {
		var repoErr error
		record, repoErr = u.keyRepo.GetActive(ctx, identity.Subject, purpose)
		return repoErr
	})
	if err != nil {
		return nil, err
	}

	return u.unwrapRecord(ctx, record)
}

// unwrapRecord recovers the plaintext key material for a record.
func (u *keyUseCase) unwrapRecord(
	ctx context.Context,
	record *keysDomain.KeyRecord,
) (*keysDomain.ActiveKey, error) {
	dataKey, err := u.keyWrapper.Unwrap(ctx, record.WrappedKey)
	if err != nil {
		return nil, err
	}

	return &keysDomain.ActiveKey{ID: record.ID, Algo: record.Algo, Key: dataKey}, nil
}
