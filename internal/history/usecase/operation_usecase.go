// Package usecase implements tenant-scoped operation history.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cipherapi/cipherapi/internal/database"
	apperrors "github.com/cipherapi/cipherapi/internal/errors"
	historyDomain "github.com/cipherapi/cipherapi/internal/history/domain"
	identityDomain "github.com/cipherapi/cipherapi/internal/identity/domain"
)

// operationUseCase implements OperationUseCase.
type operationUseCase struct {
	txManager database.IdentityTxManager
	opRepo    OperationRepository
}

// NewOperationUseCase creates a new OperationUseCase.
func NewOperationUseCase(
	txManager database.IdentityTxManager,
	opRepo OperationRepository,
) OperationUseCase {
	return &operationUseCase{
		txManager: txManager,
		opRepo:    opRepo,
	}
}

// Save records an operation for the identity.
func (u *operationUseCase) Save(
	ctx context.Context,
	identity *identityDomain.Identity,
	kind, algo, metaJSON string,
	tookMs *int64,
) (uuid.UUID, error) {
	if kind == "" {
		return uuid.Nil, apperrors.Wrap(apperrors.ErrInvalidInput, "operation kind is required")
	}
	if metaJSON == "" {
		metaJSON = "{}"
	}

	op := &historyDomain.Operation{
		ID:        uuid.Must(uuid.NewV7()),
		UserID:    identity.Subject,
		Kind:      kind,
		Algo:      algo,
		MetaJSON:  metaJSON,
		TookMs:    tookMs,
		CreatedAt: time.Now().UTC(),
	}

	err := u.txManager.WithIdentityTx(ctx, identity, func(ctx context.Context) error {
		return u.opRepo.Create(ctx, op)
	})
	if err != nil {
		return uuid.Nil, err
	}

	return op.ID, nil
}

// List returns the identity's operations with the limit clamped.
func (u *operationUseCase) List(
	ctx context.Context,
	identity *identityDomain.Identity,
	filter historyDomain.ListFilter,
) ([]*historyDomain.Operation, error) {
	filter.Limit = historyDomain.ClampLimit(filter.Limit)

	var operations []*historyDomain.Operation
	err := u.txManager.WithIdentityReadTx(ctx, identity, func(ctx context.Context) error {
		var repoErr error
		operations, repoErr = u.opRepo.List(ctx, identity.Subject, filter)
		return repoErr
	})
	if err != nil {
		return nil, err
	}

	return operations, nil
}

// Delete removes one of the identity's operations.
func (u *operationUseCase) Delete(
	ctx context.Context,
	identity *identityDomain.Identity,
	operationID uuid.UUID,
) error {
	var rows int64
	err := u.txManager.WithIdentityTx(ctx, identity, func(ctx context.Context) error {
		var repoErr error
		rows, repoErr = u.opRepo.Delete(ctx, identity.Subject, operationID)
		return repoErr
	})
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}
