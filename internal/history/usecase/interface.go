package usecase

import (
	"context"

	"github.com/google/uuid"

	historyDomain "github.com/cipherapi/cipherapi/internal/history/domain"
	identityDomain "github.com/cipherapi/cipherapi/internal/identity/domain"
)

// OperationRepository defines the interface for operation history persistence.
type OperationRepository interface {
	Create(ctx context.Context, op *historyDomain.Operation) error
	List(ctx context.Context, subject uuid.UUID, filter historyDomain.ListFilter) ([]*historyDomain.Operation, error)
	Delete(ctx context.Context, subject uuid.UUID, operationID uuid.UUID) (int64, error)
}

// OperationUseCase defines the operation history operations.
type OperationUseCase interface {
	// Save records an operation for the identity and returns its id.
	Save(ctx context.Context, identity *identityDomain.Identity, kind, algo, metaJSON string, tookMs *int64) (uuid.UUID, error)

	// List returns the identity's operations, newest first. The filter limit
	// is clamped into [1, 200] with a default of 50.
	List(ctx context.Context, identity *identityDomain.Identity, filter historyDomain.ListFilter) ([]*historyDomain.Operation, error)

	// Delete removes one of the identity's operations; ErrNotFound when the
	// record does not exist or belongs to another tenant.
	Delete(ctx context.Context, identity *identityDomain.Identity, operationID uuid.UUID) error
}
