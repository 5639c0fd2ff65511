// Package repository implements data persistence for operation history.
package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/cipherapi/cipherapi/internal/database"
	apperrors "github.com/cipherapi/cipherapi/internal/errors"
	historyDomain "github.com/cipherapi/cipherapi/internal/history/domain"
)

// PostgreSQLOperationRepository implements Operation persistence for PostgreSQL.
type PostgreSQLOperationRepository struct {
	db *sql.DB
}

// NewPostgreSQLOperationRepository creates a new PostgreSQL Operation repository.
func NewPostgreSQLOperationRepository(db *sql.DB) *PostgreSQLOperationRepository {
	return &PostgreSQLOperationRepository{db: db}
}

// Create inserts a new operation record.
func (p *PostgreSQLOperationRepository) Create(ctx context.Context, op *historyDomain.Operation) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO operations (id, user_id, kind, algo, meta_json, took_ms, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		op.ID,
		op.UserID,
		op.Kind,
		op.Algo,
		op.MetaJSON,
		op.TookMs,
		op.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create operation record")
	}

	return nil
}

// List retrieves the subject's operations, newest first, with optional kind
// and algo filters. Returns an empty slice when nothing matches.
func (p *PostgreSQLOperationRepository) List(
	ctx context.Context,
	subject uuid.UUID,
	filter historyDomain.ListFilter,
) ([]*historyDomain.Operation, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, user_id, kind, algo, meta_json, took_ms, created_at
			  FROM operations
			  WHERE user_id = $1
			    AND ($2 = '' OR kind = $2)
			    AND ($3 = '' OR algo = $3)
			  ORDER BY created_at DESC
			  LIMIT $4`

	rows, err := querier.QueryContext(ctx, query, subject, filter.Kind, filter.Algo, filter.Limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list operations")
	}
	defer func() {
		_ = rows.Close()
	}()

	// Initialize empty slice to avoid returning nil for empty results
	operations := make([]*historyDomain.Operation, 0)
	for rows.Next() {
		var op historyDomain.Operation
		err := rows.Scan(
			&op.ID,
			&op.UserID,
			&op.Kind,
			&op.Algo,
			&op.MetaJSON,
			&op.TookMs,
			&op.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan operation")
		}
		operations = append(operations, &op)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate operations")
	}

	return operations, nil
}

// Delete removes one of the subject's operations by id. Returns the number of
// rows deleted; zero means the record does not exist or belongs to another
// tenant.
func (p *PostgreSQLOperationRepository) Delete(
	ctx context.Context,
	subject uuid.UUID,
	operationID uuid.UUID,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM operations WHERE id = $1 AND user_id = $2`

	result, err := querier.ExecContext(ctx, query, operationID, subject)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete operation")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to read rows affected for operation delete")
	}

	return rows, nil
}
