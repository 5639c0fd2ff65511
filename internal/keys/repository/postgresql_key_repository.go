// Package repository implements data persistence for the key store.
package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/cipherapi/cipherapi/internal/database"
	apperrors "github.com/cipherapi/cipherapi/internal/errors"
	keysDomain "github.com/cipherapi/cipherapi/internal/keys/domain"
)

// PostgreSQLKeyRepository implements KeyRecord persistence for PostgreSQL.
//
// Every query carries an explicit owner predicate in addition to the
// database's row-level security policies. The policies are the backstop; the
// predicates keep the queries correct even against a superuser connection
// that bypasses RLS.
type PostgreSQLKeyRepository struct {
	db *sql.DB
}

// NewPostgreSQLKeyRepository creates a new PostgreSQL KeyRecord repository.
func NewPostgreSQLKeyRepository(db *sql.DB) *PostgreSQLKeyRepository {
	return &PostgreSQLKeyRepository{db: db}
}

// GetActive retrieves the active key for a purpose visible to the subject.
//
// Tenant-owned keys win over shared keys, newest first within each class.
// Returns ErrNotFound when no active key is visible.
func (p *PostgreSQLKeyRepository) GetActive(
	ctx context.Context,
	subject uuid.UUID,
	purpose string,
) (*keysDomain.KeyRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, user_id, purpose, wrapped_key, algo, created_at, retired_at
			  FROM keys
			  WHERE purpose = $1 AND retired_at IS NULL
			    AND (user_id = $2 OR user_id IS NULL)
			  ORDER BY user_id NULLS LAST, created_at DESC
			  LIMIT 1`

	var record keysDomain.KeyRecord
	err := querier.QueryRowContext(ctx, query, purpose, subject).Scan(
		&record.ID,
		&record.UserID,
		&record.Purpose,
		&record.WrappedKey,
		&record.Algo,
		&record.CreatedAt,
		&record.RetiredAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get active key")
	}

	return &record, nil
}

// Create inserts a new key record.
//
// The insert is conflict-safe against the partial unique index on
// (owner, purpose) for non-retired rows: when a concurrent insert already
// created an active key for the same owner and purpose, zero rows are
// affected and ErrConflict is returned so the caller can fetch the winner.
func (p *PostgreSQLKeyRepository) Create(ctx context.Context, record *keysDomain.KeyRecord) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO keys (id, user_id, purpose, wrapped_key, algo, created_at, retired_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  ON CONFLICT DO NOTHING`

	result, err := querier.ExecContext(
		ctx,
		query,
		record.ID,
		record.UserID,
		record.Purpose,
		record.WrappedKey,
		record.Algo,
		record.CreatedAt,
		record.RetiredAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create key")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read rows affected for key create")
	}
	if rows == 0 {
		return apperrors.ErrConflict
	}

	return nil
}

// GetByID retrieves a key by id when it is owned by the subject or shared.
//
// A key that exists but belongs to another tenant returns ErrNotFound,
// indistinguishable from a key that does not exist.
func (p *PostgreSQLKeyRepository) GetByID(
	ctx context.Context,
	subject uuid.UUID,
	keyID uuid.UUID,
) (*keysDomain.KeyRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, user_id, purpose, wrapped_key, algo, created_at, retired_at
			  FROM keys
			  WHERE id = $1 AND (user_id = $2 OR user_id IS NULL)
			  LIMIT 1`

	var record keysDomain.KeyRecord
	err := querier.QueryRowContext(ctx, query, keyID, subject).Scan(
		&record.ID,
		&record.UserID,
		&record.Purpose,
		&record.WrappedKey,
		&record.Algo,
		&record.CreatedAt,
		&record.RetiredAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get key by id")
	}

	return &record, nil
}

// RetireActive retires the subject's active keys for a purpose in a single
// statement. Shared keys are never retired through this path. Returns the
// number of rows retired; zero is not an error.
func (p *PostgreSQLKeyRepository) RetireActive(
	ctx context.Context,
	subject uuid.UUID,
	purpose string,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE keys
			  SET retired_at = now()
			  WHERE user_id = $1 AND purpose = $2 AND retired_at IS NULL`

	result, err := querier.ExecContext(ctx, query, subject, purpose)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to retire active keys")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to read rows affected for key retire")
	}

	return rows, nil
}
