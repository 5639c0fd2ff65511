package database

import (
	"context"
	"database/sql"
	"errors"

	apperrors "github.com/cipherapi/cipherapi/internal/errors"
	identityDomain "github.com/cipherapi/cipherapi/internal/identity/domain"
)

// IdentityTxManager runs database work inside a transaction whose session is
// bound to the caller's identity claims.
//
// Every transaction starts by executing
//
//	SELECT set_config('request.jwt.claims', $1, true)
//
// with the serialized claims bound as a parameter. The third argument scopes
// the setting to the transaction, never the connection: pooled connections are
// reused across tenants, so a connection-scoped setting would leak one
// tenant's identity into another tenant's queries. Row-level security
// policies read the setting via current_setting('request.jwt.claims', true).
//
// Statements run through this manager use plain parameterized queries with no
// server-side prepared statement cache, which keeps the binding safe behind
// transaction-pooling proxies such as PgBouncer.
type IdentityTxManager interface {
	// WithIdentityTx executes fn inside an identity-bound transaction and
	// commits when fn returns nil. Any error rolls the transaction back.
	WithIdentityTx(ctx context.Context, identity *identityDomain.Identity, fn func(ctx context.Context) error) error

	// WithIdentityReadTx executes fn inside an identity-bound transaction that
	// is always rolled back. Use it for reads that must see tenant-filtered
	// rows without leaving any trace.
	WithIdentityReadTx(ctx context.Context, identity *identityDomain.Identity, fn func(ctx context.Context) error) error
}

// sqlIdentityTxManager implements IdentityTxManager for PostgreSQL.
type sqlIdentityTxManager struct {
	db *sql.DB
}

// NewIdentityTxManager creates a new IdentityTxManager for the given database.
func NewIdentityTxManager(db *sql.DB) IdentityTxManager {
	return &sqlIdentityTxManager{db: db}
}

// WithIdentityTx executes the function within an identity-bound transaction.
func (m *sqlIdentityTxManager) WithIdentityTx(
	ctx context.Context,
	identity *identityDomain.Identity,
	fn func(ctx context.Context) error,
) error {
	tx, err := m.begin(ctx, identity)
	if err != nil {
		return err
	}

	if err := fn(withTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, apperrors.Wrap(rbErr, "failed to roll back transaction"))
		}
		return err
	}

	return tx.Commit()
}

// WithIdentityReadTx executes the function within an identity-bound
// transaction and rolls it back unconditionally.
func (m *sqlIdentityTxManager) WithIdentityReadTx(
	ctx context.Context,
	identity *identityDomain.Identity,
	fn func(ctx context.Context) error,
) error {
	tx, err := m.begin(ctx, identity)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	return fn(withTx(ctx, tx))
}

// begin opens a transaction and binds the identity claims to it.
func (m *sqlIdentityTxManager) begin(
	ctx context.Context,
	identity *identityDomain.Identity,
) (*sql.Tx, error) {
	if identity == nil {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "identity is required for database access")
	}

	claims, err := identity.ClaimsJSON()
	if err != nil {
		return nil, err
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to begin transaction")
	}

	// Claims are bound as a parameter, never interpolated.
	if _, err := tx.ExecContext(ctx, "SELECT set_config('request.jwt.claims', $1, true)", claims); err != nil {
		bindErr := apperrors.Wrap(err, "failed to bind identity claims to transaction")
		if rbErr := tx.Rollback(); rbErr != nil {
			return nil, errors.Join(bindErr, apperrors.Wrap(rbErr, "failed to roll back transaction"))
		}
		return nil, bindErr
	}

	return tx, nil
}
