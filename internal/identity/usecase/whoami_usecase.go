// Package usecase implements identity introspection.
package usecase

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/cipherapi/cipherapi/internal/database"
	apperrors "github.com/cipherapi/cipherapi/internal/errors"
	identityDomain "github.com/cipherapi/cipherapi/internal/identity/domain"
)

// WhoAmI reports the authenticated subject and whether the identity claims
// are visible inside an identity-scoped transaction. ClaimsBound false means
// row-level security policies would see no identity, a deployment fault worth
// surfacing before any data is written.
type WhoAmI struct {
	Subject     uuid.UUID
	ClaimsBound bool
}

// WhoAmIUseCase defines identity introspection operations.
type WhoAmIUseCase interface {
	WhoAmI(ctx context.Context, identity *identityDomain.Identity) (*WhoAmI, error)
}

// whoAmIUseCase implements WhoAmIUseCase by probing the session variable that
// the identity-scoped transaction manager binds.
type whoAmIUseCase struct {
	db        *sql.DB
	txManager database.IdentityTxManager
}

// NewWhoAmIUseCase creates a new WhoAmIUseCase.
func NewWhoAmIUseCase(db *sql.DB, txManager database.IdentityTxManager) WhoAmIUseCase {
	return &whoAmIUseCase{db: db, txManager: txManager}
}

// WhoAmI probes current_setting('request.jwt.claims') inside a read-only
// identity transaction.
func (u *whoAmIUseCase) WhoAmI(
	ctx context.Context,
	identity *identityDomain.Identity,
) (*WhoAmI, error) {
	var bound bool
	err := u.txManager.WithIdentityReadTx(ctx, identity, func(ctx context.Context) error {
		querier := database.GetTx(ctx, u.db)

		var claims sql.NullString
		query := `SELECT current_setting('request.jwt.claims', true)`
		if err := querier.QueryRowContext(ctx, query).Scan(&claims); err != nil {
			return apperrors.Wrap(err, "failed to probe claims session variable")
		}

		bound = claims.Valid && claims.String != ""
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &WhoAmI{Subject: identity.Subject, ClaimsBound: bound}, nil
}
