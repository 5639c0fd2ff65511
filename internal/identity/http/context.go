// Package http provides HTTP middleware and handlers for request identity.
package http

import (
	"context"

	identityDomain "github.com/cipherapi/cipherapi/internal/identity/domain"
)

// identityKey is a context key type for storing authenticated identities.
type identityKey struct{}

// WithIdentity stores an authenticated identity in the context.
// This is typically called by the authentication middleware after successful token verification.
func WithIdentity(ctx context.Context, identity *identityDomain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// GetIdentity retrieves an authenticated identity from the context.
// Returns (identity, true) if present, or (nil, false) if no identity was set.
func GetIdentity(ctx context.Context) (*identityDomain.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(*identityDomain.Identity)
	return identity, ok
}
