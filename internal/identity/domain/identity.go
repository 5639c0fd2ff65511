// Package domain defines the authenticated identity attached to each request.
package domain

import (
	"encoding/json"

	"github.com/google/uuid"

	apperrors "github.com/cipherapi/cipherapi/internal/errors"
)

// Identity is the immutable authentication context of a request.
//
// Subject is the tenant identifier extracted from the verified token's "sub"
// claim. Claims holds the full verified claim set; it is serialized verbatim
// into the database session so row-level security policies can evaluate the
// same claims the application saw.
type Identity struct {
	Subject uuid.UUID
	Claims  map[string]any
}

// NewIdentity builds an Identity from a verified claim set. The "sub" claim
// must be present and parse as a UUID.
func NewIdentity(claims map[string]any) (*Identity, error) {
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "token has no subject claim")
	}

	subject, err := uuid.Parse(sub)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "subject claim is not a valid uuid")
	}

	return &Identity{Subject: subject, Claims: claims}, nil
}

// ClaimsJSON serializes the claim set for binding into a database session
// variable. The serialized form always carries at least the subject.
func (i *Identity) ClaimsJSON() (string, error) {
	claims := i.Claims
	if claims == nil {
		claims = map[string]any{"sub": i.Subject.String()}
	}

	data, err := json.Marshal(claims)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to serialize identity claims")
	}
	return string(data), nil
}
