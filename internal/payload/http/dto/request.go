// Package dto contains request payloads for the payload encryption HTTP API.
package dto

import (
	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	apperrors "github.com/cipherapi/cipherapi/internal/errors"
	payloadDomain "github.com/cipherapi/cipherapi/internal/payload/domain"
	validationrules "github.com/cipherapi/cipherapi/internal/validation"
)

// EncryptRequest represents a request to encrypt a piece of text.
type EncryptRequest struct {
	Text string `json:"text"`
}

// Validate validates the encrypt request fields.
//
// The empty-text and size-limit checks live in the use case so the same
// rules apply to every caller; only structural validation happens here.
func (r EncryptRequest) Validate() error {
	return validationrules.WrapValidationError(validation.ValidateStruct(&r,
		validation.Field(&r.Text, validation.Required),
	))
}

// DecryptRequest represents a request to decrypt an envelope.
type DecryptRequest struct {
	IV         string  `json:"iv"`
	Ciphertext string  `json:"ct"`
	Tag        string  `json:"tag"`
	Version    *int    `json:"version,omitempty"`
	KeyID      *string `json:"key_id,omitempty"`
}

// Validate validates the decrypt request fields.
func (r DecryptRequest) Validate() error {
	return validationrules.WrapValidationError(validation.ValidateStruct(&r,
		validation.Field(&r.IV, validation.Required, validationrules.Base64),
		validation.Field(&r.Ciphertext, validation.Required, validationrules.Base64),
		validation.Field(&r.Tag, validation.Required, validationrules.Base64),
	))
}

// ToDomain converts the request to a domain decrypt input.
// An unparsable key id is invalid input, not a missing key.
func (r DecryptRequest) ToDomain() (*payloadDomain.DecryptInput, error) {
	input := &payloadDomain.DecryptInput{
		IV:         r.IV,
		Ciphertext: r.Ciphertext,
		Tag:        r.Tag,
		Version:    r.Version,
	}

	if r.KeyID != nil {
		keyID, err := uuid.Parse(*r.KeyID)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "key_id must be a valid UUID")
		}
		input.KeyID = &keyID
	}

	return input, nil
}
