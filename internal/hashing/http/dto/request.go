// Package dto contains request payloads for the hashing HTTP API.
package dto

import (
	validation "github.com/jellydator/validation"

	validationrules "github.com/cipherapi/cipherapi/internal/validation"
)

// HashRequest represents a request to hash a piece of text.
type HashRequest struct {
	Text string `json:"text"`
}

// Validate validates the hash request fields.
func (r HashRequest) Validate() error {
	return validationrules.WrapValidationError(validation.ValidateStruct(&r,
		validation.Field(&r.Text, validation.Required),
	))
}

// VerifyRequest represents a request to verify a plaintext against an Argon2id hash.
type VerifyRequest struct {
	Plaintext string `json:"plaintext"`
	Hash      string `json:"hash"`
}

// Validate validates the verify request fields.
func (r VerifyRequest) Validate() error {
	return validationrules.WrapValidationError(validation.ValidateStruct(&r,
		validation.Field(&r.Plaintext, validation.Required),
		validation.Field(&r.Hash, validation.Required, validationrules.NotBlank),
	))
}
