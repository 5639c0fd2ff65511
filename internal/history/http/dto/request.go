// Package dto contains request payloads for the operation history HTTP API.
package dto

import (
	"encoding/json"

	validation "github.com/jellydator/validation"

	validationrules "github.com/cipherapi/cipherapi/internal/validation"
)

// SaveOperationRequest represents a request to record an operation.
type SaveOperationRequest struct {
	Kind     string `json:"kind"`
	Algo     string `json:"algo,omitempty"`
	MetaJSON string `json:"meta_json,omitempty"`
	TookMs   *int64 `json:"took_ms,omitempty"`
}

// Validate validates the save operation request fields.
func (r SaveOperationRequest) Validate() error {
	return validationrules.WrapValidationError(validation.ValidateStruct(&r,
		validation.Field(&r.Kind, validation.Required, validationrules.NotBlank),
		validation.Field(&r.MetaJSON, validation.By(jsonValue)),
	))
}

// jsonValue validates that a non-empty string parses as JSON. The storage
// column is jsonb, so malformed metadata has to be rejected before insert.
func jsonValue(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_json_type", "must be a string")
	}
	if s == "" {
		return nil
	}
	if !json.Valid([]byte(s)) {
		return validation.NewError("validation_json", "must be valid JSON")
	}
	return nil
}
