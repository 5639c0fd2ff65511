// Package domain defines the payload encryption envelope.
package domain

import (
	"github.com/google/uuid"

	cryptoDomain "github.com/cipherapi/cipherapi/internal/crypto/domain"
)

// MaxPlaintextBytes is the maximum accepted plaintext size. A payload of
// exactly this size is accepted; one byte more is rejected.
const MaxPlaintextBytes = 1_000_000

// EnvelopeVersion is the current envelope format version.
const EnvelopeVersion = 1

// EncryptedPayload is the envelope returned by an encrypt operation.
//
// IV, Ciphertext and Tag are standard base64. KeyID names the data key the
// payload was sealed with so it can be decrypted after the key is retired.
type EncryptedPayload struct {
	Scheme     cryptoDomain.Algorithm
	IV         string
	Ciphertext string
	Tag        string
	Version    int
	KeyID      uuid.UUID
}

// DecryptInput carries the envelope fields submitted for decryption.
//
// KeyID is optional: absent, the caller's current active key is used. Version
// is accepted for forward compatibility and currently ignored.
type DecryptInput struct {
	IV         string
	Ciphertext string
	Tag        string
	Version    *int
	KeyID      *uuid.UUID
}
