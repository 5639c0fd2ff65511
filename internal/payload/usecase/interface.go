package usecase

import (
	"context"

	identityDomain "github.com/cipherapi/cipherapi/internal/identity/domain"
	payloadDomain "github.com/cipherapi/cipherapi/internal/payload/domain"
)

// PayloadUseCase defines tenant-facing payload encryption operations.
type PayloadUseCase interface {
	// Encrypt seals plaintext under the identity's active data key, minting
	// one on first use. Rejects empty plaintext (ErrInvalidInput) and
	// plaintext over the size limit (ErrPayloadTooLarge).
	Encrypt(ctx context.Context, identity *identityDomain.Identity, text string) (*payloadDomain.EncryptedPayload, error)

	// Decrypt opens an envelope. With an explicit key id the named key is
	// used (ErrNotFound when invisible to the identity); otherwise the active
	// key. All cipher failures surface as the generic ErrDecryptionFailed.
	Decrypt(ctx context.Context, identity *identityDomain.Identity, input *payloadDomain.DecryptInput) (string, error)
}
