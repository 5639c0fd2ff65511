// Package usecase implements the payload encryption API over the key store.
package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	cryptoDomain "github.com/cipherapi/cipherapi/internal/crypto/domain"
	cryptoService "github.com/cipherapi/cipherapi/internal/crypto/service"
	apperrors "github.com/cipherapi/cipherapi/internal/errors"
	historyUseCase "github.com/cipherapi/cipherapi/internal/history/usecase"
	identityDomain "github.com/cipherapi/cipherapi/internal/identity/domain"
	keysDomain "github.com/cipherapi/cipherapi/internal/keys/domain"
	keysUseCase "github.com/cipherapi/cipherapi/internal/keys/usecase"
	payloadDomain "github.com/cipherapi/cipherapi/internal/payload/domain"
)

// payloadUseCase implements PayloadUseCase.
//
// History writes are best-effort: an audit failure is logged at warn and
// never fails the cryptographic operation itself.
type payloadUseCase struct {
	keyUseCase  keysUseCase.KeyUseCase
	opUseCase   historyUseCase.OperationUseCase
	aeadManager cryptoService.AEADManager
	logger      *slog.Logger
}

// NewPayloadUseCase creates a new PayloadUseCase.
func NewPayloadUseCase(
	keyUseCase keysUseCase.KeyUseCase,
	opUseCase historyUseCase.OperationUseCase,
	aeadManager cryptoService.AEADManager,
	logger *slog.Logger,
) PayloadUseCase {
	return &payloadUseCase{
		keyUseCase:  keyUseCase,
		opUseCase:   opUseCase,
		aeadManager: aeadManager,
		logger:      logger,
	}
}

// Encrypt seals plaintext under the identity's active data key.
func (u *payloadUseCase) Encrypt(
	ctx context.Context,
	identity *identityDomain.Identity,
	text string,
) (*payloadDomain.EncryptedPayload, error) {
	if len(text) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "text must not be empty")
	}
	if len(text) > payloadDomain.MaxPlaintextBytes {
		return nil, apperrors.Wrap(
			apperrors.ErrPayloadTooLarge,
			fmt.Sprintf("text exceeds %d bytes", payloadDomain.MaxPlaintextBytes),
		)
	}

	active, err := u.keyUseCase.EnsureActive(ctx, identity, keysDomain.PurposeData)
	if err != nil {
		return nil, err
	}
	defer active.Zero()

	aead, err := u.aeadManager.CreateCipher(active.Key, active.Algo)
	if err != nil {
		return nil, err
	}

	nonce, ciphertext, tag, err := aead.Seal([]byte(text))
	if err != nil {
		return nil, err
	}

	envelope := &payloadDomain.EncryptedPayload{
		Scheme:     active.Algo,
		IV:         base64.StdEncoding.EncodeToString(nonce),
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
		Tag:        base64.StdEncoding.EncodeToString(tag),
		Version:    payloadDomain.EnvelopeVersion,
		KeyID:      active.ID,
	}

	u.recordOperation(ctx, identity, "encrypt", envelope.Scheme, envelope.KeyID.String())

	return envelope, nil
}

// Decrypt opens an envelope with the named key or the active key.
func (u *payloadUseCase) Decrypt(
	ctx context.Context,
	identity *identityDomain.Identity,
	input *payloadDomain.DecryptInput,
) (string, error) {
	nonce, err := base64.StdEncoding.DecodeString(input.IV)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "iv is not valid base64")
	}
	ciphertext, err := base64.StdEncoding.DecodeString(input.Ciphertext)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "ct is not valid base64")
	}
	tag, err := base64.StdEncoding.DecodeString(input.Tag)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "tag is not valid base64")
	}

	var active *keysDomain.ActiveKey
	if input.KeyID != nil {
		active, err = u.keyUseCase.GetByID(ctx, identity, *input.KeyID)
	} else {
		active, err = u.keyUseCase.EnsureActive(ctx, identity, keysDomain.PurposeData)
	}
	if err != nil {
		return "", err
	}
	defer active.Zero()

	aead, err := u.aeadManager.CreateCipher(active.Key, active.Algo)
	if err != nil {
		return "", err
	}

	plaintext, err := aead.Open(nonce, ciphertext, tag)
	if err != nil {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	u.recordOperation(ctx, identity, "decrypt", active.Algo, active.ID.String())

	return string(plaintext), nil
}

// recordOperation writes a best-effort history entry.
func (u *payloadUseCase) recordOperation(
	ctx context.Context,
	identity *identityDomain.Identity,
	kind string,
	algo cryptoDomain.Algorithm,
	keyID string,
) {
	meta := fmt.Sprintf(`{"key_id":%q}`, keyID)
	if _, err := u.opUseCase.Save(ctx, identity, kind, string(algo), meta, nil); err != nil {
		u.logger.Warn("failed to record operation history",
			slog.String("kind", kind),
			slog.Any("error", err),
		)
	}
}
