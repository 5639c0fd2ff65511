package service

import (
	"context"
	"encoding/base64"

	cryptoDomain "github.com/cipherapi/cipherapi/internal/crypto/domain"
)

// KeyWrapService wraps and unwraps 32-byte data keys under the master key.
//
// The wire format of a wrapped key is base64(nonce || ciphertext || tag) using
// standard base64. For a 32-byte data key the decoded blob is always exactly
// 12 + 32 + 16 = 60 bytes.
//
// The master key is resolved through the MasterKeySource on every call and
// zeroed immediately after use. Nothing key-shaped outlives a single Wrap or
// Unwrap invocation.
type KeyWrapService struct {
	source      MasterKeySource
	aeadManager AEADManager
}

// NewKeyWrapService creates a new KeyWrapService.
func NewKeyWrapService(source MasterKeySource, aeadManager AEADManager) *KeyWrapService {
	return &KeyWrapService{
		source:      source,
		aeadManager: aeadManager,
	}
}

// Wrap encrypts a 32-byte data key under the master key with AES-256-GCM.
// Returns ErrInvalidKeySize if the data key is not 32 bytes and
// ErrMasterKeyUnavailable if the master key cannot be resolved.
func (s *KeyWrapService) Wrap(ctx context.Context, dataKey []byte) (string, error) {
	if len(dataKey) != cryptoDomain.KeySize {
		return "", cryptoDomain.ErrInvalidKeySize
	}

	masterKey, err := s.source.MasterKey(ctx)
	if err != nil {
		return "", err
	}
	defer cryptoDomain.Zero(masterKey)

	aead, err := s.aeadManager.CreateCipher(masterKey, cryptoDomain.AESGCM)
	if err != nil {
		return "", err
	}

	nonce, ciphertext, tag, err := aead.Seal(dataKey)
	if err != nil {
		return "", err
	}

	blob := make([]byte, 0, len(nonce)+len(ciphertext)+len(tag))
	blob = append(blob, nonce...)
	blob = append(blob, ciphertext...)
	blob = append(blob, tag...)

	return base64.StdEncoding.EncodeToString(blob), nil
}

// Unwrap decodes a wrapped key blob and recovers the 32-byte data key.
//
// All structural failures (bad base64, blob shorter than nonce+tag, failed
// authentication, plaintext not 32 bytes) return ErrWrapIntegrity: a stored
// wrapped key that does not unwrap cleanly means corruption or a master key
// mismatch, never caller input.
func (s *KeyWrapService) Unwrap(ctx context.Context, wrapped string) ([]byte, error) {
	blob, err := base64.StdEncoding.DecodeString(wrapped)
	if err != nil {
		return nil, cryptoDomain.ErrWrapIntegrity
	}
	if len(blob) < cryptoDomain.NonceSize+cryptoDomain.TagSize {
		return nil, cryptoDomain.ErrWrapIntegrity
	}

	masterKey, err := s.source.MasterKey(ctx)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(masterKey)

	aead, err := s.aeadManager.CreateCipher(masterKey, cryptoDomain.AESGCM)
	if err != nil {
		return nil, err
	}

	nonce := blob[:cryptoDomain.NonceSize]
	tag := blob[len(blob)-cryptoDomain.TagSize:]
	ciphertext := blob[cryptoDomain.NonceSize : len(blob)-cryptoDomain.TagSize]

	dataKey, err := aead.Open(nonce, ciphertext, tag)
	if err != nil {
		return nil, cryptoDomain.ErrWrapIntegrity
	}
	if len(dataKey) != cryptoDomain.KeySize {
		cryptoDomain.Zero(dataKey)
		return nil, cryptoDomain.ErrWrapIntegrity
	}

	return dataKey, nil
}
