package service

import (
	"context"
	"encoding/base64"
	"os"

	cryptoDomain "github.com/cipherapi/cipherapi/internal/crypto/domain"
)

// MasterKeyEnvVar is the environment variable holding the base64-encoded master key.
const MasterKeyEnvVar = "MASTER_KEY_B64"

// masterKeyEncEnvVar holds the KMS-encrypted master key blob when a KMS is configured.
const masterKeyEncEnvVar = "MASTER_KEY_ENC_B64"

// EnvMasterKeySource resolves the master key from the MASTER_KEY_B64
// environment variable on every call.
//
// The value must be standard base64 of exactly 32 raw bytes. Reading the
// variable per call rather than at startup means a rotated key takes effect on
// restart with no snapshot held in long-lived state.
type EnvMasterKeySource struct{}

// NewEnvMasterKeySource creates a master key source backed by the environment.
func NewEnvMasterKeySource() *EnvMasterKeySource {
	return &EnvMasterKeySource{}
}

// MasterKey reads and decodes the master key. Missing variable, invalid base64
// and wrong decoded length all return ErrMasterKeyUnavailable.
func (s *EnvMasterKeySource) MasterKey(_ context.Context) ([]byte, error) {
	raw := os.Getenv(MasterKeyEnvVar)
	if raw == "" {
		return nil, cryptoDomain.ErrMasterKeyUnavailable
	}

	key, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, cryptoDomain.ErrMasterKeyUnavailable
	}
	if len(key) != cryptoDomain.KeySize {
		cryptoDomain.Zero(key)
		return nil, cryptoDomain.ErrMasterKeyUnavailable
	}

	return key, nil
}

// KMSMasterKeySource resolves the master key by decrypting an encrypted blob
// with a KMS keeper.
//
// The encrypted master key lives in MASTER_KEY_ENC_B64 (standard base64 of the
// KMS ciphertext) and is decrypted on every call through the keeper opened for
// the configured key URI. Like the env source, nothing is cached between calls.
type KMSMasterKeySource struct {
	kms    KMSService
	keyURI string
}

// NewKMSMasterKeySource creates a master key source backed by a KMS keeper.
func NewKMSMasterKeySource(kms KMSService, keyURI string) *KMSMasterKeySource {
	return &KMSMasterKeySource{kms: kms, keyURI: keyURI}
}

// MasterKey decrypts the encrypted master key blob with the KMS keeper.
func (s *KMSMasterKeySource) MasterKey(ctx context.Context) ([]byte, error) {
	raw := os.Getenv(masterKeyEncEnvVar)
	if raw == "" {
		return nil, cryptoDomain.ErrMasterKeyUnavailable
	}

	blob, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, cryptoDomain.ErrMasterKeyUnavailable
	}

	keeper, err := s.kms.OpenKeeper(ctx, s.keyURI)
	if err != nil {
		return nil, cryptoDomain.ErrMasterKeyUnavailable
	}
	defer func() {
		_ = keeper.Close()
	}()

	key, err := keeper.Decrypt(ctx, blob)
	if err != nil {
		return nil, cryptoDomain.ErrMasterKeyUnavailable
	}
	if len(key) != cryptoDomain.KeySize {
		cryptoDomain.Zero(key)
		return nil, cryptoDomain.ErrMasterKeyUnavailable
	}

	return key, nil
}
