// Package service provides cryptographic services for envelope encryption.
// Implements AEAD ciphers (AES-256-GCM, ChaCha20-Poly1305) and master key wrapping.
package service

import (
	"context"

	cryptoDomain "github.com/cipherapi/cipherapi/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
//
// Seal and Open handle the nonce and authentication tag as separate values so
// callers can store and transmit them independently of the ciphertext.
type AEAD interface {
	// Seal encrypts plaintext with a fresh random nonce and returns the nonce,
	// ciphertext and authentication tag separately.
	Seal(plaintext []byte) (nonce, ciphertext, tag []byte, err error)

	// Open authenticates and decrypts ciphertext. Any failure (wrong key,
	// tampered data, malformed nonce or tag) returns ErrDecryptionFailed.
	Open(nonce, ciphertext, tag []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// MasterKeySource resolves the raw 32-byte master key.
//
// Implementations must resolve the key fresh on every call and never cache it
// across calls: rotating the master key in the environment (or KMS) must take
// effect without a code change.
type MasterKeySource interface {
	// MasterKey returns the raw 32-byte master key. The caller owns the
	// returned slice and must zero it after use.
	MasterKey(ctx context.Context) ([]byte, error)
}

// KeyWrapper wraps and unwraps data keys under the master key.
type KeyWrapper interface {
	// Wrap encrypts a 32-byte data key under the master key and returns an
	// opaque base64 blob suitable for storage.
	Wrap(ctx context.Context, dataKey []byte) (string, error)

	// Unwrap decodes a wrapped key blob and recovers the 32-byte data key.
	Unwrap(ctx context.Context, wrapped string) ([]byte, error)
}
