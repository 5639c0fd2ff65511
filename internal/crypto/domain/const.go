// Package domain defines the core cryptographic domain models for envelope encryption.
//
// Data keys encrypt payloads and are stored wrapped under a master key,
// enabling key rotation without re-encrypting all data. Supports AESGCM and
// ChaCha20 algorithms with 256-bit keys.
package domain

// Algorithm represents the cryptographic algorithm used for encryption.
//
// All supported algorithms provide Authenticated Encryption with Associated Data
// (AEAD), ensuring both confidentiality and authenticity of encrypted data. The
// string values are persisted alongside key records and returned in payload
// envelopes, so they are stable identifiers.
type Algorithm string

const (
	// AESGCM represents the AES-256-GCM authenticated encryption algorithm.
	//
	// This is the default algorithm for data keys and for wrapping keys under
	// the master key. It uses a 256-bit key, a 12-byte nonce and a 16-byte
	// authentication tag, and is hardware accelerated on modern CPUs.
	AESGCM Algorithm = "AES-256-GCM"

	// ChaCha20 represents the ChaCha20-Poly1305 authenticated encryption algorithm.
	//
	// ChaCha20-Poly1305 uses the same key, nonce and tag sizes as AES-256-GCM
	// and performs well on platforms without AES hardware acceleration.
	ChaCha20 Algorithm = "CHACHA20-POLY1305"
)

const (
	// KeySize is the required size in bytes for all keys (master and data keys).
	KeySize = 32

	// NonceSize is the nonce size in bytes for both supported algorithms.
	NonceSize = 12

	// TagSize is the authentication tag size in bytes for both supported algorithms.
	TagSize = 16
)
