package domain

import (
	"github.com/cipherapi/cipherapi/internal/errors"
)

// Cryptographic operation error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors
// to provide context for cryptographic failures. All errors are mapped to
// appropriate HTTP status codes by the error handling layer.
var (
	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is not supported.
	//
	// Supported algorithms: AESGCM (AES-256-GCM), ChaCha20 (ChaCha20-Poly1305).
	//
	// HTTP Status: 400 Bad Request
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates the cryptographic key size is invalid.
	//
	// All keys (master keys and data keys) must be exactly 32 bytes (256 bits)
	// for both AES-256-GCM and ChaCha20-Poly1305.
	//
	// HTTP Status: 400 Bad Request
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrDecryptionFailed indicates a payload decryption operation failed.
	//
	// This error can occur due to a wrong key, a tampered ciphertext or tag,
	// or a malformed nonce. For security reasons the specific cause is never
	// disclosed: distinguishable failures would give an attacker a padding
	// oracle style signal.
	//
	// HTTP Status: 400 Bad Request
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrMasterKeyUnavailable indicates the master key could not be resolved.
	//
	// The master key is read from the environment (or KMS) on every wrap and
	// unwrap. A missing variable, invalid base64 or a decoded length other
	// than 32 bytes all surface as this error.
	//
	// HTTP Status: 500 Internal Server Error (details are not exposed)
	ErrMasterKeyUnavailable = errors.Wrap(errors.ErrInternal, "master key unavailable")

	// ErrWrapIntegrity indicates a stored wrapped key failed to unwrap.
	//
	// A wrapped key that cannot be authenticated means either data corruption
	// or a master key mismatch. Unlike payload decryption failures this is an
	// internal fault: the caller sent nothing that could have caused it.
	//
	// HTTP Status: 500 Internal Server Error (details are not exposed)
	ErrWrapIntegrity = errors.Wrap(errors.ErrInternal, "wrapped key integrity check failed")
)
