// Package service provides hashing primitives exposed by the public hash API.
package service

// HashService defines digest and password-hashing operations.
type HashService interface {
	// SHA256Hex returns the hex-encoded SHA-256 digest of text.
	SHA256Hex(text string) string

	// HashArgon2 hashes text using Argon2id and returns the encoded hash.
	HashArgon2(text string) (string, error)

	// VerifyArgon2 performs a constant-time comparison between text and an
	// Argon2id encoded hash.
	VerifyArgon2(text string, encodedHash string) bool
}
