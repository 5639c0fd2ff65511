package service

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/allisson/go-pwdhash"

	apperrors "github.com/cipherapi/cipherapi/internal/errors"
)

// hashService implements HashService using SHA-256 and Argon2id.
type hashService struct {
	hasher *pwdhash.PasswordHasher
}

// SHA256Hex returns the hex-encoded SHA-256 digest of text.
func (s *hashService) SHA256Hex(text string) string {
	digest := sha256.Sum256([]byte(text))
	return hex.EncodeToString(digest[:])
}

// HashArgon2 hashes text using Argon2id.
func (s *hashService) HashArgon2(text string) (string, error) {
	encodedHash, err := s.hasher.Hash([]byte(text))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash text")
	}
	return encodedHash, nil
}

// VerifyArgon2 performs a constant-time comparison between text and its hash.
// Malformed hashes verify as false rather than erroring.
func (s *hashService) VerifyArgon2(text string, encodedHash string) bool {
	ok, err := s.hasher.Verify([]byte(text), encodedHash)
	if err != nil {
		return false
	}
	return ok
}

// NewHashService creates a new HashService instance using Argon2id hashing.
// Uses the Moderate policy for a balance between security and performance.
func NewHashService() HashService {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyModerate),
	)
	if err != nil {
		// This should never happen with valid policy
		panic(err)
	}

	return &hashService{
		hasher: hasher,
	}
}
