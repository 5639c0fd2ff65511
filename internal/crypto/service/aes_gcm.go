package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	cryptoDomain "github.com/cipherapi/cipherapi/internal/crypto/domain"
)

// AESGCMCipher implements the AEAD interface using AES-256-GCM
// (Advanced Encryption Standard with Galois/Counter Mode).
//
// AES-GCM provides authenticated encryption, combining the confidentiality of
// AES with the authenticity of GMAC. This implementation uses AES-256 with a
// 256-bit key.
//
// Security properties:
//   - 256-bit key size
//   - 12-byte nonce (96 bits, randomly generated per encryption)
//   - 16-byte authentication tag (128 bits, returned separately from the ciphertext)
//   - Authenticated encryption prevents tampering and forgery
//
// Thread safety:
//
//	The cipher instance is stateless and safe for concurrent use from multiple
//	goroutines. Each Seal operation generates a unique nonce independently.
type AESGCMCipher struct {
	aead cipher.AEAD
}

// NewAESGCM creates a new AES-256-GCM cipher instance.
//
// The key must be exactly 32 bytes (256 bits). Keys should be generated using
// crypto/rand for cryptographic security.
func NewAESGCM(key []byte) (*AESGCMCipher, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AESGCMCipher{aead: aead}, nil
}

// Seal encrypts plaintext using AES-256-GCM.
//
// A unique 12-byte nonce is randomly generated for each call using crypto/rand.
// With GCM it is critical that nonces are never reused with the same key. The
// authentication tag is split off the sealed output and returned separately so
// nonce, ciphertext and tag can be stored and transmitted as independent fields.
func (a *AESGCMCipher) Seal(plaintext []byte) (nonce, ciphertext, tag []byte, err error) {
	return seal(a.aead, plaintext)
}

// Open authenticates and decrypts ciphertext using the provided nonce and tag.
//
// The tag is verified before any plaintext is returned. All failure modes
// (wrong key, tampered ciphertext or tag, malformed nonce) collapse into the
// single ErrDecryptionFailed so that callers cannot distinguish between them.
func (a *AESGCMCipher) Open(nonce, ciphertext, tag []byte) ([]byte, error) {
	return open(a.aead, nonce, ciphertext, tag)
}

// seal runs the shared Seal logic for both supported AEAD constructions.
func seal(aead cipher.AEAD, plaintext []byte) (nonce, ciphertext, tag []byte, err error) {
	nonce = make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := aead.Seal(nil, nonce, plaintext, nil)
	split := len(sealed) - aead.Overhead()
	return nonce, sealed[:split], sealed[split:], nil
}

// open runs the shared Open logic with strict nonce and tag length checks.
func open(aead cipher.AEAD, nonce, ciphertext, tag []byte) ([]byte, error) {
	if len(nonce) != aead.NonceSize() || len(tag) != aead.Overhead() {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	return plaintext, nil
}
