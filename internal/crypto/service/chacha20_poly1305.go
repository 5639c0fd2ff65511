package service

import (
	"crypto/cipher"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// ChaCha20Poly1305Cipher implements the AEAD interface using ChaCha20-Poly1305.
//
// ChaCha20-Poly1305 is a high-speed authenticated encryption algorithm that
// combines the ChaCha20 stream cipher with the Poly1305 MAC for authentication.
// It's particularly efficient on platforms without hardware AES acceleration.
type ChaCha20Poly1305Cipher struct {
	aead cipher.AEAD
}

// NewChaCha20Poly1305 creates a new ChaCha20-Poly1305 cipher instance.
//
// The key must be exactly 32 bytes (256 bits). Keys should be generated
// using a cryptographically secure random number generator.
func NewChaCha20Poly1305(key []byte) (*ChaCha20Poly1305Cipher, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create ChaCha20-Poly1305 cipher: %w", err)
	}

	return &ChaCha20Poly1305Cipher{aead: aead}, nil
}

// Seal encrypts plaintext using ChaCha20-Poly1305 with a fresh random nonce.
// The Poly1305 tag is returned separately from the ciphertext.
func (c *ChaCha20Poly1305Cipher) Seal(plaintext []byte) (nonce, ciphertext, tag []byte, err error) {
	return seal(c.aead, plaintext)
}

// Open authenticates and decrypts ciphertext using the provided nonce and tag.
// Any authentication or length failure returns ErrDecryptionFailed.
func (c *ChaCha20Poly1305Cipher) Open(nonce, ciphertext, tag []byte) ([]byte, error) {
	return open(c.aead, nonce, ciphertext, tag)
}
