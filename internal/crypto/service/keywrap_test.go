package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/cipherapi/cipherapi/internal/crypto/domain"
)

// staticMasterKeySource returns a fixed master key for testing.
type staticMasterKeySource struct {
	key []byte
	err error
}

func (s *staticMasterKeySource) MasterKey(_ context.Context) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	// Return a copy since callers zero the returned slice
	key := make([]byte, len(s.key))
	copy(key, s.key)
	return key, nil
}

func newStaticSource(t *testing.T) *staticMasterKeySource {
	t.Helper()
	key := make([]byte, cryptoDomain.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return &staticMasterKeySource{key: key}
}

func TestKeyWrapService_Wrap(t *testing.T) {
	ctx := context.Background()
	source := newStaticSource(t)
	service := NewKeyWrapService(source, NewAEADManager())

	t.Run("wrapped blob decodes to nonce plus ciphertext plus tag", func(t *testing.T) {
		dataKey := make([]byte, cryptoDomain.KeySize)
		_, err := rand.Read(dataKey)
		require.NoError(t, err)

		wrapped, err := service.Wrap(ctx, dataKey)
		require.NoError(t, err)

		blob, err := base64.StdEncoding.DecodeString(wrapped)
		require.NoError(t, err)
		assert.Len(t, blob, cryptoDomain.NonceSize+cryptoDomain.KeySize+cryptoDomain.TagSize)
	})

	t.Run("wrapping the same key twice produces different blobs", func(t *testing.T) {
		dataKey := make([]byte, cryptoDomain.KeySize)
		_, err := rand.Read(dataKey)
		require.NoError(t, err)

		wrapped1, err := service.Wrap(ctx, dataKey)
		require.NoError(t, err)

		wrapped2, err := service.Wrap(ctx, dataKey)
		require.NoError(t, err)

		assert.NotEqual(t, wrapped1, wrapped2)
	})

	t.Run("invalid data key size", func(t *testing.T) {
		_, err := service.Wrap(ctx, make([]byte, 16))
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
	})

	t.Run("master key unavailable", func(t *testing.T) {
		failing := &staticMasterKeySource{err: cryptoDomain.ErrMasterKeyUnavailable}
		failingService := NewKeyWrapService(failing, NewAEADManager())

		_, err := failingService.Wrap(ctx, make([]byte, cryptoDomain.KeySize))
		assert.ErrorIs(t, err, cryptoDomain.ErrMasterKeyUnavailable)
	})
}

func TestKeyWrapService_Unwrap(t *testing.T) {
	ctx := context.Background()
	source := newStaticSource(t)
	service := NewKeyWrapService(source, NewAEADManager())

	t.Run("roundtrip", func(t *testing.T) {
		dataKey := make([]byte, cryptoDomain.KeySize)
		_, err := rand.Read(dataKey)
		require.NoError(t, err)

		wrapped, err := service.Wrap(ctx, dataKey)
		require.NoError(t, err)

		unwrapped, err := service.Unwrap(ctx, wrapped)
		require.NoError(t, err)
		assert.Equal(t, dataKey, unwrapped)
	})

	t.Run("invalid base64", func(t *testing.T) {
		_, err := service.Unwrap(ctx, "not-base64!!!")
		assert.ErrorIs(t, err, cryptoDomain.ErrWrapIntegrity)
	})

	t.Run("blob too short", func(t *testing.T) {
		short := base64.StdEncoding.EncodeToString(make([]byte, 10))
		_, err := service.Unwrap(ctx, short)
		assert.ErrorIs(t, err, cryptoDomain.ErrWrapIntegrity)
	})

	t.Run("tampered blob fails integrity check", func(t *testing.T) {
		dataKey := make([]byte, cryptoDomain.KeySize)
		_, err := rand.Read(dataKey)
		require.NoError(t, err)

		wrapped, err := service.Wrap(ctx, dataKey)
		require.NoError(t, err)

		blob, err := base64.StdEncoding.DecodeString(wrapped)
		require.NoError(t, err)
		blob[cryptoDomain.NonceSize] ^= 0x01

		_, err = service.Unwrap(ctx, base64.StdEncoding.EncodeToString(blob))
		assert.ErrorIs(t, err, cryptoDomain.ErrWrapIntegrity)
	})

	t.Run("wrong master key fails integrity check", func(t *testing.T) {
		dataKey := make([]byte, cryptoDomain.KeySize)
		_, err := rand.Read(dataKey)
		require.NoError(t, err)

		wrapped, err := service.Wrap(ctx, dataKey)
		require.NoError(t, err)

		otherService := NewKeyWrapService(newStaticSource(t), NewAEADManager())
		_, err = otherService.Unwrap(ctx, wrapped)
		assert.ErrorIs(t, err, cryptoDomain.ErrWrapIntegrity)
	})

	t.Run("master key unavailable", func(t *testing.T) {
		dataKey := make([]byte, cryptoDomain.KeySize)
		_, err := rand.Read(dataKey)
		require.NoError(t, err)

		wrapped, err := service.Wrap(ctx, dataKey)
		require.NoError(t, err)

		failing := &staticMasterKeySource{err: cryptoDomain.ErrMasterKeyUnavailable}
		failingService := NewKeyWrapService(failing, NewAEADManager())

		_, err = failingService.Unwrap(ctx, wrapped)
		assert.ErrorIs(t, err, cryptoDomain.ErrMasterKeyUnavailable)
	})
}
