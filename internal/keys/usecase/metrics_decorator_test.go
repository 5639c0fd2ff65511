package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/cipherapi/cipherapi/internal/crypto/domain"
	identityDomain "github.com/cipherapi/cipherapi/internal/identity/domain"
	keysDomain "github.com/cipherapi/cipherapi/internal/keys/domain"
)

// mockBusinessMetrics is a local mock for metrics.BusinessMetrics.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

// MockKeyUseCase is a mock implementation of KeyUseCase for testing.
type MockKeyUseCase struct {
	mock.Mock
}

func (m *MockKeyUseCase) Mint(
	ctx context.Context,
	identity *identityDomain.Identity,
	purpose string,
) (*keysDomain.ActiveKey, error) {
	args := m.Called(ctx, identity, purpose)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*keysDomain.ActiveKey), args.Error(1)
}

func (m *MockKeyUseCase) EnsureActive(
	ctx context.Context,
	identity *identityDomain.Identity,
	purpose string,
) (*keysDomain.ActiveKey, error) {
	args := m.Called(ctx, identity, purpose)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*keysDomain.ActiveKey), args.Error(1)
}

func (m *MockKeyUseCase) GetByID(
	ctx context.Context,
	identity *identityDomain.Identity,
	keyID uuid.UUID,
) (*keysDomain.ActiveKey, error) {
	args := m.Called(ctx, identity, keyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*keysDomain.ActiveKey), args.Error(1)
}

func (m *MockKeyUseCase) Rotate(
	ctx context.Context,
	identity *identityDomain.Identity,
	purpose string,
) (uuid.UUID, error) {
	args := m.Called(ctx, identity, purpose)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func TestKeyUseCaseWithMetrics_EnsureActive(t *testing.T) {
	ctx := context.Background()
	identity := newTestIdentity(t)

	t.Run("EnsureActive_Success", func(t *testing.T) {
		mockNext := &MockKeyUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := NewKeyUseCaseWithMetrics(mockNext, mockMetrics)

		expected := &keysDomain.ActiveKey{
			ID:   uuid.Must(uuid.NewV7()),
			Algo: cryptoDomain.AESGCM,
			Key:  make([]byte, cryptoDomain.KeySize),
		}

		mockNext.On("EnsureActive", ctx, identity, keysDomain.PurposeData).Return(expected, nil).Once()
		mockMetrics.On("RecordOperation", ctx, "keys", "key_ensure_active", "success").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "keys", "key_ensure_active", mock.AnythingOfType("time.Duration"), "success").
			Return().
			Once()

		result, err := uc.EnsureActive(ctx, identity, keysDomain.PurposeData)

		assert.NoError(t, err)
		assert.Equal(t, expected, result)
		mockNext.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("EnsureActive_Error", func(t *testing.T) {
		mockNext := &MockKeyUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := NewKeyUseCaseWithMetrics(mockNext, mockMetrics)

		expectedErr := errors.New("ensure failed")

		mockNext.On("EnsureActive", ctx, identity, keysDomain.PurposeData).Return(nil, expectedErr).Once()
		mockMetrics.On("RecordOperation", ctx, "keys", "key_ensure_active", "error").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "keys", "key_ensure_active", mock.AnythingOfType("time.Duration"), "error").
			Return().
			Once()

		result, err := uc.EnsureActive(ctx, identity, keysDomain.PurposeData)

		assert.Nil(t, result)
		assert.Equal(t, expectedErr, err)
		mockNext.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})
}

func TestKeyUseCaseWithMetrics_Rotate(t *testing.T) {
	ctx := context.Background()
	identity := newTestIdentity(t)

	t.Run("Rotate_Success", func(t *testing.T) {
		mockNext := &MockKeyUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := NewKeyUseCaseWithMetrics(mockNext, mockMetrics)

		newKeyID := uuid.Must(uuid.NewV7())

		mockNext.On("Rotate", ctx, identity, keysDomain.PurposeData).Return(newKeyID, nil).Once()
		mockMetrics.On("RecordOperation", ctx, "keys", "key_rotate", "success").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "keys", "key_rotate", mock.AnythingOfType("time.Duration"), "success").
			Return().
			Once()

		result, err := uc.Rotate(ctx, identity, keysDomain.PurposeData)

		assert.NoError(t, err)
		assert.Equal(t, newKeyID, result)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Rotate_Error", func(t *testing.T) {
		mockNext := &MockKeyUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := NewKeyUseCaseWithMetrics(mockNext, mockMetrics)

		expectedErr := errors.New("rotate failed")

		mockNext.On("Rotate", ctx, identity, keysDomain.PurposeData).Return(uuid.Nil, expectedErr).Once()
		mockMetrics.On("RecordOperation", ctx, "keys", "key_rotate", "error").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "keys", "key_rotate", mock.AnythingOfType("time.Duration"), "error").
			Return().
			Once()

		result, err := uc.Rotate(ctx, identity, keysDomain.PurposeData)

		assert.Equal(t, uuid.Nil, result)
		assert.Equal(t, expectedErr, err)
		mockMetrics.AssertExpectations(t)
	})
}

func TestKeyUseCaseWithMetrics_MintAndGetByID(t *testing.T) {
	ctx := context.Background()
	identity := newTestIdentity(t)

	t.Run("Mint_RecordsMetrics", func(t *testing.T) {
		mockNext := &MockKeyUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := NewKeyUseCaseWithMetrics(mockNext, mockMetrics)

		expected := &keysDomain.ActiveKey{ID: uuid.Must(uuid.NewV7())}
		mockNext.On("Mint", ctx, identity, keysDomain.PurposeData).Return(expected, nil).Once()
		mockMetrics.On("RecordOperation", ctx, "keys", "key_mint", "success").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "keys", "key_mint", mock.AnythingOfType("time.Duration"), "success").
			Return().
			Once()

		result, err := uc.Mint(ctx, identity, keysDomain.PurposeData)

		assert.NoError(t, err)
		assert.Equal(t, expected, result)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("GetByID_RecordsMetrics", func(t *testing.T) {
		mockNext := &MockKeyUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := NewKeyUseCaseWithMetrics(mockNext, mockMetrics)

		keyID := uuid.Must(uuid.NewV7())
		expected := &keysDomain.ActiveKey{ID: keyID}
		mockNext.On("GetByID", ctx, identity, keyID).Return(expected, nil).Once()
		mockMetrics.On("RecordOperation", ctx, "keys", "key_get_by_id", "success").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "keys", "key_get_by_id", mock.AnythingOfType("time.Duration"), "success").
			Return().
			Once()

		result, err := uc.GetByID(ctx, identity, keyID)

		assert.NoError(t, err)
		assert.Equal(t, expected, result)
		mockMetrics.AssertExpectations(t)
	})
}
