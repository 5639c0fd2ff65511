package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/cipherapi/cipherapi/internal/errors"
	identityDomain "github.com/cipherapi/cipherapi/internal/identity/domain"
	identityUseCase "github.com/cipherapi/cipherapi/internal/identity/usecase"
)

// MockWhoAmIUseCase is a mock implementation of WhoAmIUseCase for testing.
type MockWhoAmIUseCase struct {
	mock.Mock
}

func (m *MockWhoAmIUseCase) WhoAmI(
	ctx context.Context,
	identity *identityDomain.Identity,
) (*identityUseCase.WhoAmI, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityUseCase.WhoAmI), args.Error(1)
}

func newWhoAmIRouter(handler *IdentityHandler, identity *identityDomain.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	if identity != nil {
		router.Use(func(c *gin.Context) {
			ctx := WithIdentity(c.Request.Context(), identity)
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
	router.GET("/api/whoami", handler.WhoAmIHandler)
	return router
}

func TestIdentityHandler_WhoAmIHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		subject := uuid.Must(uuid.NewV7())
		identity, err := identityDomain.NewIdentity(map[string]any{"sub": subject.String()})
		require.NoError(t, err)

		mockUseCase := &MockWhoAmIUseCase{}
		mockUseCase.On("WhoAmI", mock.Anything, identity).
			Return(&identityUseCase.WhoAmI{Subject: subject, ClaimsBound: true}, nil).
			Once()

		handler := NewIdentityHandler(mockUseCase, newTestLogger())
		router := newWhoAmIRouter(handler, identity)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, subject.String(), resp["user_id"])
		assert.Equal(t, true, resp["rls_claims_set"])
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_NoIdentity", func(t *testing.T) {
		handler := NewIdentityHandler(&MockWhoAmIUseCase{}, newTestLogger())
		router := newWhoAmIRouter(handler, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Error_UseCaseFailure", func(t *testing.T) {
		subject := uuid.Must(uuid.NewV7())
		identity, err := identityDomain.NewIdentity(map[string]any{"sub": subject.String()})
		require.NoError(t, err)

		mockUseCase := &MockWhoAmIUseCase{}
		mockUseCase.On("WhoAmI", mock.Anything, identity).
			Return(nil, apperrors.ErrInternal).
			Once()

		handler := NewIdentityHandler(mockUseCase, newTestLogger())
		router := newWhoAmIRouter(handler, identity)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
