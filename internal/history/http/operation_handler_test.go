package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/cipherapi/cipherapi/internal/errors"
	historyDomain "github.com/cipherapi/cipherapi/internal/history/domain"
	identityDomain "github.com/cipherapi/cipherapi/internal/identity/domain"
	identityHTTP "github.com/cipherapi/cipherapi/internal/identity/http"
)

// MockOperationUseCase is a mock implementation of OperationUseCase for testing.
type MockOperationUseCase struct {
	mock.Mock
}

func (m *MockOperationUseCase) Save(
	ctx context.Context,
	identity *identityDomain.Identity,
	kind, algo, metaJSON string,
	tookMs *int64,
) (uuid.UUID, error) {
	args := m.Called(ctx, identity, kind, algo, metaJSON, tookMs)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockOperationUseCase) List(
	ctx context.Context,
	identity *identityDomain.Identity,
	filter historyDomain.ListFilter,
) ([]*historyDomain.Operation, error) {
	args := m.Called(ctx, identity, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*historyDomain.Operation), args.Error(1)
}

func (m *MockOperationUseCase) Delete(
	ctx context.Context,
	identity *identityDomain.Identity,
	operationID uuid.UUID,
) error {
	args := m.Called(ctx, identity, operationID)
	return args.Error(0)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestIdentity(t *testing.T) *identityDomain.Identity {
	t.Helper()
	subject := uuid.Must(uuid.NewV7())
	identity, err := identityDomain.NewIdentity(map[string]any{"sub": subject.String()})
	require.NoError(t, err)
	return identity
}

func newRouter(handler *OperationHandler, identity *identityDomain.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	if identity != nil {
		router.Use(func(c *gin.Context) {
			ctx := identityHTTP.WithIdentity(c.Request.Context(), identity)
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
	router.POST("/api/history/save", handler.SaveHandler)
	router.GET("/api/history", handler.ListHandler)
	router.DELETE("/api/history/:id", handler.DeleteHandler)
	return router
}

func TestOperationHandler_SaveHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		identity := newTestIdentity(t)
		operationID := uuid.Must(uuid.NewV7())

		mockUseCase := &MockOperationUseCase{}
		mockUseCase.On("Save", mock.Anything, identity, "encrypt", "AES-256-GCM", "", (*int64)(nil)).
			Return(operationID, nil).
			Once()

		handler := NewOperationHandler(mockUseCase, newTestLogger())
		router := newRouter(handler, identity)

		body, _ := json.Marshal(gin.H{"kind": "encrypt", "algo": "AES-256-GCM"})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/history/save", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), operationID.String())
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_NoIdentity", func(t *testing.T) {
		handler := NewOperationHandler(&MockOperationUseCase{}, newTestLogger())
		router := newRouter(handler, nil)

		body, _ := json.Marshal(gin.H{"kind": "encrypt"})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/history/save", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Error_MissingKind", func(t *testing.T) {
		handler := NewOperationHandler(&MockOperationUseCase{}, newTestLogger())
		router := newRouter(handler, newTestIdentity(t))

		body, _ := json.Marshal(gin.H{"algo": "AES-256-GCM"})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/history/save", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_MalformedMetaJSON", func(t *testing.T) {
		handler := NewOperationHandler(&MockOperationUseCase{}, newTestLogger())
		router := newRouter(handler, newTestIdentity(t))

		body, _ := json.Marshal(gin.H{"kind": "encrypt", "meta_json": "{broken"})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/history/save", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOperationHandler_ListHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		identity := newTestIdentity(t)
		tookMs := int64(3)
		operations := []*historyDomain.Operation{
			{
				ID:        uuid.Must(uuid.NewV7()),
				UserID:    identity.Subject,
				Kind:      "encrypt",
				Algo:      "AES-256-GCM",
				MetaJSON:  "{}",
				TookMs:    &tookMs,
				CreatedAt: time.Now().UTC(),
			},
		}

		mockUseCase := &MockOperationUseCase{}
		mockUseCase.On("List", mock.Anything, identity, historyDomain.ListFilter{Kind: "encrypt", Limit: 10}).
			Return(operations, nil).
			Once()

		handler := NewOperationHandler(mockUseCase, newTestLogger())
		router := newRouter(handler, identity)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/history?kind=encrypt&limit=10", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Items []map[string]any `json:"items"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Items, 1)
		assert.Equal(t, operations[0].ID.String(), resp.Items[0]["id"])
		assert.Equal(t, "encrypt", resp.Items[0]["kind"])
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Success_EmptyList", func(t *testing.T) {
		identity := newTestIdentity(t)

		mockUseCase := &MockOperationUseCase{}
		mockUseCase.On("List", mock.Anything, identity, historyDomain.ListFilter{}).
			Return([]*historyDomain.Operation{}, nil).
			Once()

		handler := NewOperationHandler(mockUseCase, newTestLogger())
		router := newRouter(handler, identity)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"items":[]`)
	})

	t.Run("Error_InvalidLimit", func(t *testing.T) {
		handler := NewOperationHandler(&MockOperationUseCase{}, newTestLogger())
		router := newRouter(handler, newTestIdentity(t))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/history?limit=abc", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_NoIdentity", func(t *testing.T) {
		handler := NewOperationHandler(&MockOperationUseCase{}, newTestLogger())
		router := newRouter(handler, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestOperationHandler_DeleteHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		identity := newTestIdentity(t)
		operationID := uuid.Must(uuid.NewV7())

		mockUseCase := &MockOperationUseCase{}
		mockUseCase.On("Delete", mock.Anything, identity, operationID).Return(nil).Once()

		handler := NewOperationHandler(mockUseCase, newTestLogger())
		router := newRouter(handler, identity)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/history/"+operationID.String(), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"deleted":true`)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_InvalidID", func(t *testing.T) {
		handler := NewOperationHandler(&MockOperationUseCase{}, newTestLogger())
		router := newRouter(handler, newTestIdentity(t))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/history/not-a-uuid", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		identity := newTestIdentity(t)
		operationID := uuid.Must(uuid.NewV7())

		mockUseCase := &MockOperationUseCase{}
		mockUseCase.On("Delete", mock.Anything, identity, operationID).
			Return(apperrors.ErrNotFound).
			Once()

		handler := NewOperationHandler(mockUseCase, newTestLogger())
		router := newRouter(handler, identity)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/history/"+operationID.String(), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
