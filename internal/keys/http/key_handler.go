// Package http provides HTTP handlers for key lifecycle operations.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/cipherapi/cipherapi/internal/errors"
	"github.com/cipherapi/cipherapi/internal/httputil"
	identityHTTP "github.com/cipherapi/cipherapi/internal/identity/http"
	keysDomain "github.com/cipherapi/cipherapi/internal/keys/domain"
	keysUseCase "github.com/cipherapi/cipherapi/internal/keys/usecase"
)

// KeyHandler handles key lifecycle requests.
type KeyHandler struct {
	keyUseCase keysUseCase.KeyUseCase
	logger     *slog.Logger
}

// NewKeyHandler creates a new key handler with required dependencies.
func NewKeyHandler(keyUseCase keysUseCase.KeyUseCase, logger *slog.Logger) *KeyHandler {
	return &KeyHandler{
		keyUseCase: keyUseCase,
		logger:     logger,
	}
}

// RotateHandler retires the caller's active data key and mints a replacement.
// POST /api/keys/rotate
func (h *KeyHandler) RotateHandler(c *gin.Context) {
	identity, ok := identityHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	newKeyID, err := h.keyUseCase.Rotate(c.Request.Context(), identity, keysDomain.PurposeData)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"new_key_id": newKeyID.String()})
}
