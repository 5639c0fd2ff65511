// Package http provides HTTP handlers for payload encryption operations.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/cipherapi/cipherapi/internal/errors"
	"github.com/cipherapi/cipherapi/internal/httputil"
	identityHTTP "github.com/cipherapi/cipherapi/internal/identity/http"
	"github.com/cipherapi/cipherapi/internal/payload/http/dto"
	payloadUseCase "github.com/cipherapi/cipherapi/internal/payload/usecase"
)

// PayloadHandler handles payload encryption and decryption requests.
type PayloadHandler struct {
	payloadUseCase payloadUseCase.PayloadUseCase
	logger         *slog.Logger
}

// NewPayloadHandler creates a new payload handler with required dependencies.
func NewPayloadHandler(
	payloadUseCase payloadUseCase.PayloadUseCase,
	logger *slog.Logger,
) *PayloadHandler {
	return &PayloadHandler{
		payloadUseCase: payloadUseCase,
		logger:         logger,
	}
}

// encryptResponse is the JSON envelope returned by an encrypt operation.
type encryptResponse struct {
	Scheme     string `json:"scheme"`
	IV         string `json:"iv"`
	Ciphertext string `json:"ct"`
	Tag        string `json:"tag"`
	Version    int    `json:"version"`
	KeyID      string `json:"key_id"`
}

// EncryptHandler seals the submitted text under the caller's active data key.
// POST /api/encrypt
func (h *PayloadHandler) EncryptHandler(c *gin.Context) {
	identity, ok := identityHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.EncryptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	envelope, err := h.payloadUseCase.Encrypt(c.Request.Context(), identity, req.Text)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, encryptResponse{
		Scheme:     string(envelope.Scheme),
		IV:         envelope.IV,
		Ciphertext: envelope.Ciphertext,
		Tag:        envelope.Tag,
		Version:    envelope.Version,
		KeyID:      envelope.KeyID.String(),
	})
}

// DecryptHandler opens a previously sealed envelope.
// POST /api/decrypt
func (h *PayloadHandler) DecryptHandler(c *gin.Context) {
	identity, ok := identityHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.DecryptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	input, err := req.ToDomain()
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	text, err := h.payloadUseCase.Decrypt(c.Request.Context(), identity, input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"plaintext": text})
}
