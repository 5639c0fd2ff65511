// Package http provides HTTP handlers for the operation history API.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/cipherapi/cipherapi/internal/errors"
	historyDomain "github.com/cipherapi/cipherapi/internal/history/domain"
	"github.com/cipherapi/cipherapi/internal/history/http/dto"
	historyUseCase "github.com/cipherapi/cipherapi/internal/history/usecase"
	"github.com/cipherapi/cipherapi/internal/httputil"
	identityHTTP "github.com/cipherapi/cipherapi/internal/identity/http"
)

// OperationHandler handles operation history requests.
type OperationHandler struct {
	operationUseCase historyUseCase.OperationUseCase
	logger           *slog.Logger
}

// NewOperationHandler creates a new operation handler with required dependencies.
func NewOperationHandler(
	operationUseCase historyUseCase.OperationUseCase,
	logger *slog.Logger,
) *OperationHandler {
	return &OperationHandler{
		operationUseCase: operationUseCase,
		logger:           logger,
	}
}

// operationResponse is the JSON representation of a history record.
type operationResponse struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Algo      string `json:"algo,omitempty"`
	MetaJSON  string `json:"meta_json"`
	TookMs    *int64 `json:"took_ms,omitempty"`
	CreatedAt string `json:"created_at"`
}

func toOperationResponse(op *historyDomain.Operation) operationResponse {
	return operationResponse{
		ID:        op.ID.String(),
		Kind:      op.Kind,
		Algo:      op.Algo,
		MetaJSON:  op.MetaJSON,
		TookMs:    op.TookMs,
		CreatedAt: op.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
}

// SaveHandler records an operation for the caller.
// POST /api/history/save
func (h *OperationHandler) SaveHandler(c *gin.Context) {
	identity, ok := identityHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.SaveOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	operationID, err := h.operationUseCase.Save(
		c.Request.Context(), identity, req.Kind, req.Algo, req.MetaJSON, req.TookMs,
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": operationID.String()})
}

// ListHandler returns the caller's operations, newest first.
// GET /api/history?kind=&algo=&limit=
func (h *OperationHandler) ListHandler(c *gin.Context) {
	identity, ok := identityHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	limit, err := httputil.ParseListLimit(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	filter := historyDomain.ListFilter{
		Kind:  c.Query("kind"),
		Algo:  c.Query("algo"),
		Limit: limit,
	}

	operations, err := h.operationUseCase.List(c.Request.Context(), identity, filter)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	items := make([]operationResponse, 0, len(operations))
	for _, op := range operations {
		items = append(items, toOperationResponse(op))
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// DeleteHandler removes one of the caller's operations.
// DELETE /api/history/:id
func (h *OperationHandler) DeleteHandler(c *gin.Context) {
	identity, ok := identityHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	operationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleErrorGin(c,
			apperrors.Wrap(apperrors.ErrInvalidInput, "id must be a valid UUID"), h.logger)
		return
	}

	if err := h.operationUseCase.Delete(c.Request.Context(), identity, operationID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
