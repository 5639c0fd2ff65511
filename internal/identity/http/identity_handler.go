package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/cipherapi/cipherapi/internal/errors"
	"github.com/cipherapi/cipherapi/internal/httputil"
	identityUseCase "github.com/cipherapi/cipherapi/internal/identity/usecase"
)

// IdentityHandler handles identity introspection requests.
type IdentityHandler struct {
	whoAmIUseCase identityUseCase.WhoAmIUseCase
	logger        *slog.Logger
}

// NewIdentityHandler creates a new identity handler with required dependencies.
func NewIdentityHandler(
	whoAmIUseCase identityUseCase.WhoAmIUseCase,
	logger *slog.Logger,
) *IdentityHandler {
	return &IdentityHandler{
		whoAmIUseCase: whoAmIUseCase,
		logger:        logger,
	}
}

// whoAmIResponse is the JSON body for identity introspection.
type whoAmIResponse struct {
	UserID       string `json:"user_id"`
	RLSClaimsSet bool   `json:"rls_claims_set"`
}

// WhoAmIHandler reports the authenticated subject and whether the claims
// session variable binds inside an identity-scoped transaction.
// GET /api/whoami
func (h *IdentityHandler) WhoAmIHandler(c *gin.Context) {
	identity, ok := GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	result, err := h.whoAmIUseCase.WhoAmI(c.Request.Context(), identity)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, whoAmIResponse{
		UserID:       result.Subject.String(),
		RLSClaimsSet: result.ClaimsBound,
	})
}
