// Package http provides HTTP handlers for the public hashing API.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cipherapi/cipherapi/internal/hashing/http/dto"
	hashingService "github.com/cipherapi/cipherapi/internal/hashing/service"
	"github.com/cipherapi/cipherapi/internal/httputil"
)

// HashHandler handles hashing requests. All routes are public.
type HashHandler struct {
	hashService hashingService.HashService
	logger      *slog.Logger
}

// NewHashHandler creates a new hash handler with required dependencies.
func NewHashHandler(hashService hashingService.HashService, logger *slog.Logger) *HashHandler {
	return &HashHandler{
		hashService: hashService,
		logger:      logger,
	}
}

// SHA256Handler returns the hex-encoded SHA-256 digest of the given text.
// POST /api/hash/sha256
func (h *HashHandler) SHA256Handler(c *gin.Context) {
	var req dto.HashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"algo": "SHA-256",
		"hash": h.hashService.SHA256Hex(req.Text),
	})
}

// Argon2Handler hashes the given text with Argon2id.
// POST /api/hash/argon2
func (h *HashHandler) Argon2Handler(c *gin.Context) {
	var req dto.HashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	encodedHash, err := h.hashService.HashArgon2(req.Text)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"algo": "ARGON2ID",
		"hash": encodedHash,
	})
}

// VerifyHandler verifies text against an Argon2id hash.
// POST /api/hash/verify
func (h *HashHandler) VerifyHandler(c *gin.Context) {
	var req dto.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": h.hashService.VerifyArgon2(req.Plaintext, req.Hash),
	})
}
