// Package http provides HTTP server implementation and route registration.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	hashingHTTP "github.com/cipherapi/cipherapi/internal/hashing/http"
	historyHTTP "github.com/cipherapi/cipherapi/internal/history/http"
	identityHTTP "github.com/cipherapi/cipherapi/internal/identity/http"
	keysHTTP "github.com/cipherapi/cipherapi/internal/keys/http"
	"github.com/cipherapi/cipherapi/internal/metrics"
	payloadHTTP "github.com/cipherapi/cipherapi/internal/payload/http"
)

// Server represents the HTTP server
type Server struct {
	db     *sql.DB
	router *gin.Engine
	server *http.Server
	logger *slog.Logger
}

// NewServer creates a new HTTP server
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// RouterConfig carries the handlers and middleware settings used to build the router.
type RouterConfig struct {
	HashHandler      *hashingHTTP.HashHandler
	PayloadHandler   *payloadHTTP.PayloadHandler
	KeyHandler       *keysHTTP.KeyHandler
	OperationHandler *historyHTTP.OperationHandler
	IdentityHandler  *identityHTTP.IdentityHandler

	JWTSecret string

	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int

	CORSEnabled      bool
	CORSAllowOrigins string

	MetricsEnabled   bool
	MeterProvider    metric.MeterProvider
	MetricsNamespace string
}

// SetupRouter builds the Gin router with all routes and middleware.
//
// The hash endpoints are public. Everything else under /api requires a valid
// Bearer token and runs behind the per-identity rate limiter.
func (s *Server) SetupRouter(cfg RouterConfig) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if cfg.MetricsEnabled && cfg.MeterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(cfg.MeterProvider, cfg.MetricsNamespace))
	}

	router.GET("/", s.rootHandler)
	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	hash := router.Group("/api/hash")
	{
		hash.POST("/sha256", cfg.HashHandler.SHA256Handler)
		hash.POST("/argon2", cfg.HashHandler.Argon2Handler)
		hash.POST("/verify", cfg.HashHandler.VerifyHandler)
	}

	protected := router.Group("/api")
	protected.Use(identityHTTP.AuthenticationMiddleware(cfg.JWTSecret, s.logger))
	if cfg.RateLimitEnabled {
		protected.Use(identityHTTP.RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst, s.logger))
	}
	{
		protected.GET("/whoami", cfg.IdentityHandler.WhoAmIHandler)
		protected.POST("/encrypt", cfg.PayloadHandler.EncryptHandler)
		protected.POST("/decrypt", cfg.PayloadHandler.DecryptHandler)
		protected.POST("/keys/rotate", cfg.KeyHandler.RotateHandler)
		protected.POST("/history/save", cfg.OperationHandler.SaveHandler)
		protected.GET("/history", cfg.OperationHandler.ListHandler)
		protected.DELETE("/history/:id", cfg.OperationHandler.DeleteHandler)
	}

	s.router = router
}

// rootHandler lists the available routes.
func (s *Server) rootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "cipherapi",
		"routes": []string{
			"GET /health",
			"GET /ready",
			"POST /api/hash/sha256",
			"POST /api/hash/argon2",
			"POST /api/hash/verify",
			"GET /api/whoami",
			"POST /api/encrypt",
			"POST /api/decrypt",
			"POST /api/keys/rotate",
			"POST /api/history/save",
			"GET /api/history",
			"DELETE /api/history/:id",
		},
	})
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports readiness including database connectivity.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{}
	ready := true

	if s.db == nil {
		components["database"] = "error"
		ready = false
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := s.db.PingContext(ctx); err != nil {
			components["database"] = "error"
			ready = false
		} else {
			components["database"] = "ok"
		}
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
