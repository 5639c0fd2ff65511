// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/cipherapi/cipherapi/internal/config"
	cryptoService "github.com/cipherapi/cipherapi/internal/crypto/service"
	"github.com/cipherapi/cipherapi/internal/database"
	hashingHTTP "github.com/cipherapi/cipherapi/internal/hashing/http"
	hashingService "github.com/cipherapi/cipherapi/internal/hashing/service"
	historyHTTP "github.com/cipherapi/cipherapi/internal/history/http"
	historyRepository "github.com/cipherapi/cipherapi/internal/history/repository"
	historyUseCase "github.com/cipherapi/cipherapi/internal/history/usecase"
	"github.com/cipherapi/cipherapi/internal/http"
	identityHTTP "github.com/cipherapi/cipherapi/internal/identity/http"
	identityUseCase "github.com/cipherapi/cipherapi/internal/identity/usecase"
	keysHTTP "github.com/cipherapi/cipherapi/internal/keys/http"
	keysRepository "github.com/cipherapi/cipherapi/internal/keys/repository"
	keysUseCase "github.com/cipherapi/cipherapi/internal/keys/usecase"
	"github.com/cipherapi/cipherapi/internal/metrics"
	payloadHTTP "github.com/cipherapi/cipherapi/internal/payload/http"
	payloadUseCase "github.com/cipherapi/cipherapi/internal/payload/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger *slog.Logger
	db     *sql.DB

	// Managers
	identityTxManager database.IdentityTxManager

	// Repositories
	keyRepo       keysUseCase.KeyRepository
	operationRepo historyUseCase.OperationRepository

	// Crypto components
	kmsService      cryptoService.KMSService
	masterKeySource cryptoService.MasterKeySource
	keyWrapper      cryptoService.KeyWrapper
	aeadManager     cryptoService.AEADManager

	// Use Cases and Services
	hashService      hashingService.HashService
	keyUseCase       keysUseCase.KeyUseCase
	operationUseCase historyUseCase.OperationUseCase
	payloadUseCase   payloadUseCase.PayloadUseCase
	whoAmIUseCase    identityUseCase.WhoAmIUseCase

	// HTTP Handlers
	hashHandler      *hashingHTTP.HashHandler
	payloadHandler   *payloadHTTP.PayloadHandler
	keyHandler       *keysHTTP.KeyHandler
	operationHandler *historyHTTP.OperationHandler
	identityHandler  *identityHTTP.IdentityHandler

	// Metrics
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                    sync.Mutex
	loggerInit            sync.Once
	dbInit                sync.Once
	identityTxManagerInit sync.Once
	kmsServiceInit        sync.Once
	masterKeySourceInit   sync.Once
	keyWrapperInit        sync.Once
	aeadManagerInit       sync.Once
	keyRepoInit           sync.Once
	operationRepoInit     sync.Once
	hashServiceInit       sync.Once
	keyUseCaseInit        sync.Once
	operationUseCaseInit  sync.Once
	payloadUseCaseInit    sync.Once
	whoAmIUseCaseInit     sync.Once
	hashHandlerInit       sync.Once
	payloadHandlerInit    sync.Once
	keyHandlerInit        sync.Once
	operationHandlerInit  sync.Once
	identityHandlerInit   sync.Once
	metricsProviderInit   sync.Once
	businessMetricsInit   sync.Once
	httpServerInit        sync.Once
	metricsServerInit     sync.Once
	initErrors            map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// IdentityTxManager returns the identity-scoped transaction manager.
// It requires a database connection to be initialized first.
func (c *Container) IdentityTxManager() (database.IdentityTxManager, error) {
	var err error
	c.identityTxManagerInit.Do(func() {
		c.identityTxManager, err = c.initIdentityTxManager()
		if err != nil {
			c.initErrors["identityTxManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["identityTxManager"]; exists {
		return nil, storedErr
	}
	return c.identityTxManager, nil
}

// KeyRepository returns the key record repository instance.
func (c *Container) KeyRepository() (keysUseCase.KeyRepository, error) {
	var err error
	c.keyRepoInit.Do(func() {
		c.keyRepo, err = c.initKeyRepository()
		if err != nil {
			c.initErrors["keyRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyRepo"]; exists {
		return nil, storedErr
	}
	return c.keyRepo, nil
}

// OperationRepository returns the operation history repository instance.
func (c *Container) OperationRepository() (historyUseCase.OperationRepository, error) {
	var err error
	c.operationRepoInit.Do(func() {
		c.operationRepo, err = c.initOperationRepository()
		if err != nil {
			c.initErrors["operationRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["operationRepo"]; exists {
		return nil, storedErr
	}
	return c.operationRepo, nil
}

// HashService returns the hashing service instance.
func (c *Container) HashService() hashingService.HashService {
	c.hashServiceInit.Do(func() {
		c.hashService = hashingService.NewHashService()
	})
	return c.hashService
}

// KeyUseCase returns the key lifecycle use case instance.
func (c *Container) KeyUseCase() (keysUseCase.KeyUseCase, error) {
	var err error
	c.keyUseCaseInit.Do(func() {
		c.keyUseCase, err = c.initKeyUseCase()
		if err != nil {
			c.initErrors["keyUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyUseCase"]; exists {
		return nil, storedErr
	}
	return c.keyUseCase, nil
}

// OperationUseCase returns the operation history use case instance.
func (c *Container) OperationUseCase() (historyUseCase.OperationUseCase, error) {
	var err error
	c.operationUseCaseInit.Do(func() {
		c.operationUseCase, err = c.initOperationUseCase()
		if err != nil {
			c.initErrors["operationUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["operationUseCase"]; exists {
		return nil, storedErr
	}
	return c.operationUseCase, nil
}

// PayloadUseCase returns the payload encryption use case instance.
func (c *Container) PayloadUseCase() (payloadUseCase.PayloadUseCase, error) {
	var err error
	c.payloadUseCaseInit.Do(func() {
		c.payloadUseCase, err = c.initPayloadUseCase()
		if err != nil {
			c.initErrors["payloadUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["payloadUseCase"]; exists {
		return nil, storedErr
	}
	return c.payloadUseCase, nil
}

// WhoAmIUseCase returns the identity introspection use case instance.
func (c *Container) WhoAmIUseCase() (identityUseCase.WhoAmIUseCase, error) {
	var err error
	c.whoAmIUseCaseInit.Do(func() {
		c.whoAmIUseCase, err = c.initWhoAmIUseCase()
		if err != nil {
			c.initErrors["whoAmIUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["whoAmIUseCase"]; exists {
		return nil, storedErr
	}
	return c.whoAmIUseCase, nil
}

// MetricsProvider returns the metrics provider instance.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. When metrics are
// disabled a no-op implementation is returned.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// HTTPServer returns the HTTP server instance.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the Prometheus metrics server instance.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	// Shutdown HTTP server if initialized
	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	// Shutdown metrics server if initialized
	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	// Shutdown metrics provider if initialized
	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	// Close database connection if initialized
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	// Return combined errors if any occurred
	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initIdentityTxManager creates the identity-scoped transaction manager.
func (c *Container) initIdentityTxManager() (database.IdentityTxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for identity tx manager: %w", err)
	}
	return database.NewIdentityTxManager(db), nil
}

// initKeyRepository creates the key record repository instance.
func (c *Container) initKeyRepository() (keysUseCase.KeyRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for key repository: %w", err)
	}
	return keysRepository.NewPostgreSQLKeyRepository(db), nil
}

// initOperationRepository creates the operation history repository instance.
func (c *Container) initOperationRepository() (historyUseCase.OperationRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for operation repository: %w", err)
	}
	return historyRepository.NewPostgreSQLOperationRepository(db), nil
}

// initKeyUseCase creates the key lifecycle use case with all its dependencies.
func (c *Container) initKeyUseCase() (keysUseCase.KeyUseCase, error) {
	txManager, err := c.IdentityTxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get identity tx manager for key use case: %w", err)
	}

	keyRepo, err := c.KeyRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get key repository for key use case: %w", err)
	}

	keyWrapper, err := c.KeyWrapper()
	if err != nil {
		return nil, fmt.Errorf("failed to get key wrapper for key use case: %w", err)
	}

	baseUseCase := keysUseCase.NewKeyUseCase(txManager, keyRepo, keyWrapper, c.Logger())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for key use case: %w", err)
		}
		return keysUseCase.NewKeyUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initOperationUseCase creates the operation history use case.
func (c *Container) initOperationUseCase() (historyUseCase.OperationUseCase, error) {
	txManager, err := c.IdentityTxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get identity tx manager for operation use case: %w", err)
	}

	operationRepo, err := c.OperationRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get operation repository for operation use case: %w", err)
	}

	return historyUseCase.NewOperationUseCase(txManager, operationRepo), nil
}

// initPayloadUseCase creates the payload encryption use case with all its dependencies.
func (c *Container) initPayloadUseCase() (payloadUseCase.PayloadUseCase, error) {
	keyUC, err := c.KeyUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get key use case for payload use case: %w", err)
	}

	operationUC, err := c.OperationUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get operation use case for payload use case: %w", err)
	}

	baseUseCase := payloadUseCase.NewPayloadUseCase(keyUC, operationUC, c.AEADManager(), c.Logger())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for payload use case: %w", err)
		}
		return payloadUseCase.NewPayloadUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initWhoAmIUseCase creates the identity introspection use case.
func (c *Container) initWhoAmIUseCase() (identityUseCase.WhoAmIUseCase, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for whoami use case: %w", err)
	}

	txManager, err := c.IdentityTxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get identity tx manager for whoami use case: %w", err)
	}

	return identityUseCase.NewWhoAmIUseCase(db, txManager), nil
}

// initBusinessMetrics creates the business metrics recorder.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	if !c.config.MetricsEnabled {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}

	return metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
}

// initHTTPServer creates the HTTP server with all its dependencies.
func (c *Container) initHTTPServer() (*http.Server, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	hashHandler, err := c.HashHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get hash handler for http server: %w", err)
	}

	payloadHandler, err := c.PayloadHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get payload handler for http server: %w", err)
	}

	keyHandler, err := c.KeyHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get key handler for http server: %w", err)
	}

	operationHandler, err := c.OperationHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get operation handler for http server: %w", err)
	}

	identityHandler, err := c.IdentityHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get identity handler for http server: %w", err)
	}

	routerConfig := http.RouterConfig{
		HashHandler:      hashHandler,
		PayloadHandler:   payloadHandler,
		KeyHandler:       keyHandler,
		OperationHandler: operationHandler,
		IdentityHandler:  identityHandler,
		JWTSecret:        c.config.AuthJWTSecret,
		RateLimitEnabled: c.config.RateLimitEnabled,
		RateLimitRPS:     c.config.RateLimitRequestsPerSec,
		RateLimitBurst:   c.config.RateLimitBurst,
		CORSEnabled:      c.config.CORSEnabled,
		CORSAllowOrigins: c.config.CORSAllowOrigins,
		MetricsEnabled:   c.config.MetricsEnabled,
		MetricsNamespace: c.config.MetricsNamespace,
	}

	if c.config.MetricsEnabled {
		provider, err := c.MetricsProvider()
		if err != nil {
			return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
		}
		routerConfig.MeterProvider = provider.MeterProvider()
	}

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, c.Logger())
	server.SetupRouter(routerConfig)

	return server, nil
}

// initMetricsServer creates the Prometheus metrics server.
func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}

	return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider), nil
}
