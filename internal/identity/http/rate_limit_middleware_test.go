package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	identityDomain "github.com/cipherapi/cipherapi/internal/identity/domain"
)

func newRateLimitRouter(t *testing.T, rps float64, burst int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RateLimitMiddleware(rps, burst, newTestLogger()))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func identityRequest(t *testing.T, subject uuid.UUID) *http.Request {
	t.Helper()

	identity, err := identityDomain.NewIdentity(map[string]any{"sub": subject.String()})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	return req.WithContext(WithIdentity(req.Context(), identity))
}

func TestRateLimitMiddleware_AllowsRequestsWithinLimit(t *testing.T) {
	router := newRateLimitRouter(t, 10.0, 20)
	subject := uuid.Must(uuid.NewV7())

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, identityRequest(t, subject))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimitMiddleware_BlocksRequestsExceedingLimit(t *testing.T) {
	router := newRateLimitRouter(t, 1.0, 2)
	subject := uuid.Must(uuid.NewV7())

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, identityRequest(t, subject))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, identityRequest(t, subject))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRateLimitMiddleware_IndependentLimitsPerSubject(t *testing.T) {
	router := newRateLimitRouter(t, 1.0, 1)
	subjectA := uuid.Must(uuid.NewV7())
	subjectB := uuid.Must(uuid.NewV7())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, identityRequest(t, subjectA))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, identityRequest(t, subjectA))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, identityRequest(t, subjectB))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitMiddleware_BurstCapacityWorks(t *testing.T) {
	router := newRateLimitRouter(t, 1.0, 5)
	subject := uuid.Must(uuid.NewV7())

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, identityRequest(t, subject))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, identityRequest(t, subject))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimitMiddleware_RequiresAuthentication(t *testing.T) {
	router := newRateLimitRouter(t, 10.0, 20)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRateLimiterStore_CleanupStaleEntries(t *testing.T) {
	store := &rateLimiterStore{
		rps:   10.0,
		burst: 20,
	}

	subject := uuid.Must(uuid.NewV7())
	limiter := store.getLimiter(subject)
	assert.NotNil(t, limiter)

	_, ok := store.limiters.Load(subject)
	assert.True(t, ok)

	if val, ok := store.limiters.Load(subject); ok {
		entry := val.(*rateLimiterEntry)
		entry.mu.Lock()
		entry.lastAccess = time.Now().Add(-2 * time.Hour)
		entry.mu.Unlock()
	}

	threshold := time.Now().Add(-1 * time.Hour)
	store.limiters.Range(func(key, value interface{}) bool {
		entry := value.(*rateLimiterEntry)
		entry.mu.Lock()
		shouldDelete := entry.lastAccess.Before(threshold)
		entry.mu.Unlock()

		if shouldDelete {
			store.limiters.Delete(key)
		}
		return true
	})

	_, ok = store.limiters.Load(subject)
	assert.False(t, ok)
}
