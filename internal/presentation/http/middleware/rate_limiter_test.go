package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/scanpay/pkg/apperror"
)

func newLimitedRouter(t *testing.T, burst int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	limiter := NewClientRateLimiter(RateLimiterConfig{
		RequestsPerSecond: 0.001,
		BurstSize:         burst,
		CleanupInterval:   time.Minute,
		EntryTTL:          time.Minute,
	})
	t.Cleanup(limiter.Stop)

	router := gin.New()
	router.Use(limiter.Middleware())
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return router
}

func get(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiterRejectsOverBurst(t *testing.T) {
	router := newLimitedRouter(t, 2)

	assert.Equal(t, http.StatusOK, get(router, "10.0.0.1:4000").Code)
	assert.Equal(t, http.StatusOK, get(router, "10.0.0.1:4001").Code)

	w := get(router, "10.0.0.1:4002")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))

	var body struct {
		Success bool          `json:"success"`
		Kind    apperror.Kind `json:"kind"`
	}
	require.NoError(t, jsoniter.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, apperror.KindTooManyRequests, body.Kind)
}

func TestRateLimiterIsPerClientIP(t *testing.T) {
	router := newLimitedRouter(t, 1)

	assert.Equal(t, http.StatusOK, get(router, "10.0.0.1:4000").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(router, "10.0.0.1:4000").Code)
	assert.Equal(t, http.StatusOK, get(router, "10.0.0.2:4000").Code)
}

func TestRateLimiterConfigFromDefaults(t *testing.T) {
	cfg := RateLimiterConfigFrom(0, 0)
	assert.Equal(t, 60, cfg.BurstSize)
	assert.InDelta(t, 1.0, cfg.RequestsPerSecond, 1e-9)

	cfg = RateLimiterConfigFrom(30, 60)
	assert.Equal(t, 30, cfg.BurstSize)
	assert.InDelta(t, 0.5, cfg.RequestsPerSecond, 1e-9)
}
