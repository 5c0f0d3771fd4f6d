package ratelimit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/monitoring"
	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/resilience"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimiterFallbackMode(t *testing.T) {
	metrics := monitoring.NewMetrics()
	limiter := NewRateLimiter(nil, Config{IPLimitPerMin: 5, BurstMultiplier: 1}, metrics)
	defer limiter.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		result, err := limiter.AllowIP(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, result.Allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 5, result.Limit)
		assert.Equal(t, 4-i, result.Remaining)
	}

	result, err := limiter.AllowIP(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Greater(t, result.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, result.RetryAfter, 12*time.Second)

	// other clients have their own bucket
	result, err = limiter.AllowIP(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, result.Allowed)

	assert.EqualValues(t, 7, metrics.RateLimitFallbackCount)
}

func TestRateLimiterBurstCapacity(t *testing.T) {
	limiter := NewRateLimiter(nil, Config{IPLimitPerMin: 5, BurstMultiplier: 2}, nil)
	defer limiter.Close()

	allowed := 0
	for i := 0; i < 15; i++ {
		result, err := limiter.AllowIP(context.Background(), "10.0.0.3")
		require.NoError(t, err)
		if result.Allowed {
			allowed++
		}
	}
	assert.Equal(t, 10, allowed)
}

func TestRateLimiterDisabled(t *testing.T) {
	limiter := NewRateLimiter(nil, Config{}, nil)
	defer limiter.Close()

	assert.False(t, limiter.Enabled())
	for i := 0; i < 100; i++ {
		result, err := limiter.AllowIP(context.Background(), "10.0.0.4")
		require.NoError(t, err)
		assert.True(t, result.Allowed)
	}
}

func TestRateLimiterRedisFailureFallsBack(t *testing.T) {
	// nothing listens on port 1, every Redis call fails fast
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	metrics := monitoring.NewMetrics()
	limiter := NewRateLimiter(newRedisClient(client, "127.0.0.1:1"), Config{IPLimitPerMin: 10, BurstMultiplier: 1}, metrics)
	defer limiter.Close()

	for i := 0; i < 5; i++ {
		result, err := limiter.AllowIP(context.Background(), "10.0.0.5")
		require.NoError(t, err)
		assert.True(t, result.Allowed)
	}

	// three failures open the circuit, later calls skip Redis
	assert.EqualValues(t, 3, metrics.RateLimitRedisErrors)
	assert.EqualValues(t, 5, metrics.RateLimitFallbackCount)
	assert.EqualValues(t, 1, metrics.CircuitBreakerOpens)
	assert.Equal(t, resilience.StateOpen, limiter.breaker.State())
}

func TestNewRedisClientWithoutAddr(t *testing.T) {
	client, err := NewRedisClient(context.Background(), "", "", 0)
	require.NoError(t, err)
	assert.False(t, client.IsEnabled())
	assert.Error(t, client.HealthCheck(context.Background()))
	assert.NoError(t, client.Close())
	assert.Equal(t, false, client.GetPoolStats()["enabled"])
}

func TestPruneFallback(t *testing.T) {
	limiter := NewRateLimiter(nil, DefaultConfig(), nil)
	defer limiter.Close()

	_, _ = limiter.AllowIP(context.Background(), "10.0.0.6")
	assert.Equal(t, 0, limiter.pruneFallback(time.Now()))
	assert.Equal(t, 1, limiter.pruneFallback(time.Now().Add(2*fallbackIdleTimeout)))
	assert.EqualValues(t, 0, limiter.GetStats()["fallback_limiters"])
}

func TestIPRateLimitMiddleware(t *testing.T) {
	limiter := NewRateLimiter(nil, Config{IPLimitPerMin: 2, BurstMultiplier: 1}, monitoring.NewMetrics())
	defer limiter.Close()

	var blocked []string
	router := gin.New()
	router.Use(limiter.IPRateLimitMiddleware(func(route string) { blocked = append(blocked, route) }))
	router.POST("/predict", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/predict", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send().Code)
	w := send()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = send()
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", body["code"])
	assert.Equal(t, []string{"/predict"}, blocked)
}
