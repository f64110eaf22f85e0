package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func newLimitedRouter(limiter Limiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/analyze", RateLimitMiddleware(limiter, zap.NewNop(), nil), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func doPost(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
	req.RemoteAddr = remoteAddr
	router.ServeHTTP(rr, req)
	return rr
}

func TestRedisLimiter(t *testing.T) {
	mr, client := newMiniRedis(t)
	limiter := NewRedisLimiter(client, RateLimitConfig{Window: time.Minute, Limit: 2, KeyPrefix: "test"})
	ctx := context.Background()

	d, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Remaining)

	d, err = limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)

	d, err = limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.True(t, d.Reset.After(time.Now()))

	// Other keys have their own window.
	d, err = limiter.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	keys := mr.Keys()
	require.Len(t, keys, 2)
	for _, k := range keys {
		assert.Contains(t, k, "test:10.0.0.")
		assert.True(t, mr.TTL(k) > 0, "counter %s should expire", k)
	}
}

func TestRedisLimiterUnavailable(t *testing.T) {
	mr, client := newMiniRedis(t)
	limiter := NewRedisLimiter(client, RateLimitConfig{Window: time.Minute, Limit: 1, KeyPrefix: "test"})
	mr.Close()

	_, err := limiter.Allow(context.Background(), "10.0.0.1")
	assert.Error(t, err)
}

func TestLocalLimiter(t *testing.T) {
	limiter := NewLocalLimiter(RateLimitConfig{Window: time.Hour, Limit: 3})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := limiter.Allow(ctx, "a")
		require.NoError(t, err)
		assert.True(t, d.Allowed, "request %d", i)
		assert.Equal(t, 2-i, d.Remaining)
	}

	d, err := limiter.Allow(ctx, "a")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.True(t, d.Reset.After(time.Now()))

	d, err = limiter.Allow(ctx, "b")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestLocalLimiterRefillRate(t *testing.T) {
	tests := []struct {
		name   string
		config RateLimitConfig
		want   rate.Limit
	}{
		{name: "per minute", config: RateLimitConfig{Window: time.Minute, Limit: 30}, want: 0.5},
		{name: "window shorter than limit in nanoseconds", config: RateLimitConfig{Window: 10 * time.Nanosecond, Limit: 20}, want: 2e9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := NewLocalLimiter(tt.config)
			_, err := limiter.Allow(context.Background(), "a")
			require.NoError(t, err)

			got := limiter.buckets["a"].limiter.Limit()
			assert.NotEqual(t, rate.Inf, got)
			assert.InDelta(t, float64(tt.want), float64(got), float64(tt.want)*1e-9)
			assert.Equal(t, tt.config.Limit, limiter.buckets["a"].limiter.Burst())
		})
	}
}

func TestLocalLimiterEvictsIdleKeys(t *testing.T) {
	limiter := NewLocalLimiter(RateLimitConfig{Window: time.Millisecond, Limit: 1})
	limiter.maxKeys = 2
	ctx := context.Background()

	_, _ = limiter.Allow(ctx, "a")
	_, _ = limiter.Allow(ctx, "b")
	time.Sleep(5 * time.Millisecond)
	_, _ = limiter.Allow(ctx, "c")

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.Len(t, limiter.buckets, 1)
	assert.Contains(t, limiter.buckets, "c")
}

func TestRateLimitMiddleware(t *testing.T) {
	_, client := newMiniRedis(t)
	router := newLimitedRouter(NewAnalysisRateLimiter(client, 1, time.Minute))

	rr := doPost(router, "192.0.2.1:1234")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "1", rr.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rr.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rr.Header().Get("X-RateLimit-Reset"))

	rr = doPost(router, "192.0.2.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))
	assert.Contains(t, rr.Body.String(), "rate limit exceeded")

	rr = doPost(router, "192.0.2.2:1234")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRateLimitMiddlewareLocal(t *testing.T) {
	limiter := NewAnalysisRateLimiter(nil, 1, time.Hour)
	_, ok := limiter.(*LocalLimiter)
	require.True(t, ok)

	router := newLimitedRouter(limiter)
	assert.Equal(t, http.StatusOK, doPost(router, "192.0.2.1:1234").Code)
	assert.Equal(t, http.StatusTooManyRequests, doPost(router, "192.0.2.1:1234").Code)
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (Decision, error) {
	return Decision{}, errors.New("connection refused")
}

func (failingLimiter) Config() RateLimitConfig {
	return RateLimitConfig{Window: time.Minute, Limit: 1}
}

func TestRateLimitMiddlewareFailsOpen(t *testing.T) {
	router := newLimitedRouter(failingLimiter{})

	rr := doPost(router, "192.0.2.1:1234")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "rate limit check failed", rr.Header().Get("X-RateLimit-Error"))
	assert.Empty(t, rr.Header().Get("X-RateLimit-Limit"))
}

func TestRateLimitMiddlewareCustomHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	onLimit := func(c *gin.Context, cfg RateLimitConfig, d Decision) {
		c.AbortWithStatus(http.StatusTeapot)
	}
	router.POST("/analyze", RateLimitMiddleware(NewAnalysisRateLimiter(nil, 1, time.Hour), zap.NewNop(), onLimit), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	assert.Equal(t, http.StatusOK, doPost(router, "192.0.2.1:1234").Code)
	assert.Equal(t, http.StatusTeapot, doPost(router, "192.0.2.1:1234").Code)
}
