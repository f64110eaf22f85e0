package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pageza/mealwise/internal/metrics"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// Decision is the outcome of one rate limit check.
type Decision struct {
	Allowed   bool
	Remaining int
	Reset     time.Time
}

// Limiter decides whether the caller identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
	Config() RateLimitConfig
}

// RedisLimiter is a fixed-window limiter shared by every instance that uses the same redis.
type RedisLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
}

// NewRedisLimiter creates a new redis-backed rate limiter instance
func NewRedisLimiter(redisClient *redis.Client, config RateLimitConfig) *RedisLimiter {
	return &RedisLimiter{
		redis:  redisClient,
		config: config,
	}
}

// Config returns the limiter configuration.
func (rl *RedisLimiter) Config() RateLimitConfig {
	return rl.config
}

// Allow counts the request against the current window.
func (rl *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	now := time.Now()
	windowStart := now.Truncate(rl.config.Window)
	redisKey := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, key, windowStart.Unix())

	// Use Redis pipeline for atomic operations
	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.config.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("failed to update rate limit counter: %w", err)
	}

	count := int(incrCmd.Val())
	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   count <= rl.config.Limit,
		Remaining: remaining,
		Reset:     windowStart.Add(rl.config.Window),
	}, nil
}

// LocalLimiter is a per-process token bucket per key, used when no redis is configured.
type LocalLimiter struct {
	config  RateLimitConfig
	mu      sync.Mutex
	buckets map[string]*bucket
	maxKeys int
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLocalLimiter creates an in-process limiter refilling Limit tokens per Window.
func NewLocalLimiter(config RateLimitConfig) *LocalLimiter {
	return &LocalLimiter{
		config:  config,
		buckets: make(map[string]*bucket),
		maxKeys: 10000,
	}
}

// Config returns the limiter configuration.
func (l *LocalLimiter) Config() RateLimitConfig {
	return l.config
}

// Allow takes one token from the caller's bucket.
func (l *LocalLimiter) Allow(_ context.Context, key string) (Decision, error) {
	now := time.Now()
	every := rate.Limit(float64(l.config.Limit) / l.config.Window.Seconds())

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		if len(l.buckets) >= l.maxKeys {
			l.evictIdle(now)
		}
		b = &bucket{limiter: rate.NewLimiter(every, l.config.Limit)}
		l.buckets[key] = b
	}
	b.lastSeen = now

	allowed := b.limiter.AllowN(now, 1)
	tokens := b.limiter.TokensAt(now)
	remaining := int(tokens)
	if remaining < 0 {
		remaining = 0
	}

	// Time until the bucket is full again.
	missing := float64(l.config.Limit) - tokens
	reset := now.Add(time.Duration(missing / float64(every) * float64(time.Second)))

	return Decision{Allowed: allowed, Remaining: remaining, Reset: reset}, nil
}

// evictIdle drops buckets unused for a full window; those would be full again anyway.
func (l *LocalLimiter) evictIdle(now time.Time) {
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) > l.config.Window {
			delete(l.buckets, key)
		}
	}
}

// RateLimitHandler writes the response for a rejected request.
type RateLimitHandler func(c *gin.Context, cfg RateLimitConfig, d Decision)

// RateLimitJSON is the default rejection response.
func RateLimitJSON(c *gin.Context, cfg RateLimitConfig, d Decision) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error":                "rate limit exceeded",
		"message":              fmt.Sprintf("You have exceeded the rate limit of %d requests per %v", cfg.Limit, cfg.Window),
		"rate_limit_remaining": d.Remaining,
		"rate_limit_reset":     d.Reset.Unix(),
		"retry_after":          int(time.Until(d.Reset).Seconds()),
	})
}

// RateLimitMiddleware returns a Gin middleware that enforces rate limiting per client IP.
// Limiter failures are logged and the request is let through.
func RateLimitMiddleware(limiter Limiter, logger *zap.Logger, onLimit RateLimitHandler) gin.HandlerFunc {
	if onLimit == nil {
		onLimit = RateLimitJSON
	}
	cfg := limiter.Config()

	return func(c *gin.Context) {
		d, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.Warn("rate limit check failed", zap.Error(err), zap.String("request_id", RequestID(c)))
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		// Set rate limit headers
		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(d.Reset.Unix(), 10))

		if !d.Allowed {
			metrics.RateLimitedTotal.WithLabelValues(c.FullPath()).Inc()
			c.Header("Retry-After", strconv.Itoa(int(time.Until(d.Reset).Seconds())+1))
			onLimit(c, cfg, d)
			return
		}

		c.Next()
	}
}

// NewAnalysisRateLimiter picks the redis limiter when a client is available, else the local one.
func NewAnalysisRateLimiter(redisClient *redis.Client, limit int, window time.Duration) Limiter {
	cfg := RateLimitConfig{
		Window:    window,
		Limit:     limit,
		KeyPrefix: "rate_limit:meal_analysis",
	}
	if redisClient != nil {
		return NewRedisLimiter(redisClient, cfg)
	}
	return NewLocalLimiter(cfg)
}
