package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"golang.org/x/time/rate"

	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/monitoring"
	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/resilience"
)

// Config holds rate limiter configuration
type Config struct {
	IPLimitPerMin   int // requests per client IP per minute, zero disables limiting
	BurstMultiplier int // burst capacity as a multiple of the per-minute rate
}

// DefaultConfig returns default rate limiting configuration
func DefaultConfig() Config {
	return Config{
		IPLimitPerMin:   60,
		BurstMultiplier: 2,
	}
}

func (c Config) burst() int {
	m := c.BurstMultiplier
	if m < 1 {
		m = 1
	}
	return c.IPLimitPerMin * m
}

// Result represents the result of a rate limit check
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

type fallbackEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const fallbackIdleTimeout = 10 * time.Minute

// RateLimiter limits requests per IP through Redis, falling back to in-memory token buckets
// whenever Redis is not configured, fails or its circuit breaker is open
type RateLimiter struct {
	redisLimiter *redis_rate.Limiter
	redisClient  *RedisClient
	breaker      *resilience.CircuitBreaker
	config       Config
	metrics      *monitoring.Metrics

	fallbackLimiters map[string]*fallbackEntry
	fallbackMutex    sync.Mutex

	stop     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter creates a new rate limiter. redisClient and metrics may be nil.
func NewRateLimiter(redisClient *RedisClient, config Config, metrics *monitoring.Metrics) *RateLimiter {
	rl := &RateLimiter{
		redisClient:      redisClient,
		config:           config,
		metrics:          metrics,
		fallbackLimiters: make(map[string]*fallbackEntry),
		stop:             make(chan struct{}),
	}

	rl.breaker = resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		FailureThreshold: 3,
		RecoveryTimeout:  15 * time.Second,
		OnStateChange: func(from, to resilience.CircuitBreakerState) {
			slog.Warn("Redis rate limit circuit changed state", "from", from.String(), "to", to.String())
			if metrics == nil {
				return
			}
			switch to {
			case resilience.StateOpen:
				metrics.IncrementCircuitBreakerOpen()
			case resilience.StateClosed:
				metrics.IncrementCircuitBreakerClose()
			}
		},
	})

	if redisClient.IsEnabled() {
		rl.redisLimiter = redis_rate.NewLimiter(redisClient.GetClient())
		slog.Info("Redis rate limiter initialized")
	} else {
		slog.Info("Using in-memory rate limiting")
	}

	go rl.cleanupFallbackLimiters()

	return rl
}

// Enabled reports whether any limit is enforced
func (rl *RateLimiter) Enabled() bool {
	return rl.config.IPLimitPerMin > 0
}

// AllowIP checks if an IP address may make another request this minute
func (rl *RateLimiter) AllowIP(ctx context.Context, ip string) (*Result, error) {
	if !rl.Enabled() {
		return &Result{Allowed: true}, nil
	}
	return rl.allow(ctx, fmt.Sprintf("ratelimit:ip:%s", ip))
}

func (rl *RateLimiter) allow(ctx context.Context, key string) (*Result, error) {
	if rl.redisLimiter != nil {
		var result *Result
		err := rl.breaker.Call(func() error {
			var err error
			result, err = rl.allowRedis(ctx, key)
			return err
		})
		if err == nil {
			return result, nil
		}

		if !errors.Is(err, resilience.ErrCircuitOpen) {
			slog.Warn("Redis rate limit check failed, using fallback", "key", key, "error", err)
			if rl.metrics != nil {
				rl.metrics.IncrementRateLimitRedisError()
			}
		}
	}

	if rl.metrics != nil {
		rl.metrics.IncrementRateLimitFallback()
	}
	return rl.allowFallback(key), nil
}

// allowRedis runs the GCRA check in Redis
func (rl *RateLimiter) allowRedis(ctx context.Context, key string) (*Result, error) {
	limit := redis_rate.Limit{
		Rate:   rl.config.IPLimitPerMin,
		Burst:  rl.config.burst(),
		Period: time.Minute,
	}

	res, err := rl.redisLimiter.Allow(ctx, key, limit)
	if err != nil {
		return nil, fmt.Errorf("redis rate limit check failed: %w", err)
	}

	return &Result{
		Allowed:    res.Allowed > 0,
		Limit:      res.Limit.Rate,
		Remaining:  res.Remaining,
		ResetAt:    time.Now().Add(res.ResetAfter),
		RetryAfter: res.RetryAfter,
	}, nil
}

// allowFallback performs rate limiting using an in-memory token bucket per key
func (rl *RateLimiter) allowFallback(key string) *Result {
	now := time.Now()
	perSecond := float64(rl.config.IPLimitPerMin) / 60

	rl.fallbackMutex.Lock()
	entry, exists := rl.fallbackLimiters[key]
	if !exists {
		entry = &fallbackEntry{limiter: rate.NewLimiter(rate.Limit(perSecond), rl.config.burst())}
		rl.fallbackLimiters[key] = entry
	}
	entry.lastSeen = now
	rl.fallbackMutex.Unlock()

	allowed := entry.limiter.AllowN(now, 1)
	tokens := entry.limiter.TokensAt(now)

	result := &Result{
		Allowed:   allowed,
		Limit:     rl.config.IPLimitPerMin,
		Remaining: int(math.Max(0, math.Floor(tokens))),
	}

	// time until the bucket is full again
	missing := float64(rl.config.burst()) - tokens
	result.ResetAt = now.Add(time.Duration(missing / perSecond * float64(time.Second)))

	if !allowed {
		result.RetryAfter = time.Duration((1 - tokens) / perSecond * float64(time.Second))
	}
	return result
}

// cleanupFallbackLimiters drops buckets that have been idle for a while
func (rl *RateLimiter) cleanupFallbackLimiters() {
	ticker := time.NewTicker(fallbackIdleTimeout)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case now := <-ticker.C:
			rl.pruneFallback(now)
		}
	}
}

func (rl *RateLimiter) pruneFallback(now time.Time) int {
	rl.fallbackMutex.Lock()
	defer rl.fallbackMutex.Unlock()

	removed := 0
	for key, entry := range rl.fallbackLimiters {
		if now.Sub(entry.lastSeen) > fallbackIdleTimeout {
			delete(rl.fallbackLimiters, key)
			removed++
		}
	}
	if removed > 0 {
		slog.Debug("Pruned idle fallback rate limiters", "count", removed)
	}
	return removed
}

// Close stops the background cleanup
func (rl *RateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// GetStats returns rate limiter statistics
func (rl *RateLimiter) GetStats() map[string]interface{} {
	rl.fallbackMutex.Lock()
	fallbackCount := len(rl.fallbackLimiters)
	rl.fallbackMutex.Unlock()

	stats := map[string]interface{}{
		"limit_per_minute":  rl.config.IPLimitPerMin,
		"burst":             rl.config.burst(),
		"redis_enabled":     rl.redisClient.IsEnabled(),
		"fallback_limiters": fallbackCount,
		"redis_circuit":     rl.breaker.Stats(),
	}

	if rl.redisClient.IsEnabled() {
		stats["redis_pool"] = rl.redisClient.GetPoolStats()
	}
	return stats
}
