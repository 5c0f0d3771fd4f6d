package ratelimit

import (
	"log/slog"
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/errors"
)

// IPRateLimitMiddleware rejects clients that exceed the per-minute limit with 429.
// onBlocked, when set, receives the matched route of every rejected request.
func (rl *RateLimiter) IPRateLimitMiddleware(onBlocked func(route string)) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Enabled() {
			c.Next()
			return
		}

		ip := c.ClientIP()
		result, err := rl.AllowIP(c.Request.Context(), ip)
		if err != nil {
			// never block on limiter failure
			slog.Error("Rate limit check failed", "ip", ip, "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if result.Allowed {
			c.Next()
			return
		}

		route := c.FullPath()
		if rl.metrics != nil {
			rl.metrics.IncrementRateLimitIPBlock()
			rl.metrics.IncrementRateLimitEndpoint(route)
		}
		if onBlocked != nil {
			onBlocked(route)
		}

		retryAfter := strconv.Itoa(int(math.Ceil(result.RetryAfter.Seconds())))
		c.Header("Retry-After", retryAfter)

		errors.Respond(c, errors.NewRateLimitError(retryAfter+"s"))
		c.Abort()
	}
}
