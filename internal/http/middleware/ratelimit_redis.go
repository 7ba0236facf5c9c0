package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// SetRedisClient sets the client shared by the rate limiters. With a nil
// client the limiters fall back to in-process token buckets.
func SetRedisClient(c *redis.Client) {
	redisClient = c
}

// RedisRateLimit implements a simple fixed-window rate limiter per client IP
// using Redis INCR/EXPIRE.
// key format: rl:<window_seconds>:<identifier>
func RedisRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	local := newLocalLimiter(maxRequests, window)

	return func(c *gin.Context) {
		key := "rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + c.ClientIP()
		limit(c, key, c.FullPath(), maxRequests, window, local, "X-RateLimit")
	}
}

// UserRateLimit limits requests per authenticated user (not per IP) within a
// scope. Requires JWT middleware to run before this.
func UserRateLimit(scope string, maxRequests int, window time.Duration) gin.HandlerFunc {
	local := newLocalLimiter(maxRequests, window)

	return func(c *gin.Context) {
		userID, ok := c.Get("user_id")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		uid, ok := userID.(int64)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid user"})
			return
		}

		key := "user_rl:" + scope + ":" + strconv.FormatInt(uid, 10) + ":" + strconv.FormatInt(int64(window.Seconds()), 10)
		limit(c, key, scope, maxRequests, window, local, "X-UserRateLimit")
	}
}

func limit(c *gin.Context, key, endpoint string, maxRequests int, window time.Duration, local *localLimiter, header string) {
	if redisClient == nil {
		if !local.allow(key) {
			RLBlocked.WithLabelValues(endpoint).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		RLRequests.WithLabelValues(endpoint).Inc()
		c.Next()
		return
	}

	ctx := context.Background()

	val, err := redisClient.Incr(ctx, key).Result()
	if err != nil {
		// on Redis error, fail-open (allow) but set header
		c.Header(header+"-Error", "redis-error")
		c.Next()
		return
	}

	if val == 1 {
		// first increment, set expiry
		redisClient.Expire(ctx, key, window)
	}

	c.Header(header+"-Limit", strconv.Itoa(maxRequests))
	c.Header(header+"-Remaining", strconv.FormatInt(max(0, int64(maxRequests)-val), 10))

	if val > int64(maxRequests) {
		RLBlocked.WithLabelValues(endpoint).Inc()
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error":       "rate limit exceeded",
			"retry_after": int(window.Seconds()),
		})
		return
	}

	RLRequests.WithLabelValues(endpoint).Inc()
	c.Next()
}
