package middleware

import (
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimiter is a per-IP token bucket, intended for the credential
// endpoints (register/login) where brute forcing is a concern.
func RateLimiter(r rate.Limit, b int) gin.HandlerFunc {
	var visitors = make(map[string]*rate.Limiter)
	var mu sync.Mutex

	getVisitor := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		limiter, exists := visitors[ip]
		if !exists {
			limiter = rate.NewLimiter(r, b)
			visitors[ip] = limiter
		}
		return limiter
	}

	return func(ctx *gin.Context) {
		ip := ctx.ClientIP()
		limiter := getVisitor(ip)
		if !limiter.Allow() {
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}
		ctx.Next()
	}
}

// RedisRateLimiter is a sliding-window limiter backed by Redis, for
// deployments running more than one instance behind a load balancer.
type RedisRateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

func (rl *RedisRateLimiter) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		key := "rate_limit:auth:" + ctx.ClientIP()

		allowed, err := rl.allow(ctx, key)

		if err != nil {
			// The limiter must not take login down with it.
			log.Printf("Rate limiter error: %v", err)
			ctx.Header("X-RateLimit-Error", "true")
			ctx.Next()
			return
		}

		if !allowed {
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": rl.window.Seconds(),
			})
			return
		}

		ctx.Next()
	}
}

func (rl *RedisRateLimiter) allow(ctx *gin.Context, key string) (bool, error) {
	c := ctx.Request.Context()

	now := time.Now().UnixNano()
	windowStart := now - rl.window.Nanoseconds()

	pipe := rl.client.Pipeline()

	pipe.ZRemRangeByScore(c, key, "0", strconv.FormatInt(windowStart, 10))
	countCmd := pipe.ZCard(c, key)
	pipe.ZAdd(c, key, redis.Z{Score: float64(now), Member: now})
	pipe.Expire(c, key, rl.window)

	if _, err := pipe.Exec(c); err != nil {
		return false, err
	}

	return countCmd.Val() < int64(rl.limit), nil
}
