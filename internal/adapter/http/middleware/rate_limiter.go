package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	"todos/pkg/config"
	"todos/pkg/telemetry"
)

// RateLimitEndpointConfig configuration for rate limiting per endpoint
type RateLimitEndpointConfig struct {
	Requests int
	Window   time.Duration
	KeyFunc  func(*gin.Context) string
}

// RateLimiter fixed-window limiter backed by an in-process cache
type RateLimiter struct {
	cache   *cache.Cache
	config  map[string]RateLimitEndpointConfig
	metrics *telemetry.AppMetrics
	mutex   sync.Mutex
}

type rateLimitEntry struct {
	Count     int
	ResetTime time.Time
}

// NewRateLimiter builds a limiter from the per-route configuration.
// The /todos routes are limited per authenticated user; everything else
// falls back to the client IP.
func NewRateLimiter(configs map[string]config.RateLimitConfig, metrics *telemetry.AppMetrics) *RateLimiter {
	c := cache.New(5*time.Minute, 10*time.Minute)

	endpointConfigs := make(map[string]RateLimitEndpointConfig, len(configs))

	for endpoint, cfg := range configs {
		keyFunc := getUserID

		if endpoint == "default" {
			keyFunc = getClientIP
		}

		endpointConfigs[endpoint] = RateLimitEndpointConfig{
			Requests: cfg.Requests,
			Window:   cfg.Window,
			KeyFunc:  keyFunc,
		}
	}

	if _, exists := endpointConfigs["default"]; !exists {
		endpointConfigs["default"] = RateLimitEndpointConfig{
			Requests: 60,
			Window:   time.Minute,
			KeyFunc:  getClientIP,
		}
	}

	return &RateLimiter{
		cache:   c,
		config:  endpointConfigs,
		metrics: metrics,
	}
}

func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		endpoint := c.Request.Method + " " + c.FullPath()

		cfg, exists := rl.config[endpoint]

		if !exists {
			cfg = rl.config["default"]
			endpoint = "default"
		}

		key := fmt.Sprintf("%s|%s", endpoint, cfg.KeyFunc(c))

		allowed, remaining, resetTime := rl.allow(key, cfg)

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			if rl.metrics != nil {
				rl.metrics.RecordRateLimitHit(endpoint)
			}

			c.Header("Retry-After", strconv.Itoa(int(time.Until(resetTime).Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"errors": []string{"Too many requests"},
			})
			return
		}

		if rl.metrics != nil {
			rl.metrics.RecordRateLimitAllowed(endpoint)
		}

		c.Next()
	}
}

func (rl *RateLimiter) allow(key string, cfg RateLimitEndpointConfig) (bool, int, time.Time) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()

	var entry rateLimitEntry

	if cached, found := rl.cache.Get(key); found {
		entry = cached.(rateLimitEntry)
	}

	if entry.ResetTime.IsZero() || now.After(entry.ResetTime) {
		entry = rateLimitEntry{
			Count:     0,
			ResetTime: now.Add(cfg.Window),
		}
	}

	if entry.Count >= cfg.Requests {
		return false, 0, entry.ResetTime
	}

	entry.Count++
	rl.cache.Set(key, entry, cfg.Window)

	remaining := cfg.Requests - entry.Count

	return true, remaining, entry.ResetTime
}

func getClientIP(c *gin.Context) string {
	return c.ClientIP()
}

func getUserID(c *gin.Context) string {
	if userID := c.GetString("x-user-id"); userID != "" {
		return userID
	}

	return c.ClientIP()
}
