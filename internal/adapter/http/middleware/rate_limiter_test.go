package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"todos/internal/adapter/http/middleware"
	"todos/pkg/config"
)

func setupLimitedRouter(requests int, window time.Duration) *gin.Engine {
	gin.SetMode(gin.TestMode)

	limiter := middleware.NewRateLimiter(map[string]config.RateLimitConfig{
		"GET /todos": {
			Requests: requests,
			Window:   window,
		},
	}, nil)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("x-user-id", "user-1")
		c.Next()
	})
	router.Use(limiter.RateLimitMiddleware())
	router.GET("/todos", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"items": []string{}})
	})

	return router
}

func hit(router *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	return recorder
}

func TestRateLimiterAllowsWithinWindow(t *testing.T) {
	router := setupLimitedRouter(3, time.Minute)

	for i := 0; i < 3; i++ {
		resp := hit(router)
		assert.Equal(t, http.StatusOK, resp.Code)
	}
}

func TestRateLimiterBlocksOverLimit(t *testing.T) {
	router := setupLimitedRouter(2, time.Minute)

	hit(router)
	hit(router)
	resp := hit(router)

	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.NotEmpty(t, resp.Header().Get("Retry-After"))
}

func TestRateLimiterSetsHeaders(t *testing.T) {
	router := setupLimitedRouter(5, time.Minute)

	resp := hit(router)

	assert.Equal(t, "5", resp.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "4", resp.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimiterResetsAfterWindow(t *testing.T) {
	router := setupLimitedRouter(1, 50*time.Millisecond)

	hit(router)
	blocked := hit(router)
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)

	time.Sleep(60 * time.Millisecond)

	resp := hit(router)
	assert.Equal(t, http.StatusOK, resp.Code)
}
