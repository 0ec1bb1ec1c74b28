package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"todos/internal/adapter/http/handler"
	"todos/internal/adapter/http/middleware"
	"todos/internal/core/port"
	"todos/pkg/config"
	"todos/pkg/telemetry"
)

type HandlersConfig struct {
	TodoHandler *handler.TodoHandler
}

func SetupRouter(handlers HandlersConfig, verifier port.TokenVerifier, metrics *telemetry.AppMetrics, logger *config.AppLogger, cfg *config.AppConfig) *gin.Engine {
	if gin.Mode() == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(middleware.Logging(logger))

	if metrics != nil {
		router.Use(middleware.Metrics(metrics))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	setupProtectedRoutes(router, handlers, verifier, metrics, cfg)

	return router
}

func setupProtectedRoutes(router *gin.Engine, handlers HandlersConfig, verifier port.TokenVerifier, metrics *telemetry.AppMetrics, cfg *config.AppConfig) {
	protected := router.Group("/")
	protected.Use(middleware.BearerAuth(verifier))

	if cfg.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.RateLimitConfigs, metrics)
		protected.Use(rateLimiter.RateLimitMiddleware())
	}

	{
		protected.GET("/todos", handlers.TodoHandler.GetAllTodos)
		protected.POST("/todos", handlers.TodoHandler.CreateTodo)
		protected.PATCH("/todos/:todoId", handlers.TodoHandler.UpdateTodo)
		protected.DELETE("/todos/:todoId", handlers.TodoHandler.DeleteTodo)
		protected.POST("/todos/:todoId/attachment", handlers.TodoHandler.GenerateUploadURL)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// SetupRouterForTests wires the routes with no telemetry or rate limiting.
func SetupRouterForTests(handlers HandlersConfig, verifier port.TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	protected := router.Group("/")
	protected.Use(middleware.BearerAuth(verifier))
	{
		protected.GET("/todos", handlers.TodoHandler.GetAllTodos)
		protected.POST("/todos", handlers.TodoHandler.CreateTodo)
		protected.PATCH("/todos/:todoId", handlers.TodoHandler.UpdateTodo)
		protected.DELETE("/todos/:todoId", handlers.TodoHandler.DeleteTodo)
		protected.POST("/todos/:todoId/attachment", handlers.TodoHandler.GenerateUploadURL)
	}

	return router
}
