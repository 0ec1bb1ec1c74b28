package config

import (
	"os"
	"strconv"
	"time"
)

// RateLimitConfig configuration for rate limiting
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// AppConfig general application configuration, read once at startup.
type AppConfig struct {
	ServiceName string
	Environment string
	Port        string

	// Item store
	TodosTable       string
	TodosUserIDIndex string
	// IS_OFFLINE points the store client at a local endpoint
	OfflineEndpoint string

	// Attachment store
	ImagesBucket        string
	SignedURLExpiration time.Duration

	// Credential verification
	JWKSURL string
	// Zero keeps the original fetch-on-every-call behavior
	JWKSCacheTTL time.Duration

	// Telemetry
	MetricsPort  string
	OTLPEndpoint string

	// Rate Limiting
	RateLimitEnabled bool
	RateLimitConfigs map[string]RateLimitConfig
}

// Load builds the configuration from the environment with development
// defaults.
func Load() *AppConfig {
	cfg := &AppConfig{
		ServiceName: "todos",
		Environment: envOr("APP_ENV", "development"),
		Port:        envOr("PORT", "8080"),

		TodosTable:       envOr("TODOS_TABLE", "todos"),
		TodosUserIDIndex: envOr("TODOS_USER_ID_INDEX", "userIdIndex"),
		OfflineEndpoint:  offlineEndpoint(),

		ImagesBucket:        envOr("IMAGES_S3_BUCKET", "todos-images"),
		SignedURLExpiration: envDurationSeconds("SIGNED_URL_EXPIRATION", 300*time.Second),

		JWKSURL:      envOr("JWKS_URL", "https://relaypic.auth0.com/.well-known/jwks.json"),
		JWKSCacheTTL: envDurationSeconds("JWKS_CACHE_TTL", 0),

		MetricsPort:  envOr("METRICS_PORT", "9091"),
		OTLPEndpoint: envOr("OTLP_ENDPOINT", "localhost:4317"),

		RateLimitEnabled: os.Getenv("RATE_LIMIT_DISABLED") == "",
		RateLimitConfigs: map[string]RateLimitConfig{
			"GET /todos": {
				Requests: 100,
				Window:   time.Minute,
			},
			"POST /todos": {
				Requests: 20,
				Window:   time.Minute,
			},
			"POST /todos/:todoId/attachment": {
				Requests: 20,
				Window:   time.Minute,
			},
			"default": {
				Requests: 60,
				Window:   time.Minute,
			},
		},
	}

	if os.Getenv("GIN_MODE") == "release" {
		cfg.Environment = "production"
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func envDurationSeconds(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)

	if v == "" {
		return fallback
	}

	seconds, err := strconv.Atoi(v)

	if err != nil {
		return fallback
	}

	return time.Duration(seconds) * time.Second
}

func offlineEndpoint() string {
	if os.Getenv("IS_OFFLINE") == "" {
		return ""
	}

	return envOr("DYNAMODB_ENDPOINT", "http://localhost:8000")
}
