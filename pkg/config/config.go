package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// RateLimitConfig is a per-endpoint request budget.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// AppConfig carries all server settings. Load fills it from the environment
// (an optional .env file is honored) with development defaults.
type AppConfig struct {
	Environment string
	Port        string

	// Telemetry
	ServiceName    string
	ServiceVersion string
	MetricsPort    string
	OTLPEndpoint   string

	// Storage
	DatabaseDriver string // "sqlite" or "postgres"
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string

	// List cache
	CacheEnabled bool
	CacheBackend string // "memory" or "redis"
	CacheTTL     time.Duration
	RedisAddr    string

	// Pagination
	CursorSecret string

	// Rate limiting
	RateLimitEnabled bool
	RateLimitConfigs map[string]RateLimitConfig
}

func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		Environment:      "development",
		Port:             "8080",
		ServiceName:      "todoapp",
		ServiceVersion:   "1.0.0",
		MetricsPort:      "9091",
		OTLPEndpoint:     "localhost:4317",
		DatabaseDriver:   "sqlite",
		DatabasePath:     "database.db",
		MigrationsPath:   "db/migrations",
		CacheEnabled:     true,
		CacheBackend:     "memory",
		CacheTTL:         3 * time.Second,
		RedisAddr:        "localhost:6379",
		CursorSecret:     "development-cursor-secret",
		RateLimitEnabled: true,
		RateLimitConfigs: map[string]RateLimitConfig{
			"GET /todos": {
				Requests: 100,
				Window:   time.Minute,
			},
			"POST /todos": {
				Requests: 20,
				Window:   time.Minute,
			},
			"PATCH /todos/:id": {
				Requests: 20,
				Window:   time.Minute,
			},
			"DELETE /todos/:id": {
				Requests: 20,
				Window:   time.Minute,
			},
		},
	}
}

// Load reads .env (if present) and the environment over the defaults.
func Load() *AppConfig {
	_ = godotenv.Load()

	cfg := GetDefaultConfig()

	setString(&cfg.Environment, "APP_ENV")
	setString(&cfg.Port, "PORT")
	setString(&cfg.MetricsPort, "METRICS_PORT")
	setString(&cfg.OTLPEndpoint, "OTLP_ENDPOINT")
	setString(&cfg.DatabaseDriver, "DATABASE_DRIVER")
	setString(&cfg.DatabasePath, "DATABASE_PATH")
	setString(&cfg.DatabaseURL, "DATABASE_URL")
	setString(&cfg.MigrationsPath, "MIGRATIONS_PATH")
	setString(&cfg.CacheBackend, "CACHE_BACKEND")
	setString(&cfg.RedisAddr, "REDIS_ADDR")
	setString(&cfg.CursorSecret, "CURSOR_SECRET_KEY")

	if os.Getenv("GIN_MODE") == "release" {
		cfg.Environment = "production"
	}

	if v := os.Getenv("CACHE_ENABLED"); v == "false" {
		cfg.CacheEnabled = false
	}

	if v := os.Getenv("RATE_LIMIT_ENABLED"); v == "false" {
		cfg.RateLimitEnabled = false
	}

	return cfg
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
