// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Source   SourceConfig
	Dataset  DatasetConfig
	Cache    CacheConfig
	Refresh  RefreshConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// SourceConfig locates the indicator workbook.
type SourceConfig struct {
	// Path is the workbook file (default: FIdataWB.xlsx)
	Path string `env:"SOURCE_PATH" default:"FIdataWB.xlsx"`

	// Sheet is the worksheet to read; empty selects the first sheet (default: Sheet1)
	Sheet string `env:"SOURCE_SHEET" default:"Sheet1"`

	// SkipRows is the number of preamble rows above the header (default: 3)
	SkipRows int `env:"SOURCE_SKIP_ROWS" default:"3"`

	// Format is xlsx, xls, csv or auto (default: auto, from the extension)
	Format string `env:"SOURCE_FORMAT" default:"auto"`
}

// DatasetConfig selects the reference data and query behavior.
type DatasetConfig struct {
	// Profile is the registered dataset profile key (default: worldbank)
	Profile string `env:"DATASET_PROFILE" default:"worldbank"`

	// PadContinents overrides the profile's padding setting when set
	PadContinents *bool `env:"DATASET_PAD_CONTINENTS"`

	// RequireSelection rejects queries without a selection (default: false)
	RequireSelection bool `env:"DATASET_REQUIRE_SELECTION" default:"false"`
}

// CacheConfig holds cache store settings.
type CacheConfig struct {
	// Driver is sqlite, postgres or none (default: sqlite)
	Driver string `env:"CACHE_DRIVER" default:"sqlite"`

	// Path is the SQLite database file (default: employment.db)
	Path string `env:"CACHE_PATH" default:"employment.db"`

	// URL is the PostgreSQL connection string, required for the postgres driver.
	// Supports both CACHE_URL and DATABASE_URL env vars.
	URL string `env:"CACHE_URL" envAlt:"DATABASE_URL"`

	// Table is the cache table name (default: employment)
	Table string `env:"CACHE_TABLE" default:"employment"`

	// Timeout bounds a single cache write (default: 30s)
	Timeout time.Duration `env:"CACHE_TIMEOUT" default:"30s"`

	// BatchSize is the number of rows per insert statement (default: 500).
	// The sqlite driver clamps it to stay within SQLite's variable limit.
	BatchSize int `env:"CACHE_BATCH_SIZE" default:"500"`

	// MaxConns is the maximum number of pooled PostgreSQL connections (default: 4)
	MaxConns int `env:"CACHE_MAX_CONNS" default:"4"`
}

// RefreshConfig holds periodic rebuild settings.
type RefreshConfig struct {
	// Interval between rebuilds from the source file; 0 disables (default: 0)
	Interval time.Duration `env:"REFRESH_INTERVAL" default:"0s"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// RefreshLimit is requests per minute for the refresh endpoint (default: 5)
	RefreshLimit int `env:"RATE_LIMIT_REFRESH" default:"5"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey protects mutating endpoints with an API key (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
