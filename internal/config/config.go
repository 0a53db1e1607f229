// Package config loads the server configuration from environment variables
// with defaults, and validates it on startup.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Store    StoreConfig
	Grid     GridConfig
	Session  SessionConfig
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

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`

	// MaxBodySize caps request bodies in bytes (default: 10MB)
	MaxBodySize int64 `env:"SERVER_MAX_BODY_SIZE" default:"10485760"`
}

// DatabaseConfig holds PostgreSQL settings, used by the postgres state store.
type DatabaseConfig struct {
	// URL supports both DATABASE_URL and DB_URL env vars
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	MaxConns        int           `env:"DB_MAX_CONNS" default:"10"`
	MinConns        int           `env:"DB_MIN_CONNS" default:"1"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// StoreConfig selects where grid view state is persisted.
type StoreConfig struct {
	// Kind is one of memory, sqlite, postgres (default: memory)
	Kind string `env:"STATE_STORE" default:"memory"`

	// SQLitePath is the database file for the sqlite store
	SQLitePath string `env:"SQLITE_PATH" default:"datagrid.db"`
}

// GridConfig holds per-grid defaults.
type GridConfig struct {
	// AutoSave persists sort, filter and hidden columns per grid name (default: true)
	AutoSave bool `env:"GRID_AUTOSAVE" default:"true"`

	// FilterDebounce delays refreshes after filter input (default: 250ms)
	FilterDebounce time.Duration `env:"GRID_FILTER_DEBOUNCE" default:"250ms"`

	// StoreTimeout bounds each state store call (default: 5s)
	StoreTimeout time.Duration `env:"GRID_STORE_TIMEOUT" default:"5s"`
}

// SessionConfig holds grid session limits.
type SessionConfig struct {
	// MaxSessions caps live sessions, 0 for no limit (default: 1000)
	MaxSessions int `env:"SESSION_MAX" default:"1000"`

	// IdleTimeout evicts unused sessions, 0 to keep them (default: 30m)
	IdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" default:"30m"`

	// SweepInterval is how often idle sessions are checked (default: 1m)
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" default:"1m"`
}

// RateLimitConfig holds rate limiting settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the limit per client IP (default: 300)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"300"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey protects /api routes with X-API-Key (default: false)
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
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
