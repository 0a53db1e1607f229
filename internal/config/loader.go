package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// LookupFunc returns the value of a variable and whether it is set.
type LookupFunc func(key string) (string, bool)

// Load reads configuration from the process environment.
func Load() (*Config, error) {
	return LoadFrom(os.LookupEnv)
}

// LoadFrom reads configuration through lookup, applies defaults for unset
// values and validates the result.
func LoadFrom(lookup LookupFunc) (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem(), lookup); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration and panics on error.
// Use this only in main() where early termination is desired.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

var durationType = reflect.TypeOf(time.Duration(0))

// loadStruct populates tagged fields of v, recursing into nested sections.
// A field is read from its env tag, then its envAlt tag, then the default
// tag. Empty variables count as unset.
func loadStruct(v reflect.Value, lookup LookupFunc) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		// Skip unexported fields
		if !fieldVal.CanSet() {
			continue
		}

		// Recurse into config sections
		if field.Type.Kind() == reflect.Struct {
			if err := loadStruct(fieldVal, lookup); err != nil {
				return err
			}
			continue
		}

		envName := field.Tag.Get("env")
		if envName == "" {
			continue
		}
		// Try primary env var, then alternate
		value, ok := lookupNonEmpty(lookup, envName)
		if !ok {
			if alt := field.Tag.Get("envAlt"); alt != "" {
				value, ok = lookupNonEmpty(lookup, alt)
			}
		}
		// Apply default if not set
		if !ok {
			if field.Tag.Get("required") == "true" {
				return fmt.Errorf("required environment variable %s is not set", envName)
			}
			value = field.Tag.Get("default")
		}
		if value == "" {
			continue
		}

		// Set the field value
		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

func lookupNonEmpty(lookup LookupFunc, key string) (string, bool) {
	v, ok := lookup(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		// Handle time.Duration specially
		if field.Type() == durationType {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.Set(reflect.ValueOf(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer: %w", err)
			}
			field.SetInt(i)
		}

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() == reflect.String {
			// Split comma-separated values, trim whitespace
			parts := strings.Split(value, ",")
			result := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					result = append(result, p)
				}
			}
			field.Set(reflect.ValueOf(result))
		} else {
			return fmt.Errorf("unsupported slice type: %s", field.Type().Elem().Kind())
		}

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// problems collects validation failures across config sections so that
// Validate can report all of them in one error. Each section appends its own
// messages, named after the environment variables involved.
type problems []string

func (p *problems) addf(format string, args ...any) {
	*p = append(*p, fmt.Sprintf(format, args...))
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var p problems

	// The state store may borrow the database section's URL.
	c.Store.validate(&p, c.Database.URL)
	c.Database.validate(&p)
	c.Server.validate(&p)
	c.Grid.validate(&p)
	c.Session.validate(&p)
	c.Rate.validate(&p)
	c.Security.validate(&p)
	c.Logging.validate(&p)

	if len(p) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(p, "\n  - "))
	}
	return nil
}

// validate checks the state store kind and the settings that kind needs.
// The postgres store shares DATABASE_URL with the database section.
func (s StoreConfig) validate(p *problems, databaseURL string) {
	switch strings.ToLower(s.Kind) {
	case "memory":
		// Nothing to configure
	case "sqlite":
		if s.SQLitePath == "" {
			p.addf("SQLITE_PATH is required when STATE_STORE is sqlite")
		}
	case "postgres":
		if databaseURL == "" {
			p.addf("DATABASE_URL is required when STATE_STORE is postgres")
		}
	default:
		p.addf("STATE_STORE (%q) must be one of: memory, sqlite, postgres", s.Kind)
	}
}

// validate checks the pool sizes. DATABASE_URL itself is optional.
func (d DatabaseConfig) validate(p *problems) {
	if d.MaxConns <= 0 {
		p.addf("DB_MAX_CONNS must be positive")
	}
	if d.MinConns < 0 {
		p.addf("DB_MIN_CONNS must be non-negative")
	}
	if d.MaxConns < d.MinConns {
		p.addf("DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)", d.MaxConns, d.MinConns)
	}
}

// Server validation
func (s ServerConfig) validate(p *problems) {
	if s.Port <= 0 || s.Port > 65535 {
		p.addf("SERVER_PORT (%d) must be 1-65535", s.Port)
	}
	if s.ReadTimeout < 0 {
		p.addf("SERVER_READ_TIMEOUT must be non-negative")
	}
	if s.ShutdownTimeout <= 0 {
		p.addf("SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
	if s.MaxBodySize <= 0 {
		p.addf("SERVER_MAX_BODY_SIZE must be positive")
	}
}

// validate checks the grid timings. A zero debounce applies filter input
// immediately.
func (g GridConfig) validate(p *problems) {
	if g.FilterDebounce < 0 {
		p.addf("GRID_FILTER_DEBOUNCE must be non-negative")
	}
	if g.StoreTimeout <= 0 {
		p.addf("GRID_STORE_TIMEOUT must be positive")
	}
}

// validate checks session limits. Zero for SESSION_MAX or
// SESSION_IDLE_TIMEOUT disables that limit.
func (s SessionConfig) validate(p *problems) {
	if s.MaxSessions < 0 {
		p.addf("SESSION_MAX must be non-negative")
	}
	if s.IdleTimeout < 0 {
		p.addf("SESSION_IDLE_TIMEOUT must be non-negative")
	}
	if s.IdleTimeout > 0 && s.SweepInterval <= 0 {
		p.addf("SESSION_SWEEP_INTERVAL must be positive when SESSION_IDLE_TIMEOUT is set")
	}
}

// Rate limit validation
func (r RateLimitConfig) validate(p *problems) {
	if r.Enabled && r.RequestsPerMinute <= 0 {
		p.addf("RATE_LIMIT_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")
	}
}

func (s SecurityConfig) validate(p *problems) {
	if s.RequireAPIKey && len(s.APIKeys) == 0 {
		p.addf("REQUIRE_API_KEY is true but API_KEYS is empty; configure at least one API key or disable auth")
	}
}

// validate checks level and format case-insensitively, matching how
// logging.New parses them.
func (l LoggingConfig) validate(p *problems) {
	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "error":
	default:
		p.addf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", l.Level)
	}
	switch strings.ToLower(l.Format) {
	case "text", "json":
	default:
		p.addf("LOG_FORMAT (%q) must be one of: text, json", l.Format)
	}
}

// String returns a safe string representation of the config for logging.
// Sensitive values like database URLs and API keys are masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Server: {Host: %q, Port: %d}, ", c.Server.Host, c.Server.Port))
	b.WriteString(fmt.Sprintf("Store: {Kind: %q, SQLitePath: %q}, ", c.Store.Kind, c.Store.SQLitePath))
	b.WriteString(fmt.Sprintf("Database: {URL: [MASKED], MaxConns: %d, MinConns: %d}, ",
		c.Database.MaxConns, c.Database.MinConns))
	b.WriteString(fmt.Sprintf("Grid: {AutoSave: %v, FilterDebounce: %s}, ",
		c.Grid.AutoSave, c.Grid.FilterDebounce))
	b.WriteString(fmt.Sprintf("Session: {MaxSessions: %d, IdleTimeout: %s}, ",
		c.Session.MaxSessions, c.Session.IdleTimeout))
	b.WriteString(fmt.Sprintf("Rate: {Enabled: %v, RequestsPerMinute: %d}, ",
		c.Rate.Enabled, c.Rate.RequestsPerMinute))
	b.WriteString(fmt.Sprintf("Security: {RequireAPIKey: %v, APIKeys: [%d MASKED]}, ",
		c.Security.RequireAPIKey, len(c.Security.APIKeys)))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}
