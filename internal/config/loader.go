package config

import (
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// tableNameRegex restricts CACHE_TABLE to identifiers that need no quoting.
var tableNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
// Returns an error if required values are missing or validation fails.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
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

// loadStruct recursively populates struct fields from environment variables.
func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		// Skip unexported fields
		if !fieldVal.CanSet() {
			continue
		}

		// Recurse into nested structs
		if field.Type.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{}) {
			if err := loadStruct(fieldVal); err != nil {
				return err
			}
			continue
		}

		// Get tags
		envName := field.Tag.Get("env")
		envAlt := field.Tag.Get("envAlt")
		defaultVal := field.Tag.Get("default")
		required := field.Tag.Get("required") == "true"

		if envName == "" {
			continue
		}

		// Try primary env var, then alternate
		value := os.Getenv(envName)
		if value == "" && envAlt != "" {
			value = os.Getenv(envAlt)
		}

		// Apply default if not set
		if value == "" {
			if required {
				return fmt.Errorf("required environment variable %s is not set", envName)
			}
			value = defaultVal
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

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		// Handle time.Duration specially
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
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

	case reflect.Ptr:
		// Optional values: unset leaves the pointer nil
		elem := reflect.New(field.Type().Elem())
		if err := setField(elem.Elem(), value); err != nil {
			return err
		}
		field.Set(elem)

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

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}

	// Source validation
	if strings.TrimSpace(c.Source.Path) == "" {
		errs = append(errs, "SOURCE_PATH is required")
	}
	if c.Source.SkipRows < 0 {
		errs = append(errs, "SOURCE_SKIP_ROWS must be non-negative")
	}
	validSourceFormats := map[string]bool{"": true, "auto": true, "xlsx": true, "xls": true, "csv": true}
	if !validSourceFormats[strings.ToLower(c.Source.Format)] {
		errs = append(errs, fmt.Sprintf("SOURCE_FORMAT (%q) must be one of: auto, xlsx, xls, csv", c.Source.Format))
	}

	// Dataset validation
	if strings.TrimSpace(c.Dataset.Profile) == "" {
		errs = append(errs, "DATASET_PROFILE is required")
	}

	// Cache validation
	switch strings.ToLower(c.Cache.Driver) {
	case "sqlite":
		if c.Cache.Path == "" {
			errs = append(errs, "CACHE_PATH is required for the sqlite cache driver")
		}
	case "postgres":
		if c.Cache.URL == "" {
			errs = append(errs, "CACHE_URL (or DATABASE_URL) is required for the postgres cache driver")
		}
		if c.Cache.MaxConns <= 0 {
			errs = append(errs, "CACHE_MAX_CONNS must be positive")
		}
	case "none":
	default:
		errs = append(errs, fmt.Sprintf("CACHE_DRIVER (%q) must be one of: sqlite, postgres, none", c.Cache.Driver))
	}
	if !tableNameRegex.MatchString(c.Cache.Table) {
		errs = append(errs, fmt.Sprintf("CACHE_TABLE (%q) must be a plain identifier", c.Cache.Table))
	}
	if c.Cache.Timeout <= 0 {
		errs = append(errs, "CACHE_TIMEOUT must be positive")
	}
	if c.Cache.BatchSize <= 0 {
		errs = append(errs, "CACHE_BATCH_SIZE must be positive")
	}

	// Refresh validation
	if c.Refresh.Interval < 0 {
		errs = append(errs, "REFRESH_INTERVAL must be non-negative")
	}

	// Rate limit validation
	if c.Rate.Enabled && c.Rate.RequestsPerMinute <= 0 {
		errs = append(errs, "RATE_LIMIT_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")
	}
	if c.Rate.Enabled && c.Rate.RefreshLimit <= 0 {
		errs = append(errs, "RATE_LIMIT_REFRESH must be positive when rate limiting is enabled")
	}

	// Security validation
	if c.Security.RequireAPIKey && len(c.Security.APIKeys) == 0 {
		errs = append(errs, "REQUIRE_API_KEY is true but API_KEYS is empty; configure at least one API key or disable auth")
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a safe string representation of the config for logging.
// Sensitive values like database URLs and API keys are masked.
func (c *Config) String() string {
	pad := "profile"
	if c.Dataset.PadContinents != nil {
		pad = strconv.FormatBool(*c.Dataset.PadContinents)
	}

	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Server: {Host: %q, Port: %d}, ", c.Server.Host, c.Server.Port))
	b.WriteString(fmt.Sprintf("Source: {Path: %q, Sheet: %q, SkipRows: %d, Format: %q}, ",
		c.Source.Path, c.Source.Sheet, c.Source.SkipRows, c.Source.Format))
	b.WriteString(fmt.Sprintf("Dataset: {Profile: %q, Pad: %s, RequireSelection: %v}, ",
		c.Dataset.Profile, pad, c.Dataset.RequireSelection))
	b.WriteString(fmt.Sprintf("Cache: {Driver: %q, Path: %q, URL: [MASKED], Table: %q}, ",
		c.Cache.Driver, c.Cache.Path, c.Cache.Table))
	b.WriteString(fmt.Sprintf("Refresh: {Interval: %s}, ", c.Refresh.Interval))
	b.WriteString(fmt.Sprintf("Rate: {Enabled: %v, RequestsPerMinute: %d}, ",
		c.Rate.Enabled, c.Rate.RequestsPerMinute))
	b.WriteString(fmt.Sprintf("Security: {RequireAPIKey: %v, APIKeys: %d configured}, ",
		c.Security.RequireAPIKey, len(c.Security.APIKeys)))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}
