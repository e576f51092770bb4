// Package config centralizes application configuration. Settings come
// from environment variables (optionally via a .env file loaded in
// main), with defaults applied and everything validated at startup so a
// misconfigured process fails fast.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Upload     UploadConfig
	Session    SessionConfig
	Databricks DatabricksConfig
	Rate       RateLimitConfig
	Security   SecurityConfig
	Logging    LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" envAlt:"HOST" default:"0.0.0.0"`

	// Port is the port to listen on. The bare PORT variable is honored
	// for platform deployments that inject it (default: 8080)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading a request body (default: 30s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"30s"`

	// WriteTimeout is the maximum duration for writing a response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum wait for graceful shutdown (default: 15s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"15s"`

	// RequestTimeout is the middleware timeout per request (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// UploadConfig holds CSV upload settings.
type UploadConfig struct {
	// MaxFileSize is the maximum allowed file size in bytes (default: 100MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"104857600"`
}

// SessionConfig holds editing-session lifecycle settings.
type SessionConfig struct {
	// TTL is how long an idle session is kept before being discarded (default: 2h)
	TTL time.Duration `env:"SESSION_TTL" default:"2h"`
}

// DatabricksConfig holds warehouse connection settings. All fields may
// be left empty when the hosting runtime supplies credentials;
// authentication is attempted lazily on first warehouse use, so the app
// starts and serves the editor even without a reachable warehouse.
type DatabricksConfig struct {
	// Host is the workspace URL, e.g. https://myworkspace.cloud.databricks.com
	Host string `env:"DATABRICKS_HOST"`

	// Token is a personal access token
	Token string `env:"DATABRICKS_TOKEN"`

	// OAuthToken takes precedence over Token when both are set
	OAuthToken string `env:"DATABRICKS_OAUTH_TOKEN"`

	// HTTPPath is the SQL warehouse HTTP path; the warehouse ID is its
	// last segment
	HTTPPath string `env:"DATABRICKS_HTTP_PATH"`

	// DefaultCatalog pre-fills the catalog input (default: main)
	DefaultCatalog string `env:"DEFAULT_CATALOG" default:"main"`

	// DefaultSchema pre-fills the schema input (default: default)
	DefaultSchema string `env:"DEFAULT_SCHEMA" default:"default"`

	// DefaultVolume pre-fills the volume input (default: csv_uploads)
	DefaultVolume string `env:"DEFAULT_VOLUME" default:"csv_uploads"`
}

// EffectiveToken returns the token to authenticate with, preferring the
// OAuth token over the personal access token.
func (c *DatabricksConfig) EffectiveToken() string {
	if c.OAuthToken != "" {
		return c.OAuthToken
	}
	return c.Token
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the per-IP request budget (default: 120)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of proxy CIDRs whose
	// forwarding headers may be trusted for client IP resolution
	TrustedProxies []string `env:"TRUSTED_PROXIES"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Validate checks the configuration for consistency, collecting every
// failure so operators see the full list at once.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be between 1 and 65535", c.Server.Port))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
	if c.Upload.MaxFileSize <= 0 {
		errs = append(errs, "UPLOAD_MAX_FILE_SIZE must be positive")
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, "SESSION_TTL must be positive")
	}
	if c.Rate.Enabled && c.Rate.RequestsPerMinute <= 0 {
		errs = append(errs, "RATE_LIMIT_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")
	}
	if c.Databricks.Host != "" && !strings.HasPrefix(c.Databricks.Host, "https://") {
		errs = append(errs, fmt.Sprintf("DATABRICKS_HOST (%q) must be an https:// URL", c.Databricks.Host))
	}

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

// String returns a log-safe representation with credentials masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Server: {Addr: %q}, ", c.Server.Addr()))
	b.WriteString(fmt.Sprintf("Upload: {MaxFileSize: %d}, ", c.Upload.MaxFileSize))
	b.WriteString(fmt.Sprintf("Session: {TTL: %s}, ", c.Session.TTL))
	b.WriteString(fmt.Sprintf("Databricks: {Host: %q, Token: [MASKED], HTTPPath: %q, Catalog: %q, Schema: %q, Volume: %q}, ",
		c.Databricks.Host, c.Databricks.HTTPPath,
		c.Databricks.DefaultCatalog, c.Databricks.DefaultSchema, c.Databricks.DefaultVolume))
	b.WriteString(fmt.Sprintf("Rate: {Enabled: %v, RequestsPerMinute: %d}, ", c.Rate.Enabled, c.Rate.RequestsPerMinute))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}", c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}
