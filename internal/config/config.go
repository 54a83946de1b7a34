// Package config provides centralized configuration management for the
// lead-intake dashboard. It loads configuration from environment variables
// with sensible defaults and validates all settings on startup to fail fast
// on misconfiguration.
package config

import (
	"strconv"
	"time"
	_ "time/tzdata" // Location() must work in minimal containers
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server    ServerConfig
	API       APIConfig
	Database  DatabaseConfig
	Session   SessionConfig
	Dashboard DashboardConfig
	Rate      RateLimitConfig
	Security  SecurityConfig
	Logging   LoggingConfig
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

// APIConfig holds settings for the remote lead API.
type APIConfig struct {
	// BaseURL is the remote API root, e.g. https://api.example.com/api (required)
	BaseURL string `env:"API_URL" envAlt:"LEADS_API_URL" required:"true"`

	// Timeout bounds every remote call (default: 15s)
	Timeout time.Duration `env:"API_TIMEOUT" default:"15s"`
}

// DatabaseConfig holds the optional preference store settings.
// When URL is empty, preferences live in memory.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (optional)
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 10)
	MaxConns int `env:"DB_MAX_CONNS" default:"10"`

	// MinConns is the minimum number of connections to keep open (default: 1)
	MinConns int `env:"DB_MIN_CONNS" default:"1"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`

	// HistoryRetention is how long import reports are kept (default: 90 days)
	HistoryRetention time.Duration `env:"HISTORY_RETENTION" default:"2160h"`

	// HistoryPruneInterval is how often old import reports are deleted (default: 24h)
	HistoryPruneInterval time.Duration `env:"HISTORY_PRUNE_INTERVAL" default:"24h"`
}

// SessionConfig holds dashboard session settings.
type SessionConfig struct {
	// Secret signs session cookies (required, at least 32 bytes)
	Secret string `env:"SESSION_SECRET" required:"true"`

	// CookieName is the session cookie name (default: lead_session)
	CookieName string `env:"SESSION_COOKIE_NAME" default:"lead_session"`

	// BrowserCookieName scopes stored filter preferences to a browser (default: lead_browser)
	BrowserCookieName string `env:"SESSION_BROWSER_COOKIE_NAME" default:"lead_browser"`

	// TTL is how long a login stays valid (default: 24h)
	TTL time.Duration `env:"SESSION_TTL" default:"24h"`

	// Secure marks cookies Secure; disable only for local HTTP (default: true)
	Secure bool `env:"SESSION_SECURE_COOKIE" default:"true"`

	// ProtectedAdminEmail is the account that can never be deleted (default: admin@admin.com)
	ProtectedAdminEmail string `env:"PROTECTED_ADMIN_EMAIL" default:"admin@admin.com"`
}

// DashboardConfig holds view-model behaviour settings.
type DashboardConfig struct {
	// RefreshInterval is how often cached records are re-fetched (default: 5s)
	RefreshInterval time.Duration `env:"DASHBOARD_REFRESH_INTERVAL" default:"5s"`

	// IdleTimeout stops a view's refresher after this much inactivity (default: 10m)
	IdleTimeout time.Duration `env:"DASHBOARD_IDLE_TIMEOUT" default:"10m"`

	// BannerTTL is how long a status banner stays visible (default: 3s)
	BannerTTL time.Duration `env:"DASHBOARD_BANNER_TTL" default:"3s"`

	// ImportTimeout bounds one bulk import (default: 45s). The redirect is
	// written on the same request, so ImportTimeout plus ImportMaxWait must
	// fit within SERVER_WRITE_TIMEOUT and SERVER_REQUEST_TIMEOUT.
	ImportTimeout time.Duration `env:"DASHBOARD_IMPORT_TIMEOUT" default:"45s"`

	// MaxImports caps concurrent bulk imports across all admins (default: 2)
	MaxImports int `env:"DASHBOARD_MAX_IMPORTS" default:"2"`

	// ImportMaxWait is how long an import waits for a free slot (default: 10s)
	ImportMaxWait time.Duration `env:"DASHBOARD_IMPORT_MAX_WAIT" default:"10s"`

	// MaxImportBytes caps pasted import text (default: 1MB)
	MaxImportBytes int64 `env:"DASHBOARD_MAX_IMPORT_BYTES" default:"1048576"`

	// Timezone renders timestamps and resolves the date filter (default: America/Sao_Paulo)
	Timezone string `env:"DASHBOARD_TIMEZONE" default:"America/Sao_Paulo"`

	// PublicURL is the public form origin used in referral links; empty
	// derives it from the request
	PublicURL string `env:"PUBLIC_URL"`

	// SupportURL is the contact link shown on rate-limit errors
	SupportURL string `env:"SUPPORT_URL" default:"http://wa.me/+556899202093"`

	// GroupURL is the community link shown after a successful submission
	GroupURL string `env:"GROUP_URL" default:"https://chat.whatsapp.com/FjtGTxiOb1kHBfBXzQadqc"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 120)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`

	// SubmitLimit is requests per minute for the public submission endpoint (default: 10)
	SubmitLimit int `env:"RATE_LIMIT_SUBMIT" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`

	// GelfAddr optionally mirrors logs to a GELF UDP endpoint (host:port)
	GelfAddr string `env:"LOG_GELF_ADDR"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// Location loads the dashboard timezone, falling back to UTC.
func (c *DashboardConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
