// Package config loads server configuration from defaults, an optional
// YAML file and the environment, in that order of precedence.
package config

import (
	"time"
)

// Config is the complete server configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Auth     AuthConfig     `koanf:"auth"`
	Media    MediaConfig    `koanf:"media"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port         int           `koanf:"port"`
	Environment  string        `koanf:"environment"` // "development" or "production"
	BaseURL      string        `koanf:"base_url"`    // public site origin, used by the sitemap
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

// IsProduction reports whether the server runs in production mode.
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// DatabaseConfig holds SQLite settings
type DatabaseConfig struct {
	Path           string `koanf:"path"`
	SeedCategories bool   `koanf:"seed_categories"`
}

// AuthConfig holds admin authentication settings
type AuthConfig struct {
	// AdminPassword may be plain text or a bcrypt hash.
	AdminPassword      string        `koanf:"admin_password"`
	SessionSecret      string        `koanf:"session_secret"`
	SessionTTL         time.Duration `koanf:"session_ttl"`
	CookieName         string        `koanf:"cookie_name"`
	LoginRatePerMinute int           `koanf:"login_rate_per_minute"`
	LoginBurst         int           `koanf:"login_burst"`
}

// MediaConfig selects and configures the image store
type MediaConfig struct {
	Backend        string   `koanf:"backend"` // "local" or "s3"
	LocalDir       string   `koanf:"local_dir"`
	PublicURL      string   `koanf:"public_url"`
	MaxUploadBytes int64    `koanf:"max_upload_bytes"`
	S3             S3Config `koanf:"s3"`
}

// S3Config holds settings for an S3-compatible bucket
type S3Config struct {
	Endpoint  string `koanf:"endpoint"`
	Bucket    string `koanf:"bucket"`
	Region    string `koanf:"region"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	UseSSL    bool   `koanf:"use_ssl"`
	PublicURL string `koanf:"public_url"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // "json" or "console"
}
