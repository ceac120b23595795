package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, first
// match wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/luvwhisky/config.yaml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// EnvPrefix is the prefix of the structured environment variables.
const EnvPrefix = "LUVWHISKY_"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         3000,
			Environment:  "development",
			BaseURL:      "http://localhost:3000",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		Database: DatabaseConfig{
			Path:           "luvwhisky.db",
			SeedCategories: true,
		},
		Auth: AuthConfig{
			SessionTTL:         7 * 24 * time.Hour,
			CookieName:         "admin-session",
			LoginRatePerMinute: 5,
			LoginBurst:         5,
		},
		Media: MediaConfig{
			Backend:        "local",
			LocalDir:       "uploads",
			MaxUploadBytes: 10 << 20,
			S3: S3Config{
				Region: "us-east-1",
				UseSSL: true,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// legacyEnv maps the unprefixed variable names older deployments use.
var legacyEnv = map[string]string{
	"admin_password": "auth.admin_password",
	"session_secret": "auth.session_secret",
	"port":           "server.port",
	"database_path":  "database.path",
	"base_url":       "server.base_url",
	"log_level":      "logging.level",
	"log_format":     "logging.format",
}

// prefixedEnv maps LUVWHISKY_* names (prefix stripped, lowercased) to keys.
// Listed explicitly since several keys contain underscores.
var prefixedEnv = map[string]string{
	"server_port":                "server.port",
	"server_environment":         "server.environment",
	"server_base_url":            "server.base_url",
	"server_read_timeout":        "server.read_timeout",
	"server_write_timeout":       "server.write_timeout",
	"database_path":              "database.path",
	"database_seed_categories":   "database.seed_categories",
	"auth_admin_password":        "auth.admin_password",
	"auth_session_secret":        "auth.session_secret",
	"auth_session_ttl":           "auth.session_ttl",
	"auth_cookie_name":           "auth.cookie_name",
	"auth_login_rate_per_minute": "auth.login_rate_per_minute",
	"auth_login_burst":           "auth.login_burst",
	"media_backend":              "media.backend",
	"media_local_dir":            "media.local_dir",
	"media_public_url":           "media.public_url",
	"media_max_upload_bytes":     "media.max_upload_bytes",
	"media_s3_endpoint":          "media.s3.endpoint",
	"media_s3_bucket":            "media.s3.bucket",
	"media_s3_region":            "media.s3.region",
	"media_s3_access_key":        "media.s3.access_key",
	"media_s3_secret_key":        "media.s3.secret_key",
	"media_s3_use_ssl":           "media.s3.use_ssl",
	"media_s3_public_url":        "media.s3.public_url",
	"logging_level":              "logging.level",
	"logging_format":             "logging.format",
}

func legacyTransform(key string) string {
	return legacyEnv[strings.ToLower(key)]
}

func prefixedTransform(key string) string {
	return prefixedEnv[strings.ToLower(strings.TrimPrefix(key, EnvPrefix))]
}

// Load builds the configuration: defaults, then the config file if one is
// found, then legacy environment names, then LUVWHISKY_* variables.
func Load() (*Config, error) {
	return LoadFile(findConfigFile())
}

// LoadFile is Load with an explicit config file path. An empty path skips
// the file layer.
func LoadFile(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", legacyTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", prefixedTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}
