package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateAuth(); err != nil {
		return err
	}
	if err := c.validateMedia(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	switch c.Server.Environment {
	case "development", "production", "test":
	default:
		return fmt.Errorf("server.environment must be development, production or test, got %q", c.Server.Environment)
	}
	if c.Server.BaseURL != "" {
		u, err := url.Parse(c.Server.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("server.base_url must be an absolute http(s) URL, got %q", c.Server.BaseURL)
		}
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	return nil
}

func (c *Config) validateAuth() error {
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("auth.session_ttl must be positive")
	}
	if c.Auth.CookieName == "" {
		return fmt.Errorf("auth.cookie_name is required")
	}
	if c.Auth.LoginRatePerMinute <= 0 || c.Auth.LoginBurst <= 0 {
		return fmt.Errorf("auth.login_rate_per_minute and auth.login_burst must be positive")
	}
	return nil
}

func (c *Config) validateMedia() error {
	if c.Media.MaxUploadBytes <= 0 {
		return fmt.Errorf("media.max_upload_bytes must be positive")
	}
	switch strings.ToLower(c.Media.Backend) {
	case "local":
		if c.Media.LocalDir == "" {
			return fmt.Errorf("media.local_dir is required for the local backend")
		}
	case "s3":
		if c.Media.S3.Endpoint == "" || c.Media.S3.Bucket == "" {
			return fmt.Errorf("media.s3.endpoint and media.s3.bucket are required for the s3 backend")
		}
	default:
		return fmt.Errorf("media.backend must be local or s3, got %q", c.Media.Backend)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// Warnings lists settings that are valid but probably not intended.
func (c *Config) Warnings() []string {
	var warnings []string
	if c.Auth.AdminPassword == "" {
		warnings = append(warnings, "auth.admin_password is empty; admin login is disabled")
	}
	if c.Auth.SessionSecret == "" {
		warnings = append(warnings, "auth.session_secret is empty; using a random secret, sessions will not survive a restart")
	}
	if c.Server.IsProduction() && strings.HasPrefix(c.Server.BaseURL, "http://localhost") {
		warnings = append(warnings, "server.base_url still points at localhost in production")
	}
	return warnings
}
