package config

import (
	"os"
	"strconv"

	"scrub/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// StorageConfig holds upload and export settings
type StorageConfig struct {
	OutputDir   string // directory for exported cleaned datasets
	MaxUploadMB int64  // maximum upload size in megabytes
	MaxParsers  int64  // concurrent upload parses allowed in the UI layer
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SCRUB_PORT", "8080"),
		},
		Storage: StorageConfig{
			OutputDir:   getEnv("SCRUB_OUTPUT_DIR", "outputs"),
			MaxUploadMB: getEnvInt("SCRUB_MAX_UPLOAD_MB", 50),
			MaxParsers:  getEnvInt("SCRUB_MAX_PARSERS", 4),
		},
	}

	if err := validate(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validate(c *Config) error {
	if c.Server.Port == "" {
		return errors.ConfigInvalid("SCRUB_PORT must not be empty")
	}
	if c.Storage.MaxUploadMB <= 0 {
		return errors.ConfigInvalid("SCRUB_MAX_UPLOAD_MB must be positive")
	}
	if c.Storage.MaxParsers <= 0 {
		return errors.ConfigInvalid("SCRUB_MAX_PARSERS must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
