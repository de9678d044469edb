package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"serviceboard/internal/errors"
)

// Database drivers the report archive can use.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DefaultUploadMaxBytes is the upload ceiling, 25 MiB.
const DefaultUploadMaxBytes = 25 * 1024 * 1024

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Log      LogConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port           string
	GinMode        string
	StaticDir      string
	UploadMaxBytes int64
}

// StorageConfig holds file system paths
type StorageConfig struct {
	// Dir holds latest.xlsx, latest.json and archived uploads.
	Dir string
	// SeedDir is scanned for a workbook when Dir has none.
	SeedDir string
	// InboxDir is watched for dropped workbooks; empty disables the watcher.
	InboxDir string
}

// DatabaseConfig holds the report archive connection. An empty URL disables
// the archive.
type DatabaseConfig struct {
	Driver string
	URL    string
}

// Enabled reports whether an archive database is configured.
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:   *loadServerConfig(),
		Storage:  *loadStorageConfig(),
		Database: *loadDatabaseConfig(),
		Log:      *loadLogConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:           getEnvOrDefault("PORT", "5179"),
		GinMode:        getEnvOrDefault("GIN_MODE", "release"),
		StaticDir:      getEnvOrDefault("STATIC_DIR", "client/dist"),
		UploadMaxBytes: getEnvInt64OrDefault("UPLOAD_MAX_BYTES", DefaultUploadMaxBytes),
	}
}

func loadStorageConfig() *StorageConfig {
	return &StorageConfig{
		Dir:      getEnvOrDefault("STORAGE_DIR", "storage"),
		SeedDir:  getEnvOrDefault("SEED_DIR", "."),
		InboxDir: getEnvOrDefault("INBOX_DIR", ""),
	}
}

func loadDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Driver: strings.ToLower(getEnvOrDefault("DATABASE_DRIVER", DriverSQLite)),
		URL:    getEnvOrDefault("DATABASE_URL", ""),
	}
}

func loadLogConfig() *LogConfig {
	return &LogConfig{
		Level:  strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
		Format: strings.ToLower(getEnvOrDefault("LOG_FORMAT", "json")),
	}
}

func validateConfig(config *Config) error {
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid(fmt.Sprintf("PORT must be numeric, got %q", config.Server.Port))
	}
	if config.Server.UploadMaxBytes <= 0 {
		return errors.ConfigInvalid("UPLOAD_MAX_BYTES must be positive")
	}
	if config.Storage.Dir == "" {
		return errors.ConfigInvalid("storage directory is required")
	}
	switch config.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return errors.ConfigInvalid(fmt.Sprintf("unsupported DATABASE_DRIVER %q", config.Database.Driver))
	}
	switch config.Log.Format {
	case "json", "console":
	default:
		return errors.ConfigInvalid(fmt.Sprintf("unsupported LOG_FORMAT %q", config.Log.Format))
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
