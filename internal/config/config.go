package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variable names recognized by the loader.
const (
	EnvConfigPath   = "CONFIG_PATH"
	EnvDBConnection = "DB_CONNECTION"
	EnvPort         = "PORT"
)

// AppConfig holds resolved application configuration values.
type AppConfig struct {
	ConfigPath string
}

// LoadFromEnv loads app config from environment variables.
func LoadFromEnv() (AppConfig, error) {
	return AppConfig{ConfigPath: ResolveConfigPath(os.Getenv(EnvConfigPath))}, nil
}

// ResolveConfigPath normalizes the config path and applies defaults.
func ResolveConfigPath(p string) string {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		trimmed = "./config.yaml"
	}
	if abs, err := filepath.Abs(trimmed); err == nil {
		return abs
	}
	return trimmed
}

// ErrMissingDatabaseDSN indicates no database DSN is present in the config file.
var ErrMissingDatabaseDSN = errors.New("missing database dsn (set `database-dsn` or `database.dsn` in config file)")

// LoadDatabaseDSN reads the database DSN from the YAML config file. The
// DB_CONNECTION environment variable takes precedence over the file.
func LoadDatabaseDSN(configPath string) (string, error) {
	if dsn := strings.TrimSpace(os.Getenv(EnvDBConnection)); dsn != "" {
		return dsn, nil
	}

	// fileConfig maps the YAML fields needed for DSN resolution.
	type fileConfig struct {
		DatabaseDSN string `yaml:"database-dsn"`
		Database    struct {
			DSN string `yaml:"dsn"`
		} `yaml:"database"`
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return "", fmt.Errorf("read config file: %w", err)
	}

	var cfg fileConfig
	if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
		return "", fmt.Errorf("parse config file: %w", errUnmarshal)
	}

	if dsn := strings.TrimSpace(cfg.DatabaseDSN); dsn != "" {
		return dsn, nil
	}
	if dsn := strings.TrimSpace(cfg.Database.DSN); dsn != "" {
		return dsn, nil
	}
	return "", ErrMissingDatabaseDSN
}

// ServerConfig holds HTTP server and business-rule settings.
type ServerConfig struct {
	Host              string `yaml:"host"`                // Listen host.
	Port              int    `yaml:"port"`                // Listen port.
	Debug             bool   `yaml:"debug"`               // Gin debug mode.
	EnforceSinglePlan bool   `yaml:"enforce-single-plan"` // Legacy one-plan-per-product rule.
}

// LoadServerConfig loads server settings from the YAML config file. A
// missing file yields defaults; the PORT environment variable overrides
// the file value.
func LoadServerConfig(configPath string, defaultPort int) (ServerConfig, error) {
	result := ServerConfig{Port: defaultPort}

	data, errRead := os.ReadFile(configPath)
	if errRead == nil {
		if errUnmarshal := yaml.Unmarshal(data, &result); errUnmarshal != nil {
			return ServerConfig{}, fmt.Errorf("parse config file: %w", errUnmarshal)
		}
		if result.Port <= 0 {
			result.Port = defaultPort
		}
	}

	if portEnv := strings.TrimSpace(os.Getenv(EnvPort)); portEnv != "" {
		if port, errParse := strconv.Atoi(portEnv); errParse == nil && port > 0 && port <= 65535 {
			result.Port = port
		}
	}
	return result, nil
}
