package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"cutoffrank/internal/errors"
)

// DefaultDatasetURL is the KCET cutoff workbook the tool was built around
const DefaultDatasetURL = "https://raw.githubusercontent.com/mithrangowda07/College-Predictor/main/cet_colg_data1.xlsx"

// DefaultIdentifyingColumns are the columns that describe a row rather than
// hold a category cutoff
var DefaultIdentifyingColumns = []string{"College Code", "College Name", "Branch", "Branch Code", "Place"}

// Config represents the complete application configuration
type Config struct {
	Dataset DatasetConfig
	Server  ServerConfig
	Session SessionConfig
	Log     LogConfig
}

// DatasetConfig holds dataset source settings
type DatasetConfig struct {
	URL                string
	Sheet              string
	FetchTimeout       time.Duration
	IdentifyingColumns []string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// SessionConfig holds selection session lifecycle settings
type SessionConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Dataset: *loadDatasetConfig(),
		Server:  *loadServerConfig(),
		Session: *loadSessionConfig(),
		Log:     LogConfig{Level: getEnvOrDefault("LOG_LEVEL", "INFO")},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDatasetConfig() *DatasetConfig {
	return &DatasetConfig{
		URL:                strings.TrimSpace(getEnvOrDefault("DATASET_URL", DefaultDatasetURL)),
		Sheet:              getEnvOrDefault("DATASET_SHEET", ""),
		FetchTimeout:       getEnvDurationOrDefault("DATASET_FETCH_TIMEOUT", 30*time.Second),
		IdentifyingColumns: getEnvListOrDefault("IDENTIFYING_COLUMNS", DefaultIdentifyingColumns),
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadSessionConfig() *SessionConfig {
	return &SessionConfig{
		TTL:           getEnvDurationOrDefault("SESSION_TTL", 2*time.Hour),
		SweepInterval: getEnvDurationOrDefault("SESSION_SWEEP_INTERVAL", 10*time.Minute),
	}
}

func validateConfig(config *Config) error {
	if config.Dataset.URL == "" {
		return errors.ConfigInvalid("dataset URL is required")
	}
	if config.Dataset.FetchTimeout <= 0 {
		return errors.ConfigInvalid("dataset fetch timeout must be positive")
	}
	if len(config.Dataset.IdentifyingColumns) == 0 {
		return errors.ConfigInvalid("at least one identifying column is required")
	}
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid("PORT must be numeric")
	}
	if config.Session.TTL <= 0 || config.Session.SweepInterval <= 0 {
		return errors.ConfigInvalid("session TTL and sweep interval must be positive")
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

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvListOrDefault splits a comma-separated value, dropping blank items
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return append([]string(nil), defaultValue...)
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
