package config

import (
	"log"
	"os"
	"strconv"
)

// Load loads configuration from environment variables.
// Falls back to defaults for any missing values.
func Load() *Config {
	cfg := Default()

	if port := os.Getenv("GRPC_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}

	if host := os.Getenv("GRPC_HOST"); host != "" {
		cfg.Server.Host = host
	}

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		cfg.Server.ConfigPath = configPath
	}

	if logLevel := os.Getenv("SENSORHUB_LOG_LEVEL"); logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	return cfg
}
