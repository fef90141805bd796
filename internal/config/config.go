// Package config holds process configuration: the RPC listen address,
// the directory declarative bus/sensor TOML files live in, CORS
// origins, and logging verbosity.
package config

import (
	"fmt"
	"path/filepath"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Logging LoggingConfig
}

// ServerConfig configures the RPC listener.
type ServerConfig struct {
	Host        string
	Port        int
	CORSOrigins []string
	ConfigPath  string // directory containing buses.toml and sensors.toml
}

// LoggingConfig configures the shared loggers.
type LoggingConfig struct {
	Level string // "debug", "info", "warn", "error"
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "127.0.0.1",
			Port:        50051,
			CORSOrigins: []string{"*"},
			ConfigPath:  "./config",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// BusesPath returns the path to the bus declaration file.
func (c *Config) BusesPath() string { return filepath.Join(c.Server.ConfigPath, "buses.toml") }

// SensorsPath returns the path to the sensor declaration file.
func (c *Config) SensorsPath() string { return filepath.Join(c.Server.ConfigPath, "sensors.toml") }

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	return nil
}

// ServerAddr returns the server address as host:port
func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
