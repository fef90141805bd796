package server

import (
	"sync"

	"github.com/navigate/sensorhubd/internal/config"
	"github.com/navigate/sensorhubd/internal/hub"
	"github.com/navigate/sensorhubd/internal/logging"
	"github.com/navigate/sensorhubd/internal/registry"
)

// Dependencies holds the shared state RPC handlers are built against.
type Dependencies struct {
	Config   *config.Config
	Hub      *hub.Hub
	Registry *registry.Registry

	mu     sync.RWMutex
	logger *logging.Logger
}

// NewDependencies wraps an already-built registry and hub. Composing
// those — opening buses, probing for a flight controller — is
// cmd/sensorhubd/main.go's job, not this package's. The logger defaults
// to info level; cmd/sensorhubd/main.go calls SetLogger with one built
// from the configured SENSORHUB_LOG_LEVEL.
func NewDependencies(cfg *config.Config, reg *registry.Registry, h *hub.Hub) *Dependencies {
	logger := logging.New("[sensorhubd] ", logging.LevelInfo)
	return &Dependencies{
		Config:   cfg,
		Hub:      h,
		Registry: reg,
		logger:   logger,
	}
}

// SetLogger allows updating the logger (useful for testing).
func (d *Dependencies) SetLogger(logger *logging.Logger) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.logger = logger
}

// GetLogger returns the logger (thread-safe).
func (d *Dependencies) GetLogger() *logging.Logger {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.logger
}
