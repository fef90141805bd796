// Command sensorhubd composes configured buses and sensors, runs the
// polling/push scheduler, and serves the five-operation streaming RPC
// surface over the publication hub.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/navigate/sensorhubd/internal/config"
	"github.com/navigate/sensorhubd/internal/hub"
	"github.com/navigate/sensorhubd/internal/logging"
	"github.com/navigate/sensorhubd/internal/registry"
	"github.com/navigate/sensorhubd/internal/rpc"
	"github.com/navigate/sensorhubd/internal/scheduler"
	"github.com/navigate/sensorhubd/internal/server"
)

func main() {
	cfg := config.Load()

	// config.Validate already rejected an unparseable level during Load.
	level, _ := logging.ParseLevel(cfg.Logging.Level)
	logger := logging.New("[sensorhubd] ", level)

	busFile, err := config.LoadBuses(cfg.BusesPath())
	if err != nil {
		log.Fatalf("load bus config: %v", err)
	}
	sensorFile, err := config.LoadSensors(cfg.SensorsPath())
	if err != nil {
		log.Fatalf("load sensor config: %v", err)
	}

	reg, err := registry.Build(busFile, sensorFile, logger)
	if err != nil {
		log.Fatalf("build registry: %v", err)
	}

	h := hub.New()
	scheduler.Start(reg.Sensors, h, logger)

	deps := server.NewDependencies(cfg, reg, h)
	deps.SetLogger(logger)
	srv := server.New(cfg, deps)

	svc := rpc.NewService(h, logger)
	rpc.Register(srv, svc)

	go handleShutdown(reg, logger)

	if err := srv.Start(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// handleShutdown drains the registry's owned MAVLink connections on
// SIGINT/SIGTERM before exiting. Scheduler tasks have no cooperative
// cancellation (spec.md's explicit design choice) and simply stop when
// the process does.
func handleShutdown(reg *registry.Registry, logger *logging.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	logger.Infof("shutting down: closing MAVLink connections")
	reg.Close()
	os.Exit(0)
}
