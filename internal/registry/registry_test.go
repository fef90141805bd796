package registry

import (
	"io"
	"testing"

	"github.com/navigate/sensorhubd/internal/config"
	"github.com/navigate/sensorhubd/internal/logging"
)

// discardLogger avoids noisy test output; registry.Build logs tolerated
// failures liberally by design.
func discardLogger() *logging.Logger {
	return logging.NewWithWriter(io.Discard, "", logging.LevelDebug)
}

func TestBuildToleratesUnopenableRegisterBus(t *testing.T) {
	buses := &config.BusFile{Buses: []config.BusEntry{
		{ID: "i2c0", Type: "i2c", Path: "/dev/i2c-99"},
	}}
	freq := 100
	sensors := &config.SensorFile{Sensors: []config.SensorEntry{
		{ID: "imu0", Driver: "lsm6dsl", Bus: "i2c0", Address: 0x6A, Frequency: &freq},
	}}

	reg, err := Build(buses, sensors, discardLogger())
	if err != nil {
		t.Fatalf("Build() = %v, want nil (platform failures are tolerated)", err)
	}
	if len(reg.Sensors) != 0 {
		t.Fatalf("expected no sensors constructed against an unopenable bus, got %d", len(reg.Sensors))
	}
}

func TestBuildSkipsSensorWithUnknownDriver(t *testing.T) {
	buses := &config.BusFile{}
	sensors := &config.SensorFile{Sensors: []config.SensorEntry{
		{ID: "weird0", Driver: "not_a_real_driver", Bus: "i2c0", Address: 0x10},
	}}

	reg, err := Build(buses, sensors, discardLogger())
	if err != nil {
		t.Fatalf("Build() = %v, want nil", err)
	}
	if len(reg.Sensors) != 0 {
		t.Fatalf("expected unknown-driver sensor to be skipped, got %d sensors", len(reg.Sensors))
	}
}

func TestBuildSkipsSensorWithMissingBus(t *testing.T) {
	buses := &config.BusFile{}
	sensors := &config.SensorFile{Sensors: []config.SensorEntry{
		{ID: "imu0", Driver: "lsm6dsl", Bus: "does_not_exist", Address: 0x6A},
	}}

	reg, err := Build(buses, sensors, discardLogger())
	if err != nil {
		t.Fatalf("Build() = %v, want nil", err)
	}
	if len(reg.Sensors) != 0 {
		t.Fatalf("expected missing-bus sensor to be skipped, got %d sensors", len(reg.Sensors))
	}
}

func TestBuildSkipsUnknownBusType(t *testing.T) {
	buses := &config.BusFile{Buses: []config.BusEntry{
		{ID: "weird0", Type: "spi", Path: "/dev/spi0"},
	}}
	reg, err := Build(buses, &config.SensorFile{}, discardLogger())
	if err != nil {
		t.Fatalf("Build() = %v, want nil", err)
	}
	if len(reg.Sensors) != 0 {
		t.Fatalf("expected no sensors, got %d", len(reg.Sensors))
	}
}
