// Package drivers implements the register-based and push-based sensor
// chip drivers the registry composes against configured buses.
package drivers

import (
	"github.com/navigate/sensorhubd/internal/busio"
	"github.com/navigate/sensorhubd/internal/model"
)

// Driver is the capability set every sensor chip implementation
// satisfies, whether it is polled over a register bus or pushed to from
// a MAVLink connection.
type Driver interface {
	// Init prepares the device for reading: verifies chip identity where
	// applicable, loads calibration, and writes configuration registers.
	// Push-based drivers are already subscribed and buffering from
	// construction, so their Init does nothing.
	Init(bus busio.RegisterBus) error

	// Read returns one sample. Polled drivers perform a transaction on
	// bus; push-based drivers ignore bus and return their most recently
	// buffered frame.
	Read(bus busio.RegisterBus) (model.SensorDataFrame, error)

	// ID returns the sensor's configured identifier.
	ID() string

	// Bus returns the name of the bus this sensor was configured against.
	Bus() string
}

// Constructor builds a Driver instance for one configured sensor.
type Constructor func(id string, address byte, busID string) Driver

// registry maps a configuration-file driver name to its constructor. Only
// the register-bus drivers are listed here — the sensor registry skips
// configured mavlink_* entries and instead creates MAVLink-sourced
// sensors from each connection's detected kinds, since those need a live
// mavlink.Connection rather than only id/address/bus to construct.
var registry = map[string]Constructor{
	"lsm6dsl":   func(id string, addr byte, bus string) Driver { return NewLSM6DSL(id, addr, bus) },
	"lis3mdl":   func(id string, addr byte, bus string) Driver { return NewLIS3MDL(id, addr, bus) },
	"bmp388":    func(id string, addr byte, bus string) Driver { return NewBMP388(id, addr, bus) },
	"icm42688p": func(id string, addr byte, bus string) Driver { return NewICM42688P(id, addr, bus) },
}

// Lookup resolves a configuration driver name to its constructor.
func Lookup(name string) (Constructor, bool) {
	ctor, ok := registry[name]
	return ctor, ok
}

// IsMavlinkDriver reports whether name names a push-based MAVLink driver
// rather than a register-bus one.
func IsMavlinkDriver(name string) bool {
	return len(name) >= len("mavlink_") && name[:len("mavlink_")] == "mavlink_"
}
