// Package registry composes buses and drivers from declarative
// configuration into the running sensor set, per spec.md §4.4. Grounded
// on original_source/src/registry.rs's init_all, generalized from its
// single-driver prototype to the full driver table plus MAVLink
// auto-discovery.
package registry

import (
	"time"

	"github.com/navigate/sensorhubd/internal/busio"
	"github.com/navigate/sensorhubd/internal/config"
	"github.com/navigate/sensorhubd/internal/drivers"
	"github.com/navigate/sensorhubd/internal/logging"
	"github.com/navigate/sensorhubd/internal/mavlink"
	"github.com/navigate/sensorhubd/internal/scheduler"
)

// mavlinkDetectionGrace is how long the registry waits after opening a
// MAVLink connection before reading its detected-kind set, per
// spec.md §4.4.
const mavlinkDetectionGrace = 500 * time.Millisecond

// kindSensorID maps a detected MAVLink sensor kind to the fixed sensor
// id it is auto-created under, per spec.md §4.4's deterministic table.
var kindSensorID = map[mavlink.SensorKind]string{
	mavlink.KindImu0:       "fc_imu0",
	mavlink.KindImu1:       "fc_imu1",
	mavlink.KindImu2:       "fc_imu2",
	mavlink.KindHighresImu: "fc_imu_highres",
	mavlink.KindBarometer:  "fc_baro0",
	mavlink.KindAttitude:   "fc_attitude",
}

// Registry owns every opened bus and constructed sensor for the process
// lifetime and hands the scheduler a ready-to-run sensor list.
type Registry struct {
	Sensors []scheduler.Sensor

	buses       map[string]*busio.GuardedBus
	connections []*mavlink.Connection
	logger      *logging.Logger
}

// Build opens every configured bus, constructs every configured sensor,
// and auto-creates MAVLink-sourced sensors for whatever kinds each
// serial connection detects during its grace period.
func Build(busFile *config.BusFile, sensorFile *config.SensorFile, logger *logging.Logger) (*Registry, error) {
	r := &Registry{
		buses:  make(map[string]*busio.GuardedBus),
		logger: logger,
	}

	mavlinkConns := make(map[string]*mavlink.Connection)

	for _, b := range busFile.Buses {
		switch b.Type {
		case "i2c":
			bus, err := busio.OpenRegisterBus(b.Path)
			if err != nil {
				logger.Warnf("registry: register-bus %q unavailable: %s", b.ID, err)
				continue
			}
			r.buses[b.ID] = busio.NewGuardedBus(bus)

		case "serial":
			conn, path, err := openSerial(b.Path, logger)
			if err != nil {
				logger.Warnf("registry: serial-bus %q unavailable: %s", b.ID, err)
				continue
			}
			logger.Infof("registry: serial-bus %q opened on %s", b.ID, path)
			mavlinkConns[b.ID] = conn
			r.connections = append(r.connections, conn)

		default:
			logger.Warnf("registry: bus %q has unknown type %q, skipping", b.ID, b.Type)
		}
	}

	for _, s := range sensorFile.Sensors {
		if drivers.IsMavlinkDriver(s.Driver) {
			// Auto-created from the detected-kind sweep below, not from
			// this declarative table.
			continue
		}

		ctor, ok := drivers.Lookup(s.Driver)
		if !ok {
			logger.Warnf("registry: %s", &UnknownDriverError{Sensor: s.ID, Driver: s.Driver})
			continue
		}
		guarded, ok := r.buses[s.Bus]
		if !ok {
			// The bus may simply have failed to open on this platform
			// (tolerated above); this sensor does not initialize.
			logger.Warnf("registry: %s", &BusNotFoundError{Sensor: s.ID, Bus: s.Bus})
			continue
		}

		driver := ctor(s.ID, s.Address, s.Bus)
		guarded.Lock()
		err := driver.Init(guarded.Bus)
		guarded.Unlock()
		if err != nil {
			logger.Warnf("registry: sensor %q init failed: %s", s.ID, err)
			continue
		}

		r.Sensors = append(r.Sensors, scheduler.Sensor{
			ID: s.ID, Driver: driver, Bus: guarded, FrequencyHz: frequencyOf(s.Frequency),
		})
	}

	for busID, conn := range mavlinkConns {
		time.Sleep(mavlinkDetectionGrace)
		for _, kind := range conn.DetectedKinds() {
			id, ok := kindSensorID[kind]
			if !ok {
				continue
			}
			sensor := drivers.NewMavlinkSensor(id, busID, kind, conn)
			r.Sensors = append(r.Sensors, scheduler.Sensor{ID: id, Driver: sensor})
		}
	}

	return r, nil
}

// openSerial opens a MAVLink connection on path, resolving the
// AutoDetectPath sentinel via parallel probing instead of a fixed
// device. For a fixed path, a busio.SerialBus is opened first to
// confirm the port exists and retain its path/baud for logs, then
// closed before gomavlib.EndpointSerial dials the same path
// exclusively.
func openSerial(path string, logger *logging.Logger) (*mavlink.Connection, string, error) {
	if path == busio.AutoDetectPath {
		return AutoDetect(busio.DefaultBaudRate, logger)
	}

	sb, err := busio.OpenSerialBus(path, busio.DefaultBaudRate)
	if err != nil {
		return nil, "", err
	}
	logger.Infof("registry: serial-bus %s at %d baud", sb.Path(), sb.Baud())
	sb.Close()

	conn, err := mavlink.Open(mavlink.Config{Device: sb.Path(), BaudRate: busio.DefaultBaudRate, Logger: logger})
	if err != nil {
		return nil, "", err
	}
	return conn, sb.Path(), nil
}

func frequencyOf(freq *int) int {
	if freq == nil {
		return scheduler.DefaultFrequencyHz
	}
	return *freq
}

// Close shuts down every owned MAVLink connection.
func (r *Registry) Close() {
	for _, conn := range r.connections {
		conn.Close()
	}
}
