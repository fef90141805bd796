// Package scheduler runs one task per configured sensor: a periodic
// poll loop for register-bus drivers, or a direct publish-on-receipt
// loop for MAVLink-sourced push drivers. Grounded on
// original_source/src/scheduler.rs's spawn_sensor_tasks, generalized to
// per-sensor frequency and to both sensor source classes.
package scheduler

import (
	"sync/atomic"
	"time"

	"github.com/navigate/sensorhubd/internal/busio"
	"github.com/navigate/sensorhubd/internal/drivers"
	"github.com/navigate/sensorhubd/internal/hub"
	"github.com/navigate/sensorhubd/internal/logging"
	"github.com/navigate/sensorhubd/internal/model"
)

// DefaultFrequencyHz applies when a sensor's configuration does not
// specify one.
const DefaultFrequencyHz = 100

// Sensor is everything the scheduler needs to run one sensor's task.
type Sensor struct {
	ID          string
	Driver      drivers.Driver
	Bus         *busio.GuardedBus // nil for push sensors
	FrequencyHz int
}

// Start spawns one background task per sensor and returns immediately.
// Tasks run until the process exits; there is no cooperative
// cancellation, matching spec.md's explicit design choice.
func Start(sensors []Sensor, h *hub.Hub, logger *logging.Logger) {
	for _, s := range sensors {
		freq := s.FrequencyHz
		if freq <= 0 {
			freq = DefaultFrequencyHz
		}
		h.RegisterSensor(s.ID, uint32(freq))

		if mlSensor, ok := s.Driver.(*drivers.MavlinkSensor); ok {
			go runPushTask(s.ID, mlSensor, h, logger)
			continue
		}
		go runPollTask(s.ID, s.Driver, s.Bus, freq, h, logger)
	}
}

// runPollTask implements the lock -> read -> unlock -> derive -> publish
// -> sleep loop for a register-bus sensor.
func runPollTask(id string, d drivers.Driver, bus *busio.GuardedBus, freq int, h *hub.Hub, logger *logging.Logger) {
	period := time.Duration(1000/freq) * time.Millisecond
	var seq atomic.Uint64

	for {
		bus.Lock()
		frame, err := d.Read(bus.Bus)
		bus.Unlock()

		if err != nil {
			logger.Warnf("scheduler: %s: read error: %s", id, err)
			h.RecordError(id, err.Error())
			time.Sleep(period)
			continue
		}

		publishFrame(id, frame, seq.Add(1), h)
		time.Sleep(period)
	}
}

// runPushTask publishes each frame the moment it arrives from the
// driver's MAVLink subscription, with no polling of its own.
func runPushTask(id string, d *drivers.MavlinkSensor, h *hub.Hub, logger *logging.Logger) {
	var seq atomic.Uint64
	for frame := range d.Frames() {
		publishFrame(id, frame, seq.Add(1), h)
	}
	logger.Warnf("scheduler: %s: push source closed", id)
}

// publishFrame decorates frame with a fresh header and routes whichever
// derived messages it supports onto the hub.
func publishFrame(sensorID string, frame model.SensorDataFrame, seq uint64, h *hub.Hub) {
	header := model.NewHeader(sensorID, sensorID, sensorID, seq)

	if imu, ok := model.DeriveImu(header, frame); ok {
		h.PublishIMU(imu)
	}
	if mag, ok := model.DeriveMagnetometer(header, frame); ok {
		h.PublishMagnetometer(mag)
	}
	if baro, ok := model.DeriveBarometer(header, frame); ok {
		h.PublishBarometer(baro)
	}
	if att, ok := model.DeriveQuaternion(header, frame); ok {
		h.PublishAttitude(att)
	}
}
