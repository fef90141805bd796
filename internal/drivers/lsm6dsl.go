package drivers

import (
	"fmt"
	"math"

	"github.com/navigate/sensorhubd/internal/busio"
	"github.com/navigate/sensorhubd/internal/model"
)

const (
	lsm6dslWhoAmI   = 0x0F
	lsm6dslCtrl1Xl  = 0x10
	lsm6dslCtrl2G   = 0x11
	lsm6dslOutTempL = 0x20
	lsm6dslOutxLG   = 0x22
	lsm6dslOutxLXl  = 0x28

	lsm6dslExpectedChipID = 0x6A
)

// lsm6dslAccelSensitivity2g is LSB->m/s^2 for the +-2g full-scale range: 0.061
// mg/LSB converted to g then to m/s^2.
const lsm6dslAccelSensitivity2g = 0.061 * 9.81 / 1000.0

// lsm6dslGyroSensitivity250dps is LSB->dps for the +-250dps full-scale range.
const lsm6dslGyroSensitivity250dps = 8.75 / 1000.0

const degToRad = math.Pi / 180.0

// LSM6DSL is a combined accelerometer+gyroscope+temperature driver.
type LSM6DSL struct {
	id      string
	address byte
	busID   string
}

// NewLSM6DSL constructs an LSM6DSL driver bound to address on busID.
func NewLSM6DSL(id string, address byte, busID string) *LSM6DSL {
	return &LSM6DSL{id: id, address: address, busID: busID}
}

func (d *LSM6DSL) ID() string  { return d.id }
func (d *LSM6DSL) Bus() string { return d.busID }

func (d *LSM6DSL) Init(bus busio.RegisterBus) error {
	var whoAmI [1]byte
	if err := bus.ReadBytes(d.address, lsm6dslWhoAmI, whoAmI[:]); err != nil {
		return &InitError{Sensor: d.id, Reason: err.Error()}
	}
	if whoAmI[0] != lsm6dslExpectedChipID {
		return &WrongChipIDError{Sensor: d.id, Expected: lsm6dslExpectedChipID, Actual: whoAmI[0]}
	}

	// 104 Hz, +-2g.
	if err := bus.WriteByte(d.address, lsm6dslCtrl1Xl, 0b01000000); err != nil {
		return &InitError{Sensor: d.id, Reason: fmt.Sprintf("configure accelerometer: %s", err)}
	}
	// 104 Hz, +-250 dps.
	if err := bus.WriteByte(d.address, lsm6dslCtrl2G, 0b01000000); err != nil {
		return &InitError{Sensor: d.id, Reason: fmt.Sprintf("configure gyroscope: %s", err)}
	}

	return nil
}

func (d *LSM6DSL) Read(bus busio.RegisterBus) (model.SensorDataFrame, error) {
	var frame model.SensorDataFrame

	var accelBuf [6]byte
	if err := bus.ReadBytes(d.address, lsm6dslOutxLXl, accelBuf[:]); err != nil {
		return frame, &ReadError{Sensor: d.id, Reason: fmt.Sprintf("read accelerometer: %s", err)}
	}
	accelRaw := [3]int16{
		int16(accelBuf[0]) | int16(accelBuf[1])<<8,
		int16(accelBuf[2]) | int16(accelBuf[3])<<8,
		int16(accelBuf[4]) | int16(accelBuf[5])<<8,
	}
	frame.Accel = [3]float32{
		float32(accelRaw[0]) * lsm6dslAccelSensitivity2g,
		float32(accelRaw[1]) * lsm6dslAccelSensitivity2g,
		float32(accelRaw[2]) * lsm6dslAccelSensitivity2g,
	}
	frame.HasAccel = true

	var gyroBuf [6]byte
	if err := bus.ReadBytes(d.address, lsm6dslOutxLG, gyroBuf[:]); err != nil {
		return frame, &ReadError{Sensor: d.id, Reason: fmt.Sprintf("read gyroscope: %s", err)}
	}
	gyroRaw := [3]int16{
		int16(gyroBuf[0]) | int16(gyroBuf[1])<<8,
		int16(gyroBuf[2]) | int16(gyroBuf[3])<<8,
		int16(gyroBuf[4]) | int16(gyroBuf[5])<<8,
	}
	// Sensitivity yields dps; the published schema wants rad/s.
	frame.Gyro = [3]float32{
		float32(gyroRaw[0]) * lsm6dslGyroSensitivity250dps * degToRad,
		float32(gyroRaw[1]) * lsm6dslGyroSensitivity250dps * degToRad,
		float32(gyroRaw[2]) * lsm6dslGyroSensitivity250dps * degToRad,
	}
	frame.HasGyro = true

	var tempBuf [2]byte
	if err := bus.ReadBytes(d.address, lsm6dslOutTempL, tempBuf[:]); err != nil {
		return frame, &ReadError{Sensor: d.id, Reason: fmt.Sprintf("read temperature: %s", err)}
	}
	tempRaw := int16(tempBuf[0]) | int16(tempBuf[1])<<8
	frame.Temp = float32(tempRaw)/256.0 + 25.0
	frame.HasTemp = true

	return frame, nil
}

var _ Driver = (*LSM6DSL)(nil)
