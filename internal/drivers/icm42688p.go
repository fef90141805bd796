package drivers

import (
	"fmt"
	"time"

	"github.com/navigate/sensorhubd/internal/busio"
	"github.com/navigate/sensorhubd/internal/model"
)

const (
	icmWhoAmI       = 0x75
	icmDeviceConfig = 0x11
	icmPwrMgmt0     = 0x4E
	icmGyroConfig0  = 0x4F
	icmAccelConfig0 = 0x50
	icmTempData1    = 0x1D
	icmAccelDataX1  = 0x1F
	icmGyroDataX1   = 0x25
	icmRegBankSel   = 0x76

	icmWhoAmI42688P = 0x47
	icmWhoAmI42688  = 0x44
)

const (
	icmAccelSensitivity2g    = 16384.0 // LSB/g
	icmGyroSensitivity250dps = 131.0   // LSB/dps
	icmTempSensitivity       = 132.48  // LSB/°C
	icmTempOffset            = 25.0
)

// ICM42688P is a combined accelerometer+gyroscope+temperature driver.
// Supplements the register-bus driver set beyond the LSM6DSL baseline.
type ICM42688P struct {
	id      string
	address byte
	busID   string
}

// NewICM42688P constructs an ICM42688P driver bound to address on busID.
func NewICM42688P(id string, address byte, busID string) *ICM42688P {
	return &ICM42688P{id: id, address: address, busID: busID}
}

func (d *ICM42688P) ID() string  { return d.id }
func (d *ICM42688P) Bus() string { return d.busID }

func (d *ICM42688P) Init(bus busio.RegisterBus) error {
	if err := bus.WriteByte(d.address, icmRegBankSel, 0x00); err != nil {
		return &InitError{Sensor: d.id, Reason: fmt.Sprintf("select bank 0: %s", err)}
	}

	var whoAmI [1]byte
	if err := bus.ReadBytes(d.address, icmWhoAmI, whoAmI[:]); err != nil {
		return &InitError{Sensor: d.id, Reason: err.Error()}
	}
	if whoAmI[0] != icmWhoAmI42688P && whoAmI[0] != icmWhoAmI42688 {
		return &WrongChipIDError{Sensor: d.id, Expected: icmWhoAmI42688P, Actual: whoAmI[0]}
	}

	if err := bus.WriteByte(d.address, icmDeviceConfig, 0x01); err != nil {
		return &InitError{Sensor: d.id, Reason: fmt.Sprintf("reset device: %s", err)}
	}
	time.Sleep(20 * time.Millisecond)

	// Gyro + accel low-noise mode.
	if err := bus.WriteByte(d.address, icmPwrMgmt0, 0x0F); err != nil {
		return &InitError{Sensor: d.id, Reason: fmt.Sprintf("configure power management: %s", err)}
	}
	// +-250 dps, 100 Hz ODR.
	if err := bus.WriteByte(d.address, icmGyroConfig0, 0x68); err != nil {
		return &InitError{Sensor: d.id, Reason: fmt.Sprintf("configure gyroscope: %s", err)}
	}
	// +-2g, 100 Hz ODR.
	if err := bus.WriteByte(d.address, icmAccelConfig0, 0x68); err != nil {
		return &InitError{Sensor: d.id, Reason: fmt.Sprintf("configure accelerometer: %s", err)}
	}
	time.Sleep(10 * time.Millisecond)

	return nil
}

func (d *ICM42688P) Read(bus busio.RegisterBus) (model.SensorDataFrame, error) {
	var frame model.SensorDataFrame

	var accelBuf [6]byte
	if err := bus.ReadBytes(d.address, icmAccelDataX1, accelBuf[:]); err != nil {
		return frame, &ReadError{Sensor: d.id, Reason: fmt.Sprintf("read accelerometer: %s", err)}
	}
	accelRaw := [3]int16{
		int16(accelBuf[0])<<8 | int16(accelBuf[1]),
		int16(accelBuf[2])<<8 | int16(accelBuf[3]),
		int16(accelBuf[4])<<8 | int16(accelBuf[5]),
	}
	frame.Accel = [3]float32{
		(float32(accelRaw[0]) / icmAccelSensitivity2g) * 9.81,
		(float32(accelRaw[1]) / icmAccelSensitivity2g) * 9.81,
		(float32(accelRaw[2]) / icmAccelSensitivity2g) * 9.81,
	}
	frame.HasAccel = true

	var gyroBuf [6]byte
	if err := bus.ReadBytes(d.address, icmGyroDataX1, gyroBuf[:]); err != nil {
		return frame, &ReadError{Sensor: d.id, Reason: fmt.Sprintf("read gyroscope: %s", err)}
	}
	gyroRaw := [3]int16{
		int16(gyroBuf[0])<<8 | int16(gyroBuf[1]),
		int16(gyroBuf[2])<<8 | int16(gyroBuf[3]),
		int16(gyroBuf[4])<<8 | int16(gyroBuf[5]),
	}
	frame.Gyro = [3]float32{
		(float32(gyroRaw[0]) / icmGyroSensitivity250dps) * degToRad,
		(float32(gyroRaw[1]) / icmGyroSensitivity250dps) * degToRad,
		(float32(gyroRaw[2]) / icmGyroSensitivity250dps) * degToRad,
	}
	frame.HasGyro = true

	var tempBuf [2]byte
	if err := bus.ReadBytes(d.address, icmTempData1, tempBuf[:]); err != nil {
		return frame, &ReadError{Sensor: d.id, Reason: fmt.Sprintf("read temperature: %s", err)}
	}
	tempRaw := int16(tempBuf[0])<<8 | int16(tempBuf[1])
	frame.Temp = float32(tempRaw)/icmTempSensitivity + icmTempOffset
	frame.HasTemp = true

	return frame, nil
}

var _ Driver = (*ICM42688P)(nil)
