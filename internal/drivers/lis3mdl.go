package drivers

import (
	"fmt"

	"github.com/navigate/sensorhubd/internal/busio"
	"github.com/navigate/sensorhubd/internal/model"
)

const (
	lis3mdlWhoAmI   = 0x0F
	lis3mdlCtrlReg1 = 0x20
	lis3mdlCtrlReg2 = 0x21
	lis3mdlCtrlReg3 = 0x22
	lis3mdlCtrlReg4 = 0x23
	lis3mdlOutXL    = 0x28

	lis3mdlExpectedChipID = 0x3D
)

// lis3mdlSensitivity4Gauss is LSB->µT for the +-4 gauss full-scale range.
const lis3mdlSensitivity4Gauss = 140.0

// LIS3MDL is a three-axis magnetometer driver.
type LIS3MDL struct {
	id      string
	address byte
	busID   string
}

// NewLIS3MDL constructs a LIS3MDL driver bound to address on busID.
func NewLIS3MDL(id string, address byte, busID string) *LIS3MDL {
	return &LIS3MDL{id: id, address: address, busID: busID}
}

func (d *LIS3MDL) ID() string  { return d.id }
func (d *LIS3MDL) Bus() string { return d.busID }

func (d *LIS3MDL) Init(bus busio.RegisterBus) error {
	var whoAmI [1]byte
	if err := bus.ReadBytes(d.address, lis3mdlWhoAmI, whoAmI[:]); err != nil {
		return &InitError{Sensor: d.id, Reason: err.Error()}
	}
	if whoAmI[0] != lis3mdlExpectedChipID {
		return &WrongChipIDError{Sensor: d.id, Expected: lis3mdlExpectedChipID, Actual: whoAmI[0]}
	}

	// Temp sensor disabled, medium-performance mode, 80 Hz ODR.
	if err := bus.WriteByte(d.address, lis3mdlCtrlReg1, 0b01011100); err != nil {
		return &InitError{Sensor: d.id, Reason: fmt.Sprintf("configure CTRL_REG1: %s", err)}
	}
	// +-4 gauss full scale.
	if err := bus.WriteByte(d.address, lis3mdlCtrlReg2, 0b00000000); err != nil {
		return &InitError{Sensor: d.id, Reason: fmt.Sprintf("configure CTRL_REG2: %s", err)}
	}
	// Continuous-conversion mode.
	if err := bus.WriteByte(d.address, lis3mdlCtrlReg3, 0b00000000); err != nil {
		return &InitError{Sensor: d.id, Reason: fmt.Sprintf("configure CTRL_REG3: %s", err)}
	}
	// Z-axis medium-performance mode.
	if err := bus.WriteByte(d.address, lis3mdlCtrlReg4, 0b00000100); err != nil {
		return &InitError{Sensor: d.id, Reason: fmt.Sprintf("configure CTRL_REG4: %s", err)}
	}

	return nil
}

func (d *LIS3MDL) Read(bus busio.RegisterBus) (model.SensorDataFrame, error) {
	var frame model.SensorDataFrame

	var magBuf [6]byte
	if err := bus.ReadBytes(d.address, lis3mdlOutXL, magBuf[:]); err != nil {
		return frame, &ReadError{Sensor: d.id, Reason: fmt.Sprintf("read magnetometer: %s", err)}
	}
	magRaw := [3]int16{
		int16(magBuf[0]) | int16(magBuf[1])<<8,
		int16(magBuf[2]) | int16(magBuf[3])<<8,
		int16(magBuf[4]) | int16(magBuf[5])<<8,
	}
	frame.Mag = [3]float32{
		float32(magRaw[0]) * lis3mdlSensitivity4Gauss,
		float32(magRaw[1]) * lis3mdlSensitivity4Gauss,
		float32(magRaw[2]) * lis3mdlSensitivity4Gauss,
	}
	frame.HasMag = true

	return frame, nil
}

var _ Driver = (*LIS3MDL)(nil)
