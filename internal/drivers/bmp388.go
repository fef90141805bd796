package drivers

import (
	"fmt"
	"strings"
	"time"

	"github.com/navigate/sensorhubd/internal/busio"
	"github.com/navigate/sensorhubd/internal/model"
)

const (
	bmp388ChipID   = 0x00
	bmp388SoftRst  = 0x7E
	bmp388CalStart = 0x31
	bmp388OSR      = 0x1C
	bmp388ODR      = 0x1D
	bmp388Config   = 0x1F
	bmp388PwrCtrl  = 0x1B
	bmp388Data     = 0x04

	bmp388ExpectedChipID = 0x50
	bmp388SoftResetCmd   = 0xB6
)

// bmp388Calibration holds the raw factory coefficients read from the
// chip's calibration block (registers 0x31-0x45), unscaled — the
// compensation formulas scale them inline per the datasheet.
type bmp388Calibration struct {
	t1, t2, t3                                   float64
	p1, p2, p3, p4, p5, p6, p7, p8, p9, p10, p11 float64
}

// BMP388 is a barometric pressure+temperature driver. The sensor can be
// bound to either the static or differential (pitot) pressure role; the
// choice is made from the configured sensor id.
type BMP388 struct {
	id      string
	address byte
	busID   string
	pitot   bool

	cal *bmp388Calibration
}

// NewBMP388 constructs a BMP388 driver. An id beginning with "pitot"
// (case-insensitive) publishes its reading as differential pressure;
// every other id publishes static pressure.
func NewBMP388(id string, address byte, busID string) *BMP388 {
	return &BMP388{id: id, address: address, busID: busID, pitot: strings.HasPrefix(strings.ToLower(id), "pitot")}
}

func (d *BMP388) ID() string  { return d.id }
func (d *BMP388) Bus() string { return d.busID }

func (d *BMP388) Init(bus busio.RegisterBus) error {
	var chipID [1]byte
	if err := bus.ReadBytes(d.address, bmp388ChipID, chipID[:]); err != nil {
		return &InitError{Sensor: d.id, Reason: err.Error()}
	}
	if chipID[0] != bmp388ExpectedChipID {
		return &WrongChipIDError{Sensor: d.id, Expected: bmp388ExpectedChipID, Actual: chipID[0]}
	}

	if err := bus.WriteByte(d.address, bmp388SoftRst, bmp388SoftResetCmd); err != nil {
		return &InitError{Sensor: d.id, Reason: fmt.Sprintf("reset sensor: %s", err)}
	}
	time.Sleep(10 * time.Millisecond)

	var calBuf [21]byte
	if err := bus.ReadBytes(d.address, bmp388CalStart, calBuf[:]); err != nil {
		return &CalibrationError{Sensor: d.id, Reason: err.Error()}
	}
	d.cal = parseBmp388Calibration(calBuf)

	// Temp oversampling x1, pressure oversampling x4.
	if err := bus.WriteByte(d.address, bmp388OSR, 0x02); err != nil {
		return &InitError{Sensor: d.id, Reason: fmt.Sprintf("set oversampling: %s", err)}
	}
	// 50 Hz output data rate.
	if err := bus.WriteByte(d.address, bmp388ODR, 0x02); err != nil {
		return &InitError{Sensor: d.id, Reason: fmt.Sprintf("set output data rate: %s", err)}
	}
	// IIR filter coefficient 1.
	if err := bus.WriteByte(d.address, bmp388Config, 0x00); err != nil {
		return &InitError{Sensor: d.id, Reason: fmt.Sprintf("set IIR filter: %s", err)}
	}

	// Normal mode, pressure+temperature enabled.
	if err := bus.WriteByte(d.address, bmp388PwrCtrl, 0x33); err != nil {
		return &InitError{Sensor: d.id, Reason: fmt.Sprintf("enable sensors: %s", err)}
	}
	time.Sleep(100 * time.Millisecond)

	// Force one measurement in case normal mode hasn't started sampling yet.
	if err := bus.WriteByte(d.address, bmp388PwrCtrl, 0x13); err != nil {
		return &InitError{Sensor: d.id, Reason: fmt.Sprintf("force measurement: %s", err)}
	}
	time.Sleep(50 * time.Millisecond)

	if err := bus.WriteByte(d.address, bmp388PwrCtrl, 0x33); err != nil {
		return &InitError{Sensor: d.id, Reason: fmt.Sprintf("restore normal mode: %s", err)}
	}

	return nil
}

func parseBmp388Calibration(buf [21]byte) *bmp388Calibration {
	u16 := func(lo, hi byte) float64 { return float64(uint16(hi)<<8 | uint16(lo)) }
	i16 := func(lo, hi byte) float64 { return float64(int16(hi)<<8 | int16(lo)) }
	i8 := func(b byte) float64 { return float64(int8(b)) }

	return &bmp388Calibration{
		t1: u16(buf[0], buf[1]),
		t2: u16(buf[2], buf[3]),
		t3: i8(buf[4]),

		p1:  i16(buf[5], buf[6]),
		p2:  i16(buf[7], buf[8]),
		p3:  i8(buf[9]),
		p4:  i8(buf[10]),
		p5:  u16(buf[11], buf[12]),
		p6:  u16(buf[13], buf[14]),
		p7:  i8(buf[15]),
		p8:  i8(buf[16]),
		p9:  i16(buf[17], buf[18]),
		p10: i8(buf[19]),
		p11: i8(buf[20]),
	}
}

func (d *BMP388) Read(bus busio.RegisterBus) (model.SensorDataFrame, error) {
	var frame model.SensorDataFrame

	if d.cal == nil {
		return frame, &ReadError{Sensor: d.id, Reason: "calibration not loaded"}
	}

	var buf [6]byte
	if err := bus.ReadBytes(d.address, bmp388Data, buf[:]); err != nil {
		return frame, &ReadError{Sensor: d.id, Reason: fmt.Sprintf("read sensor data: %s", err)}
	}

	pressRaw := float64(uint32(buf[2])<<16 | uint32(buf[1])<<8 | uint32(buf[0]))
	tempRaw := float64(uint32(buf[5])<<16 | uint32(buf[4])<<8 | uint32(buf[3]))

	temperature, tFine := d.cal.compensateTemperature(tempRaw)
	pressure := d.cal.compensatePressure(pressRaw, tFine)

	frame.Temp = float32(temperature)
	frame.HasTemp = true
	if d.pitot {
		frame.PressurePitot = float32(pressure)
		frame.HasPressurePitot = true
	} else {
		frame.PressureStatic = float32(pressure)
		frame.HasPressureStatic = true
	}

	return frame, nil
}

// compensateTemperature implements the BMP388 datasheet's two-stage
// compensation, stage one of two (temperature, which also produces the
// t_fine value stage two needs).
func (c *bmp388Calibration) compensateTemperature(tempRaw float64) (celsius, tFine float64) {
	pd1 := tempRaw - 256.0*c.t1
	pd2 := c.t2 * pd1
	pd3 := pd1 * pd1
	pd4 := pd3 * c.t3
	pd5 := pd2*262144.0 + pd4
	tFine = pd5 / 4294967296.0
	celsius = (tFine * 25.0 / 16384.0) / 100.0
	return celsius, tFine
}

// compensatePressure implements stage two, using t_fine from stage one.
func (c *bmp388Calibration) compensatePressure(pressRaw, tFine float64) float64 {
	pd1 := tFine * tFine
	pd2 := pd1 / 64.0
	pd3 := pd2 * tFine / 256.0
	pd4 := c.p8 * pd3 / 32.0
	pd5 := c.p7 * pd1 * 16.0
	pd6 := c.p6 * tFine * 4194304.0
	offset := c.p5*140737488355328.0 + pd4 + pd5 + pd6

	pd2 = c.p4 * pd3 / 32.0
	pd4 = c.p3 * pd1 * 4.0
	pd5 = (c.p2 - 16384.0) * tFine * 2097152.0
	sensitivity := (c.p1-16384.0)*70368744177664.0 + pd2 + pd4 + pd5

	pd1 = sensitivity / 16777216.0 * pressRaw
	pd2 = c.p10 * tFine
	pd3 = pd2 + 65536.0*c.p9
	pd4 = pd3 * pressRaw / 8192.0
	pd5 = pd4 * pressRaw / 512.0
	pd6 = pressRaw * pressRaw
	pd2 = c.p11 * pd6 / 65536.0
	pd3 = pd2 * pressRaw / 128.0
	pd4 = offset/4.0 + pd1 + pd5 + pd3

	return (pd4 * 25.0 / 1099511627776.0) / 100.0
}

var _ Driver = (*BMP388)(nil)
