package drivers

import (
	"math"
	"testing"
)

func TestBMP388InitFailsOnWrongChipID(t *testing.T) {
	bus := newFakeBus().set(bmp388ChipID, 0x11)
	d := NewBMP388("baro0", 0x76, "i2c0")
	if err := d.Init(bus); err == nil {
		t.Fatal("expected error for wrong chip id")
	}
}

func TestBMP388SelectsStaticVsPitotByIDPrefix(t *testing.T) {
	if NewBMP388("baro0", 0x76, "i2c0").pitot {
		t.Error("expected baro0 to be static")
	}
	if !NewBMP388("pitot0", 0x76, "i2c0").pitot {
		t.Error("expected pitot0 to be pitot")
	}
	if !NewBMP388("PITOT_FWD", 0x76, "i2c0").pitot {
		t.Error("expected case-insensitive prefix match")
	}
}

func TestBMP388ReadRequiresCalibration(t *testing.T) {
	d := NewBMP388("baro0", 0x76, "i2c0")
	bus := newFakeBus()
	if _, err := d.Read(bus); err == nil {
		t.Fatal("expected error before Init loads calibration")
	}
}

func TestBMP388CompensationIsFinite(t *testing.T) {
	cal := &bmp388Calibration{
		t1: 28000, t2: 6000, t3: 3,
		p1: 5000, p2: -15000, p3: 20, p4: 10, p5: 100000, p6: 30,
		p7: -5, p8: -1, p9: -3000, p10: 20, p11: -10,
	}
	celsius, tFine := cal.compensateTemperature(8000000)
	if math.IsNaN(celsius) || math.IsInf(celsius, 0) {
		t.Fatalf("compensateTemperature produced non-finite result: %v", celsius)
	}
	pressure := cal.compensatePressure(8000000, tFine)
	if math.IsNaN(pressure) || math.IsInf(pressure, 0) {
		t.Fatalf("compensatePressure produced non-finite result: %v", pressure)
	}
}
