package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/navigate/sensorhubd/internal/busio"
	"github.com/navigate/sensorhubd/internal/hub"
	"github.com/navigate/sensorhubd/internal/logging"
	"github.com/navigate/sensorhubd/internal/model"
)

// fakeDriver is a minimal drivers.Driver that always returns a
// fully-populated IMU-capable frame.
type fakeDriver struct {
	id    string
	busID string
}

func (d *fakeDriver) ID() string  { return d.id }
func (d *fakeDriver) Bus() string { return d.busID }
func (d *fakeDriver) Init(bus busio.RegisterBus) error {
	return nil
}
func (d *fakeDriver) Read(bus busio.RegisterBus) (model.SensorDataFrame, error) {
	return model.SensorDataFrame{
		Accel: [3]float32{1, 2, 3}, HasAccel: true,
		Gyro: [3]float32{0.1, 0.2, 0.3}, HasGyro: true,
	}, nil
}

// nopBus satisfies busio.RegisterBus without doing anything; fakeDriver
// never touches it.
type nopBus struct{}

func (nopBus) ReadBytes(addr, reg byte, out []byte) error { return nil }
func (nopBus) WriteByte(addr, reg, value byte) error      { return nil }
func (nopBus) Path() string                               { return "nop" }

func TestPollTaskPublishesDerivedIMU(t *testing.T) {
	h := hub.New()
	rx := h.SubscribeIMU()

	guarded := busio.NewGuardedBus(nopBus{})
	Start([]Sensor{{
		ID: "imu0", Driver: &fakeDriver{id: "imu0", busID: "i2c0"}, Bus: guarded, FrequencyHz: 1000,
	}}, h, logging.New("", logging.LevelError))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	msg, err := rx.Recv(ctx)
	if err != nil {
		t.Fatalf("Recv() = %v", err)
	}
	if msg.Ax != 1 || msg.Gz != 0.3 {
		t.Errorf("unexpected IMU message: %+v", msg)
	}
}

func TestPollTaskSeqIncreasesAcrossReads(t *testing.T) {
	h := hub.New()
	rx := h.SubscribeIMU()

	guarded := busio.NewGuardedBus(nopBus{})
	Start([]Sensor{{
		ID: "imu0", Driver: &fakeDriver{id: "imu0", busID: "i2c0"}, Bus: guarded, FrequencyHz: 1000,
	}}, h, logging.New("", logging.LevelError))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	first, err := rx.Recv(ctx)
	if err != nil {
		t.Fatalf("Recv() = %v", err)
	}
	second, err := rx.Recv(ctx)
	if err != nil {
		t.Fatalf("Recv() = %v", err)
	}
	if second.H.Seq <= first.H.Seq {
		t.Errorf("expected increasing seq: %d then %d", first.H.Seq, second.H.Seq)
	}
}
