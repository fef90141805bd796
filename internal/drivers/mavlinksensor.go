package drivers

import (
	"context"
	"errors"
	"sync"

	"github.com/navigate/sensorhubd/internal/broadcast"
	"github.com/navigate/sensorhubd/internal/busio"
	"github.com/navigate/sensorhubd/internal/mavlink"
	"github.com/navigate/sensorhubd/internal/model"
)

// MavlinkSensor is a push-based driver: instead of being polled over a
// register bus, it subscribes to a live mavlink.Connection and caches
// the most recent frame for whichever SensorKind it was built for.
type MavlinkSensor struct {
	id    string
	busID string
	kind  mavlink.SensorKind

	mu   sync.Mutex
	last *model.SensorDataFrame

	frames chan model.SensorDataFrame
	cancel context.CancelFunc
}

// framesBacklog bounds how many pushed frames the scheduler's push-path
// consumer may lag behind before newer frames simply overwrite the cache
// without also appearing on the Frames channel.
const framesBacklog = 16

// NewMavlinkSensor constructs a driver that filters conn's stream for
// kind and caches the latest converted frame.
func NewMavlinkSensor(id, busID string, kind mavlink.SensorKind, conn *mavlink.Connection) *MavlinkSensor {
	ctx, cancel := context.WithCancel(context.Background())
	s := &MavlinkSensor{id: id, busID: busID, kind: kind, cancel: cancel, frames: make(chan model.SensorDataFrame, framesBacklog)}
	go s.pump(ctx, conn)
	return s
}

func (s *MavlinkSensor) pump(ctx context.Context, conn *mavlink.Connection) {
	rx := conn.Subscribe()
	defer rx.Unsubscribe()
	defer close(s.frames)

	for {
		msg, err := rx.Recv(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, broadcast.ErrClosed) {
				return
			}
			// Lagged: the next Recv returns the oldest still-queued
			// message, so just loop and keep consuming.
			continue
		}

		kind, ok := mavlink.ClassifyMessage(msg)
		if !ok || kind != s.kind {
			continue
		}
		frame, ok := mavlink.ToFrame(kind, msg)
		if !ok {
			continue
		}

		s.mu.Lock()
		s.last = &frame
		s.mu.Unlock()

		select {
		case s.frames <- frame:
		default:
			// Scheduler push-consumer is behind; Read() still sees the
			// latest via the cache above.
		}
	}
}

// ID returns the sensor's configured identifier.
func (s *MavlinkSensor) ID() string { return s.id }

// Bus returns the MAVLink connection's bus name.
func (s *MavlinkSensor) Bus() string { return s.busID }

// Init is a no-op: the subscription is already running from
// construction, matching the push-based nature of this driver.
func (s *MavlinkSensor) Init(bus busio.RegisterBus) error { return nil }

// Read returns the most recently received frame. It never touches bus —
// MavlinkSensor is push-based and has no register-bus transaction of its
// own.
func (s *MavlinkSensor) Read(bus busio.RegisterBus) (model.SensorDataFrame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return model.SensorDataFrame{}, &ReadError{Sensor: s.id, Reason: "no data received yet from MAVLink"}
	}
	return *s.last, nil
}

// Frames returns the channel of pushed frames the scheduler consumes
// directly, bypassing Read's poll shape for push-based sensors.
func (s *MavlinkSensor) Frames() <-chan model.SensorDataFrame {
	return s.frames
}

// Close stops the subscription goroutine, which then closes the Frames
// channel.
func (s *MavlinkSensor) Close() {
	s.cancel()
}

var _ Driver = (*MavlinkSensor)(nil)
