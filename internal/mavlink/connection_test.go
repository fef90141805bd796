package mavlink

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/bluenviron/gomavlib/v3/pkg/dialects/common"
	"github.com/bluenviron/gomavlib/v3/pkg/message"

	"github.com/navigate/sensorhubd/internal/broadcast"
	"github.com/navigate/sensorhubd/internal/logging"
)

// newTestConnection builds a Connection without opening a real serial
// device, so the fan-out and detection bookkeeping can be tested without
// gomavlib.NewNode or hardware.
func newTestConnection() *Connection {
	return &Connection{
		logger:   logging.NewWithWriter(io.Discard, "", logging.LevelDebug),
		tx:       broadcast.NewSender[message.Message](16),
		detected: make(map[SensorKind]bool),
		done:     make(chan struct{}),
	}
}

func TestMarkDetectedIsIdempotentAndAccumulates(t *testing.T) {
	c := newTestConnection()
	c.markDetected(KindImu0)
	c.markDetected(KindImu0)
	c.markDetected(KindBarometer)

	kinds := c.DetectedKinds()
	if len(kinds) != 2 {
		t.Fatalf("expected 2 detected kinds, got %d: %v", len(kinds), kinds)
	}

	seen := map[SensorKind]bool{}
	for _, k := range kinds {
		seen[k] = true
	}
	if !seen[KindImu0] || !seen[KindBarometer] {
		t.Errorf("expected imu0 and baro0 detected, got %v", kinds)
	}
}

func TestDetectedKindsEmptyBeforeAnyMessage(t *testing.T) {
	c := newTestConnection()
	if kinds := c.DetectedKinds(); len(kinds) != 0 {
		t.Errorf("expected no detected kinds, got %v", kinds)
	}
}

func TestSubscribeReceivesPublishedMessages(t *testing.T) {
	c := newTestConnection()
	rx := c.Subscribe()
	defer rx.Unsubscribe()

	hb := &common.MessageHeartbeat{Autopilot: common.MAV_AUTOPILOT_PX4}
	c.tx.Send(hb)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	msg, err := rx.Recv(ctx)
	if err != nil {
		t.Fatalf("Recv() = %v", err)
	}
	if msg != message.Message(hb) {
		t.Errorf("received %+v, want %+v", msg, hb)
	}
}

func TestCloseReleasesSubscribers(t *testing.T) {
	c := newTestConnection()
	rx := c.Subscribe()
	defer rx.Unsubscribe()

	c.tx.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := rx.Recv(ctx); err == nil {
		t.Error("expected Recv to fail after Close")
	}
}
