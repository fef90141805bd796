package rpc

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/navigate/sensorhubd/internal/hub"
	"github.com/navigate/sensorhubd/internal/logging"
	"github.com/navigate/sensorhubd/internal/model"
)

func TestGetSensorStatusReturnsHubSnapshot(t *testing.T) {
	h := hub.New()
	h.RegisterSensor("imu0", 100)
	h.PublishIMU(model.ImuMessage{H: model.NewHeader("hub0", "imu0", "imu0", 1)})

	svc := NewService(h, logging.New("", logging.LevelError))
	resp, err := svc.GetSensorStatus(context.Background(), connect.NewRequest(&StatusRequest{}))
	if err != nil {
		t.Fatalf("GetSensorStatus() = %v", err)
	}
	if len(resp.Msg.Sensors) != 1 || resp.Msg.Sensors[0].SensorID != "imu0" {
		t.Fatalf("unexpected status snapshot: %+v", resp.Msg.Sensors)
	}
	if resp.Msg.Sensors[0].MessagesSent != 1 {
		t.Errorf("MessagesSent = %d, want 1", resp.Msg.Sensors[0].MessagesSent)
	}
}

func TestGetSensorStatusAppliesSensorIDFilter(t *testing.T) {
	h := hub.New()
	h.RegisterSensor("imu0", 100)
	h.RegisterSensor("baro0", 50)

	svc := NewService(h, logging.New("", logging.LevelError))
	resp, err := svc.GetSensorStatus(context.Background(), connect.NewRequest(&StatusRequest{SensorIDs: []string{"baro0"}}))
	if err != nil {
		t.Fatalf("GetSensorStatus() = %v", err)
	}
	if len(resp.Msg.Sensors) != 1 || resp.Msg.Sensors[0].SensorID != "baro0" {
		t.Fatalf("expected only baro0 in filtered snapshot, got %+v", resp.Msg.Sensors)
	}
}

func TestStreamRequestMatchesEmptyFilterMatchesEverything(t *testing.T) {
	req := &StreamRequest{}
	if !req.Matches("anything") {
		t.Error("expected empty filter to match any sensor id")
	}
}

func TestStreamRequestMatchesRestrictsToListedIDs(t *testing.T) {
	req := &StreamRequest{SensorIDs: []string{"imu0", "mag0"}}
	if !req.Matches("imu0") {
		t.Error("expected imu0 to match")
	}
	if req.Matches("baro0") {
		t.Error("expected baro0 to not match")
	}
}

func TestJSONCodecName(t *testing.T) {
	if (JSONCodec{}).Name() != "json" {
		t.Errorf("Name() = %q, want %q", (JSONCodec{}).Name(), "json")
	}
}
