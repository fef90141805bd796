// Package hub fans out published sensor measurements to an arbitrary
// number of subscribers and tracks per-sensor publication status.
package hub

import (
	"sync"

	"github.com/navigate/sensorhubd/internal/broadcast"
	"github.com/navigate/sensorhubd/internal/model"
)

// Channel depths sized for 100Hz-class data, matching
// original_source/src/grpc_service.rs's broadcast::channel() sizes.
const (
	imuDepth      = 1000
	magDepth      = 800
	baroDepth     = 800
	attitudeDepth = 500
	unifiedDepth  = 2000
)

// Status is a point-in-time snapshot of one sensor's publication health.
type Status struct {
	SensorID      string `json:"sensor_id"`
	IsActive      bool   `json:"is_active"`
	IsHealthy     bool   `json:"is_healthy"`
	FrequencyHz   uint32 `json:"frequency_hz"`
	MessagesSent  uint64 `json:"messages_sent"`
	LastMessageNs uint64 `json:"last_message_time_ns"`
	ErrorMessage  string `json:"error_message,omitempty"`
}

// Hub owns the broadcast channels every publication kind is routed onto,
// plus a unified stream carrying every kind as a SensorEnvelope.
type Hub struct {
	imu  *broadcast.Sender[model.ImuMessage]
	mag  *broadcast.Sender[model.MagnetometerMessage]
	baro *broadcast.Sender[model.BarometerMessage]
	att  *broadcast.Sender[model.QuaternionMessage]
	all  *broadcast.Sender[model.SensorEnvelope]

	mu    sync.Mutex
	stats map[string]*Status
}

// New constructs a Hub with the channel depths the spec's scale target
// requires.
func New() *Hub {
	return &Hub{
		imu:   broadcast.NewSender[model.ImuMessage](imuDepth),
		mag:   broadcast.NewSender[model.MagnetometerMessage](magDepth),
		baro:  broadcast.NewSender[model.BarometerMessage](baroDepth),
		att:   broadcast.NewSender[model.QuaternionMessage](attitudeDepth),
		all:   broadcast.NewSender[model.SensorEnvelope](unifiedDepth),
		stats: make(map[string]*Status),
	}
}

// SubscribeIMU returns a receiver for every published IMU message.
func (h *Hub) SubscribeIMU() *broadcast.Receiver[model.ImuMessage] { return h.imu.Subscribe() }

// SubscribeMagnetometer returns a receiver for every published magnetometer message.
func (h *Hub) SubscribeMagnetometer() *broadcast.Receiver[model.MagnetometerMessage] {
	return h.mag.Subscribe()
}

// SubscribeBarometer returns a receiver for every published barometer message.
func (h *Hub) SubscribeBarometer() *broadcast.Receiver[model.BarometerMessage] {
	return h.baro.Subscribe()
}

// SubscribeAttitude returns a receiver for every published attitude message.
func (h *Hub) SubscribeAttitude() *broadcast.Receiver[model.QuaternionMessage] {
	return h.att.Subscribe()
}

// SubscribeAll returns a receiver for the unified envelope stream.
func (h *Hub) SubscribeAll() *broadcast.Receiver[model.SensorEnvelope] { return h.all.Subscribe() }

// PublishIMU routes an IMU message to its typed channel and the unified stream.
func (h *Hub) PublishIMU(msg model.ImuMessage) {
	h.imu.Send(msg)
	h.all.Send(model.SensorEnvelope{Kind: model.KindImu, Imu: &msg})
	h.recordSent(msg.H.SensorID, msg.H.TUtcNs)
}

// PublishMagnetometer routes a magnetometer message to its typed channel and the unified stream.
func (h *Hub) PublishMagnetometer(msg model.MagnetometerMessage) {
	h.mag.Send(msg)
	h.all.Send(model.SensorEnvelope{Kind: model.KindMag, Mag: &msg})
	h.recordSent(msg.H.SensorID, msg.H.TUtcNs)
}

// PublishBarometer routes a barometer message to its typed channel and the unified stream.
func (h *Hub) PublishBarometer(msg model.BarometerMessage) {
	h.baro.Send(msg)
	h.all.Send(model.SensorEnvelope{Kind: model.KindBaro, Baro: &msg})
	h.recordSent(msg.H.SensorID, msg.H.TUtcNs)
}

// PublishAttitude routes an attitude message to its typed channel and the unified stream.
func (h *Hub) PublishAttitude(msg model.QuaternionMessage) {
	h.att.Send(msg)
	h.all.Send(model.SensorEnvelope{Kind: model.KindQuaternion, Att: &msg})
	h.recordSent(msg.H.SensorID, msg.H.TUtcNs)
}

// RegisterSensor seeds a status entry for sensorID at the configured
// frequency, before the sensor's task has published anything. Called by
// scheduler.Start for every sensor it runs, so GetSensorStatus reflects
// each running sensor immediately, not only ones that have already sent.
func (h *Hub) RegisterSensor(sensorID string, frequencyHz uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stats[sensorID] = &Status{SensorID: sensorID, IsHealthy: true, FrequencyHz: frequencyHz}
}

// RecordError marks sensorID unhealthy with reason, without incrementing
// its message count.
func (h *Hub) RecordError(sensorID, reason string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.stats[sensorID]
	if !ok {
		s = &Status{SensorID: sensorID}
		h.stats[sensorID] = s
	}
	s.IsHealthy = false
	s.ErrorMessage = reason
}

func (h *Hub) recordSent(sensorID string, tUtcNs uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.stats[sensorID]
	if !ok {
		s = &Status{SensorID: sensorID, IsHealthy: true}
		h.stats[sensorID] = s
	}
	s.IsActive = true
	s.IsHealthy = true
	s.ErrorMessage = ""
	s.MessagesSent++
	s.LastMessageNs = tUtcNs
}

// Snapshot returns a point-in-time copy of every tracked sensor's status.
func (h *Hub) Snapshot() []Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Status, 0, len(h.stats))
	for _, s := range h.stats {
		out = append(out, *s)
	}
	return out
}
