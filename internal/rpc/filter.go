package rpc

import "github.com/navigate/sensorhubd/internal/hub"

// StreamRequest is the request type for every streaming sensor
// operation, carrying spec.md §6's `filter` argument: an optional
// allow-list of sensor IDs. An empty/nil SensorIDs matches every
// sensor, which is the behavior every operation had before this field
// existed.
type StreamRequest struct {
	SensorIDs []string `json:"sensor_ids,omitempty"`
}

// Matches reports whether sensorID passes this request's filter.
func (r *StreamRequest) Matches(sensorID string) bool {
	if len(r.SensorIDs) == 0 {
		return true
	}
	for _, id := range r.SensorIDs {
		if id == sensorID {
			return true
		}
	}
	return false
}

// StatusRequest is the request type for GetSensorStatus, carrying the
// same sensor-id filter as StreamRequest.
type StatusRequest struct {
	SensorIDs []string `json:"sensor_ids,omitempty"`
}

// Matches reports whether sensorID passes this request's filter.
func (r *StatusRequest) Matches(sensorID string) bool {
	if len(r.SensorIDs) == 0 {
		return true
	}
	for _, id := range r.SensorIDs {
		if id == sensorID {
			return true
		}
	}
	return false
}

// StatusResponse wraps a point-in-time snapshot of every tracked
// sensor's publication status.
type StatusResponse struct {
	Sensors []hub.Status `json:"sensors"`
}
