// Package model defines the wire-level measurement schema shared by
// every driver, the MAVLink ingestion path, and the publication hub.
package model

import "time"

// SchemaVersion is the current Header schema revision.
const SchemaVersion = 1

// Header is stamped onto every outgoing message.
type Header struct {
	DeviceID     string `json:"device_id"`
	SensorID     string `json:"sensor_id"`
	FrameID      string `json:"frame_id"`
	Seq          uint64 `json:"seq"`
	TUtcNs       uint64 `json:"t_utc_ns"`
	TMonoNs      uint64 `json:"t_mono_ns"`
	PPSLocked    bool   `json:"pps_locked"`
	PTPLocked    bool   `json:"ptp_locked"`
	ClockErrPpb  int32  `json:"clock_err_ppb"`
	SigmaTNs     uint32 `json:"sigma_t_ns"`
	SchemaV      uint16 `json:"schema_v"`
}

// monotonicEpoch anchors t_mono_ns to process start so the value is a
// genuine nanosecond duration rather than a wall-clock timestamp dressed
// up as monotonic.
var monotonicEpoch = time.Now()

// NewHeader builds a Header with current timestamps. seq must already be
// the sensor-local sequence number (callers own the counter).
func NewHeader(deviceID, sensorID, frameID string, seq uint64) Header {
	return Header{
		DeviceID:    deviceID,
		SensorID:    sensorID,
		FrameID:     frameID,
		Seq:         seq,
		TUtcNs:      uint64(time.Now().UnixNano()),
		TMonoNs:     uint64(time.Since(monotonicEpoch).Nanoseconds()),
		PPSLocked:   false,
		PTPLocked:   false,
		ClockErrPpb: 0,
		SigmaTNs:    1000,
		SchemaV:     SchemaVersion,
	}
}
