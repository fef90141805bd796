package model

import "testing"

func TestNewHeaderFields(t *testing.T) {
	h := NewHeader("navigate_hub", "imu0", "base_link", 42)

	if h.DeviceID != "navigate_hub" || h.SensorID != "imu0" || h.FrameID != "base_link" {
		t.Fatalf("unexpected identifiers: %+v", h)
	}
	if h.Seq != 42 {
		t.Fatalf("seq = %d, want 42", h.Seq)
	}
	if h.SchemaV != SchemaVersion {
		t.Fatalf("schema_v = %d, want %d", h.SchemaV, SchemaVersion)
	}
	if h.TUtcNs == 0 {
		t.Fatal("t_utc_ns must be non-zero")
	}
}

func TestHeaderMonotonicNonDecreasing(t *testing.T) {
	a := NewHeader("d", "s", "f", 1)
	b := NewHeader("d", "s", "f", 2)
	if b.TMonoNs < a.TMonoNs {
		t.Fatalf("t_mono_ns went backwards: %d -> %d", a.TMonoNs, b.TMonoNs)
	}
}
