package busio

import (
	"strings"

	"go.bug.st/serial"
)

// DefaultBaudRate is used for a serial bus unless the bus config
// overrides it.
const DefaultBaudRate = 57600

// AutoDetectPath is the sentinel bus path that requests serial
// auto-detection instead of a fixed device path.
const AutoDetectPath = "auto"

// SerialBus wraps an open serial port together with the path it was
// opened from, retained for logs and reconnection.
type SerialBus struct {
	path string
	baud int
	port serial.Port
}

// OpenSerialBus opens path at baud (DefaultBaudRate if baud is 0).
func OpenSerialBus(path string, baud int) (*SerialBus, error) {
	if baud == 0 {
		baud = DefaultBaudRate
	}
	port, err := serial.Open(path, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, &TransportError{Bus: path, Reason: err.Error()}
	}
	return &SerialBus{path: path, baud: baud, port: port}, nil
}

// Path returns the port path this bus was opened from.
func (s *SerialBus) Path() string { return s.path }

// Baud returns the configured baud rate.
func (s *SerialBus) Baud() int { return s.baud }

// Port returns the underlying serial.Port. Ownership transfers to the
// caller in spirit: once handed to a MAVLink connection, nothing else
// should read from it.
func (s *SerialBus) Port() serial.Port { return s.port }

// Close closes the underlying port.
func (s *SerialBus) Close() error { return s.port.Close() }

// excludedPortNamePatterns are substrings that disqualify a serial port
// name from auto-detect probing.
var excludedPortNamePatterns = []string{"Bluetooth", "debug-console"}

// CandidatePorts lists system serial ports, filtering out the names
// auto-detect must never probe.
func CandidatePorts() ([]string, error) {
	names, err := serial.GetPortsList()
	if err != nil {
		return nil, &TransportError{Bus: AutoDetectPath, Reason: err.Error()}
	}
	var out []string
	for _, name := range names {
		if isExcludedPortName(name) {
			continue
		}
		out = append(out, name)
	}
	return out, nil
}

func isExcludedPortName(name string) bool {
	for _, pattern := range excludedPortNamePatterns {
		if strings.Contains(name, pattern) {
			return true
		}
	}
	return false
}
