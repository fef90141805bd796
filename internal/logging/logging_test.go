package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelFilterDropsBelowThreshold(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "", LevelWarn)

	l.Debugf("debug message")
	l.Infof("info message")
	if buf.Len() != 0 {
		t.Fatalf("expected debug/info to be dropped at warn level, got %q", buf.String())
	}

	l.Warnf("warn message")
	if !strings.Contains(buf.String(), "warn message") {
		t.Errorf("expected warn message to be logged, got %q", buf.String())
	}
}

func TestLevelFilterAtDebugLogsEverything(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "", LevelDebug)

	l.Debugf("debug message")
	l.Errorf("error message")

	out := buf.String()
	if !strings.Contains(out, "debug message") || !strings.Contains(out, "error message") {
		t.Errorf("expected both messages logged at debug level, got %q", out)
	}
}

func TestParseLevelRejectsUnknown(t *testing.T) {
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("expected ParseLevel to reject an unknown level")
	}
	for _, s := range []string{"debug", "info", "warn", "error"} {
		if _, err := ParseLevel(s); err != nil {
			t.Errorf("ParseLevel(%q) = %v, want nil error", s, err)
		}
	}
}
