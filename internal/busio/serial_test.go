package busio

import "testing"

func TestIsExcludedPortName(t *testing.T) {
	cases := []struct {
		name     string
		excluded bool
	}{
		{"/dev/ttyUSB0", false},
		{"/dev/ttyAMA0", false},
		{"/dev/tty.Bluetooth-Incoming-Port", true},
		{"/dev/debug-console", true},
	}
	for _, c := range cases {
		if got := isExcludedPortName(c.name); got != c.excluded {
			t.Errorf("isExcludedPortName(%q) = %v, want %v", c.name, got, c.excluded)
		}
	}
}
