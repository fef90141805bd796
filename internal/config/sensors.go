package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// SensorEntry is one `[[sensor]]` section. Frequency is a pointer so an
// absent value is distinguishable from an explicit 0 — the registry
// substitutes scheduler.DefaultFrequencyHz when nil.
type SensorEntry struct {
	ID        string `toml:"id"`
	Driver    string `toml:"driver"`
	Bus       string `toml:"bus"`
	Address   uint8  `toml:"address"`
	Frequency *int   `toml:"frequency"`
}

// SensorFile is the root of sensors.toml.
type SensorFile struct {
	Sensors []SensorEntry `toml:"sensor"`
}

// LoadSensors parses a sensors.toml file at path.
func LoadSensors(path string) (*SensorFile, error) {
	var f SensorFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("load sensor config %q: %w", path, err)
	}
	return &f, nil
}
