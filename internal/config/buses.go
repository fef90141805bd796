package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// BusEntry is one `[[bus]]` section.
type BusEntry struct {
	ID   string `toml:"id"`
	Type string `toml:"type"`
	Path string `toml:"path"`
}

// BusFile is the root of buses.toml.
type BusFile struct {
	Buses []BusEntry `toml:"bus"`
}

// LoadBuses parses a buses.toml file at path.
func LoadBuses(path string) (*BusFile, error) {
	var f BusFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("load bus config %q: %w", path, err)
	}
	return &f, nil
}
