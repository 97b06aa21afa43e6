// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Timer TimerConfig `toml:"timer"`
	Goals GoalsConfig `toml:"goals"`
}

// TimerConfig maps timer-related settings.
type TimerConfig struct {
	Inspection        *bool `toml:"inspection"`
	InspectionSeconds *int  `toml:"inspection-seconds"`
	Splits            *bool `toml:"splits"`
}

// GoalsConfig maps benchmark target overrides, phases in seconds.
type GoalsConfig struct {
	Phase1    *float64 `toml:"phase1"`
	Phase2    *float64 `toml:"phase2"`
	Phase3    *float64 `toml:"phase3"`
	Rotations *float64 `toml:"rotations"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
