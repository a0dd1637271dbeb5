// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Slider SliderConfig `toml:"slider"`
	Stats  StatsConfig  `toml:"stats"`
	Log    LogConfig    `toml:"log"`
}

// SliderConfig maps the duration slider bounds, in minutes.
type SliderConfig struct {
	Min     *float64 `toml:"min"`
	Max     *float64 `toml:"max"`
	Step    *float64 `toml:"step"`
	Initial *float64 `toml:"initial"`
}

// StatsConfig maps stats screen settings.
type StatsConfig struct {
	Limit *int `toml:"limit"`
	Days  *int `toml:"days"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
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
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
