package config

import "time"

// RawSettingsConfig holds general application settings
type RawSettingsConfig struct {
	Monitor RawMonitorConfig `yaml:"monitor"`
}

// RawMonitorConfig controls gleanbox's process resource logging
type RawMonitorConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}
