package config

import "time"

// SettingsConfig holds general application settings.
type SettingsConfig struct {
	Monitor MonitorConfig
}

// MonitorConfig controls gleanbox's process resource logging.
type MonitorConfig struct {
	Enabled  bool
	Interval time.Duration
}

// Validate applies defaults to settings configuration.
func (s *SettingsConfig) Validate() error {
	if s.Monitor.Interval == 0 {
		s.Monitor.Interval = DefaultMonitorInterval
	}
	return nil
}
