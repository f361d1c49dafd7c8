package config

import (
	"path/filepath"
	"time"
)

const (
	DefaultSimulationInterval = 1 * time.Second
	DefaultMonitorInterval    = 10 * time.Second
)

// Config holds the complete application configuration.
type Config struct {
	// Dir is the directory of the config file; relative schema paths
	// resolve against it.
	Dir        string
	Schema     SchemaConfig
	Parser     map[string]any
	Export     ExportConfig
	Simulation SimulationConfig
	Settings   SettingsConfig
}

// SchemaConfig lists the schema files to load.
type SchemaConfig struct {
	Paths []string
}

// AbsPaths returns the schema paths resolved against dir.
func (s SchemaConfig) AbsPaths(dir string) []string {
	out := make([]string, len(s.Paths))
	for i, p := range s.Paths {
		if filepath.IsAbs(p) || dir == "" {
			out[i] = p
		} else {
			out[i] = filepath.Join(dir, p)
		}
	}
	return out
}
