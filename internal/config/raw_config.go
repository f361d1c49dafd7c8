package config

import "time"

// RawConfig represents unparsed YAML structure
type RawConfig struct {
	Schema     RawSchemaConfig     `yaml:"schema"`
	Parser     map[string]any      `yaml:"parser,omitempty"`
	Export     RawExportConfig     `yaml:"export"`
	Simulation RawSimulationConfig `yaml:"simulation"`
	Settings   RawSettingsConfig   `yaml:"settings"`
}

// RawSchemaConfig lists the schema files to load
type RawSchemaConfig struct {
	Paths []string `yaml:"paths"`
}

// RawSimulationConfig drives synthetic recordings while serving
type RawSimulationConfig struct {
	Enabled   bool                 `yaml:"enabled"`
	Interval  time.Duration        `yaml:"interval"`
	Iterators []RawIterator        `yaml:"iterators,omitempty"`
	Metrics   []RawSimulatedMetric `yaml:"metrics"`
	Pings     []RawSimulatedPing   `yaml:"pings,omitempty"`
}

// RawIterator defines a single iterator for label expansion
type RawIterator struct {
	Name   string   `yaml:"name"`
	Type   string   `yaml:"type"` // "range" or "list"
	Start  *int     `yaml:"start,omitempty"`
	End    *int     `yaml:"end,omitempty"`
	Values []string `yaml:"values,omitempty"`
}

// RawSimulatedMetric binds a random source to a metric of the tree
type RawSimulatedMetric struct {
	Metric     string   `yaml:"metric"`
	Label      string   `yaml:"label,omitempty"`
	Min        int      `yaml:"min"`
	Max        int      `yaml:"max"`
	Transforms []string `yaml:"transforms,omitempty"`
}

// RawSimulatedPing submits a ping periodically
type RawSimulatedPing struct {
	Ping   string        `yaml:"ping"`
	Every  time.Duration `yaml:"every"`
	Reason string        `yaml:"reason,omitempty"`
}
