package config

import (
	"fmt"
	"time"

	"go.yaml.in/yaml/v4"
)

// RawExportConfig is the export section as written
type RawExportConfig struct {
	Prometheus *RawPrometheusExportConfig `yaml:"prometheus,omitempty"`
	OTEL       *RawOTELExportConfig       `yaml:"otel,omitempty"`
}

// RawPrometheusExportConfig is the scrape endpoint as written
type RawPrometheusExportConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port"`
	Path    string `yaml:"path"`
}

// RawOTELExportConfig is the OTLP push target as written
type RawOTELExportConfig struct {
	Enabled   bool              `yaml:"enabled"`
	Transport string            `yaml:"transport"`
	Host      string            `yaml:"host"`
	Port      int               `yaml:"port"`
	Interval  RawIntervalConfig `yaml:"interval"`
	Resource  map[string]string `yaml:"resource,omitempty"`
	Headers   map[string]string `yaml:"headers,omitempty"`
}

// RawIntervalConfig accepts either a bare duration, taken as the push
// interval, or a mapping with push and timeout.
type RawIntervalConfig struct {
	Push    time.Duration `yaml:"push"`
	Timeout time.Duration `yaml:"timeout"`
}

// UnmarshalYAML decodes both interval forms.
func (i *RawIntervalConfig) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*i = RawIntervalConfig{}
		return value.Decode(&i.Push)
	case yaml.MappingNode:
		// Alias drops the method set so Decode does not recurse
		type plain RawIntervalConfig
		return value.Decode((*plain)(i))
	default:
		return fmt.Errorf("line %d: interval must be a duration or a mapping with push and timeout", value.Line)
	}
}
