package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v4"
)

// Load reads, validates and resolves the configuration file at path.
// Relative schema paths are later resolved against the file's directory.
func Load(path string) (*Config, error) {
	raw, err := Parse(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg, err := Resolve(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config %s: %w", path, err)
	}
	cfg.Dir = filepath.Dir(path)

	return cfg, nil
}

// Parse reads and syntactically validates a configuration file.
func Parse(path string) (*RawConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// ParseBytes is Parse for an in-memory document.
func ParseBytes(data []byte) (*RawConfig, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads one YAML document from r. Unknown keys are rejected.
func Decode(r io.Reader) (*RawConfig, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var raw RawConfig
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := Validate(&raw); err != nil {
		return nil, err
	}
	return &raw, nil
}
