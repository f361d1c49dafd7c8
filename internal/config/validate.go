package config

import (
	"fmt"
)

// Validate performs syntactic validation on raw config
func Validate(raw *RawConfig) error {
	return validateRawSyntax(raw)
}

// validateRawSyntax performs basic syntactic validation on raw config
func validateRawSyntax(raw *RawConfig) error {
	if len(raw.Schema.Paths) == 0 {
		return fmt.Errorf("at least one schema path must be defined")
	}

	for i, p := range raw.Schema.Paths {
		if p == "" {
			return fmt.Errorf("schema path at index %d cannot be empty", i)
		}
	}

	for i, m := range raw.Simulation.Metrics {
		if m.Metric == "" {
			return fmt.Errorf("simulated metric at index %d: metric cannot be empty", i)
		}
	}

	return nil
}
