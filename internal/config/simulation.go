package config

import "time"

// SimulationConfig drives synthetic recordings while serving.
type SimulationConfig struct {
	Enabled  bool
	Interval time.Duration
	Metrics  []SimulatedMetricConfig
	Pings    []SimulatedPingConfig
}

// SimulatedMetricConfig feeds one metric (or one label of it) from a random
// integer source.
type SimulatedMetricConfig struct {
	Metric     string
	Label      string
	Min        int
	Max        int
	Transforms []string
}

// SimulatedPingConfig submits a ping every interval.
type SimulatedPingConfig struct {
	Ping   string
	Every  time.Duration
	Reason string
}
