package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolve(t *testing.T, doc string) (*Config, error) {
	t.Helper()
	raw, err := ParseBytes([]byte(doc))
	require.NoError(t, err)
	return Resolve(raw)
}

func TestResolveDefaults(t *testing.T) {
	cfg, err := resolve(t, `
schema:
  paths: [metrics.yaml]
`)
	require.NoError(t, err)

	require.True(t, cfg.Export.PrometheusEnabled())
	assert.False(t, cfg.Export.OTELEnabled())
	assert.Equal(t, DefaultPrometheusPort, cfg.Export.Prometheus.Port)
	assert.Equal(t, DefaultPrometheusPath, cfg.Export.Prometheus.Path)

	assert.False(t, cfg.Simulation.Enabled)
	assert.Equal(t, DefaultSimulationInterval, cfg.Simulation.Interval)
	assert.Equal(t, DefaultMonitorInterval, cfg.Settings.Monitor.Interval)
	assert.Empty(t, cfg.Parser)
}

func TestResolveOTEL(t *testing.T) {
	tests := []struct {
		name    string
		otel    string
		push    time.Duration
		timeout time.Duration
		port    int
	}{
		{
			name:    "defaults",
			otel:    "enabled: true",
			push:    DefaultOTELPushInterval,
			timeout: DefaultOTELTimeout,
			port:    4317,
		},
		{
			name:    "interval shorthand",
			otel:    "enabled: true\n    transport: http\n    interval: 30s",
			push:    30 * time.Second,
			timeout: DefaultOTELTimeout,
			port:    4318,
		},
		{
			name:    "detailed interval",
			otel:    "enabled: true\n    port: 5555\n    interval:\n      push: 1m\n      timeout: 2s",
			push:    time.Minute,
			timeout: 2 * time.Second,
			port:    5555,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := resolve(t, "schema:\n  paths: [m.yaml]\nexport:\n  otel:\n    "+tt.otel+"\n")
			require.NoError(t, err)

			require.True(t, cfg.Export.OTELEnabled())
			assert.False(t, cfg.Export.PrometheusEnabled())
			otel := cfg.Export.OTEL
			assert.Equal(t, tt.push, otel.Interval.Push)
			assert.Equal(t, tt.timeout, otel.Interval.Timeout)
			assert.Equal(t, tt.port, otel.Port)
			assert.Equal(t, DefaultServiceName, otel.Resource["service.name"])
		})
	}
}

func TestResolveExportErrors(t *testing.T) {
	tests := []struct {
		name   string
		export string
		want   string
	}{
		{"none enabled", "prometheus:\n    enabled: false", "at least one exporter"},
		{"bad transport", "otel:\n    enabled: true\n    transport: udp", "invalid transport"},
		{"bad port", "prometheus:\n    enabled: true\n    port: 70000", "invalid port: 70000\n  in exporter \"prometheus\""},
		{"relative path", "prometheus:\n    enabled: true\n    path: metrics", "must start with /"},
		{"reserved path", "prometheus:\n    enabled: true\n    path: /submissions", "is reserved"},
		{"timeout above push", "otel:\n    enabled: true\n    interval:\n      push: 1s\n      timeout: 2s", "exceeds push interval"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolve(t, "schema:\n  paths: [m.yaml]\nexport:\n  "+tt.export+"\n")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestResolveSimulation(t *testing.T) {
	cfg, err := resolve(t, `
schema:
  paths: [m.yaml]
simulation:
  enabled: true
  interval: 250ms
  iterators:
    - name: code
      type: list
      values: ["200", "500"]
    - name: shard
      type: range
      start: 1
      end: 2
  metrics:
    - metric: net.requests
      min: 0
      max: 10
      transforms: [accumulate]
    - metric: net.status
      label: "{code}_{shard}"
      min: 1
      max: 1
  pings:
    - ping: baseline
      every: 5s
      reason: active
`)
	require.NoError(t, err)

	sim := cfg.Simulation
	assert.True(t, sim.Enabled)
	assert.Equal(t, 250*time.Millisecond, sim.Interval)

	require.Len(t, sim.Metrics, 5)
	assert.Equal(t, SimulatedMetricConfig{
		Metric:     "net.requests",
		Min:        0,
		Max:        10,
		Transforms: []string{"accumulate"},
	}, sim.Metrics[0])

	var labels []string
	for _, m := range sim.Metrics[1:] {
		assert.Equal(t, "net.status", m.Metric)
		labels = append(labels, m.Label)
	}
	assert.Equal(t, []string{"200_1", "500_1", "200_2", "500_2"}, labels)

	assert.Equal(t, []SimulatedPingConfig{{Ping: "baseline", Every: 5 * time.Second, Reason: "active"}}, sim.Pings)
}

func TestResolveSimulationErrors(t *testing.T) {
	tests := []struct {
		name string
		sim  string
		want []string
	}{
		{
			name: "min above max",
			sim:  "metrics:\n    - metric: a.b\n      min: 5\n      max: 1",
			want: []string{"min 5 greater than max 1", `in simulated metric "a.b"`},
		},
		{
			name: "unknown transform",
			sim:  "metrics:\n    - metric: a.b\n      max: 1\n      transforms: [smooth]",
			want: []string{"unknown transform: smooth"},
		},
		{
			name: "undefined iterator",
			sim:  "metrics:\n    - metric: a.b\n      max: 1\n      label: \"{missing}\"",
			want: []string{`iterator "missing" not defined`, `in label "{missing}"`, `in simulated metric "a.b"`},
		},
		{
			name: "ping without interval",
			sim:  "pings:\n    - ping: baseline",
			want: []string{"every must be a positive duration", `in simulated ping "baseline"`},
		},
		{
			name: "range without end",
			sim:  "iterators:\n    - name: n\n      type: range\n      start: 1",
			want: []string{"start and end required", `in iterator "n"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolve(t, "schema:\n  paths: [m.yaml]\nsimulation:\n  "+tt.sim+"\n")
			require.Error(t, err)
			for _, want := range tt.want {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestParseBytesValidation(t *testing.T) {
	_, err := ParseBytes([]byte("export: {}\n"))
	require.ErrorContains(t, err, "at least one schema path")

	_, err = ParseBytes([]byte("schema:\n  paths: [\"\"]\n"))
	require.ErrorContains(t, err, "index 0 cannot be empty")

	_, err = ParseBytes([]byte("schema: [\n"))
	require.ErrorContains(t, err, "failed to parse YAML")
}

func TestLoadResolvesSchemaPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gleanbox.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
schema:
  paths: [metrics.yaml, /abs/pings.yaml]
parser:
  allow_reserved: true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Dir)
	assert.Equal(t, []string{filepath.Join(dir, "metrics.yaml"), "/abs/pings.yaml"}, cfg.Schema.AbsPaths(cfg.Dir))
	assert.Equal(t, map[string]any{"allow_reserved": true}, cfg.Parser)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.ErrorContains(t, err, "failed to read config file")
}

func TestCombinations(t *testing.T) {
	its := []*Iterator{
		listIterator("a", []string{"x", "y"}),
		rangeIterator("b", 1, 3),
	}
	var got []string
	for combo := range combinations(its) {
		got = append(got, combo["a"]+combo["b"])
	}
	assert.Equal(t, []string{"x1", "y1", "x2", "y2", "x3", "y3"}, got)

	for range combinations([]*Iterator{rangeIterator("empty", 3, 1)}) {
		t.Fatal("inverted range yields nothing")
	}

	assert.Equal(t, []string{"a", "b"}, placeholders("{a}-{b}-{a}"))

	_, err := expandPattern("{a}{b}", iteratorSet{
		"a": rangeIterator("a", 1, 1000),
		"b": rangeIterator("b", 1, 1000),
	})
	require.ErrorContains(t, err, "more than")
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	_, err := ParseBytes([]byte("schema:\n  paths: [m.yaml]\nexporter:\n  prometheus: {}\n"))
	require.ErrorContains(t, err, "failed to parse YAML")

	_, err = ParseBytes(nil)
	require.ErrorContains(t, err, "at least one schema path")
}

func TestIntervalForms(t *testing.T) {
	_, err := ParseBytes([]byte("schema:\n  paths: [m.yaml]\nexport:\n  otel:\n    enabled: true\n    interval: [1s]\n"))
	require.ErrorContains(t, err, "interval must be a duration or a mapping")
}
