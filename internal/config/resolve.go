package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// resolveContext tracks resolution path for error messages
type resolveContext []string

func (ctx resolveContext) push(component, name string) resolveContext {
	return append(ctx, fmt.Sprintf("%s %q", component, name))
}

func (ctx resolveContext) error(msg string) error {
	if len(ctx) == 0 {
		return errors.New(msg)
	}

	var b strings.Builder
	b.WriteString(msg)
	// Print stack innermost first
	for i := len(ctx) - 1; i >= 0; i-- {
		b.WriteString("\n  in ")
		b.WriteString(ctx[i])
	}
	return errors.New(b.String())
}

var knownTransforms = []string{"accumulate"}

// Resolve applies defaults and expands iterators into the final config
func Resolve(raw *RawConfig) (*Config, error) {
	cfg := &Config{
		Schema: SchemaConfig{Paths: slices.Clone(raw.Schema.Paths)},
		Parser: make(map[string]any, len(raw.Parser)),
	}
	for k, v := range raw.Parser {
		cfg.Parser[k] = v
	}

	cfg.Export = resolveExport(raw.Export)
	if err := cfg.Export.Validate(); err != nil {
		return nil, fmt.Errorf("invalid export config: %w", err)
	}

	sim, err := resolveSimulation(raw.Simulation)
	if err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}
	cfg.Simulation = sim

	cfg.Settings = SettingsConfig{
		Monitor: MonitorConfig{
			Enabled:  raw.Settings.Monitor.Enabled,
			Interval: raw.Settings.Monitor.Interval,
		},
	}
	if err := cfg.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	return cfg, nil
}

func resolveExport(raw RawExportConfig) ExportConfig {
	var out ExportConfig
	if p := raw.Prometheus; p != nil {
		out.Prometheus = &PrometheusExportConfig{
			Enabled: p.Enabled,
			Port:    p.Port,
			Path:    p.Path,
		}
	}
	if o := raw.OTEL; o != nil {
		out.OTEL = &OTELExportConfig{
			Enabled:   o.Enabled,
			Transport: Transport(o.Transport),
			Host:      o.Host,
			Port:      o.Port,
			Interval:  IntervalConfig{Push: o.Interval.Push, Timeout: o.Interval.Timeout},
			Resource:  o.Resource,
			Headers:   o.Headers,
		}
	}
	return out
}

func resolveSimulation(raw RawSimulationConfig) (SimulationConfig, error) {
	out := SimulationConfig{
		Enabled:  raw.Enabled,
		Interval: raw.Interval,
	}
	if out.Interval == 0 {
		out.Interval = DefaultSimulationInterval
	}
	if out.Interval < 0 {
		return out, fmt.Errorf("interval must be positive")
	}

	iterators, err := buildIterators(raw.Iterators)
	if err != nil {
		return out, err
	}

	for _, m := range raw.Metrics {
		ctx := resolveContext{}.push("simulated metric", m.Metric)
		resolved, err := resolveSimulatedMetric(ctx, m, iterators)
		if err != nil {
			return out, err
		}
		out.Metrics = append(out.Metrics, resolved...)
	}

	for _, p := range raw.Pings {
		ctx := resolveContext{}.push("simulated ping", p.Ping)
		if p.Ping == "" {
			return out, ctx.error("ping name cannot be empty")
		}
		if p.Every <= 0 {
			return out, ctx.error("every must be a positive duration")
		}
		out.Pings = append(out.Pings, SimulatedPingConfig{
			Ping:   p.Ping,
			Every:  p.Every,
			Reason: p.Reason,
		})
	}

	return out, nil
}

// resolveSimulatedMetric validates m and expands its label pattern into one
// entry per label.
func resolveSimulatedMetric(ctx resolveContext, m RawSimulatedMetric, iterators iteratorSet) ([]SimulatedMetricConfig, error) {
	if m.Metric == "" {
		return nil, ctx.error("metric path cannot be empty")
	}
	if m.Min > m.Max {
		return nil, ctx.error(fmt.Sprintf("min %d greater than max %d", m.Min, m.Max))
	}
	for _, tf := range m.Transforms {
		if !slices.Contains(knownTransforms, tf) {
			return nil, ctx.error(fmt.Sprintf("unknown transform: %s", tf))
		}
	}

	labels := []string{""}
	if m.Label != "" {
		var err error
		labels, err = expandPattern(m.Label, iterators)
		if err != nil {
			return nil, ctx.push("label", m.Label).error(err.Error())
		}
	}

	out := make([]SimulatedMetricConfig, len(labels))
	for i, label := range labels {
		out[i] = SimulatedMetricConfig{
			Metric:     m.Metric,
			Label:      label,
			Min:        m.Min,
			Max:        m.Max,
			Transforms: slices.Clone(m.Transforms),
		}
	}
	return out, nil
}
