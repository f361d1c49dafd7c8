// Package app wires configuration, schema loading, engines and exporters.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/neox5/gleanbox/engine"
	"github.com/neox5/gleanbox/internal/config"
	"github.com/neox5/gleanbox/internal/exporter"
	"github.com/neox5/gleanbox/internal/generator"
	"github.com/neox5/gleanbox/loader"
	"github.com/neox5/gleanbox/metrics"
)

// App holds initialized application components.
type App struct {
	Config             *config.Config
	Memory             *engine.Memory
	Root               *loader.Namespace
	Generator          *generator.Generator
	PrometheusExporter *exporter.PrometheusExporter
	OTELExporter       *exporter.OTELExporter
}

// New initializes the application from a resolved configuration.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	mem := engine.NewMemory()
	engines := []metrics.Engine{mem}

	a := &App{
		Config: cfg,
		Memory: mem,
	}

	if cfg.Export.OTELEnabled() {
		otelExporter, err := exporter.NewOTELExporter(ctx, cfg.Export.OTEL)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTEL exporter: %w", err)
		}
		otelEngine, err := engine.NewOTEL(otelExporter.Meter())
		if err != nil {
			return nil, fmt.Errorf("failed to create OTEL engine: %w", err)
		}
		a.OTELExporter = otelExporter
		engines = append(engines, otelEngine)
	}

	root, err := loader.LoadMetrics(
		cfg.Schema.AbsPaths(cfg.Dir),
		loader.WithConfig(cfg.Parser),
		loader.WithEngine(engine.NewTee(engines...)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}
	a.Root = root

	if cfg.Export.PrometheusEnabled() {
		a.PrometheusExporter, err = exporter.NewPrometheusExporter(cfg.Export.Prometheus, mem, root)
		if err != nil {
			return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
		}
	}

	if cfg.Simulation.Enabled {
		a.Generator, err = generator.New(&cfg.Simulation, root)
		if err != nil {
			return nil, fmt.Errorf("failed to create generator: %w", err)
		}
	}

	return a, nil
}

// Stats reports engine counters for the resource monitor.
func (a *App) Stats() []slog.Attr {
	return []slog.Attr{
		slog.Int("recorded", len(a.Memory.Snapshot())),
		slog.Int("submitted", len(a.Memory.Submissions())),
	}
}
