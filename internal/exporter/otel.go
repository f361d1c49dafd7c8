package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/neox5/gleanbox/internal/config"
	"github.com/neox5/gleanbox/internal/version"
	otelmetric "go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const meterName = "github.com/neox5/gleanbox"

// OTELExporter pushes recordings to an OTEL collector. Instruments are
// created by the OTEL engine on the exporter's meter.
type OTELExporter struct {
	config        *config.OTELExportConfig
	meterProvider *sdkmetric.MeterProvider
	meter         otelmetric.Meter
}

// NewOTELExporter creates a new OTEL exporter.
func NewOTELExporter(ctx context.Context, cfg *config.OTELExportConfig) (*OTELExporter, error) {
	mp, err := createMeterProvider(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create meter provider: %w", err)
	}

	return &OTELExporter{
		config:        cfg,
		meterProvider: mp,
		meter:         mp.Meter(meterName, otelmetric.WithInstrumentationVersion(version.String())),
	}, nil
}

// Meter returns the meter recordings are made on.
func (e *OTELExporter) Meter() otelmetric.Meter {
	return e.meter
}

// Start blocks until ctx is cancelled. The periodic reader pushes on its own.
func (e *OTELExporter) Start(ctx context.Context) error {
	slog.Info("starting otel exporter",
		"transport", e.config.Transport,
		"endpoint", e.config.Endpoint(),
		"push_interval", e.config.Interval.Push,
	)

	<-ctx.Done()
	return nil
}

// Stop flushes pending data and shuts the provider down.
func (e *OTELExporter) Stop() error {
	slog.Info("shutting down otel exporter")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return e.meterProvider.Shutdown(ctx)
}
