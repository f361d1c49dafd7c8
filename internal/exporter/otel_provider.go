package exporter

import (
	"context"
	"fmt"

	"github.com/neox5/gleanbox/internal/config"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// createMeterProvider creates an OTEL meter provider pushing over OTLP.
func createMeterProvider(ctx context.Context, cfg *config.OTELExportConfig) (*sdkmetric.MeterProvider, error) {
	res, err := createResource(ctx, cfg.Resource)
	if err != nil {
		return nil, err
	}

	exporter, err := createOTLPExporter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	reader := sdkmetric.NewPeriodicReader(
		exporter,
		sdkmetric.WithInterval(cfg.Interval.Push),
		sdkmetric.WithTimeout(cfg.Interval.Timeout),
	)

	return sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	), nil
}

// createOTLPExporter picks the OTLP transport.
func createOTLPExporter(ctx context.Context, cfg *config.OTELExportConfig) (sdkmetric.Exporter, error) {
	switch cfg.Transport {
	case config.TransportHTTP:
		opts := []otlpmetrichttp.Option{
			otlpmetrichttp.WithEndpoint(cfg.Endpoint()),
			otlpmetrichttp.WithInsecure(),
		}
		if len(cfg.Headers) > 0 {
			opts = append(opts, otlpmetrichttp.WithHeaders(cfg.Headers))
		}
		return otlpmetrichttp.New(ctx, opts...)

	default:
		opts := []otlpmetricgrpc.Option{
			otlpmetricgrpc.WithEndpoint(cfg.Endpoint()),
			otlpmetricgrpc.WithInsecure(),
		}
		if len(cfg.Headers) > 0 {
			opts = append(opts, otlpmetricgrpc.WithHeaders(cfg.Headers))
		}
		return otlpmetricgrpc.New(ctx, opts...)
	}
}

// createResource builds the OTEL resource from configured attributes.
func createResource(ctx context.Context, attrs map[string]string) (*resource.Resource, error) {
	kvs := make([]attribute.KeyValue, 0, len(attrs))
	for k, v := range attrs {
		kvs = append(kvs, attribute.String(k, v))
	}

	res, err := resource.New(ctx, resource.WithAttributes(kvs...))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}
